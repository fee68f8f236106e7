package splicing

// comparableTypes are the event types folded across transcript pairs, in
// bucket order.
var comparableTypes = []EventType{
	EventAI, EventAT, EventAFE, EventALE,
	EventCE, EventEI, EventII, EventIR, EventMXE,
	EventA3SS, EventA5SS,
}

// Container collects splicing events in one ordered bucket per type.
type Container struct {
	buckets map[EventType][]*Event
}

// NewContainer creates an empty container.
func NewContainer() *Container {
	return &Container{buckets: make(map[EventType][]*Event)}
}

// Append adds e to its bucket without checking for duplicates.
func (c *Container) Append(e *Event) {
	c.buckets[e.Type] = append(c.buckets[e.Type], e)
}

// Insert adds e unless an equal event is already present. Only intron
// retention, cassette exon and mutual exclusion events are accepted; other
// types are rejected. Returns true if e was added.
func (c *Container) Insert(e *Event) bool {
	switch e.Type {
	case EventIR, EventCE, EventMXE:
	default:
		return false
	}
	if c.find(e) != nil {
		return false
	}
	c.Append(e)
	return true
}

func (c *Container) find(e *Event) *Event {
	for _, existing := range c.buckets[e.Type] {
		if existing.Equal(e) {
			return existing
		}
	}
	return nil
}

// Events returns the events of one type in insertion order.
func (c *Container) Events(t EventType) []*Event {
	return c.buckets[t]
}

// All returns every event, grouped by type in reporting order.
func (c *Container) All() []*Event {
	var all []*Event
	for _, t := range EventTypes {
		all = append(all, c.buckets[t]...)
	}
	return all
}

// Len returns the total number of events.
func (c *Container) Len() int {
	n := 0
	for _, events := range c.buckets {
		n += len(events)
	}
	return n
}

// Counts returns the number of events per type.
func (c *Container) Counts() map[EventType]int {
	counts := make(map[EventType]int, len(c.buckets))
	for t, events := range c.buckets {
		if len(events) > 0 {
			counts[t] = len(events)
		}
	}
	return counts
}

// MergeInto folds the events of pair into gene. An event equal to one
// already in gene only contributes its transcript pairs (and, for
// boundary-flexible types, its span and features); the first registered
// event wins. Other events are copied into gene.
func MergeInto(gene, pair *Container) {
	for _, t := range comparableTypes {
		for _, candidate := range pair.buckets[t] {
			if existing := gene.find(candidate); existing != nil {
				existing.Merge(candidate)
				continue
			}
			gene.Append(candidate.Clone())
		}
	}
}
