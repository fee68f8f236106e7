package detect

import "github.com/inodb/vibe-splice/internal/splicing"

// Stats summarizes a detection run.
type Stats struct {
	Genes                int
	MultiTranscriptGenes int
	GenesWithEvents      int // Genes with at least one alternative (non-CNE) event
	AbortedGenes         int
	SkippedPairs         int
	Events               map[splicing.EventType]int
}

// NewStats creates empty statistics.
func NewStats() *Stats {
	return &Stats{Events: make(map[splicing.EventType]int)}
}

// Add accumulates one gene result.
func (s *Stats) Add(r *GeneResult) {
	s.Genes++
	if len(r.Locus.Transcripts) > 1 {
		s.MultiTranscriptGenes++
	}
	s.SkippedPairs += r.SkippedPairs
	if r.Err != nil {
		s.AbortedGenes++
		return
	}

	alternative := false
	for t, n := range r.Events.Counts() {
		s.Events[t] += n
		if t != splicing.EventCNE {
			alternative = true
		}
	}
	if alternative {
		s.GenesWithEvents++
	}
}

// AlternativeEvents returns the number of events other than constitutive
// exons.
func (s *Stats) AlternativeEvents() int {
	return s.TotalEvents() - s.Events[splicing.EventCNE]
}

// TotalEvents returns the number of events of all types.
func (s *Stats) TotalEvents() int {
	n := 0
	for _, c := range s.Events {
		n += c
	}
	return n
}
