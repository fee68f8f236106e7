package splicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func cassettePair(t *testing.T) (*Container, *Transcript, *Transcript) {
	t.Helper()
	p := newPool("G1", 1)
	t1 := p.transcript("T1", [2]int64{1, 100}, [2]int64{201, 300}, [2]int64{401, 500})
	t2 := p.transcript("T2", [2]int64{1, 100}, [2]int64{401, 500})
	c, err := compute(t1, t2, false)
	require.NoError(t, err)
	return c, t1, t2
}

func TestMergeIntoIdempotent(t *testing.T) {
	pair, _, _ := cassettePair(t)
	gene := NewContainer()

	MergeInto(gene, pair)
	MergeInto(gene, pair)

	ce := gene.Events(EventCE)
	require.Len(t, ce, 1)
	assert.Len(t, ce[0].Pairs, 1)
	assert.Equal(t, Coordinates{Start: 101, End: 400}, ce[0].Coordinates)
	assert.Equal(t, 1, gene.Len())
}

func TestMergeIntoCopiesEvents(t *testing.T) {
	pair, _, _ := cassettePair(t)
	gene := NewContainer()
	MergeInto(gene, pair)

	require.Len(t, gene.Events(EventCE), 1)
	assert.NotSame(t, pair.Events(EventCE)[0], gene.Events(EventCE)[0])
}

func TestMergeIntoCollectsPairs(t *testing.T) {
	p := newPool("G1", 1)
	t1 := p.transcript("T1", [2]int64{1, 100}, [2]int64{201, 300}, [2]int64{401, 500})
	t2 := p.transcript("T2", [2]int64{1, 100}, [2]int64{401, 500})
	t3 := p.transcript("T3", [2]int64{1, 100}, [2]int64{401, 500}, [2]int64{601, 700})
	t4 := p.transcript("T4", [2]int64{1, 100}, [2]int64{201, 300}, [2]int64{401, 500}, [2]int64{601, 700})

	gene := NewContainer()
	for _, pr := range [][2]*Transcript{{t1, t2}, {t3, t4}} {
		c, err := compute(pr[0], pr[1], false)
		require.NoError(t, err)
		MergeInto(gene, c)
	}

	ce := gene.Events(EventCE)
	require.Len(t, ce, 1)
	require.Len(t, ce[0].Pairs, 2)
	assert.Equal(t, "T2", ce[0].Pairs[0].First.ID)
	assert.Equal(t, "T3", ce[0].Pairs[1].First.ID)
}

func TestMergeIntoWidensAlternativeInitiation(t *testing.T) {
	p := newPool("G1", 1)
	t1 := p.transcript("T1", [2]int64{1, 100}, [2]int64{201, 300})
	t2 := p.transcript("T2", [2]int64{51, 100}, [2]int64{201, 300})
	t3 := p.transcript("T3", [2]int64{31, 100}, [2]int64{201, 300})

	gene := NewContainer()
	for _, pr := range [][2]*Transcript{{t2, t3}, {t1, t2}, {t1, t3}} {
		c, err := compute(pr[0], pr[1], false)
		require.NoError(t, err)
		MergeInto(gene, c)
	}

	ai := gene.Events(EventAI)
	require.Len(t, ai, 1)
	ev := ai[0]
	assert.Equal(t, Coordinates{Start: 1, End: 100}, ev.Coordinates)
	assert.Len(t, ev.Pairs, 3)
	assert.ElementsMatch(t, []string{"E1-100", "E31-100", "E51-100"}, featureIDs(ev.SetA))
	assert.Len(t, ev.SitesA, 3)
}

func TestContainerInsert(t *testing.T) {
	p := newPool("G1", 1)
	tr := p.transcript("T1", [2]int64{1, 100})

	ce := newEvent(EventCE, p.gene, "1", 1, 101, 400)
	ce.addA(p.exon(201, 300))
	ce.AddPair(tr, tr)

	c := NewContainer()
	assert.True(t, c.Insert(ce))
	assert.False(t, c.Insert(ce.Clone()))

	ei := newEvent(EventEI, p.gene, "1", 1, 101, 400)
	assert.False(t, c.Insert(ei))
	c.Append(ei)
	c.Append(ei.Clone())

	assert.Equal(t, 3, c.Len())
	assert.Equal(t, map[EventType]int{EventCE: 1, EventEI: 2}, c.Counts())
	all := c.All()
	require.Len(t, all, 3)
	assert.Equal(t, EventEI, all[0].Type)
	assert.Equal(t, EventCE, all[2].Type)
}

func TestEventEqual(t *testing.T) {
	gene := &Gene{ID: "G1"}
	sitesX := []Site{{Kind: SiteExon, Start: 10, End: 20}}
	sitesY := []Site{{Kind: SiteExon, Start: 30, End: 40}}

	mk := func(t EventType, strand int8, start, end int64, a, b []Site) *Event {
		ev := newEvent(t, gene, "1", strand, start, end)
		ev.SitesA, ev.SitesB = a, b
		return ev
	}

	tests := []struct {
		name string
		a, b *Event
		want bool
	}{
		{"same sites", mk(EventEI, 1, 10, 40, sitesX, sitesY), mk(EventEI, 1, 10, 40, sitesX, sitesY), true},
		{"swapped sites", mk(EventEI, 1, 10, 40, sitesX, sitesY), mk(EventEI, 1, 10, 40, sitesY, sitesX), true},
		{"different span", mk(EventEI, 1, 10, 40, sitesX, sitesY), mk(EventEI, 1, 10, 41, sitesX, sitesY), false},
		{"different type", mk(EventEI, 1, 10, 40, sitesX, sitesY), mk(EventII, 1, 10, 40, sitesX, sitesY), false},
		{"different sites", mk(EventEI, 1, 10, 40, sitesX, sitesY), mk(EventEI, 1, 10, 40, sitesX, sitesX), false},
		{"site count", mk(EventCE, 1, 10, 40, sitesX, nil), mk(EventCE, 1, 10, 40, append(sitesX, sitesY...), nil), false},
		{"ai forward shares end", mk(EventAI, 1, 1, 100, sitesX, nil), mk(EventAI, 1, 31, 100, sitesY, nil), true},
		{"ai forward different end", mk(EventAI, 1, 1, 100, nil, nil), mk(EventAI, 1, 1, 90, nil, nil), false},
		{"ai reverse shares start", mk(EventAI, -1, 1, 100, nil, nil), mk(EventAI, -1, 1, 150, nil, nil), true},
		{"at forward shares start", mk(EventAT, 1, 1, 100, nil, nil), mk(EventAT, 1, 1, 150, nil, nil), true},
		{"at reverse shares end", mk(EventAT, -1, 1, 100, nil, nil), mk(EventAT, -1, 20, 100, nil, nil), true},
		{"at forward different start", mk(EventAT, 1, 1, 100, nil, nil), mk(EventAT, 1, 2, 100, nil, nil), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.a.Equal(tt.b))
		})
	}
}

func TestEventEqualTerminalExons(t *testing.T) {
	gene := &Gene{ID: "G1"}
	flank := NewExon("C", "1", 301, 400, 1)
	otherFlank := NewExon("D", "1", 311, 400, 1)

	mk := func(t EventType, start, end int64, c *TranscriptFeature) *Event {
		ev := newEvent(t, gene, "1", 1, start, end)
		ev.addConstitutive(c)
		return ev
	}

	assert.True(t, mk(EventAFE, 1, 200, flank).Equal(mk(EventAFE, 51, 200, flank)))
	assert.False(t, mk(EventAFE, 1, 200, flank).Equal(mk(EventAFE, 1, 210, flank)))
	assert.False(t, mk(EventAFE, 1, 200, flank).Equal(mk(EventAFE, 1, 200, otherFlank)))
	assert.True(t, mk(EventALE, 401, 600, flank).Equal(mk(EventALE, 401, 650, flank)))
	assert.False(t, mk(EventALE, 401, 600, flank).Equal(mk(EventALE, 402, 600, flank)))
}

func TestParseEventType(t *testing.T) {
	et, err := ParseEventType("mxe")
	require.NoError(t, err)
	assert.Equal(t, EventMXE, et)
	assert.Equal(t, "MXE", et.String())
	assert.Equal(t, "mutual exclusion", et.Name())

	_, err = ParseEventType("XYZ")
	assert.Error(t, err)

	assert.True(t, EventAFE.BoundaryFlexible())
	assert.False(t, EventCE.BoundaryFlexible())
}
