package splicing

import (
	"fmt"
	"strings"
)

// EventType tags a splicing event.
type EventType uint8

const (
	EventAI   EventType = iota // alternative initiation
	EventAT                    // alternative termination
	EventAFE                   // alternative first exon
	EventALE                   // alternative last exon
	EventEI                    // exon isoform
	EventII                    // intron isoform
	EventIR                    // intron retention
	EventCE                    // cassette exon
	EventMXE                   // mutually exclusive exons
	EventA3SS                  // alternative 3' splice site
	EventA5SS                  // alternative 5' splice site
	EventCNE                   // constitutive exon
	EventCNR                   // constitutive region
)

var eventTypeCodes = [...]string{
	EventAI:   "AI",
	EventAT:   "AT",
	EventAFE:  "AFE",
	EventALE:  "ALE",
	EventEI:   "EI",
	EventII:   "II",
	EventIR:   "IR",
	EventCE:   "CE",
	EventMXE:  "MXE",
	EventA3SS: "A3SS",
	EventA5SS: "A5SS",
	EventCNE:  "CNE",
	EventCNR:  "CNR",
}

var eventTypeNames = [...]string{
	EventAI:   "alternative initiation",
	EventAT:   "alternative termination",
	EventAFE:  "alternative first exon",
	EventALE:  "alternative last exon",
	EventEI:   "exon isoform",
	EventII:   "intron isoform",
	EventIR:   "intron retention",
	EventCE:   "cassette exon",
	EventMXE:  "mutual exclusion",
	EventA3SS: "alternative 3' splice site",
	EventA5SS: "alternative 5' splice site",
	EventCNE:  "constitutive exon",
	EventCNR:  "constitutive region",
}

// EventTypes lists every event type in reporting order.
var EventTypes = []EventType{
	EventAI, EventAT, EventAFE, EventALE, EventEI, EventII, EventIR,
	EventCE, EventMXE, EventA3SS, EventA5SS, EventCNE, EventCNR,
}

// String returns the short type code (e.g., "CE").
func (t EventType) String() string {
	if int(t) < len(eventTypeCodes) {
		return eventTypeCodes[t]
	}
	return fmt.Sprintf("EventType(%d)", uint8(t))
}

// Name returns the descriptive name (e.g., "cassette exon").
func (t EventType) Name() string {
	if int(t) < len(eventTypeNames) {
		return eventTypeNames[t]
	}
	return t.String()
}

// BoundaryFlexible returns true for types whose span and feature sets grow
// when equivalent events are merged.
func (t EventType) BoundaryFlexible() bool {
	switch t {
	case EventAI, EventAT, EventAFE, EventALE:
		return true
	default:
		return false
	}
}

// ParseEventType parses a short type code, case-insensitively.
func ParseEventType(s string) (EventType, error) {
	for i, code := range eventTypeCodes {
		if strings.EqualFold(code, s) {
			return EventType(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event type %q", s)
}

// SiteKind distinguishes intron and exon sites.
type SiteKind uint8

const (
	SiteIntron SiteKind = 0
	SiteExon   SiteKind = 1
)

// Site is the raw interval of a feature taking part in an event.
type Site struct {
	Kind  SiteKind
	Start int64
	End   int64
}

// String renders the site as e(start-end) or i(start-end).
func (s Site) String() string {
	k := "e"
	if s.Kind == SiteIntron {
		k = "i"
	}
	return fmt.Sprintf("%s(%d-%d)", k, s.Start, s.End)
}

func sitesEqual(a, b []Site) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// TranscriptPair is an ordered pair of transcripts showing an event.
type TranscriptPair struct {
	First  *Transcript
	Second *Transcript
}

func (p TranscriptPair) same(o TranscriptPair) bool {
	return p.First.ID == o.First.ID && p.Second.ID == o.Second.ID
}

// Event is a splicing event found between transcripts of a gene.
type Event struct {
	Coordinates
	Chrom  string
	Strand int8
	Gene   *Gene
	Type   EventType

	SetA   []*TranscriptFeature
	SetB   []*TranscriptFeature
	SitesA []Site
	SitesB []Site

	ConstitutiveExons []*TranscriptFeature
	ConstitutiveSites []Site

	Pairs []TranscriptPair
}

func newEvent(t EventType, gene *Gene, chrom string, strand int8, start, end int64) *Event {
	return &Event{
		Coordinates: Coordinates{Start: start, End: end},
		Chrom:       chrom,
		Strand:      strand,
		Gene:        gene,
		Type:        t,
	}
}

// GeneID returns the gene identifier, or "" if unset.
func (e *Event) GeneID() string {
	if e.Gene == nil {
		return ""
	}
	return e.Gene.ID
}

func (e *Event) addA(f *TranscriptFeature) {
	e.SetA = append(e.SetA, f)
	e.SitesA = append(e.SitesA, f.site())
}

func (e *Event) addB(f *TranscriptFeature) {
	e.SetB = append(e.SetB, f)
	e.SitesB = append(e.SitesB, f.site())
}

func (e *Event) addConstitutive(f *TranscriptFeature) {
	e.ConstitutiveExons = append(e.ConstitutiveExons, f)
	e.ConstitutiveSites = append(e.ConstitutiveSites, f.site())
}

// AddPair records a transcript pair, ignoring pairs already present.
func (e *Event) AddPair(first, second *Transcript) {
	p := TranscriptPair{First: first, Second: second}
	for _, existing := range e.Pairs {
		if existing.same(p) {
			return
		}
	}
	e.Pairs = append(e.Pairs, p)
}

// PairMembers returns the identifiers of the transcripts in the event's
// pairs: first elements, second elements, or both.
func (e *Event) PairMembers(first, second bool) map[string]bool {
	ids := make(map[string]bool, 2*len(e.Pairs))
	for _, p := range e.Pairs {
		if first {
			ids[p.First.ID] = true
		}
		if second {
			ids[p.Second.ID] = true
		}
	}
	return ids
}

func (e *Event) sameLocus(o *Event) bool {
	return e.Chrom == o.Chrom && e.Strand == o.Strand && e.GeneID() == o.GeneID()
}

// Equal reports whether o describes the same event as e.
func (e *Event) Equal(o *Event) bool {
	if e.Type != o.Type || e.GeneID() != o.GeneID() {
		return false
	}

	forward := e.Strand == 1
	switch e.Type {
	case EventAI:
		// shared 3' boundary
		if !e.sameLocus(o) {
			return false
		}
		if forward {
			return e.End == o.End
		}
		return e.Start == o.Start
	case EventAT:
		// shared 5' boundary
		if !e.sameLocus(o) {
			return false
		}
		if forward {
			return e.Start == o.Start
		}
		return e.End == o.End
	case EventAFE:
		if !e.sameLocus(o) || !e.sameConstitutiveFlank(o) {
			return false
		}
		if forward {
			return e.End == o.End
		}
		return e.Start == o.Start
	case EventALE:
		if !e.sameLocus(o) || !e.sameConstitutiveFlank(o) {
			return false
		}
		if forward {
			return e.Start == o.Start
		}
		return e.End == o.End
	}

	if e.Coordinates != o.Coordinates {
		return false
	}
	if len(e.SitesA) != len(o.SitesA) || len(e.SitesB) != len(o.SitesB) {
		return false
	}
	return (sitesEqual(e.SitesA, o.SitesA) && sitesEqual(e.SitesB, o.SitesB)) ||
		(sitesEqual(e.SitesA, o.SitesB) && sitesEqual(e.SitesB, o.SitesA))
}

func (e *Event) sameConstitutiveFlank(o *Event) bool {
	if len(e.ConstitutiveSites) == 0 || len(o.ConstitutiveSites) == 0 {
		return false
	}
	return e.ConstitutiveSites[0] == o.ConstitutiveSites[0]
}

// Merge folds an equivalent event into e. Transcript pairs are unioned;
// boundary-flexible types also widen their span and union their feature
// sets by identifier.
func (e *Event) Merge(o *Event) {
	for _, p := range o.Pairs {
		e.AddPair(p.First, p.Second)
	}

	if !e.Type.BoundaryFlexible() {
		return
	}

	e.Widen(o.Coordinates)
	e.SetA, e.SitesA = mergeFeatures(e.SetA, e.SitesA, o.SetA)
	e.SetB, e.SitesB = mergeFeatures(e.SetB, e.SitesB, o.SetB)
	e.ConstitutiveExons, e.ConstitutiveSites = mergeFeatures(e.ConstitutiveExons, e.ConstitutiveSites, o.ConstitutiveExons)
}

func mergeFeatures(set []*TranscriptFeature, sites []Site, add []*TranscriptFeature) ([]*TranscriptFeature, []Site) {
	for _, f := range add {
		if containsFeature(set, f) {
			continue
		}
		set = append(set, f)
		sites = append(sites, f.site())
	}
	return set, sites
}

func containsFeature(set []*TranscriptFeature, f *TranscriptFeature) bool {
	for _, existing := range set {
		if existing == f || (f.ID != "" && existing.ID == f.ID) {
			return true
		}
	}
	return false
}

// Clone returns a copy of e whose slices can be modified independently.
// Features and transcripts are shared.
func (e *Event) Clone() *Event {
	c := *e
	c.SetA = append([]*TranscriptFeature(nil), e.SetA...)
	c.SetB = append([]*TranscriptFeature(nil), e.SetB...)
	c.SitesA = append([]Site(nil), e.SitesA...)
	c.SitesB = append([]Site(nil), e.SitesB...)
	c.ConstitutiveExons = append([]*TranscriptFeature(nil), e.ConstitutiveExons...)
	c.ConstitutiveSites = append([]Site(nil), e.ConstitutiveSites...)
	c.Pairs = append([]TranscriptPair(nil), e.Pairs...)
	return &c
}
