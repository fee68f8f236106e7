// Package output provides splicing event output formatters.
package output

import (
	"fmt"
	"strings"

	"github.com/inodb/vibe-splice/internal/splicing"
)

// Attribute is a type-specific key/value pair reported with an event.
type Attribute struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Record is a splicing event flattened for reporting and storage.
type Record struct {
	EventID           string   `json:"event_id"`
	GeneID            string   `json:"gene_id"`
	GeneName          string   `json:"gene_name,omitempty"`
	Type              string   `json:"type"`
	Chrom             string   `json:"chrom"`
	Start             int64    `json:"start"`
	End               int64    `json:"end"`
	Strand            int8     `json:"strand"`
	FeaturesA         []string `json:"features_a,omitempty"` // id[tx1:tx2]
	FeaturesB         []string `json:"features_b,omitempty"`
	SitesA            []string `json:"sites_a,omitempty"` // e(start-end) or i(start-end)
	SitesB            []string `json:"sites_b,omitempty"`
	ConstitutiveExons []string `json:"constitutive_exons,omitempty"`
	ConstitutiveSites []string `json:"constitutive_sites,omitempty"`
	Pairs             []string `json:"pairs,omitempty"` // first,second

	Attributes []Attribute `json:"attributes,omitempty"`
}

// NewRecord flattens ev under the given event identifier.
func NewRecord(ev *splicing.Event, eventID string) Record {
	r := Record{
		EventID: eventID,
		GeneID:  ev.GeneID(),
		Type:    ev.Type.String(),
		Chrom:   ev.Chrom,
		Start:   ev.Start,
		End:     ev.End,
		Strand:  ev.Strand,
	}
	if ev.Gene != nil {
		r.GeneName = ev.Gene.Name
	}

	// Features of set A are supported by the first transcript of each pair;
	// for AI, AT and CE both transcripts of a pair carry set A.
	secondsCarryA := ev.Type == splicing.EventAI || ev.Type == splicing.EventAT || ev.Type == splicing.EventCE
	r.FeaturesA = featureRefs(ev.SetA, ev.PairMembers(true, secondsCarryA))
	r.FeaturesB = featureRefs(ev.SetB, ev.PairMembers(false, true))

	r.SitesA = siteStrings(ev.SitesA)
	r.SitesB = siteStrings(ev.SitesB)
	r.ConstitutiveSites = siteStrings(ev.ConstitutiveSites)
	for _, f := range ev.ConstitutiveExons {
		r.ConstitutiveExons = append(r.ConstitutiveExons, f.ID)
	}
	for _, p := range ev.Pairs {
		r.Pairs = append(r.Pairs, p.First.ID+","+p.Second.ID)
	}

	r.Attributes = attributes(ev)
	return r
}

func featureRefs(fs []*splicing.TranscriptFeature, support map[string]bool) []string {
	var refs []string
	for _, f := range fs {
		refs = append(refs, fmt.Sprintf("%s[%s]", f.ID, strings.Join(f.SupportedBy(support), ":")))
	}
	return refs
}

func siteStrings(sites []splicing.Site) []string {
	var out []string
	for _, s := range sites {
		out = append(out, s.String())
	}
	return out
}

// attributes returns the type-specific extras: the number of cassette
// exons, retained introns, or the splice site shifts in base pairs.
func attributes(ev *splicing.Event) []Attribute {
	switch ev.Type {
	case splicing.EventCE:
		return []Attribute{{"NbCrypticExons", fmt.Sprint(len(ev.SetA))}}
	case splicing.EventIR:
		if len(ev.SetB) == 0 {
			return nil
		}
		return []Attribute{{"NbIntrons", fmt.Sprint(len(ev.SetB) - 1)}}
	}

	if len(ev.SetA) == 0 || len(ev.SetB) == 0 {
		return nil
	}
	a, b := ev.SetA[0], ev.SetB[0]
	startShift := fmt.Sprintf("%dbp", abs(a.Start-b.Start))
	endShift := fmt.Sprintf("%dbp", abs(a.End-b.End))

	// The 3' splice site of an exon is its transcription start.
	shift3p, shift5p := startShift, endShift
	if ev.Strand != 1 {
		shift3p, shift5p = endShift, startShift
	}

	switch ev.Type {
	case splicing.EventEI:
		return []Attribute{{"3pModification", shift3p}, {"5pModification", shift5p}}
	case splicing.EventA3SS:
		return []Attribute{{"3pModification", shift3p}}
	case splicing.EventA5SS:
		return []Attribute{{"5pModification", shift5p}}
	}
	return nil
}

func abs(x int64) int64 {
	if x < 0 {
		return -x
	}
	return x
}

// Numberer assigns event identifiers of the form {gene}-{TYPE}-{n}, where n
// counts events of one type within a locus starting at 1. A gene identifier
// already used by an earlier locus (PAR genes on X and Y) is suffixed with
// the chromosome of the new locus: {gene}_{chrom}-{TYPE}-{n}.
type Numberer struct {
	gene, chrom string
	prefix      string
	used        map[string]bool
	next        map[splicing.EventType]int
}

// NewNumberer creates a numberer.
func NewNumberer() *Numberer {
	return &Numberer{
		used: make(map[string]bool),
		next: make(map[splicing.EventType]int),
	}
}

// Locus starts numbering the events of a new gene locus.
func (n *Numberer) Locus(gene, chrom string) {
	n.gene, n.chrom = gene, chrom
	n.prefix = ""
	clear(n.next)
}

// Next returns the identifier of the next event of type t in the current
// locus.
func (n *Numberer) Next(t splicing.EventType) string {
	if n.prefix == "" {
		n.prefix = n.claimPrefix()
	}
	n.next[t]++
	return fmt.Sprintf("%s-%s-%d", n.prefix, t, n.next[t])
}

// claimPrefix picks the first identifier prefix of the current locus not
// used by an earlier locus. Loci without events claim nothing.
func (n *Numberer) claimPrefix() string {
	prefix := n.gene
	if n.used[prefix] {
		prefix = n.gene + "_" + n.chrom
	}
	for i := 2; n.used[prefix]; i++ {
		prefix = fmt.Sprintf("%s_%s_%d", n.gene, n.chrom, i)
	}
	n.used[prefix] = true
	return prefix
}

// GeneRecords flattens the events of one gene locus in reporting order.
func GeneRecords(gene, chrom string, events []*splicing.Event, n *Numberer) []Record {
	n.Locus(gene, chrom)
	records := make([]Record, 0, len(events))
	for _, ev := range events {
		records = append(records, NewRecord(ev, n.Next(ev.Type)))
	}
	return records
}
