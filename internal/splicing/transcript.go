package splicing

import (
	"fmt"
	"sort"
)

// Gene identifies the gene a transcript belongs to.
type Gene struct {
	ID   string // Gene identifier (e.g., ENSG00000133703)
	Name string // Gene symbol (e.g., KRAS)
}

// Transcript is a gene isoform built from shared exons.
type Transcript struct {
	Coordinates        // Min exon start, max exon end
	ID          string // Transcript ID (e.g., ENST00000311936)
	Chrom       string // Chromosome
	Strand      int8   // +1 or -1
	Gene        *Gene  // Parent gene
	Biotype     string // Transcript biotype

	exons    []*TranscriptFeature // genomic order
	features []*TranscriptFeature // transcription order, rebuilt lazily
}

// NewTranscript creates a transcript with no exons.
func NewTranscript(id, chrom string, strand int8, gene *Gene) *Transcript {
	return &Transcript{
		ID:     id,
		Chrom:  chrom,
		Strand: strand,
		Gene:   gene,
	}
}

// AddExon attaches an exon to the transcript, keeping exons in genomic
// order and the transcript boundaries up to date.
func (t *Transcript) AddExon(e *TranscriptFeature) {
	if len(t.exons) == 0 {
		t.Start, t.End = e.Start, e.End
	} else {
		t.Widen(e.Coordinates)
	}

	idx := sort.Search(len(t.exons), func(i int) bool {
		return t.exons[i].Start > e.Start
	})
	t.exons = append(t.exons, nil)
	copy(t.exons[idx+1:], t.exons[idx:])
	t.exons[idx] = e

	e.addTranscript(t)
	t.features = nil
}

// Exons returns the exons in genomic (left-to-right) order.
func (t *Transcript) Exons() []*TranscriptFeature {
	return t.exons
}

// ExonCount returns the number of exons.
func (t *Transcript) ExonCount() int {
	return len(t.exons)
}

// GeneID returns the parent gene identifier, or "" if unset.
func (t *Transcript) GeneID() string {
	if t.Gene == nil {
		return ""
	}
	return t.Gene.ID
}

// IsForwardStrand returns true if the transcript is on the forward strand.
func (t *Transcript) IsForwardStrand() bool {
	return t.Strand == 1
}

// Features returns exons interleaved with synthesized introns in
// transcription order (5' to 3'). A transcript with n exons yields 2n-1
// features; index 0 is always the first transcribed exon.
func (t *Transcript) Features() []*TranscriptFeature {
	if t.features != nil || len(t.exons) == 0 {
		return t.features
	}

	n := len(t.exons)
	ordered := make([]*TranscriptFeature, n)
	for i, e := range t.exons {
		if t.IsForwardStrand() {
			ordered[i] = e
		} else {
			ordered[n-1-i] = e
		}
	}

	features := make([]*TranscriptFeature, 0, 2*n-1)
	for i, cur := range ordered {
		if i > 0 {
			last := ordered[i-1]
			var start, end int64
			if t.IsForwardStrand() {
				start, end = last.End+1, cur.Start-1
			} else {
				start, end = cur.End+1, last.Start-1
			}
			intron := newIntron(fmt.Sprintf("intron%d-%d", i, i+1), t.Chrom, start, end, t.Strand, t)
			intron.Index = len(features)
			features = append(features, intron)
		}
		features = append(features, cur)
	}

	t.features = features
	return features
}
