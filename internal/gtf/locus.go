package gtf

import (
	"sort"
	"strconv"

	"github.com/inodb/vibe-splice/internal/splicing"
)

// Locus is a gene with its transcripts, ready for event detection.
// Coordinates are the union of the transcript spans; Transcripts are sorted
// by identifier.
type Locus struct {
	splicing.Coordinates
	Gene        *splicing.Gene
	Chrom       string
	Strand      int8
	Transcripts []*splicing.Transcript
}

// IsForwardStrand returns true if the locus is on the forward strand.
func (l *Locus) IsForwardStrand() bool {
	return l.Strand == 1
}

// SortLoci orders loci by chromosome (numeric names first), start and gene
// identifier.
func SortLoci(loci []*Locus) {
	sort.Slice(loci, func(i, j int) bool {
		a, b := loci[i], loci[j]
		if a.Chrom != b.Chrom {
			return chromLess(a.Chrom, b.Chrom)
		}
		if a.Start != b.Start {
			return a.Start < b.Start
		}
		return a.Gene.ID < b.Gene.ID
	})
}

func chromLess(a, b string) bool {
	na, errA := strconv.Atoi(a)
	nb, errB := strconv.Atoi(b)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
