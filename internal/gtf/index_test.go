package gtf

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/inodb/vibe-splice/internal/splicing"
)

func locus(id, chrom string, start, end int64) *Locus {
	return &Locus{
		Coordinates: splicing.Coordinates{Start: start, End: end},
		Gene:        &splicing.Gene{ID: id},
		Chrom:       chrom,
		Strand:      1,
	}
}

func ids(loci []*Locus) []string {
	var out []string
	for _, l := range loci {
		out = append(out, l.Gene.ID)
	}
	return out
}

func TestBuildIndex_Empty(t *testing.T) {
	idx := BuildIndex(nil)
	assert.Empty(t, idx.FindOverlaps("1", 1, 100))
	assert.Zero(t, idx.Len())
}

func TestIndex_Boundaries(t *testing.T) {
	idx := BuildIndex([]*Locus{locus("A", "1", 100, 200)})

	assert.Equal(t, []string{"A"}, ids(idx.FindOverlaps("1", 150, 150)))
	assert.Len(t, idx.FindOverlaps("1", 50, 100), 1, "start boundary inclusive")
	assert.Len(t, idx.FindOverlaps("1", 200, 300), 1, "end boundary inclusive")
	assert.Empty(t, idx.FindOverlaps("1", 1, 99), "before start")
	assert.Empty(t, idx.FindOverlaps("1", 201, 300), "after end")
	assert.Empty(t, idx.FindOverlaps("2", 150, 150), "other chromosome")
	assert.Len(t, idx.FindOverlaps("chr1", 150, 150), 1, "chr prefix")
}

func TestIndex_Overlapping(t *testing.T) {
	idx := BuildIndex([]*Locus{
		locus("C", "1", 200, 400),
		locus("A", "1", 100, 1000),
		locus("B", "1", 150, 250),
		locus("D", "1", 600, 700),
		locus("E", "2", 100, 1000),
	})

	assert.Equal(t, 5, idx.Len())
	assert.Equal(t, []string{"A", "B"}, ids(idx.FindOverlaps("1", 160, 175)))
	assert.Equal(t, []string{"A", "B", "C"}, ids(idx.FindOverlaps("1", 240, 260)))
	assert.Equal(t, []string{"A", "D"}, ids(idx.FindOverlaps("1", 500, 650)))
	assert.Equal(t, []string{"A"}, ids(idx.FindOverlaps("1", 800, 900)), "long locus is found past shorter ones")
}

func TestSortLoci(t *testing.T) {
	loci := []*Locus{
		locus("Y1", "Y", 10, 20),
		locus("B", "10", 10, 20),
		locus("A2", "2", 50, 60),
		locus("A1", "2", 10, 20),
		locus("X1", "X", 10, 20),
	}
	SortLoci(loci)
	assert.Equal(t, []string{"A1", "A2", "B", "X1", "Y1"}, ids(loci))
}
