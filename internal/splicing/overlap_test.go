package splicing

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassifyOverlap(t *testing.T) {
	tests := []struct {
		name         string
		start1, end1 int64
		start2, end2 int64
		want         OverlapCode
	}{
		{"identical", 10, 20, 10, 20, ID5PID3P},
		{"same 5p different 3p", 10, 20, 10, 25, ID5PDiff3P},
		{"different 5p same 3p", 15, 20, 10, 20, Diff5PID3P},
		{"first contains second", 10, 30, 15, 20, PartOf},
		{"second contains first", 15, 20, 10, 30, PartOf},
		{"partial overlap", 10, 20, 15, 25, Overlap},
		{"disjoint", 10, 20, 25, 30, NoOverlap},
		{"adjacent", 10, 20, 21, 30, NoOverlap},
		{"single base", 10, 20, 20, 30, Overlap},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyOverlap(tt.start1, tt.end1, tt.start2, tt.end2))
		})
	}
}

func TestOverlapCodeBits(t *testing.T) {
	for _, c := range []OverlapCode{Overlap, PartOf, ID5PDiff3P, Diff5PID3P, ID5PID3P} {
		assert.True(t, c.Has(Overlap), c.String())
	}
	assert.True(t, ID5PDiff3P.Has(ID5P))
	assert.False(t, ID5PDiff3P.Has(ID3P))
	assert.True(t, Diff5PID3P.Has(ID3P))
	assert.False(t, PartOf.Has(ID5P))
	assert.False(t, NoOverlap.Has(Overlap))
}

func TestProjection(t *testing.T) {
	fwd := projection{strand: 1, ref: 100}
	c := Coordinates{Start: 150, End: 200}
	assert.Equal(t, int64(51), fwd.relStart(c))
	assert.Equal(t, int64(101), fwd.relEnd(c))

	// On the reverse strand the genomic end is the transcription start.
	rev := projection{strand: -1, ref: 300}
	assert.Equal(t, int64(101), rev.relStart(c))
	assert.Equal(t, int64(151), rev.relEnd(c))

	// Same 3' end on the reverse strand means same genomic start.
	assert.Equal(t, Diff5PID3P, rev.compare(Coordinates{Start: 150, End: 180}, Coordinates{Start: 150, End: 200}))
}
