package splicing

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildMatrix(t *testing.T) {
	p := newPool("G1", 1)
	t1 := p.transcript("T1", [2]int64{1, 100}, [2]int64{201, 300}, [2]int64{401, 500})
	t2 := p.transcript("T2", [2]int64{1, 100}, [2]int64{401, 500})

	m, err := BuildMatrix(t1, t2)
	require.NoError(t, err)

	assert.Equal(t, 5, m.Rows())
	assert.Equal(t, 3, m.Cols())
	assert.Equal(t, ID5PID3P, m.At(0, 0))
	assert.Equal(t, ID5PDiff3P, m.At(1, 1))
	assert.Equal(t, PartOf, m.At(2, 1))
	assert.Equal(t, Diff5PID3P, m.At(3, 1))
	assert.Equal(t, ID5PID3P, m.At(4, 2))
	assert.Equal(t, NoOverlap, m.At(2, 2))
	assert.Same(t, t1, m.TranscriptA())
	assert.Same(t, t2, m.TranscriptB())
}

func TestBuildMatrixReverseStrand(t *testing.T) {
	p := newPool("G1", -1)
	t1 := p.transcript("T1", [2]int64{1, 100}, [2]int64{201, 300}, [2]int64{401, 500})
	t2 := p.transcript("T2", [2]int64{1, 100}, [2]int64{401, 500})

	m, err := BuildMatrix(t1, t2)
	require.NoError(t, err)

	// Row 0 is the 5'-most exon, 401-500 on the reverse strand.
	assert.Equal(t, ID5PID3P, m.At(0, 0))
	assert.Equal(t, ID5PDiff3P, m.At(1, 1))
	assert.Equal(t, PartOf, m.At(2, 1))
	assert.Equal(t, Diff5PID3P, m.At(3, 1))
}

func TestBuildMatrixInvalidPair(t *testing.T) {
	p := newPool("G1", 1)
	t1 := p.transcript("T1", [2]int64{1, 100})

	other := newPool("G2", 1)
	tests := []struct {
		name string
		b    *Transcript
	}{
		{"no exons", NewTranscript("T2", "1", 1, p.gene)},
		{"other gene", other.transcript("T3", [2]int64{1, 100})},
		{"other strand", func() *Transcript {
			tr := NewTranscript("T4", "1", -1, p.gene)
			tr.AddExon(NewExon("X", "1", 1, 100, -1))
			return tr
		}()},
		{"other chromosome", func() *Transcript {
			tr := NewTranscript("T5", "2", 1, p.gene)
			tr.AddExon(NewExon("Y", "2", 1, 100, 1))
			return tr
		}()},
		{"nil", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildMatrix(t1, tt.b)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidTranscriptPair))
		})
	}
}

func TestMatrixAtOutOfRange(t *testing.T) {
	p := newPool("G1", 1)
	t1 := p.transcript("T1", [2]int64{1, 100})
	t2 := p.transcript("T2", [2]int64{1, 100})

	m, err := BuildMatrix(t1, t2)
	require.NoError(t, err)
	assert.Panics(t, func() { m.At(1, 0) })
	assert.Panics(t, func() { m.At(0, -1) })
}

func TestComputeSplicingEventsInvariantError(t *testing.T) {
	p := newPool("G1", 1)
	t1 := p.transcript("T1", [2]int64{1, 100}, [2]int64{201, 300})
	t2 := p.transcript("T2", [2]int64{1, 100}, [2]int64{201, 300})

	m, err := BuildMatrix(t1, t2)
	require.NoError(t, err)

	// Corrupt the feature list with a transcript-level feature.
	bogus := NewExon("TX", "1", 1, 300, 1)
	bogus.Type = FeatureTranscript
	m.rows[0] = bogus

	c, err := m.ComputeSplicingEvents(false)
	assert.Nil(t, c)
	var inv *InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "G1", inv.Gene)
	assert.Equal(t, "T1", inv.TranscriptA)
	assert.Equal(t, "T2", inv.TranscriptB)
	assert.Contains(t, err.Error(), "T1 vs T2")
}
