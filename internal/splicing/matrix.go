package splicing

import "fmt"

type cell struct {
	row, col int
}

// Matrix holds the overlap codes between every feature of transcript A
// (rows) and every feature of transcript B (columns). Only cells that
// overlap are stored.
type Matrix struct {
	a, b   *Transcript
	rows   []*TranscriptFeature
	cols   []*TranscriptFeature
	proj   projection
	codes  map[cell]OverlapCode
	strand int8
}

// BuildMatrix compares the features of two transcripts of the same gene.
func BuildMatrix(a, b *Transcript) (*Matrix, error) {
	if err := validatePair(a, b); err != nil {
		return nil, err
	}

	ref := min(a.Start, b.Start)
	if a.Strand != 1 {
		ref = max(a.End, b.End)
	}

	m := &Matrix{
		a:      a,
		b:      b,
		rows:   a.Features(),
		cols:   b.Features(),
		proj:   projection{strand: a.Strand, ref: ref},
		codes:  make(map[cell]OverlapCode),
		strand: a.Strand,
	}

	for i, fa := range m.rows {
		for j, fb := range m.cols {
			if code := m.proj.compare(fa.Coordinates, fb.Coordinates); code != NoOverlap {
				m.codes[cell{i, j}] = code
			}
		}
	}

	return m, nil
}

func validatePair(a, b *Transcript) error {
	if a == nil || b == nil {
		return fmt.Errorf("%w: nil transcript", ErrInvalidTranscriptPair)
	}
	if a.ExonCount() == 0 {
		return fmt.Errorf("%w: transcript %s has no exons", ErrInvalidTranscriptPair, a.ID)
	}
	if b.ExonCount() == 0 {
		return fmt.Errorf("%w: transcript %s has no exons", ErrInvalidTranscriptPair, b.ID)
	}
	if a.GeneID() != b.GeneID() {
		return fmt.Errorf("%w: %s and %s belong to genes %s and %s",
			ErrInvalidTranscriptPair, a.ID, b.ID, a.GeneID(), b.GeneID())
	}
	if a.Chrom != b.Chrom {
		return fmt.Errorf("%w: %s and %s are on chromosomes %s and %s",
			ErrInvalidTranscriptPair, a.ID, b.ID, a.Chrom, b.Chrom)
	}
	if a.Strand != b.Strand {
		return fmt.Errorf("%w: %s and %s are on different strands", ErrInvalidTranscriptPair, a.ID, b.ID)
	}
	return nil
}

// Rows returns the number of features of transcript A.
func (m *Matrix) Rows() int {
	return len(m.rows)
}

// Cols returns the number of features of transcript B.
func (m *Matrix) Cols() int {
	return len(m.cols)
}

// TranscriptA returns the row transcript.
func (m *Matrix) TranscriptA() *Transcript {
	return m.a
}

// TranscriptB returns the column transcript.
func (m *Matrix) TranscriptB() *Transcript {
	return m.b
}

// At returns the overlap code of row i and column j.
// Reading outside the matrix is an invariant violation.
func (m *Matrix) At(i, j int) OverlapCode {
	if i < 0 || i >= len(m.rows) || j < 0 || j >= len(m.cols) {
		violatef("cell (%d,%d) outside %dx%d matrix", i, j, len(m.rows), len(m.cols))
	}
	return m.codes[cell{i, j}]
}

// inBounds reports whether (i, j) is a valid cell.
func (m *Matrix) inBounds(i, j int) bool {
	return i >= 0 && i < len(m.rows) && j >= 0 && j < len(m.cols)
}

// relStart returns the strand-normalized start of f.
func (m *Matrix) relStart(f *TranscriptFeature) int64 {
	return m.proj.relStart(f.Coordinates)
}

// relEnd returns the strand-normalized end of f.
func (m *Matrix) relEnd(f *TranscriptFeature) int64 {
	return m.proj.relEnd(f.Coordinates)
}

func (m *Matrix) forward() bool {
	return m.strand == 1
}
