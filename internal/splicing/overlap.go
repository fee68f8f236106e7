package splicing

// OverlapCode describes how two intervals overlap in relative coordinates.
// Every code other than NoOverlap carries the Overlap bit.
type OverlapCode uint8

// Overlap bits.
const (
	ID5P    OverlapCode = 1 // same 5' end
	ID3P    OverlapCode = 2 // same 3' end
	Overlap OverlapCode = 4 // intervals intersect
)

// Overlap codes.
const (
	NoOverlap  OverlapCode = 0
	PartOf     OverlapCode = 12 // one interval strictly inside the other
	ID5PDiff3P OverlapCode = 13 // same 5', different 3'
	Diff5PID3P OverlapCode = 14 // different 5', same 3'
	ID5PID3P   OverlapCode = 15 // identical
)

// Has returns true if all bits of b are set.
func (c OverlapCode) Has(b OverlapCode) bool {
	return c&b == b
}

// String returns the code name.
func (c OverlapCode) String() string {
	switch c {
	case NoOverlap:
		return "NO_OVERLAP"
	case Overlap:
		return "OVERLAP"
	case PartOf:
		return "PART_OF"
	case ID5PDiff3P:
		return "ID5P_DIFF3P"
	case Diff5PID3P:
		return "DIFF5P_ID3P"
	case ID5PID3P:
		return "ID5P_ID3P"
	default:
		return "UNKNOWN"
	}
}

// ClassifyOverlap compares two intervals given in relative coordinates.
func ClassifyOverlap(start1, end1, start2, end2 int64) OverlapCode {
	if max(start1, start2) > min(end1, end2) {
		return NoOverlap
	}

	if start1 == start2 {
		if end1 == end2 {
			return ID5PID3P
		}
		return ID5PDiff3P
	}
	if end1 == end2 {
		return Diff5PID3P
	}

	if (start1 < start2 && end1 > end2) || (start2 < start1 && end2 > end1) {
		return PartOf
	}
	return Overlap
}

// projection maps genomic intervals onto a strand-normalized axis where
// position 1 is the transcription start.
type projection struct {
	strand int8
	ref    int64
}

func (p projection) relStart(c Coordinates) int64 {
	if p.strand == 1 {
		return c.Start - p.ref + 1
	}
	return p.ref - c.End + 1
}

func (p projection) relEnd(c Coordinates) int64 {
	if p.strand == 1 {
		return c.End - p.ref + 1
	}
	return p.ref - c.Start + 1
}

func (p projection) compare(a, b Coordinates) OverlapCode {
	return ClassifyOverlap(p.relStart(a), p.relEnd(a), p.relStart(b), p.relEnd(b))
}
