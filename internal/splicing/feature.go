// Package splicing detects alternative splicing events between transcripts of a gene.
package splicing

import "fmt"

// Coordinates is a 1-based, inclusive genomic interval.
type Coordinates struct {
	Start int64 // 1-based start
	End   int64 // 1-based end, inclusive
}

// Length returns the number of bases covered by the interval.
func (c Coordinates) Length() int64 {
	return c.End - c.Start + 1
}

// Overlaps returns true if the two intervals share at least one base.
func (c Coordinates) Overlaps(o Coordinates) bool {
	return max(c.Start, o.Start) <= min(c.End, o.End)
}

// Widen extends the interval to cover o.
func (c *Coordinates) Widen(o Coordinates) {
	if o.Start < c.Start {
		c.Start = o.Start
	}
	if o.End > c.End {
		c.End = o.End
	}
}

// FeatureType tags the kind of a feature.
type FeatureType uint8

const (
	FeatureExon FeatureType = iota
	FeatureIntron
	FeatureTranscript
)

// String returns the feature type name.
func (t FeatureType) String() string {
	switch t {
	case FeatureExon:
		return "exon"
	case FeatureIntron:
		return "intron"
	case FeatureTranscript:
		return "transcript"
	default:
		return fmt.Sprintf("FeatureType(%d)", uint8(t))
	}
}

// Feature is a stranded genomic interval on a chromosome.
type Feature struct {
	Coordinates
	Chrom  string      // Chromosome (normalized, no "chr" prefix)
	Strand int8        // +1 or -1
	Type   FeatureType // Exon, intron or transcript
	ID     string      // Identifier, may be empty
	Index  int         // Assignment order, display only
}

// IsForwardStrand returns true if the feature is on the forward strand.
func (f *Feature) IsForwardStrand() bool {
	return f.Strand == 1
}

// TranscriptFeature is an exon or intron with back-references to the
// transcripts that contain it. Exons are shared between transcripts of a
// gene; introns belong to exactly one transcript.
type TranscriptFeature struct {
	Feature
	transcripts []*Transcript
}

// NewExon creates an exon not yet attached to any transcript.
func NewExon(id, chrom string, start, end int64, strand int8) *TranscriptFeature {
	return &TranscriptFeature{
		Feature: Feature{
			Coordinates: Coordinates{Start: start, End: end},
			Chrom:       chrom,
			Strand:      strand,
			Type:        FeatureExon,
			ID:          id,
		},
	}
}

func newIntron(id, chrom string, start, end int64, strand int8, t *Transcript) *TranscriptFeature {
	return &TranscriptFeature{
		Feature: Feature{
			Coordinates: Coordinates{Start: start, End: end},
			Chrom:       chrom,
			Strand:      strand,
			Type:        FeatureIntron,
			ID:          id,
		},
		transcripts: []*Transcript{t},
	}
}

// IsExon returns true for exons.
func (f *TranscriptFeature) IsExon() bool {
	return f.Type == FeatureExon
}

// IsIntron returns true for introns.
func (f *TranscriptFeature) IsIntron() bool {
	return f.Type == FeatureIntron
}

// Transcripts returns every transcript containing the feature.
func (f *TranscriptFeature) Transcripts() []*Transcript {
	return f.transcripts
}

// SupportedBy returns the identifiers of the transcripts containing the
// feature, restricted to those present in candidates.
func (f *TranscriptFeature) SupportedBy(candidates map[string]bool) []string {
	var ids []string
	for _, t := range f.transcripts {
		if candidates[t.ID] {
			ids = append(ids, t.ID)
		}
	}
	return ids
}

func (f *TranscriptFeature) addTranscript(t *Transcript) {
	for _, existing := range f.transcripts {
		if existing == t {
			return
		}
	}
	f.transcripts = append(f.transcripts, t)
}

// site returns the reporting site for the feature.
func (f *TranscriptFeature) site() Site {
	kind := SiteExon
	if f.IsIntron() {
		kind = SiteIntron
	}
	return Site{Kind: kind, Start: f.Start, End: f.End}
}
