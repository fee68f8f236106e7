package splicing

import (
	"fmt"
	"sort"
)

// ExonChunk is a gene-wide interval covering overlapping exons of all
// transcripts merged so far.
type ExonChunk struct {
	Coordinates
	Exons []*TranscriptFeature // contributing exons, one entry per transcript occurrence
}

// RegionChunk merges the exons of every transcript of a gene into ordered,
// non-overlapping chunks in order to find constitutive exons.
type RegionChunk struct {
	Coordinates
	Gene   *Gene
	Chrom  string
	Strand int8

	ref         int64 // referential position
	transcripts int
	chunks      []*ExonChunk
	events      []*Event
}

// NewRegionChunk creates an empty region chunk.
func NewRegionChunk() *RegionChunk {
	return &RegionChunk{}
}

// Chunks returns the merged exon chunks in transcription order.
func (r *RegionChunk) Chunks() []*ExonChunk {
	return r.chunks
}

// Events returns the constitutive exon events found by the last call to
// CheckConstitutiveExon.
func (r *RegionChunk) Events() []*Event {
	return r.events
}

func (r *RegionChunk) proj() projection {
	return projection{strand: r.Strand, ref: r.ref}
}

// MergeTranscript adds the exons of t to the chunks.
func (r *RegionChunk) MergeTranscript(t *Transcript) error {
	if t.ExonCount() == 0 {
		return fmt.Errorf("%w: transcript %s has no exons", ErrInvalidTranscriptPair, t.ID)
	}

	if r.transcripts == 0 {
		r.Gene = t.Gene
		r.Chrom = t.Chrom
		r.Strand = t.Strand
		r.Coordinates = t.Coordinates
	} else {
		if t.Chrom != r.Chrom || t.Strand != r.Strand {
			return fmt.Errorf("%w: transcript %s is not on %s strand %d",
				ErrInvalidTranscriptPair, t.ID, r.Chrom, r.Strand)
		}
		r.Widen(t.Coordinates)
	}
	r.transcripts++

	r.ref = r.Start
	if r.Strand != 1 {
		r.ref = r.End
	}

	for _, e := range t.Features() {
		if e.IsExon() {
			r.mergeExon(e)
		}
	}
	return nil
}

func (r *RegionChunk) mergeExon(e *TranscriptFeature) {
	p := r.proj()
	exonStart, exonEnd := p.relStart(e.Coordinates), p.relEnd(e.Coordinates)

	first, last := -1, -1
	for idx, ch := range r.chunks {
		chunkStart, chunkEnd := p.relStart(ch.Coordinates), p.relEnd(ch.Coordinates)
		if chunkStart > exonEnd {
			if first < 0 {
				first = idx
			}
			break
		}
		if max(chunkStart, exonStart) <= min(chunkEnd, exonEnd) {
			if first < 0 {
				first = idx
			}
			last = idx
		}
	}

	if last < 0 {
		single := &ExonChunk{Coordinates: e.Coordinates, Exons: []*TranscriptFeature{e}}
		if first < 0 {
			r.chunks = append(r.chunks, single)
			return
		}
		r.chunks = append(r.chunks, nil)
		copy(r.chunks[first+1:], r.chunks[first:])
		r.chunks[first] = single
		return
	}

	merged := &ExonChunk{Coordinates: e.Coordinates}
	for _, ch := range r.chunks[first : last+1] {
		merged.Widen(ch.Coordinates)
		merged.Exons = append(merged.Exons, ch.Exons...)
	}
	merged.Exons = append(merged.Exons, e)

	r.chunks = append(r.chunks[:first], append([]*ExonChunk{merged}, r.chunks[last+1:]...)...)
}

// CheckConstitutiveExon reports the exons whose exact coordinates occur
// transcriptCount times within a chunk, that is once in every transcript
// of the gene.
func (r *RegionChunk) CheckConstitutiveExon(transcriptCount int) ([]*Event, error) {
	if r.Gene == nil {
		return nil, ErrNoGene
	}

	var events []*Event
	for _, ch := range r.chunks {
		tally := make(map[Coordinates][]*TranscriptFeature)
		for _, e := range ch.Exons {
			tally[e.Coordinates] = append(tally[e.Coordinates], e)
		}

		keys := make([]Coordinates, 0, len(tally))
		for k, exons := range tally {
			if len(exons) == transcriptCount {
				keys = append(keys, k)
			}
		}
		sort.Slice(keys, func(a, b int) bool {
			if keys[a].Start != keys[b].Start {
				return keys[a].Start < keys[b].Start
			}
			return keys[a].End < keys[b].End
		})

		for _, k := range keys {
			ev := newEvent(EventCNE, r.Gene, r.Chrom, r.Strand, k.Start, k.End)
			ev.ConstitutiveSites = []Site{{Kind: SiteExon, Start: k.Start, End: k.End}}
			for _, e := range tally[k] {
				if !containsFeature(ev.ConstitutiveExons, e) {
					ev.ConstitutiveExons = append(ev.ConstitutiveExons, e)
				}
			}
			events = append(events, ev)
		}
	}

	r.events = events
	return events, nil
}
