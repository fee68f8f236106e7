package splicing

import "fmt"

// exonPool shares exons with identical coordinates between transcripts of a
// test gene, as the GTF loader does with exon_id.
type exonPool struct {
	chrom  string
	strand int8
	gene   *Gene
	exons  map[Coordinates]*TranscriptFeature
}

func newPool(geneID string, strand int8) *exonPool {
	return &exonPool{
		chrom:  "1",
		strand: strand,
		gene:   &Gene{ID: geneID},
		exons:  make(map[Coordinates]*TranscriptFeature),
	}
}

func (p *exonPool) exon(start, end int64) *TranscriptFeature {
	c := Coordinates{Start: start, End: end}
	if e, ok := p.exons[c]; ok {
		return e
	}
	e := NewExon(fmt.Sprintf("E%d-%d", start, end), p.chrom, start, end, p.strand)
	p.exons[c] = e
	return e
}

// transcript builds a transcript from [start, end] pairs.
func (p *exonPool) transcript(id string, exons ...[2]int64) *Transcript {
	t := NewTranscript(id, p.chrom, p.strand, p.gene)
	for _, e := range exons {
		t.AddExon(p.exon(e[0], e[1]))
	}
	return t
}

func compute(t1, t2 *Transcript, relaxed bool) (*Container, error) {
	m, err := BuildMatrix(t1, t2)
	if err != nil {
		return nil, err
	}
	return m.ComputeSplicingEvents(relaxed)
}

func featureIDs(fs []*TranscriptFeature) []string {
	ids := make([]string, len(fs))
	for i, f := range fs {
		ids[i] = f.ID
	}
	return ids
}
