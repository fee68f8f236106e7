// Package detect runs splicing event detection over the genes of an
// annotation.
package detect

import (
	"errors"
	"runtime"

	"go.uber.org/zap"

	"github.com/inodb/vibe-splice/internal/gtf"
	"github.com/inodb/vibe-splice/internal/splicing"
)

// Options configures a Detector.
type Options struct {
	Relaxed           bool // Overlapping flanks are enough to confirm EI, A3SS, A5SS and CE
	ConstitutivesOnly bool // Only report constitutive exons
	Workers           int  // Parallel workers, 0 = runtime.NumCPU()
	Limit             int  // Maximum number of genes, 0 = all
}

// GeneResult holds the events found in one gene.
type GeneResult struct {
	Locus        *gtf.Locus
	Events       *splicing.Container
	SkippedPairs int
	Err          error // Set when the gene was aborted; Events is then empty
}

// Detector finds splicing events between all transcripts of a gene.
type Detector struct {
	relaxed           bool
	constitutivesOnly bool
	workers           int
	limit             int
	logger            *zap.Logger
}

// NewDetector creates a new detector.
func NewDetector(opts Options) *Detector {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Detector{
		relaxed:           opts.Relaxed,
		constitutivesOnly: opts.ConstitutivesOnly,
		workers:           workers,
		limit:             opts.Limit,
		logger:            zap.NewNop(),
	}
}

// SetLogger sets the logger for warning and info messages.
func (d *Detector) SetLogger(l *zap.Logger) {
	d.logger = l
}

// Process detects the events of a single gene. Constitutive exons are
// computed over all transcripts; alternative events are merged over every
// pair of transcripts.
func (d *Detector) Process(loc *gtf.Locus) *GeneResult {
	res := &GeneResult{Locus: loc, Events: splicing.NewContainer()}
	geneID := loc.Gene.ID

	chunk := splicing.NewRegionChunk()
	merged := 0
	for _, t := range loc.Transcripts {
		if err := chunk.MergeTranscript(t); err != nil {
			d.logger.Warn("skipping transcript for constitutive exons",
				zap.String("gene", geneID),
				zap.String("transcript", t.ID),
				zap.Error(err))
			continue
		}
		merged++
	}
	if merged > 0 {
		constitutive, err := chunk.CheckConstitutiveExon(merged)
		if err != nil {
			d.logger.Warn("constitutive exon check failed", zap.String("gene", geneID), zap.Error(err))
		}
		for _, ev := range constitutive {
			res.Events.Append(ev)
		}
	}

	if d.constitutivesOnly {
		return res
	}

	ts := loc.Transcripts
	for i := 0; i < len(ts); i++ {
		for j := i + 1; j < len(ts); j++ {
			if ts[i].ID == ts[j].ID {
				continue
			}

			m, err := splicing.BuildMatrix(ts[i], ts[j])
			if err != nil {
				res.SkippedPairs++
				d.logger.Warn("skipping transcript pair",
					zap.String("gene", geneID),
					zap.String("transcript_a", ts[i].ID),
					zap.String("transcript_b", ts[j].ID),
					zap.Error(err))
				continue
			}

			pair, err := m.ComputeSplicingEvents(d.relaxed)
			if err != nil {
				var inv *splicing.InvariantError
				if errors.As(err, &inv) {
					d.logger.Error("aborting gene", zap.String("gene", geneID), zap.Error(err))
				}
				res.Err = err
				res.Events = splicing.NewContainer()
				return res
			}
			splicing.MergeInto(res.Events, pair)
		}
	}

	return res
}
