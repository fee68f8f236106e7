package detect

import (
	"context"

	"go.uber.org/zap"

	"github.com/inodb/vibe-splice/internal/gtf"
)

// Sink receives gene results in input order.
type Sink interface {
	WriteGene(*GeneResult) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(*GeneResult) error

// WriteGene calls f(r).
func (f SinkFunc) WriteGene(r *GeneResult) error {
	return f(r)
}

// Run processes loci in parallel and hands every non-aborted gene to sink
// in input order. It stops early when ctx is cancelled or sink fails.
func (d *Detector) Run(ctx context.Context, loci []*gtf.Locus, sink Sink) (*Stats, error) {
	if d.limit > 0 && len(loci) > d.limit {
		loci = loci[:d.limit]
	}

	items := make(chan WorkItem, 2*d.workers)
	go func() {
		defer close(items)
		for i, loc := range loci {
			select {
			case items <- WorkItem{Seq: i, Locus: loc}:
			case <-ctx.Done():
				return
			}
		}
	}()

	stats := NewStats()
	err := OrderedCollect(d.ParallelDetect(items, d.workers), func(r WorkResult) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		stats.Add(r.Result)
		d.logger.Debug("gene processed",
			zap.String("gene", r.Result.Locus.Gene.ID),
			zap.Int("transcripts", len(r.Result.Locus.Transcripts)),
			zap.Duration("elapsed", r.Elapsed))
		if r.Result.Err != nil {
			return nil
		}
		return sink.WriteGene(r.Result)
	})
	if err == nil {
		err = ctx.Err()
	}

	d.logger.Info("detection finished",
		zap.Int("genes", stats.Genes),
		zap.Int("genes_with_events", stats.GenesWithEvents),
		zap.Int("events", stats.TotalEvents()),
		zap.Int("aborted_genes", stats.AbortedGenes),
		zap.Int("skipped_pairs", stats.SkippedPairs))

	return stats, err
}
