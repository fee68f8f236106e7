package output

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/inodb/vibe-splice/internal/detect"
	"github.com/inodb/vibe-splice/internal/splicing"
)

// WriteStats writes a summary of a detection run. Percentages are relative
// to the alternative (non-constitutive) events.
func WriteStats(w io.Writer, s *detect.Stats) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	fmt.Fprintf(tw, "Genes parsed:\t%d\n", s.Genes)
	fmt.Fprintf(tw, "Genes with multiple transcripts:\t%d\n", s.MultiTranscriptGenes)
	fmt.Fprintf(tw, "Genes with events:\t%d\n", s.GenesWithEvents)
	if s.AbortedGenes > 0 {
		fmt.Fprintf(tw, "Genes aborted:\t%d\n", s.AbortedGenes)
	}
	if s.SkippedPairs > 0 {
		fmt.Fprintf(tw, "Transcript pairs skipped:\t%d\n", s.SkippedPairs)
	}

	total := s.AlternativeEvents()
	fmt.Fprintf(tw, "Splicing events:\t%d\n", total)

	for _, t := range splicing.EventTypes {
		n := s.Events[t]
		switch t {
		case splicing.EventCNE:
			fmt.Fprintf(tw, "Constitutive exons:\t%d\n", n)
			continue
		case splicing.EventCNR:
			continue
		}
		if total == 0 {
			continue
		}
		fmt.Fprintf(tw, "  %s (%s):\t%d\t(%d%%)\n", t.Name(), t, n, 100*n/total)
	}

	return tw.Flush()
}
