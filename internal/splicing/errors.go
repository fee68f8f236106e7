package splicing

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidTranscriptPair is returned when two transcripts cannot be
	// compared: one has no exons, or they differ in gene, chromosome or strand.
	ErrInvalidTranscriptPair = errors.New("invalid transcript pair")

	// ErrNoGene is returned when constitutive exons are requested from a
	// region chunk that has no gene.
	ErrNoGene = errors.New("region chunk has no gene")
)

// InvariantError reports an internal inconsistency found while classifying
// a transcript pair. Processing of the gene should stop.
type InvariantError struct {
	Gene        string
	TranscriptA string
	TranscriptB string
	Msg         string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("invariant violation in gene %s (%s vs %s): %s", e.Gene, e.TranscriptA, e.TranscriptB, e.Msg)
}

// invariantViolation is raised with panic inside the classifiers and
// converted to an *InvariantError at the ComputeSplicingEvents boundary.
type invariantViolation struct {
	msg string
}

func violatef(format string, args ...any) {
	panic(invariantViolation{msg: fmt.Sprintf(format, args...)})
}
