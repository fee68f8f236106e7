package output

import (
	"errors"
	"fmt"
	"io"
)

// ErrUnknownFormat is returned by NewWriter for unsupported formats.
var ErrUnknownFormat = errors.New("unknown output format")

// Formats lists the supported output formats.
var Formats = []string{"gff", "tab"}

// Writer writes event records.
type Writer interface {
	WriteHeader() error
	Write(Record) error
	Flush() error
}

// NewWriter returns a writer for format ("gff" or "tab"). source is the GFF
// source column.
func NewWriter(format string, w io.Writer, source string) (Writer, error) {
	switch format {
	case "gff", "":
		return NewGFFWriter(w, source), nil
	case "tab":
		return NewTabWriter(w), nil
	default:
		return nil, fmt.Errorf("%w: %q (supported: gff, tab)", ErrUnknownFormat, format)
	}
}
