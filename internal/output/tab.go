package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"
)

// TabWriter writes splicing events in tab-delimited format.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#Event_id",
			"Gene",
			"Gene_name",
			"Type",
			"Location",
			"Strand",
			"Features_A",
			"Features_B",
			"Sites_A",
			"Sites_B",
			"Constitutive_exons",
			"Pairs",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes a single event.
func (tw *TabWriter) Write(r Record) error {
	location := r.Chrom + ":" + strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10)

	values := []string{
		r.EventID,
		dash(r.GeneID),
		dash(r.GeneName),
		r.Type,
		location,
		strandString(r.Strand),
		join(r.FeaturesA, ","),
		join(r.FeaturesB, ","),
		join(r.SitesA, ","),
		join(r.SitesB, ","),
		join(r.ConstitutiveExons, ","),
		join(r.Pairs, ";"),
	}

	_, err := tw.w.WriteString(strings.Join(values, "\t") + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}

func dash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func join(values []string, sep string) string {
	return dash(strings.Join(values, sep))
}
