package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/vibe-splice/internal/splicing"
)

// DefaultSource is the GFF source column used when none is configured.
const DefaultSource = "vibe-splice"

// GFFWriter writes splicing events as GFF lines, one per event, with the
// event details in the attribute column.
type GFFWriter struct {
	w      *bufio.Writer
	source string
}

// NewGFFWriter creates a new GFF writer.
func NewGFFWriter(w io.Writer, source string) *GFFWriter {
	if source == "" {
		source = DefaultSource
	}
	return &GFFWriter{w: bufio.NewWriter(w), source: source}
}

// WriteHeader is a no-op: the event GFF has no header.
func (g *GFFWriter) WriteHeader() error {
	return nil
}

// Write writes a single event.
func (g *GFFWriter) Write(r Record) error {
	var b strings.Builder

	b.WriteString(strings.Join([]string{
		r.Chrom,
		g.source,
		r.Type,
		strconv.FormatInt(r.Start, 10),
		strconv.FormatInt(r.End, 10),
		".",
		strandString(r.Strand),
		".",
	}, "\t"))
	b.WriteByte('\t')

	name := r.Type
	if t, err := splicing.ParseEventType(r.Type); err == nil {
		name = t.Name()
	}

	attr := func(key, value string) {
		b.WriteString(key)
		b.WriteByte('=')
		b.WriteString(value)
		b.WriteString("; ")
	}
	list := func(key string, values []string) {
		if len(values) > 0 {
			attr(key, strings.Join(values, ","))
		}
	}

	attr("ID", r.EventID)
	attr("Derives_from", r.GeneID)
	attr("Name", name)
	for _, a := range r.Attributes {
		attr(a.Key, a.Value)
	}
	list("FeaturesA", r.FeaturesA)
	list("FeaturesB", r.FeaturesB)
	list("SitesA", r.SitesA)
	list("SitesB", r.SitesB)
	list("ConstitutiveExons", r.ConstitutiveExons)
	list("ConstitutiveSites", r.ConstitutiveSites)
	for _, p := range r.Pairs {
		attr("Pair", p)
	}

	line := strings.TrimSuffix(b.String(), " ")
	_, err := g.w.WriteString(line + "\n")
	return err
}

// Flush flushes any buffered data to the underlying writer.
func (g *GFFWriter) Flush() error {
	return g.w.Flush()
}

func strandString(s int8) string {
	if s == -1 {
		return "-"
	}
	return "+"
}
