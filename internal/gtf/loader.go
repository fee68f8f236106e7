// Package gtf loads gene models from GENCODE/Ensembl GTF files into
// splicing transcripts grouped by gene.
package gtf

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/inodb/vibe-splice/internal/splicing"
)

// Filter restricts which exon records are loaded. Zero values load
// everything.
type Filter struct {
	Chromosome string          // Only this chromosome ("chr" prefix optional)
	GeneIDs    map[string]bool // Only these genes (unversioned IDs)
	Biotypes   map[string]bool // Only transcripts of these transcript_type values
}

// Loader reads exon records from a GTF file.
type Loader struct {
	path    string
	filter  Filter
	skipped int
}

// NewLoader creates a loader for a .gtf or .gtf.gz file.
func NewLoader(path string) *Loader {
	return &Loader{path: path}
}

// SetFilter sets the record filter used by Load and Parse.
func (l *Loader) SetFilter(f Filter) {
	l.filter = f
}

// Skipped returns the number of malformed or inconsistent lines skipped by
// the last Load or Parse.
func (l *Loader) Skipped() int {
	return l.skipped
}

// Load parses the file and returns its loci sorted by chromosome and start.
func (l *Loader) Load() ([]*Locus, error) {
	f, err := os.Open(l.path)
	if err != nil {
		return nil, fmt.Errorf("open GTF file: %w", err)
	}
	defer f.Close()

	br := bufio.NewReader(f)
	var reader io.Reader = br

	// Handle gzipped files, whatever their name
	if magic, _ := br.Peek(2); strings.HasSuffix(l.path, ".gz") || isGzip(magic) {
		gz, err := gzip.NewReader(br)
		if err != nil {
			return nil, fmt.Errorf("open gzip reader: %w", err)
		}
		defer gz.Close()
		reader = gz
	}

	return l.Parse(reader)
}

func isGzip(b []byte) bool {
	return len(b) == 2 && b[0] == 0x1f && b[1] == 0x8b
}

// gtfFeature represents a parsed GTF line.
type gtfFeature struct {
	chrom       string
	featureType string
	start       int64
	end         int64
	strand      int8
	attributes  map[string]string
}

// geneBuilder accumulates the transcripts and shared exons of one gene on
// one chromosome.
type geneBuilder struct {
	locus       *Locus
	transcripts map[string]*splicing.Transcript
	exons       map[string]*splicing.TranscriptFeature
}

// Parse reads GTF content and returns its loci.
func (l *Loader) Parse(r io.Reader) ([]*Locus, error) {
	l.skipped = 0

	scanner := bufio.NewScanner(r)
	// Increase buffer size for long lines
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	chromFilter := ""
	if l.filter.Chromosome != "" {
		chromFilter = normalizeChrom(l.filter.Chromosome)
	}

	genes := make(map[string]*geneBuilder)

	for scanner.Scan() {
		line := scanner.Text()

		// Skip comments and empty lines
		if strings.HasPrefix(line, "#") || line == "" {
			continue
		}

		feat, err := parseLine(line)
		if err != nil {
			l.skipped++
			continue
		}

		if feat.featureType != "exon" {
			continue
		}
		if chromFilter != "" && feat.chrom != chromFilter {
			continue
		}

		geneID := stripVersion(feat.attributes["gene_id"])
		transcriptID := stripVersion(feat.attributes["transcript_id"])
		if geneID == "" || transcriptID == "" {
			l.skipped++
			continue
		}
		if len(l.filter.GeneIDs) > 0 && !l.filter.GeneIDs[geneID] {
			continue
		}
		biotype := feat.attributes["transcript_type"]
		if biotype == "" {
			biotype = feat.attributes["transcript_biotype"]
		}
		if len(l.filter.Biotypes) > 0 && !l.filter.Biotypes[biotype] {
			continue
		}

		// Same gene_id on two chromosomes (PAR genes) gives two loci.
		key := feat.chrom + "\t" + geneID
		g, ok := genes[key]
		if !ok {
			g = &geneBuilder{
				locus: &Locus{
					Gene:   &splicing.Gene{ID: geneID, Name: feat.attributes["gene_name"]},
					Chrom:  feat.chrom,
					Strand: feat.strand,
				},
				transcripts: make(map[string]*splicing.Transcript),
				exons:       make(map[string]*splicing.TranscriptFeature),
			}
			genes[key] = g
		}
		if feat.strand != g.locus.Strand {
			l.skipped++
			continue
		}

		t, ok := g.transcripts[transcriptID]
		if !ok {
			t = splicing.NewTranscript(transcriptID, feat.chrom, feat.strand, g.locus.Gene)
			t.Biotype = biotype
			g.transcripts[transcriptID] = t
		}

		exonID := stripVersion(feat.attributes["exon_id"])
		exonKey := exonID
		if exonKey == "" {
			exonKey = fmt.Sprintf("exon:%s:%d-%d", feat.chrom, feat.start, feat.end)
			exonID = exonKey
		}
		e, ok := g.exons[exonKey]
		if !ok {
			e = splicing.NewExon(exonID, feat.chrom, feat.start, feat.end, feat.strand)
			g.exons[exonKey] = e
		}
		t.AddExon(e)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan GTF: %w", err)
	}

	loci := make([]*Locus, 0, len(genes))
	for _, g := range genes {
		loci = append(loci, g.build())
	}
	SortLoci(loci)

	return loci, nil
}

func (g *geneBuilder) build() *Locus {
	loc := g.locus
	loc.Transcripts = make([]*splicing.Transcript, 0, len(g.transcripts))
	for _, t := range g.transcripts {
		loc.Transcripts = append(loc.Transcripts, t)
	}
	sort.Slice(loc.Transcripts, func(i, j int) bool {
		return loc.Transcripts[i].ID < loc.Transcripts[j].ID
	})

	for i, t := range loc.Transcripts {
		if i == 0 {
			loc.Coordinates = t.Coordinates
			continue
		}
		loc.Widen(t.Coordinates)
	}
	return loc
}

// parseLine parses a single GTF line.
func parseLine(line string) (*gtfFeature, error) {
	fields := strings.Split(line, "\t")
	if len(fields) < 9 {
		return nil, fmt.Errorf("invalid GTF line: expected 9 fields, got %d", len(fields))
	}

	start, err := strconv.ParseInt(fields[3], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse start: %w", err)
	}

	end, err := strconv.ParseInt(fields[4], 10, 64)
	if err != nil {
		return nil, fmt.Errorf("parse end: %w", err)
	}
	if end < start {
		return nil, fmt.Errorf("invalid interval %d-%d", start, end)
	}

	return &gtfFeature{
		chrom:       normalizeChrom(fields[0]),
		featureType: fields[2],
		start:       start,
		end:         end,
		strand:      parseStrand(fields[6]),
		attributes:  parseAttributes(fields[8]),
	}, nil
}

// parseAttributes parses GTF attribute column.
// Format: key "value"; key "value"; ...
func parseAttributes(attrStr string) map[string]string {
	attrs := make(map[string]string)

	for _, part := range strings.Split(attrStr, ";") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		idx := strings.Index(part, " ")
		if idx == -1 {
			continue
		}

		key := part[:idx]
		value := strings.Trim(strings.TrimSpace(part[idx+1:]), "\"")
		attrs[key] = value
	}

	return attrs
}

// parseStrand converts strand string to int8.
func parseStrand(s string) int8 {
	if s == "-" {
		return -1
	}
	return 1
}

// stripVersion removes the version suffix from an Ensembl ID.
// e.g., "ENST00000456328.2" -> "ENST00000456328"
func stripVersion(id string) string {
	if idx := strings.LastIndex(id, "."); idx != -1 {
		return id[:idx]
	}
	return id
}

// normalizeChrom removes the "chr" prefix so that GENCODE ("chr1") and
// Ensembl ("1") names compare equal.
func normalizeChrom(chrom string) string {
	return strings.TrimPrefix(chrom, "chr")
}
