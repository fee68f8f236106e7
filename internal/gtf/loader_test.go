package gtf

import (
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleGTF = `##description: Test GTF
chr1	HAVANA	gene	1000	5000	.	+	.	gene_id "ENSG00000000001.3"; gene_name "GENEA";
chr1	HAVANA	transcript	1000	5000	.	+	.	gene_id "ENSG00000000001.3"; transcript_id "ENST00000000001.1"; gene_name "GENEA"; transcript_type "protein_coding";
chr1	HAVANA	exon	1000	1100	.	+	.	gene_id "ENSG00000000001.3"; transcript_id "ENST00000000001.1"; gene_name "GENEA"; transcript_type "protein_coding"; exon_id "ENSE00000000001.1";
chr1	HAVANA	exon	2000	2100	.	+	.	gene_id "ENSG00000000001.3"; transcript_id "ENST00000000001.1"; gene_name "GENEA"; transcript_type "protein_coding"; exon_id "ENSE00000000002.1";
chr1	HAVANA	exon	4900	5000	.	+	.	gene_id "ENSG00000000001.3"; transcript_id "ENST00000000001.1"; gene_name "GENEA"; transcript_type "protein_coding"; exon_id "ENSE00000000003.1";
chr1	HAVANA	CDS	1050	1100	.	+	0	gene_id "ENSG00000000001.3"; transcript_id "ENST00000000001.1"; gene_name "GENEA";
chr1	HAVANA	exon	4900	5000	.	+	.	gene_id "ENSG00000000001.3"; transcript_id "ENST00000000002.1"; gene_name "GENEA"; transcript_type "retained_intron"; exon_id "ENSE00000000003.1";
chr1	HAVANA	exon	1000	1100	.	+	.	gene_id "ENSG00000000001.3"; transcript_id "ENST00000000002.1"; gene_name "GENEA"; transcript_type "retained_intron"; exon_id "ENSE00000000001.1";
chr12	HAVANA	exon	25250751	25250929	.	-	.	gene_id "ENSG00000133703.14"; transcript_id "ENST00000311936.8"; gene_name "KRAS"; transcript_type "protein_coding";
chr12	HAVANA	exon	25245274	25245395	.	-	.	gene_id "ENSG00000133703.14"; transcript_id "ENST00000311936.8"; gene_name "KRAS"; transcript_type "protein_coding";
chr12	HAVANA	exon	25245274	25245395	.	-	.	gene_id "ENSG00000133703.14"; transcript_id "ENST00000256078.10"; gene_name "KRAS"; transcript_type "protein_coding";
chrX	HAVANA	exon	500	600	.	+	.	gene_id "ENSG00000000009.1"; transcript_id "ENST00000000009.1"; gene_name "GENEX"; transcript_type "lncRNA";
`

func TestParseAttributes(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:  "basic attributes",
			input: `gene_id "ENSG00000133703"; transcript_id "ENST00000311936"; gene_name "KRAS";`,
			expected: map[string]string{
				"gene_id":       "ENSG00000133703",
				"transcript_id": "ENST00000311936",
				"gene_name":     "KRAS",
			},
		},
		{
			name:  "with tags",
			input: `gene_id "ENSG00000133703"; tag "Ensembl_canonical"; tag "MANE_Select";`,
			expected: map[string]string{
				"gene_id": "ENSG00000133703",
				"tag":     "MANE_Select", // Last value wins
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := parseAttributes(tt.input)
			for key, want := range tt.expected {
				assert.Equal(t, want, result[key], "parseAttributes()[%q]", key)
			}
		})
	}
}

func TestStripVersion(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"ENST00000311936.8", "ENST00000311936"},
		{"ENSG00000133703.14", "ENSG00000133703"},
		{"ENST00000311936", "ENST00000311936"},
		{"", ""},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, stripVersion(tt.input), "stripVersion(%q)", tt.input)
	}
}

func TestParse(t *testing.T) {
	l := NewLoader("")
	loci, err := l.Parse(strings.NewReader(sampleGTF))
	require.NoError(t, err)
	require.Len(t, loci, 3)

	// Numeric chromosomes sort first.
	assert.Equal(t, "1", loci[0].Chrom)
	assert.Equal(t, "12", loci[1].Chrom)
	assert.Equal(t, "X", loci[2].Chrom)

	genea := loci[0]
	assert.Equal(t, "ENSG00000000001", genea.Gene.ID)
	assert.Equal(t, "GENEA", genea.Gene.Name)
	assert.Equal(t, int8(1), genea.Strand)
	assert.Equal(t, int64(1000), genea.Start)
	assert.Equal(t, int64(5000), genea.End)

	require.Len(t, genea.Transcripts, 2)
	t1, t2 := genea.Transcripts[0], genea.Transcripts[1]
	assert.Equal(t, "ENST00000000001", t1.ID)
	assert.Equal(t, "ENST00000000002", t2.ID)
	assert.Equal(t, "protein_coding", t1.Biotype)
	assert.Equal(t, "retained_intron", t2.Biotype)
	assert.Equal(t, 3, t1.ExonCount())
	assert.Equal(t, 2, t2.ExonCount())

	// Exons are shared by exon_id, in genomic order.
	assert.Same(t, t1.Exons()[0], t2.Exons()[0])
	assert.Same(t, t1.Exons()[2], t2.Exons()[1])
	assert.Equal(t, "ENSE00000000001", t1.Exons()[0].ID)
	assert.Same(t, genea.Gene, t1.Gene)

	assert.Zero(t, l.Skipped())
}

func TestParseSharesExonsByCoordinates(t *testing.T) {
	l := NewLoader("")
	loci, err := l.Parse(strings.NewReader(sampleGTF))
	require.NoError(t, err)

	kras := loci[1]
	assert.Equal(t, "ENSG00000133703", kras.Gene.ID)
	assert.Equal(t, int8(-1), kras.Strand)
	require.Len(t, kras.Transcripts, 2)

	short, long := kras.Transcripts[0], kras.Transcripts[1]
	assert.Equal(t, "ENST00000256078", short.ID)
	assert.Equal(t, "ENST00000311936", long.ID)
	assert.Same(t, short.Exons()[0], long.Exons()[0])
	assert.Equal(t, "exon:12:25245274-25245395", short.Exons()[0].ID)
}

func TestParseFilters(t *testing.T) {
	tests := []struct {
		name   string
		filter Filter
		genes  []string
	}{
		{"chromosome", Filter{Chromosome: "chr12"}, []string{"ENSG00000133703"}},
		{"chromosome without prefix", Filter{Chromosome: "X"}, []string{"ENSG00000000009"}},
		{"gene", Filter{GeneIDs: map[string]bool{"ENSG00000000001": true}}, []string{"ENSG00000000001"}},
		{"biotype", Filter{Biotypes: map[string]bool{"lncRNA": true}}, []string{"ENSG00000000009"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l := NewLoader("")
			l.SetFilter(tt.filter)
			loci, err := l.Parse(strings.NewReader(sampleGTF))
			require.NoError(t, err)

			var got []string
			for _, loc := range loci {
				got = append(got, loc.Gene.ID)
			}
			assert.Equal(t, tt.genes, got)
		})
	}
}

func TestParseBiotypeFilterKeepsMatchingTranscripts(t *testing.T) {
	l := NewLoader("")
	l.SetFilter(Filter{Biotypes: map[string]bool{"protein_coding": true}})
	loci, err := l.Parse(strings.NewReader(sampleGTF))
	require.NoError(t, err)

	require.Len(t, loci, 2)
	require.Len(t, loci[0].Transcripts, 1)
	assert.Equal(t, "ENST00000000001", loci[0].Transcripts[0].ID)
}

func TestParseSkipsMalformedLines(t *testing.T) {
	content := `chr1	HAVANA	exon	100	200	.	+	.	gene_id "G1"; transcript_id "T1";
chr1	HAVANA	exon	abc	200	.	+	.	gene_id "G1"; transcript_id "T1";
chr1	HAVANA	exon	300
chr1	HAVANA	exon	300	400	.	+	.	transcript_id "T1";
chr1	HAVANA	exon	500	600	.	-	.	gene_id "G1"; transcript_id "T2";
`
	l := NewLoader("")
	loci, err := l.Parse(strings.NewReader(content))
	require.NoError(t, err)
	require.Len(t, loci, 1)
	require.Len(t, loci[0].Transcripts, 1)
	assert.Equal(t, 1, loci[0].Transcripts[0].ExonCount())
	assert.Equal(t, 4, l.Skipped())
}

func TestLoadGzip(t *testing.T) {
	dir := t.TempDir()

	// Compressed content is detected without a .gz suffix.
	path := filepath.Join(dir, "annotation.gtf")
	f, err := os.Create(path)
	require.NoError(t, err)
	gz := gzip.NewWriter(f)
	_, err = gz.Write([]byte(sampleGTF))
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	require.NoError(t, f.Close())

	loci, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Len(t, loci, 3)
}

func TestLoadPlain(t *testing.T) {
	path := filepath.Join(t.TempDir(), "annotation.gtf")
	require.NoError(t, os.WriteFile(path, []byte(sampleGTF), 0o644))

	loci, err := NewLoader(path).Load()
	require.NoError(t, err)
	assert.Len(t, loci, 3)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := NewLoader(filepath.Join(t.TempDir(), "missing.gtf")).Load()
	assert.Error(t, err)
}
