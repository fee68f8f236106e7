package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/profile"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/inodb/vibe-splice/internal/detect"
	"github.com/inodb/vibe-splice/internal/duckdb"
	"github.com/inodb/vibe-splice/internal/gtf"
	"github.com/inodb/vibe-splice/internal/output"
)

// detectConfig holds the resolved settings of one detect invocation.
type detectConfig struct {
	input             string
	relaxed           bool
	constitutivesOnly bool
	workers           int
	limit             int
	genes             []string
	chrom             string
	region            string
	biotypes          []string
	format            string
	source            string
	outputPath        string
	statistics        bool
	dbPath            string
	force             bool
	profile           string
}

func newDetectCmd(a *app) *cobra.Command {
	var (
		assembly string
		cfg      detectConfig
	)

	cmd := &cobra.Command{
		Use:   "detect [flags] [annotation.gtf[.gz]]",
		Short: "Detect alternative splicing events in a GTF annotation",
		Long: `Compare every pair of transcripts of each gene and report the alternative
splicing events between them, together with the constitutive exons shared
by all transcripts.

Without an input file the GENCODE annotation fetched by "vibe-splice
download" for --assembly is used.`,
		Example: `  vibe-splice detect gencode.v46.annotation.gtf.gz
  vibe-splice detect --gene ENSG00000133703 --statistics annotation.gtf
  vibe-splice detect --region 12:25200000-25260000 -f tab -o kras.tsv annotation.gtf
  vibe-splice detect --db events.duckdb annotation.gtf.gz`,
		Args: func(cmd *cobra.Command, args []string) error {
			if err := cobra.MaximumNArgs(1)(cmd, args); err != nil {
				return &usageError{err}
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			return bindFlags(cmd, map[string]string{
				"detect.relaxed":            "relaxed",
				"detect.constitutives_only": "constitutives",
				"detect.workers":            "workers",
				"detect.limit":              "limit",
				"output.format":             "output-format",
				"output.source":             "source",
				"db.path":                   "db",
			})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg.relaxed = viper.GetBool("detect.relaxed")
			cfg.constitutivesOnly = viper.GetBool("detect.constitutives_only")
			cfg.workers = viper.GetInt("detect.workers")
			cfg.limit = viper.GetInt("detect.limit")
			cfg.format = viper.GetString("output.format")
			cfg.source = viper.GetString("output.source")
			cfg.dbPath = viper.GetString("db.path")

			if len(args) == 1 {
				cfg.input = args[0]
			} else {
				path, ok := findGENCODEGTF(defaultDataDir(), assembly)
				if !ok {
					return &usageError{fmt.Errorf("no input file given and no GENCODE annotation found for %s (run: vibe-splice download --assembly %s)", assembly, assembly)}
				}
				cfg.input = path
			}

			return a.detect(cmd.Context(), cfg, cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	f := cmd.Flags()
	f.Bool("relaxed", false, "Report exon isoforms whose boundaries are shifted on both sides")
	f.Bool("constitutives", false, "Only report constitutive exons")
	f.Int("workers", 0, "Number of genes processed in parallel (default: number of CPUs)")
	f.Int("limit", 0, "Stop after this many genes (0: no limit)")
	f.StringSliceVar(&cfg.genes, "gene", nil, "Only process this gene ID (repeatable)")
	f.StringVar(&cfg.chrom, "chrom", "", "Only process this chromosome")
	f.StringVar(&cfg.region, "region", "", "Only process genes overlapping chrom:start-end")
	f.StringSliceVar(&cfg.biotypes, "biotype", nil, "Only use transcripts of this transcript_type (repeatable)")
	f.StringP("output-format", "f", "gff", "Output format: "+strings.Join(output.Formats, ", "))
	f.String("source", output.DefaultSource, "GFF source column")
	f.StringVarP(&cfg.outputPath, "output", "o", "", "Output file (default: stdout)")
	f.BoolVar(&cfg.statistics, "statistics", false, "Print event statistics to stderr")
	f.String("db", "", "Also store the events in this DuckDB file")
	f.BoolVar(&cfg.force, "force", false, "Store a new run even if the input was already processed")
	f.StringVar(&cfg.profile, "profile", "", "Write a profile to the working directory: cpu or mem")
	f.StringVar(&assembly, "assembly", "GRCh38", "Assembly of the downloaded annotation used without an input file")

	return cmd
}

// detect loads the annotation, runs detection and writes the events.
func (a *app) detect(ctx context.Context, cfg detectConfig, stdout, stderr io.Writer) error {
	switch cfg.profile {
	case "":
	case "cpu":
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	case "mem":
		defer profile.Start(profile.MemProfile, profile.ProfilePath("."), profile.Quiet).Stop()
	default:
		return &usageError{fmt.Errorf("unknown profile %q (use cpu or mem)", cfg.profile)}
	}

	var region *regionQuery
	if cfg.region != "" {
		q, err := parseRegion(cfg.region)
		if err != nil {
			return &usageError{err}
		}
		region = &q
	}

	loci, err := a.loadLoci(cfg)
	if err != nil {
		return err
	}
	if region != nil {
		loci = gtf.BuildIndex(loci).FindOverlaps(region.chrom, region.start, region.end)
		a.logger.Info("region selected", zap.String("region", cfg.region), zap.Int("genes", len(loci)))
	}

	out := stdout
	if cfg.outputPath != "" {
		f, err := os.Create(cfg.outputPath)
		if err != nil {
			return fmt.Errorf("creating output file: %w", err)
		}
		defer f.Close()
		out = f
	}

	writer, err := output.NewWriter(cfg.format, out, cfg.source)
	if errors.Is(err, output.ErrUnknownFormat) {
		return &usageError{err}
	}
	if err != nil {
		return err
	}
	if err := writer.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}

	rec, err := a.openRecorder(cfg, runOptions(cfg, region))
	if err != nil {
		return err
	}
	defer rec.close()

	d := detect.NewDetector(detect.Options{
		Relaxed:           cfg.relaxed,
		ConstitutivesOnly: cfg.constitutivesOnly,
		Workers:           cfg.workers,
		Limit:             cfg.limit,
	})
	d.SetLogger(a.logger)

	numberer := output.NewNumberer()
	sink := detect.SinkFunc(func(r *detect.GeneResult) error {
		records := output.GeneRecords(r.Locus.Gene.ID, r.Locus.Chrom, r.Events.All(), numberer)
		for _, record := range records {
			if err := writer.Write(record); err != nil {
				return fmt.Errorf("writing event: %w", err)
			}
		}
		rec.add(records)
		return nil
	})

	stats, err := d.Run(ctx, loci, sink)
	if err != nil {
		rec.discard()
		return err
	}
	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	if err := rec.commit(); err != nil {
		return err
	}

	if cfg.statistics {
		if err := output.WriteStats(stderr, stats); err != nil {
			return fmt.Errorf("writing statistics: %w", err)
		}
	}
	return nil
}

func (a *app) loadLoci(cfg detectConfig) ([]*gtf.Locus, error) {
	loader := gtf.NewLoader(cfg.input)

	filter := gtf.Filter{Chromosome: cfg.chrom}
	if cfg.region != "" && cfg.chrom == "" {
		filter.Chromosome, _, _ = strings.Cut(cfg.region, ":")
	}
	if len(cfg.genes) > 0 {
		filter.GeneIDs = make(map[string]bool, len(cfg.genes))
		for _, g := range cfg.genes {
			filter.GeneIDs[g] = true
		}
	}
	if len(cfg.biotypes) > 0 {
		filter.Biotypes = make(map[string]bool, len(cfg.biotypes))
		for _, b := range cfg.biotypes {
			filter.Biotypes[b] = true
		}
	}
	loader.SetFilter(filter)

	a.logger.Info("loading annotation", zap.String("path", cfg.input))
	loci, err := loader.Load()
	if err != nil {
		return nil, fmt.Errorf("loading annotation: %w", err)
	}
	if n := loader.Skipped(); n > 0 {
		a.logger.Warn("skipped malformed or inconsistent GTF records", zap.Int("count", n))
	}
	a.logger.Info("annotation loaded", zap.Int("genes", len(loci)))
	return loci, nil
}

// regionQuery is a parsed chrom:start-end selection.
type regionQuery struct {
	chrom      string
	start, end int64
}

// parseRegion parses "chrom:start-end" or "chrom:pos". Thousands separators
// are accepted.
func parseRegion(s string) (regionQuery, error) {
	chrom, span, ok := strings.Cut(s, ":")
	if !ok || chrom == "" || span == "" {
		return regionQuery{}, fmt.Errorf("invalid region %q (expected chrom:start-end)", s)
	}

	startStr, endStr, isRange := strings.Cut(strings.ReplaceAll(span, ",", ""), "-")
	start, err := strconv.ParseInt(startStr, 10, 64)
	if err != nil {
		return regionQuery{}, fmt.Errorf("invalid region start %q: %w", startStr, err)
	}
	end := start
	if isRange {
		end, err = strconv.ParseInt(endStr, 10, 64)
		if err != nil {
			return regionQuery{}, fmt.Errorf("invalid region end %q: %w", endStr, err)
		}
	}
	if start < 1 || end < start {
		return regionQuery{}, fmt.Errorf("invalid region %q: start must be >= 1 and <= end", s)
	}
	return regionQuery{chrom: chrom, start: start, end: end}, nil
}

// recorder buffers the records of a run for the DuckDB event store. A nil
// store makes every method a no-op.
type recorder struct {
	store   *duckdb.Store
	runID   string
	records []output.Record
	logger  *zap.Logger
}

// runOptions collects the settings that decide which events a run holds.
func runOptions(cfg detectConfig, region *regionQuery) duckdb.RunOptions {
	opts := duckdb.RunOptions{
		Relaxed:           cfg.relaxed,
		ConstitutivesOnly: cfg.constitutivesOnly,
		Genes:             cfg.genes,
		Chrom:             cfg.chrom,
		Biotypes:          cfg.biotypes,
		Limit:             cfg.limit,
	}
	if region != nil {
		opts.Region = fmt.Sprintf("%s:%d-%d", region.chrom, region.start, region.end)
	}
	return opts
}

func (a *app) openRecorder(cfg detectConfig, opts duckdb.RunOptions) (*recorder, error) {
	rec := &recorder{logger: a.logger}
	if cfg.dbPath == "" {
		return rec, nil
	}

	fp, err := duckdb.StatFile(cfg.input)
	if err != nil {
		return nil, fmt.Errorf("stat input: %w", err)
	}
	store, err := duckdb.Open(cfg.dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening event store: %w", err)
	}
	store.SetLogger(a.logger)

	if !cfg.force {
		run, found, err := store.FindRun(fp, opts)
		if err != nil {
			store.Close()
			return nil, err
		}
		if found {
			a.logger.Info("input unchanged since stored run, not storing events (use --force to store again)",
				zap.String("run_id", run.ID))
			store.Close()
			return rec, nil
		}
	}

	runID, err := store.CreateRun(fp, opts)
	if err != nil {
		store.Close()
		return nil, err
	}
	rec.store = store
	rec.runID = runID
	return rec, nil
}

func (r *recorder) add(records []output.Record) {
	if r.store != nil {
		r.records = append(r.records, records...)
	}
}

func (r *recorder) commit() error {
	if r.store == nil {
		return nil
	}
	if err := r.store.WriteEvents(r.runID, r.records); err != nil {
		return fmt.Errorf("storing events: %w", err)
	}
	r.logger.Info("events stored",
		zap.String("run_id", r.runID),
		zap.String("db", r.store.Path()),
		zap.Int("events", len(r.records)))
	return nil
}

// discard removes the run created for an interrupted detection.
func (r *recorder) discard() {
	if r.store == nil {
		return
	}
	if err := r.store.DeleteRun(r.runID); err != nil {
		r.logger.Warn("could not remove incomplete run", zap.String("run_id", r.runID), zap.Error(err))
	}
}

func (r *recorder) close() {
	if r.store != nil {
		r.store.Close()
	}
}
