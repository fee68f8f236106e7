package duckdb

import (
	"context"
	"database/sql/driver"
	"fmt"
	"strings"

	goduckdb "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"

	"github.com/inodb/vibe-splice/internal/output"
)

// List columns are stored as delimited strings. Pairs contain a comma, so
// they are separated by semicolons. Attributes are stored as key=value
// items separated by semicolons.
const (
	listSep = ","
	pairSep = ";"
	attrSep = ";"
)

// WriteEvents batch-inserts event records of a run into DuckDB using the
// Appender API. A record whose event identifier was already written in the
// same batch is logged as an error and skipped.
func (s *Store) WriteEvents(runID string, records []output.Record) error {
	if len(records) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(records))

	conn, err := s.db.Conn(context.Background())
	if err != nil {
		return fmt.Errorf("get connection: %w", err)
	}
	defer conn.Close()

	var appender *goduckdb.Appender
	if err := conn.Raw(func(driverConn any) error {
		var err error
		appender, err = goduckdb.NewAppenderFromConn(driverConn.(driver.Conn), "", "splicing_events")
		return err
	}); err != nil {
		return fmt.Errorf("create appender: %w", err)
	}
	defer appender.Close()

	for _, r := range records {
		if seen[r.EventID] {
			s.logger.Error("duplicate event identifier, record not stored",
				zap.String("run_id", runID),
				zap.String("event_id", r.EventID),
				zap.String("chrom", r.Chrom),
				zap.Int64("start", r.Start))
			continue
		}
		seen[r.EventID] = true

		if err := appender.AppendRow(
			runID, r.EventID, r.GeneID, r.GeneName, r.Type,
			r.Chrom, r.Start, r.End, r.Strand,
			strings.Join(r.FeaturesA, listSep), strings.Join(r.FeaturesB, listSep),
			strings.Join(r.SitesA, listSep), strings.Join(r.SitesB, listSep),
			strings.Join(r.ConstitutiveExons, listSep),
			strings.Join(r.ConstitutiveSites, listSep),
			strings.Join(r.Pairs, pairSep),
			joinAttributes(r.Attributes),
		); err != nil {
			return fmt.Errorf("append event: %w", err)
		}
	}

	return appender.Flush()
}

const eventColumns = `event_id, gene_id, gene_name, type, chrom, start, "end", strand,
	features_a, features_b, sites_a, sites_b, constitutive_exons, constitutive_sites,
	pairs, attributes`

// EventsByGene returns the events of a gene in a run.
func (s *Store) EventsByGene(runID, geneID string) ([]output.Record, error) {
	return s.queryEvents(`SELECT `+eventColumns+` FROM splicing_events
		WHERE run_id = ? AND gene_id = ?
		ORDER BY chrom, start, event_id`, runID, geneID)
}

// EventsByType returns the events of one type (e.g. "CE") in a run.
func (s *Store) EventsByType(runID, eventType string) ([]output.Record, error) {
	return s.queryEvents(`SELECT `+eventColumns+` FROM splicing_events
		WHERE run_id = ? AND type = ?
		ORDER BY chrom, start, event_id`, runID, eventType)
}

// CountByType returns the number of events per type in a run.
func (s *Store) CountByType(runID string) (map[string]int, error) {
	rows, err := s.db.Query(`SELECT type, count(*) FROM splicing_events
		WHERE run_id = ? GROUP BY type`, runID)
	if err != nil {
		return nil, fmt.Errorf("count events: %w", err)
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var t string
		var n int
		if err := rows.Scan(&t, &n); err != nil {
			return nil, fmt.Errorf("scan count: %w", err)
		}
		counts[t] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate counts: %w", err)
	}
	return counts, nil
}

func (s *Store) queryEvents(query string, args ...any) ([]output.Record, error) {
	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("query events: %w", err)
	}
	defer rows.Close()

	var records []output.Record
	for rows.Next() {
		var r output.Record
		var featuresA, featuresB, sitesA, sitesB string
		var constitutiveExons, constitutiveSites, pairs, attributes string
		if err := rows.Scan(
			&r.EventID, &r.GeneID, &r.GeneName, &r.Type, &r.Chrom,
			&r.Start, &r.End, &r.Strand,
			&featuresA, &featuresB, &sitesA, &sitesB,
			&constitutiveExons, &constitutiveSites, &pairs, &attributes,
		); err != nil {
			return nil, fmt.Errorf("scan event: %w", err)
		}
		r.FeaturesA = split(featuresA, listSep)
		r.FeaturesB = split(featuresB, listSep)
		r.SitesA = split(sitesA, listSep)
		r.SitesB = split(sitesB, listSep)
		r.ConstitutiveExons = split(constitutiveExons, listSep)
		r.ConstitutiveSites = split(constitutiveSites, listSep)
		r.Pairs = split(pairs, pairSep)
		r.Attributes = splitAttributes(attributes)
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return records, nil
}

func split(s, sep string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, sep)
}

func joinAttributes(attrs []output.Attribute) string {
	items := make([]string, len(attrs))
	for i, a := range attrs {
		items[i] = a.Key + "=" + a.Value
	}
	return strings.Join(items, attrSep)
}

func splitAttributes(s string) []output.Attribute {
	var attrs []output.Attribute
	for _, item := range split(s, attrSep) {
		key, value, _ := strings.Cut(item, "=")
		attrs = append(attrs, output.Attribute{Key: key, Value: value})
	}
	return attrs
}
