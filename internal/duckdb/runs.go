package duckdb

import (
	"database/sql"
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrRunNotFound is returned when a run identifier is unknown.
var ErrRunNotFound = errors.New("run not found")

// RunOptions are the detection settings a run was made with. Two runs on an
// unchanged input are equivalent only when all of them match.
type RunOptions struct {
	Relaxed           bool     `json:"relaxed"`
	ConstitutivesOnly bool     `json:"constitutives_only"`
	Genes             []string `json:"genes,omitempty"`
	Chrom             string   `json:"chrom,omitempty"`
	Region            string   `json:"region,omitempty"`
	Biotypes          []string `json:"biotypes,omitempty"`
	Limit             int      `json:"limit,omitempty"`
}

// Run describes one stored detection run.
type Run struct {
	ID           string    `json:"run_id"`
	CreatedAt    time.Time `json:"created_at"`
	InputPath    string    `json:"input_path"`
	InputSize    int64     `json:"input_size"`
	InputModTime time.Time `json:"input_mtime"`
	RunOptions
}

const runColumns = `run_id, created_at, input_path, input_size, input_mtime,
	relaxed, constitutives_only, genes, chrom, region, biotypes, gene_limit`

// joinSet joins a filter list in sorted order so that the same set always
// gives the same column value.
func joinSet(values []string) string {
	sorted := slices.Clone(values)
	slices.Sort(sorted)
	return strings.Join(slices.Compact(sorted), listSep)
}

// CreateRun registers a new run for the given input and options and returns
// its identifier.
func (s *Store) CreateRun(fp FileFingerprint, opts RunOptions) (string, error) {
	id := uuid.NewString()
	_, err := s.db.Exec(`INSERT INTO runs (`+runColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, time.Now().UTC(), fp.Path, fp.Size, fp.ModTime.UTC(),
		opts.Relaxed, opts.ConstitutivesOnly, joinSet(opts.Genes), opts.Chrom, opts.Region,
		joinSet(opts.Biotypes), opts.Limit)
	if err != nil {
		return "", fmt.Errorf("insert run: %w", err)
	}
	return id, nil
}

// Runs returns all runs, newest first.
func (s *Store) Runs() ([]Run, error) {
	rows, err := s.db.Query(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC`)
	if err != nil {
		return nil, fmt.Errorf("query runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate runs: %w", err)
	}
	return runs, nil
}

// Run returns the run with the given identifier.
func (s *Store) Run(id string) (Run, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, id)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: %s", ErrRunNotFound, id)
	}
	return r, err
}

// LatestRun returns the most recently created run.
func (s *Store) LatestRun() (Run, error) {
	row := s.db.QueryRow(`SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC LIMIT 1`)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, fmt.Errorf("%w: no runs stored", ErrRunNotFound)
	}
	return r, err
}

// FindRun returns the newest run made on an unchanged input with the same
// options, if any.
func (s *Store) FindRun(fp FileFingerprint, opts RunOptions) (Run, bool, error) {
	row := s.db.QueryRow(`SELECT `+runColumns+` FROM runs
		WHERE input_path = ? AND input_size = ? AND input_mtime = ?
		AND relaxed = ? AND constitutives_only = ?
		AND genes = ? AND chrom = ? AND region = ? AND biotypes = ? AND gene_limit = ?
		ORDER BY created_at DESC LIMIT 1`,
		fp.Path, fp.Size, fp.ModTime.UTC(), opts.Relaxed, opts.ConstitutivesOnly,
		joinSet(opts.Genes), opts.Chrom, opts.Region, joinSet(opts.Biotypes), opts.Limit)
	r, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return Run{}, false, nil
	}
	if err != nil {
		return Run{}, false, err
	}
	return r, true, nil
}

// DeleteRun removes a run and its events.
func (s *Store) DeleteRun(id string) error {
	if _, err := s.db.Exec(`DELETE FROM splicing_events WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("delete events: %w", err)
	}
	if _, err := s.db.Exec(`DELETE FROM runs WHERE run_id = ?`, id); err != nil {
		return fmt.Errorf("delete run: %w", err)
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(sc scanner) (Run, error) {
	var r Run
	var genes, biotypes string
	if err := sc.Scan(&r.ID, &r.CreatedAt, &r.InputPath, &r.InputSize, &r.InputModTime,
		&r.Relaxed, &r.ConstitutivesOnly, &genes, &r.Chrom, &r.Region, &biotypes, &r.Limit); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Run{}, err
		}
		return Run{}, fmt.Errorf("scan run: %w", err)
	}
	r.Genes = split(genes, listSep)
	r.Biotypes = split(biotypes, listSep)
	return r, nil
}
