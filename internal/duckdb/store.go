// Package duckdb stores splicing event detection runs in DuckDB so they can
// be queried and served after the fact.
package duckdb

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/marcboeker/go-duckdb"
	"go.uber.org/zap"
)

// Store manages a DuckDB connection holding detection runs and their events.
type Store struct {
	db     *sql.DB
	path   string
	logger *zap.Logger
}

// Open opens or creates a DuckDB database at the given path.
// Use an empty string for an in-memory database.
func Open(path string) (*Store, error) {
	if path != "" {
		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create database directory: %w", err)
		}
	}

	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("open duckdb: %w", err)
	}

	s := &Store{db: db, path: path, logger: zap.NewNop()}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ensure schema: %w", err)
	}

	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// SetLogger sets the logger used to report rejected records.
func (s *Store) SetLogger(logger *zap.Logger) {
	s.logger = logger
}

// DB returns the underlying *sql.DB for direct access.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Path returns the database path, empty for in-memory stores.
func (s *Store) Path() string {
	return s.path
}

// ensureSchema creates tables if they don't exist.
func (s *Store) ensureSchema() error {
	if _, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS runs (
		run_id VARCHAR PRIMARY KEY,
		created_at TIMESTAMP,
		input_path VARCHAR,
		input_size BIGINT,
		input_mtime TIMESTAMP,
		relaxed BOOLEAN,
		constitutives_only BOOLEAN,
		genes VARCHAR,
		chrom VARCHAR,
		region VARCHAR,
		biotypes VARCHAR,
		gene_limit INTEGER
	)`); err != nil {
		return err
	}

	_, err := s.db.Exec(`CREATE TABLE IF NOT EXISTS splicing_events (
		run_id VARCHAR,
		event_id VARCHAR,
		gene_id VARCHAR,
		gene_name VARCHAR,
		type VARCHAR,
		chrom VARCHAR,
		start BIGINT,
		"end" BIGINT,
		strand TINYINT,
		features_a VARCHAR,
		features_b VARCHAR,
		sites_a VARCHAR,
		sites_b VARCHAR,
		constitutive_exons VARCHAR,
		constitutive_sites VARCHAR,
		pairs VARCHAR,
		attributes VARCHAR,
		PRIMARY KEY (run_id, event_id)
	)`)
	return err
}
