package duckdb

import (
	"os"
	"path/filepath"
	"time"
)

// FileFingerprint holds stat-based identity for an input file.
type FileFingerprint struct {
	Path    string
	Size    int64
	ModTime time.Time
}

// StatFile creates a FileFingerprint from an on-disk file. The path is made
// absolute and the modification time truncated to the microsecond precision
// of DuckDB timestamps.
func StatFile(path string) (FileFingerprint, error) {
	info, err := os.Stat(path)
	if err != nil {
		return FileFingerprint{}, err
	}
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	return FileFingerprint{
		Path:    path,
		Size:    info.Size(),
		ModTime: info.ModTime().Truncate(time.Microsecond),
	}, nil
}
