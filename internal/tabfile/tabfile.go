// Package tabfile loads and writes tabular files in the formats the batch
// understands: csv, xlsx workbooks (one table per worksheet) and sqlite
// databases (one table per database table).
package tabfile

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/idveil/idveil/internal/shift"
	"github.com/idveil/idveil/internal/table"
)

// Supported returns whether path has a file extension the batch can
// process. Matching is case-insensitive.
func Supported(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".xlsx", ".sqlite", ".db":
		return true
	default:
		return false
	}
}

// List enumerates the supported files directly inside dir, sorted by name.
// Subdirectories are not descended into.
func List(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read input dir %s: %w", dir, err)
	}
	var files []string
	for _, entry := range entries {
		if entry.IsDir() || !Supported(entry.Name()) {
			continue
		}
		files = append(files, filepath.Join(dir, entry.Name()))
	}
	sort.Strings(files)
	return files, nil
}

// OutputName derives the output file name for an input path: sanitizing
// appends _sanitized to the stem, desanitizing keeps the name unchanged.
// The extension, and with it the format, is always preserved.
func OutputName(path string, dir shift.Direction) string {
	base := filepath.Base(path)
	if dir == shift.Backward {
		return base
	}
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + "_sanitized" + ext
}

// Load reads every table in the file at path.
func Load(ctx context.Context, path string) ([]*table.Table, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return loadCSV(path)
	case ".xlsx":
		return loadXLSX(path)
	case ".sqlite", ".db":
		return loadSQLite(ctx, path)
	default:
		return nil, fmt.Errorf("unsupported file type: %s", path)
	}
}

// checkColumns rejects a header carrying the same column name twice.
// Duplicate names would collapse into one row key and silently drop a
// column's data on write, so the file is treated as unreadable instead.
func checkColumns(cols []string) error {
	seen := make(map[string]struct{}, len(cols))
	for _, c := range cols {
		if _, ok := seen[c]; ok {
			return fmt.Errorf("duplicate column %q", c)
		}
		seen[c] = struct{}{}
	}
	return nil
}

// Write serializes tables to path in the format named by its extension.
func Write(ctx context.Context, path string, tables []*table.Table) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return writeCSV(path, tables)
	case ".xlsx":
		return writeXLSX(path, tables)
	case ".sqlite", ".db":
		return writeSQLite(ctx, path, tables)
	default:
		return fmt.Errorf("unsupported file type: %s", path)
	}
}
