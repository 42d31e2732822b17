package dataload

import (
	"log/slog"
	"os"
	"strings"

	"hspanel/internal/errors"
)

// Loader reads the pipeline's source tables into typed records.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a loader with the given logger.
// A nil logger falls back to slog.Default().
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger}
}

// openInput opens a required source file, mapping a missing file to the
// fatal MissingInput error that names the input.
func (l *Loader) openInput(input, path string) (*os.File, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.NewMissingInputError(input, path, err)
		}
		return nil, errors.NewStorageError("failed to open "+input, err).WithContext("path", path)
	}
	return file, nil
}

// headerIndex resolves a column by trying the known variants in order and
// returning the first column that matches, so a canonical header name beats a
// drifted one when a table carries both. Comparison trims and lowercases.
// Returns -1 when no variant matches.
func headerIndex(header []string, variants []string) int {
	for _, v := range variants {
		for i, col := range header {
			if strings.ToLower(strings.TrimSpace(col)) == v {
				return i
			}
		}
	}
	return -1
}

// resolveColumn resolves a logical field to a column index or fails with a
// SchemaMismatch naming the variants that were tried.
func resolveColumn(table, field string, header []string, variants []string) (int, error) {
	if idx := headerIndex(header, variants); idx >= 0 {
		return idx, nil
	}
	return -1, errors.NewSchemaMismatchError(table, field, variants)
}

// cell returns the row value at idx, or "" when the row is ragged.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}
