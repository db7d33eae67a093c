package exporter

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	apperrors "sispulse/internal/errors"
)

// CSVWriter provides CSV export for tabular snapshots.
type CSVWriter struct {
	logger *slog.Logger
}

// NewCSVWriter creates a new CSV writer instance.
func NewCSVWriter(logger *slog.Logger) *CSVWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &CSVWriter{logger: logger}
}

// Write writes a complete table (header plus rows) to path atomically: the
// data is written to a temp file in the destination directory and renamed
// into place, so readers only ever see the previous snapshot or the new one.
func (w *CSVWriter) Write(path string, header []string, rows [][]string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to create directory %s", dir), err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(path)+".tmp-*")
	if err != nil {
		return apperrors.NewStorageError("failed to create temp file for CSV write", err)
	}
	tmpPath := tmp.Name()
	defer os.Remove(tmpPath)

	writer := csv.NewWriter(tmp)
	if err := writer.Write(header); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to write CSV header row", err)
	}
	for i, row := range rows {
		if err := writer.Write(row); err != nil {
			tmp.Close()
			return apperrors.NewStorageError(fmt.Sprintf("failed to write CSV row %d", i), err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("failed to flush CSV data", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("failed to close temp CSV file", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("failed to move CSV into place at %s", path), err)
	}

	w.logger.Info("wrote CSV snapshot",
		slog.String("path", path),
		slog.Int("rows", len(rows)))

	return nil
}
