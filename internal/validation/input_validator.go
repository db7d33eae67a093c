// Package validation provides preflight checks for the pipeline's input
// files, so a run fails fast with a guided error instead of partway through
// loading.
package validation

import (
	"fmt"
	"log/slog"
	"os"

	"sispulse/internal/config"
	apperrors "sispulse/internal/errors"
)

// RawTableFiles lists the raw table file names the pipeline requires.
var RawTableFiles = []string{
	config.StudentsFile,
	config.EnrollmentsFile,
	config.GradesFile,
}

// InputValidator checks that the raw input tables exist and are readable
// before any stage runs.
type InputValidator struct {
	logger *slog.Logger
}

// NewInputValidator creates an input validator.
func NewInputValidator(logger *slog.Logger) *InputValidator {
	if logger == nil {
		logger = slog.Default()
	}
	return &InputValidator{logger: logger}
}

// ValidateRawTables verifies the raw directory exists and every required
// table is a non-empty regular file. The first problem found is returned as
// a guided missing-input error.
func (v *InputValidator) ValidateRawTables(paths *config.Paths) error {
	info, err := os.Stat(paths.RawDir)
	if err != nil {
		return apperrors.NewMissingInputError(paths.RawDir, err)
	}
	if !info.IsDir() {
		return apperrors.NewMissingInputError(paths.RawDir, fmt.Errorf("%s is not a directory", paths.RawDir))
	}

	for _, name := range RawTableFiles {
		path := paths.RawPath(name)
		info, err := os.Stat(path)
		if err != nil {
			return apperrors.NewMissingInputError(path, err)
		}
		if info.IsDir() {
			return apperrors.NewMissingInputError(path, fmt.Errorf("%s is a directory", path))
		}
		if info.Size() == 0 {
			return apperrors.NewParsingError(path, fmt.Errorf("file is empty"))
		}
	}

	v.logger.Debug("raw tables validated",
		slog.String("dir", paths.RawDir),
		slog.Int("files", len(RawTableFiles)))
	return nil
}
