package validation

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sispulse/internal/config"
	apperrors "sispulse/internal/errors"
)

func testPaths(t *testing.T) *config.Paths {
	t.Helper()
	base := t.TempDir()
	return config.NewPaths(config.PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})
}

func seedFiles(t *testing.T, paths *config.Paths, names ...string) {
	t.Helper()
	require.NoError(t, paths.EnsureDirectories())
	for _, name := range names {
		require.NoError(t, os.WriteFile(paths.RawPath(name), []byte("header\nrow\n"), 0644))
	}
}

func TestValidateRawTables(t *testing.T) {
	paths := testPaths(t)
	seedFiles(t, paths, RawTableFiles...)

	assert.NoError(t, NewInputValidator(nil).ValidateRawTables(paths))
}

func TestValidateRawTablesMissingDirectory(t *testing.T) {
	paths := testPaths(t)
	// EnsureDirectories never called.

	err := NewInputValidator(nil).ValidateRawTables(paths)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
}

func TestValidateRawTablesMissingFile(t *testing.T) {
	paths := testPaths(t)
	seedFiles(t, paths, config.StudentsFile, config.EnrollmentsFile)
	// Grades table absent.

	err := NewInputValidator(nil).ValidateRawTables(paths)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
	assert.Contains(t, err.Error(), config.GradesFile)
}

func TestValidateRawTablesEmptyFile(t *testing.T) {
	paths := testPaths(t)
	seedFiles(t, paths, RawTableFiles...)
	require.NoError(t, os.WriteFile(paths.RawPath(config.GradesFile), nil, 0644))

	err := NewInputValidator(nil).ValidateRawTables(paths)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeParsing))
}
