package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewPathsLayout(t *testing.T) {
	paths := NewPaths(PathsConfig{DataDir: "data", LogsDir: "logs"})

	assert.Equal(t, filepath.Join("data", "raw"), paths.RawDir)
	assert.Equal(t, filepath.Join("data", "processed"), paths.ProcessedDir)
	assert.Equal(t, filepath.Join("data", "reports"), paths.ReportsDir)
	assert.Equal(t, filepath.Join("data", "visualizations"), paths.VisualizationsDir)
	assert.Equal(t, "logs", paths.LogsDir)

	assert.Equal(t, filepath.Join("data", "raw", StudentsFile), paths.RawPath(StudentsFile))
	assert.Equal(t, filepath.Join("data", "processed", CleanedFile), paths.CleanedTablePath())
}

func TestNewPathsDefaults(t *testing.T) {
	paths := NewPaths(PathsConfig{})
	assert.Equal(t, "data", paths.DataDir)
	assert.Equal(t, "logs", paths.LogsDir)
}

func TestEnsureDirectories(t *testing.T) {
	base := t.TempDir()
	paths := NewPaths(PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})

	require.NoError(t, paths.EnsureDirectories())

	for _, dir := range []string{paths.RawDir, paths.ProcessedDir, paths.ReportsDir, paths.VisualizationsDir, paths.LogsDir} {
		info, err := os.Stat(dir)
		require.NoError(t, err)
		assert.True(t, info.IsDir())
	}

	// Re-running against existing directories is a no-op.
	require.NoError(t, paths.EnsureDirectories())
}
