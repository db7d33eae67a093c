package operations

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sispulse/internal/config"
	apperrors "sispulse/internal/errors"
	"sispulse/internal/exporter"
)

func pipelineStages(logger *slog.Logger) []Stage {
	writer := exporter.NewCSVWriter(logger)
	return []Stage{
		NewLoadStage(logger),
		NewIntegrateStage(logger, writer),
		NewCleanStage(logger),
		NewExportStage(logger, writer),
	}
}

func seedRawTables(t *testing.T, paths *config.Paths) {
	t.Helper()
	require.NoError(t, paths.EnsureDirectories())

	files := map[string]string{
		config.StudentsFile: "StudentID,Name,Age,Gender,Department,AdmissionYear\n" +
			"STU0001,Asha Rao,21,F,Computer Science,2022\n" +
			"STU0002,Vikram Iyer,,M,Computer Science,2021\n",
		config.EnrollmentsFile: "EnrollmentID,StudentID,CourseID,CourseName,Semester\n" +
			"E1,STU0001,CRS001,Data Structures and Algorithms,Fall 2023\n" +
			"E1,STU0001,CRS001,Data Structures and Algorithms,Fall 2023\n" +
			"E2,STU0002,CRS002,Operating Systems,Spring 2024\n",
		config.GradesFile: "StudentID,CourseID,LMS_Hours,Attendance_Rate,Midterm_Grade,Final_Grade\n" +
			"STU0001,CRS001,80.5,92.3,71,74.5\n" +
			"STU0002,CRS002,10.2,20,45,\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(paths.RawPath(name), []byte(content), 0644))
	}
}

func TestPipelineEndToEnd(t *testing.T) {
	base := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})
	seedRawTables(t, paths)

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	runner := NewRunner(logger)
	state := &State{Paths: paths}

	results, err := runner.Run(context.Background(), state, pipelineStages(logger)...)
	require.NoError(t, err)
	require.Len(t, results, 4)

	// One duplicate enrollment collapses; integration preserved all three
	// enrollment rows first.
	assert.Len(t, state.Unified, 3)
	assert.Len(t, state.Cleaned, 2)
	assert.Equal(t, 1, state.Report.DuplicatesRemoved)
	assert.Equal(t, 1, state.Report.DropoutsInferred, "attendance 20 with missing final is a dropout")
	assert.Equal(t, 1, state.Report.AgesImputed)

	// Durable snapshots exist.
	for _, path := range []string{
		paths.RawPath(config.UnifiedFile),
		paths.CleanedTablePath(),
		paths.ProcessedPath(config.CleanedExcelFile),
	} {
		info, statErr := os.Stat(path)
		require.NoError(t, statErr, path)
		assert.Positive(t, info.Size())
	}

	content, err := os.ReadFile(paths.CleanedTablePath())
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3, "header plus two cleaned rows")
	assert.Contains(t, lines[0], "Letter_Grade")
}

func TestPipelineHaltsOnMissingInput(t *testing.T) {
	base := t.TempDir()
	paths := config.NewPaths(config.PathsConfig{
		DataDir: filepath.Join(base, "data"),
		LogsDir: filepath.Join(base, "logs"),
	})
	require.NoError(t, paths.EnsureDirectories())
	// No raw tables seeded.

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	runner := NewRunner(logger)
	state := &State{Paths: paths}

	results, err := runner.Run(context.Background(), state, pipelineStages(logger)...)

	require.Error(t, err)
	assert.True(t, apperrors.IsType(err, apperrors.ErrTypeMissingInput))
	assert.Equal(t, StageStatusFailed, results[0].Status)

	// No partial output was written.
	_, statErr := os.Stat(paths.CleanedTablePath())
	assert.True(t, os.IsNotExist(statErr))
}
