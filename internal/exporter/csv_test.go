package exporter

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"sispulse/pkg/contracts/domain"
)

func TestCSVWriterWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "processed", "cleaned_master_dataset.csv")
	writer := NewCSVWriter(nil)

	err := writer.Write(path, []string{"StudentID", "Final_Grade"}, [][]string{
		{"STU0001", "74.5"},
		{"STU0002", "0"},
	})
	require.NoError(t, err)

	content, err := os.ReadFile(path)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 3)
	assert.Equal(t, "StudentID,Final_Grade", lines[0])
	assert.Equal(t, "STU0001,74.5", lines[1])
}

func TestCSVWriterOverwritesPriorSnapshot(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	writer := NewCSVWriter(nil)

	require.NoError(t, writer.Write(path, []string{"A"}, [][]string{{"old"}}))
	require.NoError(t, writer.Write(path, []string{"A"}, [][]string{{"new"}}))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(content), "old")
	assert.Contains(t, string(content), "new")
}

func TestCSVWriterLeavesNoTempFiles(t *testing.T) {
	dir := t.TempDir()
	writer := NewCSVWriter(nil)

	require.NoError(t, writer.Write(filepath.Join(dir, "out.csv"), []string{"A"}, nil))

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "out.csv", entries[0].Name())
}

func TestCleanedRowsSerialization(t *testing.T) {
	rec := domain.CleanedRecord{
		UnifiedRecord: domain.UnifiedRecord{
			EnrollmentID:   "E1",
			StudentID:      "STU0001",
			CourseID:       "CRS001",
			CourseName:     "Data Structures and Algorithms",
			Semester:       "Fall 2023",
			Name:           null.StringFrom("Asha Rao"),
			Age:            null.Float64From(21.5),
			Gender:         null.StringFrom("F"),
			Department:     null.StringFrom("Computer Science"),
			AdmissionYear:  null.IntFrom(2022),
			LMSHours:       null.Float64From(80.5),
			AttendanceRate: null.Float64From(92.3),
			MidtermGrade:   null.Float64From(71),
			FinalGrade:     null.Float64{},
		},
		LetterGrade: domain.LetterGradeNA,
	}

	rows := CleanedRows([]domain.CleanedRecord{rec})
	require.Len(t, rows, 1)
	require.Len(t, rows[0], len(domain.CleanedHeader))

	assert.Equal(t, "STU0001", rows[0][0])
	assert.Equal(t, "21.5", rows[0][2], "fractional imputed ages keep their value")
	assert.Equal(t, "2022", rows[0][5])
	assert.Equal(t, "71", rows[0][12], "whole floats serialize without trailing zeros")
	assert.Equal(t, "", rows[0][13], "null grade serializes as empty cell")
	assert.Equal(t, domain.LetterGradeNA, rows[0][14])
}

func TestUnifiedHeaderDropsOnlyLetterGrade(t *testing.T) {
	assert.Len(t, UnifiedHeader, len(domain.CleanedHeader)-1)
	assert.NotContains(t, UnifiedHeader, "Letter_Grade")
}

func TestExportCleanedXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cleaned_master_dataset.xlsx")

	rec := domain.CleanedRecord{
		UnifiedRecord: domain.UnifiedRecord{
			EnrollmentID: "E1",
			StudentID:    "STU0001",
			CourseID:     "CRS001",
			FinalGrade:   null.Float64From(88),
		},
		LetterGrade: "B",
	}

	require.NoError(t, ExportCleanedXLSX(path, []domain.CleanedRecord{rec}, nil))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Positive(t, info.Size())
}
