package config

import (
	"os"
	"path/filepath"
)

// Canonical file names used across the pipeline stages. Stage contracts are
// file-shaped: the generator writes the three raw tables, the pipeline
// writes the unified and cleaned tables, and everything downstream reads the
// cleaned table only.
const (
	StudentsFile    = "student_demographics.csv"
	EnrollmentsFile = "course_enrollment.csv"
	GradesFile      = "grade_history.csv"

	UnifiedFile      = "unified_raw_dataset.csv"
	CleanedFile      = "cleaned_master_dataset.csv"
	CleanedExcelFile = "cleaned_master_dataset.xlsx"

	SummaryReportFile = "eda_summary_report.txt"
)

// Paths centralizes every directory the pipeline touches.
type Paths struct {
	DataDir           string
	RawDir            string
	ProcessedDir      string
	ReportsDir        string
	VisualizationsDir string
	LogsDir           string
}

// NewPaths builds the directory layout under the configured data dir.
func NewPaths(cfg PathsConfig) *Paths {
	dataDir := cfg.DataDir
	if dataDir == "" {
		dataDir = "data"
	}
	logsDir := cfg.LogsDir
	if logsDir == "" {
		logsDir = "logs"
	}
	return &Paths{
		DataDir:           dataDir,
		RawDir:            filepath.Join(dataDir, "raw"),
		ProcessedDir:      filepath.Join(dataDir, "processed"),
		ReportsDir:        filepath.Join(dataDir, "reports"),
		VisualizationsDir: filepath.Join(dataDir, "visualizations"),
		LogsDir:           logsDir,
	}
}

// EnsureDirectories creates all pipeline directories that do not yet exist.
func (p *Paths) EnsureDirectories() error {
	dirs := []string{p.RawDir, p.ProcessedDir, p.ReportsDir, p.VisualizationsDir, p.LogsDir}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return nil
}

// RawPath returns the full path of a file in the raw data directory.
func (p *Paths) RawPath(filename string) string {
	return filepath.Join(p.RawDir, filename)
}

// ProcessedPath returns the full path of a file in the processed directory.
func (p *Paths) ProcessedPath(filename string) string {
	return filepath.Join(p.ProcessedDir, filename)
}

// ReportPath returns the full path of a file in the reports directory.
func (p *Paths) ReportPath(filename string) string {
	return filepath.Join(p.ReportsDir, filename)
}

// VisualizationPath returns the full path of a chart file.
func (p *Paths) VisualizationPath(filename string) string {
	return filepath.Join(p.VisualizationsDir, filename)
}

// LogPath returns the full path of a log file.
func (p *Paths) LogPath(filename string) string {
	return filepath.Join(p.LogsDir, filename)
}

// CleanedTablePath is the single source for the cleaned master table
// location; every consumer resolves it through here.
func (p *Paths) CleanedTablePath() string {
	return p.ProcessedPath(CleanedFile)
}
