package operations

import (
	"context"
	"log/slog"

	"sispulse/internal/config"
	"sispulse/internal/dataprocessing"
	"sispulse/internal/exporter"
	"sispulse/internal/validation"
	"sispulse/pkg/contracts/domain"
)

// LoadStage validates and reads the three raw tables. A missing input file
// fails the stage, which halts the run before anything is written.
type LoadStage struct {
	logger    *slog.Logger
	validator *validation.InputValidator
}

// NewLoadStage creates the raw table loading stage.
func NewLoadStage(logger *slog.Logger) *LoadStage {
	return &LoadStage{logger: logger, validator: validation.NewInputValidator(logger)}
}

func (s *LoadStage) ID() string   { return "load" }
func (s *LoadStage) Name() string { return "Load raw tables" }

func (s *LoadStage) Execute(ctx context.Context, state *State) error {
	if err := s.validator.ValidateRawTables(state.Paths); err != nil {
		return err
	}

	students, err := dataprocessing.LoadStudents(state.Paths.RawPath(config.StudentsFile))
	if err != nil {
		return err
	}
	enrollments, err := dataprocessing.LoadEnrollments(state.Paths.RawPath(config.EnrollmentsFile))
	if err != nil {
		return err
	}
	grades, err := dataprocessing.LoadGrades(state.Paths.RawPath(config.GradesFile))
	if err != nil {
		return err
	}

	state.Students = students
	state.Enrollments = enrollments
	state.Grades = grades

	s.logger.InfoContext(ctx, "raw tables loaded",
		slog.Int("students", len(students)),
		slog.Int("enrollments", len(enrollments)),
		slog.Int("grades", len(grades)))

	return nil
}

// IntegrateStage joins the raw tables into the unified table and writes the
// transient unified snapshot.
type IntegrateStage struct {
	logger *slog.Logger
	writer *exporter.CSVWriter
}

// NewIntegrateStage creates the integration stage.
func NewIntegrateStage(logger *slog.Logger, writer *exporter.CSVWriter) *IntegrateStage {
	return &IntegrateStage{logger: logger, writer: writer}
}

func (s *IntegrateStage) ID() string   { return "integrate" }
func (s *IntegrateStage) Name() string { return "Integrate raw tables" }

func (s *IntegrateStage) Execute(ctx context.Context, state *State) error {
	state.Unified = dataprocessing.Integrate(state.Students, state.Enrollments, state.Grades)

	s.logger.InfoContext(ctx, "tables integrated",
		slog.Int("unified_rows", len(state.Unified)),
		slog.Int("enrollment_rows", len(state.Enrollments)))

	path := state.Paths.RawPath(config.UnifiedFile)
	return s.writer.Write(path, exporter.UnifiedHeader, exporter.UnifiedRows(state.Unified))
}

// CleanStage runs the cleaner over the unified table and reports
// data-quality findings as warnings.
type CleanStage struct {
	logger *slog.Logger
}

// NewCleanStage creates the cleaning stage.
func NewCleanStage(logger *slog.Logger) *CleanStage {
	return &CleanStage{logger: logger}
}

func (s *CleanStage) ID() string   { return "clean" }
func (s *CleanStage) Name() string { return "Clean unified table" }

func (s *CleanStage) Execute(ctx context.Context, state *State) error {
	cleaned, report := dataprocessing.Clean(state.Unified)
	state.Cleaned = cleaned
	state.Report = report

	s.logger.InfoContext(ctx, "table cleaned",
		slog.Int("input_rows", report.InputRows),
		slog.Int("output_rows", report.OutputRows),
		slog.Int("duplicates_removed", report.DuplicatesRemoved),
		slog.Int("ages_imputed", report.AgesImputed),
		slog.Int("dropouts_inferred", report.DropoutsInferred),
		slog.Int("missed_exams_inferred", report.MissedExamsInferred))

	if report.ResidualNulls > 0 {
		s.logger.WarnContext(ctx, "residual null values remain after imputation",
			slog.Int("residual_nulls", report.ResidualNulls))
	}

	return nil
}

// ExportStage writes the durable cleaned master snapshots (CSV, atomically,
// plus the XLSX companion).
type ExportStage struct {
	logger *slog.Logger
	writer *exporter.CSVWriter
}

// NewExportStage creates the export stage.
func NewExportStage(logger *slog.Logger, writer *exporter.CSVWriter) *ExportStage {
	return &ExportStage{logger: logger, writer: writer}
}

func (s *ExportStage) ID() string   { return "export" }
func (s *ExportStage) Name() string { return "Export cleaned master table" }

func (s *ExportStage) Execute(ctx context.Context, state *State) error {
	csvPath := state.Paths.CleanedTablePath()
	if err := s.writer.Write(csvPath, domain.CleanedHeader, exporter.CleanedRows(state.Cleaned)); err != nil {
		return err
	}

	xlsxPath := state.Paths.ProcessedPath(config.CleanedExcelFile)
	return exporter.ExportCleanedXLSX(xlsxPath, state.Cleaned, s.logger)
}
