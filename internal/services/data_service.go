package services

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/montanaflynn/stats"

	"sispulse/internal/analytics"
	"sispulse/internal/config"
	"sispulse/internal/dataprocessing"
	apperrors "sispulse/internal/errors"
	"sispulse/pkg/contracts/domain"
)

// Filter narrows dashboard queries. Empty fields match everything.
type Filter struct {
	Department string
	Semester   string
}

// Summary holds the dashboard headline metrics for a filtered view.
type Summary struct {
	TotalStudents     int     `json:"total_students"`
	AverageFinalGrade float64 `json:"average_final_grade"`
	AtRiskStudents    int     `json:"at_risk_students"`
	Records           int     `json:"records"`
}

// FilterOptions lists the distinct values the dashboard can filter on.
type FilterOptions struct {
	Departments []string `json:"departments"`
	Semesters   []string `json:"semesters"`
}

// RecordView is one cleaned enrollment row with its risk fields recomputed
// for presentation. Risk is never persisted; it is derived on every read.
type RecordView struct {
	StudentID      string  `json:"student_id"`
	Name           string  `json:"name"`
	Department     string  `json:"department"`
	CourseID       string  `json:"course_id"`
	CourseName     string  `json:"course_name"`
	Semester       string  `json:"semester"`
	LMSHours       float64 `json:"lms_hours"`
	AttendanceRate float64 `json:"attendance_rate"`
	MidtermGrade   float64 `json:"midterm_grade"`
	FinalGrade     string  `json:"final_grade"`
	LetterGrade    string  `json:"letter_grade"`
	GradeDrop      float64 `json:"grade_drop"`
	AtRisk         bool    `json:"at_risk"`
}

// StudentProfile aggregates one student's cleaned rows for the drill-down
// view.
type StudentProfile struct {
	StudentID         string       `json:"student_id"`
	Name              string       `json:"name"`
	Department        string       `json:"department"`
	Courses           []RecordView `json:"courses"`
	AverageAttendance float64      `json:"average_attendance"`
	AverageFinalGrade float64      `json:"average_final_grade"`
	TotalLMSHours     float64      `json:"total_lms_hours"`
	AtRisk            bool         `json:"at_risk"`
}

// DataService serves dashboard queries from the cleaned master table. It
// rereads the table on every call so a pipeline rerun is picked up without a
// restart.
type DataService struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewDataService creates a DataService reading from the given paths.
func NewDataService(paths *config.Paths, logger *slog.Logger) *DataService {
	if logger == nil {
		logger = slog.Default()
	}
	return &DataService{paths: paths, logger: logger}
}

// Summary computes the headline metrics over the filtered records.
func (s *DataService) Summary(ctx context.Context, filter Filter) (*Summary, error) {
	records, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	students := make(map[string]struct{})
	var finals []float64
	for _, rec := range records {
		students[rec.StudentID] = struct{}{}
		if rec.FinalGrade.Valid {
			finals = append(finals, rec.FinalGrade.Float64)
		}
	}

	return &Summary{
		TotalStudents:     len(students),
		AverageFinalGrade: meanOrZero(finals),
		AtRiskStudents:    len(domain.AtRiskStudents(records)),
		Records:           len(records),
	}, nil
}

// Records returns the filtered cleaned rows with risk fields recomputed.
func (s *DataService) Records(ctx context.Context, filter Filter) ([]RecordView, error) {
	records, err := s.load(ctx, filter)
	if err != nil {
		return nil, err
	}

	views := make([]RecordView, 0, len(records))
	for _, rec := range records {
		views = append(views, newRecordView(rec))
	}
	return views, nil
}

// Filters lists the distinct departments and semesters present in the
// cleaned table. Departments sort alphabetically, semesters chronologically.
func (s *DataService) Filters(ctx context.Context) (*FilterOptions, error) {
	records, err := s.load(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	depts := make(map[string]struct{})
	sems := make(map[string]struct{})
	for _, rec := range records {
		if rec.Department.Valid {
			depts[rec.Department.String] = struct{}{}
		}
		sems[rec.Semester] = struct{}{}
	}

	options := &FilterOptions{
		Departments: sortedKeys(depts),
		Semesters:   sortedKeys(sems),
	}
	sort.Slice(options.Semesters, func(i, j int) bool {
		return analytics.SemesterSortKey(options.Semesters[i]) < analytics.SemesterSortKey(options.Semesters[j])
	})
	return options, nil
}

// StudentProfile aggregates every cleaned row of one student. A student is
// at risk if any of their courses is flagged.
func (s *DataService) StudentProfile(ctx context.Context, studentID string) (*StudentProfile, error) {
	if studentID == "" {
		return nil, apperrors.NewValidationError("student_id must not be empty")
	}

	records, err := s.load(ctx, Filter{})
	if err != nil {
		return nil, err
	}

	var rows []domain.CleanedRecord
	for _, rec := range records {
		if rec.StudentID == studentID {
			rows = append(rows, rec)
		}
	}
	if len(rows) == 0 {
		return nil, apperrors.NewNotFoundError(fmt.Sprintf("student %s", studentID))
	}

	profile := &StudentProfile{
		StudentID:  studentID,
		Name:       rows[0].Name.String,
		Department: rows[0].Department.String,
	}

	var attendance, finals []float64
	for _, rec := range rows {
		view := newRecordView(rec)
		profile.Courses = append(profile.Courses, view)
		profile.AtRisk = profile.AtRisk || view.AtRisk
		if rec.AttendanceRate.Valid {
			attendance = append(attendance, rec.AttendanceRate.Float64)
		}
		if rec.FinalGrade.Valid {
			finals = append(finals, rec.FinalGrade.Float64)
		}
		if rec.LMSHours.Valid {
			profile.TotalLMSHours += rec.LMSHours.Float64
		}
	}
	profile.AverageAttendance = meanOrZero(attendance)
	profile.AverageFinalGrade = meanOrZero(finals)

	return profile, nil
}

// meanOrZero averages the values, reporting zero for an empty input instead
// of the NaN stats.Mean produces, which JSON cannot carry.
func meanOrZero(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	mean, err := stats.Mean(values)
	if err != nil {
		return 0
	}
	return mean
}

func (s *DataService) load(ctx context.Context, filter Filter) ([]domain.CleanedRecord, error) {
	records, err := dataprocessing.LoadCleaned(s.paths.CleanedTablePath())
	if err != nil {
		return nil, err
	}

	s.logger.DebugContext(ctx, "cleaned table loaded",
		slog.Int("records", len(records)),
		slog.String("department", filter.Department),
		slog.String("semester", filter.Semester))

	if filter.Department == "" && filter.Semester == "" {
		return records, nil
	}
	var filtered []domain.CleanedRecord
	for _, rec := range records {
		if filter.Department != "" && rec.Department.String != filter.Department {
			continue
		}
		if filter.Semester != "" && rec.Semester != filter.Semester {
			continue
		}
		filtered = append(filtered, rec)
	}
	return filtered, nil
}

func newRecordView(rec domain.CleanedRecord) RecordView {
	risk := domain.Classify(rec)
	return RecordView{
		StudentID:      rec.StudentID,
		Name:           rec.Name.String,
		Department:     rec.Department.String,
		CourseID:       rec.CourseID,
		CourseName:     rec.CourseName,
		Semester:       rec.Semester,
		LMSHours:       rec.LMSHours.Float64,
		AttendanceRate: rec.AttendanceRate.Float64,
		MidtermGrade:   rec.MidtermGrade.Float64,
		FinalGrade:     formatFinalGrade(rec),
		LetterGrade:    rec.LetterGrade,
		GradeDrop:      risk.GradeDrop,
		AtRisk:         risk.AtRisk,
	}
}

// formatFinalGrade annotates inferred dropouts so a zero from a dropout is
// distinguishable from an earned zero.
func formatFinalGrade(rec domain.CleanedRecord) string {
	if !rec.FinalGrade.Valid {
		return domain.LetterGradeNA
	}
	if domain.IsInferredDropout(rec) {
		return fmt.Sprintf("%.1f (Dropout)", rec.FinalGrade.Float64)
	}
	return fmt.Sprintf("%.1f", rec.FinalGrade.Float64)
}

func sortedKeys(set map[string]struct{}) []string {
	keys := make([]string, 0, len(set))
	for k := range set {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
