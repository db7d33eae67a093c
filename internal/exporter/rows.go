package exporter

import (
	"strconv"

	"github.com/volatiletech/null/v8"

	"sispulse/pkg/contracts/domain"
)

// Header rows for the raw tables, matching the upstream schema exactly.
var (
	StudentsHeader    = []string{"StudentID", "Name", "Age", "Gender", "Department", "AdmissionYear"}
	EnrollmentsHeader = []string{"EnrollmentID", "StudentID", "CourseID", "CourseName", "Semester"}
	GradesHeader      = []string{"StudentID", "CourseID", "LMS_Hours", "Attendance_Rate", "Midterm_Grade", "Final_Grade"}

	UnifiedHeader = domain.CleanedHeader[:len(domain.CleanedHeader)-1]
)

// StudentRows serializes students for CSV output.
func StudentRows(students []domain.Student) [][]string {
	rows := make([][]string, 0, len(students))
	for _, s := range students {
		rows = append(rows, []string{
			s.StudentID,
			s.Name,
			formatNullFloat(s.Age),
			s.Gender,
			s.Department,
			strconv.Itoa(s.AdmissionYear),
		})
	}
	return rows
}

// EnrollmentRows serializes enrollments for CSV output.
func EnrollmentRows(enrollments []domain.Enrollment) [][]string {
	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, []string{e.EnrollmentID, e.StudentID, e.CourseID, e.CourseName, e.Semester})
	}
	return rows
}

// GradeRows serializes grade records for CSV output.
func GradeRows(grades []domain.GradeRecord) [][]string {
	rows := make([][]string, 0, len(grades))
	for _, g := range grades {
		rows = append(rows, []string{
			g.StudentID,
			g.CourseID,
			formatNullFloat(g.LMSHours),
			formatNullFloat(g.AttendanceRate),
			formatNullFloat(g.MidtermGrade),
			formatNullFloat(g.FinalGrade),
		})
	}
	return rows
}

// UnifiedRows serializes the intermediate unified table.
func UnifiedRows(records []domain.UnifiedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, unifiedColumns(rec))
	}
	return rows
}

// CleanedRows serializes the cleaned master table in the canonical column
// order of domain.CleanedHeader.
func CleanedRows(records []domain.CleanedRecord) [][]string {
	rows := make([][]string, 0, len(records))
	for _, rec := range records {
		rows = append(rows, append(unifiedColumns(rec.UnifiedRecord), rec.LetterGrade))
	}
	return rows
}

func unifiedColumns(rec domain.UnifiedRecord) []string {
	return []string{
		rec.StudentID,
		rec.Name.String,
		formatNullFloat(rec.Age),
		rec.Gender.String,
		rec.Department.String,
		formatNullInt(rec.AdmissionYear),
		rec.EnrollmentID,
		rec.CourseID,
		rec.CourseName,
		rec.Semester,
		formatNullFloat(rec.LMSHours),
		formatNullFloat(rec.AttendanceRate),
		formatNullFloat(rec.MidtermGrade),
		formatNullFloat(rec.FinalGrade),
	}
}

// formatNullFloat renders a nullable float as its shortest exact decimal
// form, or an empty cell when null.
func formatNullFloat(f null.Float64) string {
	if !f.Valid {
		return ""
	}
	return strconv.FormatFloat(f.Float64, 'f', -1, 64)
}

func formatNullInt(i null.Int) string {
	if !i.Valid {
		return ""
	}
	return strconv.Itoa(i.Int)
}
