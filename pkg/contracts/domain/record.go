package domain

import (
	"github.com/volatiletech/null/v8"
)

// UnifiedRecord is the row-per-enrollment result of integrating the three
// raw tables: enrollments left-joined with students on StudentID, then with
// grades on (StudentID, CourseID). An enrollment with no matching student or
// grade row keeps null fields instead of being dropped, so integration never
// loses enrollment rows.
type UnifiedRecord struct {
	EnrollmentID  string       `json:"enrollment_id"`
	StudentID     string       `json:"student_id"`
	CourseID      string       `json:"course_id"`
	CourseName    string       `json:"course_name"`
	Semester      string       `json:"semester"`
	Name          null.String  `json:"name"`
	Age           null.Float64 `json:"age"`
	Gender        null.String  `json:"gender"`
	Department    null.String  `json:"department"`
	AdmissionYear null.Int     `json:"admission_year"`

	LMSHours       null.Float64 `json:"lms_hours"`
	AttendanceRate null.Float64 `json:"attendance_rate"`
	MidtermGrade   null.Float64 `json:"midterm_grade"`
	FinalGrade     null.Float64 `json:"final_grade"`
}

// CleanedRecord is a UnifiedRecord after deduplication, imputation, range
// normalization and letter-grade derivation. It is the sole artifact
// consumed by reporting and dashboard components. GradeDrop and AtRisk are
// deliberately not part of the persisted shape: consumers recompute them via
// Classify so they can never go stale against the source fields.
type CleanedRecord struct {
	UnifiedRecord
	LetterGrade string `json:"letter_grade"`
}

// CleanedHeader is the canonical column order of the cleaned master table.
var CleanedHeader = []string{
	"StudentID", "Name", "Age", "Gender", "Department", "AdmissionYear",
	"EnrollmentID", "CourseID", "CourseName", "Semester",
	"LMS_Hours", "Attendance_Rate", "Midterm_Grade", "Final_Grade", "Letter_Grade",
}

// Letter grade thresholds over the final grade.
const (
	GradeAThreshold = 90.0
	GradeBThreshold = 80.0
	GradeCThreshold = 70.0
	GradeDThreshold = 60.0

	// LetterGradeNA marks a record whose final grade could not be resolved
	// (no grade row matched the enrollment at all).
	LetterGradeNA = "N/A"
)

// LetterGrade maps a final grade onto a letter. It is a pure deterministic
// function so the letter column is always re-derivable and can never diverge
// from the score it was derived from.
func LetterGrade(final null.Float64) string {
	if !final.Valid {
		return LetterGradeNA
	}
	switch score := final.Float64; {
	case score >= GradeAThreshold:
		return "A"
	case score >= GradeBThreshold:
		return "B"
	case score >= GradeCThreshold:
		return "C"
	case score >= GradeDThreshold:
		return "D"
	default:
		return "F"
	}
}

// ClipGrade clamps a grade to the closed interval [0, 100]. Null values pass
// through untouched.
func ClipGrade(g null.Float64) null.Float64 {
	if !g.Valid {
		return g
	}
	switch {
	case g.Float64 < 0:
		return null.Float64From(0)
	case g.Float64 > 100:
		return null.Float64From(100)
	default:
		return g
	}
}
