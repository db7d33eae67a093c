package dataprocessing

import (
	"github.com/volatiletech/null/v8"

	"sispulse/pkg/contracts/domain"
)

// gradeKey identifies a grade row by its composite key.
type gradeKey struct {
	StudentID string
	CourseID  string
}

// Integrate left-joins enrollments with students on StudentID, then with
// grades on (StudentID, CourseID). Every enrollment row is preserved: an
// enrollment without a matching demographic or grade row gets null fields
// instead of being dropped, so len(result) == len(enrollments) always.
func Integrate(students []domain.Student, enrollments []domain.Enrollment, grades []domain.GradeRecord) []domain.UnifiedRecord {
	studentsByID := make(map[string]domain.Student, len(students))
	for _, s := range students {
		studentsByID[s.StudentID] = s
	}

	gradesByKey := make(map[gradeKey]domain.GradeRecord, len(grades))
	for _, g := range grades {
		gradesByKey[gradeKey{g.StudentID, g.CourseID}] = g
	}

	unified := make([]domain.UnifiedRecord, 0, len(enrollments))
	for _, e := range enrollments {
		rec := domain.UnifiedRecord{
			EnrollmentID: e.EnrollmentID,
			StudentID:    e.StudentID,
			CourseID:     e.CourseID,
			CourseName:   e.CourseName,
			Semester:     e.Semester,
		}

		if s, ok := studentsByID[e.StudentID]; ok {
			rec.Name = null.StringFrom(s.Name)
			rec.Age = s.Age
			rec.Gender = null.StringFrom(s.Gender)
			rec.Department = null.StringFrom(s.Department)
			rec.AdmissionYear = null.IntFrom(s.AdmissionYear)
		}

		if g, ok := gradesByKey[gradeKey{e.StudentID, e.CourseID}]; ok {
			rec.LMSHours = g.LMSHours
			rec.AttendanceRate = g.AttendanceRate
			rec.MidtermGrade = g.MidtermGrade
			rec.FinalGrade = g.FinalGrade
		}

		unified = append(unified, rec)
	}

	return unified
}
