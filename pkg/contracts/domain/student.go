package domain

import (
	"github.com/volatiletech/null/v8"
)

// Student represents one row of the raw student_demographics table.
// StudentID is the stable unique key; the pipeline never regenerates it.
type Student struct {
	StudentID     string       `json:"student_id" csv:"StudentID"`
	Name          string       `json:"name" csv:"Name"`
	Age           null.Float64 `json:"age" csv:"Age"`
	Gender        string       `json:"gender" csv:"Gender"`
	Department    string       `json:"department" csv:"Department"`
	AdmissionYear int          `json:"admission_year" csv:"AdmissionYear"`
}

// Enrollment represents one row of the raw course_enrollment table.
// Rows are not unique: upstream may emit exact duplicates, which the
// cleaner removes without semantic loss.
type Enrollment struct {
	EnrollmentID string `json:"enrollment_id" csv:"EnrollmentID"`
	StudentID    string `json:"student_id" csv:"StudentID"`
	CourseID     string `json:"course_id" csv:"CourseID"`
	CourseName   string `json:"course_name" csv:"CourseName"`
	Semester     string `json:"semester" csv:"Semester"`
}

// GradeRecord represents one row of the raw grade_history table, keyed by
// (StudentID, CourseID). FinalGrade is nullable: upstream leaves it empty
// for inferred dropouts and missed exams. MidtermGrade may exceed the
// nominal 0-100 range due to noise; the cleaner clips it.
type GradeRecord struct {
	StudentID      string       `json:"student_id" csv:"StudentID"`
	CourseID       string       `json:"course_id" csv:"CourseID"`
	LMSHours       null.Float64 `json:"lms_hours" csv:"LMS_Hours"`
	AttendanceRate null.Float64 `json:"attendance_rate" csv:"Attendance_Rate"`
	MidtermGrade   null.Float64 `json:"midterm_grade" csv:"Midterm_Grade"`
	FinalGrade     null.Float64 `json:"final_grade" csv:"Final_Grade"`
}
