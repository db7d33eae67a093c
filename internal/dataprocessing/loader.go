package dataprocessing

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/volatiletech/null/v8"

	apperrors "sispulse/internal/errors"
	"sispulse/pkg/contracts/domain"
)

// LoadStudents reads the raw student demographics table. A missing file is
// fatal and reported with the specific path; malformed values propagate as
// parsing errors to the caller.
func LoadStudents(path string) ([]domain.Student, error) {
	rows, err := readTable(path, 6)
	if err != nil {
		return nil, err
	}

	students := make([]domain.Student, 0, len(rows))
	for i, row := range rows {
		age, err := parseNullFloat(row[2])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid Age %q", path, i+2, row[2]), err)
		}
		year, err := parseInt(row[5])
		if err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid AdmissionYear %q", path, i+2, row[5]), err)
		}
		students = append(students, domain.Student{
			StudentID:     row[0],
			Name:          row[1],
			Age:           age,
			Gender:        row[3],
			Department:    row[4],
			AdmissionYear: year,
		})
	}
	return students, nil
}

// LoadEnrollments reads the raw course enrollment table. Duplicate rows are
// preserved here; deduplication is the cleaner's job.
func LoadEnrollments(path string) ([]domain.Enrollment, error) {
	rows, err := readTable(path, 5)
	if err != nil {
		return nil, err
	}

	enrollments := make([]domain.Enrollment, 0, len(rows))
	for _, row := range rows {
		enrollments = append(enrollments, domain.Enrollment{
			EnrollmentID: row[0],
			StudentID:    row[1],
			CourseID:     row[2],
			CourseName:   row[3],
			Semester:     row[4],
		})
	}
	return enrollments, nil
}

// LoadGrades reads the raw grade history table.
func LoadGrades(path string) ([]domain.GradeRecord, error) {
	rows, err := readTable(path, 6)
	if err != nil {
		return nil, err
	}

	grades := make([]domain.GradeRecord, 0, len(rows))
	for i, row := range rows {
		rec := domain.GradeRecord{StudentID: row[0], CourseID: row[1]}

		fields := []struct {
			name string
			col  int
			dst  *null.Float64
		}{
			{"LMS_Hours", 2, &rec.LMSHours},
			{"Attendance_Rate", 3, &rec.AttendanceRate},
			{"Midterm_Grade", 4, &rec.MidtermGrade},
			{"Final_Grade", 5, &rec.FinalGrade},
		}
		for _, f := range fields {
			v, err := parseNullFloat(row[f.col])
			if err != nil {
				return nil, apperrors.NewParsingError(
					fmt.Sprintf("%s row %d: invalid %s %q", path, i+2, f.name, row[f.col]), err)
			}
			*f.dst = v
		}
		grades = append(grades, rec)
	}
	return grades, nil
}

// LoadCleaned reads a previously written cleaned master table. A missing
// file is reported as a guided halt pointing the operator at the pipeline.
func LoadCleaned(path string) ([]domain.CleanedRecord, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, apperrors.NewMissingProcessedError(path)
	}

	rows, err := readTable(path, len(domain.CleanedHeader))
	if err != nil {
		return nil, err
	}

	records := make([]domain.CleanedRecord, 0, len(rows))
	for i, row := range rows {
		var rec domain.CleanedRecord
		rec.StudentID = row[0]
		rec.Name = parseNullString(row[1])
		rec.Gender = parseNullString(row[3])
		rec.Department = parseNullString(row[4])
		rec.EnrollmentID = row[6]
		rec.CourseID = row[7]
		rec.CourseName = row[8]
		rec.Semester = row[9]
		rec.LetterGrade = row[14]

		if rec.Age, err = parseNullFloat(row[2]); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid Age %q", path, i+2, row[2]), err)
		}
		if rec.AdmissionYear, err = parseNullInt(row[5]); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid AdmissionYear %q", path, i+2, row[5]), err)
		}
		if rec.LMSHours, err = parseNullFloat(row[10]); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid LMS_Hours %q", path, i+2, row[10]), err)
		}
		if rec.AttendanceRate, err = parseNullFloat(row[11]); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid Attendance_Rate %q", path, i+2, row[11]), err)
		}
		if rec.MidtermGrade, err = parseNullFloat(row[12]); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid Midterm_Grade %q", path, i+2, row[12]), err)
		}
		if rec.FinalGrade, err = parseNullFloat(row[13]); err != nil {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s row %d: invalid Final_Grade %q", path, i+2, row[13]), err)
		}
		records = append(records, rec)
	}
	return records, nil
}

// readTable opens a comma-delimited file with a required header row and
// returns its data rows, verifying the column count.
func readTable(path string, wantCols int) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, apperrors.NewMissingInputError(path, err)
		}
		return nil, apperrors.NewStorageError(fmt.Sprintf("failed to open %s", path), err)
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = wantCols

	// Header row is required.
	if _, err := reader.Read(); err != nil {
		if err == io.EOF {
			return nil, apperrors.NewParsingError(fmt.Sprintf("%s is empty, header row required", path), nil)
		}
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read header of %s", path), err)
	}

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("failed to read %s", path), err)
	}
	return rows, nil
}

func parseNullFloat(s string) (null.Float64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Float64{}, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Float64{}, err
	}
	return null.Float64From(v), nil
}

func parseNullInt(s string) (null.Int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return null.Int{}, nil
	}
	// Admission years survive a float round-trip in upstream tools.
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return null.Int{}, err
	}
	return null.IntFrom(int(v)), nil
}

func parseNullString(s string) null.String {
	if s == "" {
		return null.String{}
	}
	return null.StringFrom(s)
}

func parseInt(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}
