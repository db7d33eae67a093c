package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"sispulse/pkg/contracts/domain"
)

func record(dept, semester string, year int, lms, attendance, midterm, final float64) domain.CleanedRecord {
	finalGrade := null.Float64From(final)
	return domain.CleanedRecord{
		UnifiedRecord: domain.UnifiedRecord{
			StudentID:      "STU0001",
			Name:           null.StringFrom("Asha Rao"),
			Department:     null.StringFrom(dept),
			AdmissionYear:  null.IntFrom(year),
			Semester:       semester,
			LMSHours:       null.Float64From(lms),
			AttendanceRate: null.Float64From(attendance),
			MidtermGrade:   null.Float64From(midterm),
			FinalGrade:     finalGrade,
		},
		LetterGrade: domain.LetterGrade(finalGrade),
	}
}

func TestCohortStats(t *testing.T) {
	records := []domain.CleanedRecord{
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 60),
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 80),
		record("Biology", "Fall 2023", 2022, 50, 90, 70, 90),
	}

	cohorts := CohortStats(records)

	require.Len(t, cohorts, 2)
	assert.Equal(t, "Biology", cohorts[0].Department, "alphabetical order")
	assert.Equal(t, 1, cohorts[0].Count)
	assert.InDelta(t, 90.0, cohorts[0].Mean, 1e-9)

	assert.Equal(t, "Physics", cohorts[1].Department)
	assert.Equal(t, 2, cohorts[1].Count)
	assert.InDelta(t, 70.0, cohorts[1].Mean, 1e-9)
	assert.InDelta(t, 70.0, cohorts[1].Median, 1e-9)
	// Sample standard deviation of {60, 80}.
	assert.InDelta(t, 14.142135, cohorts[1].StdDev, 1e-5)
}

func TestCohortStatsSkipsUnresolvedFinals(t *testing.T) {
	rec := record("Physics", "Fall 2023", 2022, 10, 20, 45, 0)
	rec.FinalGrade = null.Float64{}
	rec.LetterGrade = domain.LetterGradeNA

	cohorts := CohortStats([]domain.CleanedRecord{rec})

	assert.Empty(t, cohorts)
}

func TestGradeOutliers(t *testing.T) {
	records := make([]domain.CleanedRecord, 0, 21)
	for i := 0; i < 20; i++ {
		records = append(records, record("Physics", "Fall 2023", 2022, 50, 90, 70, 70))
	}
	low := record("Physics", "Fall 2023", 2022, 50, 90, 70, 5)
	low.StudentID = "STU0099"
	records = append(records, low)

	outliers := GradeOutliers(records)

	require.Len(t, outliers, 1)
	assert.Equal(t, "STU0099", outliers[0].StudentID)
	assert.InDelta(t, 5.0, outliers[0].FinalGrade, 1e-9)
}

func TestCorrelationMatrix(t *testing.T) {
	// Final grade is a perfect linear function of LMS hours.
	records := []domain.CleanedRecord{
		record("Physics", "Fall 2023", 2022, 10, 50, 40, 20),
		record("Physics", "Fall 2023", 2022, 20, 60, 50, 40),
		record("Physics", "Fall 2023", 2022, 30, 70, 60, 60),
	}

	matrix := CorrelationMatrix(records)

	n := len(CorrelationVariables)
	require.Len(t, matrix, n)
	for i := 0; i < n; i++ {
		assert.InDelta(t, 1.0, matrix[i][i], 1e-9)
	}
	// LMS_Hours vs Final_Grade.
	assert.InDelta(t, 1.0, matrix[0][3], 1e-9)
	assert.InDelta(t, matrix[0][3], matrix[3][0], 1e-9, "symmetric")
}

func TestCorrelationMatrixSkipsNullPairs(t *testing.T) {
	withNull := record("Physics", "Fall 2023", 2022, 40, 80, 60, 0)
	withNull.FinalGrade = null.Float64{}
	records := []domain.CleanedRecord{
		record("Physics", "Fall 2023", 2022, 10, 50, 40, 20),
		record("Physics", "Fall 2023", 2022, 30, 70, 60, 60),
		withNull,
	}

	matrix := CorrelationMatrix(records)

	assert.InDelta(t, 1.0, matrix[0][3], 1e-9, "null row excluded from the pair")
}

func TestSemesterSortKey(t *testing.T) {
	assert.Less(t, SemesterSortKey("Spring 2023"), SemesterSortKey("Summer 2023"))
	assert.Less(t, SemesterSortKey("Summer 2023"), SemesterSortKey("Fall 2023"))
	assert.Less(t, SemesterSortKey("Fall 2023"), SemesterSortKey("Spring 2024"))
	assert.Zero(t, SemesterSortKey("not a semester"))
}

func TestSemesterTrendOrdersChronologically(t *testing.T) {
	records := []domain.CleanedRecord{
		record("Physics", "Spring 2024", 2022, 50, 90, 70, 80),
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 60),
		record("Biology", "Fall 2023", 2022, 50, 90, 70, 70),
	}

	trend := SemesterTrend(records)

	require.Len(t, trend, 3)
	assert.Equal(t, "Fall 2023", trend[0].Semester)
	assert.Equal(t, "Biology", trend[0].Department, "department breaks ties")
	assert.Equal(t, "Fall 2023", trend[1].Semester)
	assert.Equal(t, "Spring 2024", trend[2].Semester)
}

func TestAdmissionCohorts(t *testing.T) {
	records := []domain.CleanedRecord{
		record("Physics", "Fall 2023", 2023, 50, 90, 70, 80),
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 60),
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 70),
	}

	cohorts := AdmissionCohorts(records)

	require.Len(t, cohorts, 2)
	assert.Equal(t, 2022, cohorts[0].AdmissionYear)
	assert.InDelta(t, 65.0, cohorts[0].MeanFinal, 1e-9)
	assert.Equal(t, 2023, cohorts[1].AdmissionYear)
}

func TestLetterGradeCounts(t *testing.T) {
	na := record("Physics", "Fall 2023", 2022, 10, 20, 45, 0)
	na.FinalGrade = null.Float64{}
	na.LetterGrade = domain.LetterGradeNA

	records := []domain.CleanedRecord{
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 95), // A
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 72), // C
		record("Physics", "Fall 2023", 2022, 50, 90, 70, 71), // C
		na,
	}

	labels, values := LetterGradeCounts(records)

	assert.Equal(t, []string{"A", "C", domain.LetterGradeNA}, labels)
	assert.Equal(t, []int{1, 2, 1}, values)
}

func TestEngagementTrendLine(t *testing.T) {
	records := []domain.CleanedRecord{
		record("Physics", "Fall 2023", 2022, 10, 50, 40, 20),
		record("Physics", "Fall 2023", 2022, 20, 60, 50, 40),
		record("Physics", "Fall 2023", 2022, 30, 70, 60, 60),
	}

	fitted := EngagementTrendLine(records)

	require.Len(t, fitted, 3)
	assert.InDelta(t, 20.0, fitted[0].Y, 1e-9)
	assert.InDelta(t, 60.0, fitted[2].Y, 1e-9)
	assert.LessOrEqual(t, fitted[0].X, fitted[1].X)
}
