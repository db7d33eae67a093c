package analytics

import (
	"sort"
	"strconv"
	"strings"

	"github.com/montanaflynn/stats"

	"sispulse/pkg/contracts/domain"
)

// OutlierStdDevFactor is how many sample standard deviations from the mean a
// final grade must sit to count as an outlier.
const OutlierStdDevFactor = 2.0

// CorrelationVariables is the fixed set of quantitative columns correlated
// pairwise, in matrix order.
var CorrelationVariables = []string{"LMS_Hours", "Attendance_Rate", "Midterm_Grade", "Final_Grade"}

// DescriptiveStats summarizes final grades for one department cohort.
type DescriptiveStats struct {
	Department string  `json:"department"`
	Mean       float64 `json:"mean"`
	Median     float64 `json:"median"`
	StdDev     float64 `json:"std_dev"`
	Count      int     `json:"count"`
}

// Outlier is a record whose final grade sits unusually far from the mean.
type Outlier struct {
	StudentID  string  `json:"student_id"`
	Name       string  `json:"name"`
	Department string  `json:"department"`
	FinalGrade float64 `json:"final_grade"`
}

// TrendPoint is the mean final grade of one department in one semester.
type TrendPoint struct {
	Semester   string  `json:"semester"`
	Department string  `json:"department"`
	MeanFinal  float64 `json:"mean_final"`
}

// CohortPoint is the mean final grade of one department × admission-year
// cohort.
type CohortPoint struct {
	Department    string  `json:"department"`
	AdmissionYear int     `json:"admission_year"`
	MeanFinal     float64 `json:"mean_final"`
}

// CohortStats groups records by department and computes mean, median, sample
// standard deviation and count of final grades. Departments are returned in
// alphabetical order; records without a resolvable final grade are skipped.
func CohortStats(records []domain.CleanedRecord) []DescriptiveStats {
	grouped := make(map[string][]float64)
	for _, rec := range records {
		if !rec.FinalGrade.Valid {
			continue
		}
		grouped[rec.Department.String] = append(grouped[rec.Department.String], rec.FinalGrade.Float64)
	}

	result := make([]DescriptiveStats, 0, len(grouped))
	for dept, grades := range grouped {
		mean, _ := stats.Mean(grades)
		median, _ := stats.Median(grades)
		stdDev, _ := stats.StandardDeviationSample(grades)
		result = append(result, DescriptiveStats{
			Department: dept,
			Mean:       mean,
			Median:     median,
			StdDev:     stdDev,
			Count:      len(grades),
		})
	}

	sort.Slice(result, func(i, j int) bool { return result[i].Department < result[j].Department })
	return result
}

// GradeOutliers finds records whose final grade deviates from the overall
// mean by more than OutlierStdDevFactor sample standard deviations.
func GradeOutliers(records []domain.CleanedRecord) []Outlier {
	var grades []float64
	for _, rec := range records {
		if rec.FinalGrade.Valid {
			grades = append(grades, rec.FinalGrade.Float64)
		}
	}
	if len(grades) < 2 {
		return nil
	}

	mean, _ := stats.Mean(grades)
	stdDev, _ := stats.StandardDeviationSample(grades)
	lower := mean - OutlierStdDevFactor*stdDev
	upper := mean + OutlierStdDevFactor*stdDev

	var outliers []Outlier
	for _, rec := range records {
		if !rec.FinalGrade.Valid {
			continue
		}
		if g := rec.FinalGrade.Float64; g < lower || g > upper {
			outliers = append(outliers, Outlier{
				StudentID:  rec.StudentID,
				Name:       rec.Name.String,
				Department: rec.Department.String,
				FinalGrade: g,
			})
		}
	}
	return outliers
}

// CorrelationMatrix computes pairwise Pearson correlations over the
// CorrelationVariables columns, skipping rows with a null in either column
// of a pair. The result is indexed [i][j] in CorrelationVariables order.
func CorrelationMatrix(records []domain.CleanedRecord) [][]float64 {
	n := len(CorrelationVariables)
	matrix := make([][]float64, n)
	for i := range matrix {
		matrix[i] = make([]float64, n)
		matrix[i][i] = 1
	}

	for i := 0; i < n; i++ {
		for j := i + 1; j < n; j++ {
			var xs, ys []float64
			for _, rec := range records {
				x, xok := correlationValue(rec, i)
				y, yok := correlationValue(rec, j)
				if xok && yok {
					xs = append(xs, x)
					ys = append(ys, y)
				}
			}
			r, err := stats.Pearson(xs, ys)
			if err != nil {
				continue
			}
			matrix[i][j] = r
			matrix[j][i] = r
		}
	}
	return matrix
}

func correlationValue(rec domain.CleanedRecord, variable int) (float64, bool) {
	switch CorrelationVariables[variable] {
	case "LMS_Hours":
		return rec.LMSHours.Float64, rec.LMSHours.Valid
	case "Attendance_Rate":
		return rec.AttendanceRate.Float64, rec.AttendanceRate.Valid
	case "Midterm_Grade":
		return rec.MidtermGrade.Float64, rec.MidtermGrade.Valid
	default:
		return rec.FinalGrade.Float64, rec.FinalGrade.Valid
	}
}

// SemesterTrend computes the mean final grade per (semester, department),
// ordered chronologically by semester and then by department name.
func SemesterTrend(records []domain.CleanedRecord) []TrendPoint {
	type key struct {
		semester   string
		department string
	}
	grouped := make(map[key][]float64)
	for _, rec := range records {
		if !rec.FinalGrade.Valid {
			continue
		}
		grouped[key{rec.Semester, rec.Department.String}] = append(
			grouped[key{rec.Semester, rec.Department.String}], rec.FinalGrade.Float64)
	}

	points := make([]TrendPoint, 0, len(grouped))
	for k, grades := range grouped {
		mean, _ := stats.Mean(grades)
		points = append(points, TrendPoint{Semester: k.semester, Department: k.department, MeanFinal: mean})
	}

	sort.Slice(points, func(i, j int) bool {
		ki, kj := SemesterSortKey(points[i].Semester), SemesterSortKey(points[j].Semester)
		if ki != kj {
			return ki < kj
		}
		return points[i].Department < points[j].Department
	})
	return points
}

// AdmissionCohorts computes the mean final grade per department ×
// admission-year cohort, ordered by department then year.
func AdmissionCohorts(records []domain.CleanedRecord) []CohortPoint {
	type key struct {
		department string
		year       int
	}
	grouped := make(map[key][]float64)
	for _, rec := range records {
		if !rec.FinalGrade.Valid || !rec.AdmissionYear.Valid {
			continue
		}
		k := key{rec.Department.String, rec.AdmissionYear.Int}
		grouped[k] = append(grouped[k], rec.FinalGrade.Float64)
	}

	points := make([]CohortPoint, 0, len(grouped))
	for k, grades := range grouped {
		mean, _ := stats.Mean(grades)
		points = append(points, CohortPoint{Department: k.department, AdmissionYear: k.year, MeanFinal: mean})
	}

	sort.Slice(points, func(i, j int) bool {
		if points[i].Department != points[j].Department {
			return points[i].Department < points[j].Department
		}
		return points[i].AdmissionYear < points[j].AdmissionYear
	})
	return points
}

// SemesterSortKey orders semester labels like "Fall 2023" chronologically:
// the year dominates, with Spring before Summer before Fall within a year.
// Unparseable labels sort first.
func SemesterSortKey(semester string) int {
	parts := strings.Fields(semester)
	if len(parts) != 2 {
		return 0
	}
	year, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0
	}
	season := 3
	switch parts[0] {
	case "Spring":
		season = 1
	case "Summer":
		season = 2
	}
	return year*10 + season
}

// EngagementTrendLine fits a least-squares line to (LMSHours, FinalGrade)
// pairs and returns the fitted points, sorted by LMS hours, for chart
// overlay.
func EngagementTrendLine(records []domain.CleanedRecord) []stats.Coordinate {
	var series stats.Series
	for _, rec := range records {
		if rec.LMSHours.Valid && rec.FinalGrade.Valid {
			series = append(series, stats.Coordinate{X: rec.LMSHours.Float64, Y: rec.FinalGrade.Float64})
		}
	}
	fitted, err := stats.LinearRegression(series)
	if err != nil {
		return nil
	}
	sort.Slice(fitted, func(i, j int) bool { return fitted[i].X < fitted[j].X })
	return fitted
}

// LetterGradeCounts tallies records per letter grade in A..F, N/A order.
func LetterGradeCounts(records []domain.CleanedRecord) ([]string, []int) {
	order := []string{"A", "B", "C", "D", "F", domain.LetterGradeNA}
	counts := make(map[string]int)
	for _, rec := range records {
		counts[rec.LetterGrade]++
	}

	var labels []string
	var values []int
	for _, letter := range order {
		if counts[letter] > 0 {
			labels = append(labels, letter)
			values = append(values, counts[letter])
		}
	}
	return labels, values
}
