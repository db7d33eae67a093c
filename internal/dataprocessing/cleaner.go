package dataprocessing

import (
	"github.com/montanaflynn/stats"
	"github.com/volatiletech/null/v8"

	"sispulse/pkg/contracts/domain"
)

// CleanReport summarizes what the cleaner did to one batch. Residual nulls
// and departments without any known age are data-quality findings: they are
// reported as counts and execution continues.
type CleanReport struct {
	InputRows           int `json:"input_rows"`
	OutputRows          int `json:"output_rows"`
	DuplicatesRemoved   int `json:"duplicates_removed"`
	AgesImputed         int `json:"ages_imputed"`
	DropoutsInferred    int `json:"dropouts_inferred"`
	MissedExamsInferred int `json:"missed_exams_inferred"`
	ResidualNulls       int `json:"residual_nulls"`
}

// missingGradeCause tags a null-final-grade row with the inferred reason.
// Classifying first and transforming second keeps the per-cause transforms
// separate, so adding a cause later does not duplicate conditional logic.
type missingGradeCause int

const (
	causeUnknown missingGradeCause = iota
	causeDropout
	causeMissedExam
)

// classifyMissingGrade decides why a row has no final grade. Rows without a
// usable attendance rate cannot be classified and keep their null.
func classifyMissingGrade(rec domain.UnifiedRecord) missingGradeCause {
	if !rec.AttendanceRate.Valid {
		return causeUnknown
	}
	if rec.AttendanceRate.Float64 < domain.DropoutAttendanceThreshold {
		return causeDropout
	}
	return causeMissedExam
}

// Clean transforms the unified table into the cleaned master table:
//
//  1. exact-duplicate rows are removed, keeping first-occurrence order;
//  2. null ages are filled with the department median over non-null ages
//     (a department with no known ages keeps its nulls);
//  3. null final grades are imputed by cause: attendance below the dropout
//     threshold means a withdrawal (grade 0.0), otherwise the midterm grade
//     stands in for the missed exam;
//  4. midterm and final grades are clipped to [0, 100];
//  5. the letter grade is derived from the final grade.
//
// Clean is deterministic and idempotent: running it over its own output
// changes nothing.
func Clean(unified []domain.UnifiedRecord) ([]domain.CleanedRecord, CleanReport) {
	report := CleanReport{InputRows: len(unified)}

	rows := dedupe(unified, &report)
	imputeAges(rows, &report)

	cleaned := make([]domain.CleanedRecord, 0, len(rows))
	for _, rec := range rows {
		if !rec.FinalGrade.Valid {
			switch classifyMissingGrade(rec) {
			case causeDropout:
				rec.FinalGrade = null.Float64From(0.0)
				report.DropoutsInferred++
			case causeMissedExam:
				if rec.MidtermGrade.Valid {
					rec.FinalGrade = rec.MidtermGrade
					report.MissedExamsInferred++
				}
			}
		}

		rec.FinalGrade = domain.ClipGrade(rec.FinalGrade)
		rec.MidtermGrade = domain.ClipGrade(rec.MidtermGrade)

		report.ResidualNulls += countNulls(rec)

		cleaned = append(cleaned, domain.CleanedRecord{
			UnifiedRecord: rec,
			LetterGrade:   domain.LetterGrade(rec.FinalGrade),
		})
	}

	report.OutputRows = len(cleaned)
	return cleaned, report
}

// dedupe drops rows that are exact duplicates across all columns, keeping
// survivors in first-occurrence order. Reapplying it to already-deduplicated
// data is a no-op.
func dedupe(unified []domain.UnifiedRecord, report *CleanReport) []domain.UnifiedRecord {
	seen := make(map[domain.UnifiedRecord]struct{}, len(unified))
	rows := make([]domain.UnifiedRecord, 0, len(unified))
	for _, rec := range unified {
		if _, dup := seen[rec]; dup {
			report.DuplicatesRemoved++
			continue
		}
		seen[rec] = struct{}{}
		rows = append(rows, rec)
	}
	return rows
}

// imputeAges fills null ages with the median age of the row's department,
// computed over the non-null ages in that department. Rows are mutated in
// place; the slice order is untouched.
func imputeAges(rows []domain.UnifiedRecord, report *CleanReport) {
	byDept := make(map[null.String][]float64)
	for _, rec := range rows {
		if rec.Age.Valid {
			byDept[rec.Department] = append(byDept[rec.Department], rec.Age.Float64)
		}
	}

	medians := make(map[null.String]float64, len(byDept))
	for dept, ages := range byDept {
		if median, err := stats.Median(ages); err == nil {
			medians[dept] = median
		}
	}

	for i := range rows {
		if rows[i].Age.Valid {
			continue
		}
		if median, ok := medians[rows[i].Department]; ok {
			rows[i].Age = null.Float64From(median)
			report.AgesImputed++
		}
	}
}

// countNulls tallies null cells across every nullable column of the row, so
// ResidualNulls matches a whole-table null count.
func countNulls(rec domain.UnifiedRecord) int {
	nulls := 0
	for _, f := range []null.Float64{rec.Age, rec.LMSHours, rec.AttendanceRate, rec.MidtermGrade, rec.FinalGrade} {
		if !f.Valid {
			nulls++
		}
	}
	for _, s := range []null.String{rec.Name, rec.Gender, rec.Department} {
		if !s.Valid {
			nulls++
		}
	}
	if !rec.AdmissionYear.Valid {
		nulls++
	}
	return nulls
}
