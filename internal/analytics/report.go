package analytics

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	apperrors "sispulse/internal/errors"
	"sispulse/pkg/contracts/domain"
)

// Report bundles every computed analysis for rendering.
type Report struct {
	GeneratedAt time.Time
	Records     []domain.CleanedRecord
	Cohorts     []DescriptiveStats
	Outliers    []Outlier
	Correlation [][]float64
	Trend       []TrendPoint
	AdmissionFG []CohortPoint
}

// BuildReport runs the full analysis suite over the cleaned records.
func BuildReport(records []domain.CleanedRecord) *Report {
	return &Report{
		GeneratedAt: time.Now(),
		Records:     records,
		Cohorts:     CohortStats(records),
		Outliers:    GradeOutliers(records),
		Correlation: CorrelationMatrix(records),
		Trend:       SemesterTrend(records),
		AdmissionFG: AdmissionCohorts(records),
	}
}

// WriteSummaryReport renders the report as plain text and writes it
// atomically to path.
func WriteSummaryReport(path string, report *Report, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	var b strings.Builder
	b.WriteString("STUDENT PERFORMANCE SUMMARY REPORT\n")
	b.WriteString("==================================\n")
	fmt.Fprintf(&b, "Generated: %s\n\n", report.GeneratedAt.Format(time.RFC3339))

	writeOverview(&b, report.Records)
	writeCohortSection(&b, report.Cohorts)
	writeRiskSection(&b, report.Records)
	writeOutlierSection(&b, report.Outliers)
	writeCorrelationSection(&b, report.Correlation)
	writeTrendSection(&b, report.Trend)
	writeAdmissionSection(&b, report.AdmissionFG)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create report directory", err)
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".report-*")
	if err != nil {
		return apperrors.NewStorageError("create temporary report file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return apperrors.NewStorageError("write report", err)
	}
	if err := tmp.Close(); err != nil {
		return apperrors.NewStorageError("close report file", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return apperrors.NewStorageError("publish report file", err)
	}

	logger.Info("wrote summary report",
		slog.String("path", path),
		slog.Int("records", len(report.Records)),
		slog.Int("outliers", len(report.Outliers)))
	return nil
}

func writeOverview(b *strings.Builder, records []domain.CleanedRecord) {
	students := make(map[string]struct{})
	var validFinals int
	for _, rec := range records {
		students[rec.StudentID] = struct{}{}
		if rec.FinalGrade.Valid {
			validFinals++
		}
	}
	b.WriteString("DATASET OVERVIEW\n")
	fmt.Fprintf(b, "  Enrollment records: %d\n", len(records))
	fmt.Fprintf(b, "  Unique students:    %d\n", len(students))
	fmt.Fprintf(b, "  Final grades known: %d (%d unresolved)\n\n", validFinals, len(records)-validFinals)
}

func writeCohortSection(b *strings.Builder, cohorts []DescriptiveStats) {
	b.WriteString("FINAL GRADE BY DEPARTMENT\n")
	fmt.Fprintf(b, "  %-22s %8s %8s %8s %6s\n", "Department", "Mean", "Median", "StdDev", "N")
	for _, c := range cohorts {
		fmt.Fprintf(b, "  %-22s %8.2f %8.2f %8.2f %6d\n", c.Department, c.Mean, c.Median, c.StdDev, c.Count)
	}
	b.WriteString("\n")
}

func writeRiskSection(b *strings.Builder, records []domain.CleanedRecord) {
	atRisk := domain.AtRiskStudents(records)
	var dropouts int
	for _, rec := range records {
		if domain.IsInferredDropout(rec) {
			dropouts++
		}
	}
	b.WriteString("RISK INDICATORS\n")
	fmt.Fprintf(b, "  At-risk students:     %d\n", len(atRisk))
	fmt.Fprintf(b, "  Inferred dropouts:    %d enrollment(s)\n\n", dropouts)
}

func writeOutlierSection(b *strings.Builder, outliers []Outlier) {
	fmt.Fprintf(b, "GRADE OUTLIERS (beyond %.0f standard deviations)\n", OutlierStdDevFactor)
	if len(outliers) == 0 {
		b.WriteString("  none\n\n")
		return
	}
	for _, o := range outliers {
		fmt.Fprintf(b, "  %s %-24s %-20s %6.2f\n", o.StudentID, o.Name, o.Department, o.FinalGrade)
	}
	b.WriteString("\n")
}

func writeCorrelationSection(b *strings.Builder, matrix [][]float64) {
	b.WriteString("PEARSON CORRELATION MATRIX\n")
	fmt.Fprintf(b, "  %-16s", "")
	for _, v := range CorrelationVariables {
		fmt.Fprintf(b, " %15s", v)
	}
	b.WriteString("\n")
	for i, row := range matrix {
		fmt.Fprintf(b, "  %-16s", CorrelationVariables[i])
		for _, v := range row {
			fmt.Fprintf(b, " %15.3f", v)
		}
		b.WriteString("\n")
	}
	b.WriteString("\n")
}

func writeTrendSection(b *strings.Builder, trend []TrendPoint) {
	b.WriteString("MEAN FINAL GRADE BY SEMESTER\n")
	for _, p := range trend {
		fmt.Fprintf(b, "  %-14s %-22s %6.2f\n", p.Semester, p.Department, p.MeanFinal)
	}
	b.WriteString("\n")
}

func writeAdmissionSection(b *strings.Builder, cohorts []CohortPoint) {
	b.WriteString("MEAN FINAL GRADE BY ADMISSION COHORT\n")
	for _, p := range cohorts {
		fmt.Fprintf(b, "  %-22s %d %6.2f\n", p.Department, p.AdmissionYear, p.MeanFinal)
	}
	b.WriteString("\n")
}
