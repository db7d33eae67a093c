package analytics

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-echarts/go-echarts/v2/charts"
	"github.com/go-echarts/go-echarts/v2/opts"
	"github.com/montanaflynn/stats"

	apperrors "sispulse/internal/errors"
	"sispulse/pkg/contracts/domain"
)

// Chart output file names, one HTML document each.
const (
	GradeHistogramFile     = "grade_distribution.html"
	DepartmentBoxPlotFile  = "department_boxplot.html"
	LetterGradePieFile     = "letter_grade_pie.html"
	SemesterTrendFile      = "semester_trend.html"
	AdmissionCohortsFile   = "admission_cohorts.html"
	EngagementScatterFile  = "engagement_scatter.html"
	CorrelationHeatmapFile = "correlation_heatmap.html"
)

const histogramBins = 10

type renderable interface {
	Render(w io.Writer) error
}

// RenderCharts writes the full chart set for the cleaned records into dir.
func RenderCharts(dir string, report *Report, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return apperrors.NewStorageError("create visualization directory", err)
	}

	chartSet := map[string]renderable{
		GradeHistogramFile:     gradeHistogram(report.Records),
		DepartmentBoxPlotFile:  departmentBoxPlot(report.Records),
		LetterGradePieFile:     letterGradePie(report.Records),
		SemesterTrendFile:      semesterTrendLine(report.Trend),
		AdmissionCohortsFile:   admissionCohortBar(report.AdmissionFG),
		EngagementScatterFile:  engagementScatter(report.Records),
		CorrelationHeatmapFile: correlationHeatmap(report.Correlation),
	}

	for name, chart := range chartSet {
		path := filepath.Join(dir, name)
		if err := renderToFile(path, chart); err != nil {
			return err
		}
		logger.Info("wrote chart", slog.String("path", path))
	}
	return nil
}

func renderToFile(path string, chart renderable) error {
	f, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError("create chart file", err)
	}
	defer f.Close()

	if err := chart.Render(f); err != nil {
		return apperrors.NewStorageError("render chart", err)
	}
	return nil
}

func gradeHistogram(records []domain.CleanedRecord) *charts.Bar {
	counts := make([]int, histogramBins)
	width := 100.0 / histogramBins
	for _, rec := range records {
		if !rec.FinalGrade.Valid {
			continue
		}
		bin := int(rec.FinalGrade.Float64 / width)
		if bin >= histogramBins {
			bin = histogramBins - 1
		}
		counts[bin]++
	}

	labels := make([]string, histogramBins)
	data := make([]opts.BarData, histogramBins)
	for i := range counts {
		labels[i] = fmt.Sprintf("%.0f-%.0f", float64(i)*width, float64(i+1)*width)
		data[i] = opts.BarData{Value: counts[i]}
	}

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Final Grade Distribution"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Final grade"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Enrollments"}),
	)
	bar.SetXAxis(labels).AddSeries("enrollments", data)
	return bar
}

func departmentBoxPlot(records []domain.CleanedRecord) *charts.BoxPlot {
	grouped := make(map[string][]float64)
	for _, rec := range records {
		if rec.FinalGrade.Valid {
			grouped[rec.Department.String] = append(grouped[rec.Department.String], rec.FinalGrade.Float64)
		}
	}
	departments := make([]string, 0, len(grouped))
	for dept := range grouped {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	data := make([]opts.BoxPlotData, 0, len(departments))
	for _, dept := range departments {
		grades := grouped[dept]
		quartiles, err := stats.Quartile(grades)
		if err != nil {
			continue
		}
		low, _ := stats.Min(grades)
		high, _ := stats.Max(grades)
		data = append(data, opts.BoxPlotData{
			Name:  dept,
			Value: []float64{low, quartiles.Q1, quartiles.Q2, quartiles.Q3, high},
		})
	}

	box := charts.NewBoxPlot()
	box.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Final Grades by Department"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Final grade"}),
	)
	box.SetXAxis(departments).AddSeries("final grades", data)
	return box
}

func letterGradePie(records []domain.CleanedRecord) *charts.Pie {
	labels, values := LetterGradeCounts(records)

	data := make([]opts.PieData, len(labels))
	for i := range labels {
		data[i] = opts.PieData{Name: labels[i], Value: values[i]}
	}

	pie := charts.NewPie()
	pie.SetGlobalOptions(charts.WithTitleOpts(opts.Title{Title: "Letter Grade Breakdown"}))
	pie.AddSeries("letter grades", data)
	return pie
}

func semesterTrendLine(trend []TrendPoint) *charts.Line {
	var semesters []string
	seen := make(map[string]bool)
	for _, p := range trend {
		if !seen[p.Semester] {
			seen[p.Semester] = true
			semesters = append(semesters, p.Semester)
		}
	}

	byDept := make(map[string]map[string]float64)
	for _, p := range trend {
		if byDept[p.Department] == nil {
			byDept[p.Department] = make(map[string]float64)
		}
		byDept[p.Department][p.Semester] = p.MeanFinal
	}
	departments := make([]string, 0, len(byDept))
	for dept := range byDept {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	line := charts.NewLine()
	line.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean Final Grade by Semester"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Mean final grade"}),
	)
	line.SetXAxis(semesters)
	for _, dept := range departments {
		data := make([]opts.LineData, len(semesters))
		for i, sem := range semesters {
			if mean, ok := byDept[dept][sem]; ok {
				data[i] = opts.LineData{Value: mean}
			} else {
				data[i] = opts.LineData{Value: nil}
			}
		}
		line.AddSeries(dept, data)
	}
	return line
}

func admissionCohortBar(cohorts []CohortPoint) *charts.Bar {
	var years []int
	seenYear := make(map[int]bool)
	byDept := make(map[string]map[int]float64)
	for _, p := range cohorts {
		if !seenYear[p.AdmissionYear] {
			seenYear[p.AdmissionYear] = true
			years = append(years, p.AdmissionYear)
		}
		if byDept[p.Department] == nil {
			byDept[p.Department] = make(map[int]float64)
		}
		byDept[p.Department][p.AdmissionYear] = p.MeanFinal
	}
	sort.Ints(years)

	labels := make([]string, len(years))
	for i, y := range years {
		labels[i] = fmt.Sprintf("%d", y)
	}
	departments := make([]string, 0, len(byDept))
	for dept := range byDept {
		departments = append(departments, dept)
	}
	sort.Strings(departments)

	bar := charts.NewBar()
	bar.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Mean Final Grade by Admission Cohort"}),
		charts.WithXAxisOpts(opts.XAxis{Name: "Admission year"}),
		charts.WithYAxisOpts(opts.YAxis{Name: "Mean final grade"}),
	)
	bar.SetXAxis(labels)
	for _, dept := range departments {
		data := make([]opts.BarData, len(years))
		for i, y := range years {
			if mean, ok := byDept[dept][y]; ok {
				data[i] = opts.BarData{Value: mean}
			} else {
				data[i] = opts.BarData{Value: nil}
			}
		}
		bar.AddSeries(dept, data)
	}
	return bar
}

func engagementScatter(records []domain.CleanedRecord) *charts.Scatter {
	var points []opts.ScatterData
	for _, rec := range records {
		if rec.LMSHours.Valid && rec.FinalGrade.Valid {
			points = append(points, opts.ScatterData{
				Value: []interface{}{rec.LMSHours.Float64, rec.FinalGrade.Float64},
			})
		}
	}

	scatter := charts.NewScatter()
	scatter.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "LMS Hours vs Final Grade"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "value", Name: "LMS hours"}),
		charts.WithYAxisOpts(opts.YAxis{Type: "value", Name: "Final grade"}),
	)
	scatter.AddSeries("enrollments", points)

	fitted := EngagementTrendLine(records)
	if len(fitted) >= 2 {
		first, last := fitted[0], fitted[len(fitted)-1]
		line := charts.NewLine()
		line.AddSeries("trend", []opts.LineData{
			{Value: []interface{}{first.X, first.Y}},
			{Value: []interface{}{last.X, last.Y}},
		})
		scatter.Overlap(line)
	}
	return scatter
}

func correlationHeatmap(matrix [][]float64) *charts.HeatMap {
	var data []opts.HeatMapData
	for i, row := range matrix {
		for j, v := range row {
			data = append(data, opts.HeatMapData{Value: [3]interface{}{j, i, v}})
		}
	}

	heatmap := charts.NewHeatMap()
	heatmap.SetGlobalOptions(
		charts.WithTitleOpts(opts.Title{Title: "Pearson Correlation"}),
		charts.WithXAxisOpts(opts.XAxis{Type: "category", Data: CorrelationVariables}),
		charts.WithYAxisOpts(opts.YAxis{Type: "category", Data: CorrelationVariables}),
		charts.WithVisualMapOpts(opts.VisualMap{Min: -1, Max: 1}),
	)
	heatmap.AddSeries("pearson", data)
	return heatmap
}
