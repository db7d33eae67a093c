// Command analyzer computes descriptive statistics over the cleaned master
// table and writes the text summary report and the HTML chart set.
package main

import (
	"log/slog"
	"os"

	"sispulse/internal/analytics"
	"sispulse/internal/config"
	"sispulse/internal/dataprocessing"
	"sispulse/internal/infrastructure"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Error("failed to initialize logger", slog.String("error", err.Error()))
		os.Exit(1)
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to ensure directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	records, err := dataprocessing.LoadCleaned(paths.CleanedTablePath())
	if err != nil {
		logger.Error("failed to load cleaned table", slog.String("error", err.Error()))
		os.Exit(1)
	}

	report := analytics.BuildReport(records)

	reportPath := paths.ReportPath(config.SummaryReportFile)
	if err := analytics.WriteSummaryReport(reportPath, report, logger); err != nil {
		logger.Error("failed to write summary report", slog.String("error", err.Error()))
		os.Exit(1)
	}

	if err := analytics.RenderCharts(paths.VisualizationsDir, report, logger); err != nil {
		logger.Error("failed to render charts", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("analysis complete",
		slog.Int("records", len(records)),
		slog.Int("outliers", len(report.Outliers)),
		slog.String("report", reportPath),
		slog.String("charts_dir", paths.VisualizationsDir))
}
