// Command pipeline runs the full data pipeline: load the raw tables,
// integrate them into the unified table, clean it, and export the cleaned
// master snapshots.
package main

import (
	"context"
	"log/slog"
	"os"

	"sispulse/internal/config"
	"sispulse/internal/exporter"
	"sispulse/internal/infrastructure"
	"sispulse/internal/operations"
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

	writer := exporter.NewCSVWriter(logger)
	runner := operations.NewRunner(logger)
	state := &operations.State{Paths: paths}

	results, err := runner.Run(context.Background(), state,
		operations.NewLoadStage(logger),
		operations.NewIntegrateStage(logger, writer),
		operations.NewCleanStage(logger),
		operations.NewExportStage(logger, writer),
	)
	for _, res := range results {
		logger.Info("stage finished",
			slog.String("stage", res.ID),
			slog.String("status", string(res.Status)),
			slog.Duration("duration", res.Duration))
	}
	if err != nil {
		logger.Error("pipeline failed", slog.String("error", err.Error()))
		os.Exit(1)
	}

	logger.Info("pipeline complete",
		slog.Int("input_rows", state.Report.InputRows),
		slog.Int("output_rows", state.Report.OutputRows),
		slog.Int("duplicates_removed", state.Report.DuplicatesRemoved),
		slog.Int("ages_imputed", state.Report.AgesImputed),
		slog.Int("dropouts_inferred", state.Report.DropoutsInferred),
		slog.Int("missed_exams_inferred", state.Report.MissedExamsInferred),
		slog.String("output", paths.CleanedTablePath()))
}
