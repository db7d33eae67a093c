// Command generator writes the seeded synthetic raw tables that feed the
// pipeline.
package main

import (
	"flag"
	"log/slog"
	"os"

	"sispulse/internal/config"
	"sispulse/internal/exporter"
	"sispulse/internal/generator"
	"sispulse/internal/infrastructure"
)

func main() {
	students := flag.Int("students", 0, "number of students to generate (overrides config)")
	seed := flag.Int64("seed", 0, "random seed (overrides config)")
	flag.Parse()

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

	if *students > 0 {
		cfg.Generator.Students = *students
	}
	if *seed != 0 {
		cfg.Generator.Seed = *seed
	}

	paths := config.NewPaths(cfg.Paths)
	if err := paths.EnsureDirectories(); err != nil {
		logger.Error("failed to ensure directories", slog.String("error", err.Error()))
		os.Exit(1)
	}

	gen, err := generator.New(generator.DefaultConfig(cfg.Generator.Students, cfg.Generator.Seed), logger)
	if err != nil {
		logger.Error("invalid generator configuration", slog.String("error", err.Error()))
		os.Exit(1)
	}
	dataset := gen.Generate()

	writer := exporter.NewCSVWriter(logger)
	outputs := []struct {
		file   string
		header []string
		rows   [][]string
	}{
		{config.StudentsFile, exporter.StudentsHeader, exporter.StudentRows(dataset.Students)},
		{config.EnrollmentsFile, exporter.EnrollmentsHeader, exporter.EnrollmentRows(dataset.Enrollments)},
		{config.GradesFile, exporter.GradesHeader, exporter.GradeRows(dataset.Grades)},
	}
	for _, out := range outputs {
		if err := writer.Write(paths.RawPath(out.file), out.header, out.rows); err != nil {
			logger.Error("failed to write raw table",
				slog.String("file", out.file),
				slog.String("error", err.Error()))
			os.Exit(1)
		}
	}

	logger.Info("raw tables written",
		slog.String("dir", paths.RawDir),
		slog.Int("students", len(dataset.Students)),
		slog.Int("enrollments", len(dataset.Enrollments)),
		slog.Int("grades", len(dataset.Grades)))
}
