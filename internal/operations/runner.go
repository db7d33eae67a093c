package operations

import (
	"context"
	"fmt"
	"log/slog"
	"time"
)

// Runner executes stages sequentially. There is no concurrency inside a
// run: the transforms are bounded in-memory batch operations and each stage
// depends on its predecessor's output.
type Runner struct {
	logger *slog.Logger
}

// NewRunner creates a stage runner.
func NewRunner(logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{logger: logger}
}

// Run executes the stages in order against the shared state. On the first
// failure the remaining stages are marked skipped and the error is returned
// alongside the per-stage results.
func (r *Runner) Run(ctx context.Context, state *State, stages ...Stage) ([]StageResult, error) {
	results := make([]StageResult, 0, len(stages))
	var failed error

	for _, stage := range stages {
		if failed != nil {
			results = append(results, StageResult{
				ID:     stage.ID(),
				Name:   stage.Name(),
				Status: StageStatusSkipped,
			})
			continue
		}

		if err := ctx.Err(); err != nil {
			failed = err
			results = append(results, StageResult{
				ID:     stage.ID(),
				Name:   stage.Name(),
				Status: StageStatusSkipped,
			})
			continue
		}

		r.logger.InfoContext(ctx, "stage starting",
			slog.String("stage", stage.ID()))

		start := time.Now()
		err := stage.Execute(ctx, state)
		elapsed := time.Since(start)

		result := StageResult{
			ID:       stage.ID(),
			Name:     stage.Name(),
			Status:   StageStatusCompleted,
			Duration: elapsed,
		}

		if err != nil {
			result.Status = StageStatusFailed
			result.Err = err
			failed = fmt.Errorf("stage %s failed: %w", stage.ID(), err)

			r.logger.ErrorContext(ctx, "stage failed",
				slog.String("stage", stage.ID()),
				slog.Duration("duration", elapsed),
				slog.String("error", err.Error()))
		} else {
			r.logger.InfoContext(ctx, "stage completed",
				slog.String("stage", stage.ID()),
				slog.Duration("duration", elapsed))
		}

		results = append(results, result)
	}

	return results, failed
}
