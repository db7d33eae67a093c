// Package operations runs the batch pipeline as a sequence of stages with
// strict ordering: each stage runs to completion before the next begins, and
// the first failure halts the run so no partial output is written by later
// stages.
package operations

import (
	"context"
	"time"

	"sispulse/internal/config"
	"sispulse/internal/dataprocessing"
	"sispulse/pkg/contracts/domain"
)

// State is the shared working set threaded through the stages of one run.
// Each stage reads the fields produced by its predecessors and fills in its
// own; nothing is mutated after a stage hands it off.
type State struct {
	Paths *config.Paths

	Students    []domain.Student
	Enrollments []domain.Enrollment
	Grades      []domain.GradeRecord

	Unified []domain.UnifiedRecord
	Cleaned []domain.CleanedRecord
	Report  dataprocessing.CleanReport
}

// Stage is a single step of the batch pipeline.
type Stage interface {
	// ID returns the stable identifier for this stage.
	ID() string

	// Name returns the human-readable name for this stage.
	Name() string

	// Execute runs the stage against the shared state.
	Execute(ctx context.Context, state *State) error
}

// StageStatus represents the outcome of one stage execution.
type StageStatus string

const (
	StageStatusCompleted StageStatus = "completed"
	StageStatusFailed    StageStatus = "failed"
	StageStatusSkipped   StageStatus = "skipped"
)

// StageResult records what happened to one stage during a run.
type StageResult struct {
	ID       string        `json:"id"`
	Name     string        `json:"name"`
	Status   StageStatus   `json:"status"`
	Duration time.Duration `json:"duration"`
	Err      error         `json:"-"`
}
