package rulefetch

import (
	"context"
	"time"
)

// Run is the history entry of one pipeline execution.
type Run struct {
	ID         string         `json:"id"`
	Mode       ProcessingMode `json:"mode"`
	StartedAt  time.Time      `json:"startedAt"`
	FinishedAt time.Time      `json:"finishedAt"`
	Candidates int            `json:"candidates"`
	Skipped    int            `json:"skipped"`
	NewRecords int            `json:"newRecords"`
	Failed     int            `json:"failed"`
}

// Validate returns an error if the run contains invalid fields.
func (r *Run) Validate() error {
	if r.ID == "" {
		return Errorf(EINVALID, "run ID required")
	}
	if r.Mode == "" {
		return Errorf(EINVALID, "run mode required")
	}
	return nil
}

// RunFilter represents a filter for FindRuns.
type RunFilter struct {
	ID    *string `json:"id"`
	Limit int     `json:"limit"`
}

// RunService stores run history.
type RunService interface {
	// CreateRun stores a finished run.
	CreateRun(ctx context.Context, run *Run) error

	// FindRuns returns runs newest first.
	FindRuns(ctx context.Context, filter RunFilter) ([]*Run, error)
}
