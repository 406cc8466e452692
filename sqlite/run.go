package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.RunService = (*RunService)(nil)

// RunService implements rulefetch.RunService using SQLite.
type RunService struct {
	db *DB
}

// NewRunService creates a new RunService.
func NewRunService(db *DB) *RunService {
	return &RunService{db: db}
}

// CreateRun stores a finished run.
func (s *RunService) CreateRun(ctx context.Context, run *rulefetch.Run) error {
	if err := run.Validate(); err != nil {
		return err
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, mode, started_at, finished_at, candidates, skipped, new_records, failed)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, run.ID, string(run.Mode), formatTime(run.StartedAt), formatTime(run.FinishedAt),
		run.Candidates, run.Skipped, run.NewRecords, run.Failed)
	return err
}

// FindRuns returns runs newest first.
func (s *RunService) FindRuns(ctx context.Context, filter rulefetch.RunFilter) ([]*rulefetch.Run, error) {
	var query strings.Builder
	var args []any
	query.WriteString(`SELECT id, mode, started_at, finished_at, candidates, skipped, new_records, failed FROM runs`)
	if filter.ID != nil {
		query.WriteString(` WHERE id = ?`)
		args = append(args, *filter.ID)
	}
	query.WriteString(` ORDER BY started_at DESC`)
	appendPagination(&query, &args, filter.Limit, 0)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []*rulefetch.Run
	for rows.Next() {
		var r rulefetch.Run
		var mode, startedAt, finishedAt string
		if err := rows.Scan(&r.ID, &mode, &startedAt, &finishedAt,
			&r.Candidates, &r.Skipped, &r.NewRecords, &r.Failed); err != nil {
			return nil, err
		}
		r.Mode = rulefetch.ProcessingMode(mode)
		if r.StartedAt, err = parseRFC3339(startedAt, "started_at"); err != nil {
			return nil, err
		}
		if r.FinishedAt, err = parseRFC3339(finishedAt, "finished_at"); err != nil {
			return nil, err
		}
		runs = append(runs, &r)
	}
	return runs, rows.Err()
}
