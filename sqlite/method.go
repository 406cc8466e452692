package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.MethodStatsService = (*MethodStatsService)(nil)

// MethodStatsService implements rulefetch.MethodStatsService using SQLite.
type MethodStatsService struct {
	db *DB

	// Now returns the current time. Defaults to time.Now.
	Now func() time.Time
}

// NewMethodStatsService creates a new MethodStatsService.
func NewMethodStatsService(db *DB) *MethodStatsService {
	return &MethodStatsService{db: db, Now: time.Now}
}

// RecordAttempt adds one success or failure to the (rule, method) counters.
func (s *MethodStatsService) RecordAttempt(ctx context.Context, ruleNumber, method string, success bool) error {
	if strings.TrimSpace(ruleNumber) == "" {
		return rulefetch.Errorf(rulefetch.EINVALID, "rule number required")
	}
	if strings.TrimSpace(method) == "" {
		return rulefetch.Errorf(rulefetch.EINVALID, "method required")
	}

	successes, failures := 0, 1
	if success {
		successes, failures = 1, 0
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO method_attempts (rule_number, method, successes, failures, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (rule_number, method) DO UPDATE SET
			successes = successes + excluded.successes,
			failures = failures + excluded.failures,
			updated_at = excluded.updated_at
	`, ruleNumber, method, successes, failures, formatTime(s.Now()))
	return err
}

// FindMethodStats returns statistics ordered by rule number and then by
// preference.
func (s *MethodStatsService) FindMethodStats(ctx context.Context, ruleNumber string) ([]*rulefetch.MethodStat, error) {
	var query strings.Builder
	var args []any
	query.WriteString(`SELECT rule_number, method, successes, failures, updated_at FROM method_attempts`)
	if ruleNumber != "" {
		query.WriteString(` WHERE rule_number = ?`)
		args = append(args, ruleNumber)
	}
	query.WriteString(` ORDER BY rule_number, successes DESC, failures ASC, updated_at DESC`)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var stats []*rulefetch.MethodStat
	for rows.Next() {
		var st rulefetch.MethodStat
		var updatedAt string
		if err := rows.Scan(&st.RuleNumber, &st.Method, &st.Successes, &st.Failures, &updatedAt); err != nil {
			return nil, err
		}
		if st.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
			return nil, err
		}
		stats = append(stats, &st)
	}
	return stats, rows.Err()
}

// PreferredMethod returns the method with the most successes for a section,
// breaking ties by fewer failures and then by the most recent update.
func (s *MethodStatsService) PreferredMethod(ctx context.Context, ruleNumber string) (string, error) {
	var method string
	err := s.db.QueryRowContext(ctx, `
		SELECT method FROM method_attempts
		WHERE rule_number = ? AND successes > 0
		ORDER BY successes DESC, failures ASC, updated_at DESC
		LIMIT 1
	`, ruleNumber).Scan(&method)
	if errors.Is(err, sql.ErrNoRows) {
		return "", rulefetch.Errorf(rulefetch.ENOTFOUND, "no successful method for rule %s", ruleNumber)
	}
	if err != nil {
		return "", err
	}
	return method, nil
}
