package rulefetch

import (
	"context"
	"time"
)

// MethodStat counts strategy outcomes for one section.
type MethodStat struct {
	RuleNumber string    `json:"ruleNumber"`
	Method     string    `json:"method"`
	Successes  int       `json:"successes"`
	Failures   int       `json:"failures"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// MethodStatsService records which acquisition strategies work per section.
type MethodStatsService interface {
	// RecordAttempt adds one success or failure for a section's method.
	RecordAttempt(ctx context.Context, ruleNumber, method string, success bool) error

	// FindMethodStats returns statistics, all sections when ruleNumber is "".
	FindMethodStats(ctx context.Context, ruleNumber string) ([]*MethodStat, error)

	// PreferredMethod returns the method with the most successes for a
	// section. Returns ENOTFOUND if no method has succeeded yet.
	PreferredMethod(ctx context.Context, ruleNumber string) (string, error)
}
