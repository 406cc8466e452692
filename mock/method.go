package mock

import (
	"context"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.MethodStatsService = (*MethodStatsService)(nil)

// MethodStatsService is a mock implementation of rulefetch.MethodStatsService.
type MethodStatsService struct {
	RecordAttemptFn   func(ctx context.Context, ruleNumber, method string, success bool) error
	FindMethodStatsFn func(ctx context.Context, ruleNumber string) ([]*rulefetch.MethodStat, error)
	PreferredMethodFn func(ctx context.Context, ruleNumber string) (string, error)
}

func (s *MethodStatsService) RecordAttempt(ctx context.Context, ruleNumber, method string, success bool) error {
	return s.RecordAttemptFn(ctx, ruleNumber, method, success)
}

func (s *MethodStatsService) FindMethodStats(ctx context.Context, ruleNumber string) ([]*rulefetch.MethodStat, error) {
	return s.FindMethodStatsFn(ctx, ruleNumber)
}

func (s *MethodStatsService) PreferredMethod(ctx context.Context, ruleNumber string) (string, error) {
	return s.PreferredMethodFn(ctx, ruleNumber)
}

var _ rulefetch.RunService = (*RunService)(nil)

// RunService is a mock implementation of rulefetch.RunService.
type RunService struct {
	CreateRunFn func(ctx context.Context, run *rulefetch.Run) error
	FindRunsFn  func(ctx context.Context, filter rulefetch.RunFilter) ([]*rulefetch.Run, error)
}

func (s *RunService) CreateRun(ctx context.Context, run *rulefetch.Run) error {
	return s.CreateRunFn(ctx, run)
}

func (s *RunService) FindRuns(ctx context.Context, filter rulefetch.RunFilter) ([]*rulefetch.Run, error) {
	return s.FindRunsFn(ctx, filter)
}

var _ rulefetch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter is a mock implementation of rulefetch.DomainLimiter.
type DomainLimiter struct {
	WaitFn func(ctx context.Context, domain string) error
}

func (l *DomainLimiter) Wait(ctx context.Context, domain string) error {
	return l.WaitFn(ctx, domain)
}
