// Package slog decorates rulefetch services with structured logging via
// log/slog.
package slog

import (
	"context"
	"log/slog"
	"time"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.Strategy = (*LoggingStrategy)(nil)

// LoggingStrategy wraps a Strategy and logs every attempt.
type LoggingStrategy struct {
	next   rulefetch.Strategy
	logger *slog.Logger
}

// NewLoggingStrategy creates a new LoggingStrategy.
func NewLoggingStrategy(next rulefetch.Strategy, logger *slog.Logger) *LoggingStrategy {
	return &LoggingStrategy{next: next, logger: logger}
}

// WrapStrategies decorates each strategy in order.
func WrapStrategies(strategies []rulefetch.Strategy, logger *slog.Logger) []rulefetch.Strategy {
	out := make([]rulefetch.Strategy, len(strategies))
	for i, s := range strategies {
		out[i] = NewLoggingStrategy(s, logger)
	}
	return out
}

// Name delegates to the wrapped strategy.
func (s *LoggingStrategy) Name() string {
	return s.next.Name()
}

// Attempt logs the strategy, target and result at debug level.
func (s *LoggingStrategy) Attempt(ctx context.Context, target *rulefetch.Target) (artifact *rulefetch.Artifact, err error) {
	defer func(begin time.Time) {
		attrs := []any{
			"strategy", s.next.Name(),
			"url", target.URL,
			"duration", time.Since(begin),
		}
		if target.Reference != nil {
			attrs = append(attrs, "rule", target.Reference.RuleNumber)
		}
		if artifact != nil {
			attrs = append(attrs, "kind", artifact.Kind, "bytes", artifact.SizeBytes)
		}
		if err != nil {
			attrs = append(attrs, "err", err)
		}
		s.logger.Debug("strategy attempt", attrs...)
	}(time.Now())
	return s.next.Attempt(ctx, target)
}
