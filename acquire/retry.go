package acquire

import (
	"context"
	"time"
)

// LogFunc is the signature for a logging function.
type LogFunc func(format string, args ...any)

// DefaultRetryDelays returns the backoff delays for navigation retries:
// 1s, 2s, 4s.
func DefaultRetryDelays() []time.Duration {
	return []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}
}

// Retry calls fn until it succeeds, once initially and once more after each
// delay. It returns the last error, or the context error if ctx is done
// while waiting.
func Retry(ctx context.Context, fn func(ctx context.Context) error, logger LogFunc, delays []time.Duration) error {
	var lastErr error
	for attempt := 0; attempt <= len(delays); attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if attempt == len(delays) {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if logger != nil {
			logger("retry (attempt %d): %v", attempt+2, err)
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(delays[attempt]):
		}
	}
	return lastErr
}
