package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/fwojciec/rulefetch"
	"golang.org/x/time/rate"
)

var _ rulefetch.DomainLimiter = (*DomainLimiter)(nil)

// DomainLimiter enforces a minimum interval between requests to the same
// host using one token bucket per host.
type DomainLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
	limit    rate.Limit
}

// NewDomainLimiter returns a limiter that allows one request per delay to
// each host. A non-positive delay disables limiting.
func NewDomainLimiter(delay time.Duration) *DomainLimiter {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	return &DomainLimiter{
		limiters: make(map[string]*rate.Limiter),
		limit:    limit,
	}
}

// Wait blocks until the limiter allows a request to the domain.
// Returns an error if the context is canceled before the wait completes.
func (d *DomainLimiter) Wait(ctx context.Context, domain string) error {
	d.mu.Lock()
	limiter, ok := d.limiters[domain]
	if !ok {
		limiter = rate.NewLimiter(d.limit, 1)
		d.limiters[domain] = limiter
	}
	d.mu.Unlock()

	return limiter.Wait(ctx)
}
