package rulefetch

import "context"

// DomainLimiter spaces out requests to the same host.
type DomainLimiter interface {
	// Wait blocks until the limiter allows a request to the domain.
	// Returns an error if the context is canceled.
	Wait(ctx context.Context, domain string) error
}
