package mock

import (
	"context"

	"github.com/fwojciec/rulefetch"
)

var _ rulefetch.Strategy = (*Strategy)(nil)

// Strategy is a mock implementation of rulefetch.Strategy.
type Strategy struct {
	NameFn    func() string
	AttemptFn func(ctx context.Context, target *rulefetch.Target) (*rulefetch.Artifact, error)
}

func (s *Strategy) Name() string {
	return s.NameFn()
}

func (s *Strategy) Attempt(ctx context.Context, target *rulefetch.Target) (*rulefetch.Artifact, error) {
	return s.AttemptFn(ctx, target)
}

var _ rulefetch.Validator = (*Validator)(nil)

// Validator is a mock implementation of rulefetch.Validator.
type Validator struct {
	ValidateFn func(artifact *rulefetch.Artifact) error
}

func (v *Validator) Validate(artifact *rulefetch.Artifact) error {
	return v.ValidateFn(artifact)
}
