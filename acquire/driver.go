package acquire

import (
	"context"
	"os"

	"github.com/fwojciec/rulefetch"
)

// Driver runs an ordered strategy chain against one target and returns the
// first artifact that validates.
type Driver struct {
	Validator rulefetch.Validator

	// OnAttempt, if set, is called after every strategy attempt.
	OnAttempt func(target *rulefetch.Target, attempt rulefetch.Attempt)
}

// Run tries each strategy in order. An artifact that fails validation is
// removed from disk before the next strategy runs. When every strategy is
// exhausted the outcome carries a nil Artifact. Run returns an error only
// when ctx is done.
func (d *Driver) Run(ctx context.Context, target *rulefetch.Target, strategies []rulefetch.Strategy) (*rulefetch.Outcome, error) {
	outcome := &rulefetch.Outcome{}
	for _, s := range strategies {
		if err := ctx.Err(); err != nil {
			return outcome, err
		}

		artifact, attempt := d.attempt(ctx, target, s)
		outcome.Attempts = append(outcome.Attempts, attempt)
		if d.OnAttempt != nil {
			d.OnAttempt(target, attempt)
		}
		if attempt.Outcome == rulefetch.OutcomeAccepted {
			outcome.Artifact = artifact
			return outcome, nil
		}
	}
	return outcome, ctx.Err()
}

func (d *Driver) attempt(ctx context.Context, target *rulefetch.Target, s rulefetch.Strategy) (*rulefetch.Artifact, rulefetch.Attempt) {
	attempt := rulefetch.Attempt{Strategy: s.Name()}

	artifact, err := s.Attempt(ctx, target)
	if err != nil {
		if artifact != nil {
			discard(artifact)
		}
		attempt.Outcome = rulefetch.OutcomeFailed
		attempt.Err = err
		return nil, attempt
	}
	if artifact == nil {
		attempt.Outcome = rulefetch.OutcomeEmpty
		return nil, attempt
	}

	if err := d.Validator.Validate(artifact); err != nil {
		discard(artifact)
		attempt.Outcome = rulefetch.OutcomeInvalid
		attempt.Err = err
		return nil, attempt
	}

	if artifact.Strategy == "" {
		artifact.Strategy = s.Name()
	}
	attempt.Outcome = rulefetch.OutcomeAccepted
	return artifact, attempt
}

// discard removes a rejected artifact; a missing file is not an error.
func discard(artifact *rulefetch.Artifact) {
	if artifact.Path == "" {
		return
	}
	_ = os.Remove(artifact.Path)
}
