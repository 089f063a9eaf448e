package nhctax

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
)

type retryConfig struct {
	attempts      int
	delay         time.Duration
	backoffFactor float64
}

// withRetry runs op up to cfg.attempts times with exponential delays
// (delay * factor^n). op signals a non-retryable condition by
// returning backoff.Permanent; such errors and context cancellation
// pass through unchanged, everything else surfaces as
// UpstreamUnavailableError once the budget is spent.
func withRetry(ctx context.Context, cfg retryConfig, op func() error) error {
	attempts := cfg.attempts
	if attempts < 1 {
		attempts = 1
	}

	b := backoff.NewExponentialBackOff()
	b.InitialInterval = cfg.delay
	b.RandomizationFactor = 0
	b.Multiplier = cfg.backoffFactor
	b.MaxInterval = time.Hour
	b.MaxElapsedTime = 0

	policy := backoff.WithContext(
		backoff.WithMaxRetries(b, uint64(attempts-1)),
		ctx,
	)

	made := 0
	permanent := false
	err := backoff.Retry(func() error {
		made++
		err := op()
		var perm *backoff.PermanentError
		if errors.As(err, &perm) {
			permanent = true
		}
		return err
	}, policy)

	if err == nil {
		return nil
	}
	if permanent || ctx.Err() != nil {
		return err
	}
	return &UpstreamUnavailableError{Attempts: made, Cause: err}
}
