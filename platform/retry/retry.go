// Package retry provides a bounded, fixed-delay retry primitive driven by a clock.Clock.
// This is part of the platform layer and contains no business logic.
package retry

import (
	"context"
	"time"

	"listing_portal_backend/platform/clock"
)

// Policy configures a retryable operation.
type Policy struct {
	// MaxAttempts is the total number of attempts, including the first.
	MaxAttempts int
	// Delay is the fixed wait between two attempts.
	Delay time.Duration
	// IsRetryable reports whether an error may be retried. Nil means no error is retried.
	IsRetryable func(error) bool
	// OnRetry is called before waiting for the next attempt.
	OnRetry func(attempt int, err error)
}

// Do runs fn until it succeeds, returns a non-retryable error, or MaxAttempts is reached.
// The last error is returned unchanged so callers can classify it.
func Do[T any](ctx context.Context, clk clock.Clock, p Policy, fn func(ctx context.Context, attempt int) (T, error)) (T, error) {
	var zero T

	if clk == nil {
		clk = clock.New()
	}
	maxAttempts := p.MaxAttempts
	if maxAttempts < 1 {
		maxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := fn(ctx, attempt)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if p.IsRetryable == nil || !p.IsRetryable(err) || attempt == maxAttempts {
			break
		}

		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}

		select {
		case <-ctx.Done():
			return zero, ctx.Err()
		case <-clk.After(p.Delay):
		}
	}

	return zero, lastErr
}
