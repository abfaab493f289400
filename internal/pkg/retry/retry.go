package retry

import (
	"context"
	"time"

	"github.com/kitefall/pulse-backend/internal/pkg/httpx"
)

// BackoffFn maps a 1-based failed attempt number to the wait before the next
// attempt.
type BackoffFn func(attempt int) time.Duration

// Linear returns step*attempt: with step=400ms that is 400ms after the first
// failure and 800ms after the second.
func Linear(step time.Duration) BackoffFn {
	return func(attempt int) time.Duration {
		return time.Duration(attempt) * step
	}
}

// Do runs fn up to maxAttempts times, sleeping backoff(attempt) between
// attempts. It stops early when fn succeeds, when the error is not retryable,
// or when ctx is done. The last error is returned on exhaustion.
func Do(ctx context.Context, maxAttempts int, backoff BackoffFn, fn func(ctx context.Context) error) error {
	if maxAttempts < 1 {
		maxAttempts = 1
	}
	var lastErr error
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn(ctx)
		if lastErr == nil {
			return nil
		}
		if !httpx.IsRetryableError(lastErr) || attempt == maxAttempts {
			return lastErr
		}
		wait := time.Duration(0)
		if backoff != nil {
			wait = backoff(attempt)
		}
		if wait > 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(wait):
			}
		}
	}
	return lastErr
}
