package enrich

import (
	"context"
	"log/slog"
	"time"
)

// RetryPolicy describes a fixed-interval retry budget.
type RetryPolicy struct {
	// MaxAttempts is the total number of attempts (must be > 0).
	MaxAttempts int

	// Backoff is the fixed delay between attempts.
	Backoff time.Duration
}

// Do runs the operation until it succeeds or the attempt budget is spent.
// The delay between attempts is fixed, not exponential; upstream services
// here rate-limit rather than degrade, so waiting longer buys nothing.
// Returns the error from the last attempt if all attempts fail.
func (p RetryPolicy) Do(ctx context.Context, operation func() error) error {
	if p.MaxAttempts <= 0 {
		return ErrInvalidMaxAttempts
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		// Check context before attempting
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		lastErr = operation()
		if lastErr == nil {
			if attempt > 1 {
				slog.Debug("operation succeeded after retry", "attempt", attempt)
			}
			return nil
		}

		slog.Debug("operation failed, will retry",
			"attempt", attempt, "maxAttempts", p.MaxAttempts, "error", lastErr)

		// Don't sleep after the last attempt
		if attempt == p.MaxAttempts {
			break
		}

		timer := time.NewTimer(p.Backoff)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return lastErr
}
