package fileaccess

import (
	"context"
	"fmt"
	"math"
	"time"
)

// RetryPolicy configures exponential-backoff retries. It is pure data and
// safe to copy; construct one per call or reuse a shared value.
type RetryPolicy struct {
	// InitialInterval is the delay before the first retry.
	InitialInterval time.Duration

	// Multiplier grows the delay after each attempt.
	Multiplier float64

	// MaxInterval caps the delay between attempts.
	MaxInterval time.Duration

	// MaxElapsedTime bounds the total time spent across attempts and waits,
	// measured from the first attempt. Zero means no elapsed-time bound.
	MaxElapsedTime time.Duration

	// MaxRetries bounds the number of retries after the initial attempt.
	// Negative means unbounded; the elapsed-time ceiling governs instead.
	MaxRetries int
}

// DefaultRetryPolicy returns the policy used when the caller supplies none.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		InitialInterval: 500 * time.Millisecond,
		Multiplier:      1.5,
		MaxInterval:     30 * time.Second,
		MaxElapsedTime:  5 * time.Minute,
		MaxRetries:      -1,
	}
}

// delay computes the wait before retry number attempt (counted from 0).
func (p RetryPolicy) delay(attempt int) time.Duration {
	d := float64(p.InitialInterval) * math.Pow(p.Multiplier, float64(attempt))
	if d > float64(p.MaxInterval) {
		d = float64(p.MaxInterval)
	}
	return time.Duration(d)
}

// Classifier decides whether a failed operation is worth retrying.
type Classifier func(error) bool

// RetryOperation invokes operation until it succeeds, fails permanently, or
// the policy's retry and elapsed-time ceilings are reached. classify selects
// transient errors; nil means IsRetryable. Permanent errors are returned
// unchanged after the first occurrence. Waits respect ctx cancellation.
func RetryOperation(ctx context.Context, policy RetryPolicy, classify Classifier, operation func() error) error {
	if classify == nil {
		classify = IsRetryable
	}

	start := time.Now()
	var lastErr error

	for attempt := 0; ; attempt++ {
		err := operation()
		if err == nil {
			return nil
		}
		lastErr = err

		if !classify(err) {
			return err
		}

		if policy.MaxRetries >= 0 && attempt >= policy.MaxRetries {
			return fmt.Errorf("operation failed after %d attempts: %w", attempt+1, lastErr)
		}

		delay := policy.delay(attempt)
		if policy.MaxElapsedTime > 0 && time.Since(start)+delay > policy.MaxElapsedTime {
			return fmt.Errorf("operation failed after %v: %w", time.Since(start), lastErr)
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("retry cancelled: %w", ctx.Err())
		case <-time.After(delay):
		}
	}
}
