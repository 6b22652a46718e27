package retry

import (
	"context"
	"errors"
	"fmt"
	"time"

	"newsforge/internal/services"
)

// Policy describes how an operation is retried.
type Policy struct {
	// Attempts is the total attempt budget, including the first call. Values
	// below 1 are treated as 1.
	Attempts int
	// BaseDelay is the delay before the second attempt; each subsequent delay
	// doubles.
	BaseDelay time.Duration
	// Classify reports whether an error is worth retrying. Defaults to
	// services.IsTransient.
	Classify func(error) bool
	// Sleep performs the backoff wait. Defaults to a context-aware timer.
	Sleep func(context.Context, time.Duration) error
}

// Default returns the policy used when callers have no specific requirements.
func Default() Policy {
	return Policy{Attempts: 3, BaseDelay: 800 * time.Millisecond}
}

// Do runs op under the policy and returns its result. The last error is
// returned when the attempt budget is exhausted; non-retryable errors
// propagate immediately.
func Do[T any](ctx context.Context, policy Policy, op func(context.Context) (T, error)) (T, error) {
	var zero T

	attempts := policy.Attempts
	if attempts < 1 {
		attempts = 1
	}
	classify := policy.Classify
	if classify == nil {
		classify = services.IsTransient
	}
	sleep := policy.Sleep
	if sleep == nil {
		sleep = sleepWithContext
	}

	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		value, err := op(ctx)
		if err == nil {
			return value, nil
		}
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return zero, err
		}
		if !classify(err) {
			return zero, err
		}

		lastErr = err
		if attempt == attempts {
			break
		}
		if err := sleep(ctx, Delay(policy.BaseDelay, attempt)); err != nil {
			return zero, err
		}
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}

// Void runs an operation that produces no value.
func Void(ctx context.Context, policy Policy, op func(context.Context) error) error {
	_, err := Do(ctx, policy, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Delay returns the backoff before the attempt following 1-based attempt.
func Delay(base time.Duration, attempt int) time.Duration {
	if base <= 0 || attempt < 1 {
		return 0
	}
	return base << (attempt - 1)
}

func sleepWithContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return nil
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
