package retry

import (
	"context"
	"errors"
	"testing"
	"time"

	"newsforge/internal/services"
)

func TestDoSucceedsAfterTransientFailures(t *testing.T) {
	var sleeps []time.Duration
	policy := Policy{
		Attempts:  3,
		BaseDelay: 100 * time.Millisecond,
		Sleep: func(ctx context.Context, d time.Duration) error {
			sleeps = append(sleeps, d)
			return nil
		},
	}

	calls := 0
	value, err := Do(context.Background(), policy, func(ctx context.Context) (string, error) {
		calls++
		if calls < 3 {
			return "", services.Wrap(services.ErrTransient, "test", "op", "blip", nil)
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("Do returned error: %v", err)
	}
	if value != "ok" {
		t.Fatalf("value = %q", value)
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	want := []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}
	if len(sleeps) != len(want) || sleeps[0] != want[0] || sleeps[1] != want[1] {
		t.Fatalf("sleeps = %v, want %v", sleeps, want)
	}
}

func TestDoPropagatesNonRetryableImmediately(t *testing.T) {
	policy := Policy{Attempts: 3, BaseDelay: time.Millisecond, Sleep: func(ctx context.Context, d time.Duration) error {
		t.Fatal("must not sleep for non-retryable errors")
		return nil
	}}

	calls := 0
	wantErr := services.Wrap(services.ErrValidation, "test", "op", "bad input", nil)
	_, err := Do(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, wantErr
	})
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("error = %v", err)
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDoExhaustsAttemptBudget(t *testing.T) {
	policy := Policy{Attempts: 3, BaseDelay: time.Millisecond, Sleep: func(ctx context.Context, d time.Duration) error {
		return nil
	}}

	calls := 0
	_, err := Do(context.Background(), policy, func(ctx context.Context) (int, error) {
		calls++
		return 0, services.Wrap(services.ErrTransient, "test", "op", "still down", nil)
	})
	if err == nil {
		t.Fatal("expected exhaustion error")
	}
	if calls != 3 {
		t.Fatalf("calls = %d, want 3", calls)
	}
	if !errors.Is(err, services.ErrTransient) {
		t.Fatalf("last error not preserved: %v", err)
	}
}

func TestDoStopsOnCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	calls := 0
	_, err := Do(ctx, Default(), func(ctx context.Context) (int, error) {
		calls++
		return 0, nil
	})
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("error = %v", err)
	}
	if calls != 0 {
		t.Fatalf("calls = %d, want 0", calls)
	}
}

func TestDoTreatsAttemptsBelowOneAsOne(t *testing.T) {
	calls := 0
	_, err := Do(context.Background(), Policy{Attempts: 0}, func(ctx context.Context) (int, error) {
		calls++
		return 0, services.Wrap(services.ErrTransient, "test", "op", "down", nil)
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Fatalf("calls = %d, want 1", calls)
	}
}

func TestDelayDoublesPerAttempt(t *testing.T) {
	base := 800 * time.Millisecond
	cases := []struct {
		attempt int
		want    time.Duration
	}{
		{1, 800 * time.Millisecond},
		{2, 1600 * time.Millisecond},
		{3, 3200 * time.Millisecond},
	}
	for _, tc := range cases {
		if got := Delay(base, tc.attempt); got != tc.want {
			t.Errorf("Delay(base, %d) = %v, want %v", tc.attempt, got, tc.want)
		}
	}
	if got := Delay(0, 1); got != 0 {
		t.Errorf("Delay(0, 1) = %v, want 0", got)
	}
}

func TestVoidWrapsOperationsWithoutValues(t *testing.T) {
	calls := 0
	err := Void(context.Background(), Policy{Attempts: 2, Sleep: func(ctx context.Context, d time.Duration) error {
		return nil
	}}, func(ctx context.Context) error {
		calls++
		if calls == 1 {
			return services.Wrap(services.ErrTimeout, "test", "op", "slow", nil)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("Void returned error: %v", err)
	}
	if calls != 2 {
		t.Fatalf("calls = %d, want 2", calls)
	}
}
