package media

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/cenkalti/backoff/v4"
)

func TestRetryPolicyRetriesFixedCount(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{MaxAttempts: 3, Delay: 0}
	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		return errors.New("boom")
	})
	if err == nil {
		t.Fatalf("expected error after exhausting attempts")
	}
	if attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", attempts)
	}
}

func TestRetryPolicySucceedsMidway(t *testing.T) {
	t.Parallel()

	policy := RetryPolicy{MaxAttempts: 3, Delay: 0}
	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		if attempts < 2 {
			return errors.New("transient")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if attempts != 2 {
		t.Fatalf("expected 2 attempts, got %d", attempts)
	}
}

func TestRetryPolicyPermanentAbortsImmediately(t *testing.T) {
	t.Parallel()

	fatal := errors.New("invariant broken")
	policy := RetryPolicy{MaxAttempts: 3, Delay: 0}
	attempts := 0
	err := policy.Do(context.Background(), func() error {
		attempts++
		return backoff.Permanent(fatal)
	})
	if !errors.Is(err, fatal) {
		t.Fatalf("expected wrapped fatal error, got %v", err)
	}
	if attempts != 1 {
		t.Fatalf("permanent error must not be retried, got %d attempts", attempts)
	}
}

func TestRetryPolicyNotifiesEachFailure(t *testing.T) {
	t.Parallel()

	notified := 0
	policy := RetryPolicy{
		MaxAttempts: 3,
		Delay:       0,
		OnRetry:     func(error, time.Duration) { notified++ },
	}
	_ = policy.Do(context.Background(), func() error {
		return errors.New("boom")
	})
	// The final failure is not followed by another attempt, so two notices.
	if notified != 2 {
		t.Fatalf("expected 2 retry notifications, got %d", notified)
	}
}
