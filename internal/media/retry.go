package media

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// RetryPolicy is the fixed-count, fixed-delay retry applied to every remote
// call. It is deliberately not a backoff algorithm; tests inject zero delay.
type RetryPolicy struct {
	MaxAttempts int
	Delay       time.Duration
	// OnRetry, when set, observes each failed attempt before the next one.
	OnRetry func(err error, delay time.Duration)
}

// Do runs op up to MaxAttempts times with a constant delay between attempts.
// Errors wrapped with backoff.Permanent abort immediately.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	policy := backoff.WithContext(
		backoff.WithMaxRetries(backoff.NewConstantBackOff(p.Delay), uint64(attempts-1)),
		ctx,
	)
	notify := p.OnRetry
	if notify == nil {
		notify = func(error, time.Duration) {}
	}
	return backoff.RetryNotify(op, policy, notify)
}
