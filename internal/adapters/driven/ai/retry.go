package ai

import (
	"context"
	"errors"
	"time"

	"github.com/docentlabs/corpusqa/internal/core/domain"
)

// RetryPolicy controls how provider calls are retried. Only transient
// failures are retried; rejections (bad key, malformed request) fail
// immediately.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	MaxDelay    time.Duration
}

// DefaultRetryPolicy returns the policy used by the provider adapters.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts: 3,
		BaseDelay:   500 * time.Millisecond,
		MaxDelay:    5 * time.Second,
	}
}

// Do runs op, retrying with exponential backoff while the error is
// transient. The last error is returned when attempts run out.
func (p RetryPolicy) Do(ctx context.Context, op func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			delay := p.BaseDelay << (attempt - 1)
			if p.MaxDelay > 0 && delay > p.MaxDelay {
				delay = p.MaxDelay
			}
			select {
			case <-time.After(delay):
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		err = op()
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrProviderUnavailable) {
			return err
		}
	}
	return err
}
