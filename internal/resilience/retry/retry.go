// Package retry provides the retry policy for notification delivery.
// It decides, given a classified error kind and an attempt count, whether a
// failed transport call should be retried and how long to back off first.
package retry

import (
	"context"
	"fmt"
	"time"

	"crewdesk/internal/domain/entity"
)

// Policy holds the retry configuration for a channel's transport calls.
type Policy struct {
	// MaxAttempts is the total number of send attempts, including the first.
	MaxAttempts int

	// BaseDelay is the delay before the first retry; subsequent retries
	// double it (exponential backoff).
	BaseDelay time.Duration
}

// DefaultPolicy returns the default retry policy: three attempts with an
// initial one-second backoff.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// SMSProviderPolicy returns the policy used for SMS provider calls.
// SMS providers rate-limit aggressively, so the backoff starts higher.
func SMSProviderPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   2 * time.Second,
	}
}

// EmailProviderPolicy returns the policy used for email provider calls.
func EmailProviderPolicy() Policy {
	return Policy{
		MaxAttempts: 3,
		BaseDelay:   1 * time.Second,
	}
}

// ShouldRetry reports whether another attempt should be made after a failure
// of the given kind on the given attempt (1-based). Only network, server and
// rate-limit failures are retryable, and never past MaxAttempts.
func (p Policy) ShouldRetry(kind entity.ErrorKind, attempt int) bool {
	if attempt >= p.MaxAttempts {
		return false
	}
	return kind.Retryable()
}

// DelayFor returns the backoff delay before retrying after the given
// attempt (1-based): BaseDelay * 2^(attempt-1).
func (p Policy) DelayFor(attempt int) time.Duration {
	if attempt < 1 {
		attempt = 1
	}
	return p.BaseDelay << (attempt - 1)
}

// Wait sleeps for the given delay with context cancellation support.
// A canceled context aborts the backoff and returns the context error.
func Wait(ctx context.Context, delay time.Duration) error {
	timer := time.NewTimer(delay)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("retry aborted: %w", ctx.Err())
	}
}
