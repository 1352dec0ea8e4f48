// Package notify provides use cases for dispatching notification events
// across multiple channels. It implements the business logic for delivering
// a domain event (job assigned, drop request escalated, announcement posted)
// to a recipient over SMS, email and in-app channels with per-recipient
// preference checks, retry with exponential backoff, error classification,
// circuit breakers, audit logging and observability.
package notify

import (
	"context"
	"fmt"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/infra/transport"
	"crewdesk/internal/resilience/circuitbreaker"
	"crewdesk/internal/resilience/retry"
)

// DeliveryResult is the per-channel outcome of one dispatch.
//
// A skipped channel (recipient opted out, or the channel disabled via
// configuration) is reported with Success=false and ProviderStatus
// "disabled"; it is a normal outcome, not a failure, and carries no
// error kind.
type DeliveryResult struct {
	Channel        entity.Channel
	Success        bool
	DeliveryID     string
	ProviderStatus string
	ErrorKind      entity.ErrorKind
	ErrorMessage   string
}

// Skipped reports whether the result represents a preference or
// configuration skip rather than an attempted send.
func (r DeliveryResult) Skipped() bool {
	return !r.Success && r.ProviderStatus == ProviderStatusDisabled && r.ErrorKind == entity.ErrorKindNone
}

// ProviderStatusDisabled is the synthetic provider status reported for
// channels that were never attempted.
const ProviderStatusDisabled = "disabled"

// Channel represents one notification delivery medium (SMS, email, in-app).
//
// Retry policy contract:
//   - Transient failures (5xx, network errors, rate limits): retried with
//     exponential backoff up to the channel's attempt budget
//   - Client errors (invalid recipient, authentication, content): no retry
//   - Unclassifiable errors: no retry
//
// Thread safety: all methods must be safe for concurrent use by multiple
// goroutines. Implementations must respect context cancellation, including
// during backoff sleeps.
type Channel interface {
	// Name returns the channel identifier used for logging, metrics labels
	// and result aggregation.
	Name() entity.Channel

	// IsEnabled reports whether this channel is enabled via configuration.
	// Disabled channels are skipped during dispatching.
	IsEnabled() bool

	// Send delivers the event to the recipient over this medium and returns
	// the terminal outcome. Send never panics and never returns an error:
	// every failure mode, including a panicking transport, is folded into
	// the result.
	Send(ctx context.Context, recipient *entity.Recipient, event *entity.NotificationEvent) DeliveryResult
}

// sendWithRetry drives one channel's transport attempts: send, classify,
// audit, consult the retry policy, back off, repeat. It returns the
// provider receipt on success, or the last observed error plus the number
// of attempts actually made.
//
// Every failed attempt is written to the audit log with its classified
// kind before the retry decision, so retried failures are visible in the
// durable trail and not just in metrics.
//
// A context cancellation during the backoff sleep aborts the sequence and
// surfaces as the final error.
func sendWithRetry(ctx context.Context, ch entity.Channel, t transport.Transport, cb *circuitbreaker.CircuitBreaker, policy retry.Policy, audit *AuditLog, event *entity.NotificationEvent, msg transport.Message) (*transport.Receipt, int, error) {
	attempt := 0
	for {
		attempt++

		receipt, err := sendOnce(ctx, t, cb, msg)
		if err == nil {
			return receipt, attempt, nil
		}

		kind := Classify(err)
		audit.Failure(ctx, ch, event,
			fmt.Sprintf("%s send attempt %d failed: %v", ch, attempt, err), kind)
		if !policy.ShouldRetry(kind, attempt) {
			return nil, attempt, err
		}

		RecordRetry(string(ch), string(kind))
		if waitErr := retry.Wait(ctx, policy.DelayFor(attempt)); waitErr != nil {
			return nil, attempt, waitErr
		}
	}
}

// sendOnce performs a single transport call through the circuit breaker.
// A panicking transport is recovered and reported as an ordinary error so
// the caller classifies it exactly like a returned failure.
func sendOnce(ctx context.Context, t transport.Transport, cb *circuitbreaker.CircuitBreaker, msg transport.Message) (receipt *transport.Receipt, err error) {
	defer func() {
		if r := recover(); r != nil {
			receipt = nil
			err = fmt.Errorf("transport panic: %v", r)
		}
	}()

	if cb == nil {
		return t.Send(ctx, msg)
	}

	res, err := cb.Execute(func() (interface{}, error) {
		return t.Send(ctx, msg)
	})
	if err != nil {
		return nil, err
	}
	return res.(*transport.Receipt), nil
}
