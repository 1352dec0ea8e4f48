package notify

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/observability/tracing"
	"crewdesk/internal/repository"
)

// Dispatch timing constants
const (
	workerPoolTimeout = 5 * time.Second  // Timeout for acquiring a worker slot
	channelTimeout    = 30 * time.Second // Timeout for one channel's send including retries
)

// Service orchestrates dispatching one notification event across all
// channels for its recipient.
type Service interface {
	// Dispatch delivers the event to its recipient over every channel the
	// recipient has enabled, concurrently, and returns one result per
	// channel. Channels the recipient opted out of are reported as
	// disabled without being invoked.
	//
	// Dispatch never returns an error and never panics: validation
	// failures, an unknown recipient and per-channel failures all surface
	// as results with Success=false. Settle-all semantics apply: one
	// channel's failure never prevents the others from completing or
	// being reported.
	Dispatch(ctx context.Context, event *entity.NotificationEvent) []DeliveryResult

	// GetChannelHealth returns the enablement and circuit breaker state of
	// every channel for health check endpoints.
	GetChannelHealth() []ChannelHealthStatus

	// Shutdown stops accepting new dispatches, aborts in-flight backoff
	// sleeps and waits for running dispatches to finish or the context to
	// expire.
	Shutdown(ctx context.Context) error
}

// ChannelHealthStatus reports one channel's health for monitoring.
type ChannelHealthStatus struct {
	Name               entity.Channel
	Enabled            bool
	CircuitBreakerOpen bool
}

// breakerReporter is implemented by channels that front a provider with a
// circuit breaker.
type breakerReporter interface {
	BreakerOpen() bool
}

// service is the concrete implementation of the Service interface.
type service struct {
	channels       []Channel
	recipients     repository.RecipientRepository
	audit          *AuditLog
	workerPool     chan struct{}      // Semaphore limiting concurrent channel sends
	wg             sync.WaitGroup     // Tracks in-flight dispatches
	shutdownCtx    context.Context    // Done once Shutdown is called
	shutdownCancel context.CancelFunc
}

// NewService creates the dispatch orchestrator.
//
// Parameters:
//   - channels: the channel adapters to fan out to (typically SMS, email, in-app)
//   - recipients: the user-profile lookup collaborator
//   - audit: the shared audit logger
//   - maxConcurrent: maximum concurrent channel sends across all dispatches
func NewService(channels []Channel, recipients repository.RecipientRepository, audit *AuditLog, maxConcurrent int) Service {
	if maxConcurrent < 1 {
		maxConcurrent = 1
	}
	shutdownCtx, shutdownCancel := context.WithCancel(context.Background())

	enabled := 0
	for _, ch := range channels {
		if ch.IsEnabled() {
			enabled++
		}
	}
	SetChannelsEnabled(float64(enabled))

	return &service{
		channels:       channels,
		recipients:     recipients,
		audit:          audit,
		workerPool:     make(chan struct{}, maxConcurrent),
		shutdownCtx:    shutdownCtx,
		shutdownCancel: shutdownCancel,
	}
}

// Dispatch implements Service.Dispatch.
func (s *service) Dispatch(ctx context.Context, event *entity.NotificationEvent) []DeliveryResult {
	s.wg.Add(1)
	defer s.wg.Done()

	IncrementDispatchesInFlight()
	defer DecrementDispatchesInFlight()

	ctx, span := tracing.GetTracer().Start(ctx, "notify.Dispatch")
	defer span.End()

	// A shutdown aborts in-flight transport calls and backoff sleeps.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	stop := context.AfterFunc(s.shutdownCtx, cancel)
	defer stop()

	requestID := uuid.New().String()

	if err := entity.ValidateEvent(event); err != nil {
		msg := fmt.Sprintf("notification rejected: %v", err)
		s.audit.Failure(ctx, "", event, msg, entity.ErrorKindValidation)
		return []DeliveryResult{{
			Success:      false,
			ErrorKind:    entity.ErrorKindValidation,
			ErrorMessage: msg,
		}}
	}

	recipient, err := s.recipients.Get(ctx, event.RecipientID)
	if err != nil {
		kind := entity.ErrorKindServer
		if errors.Is(err, entity.ErrRecipientNotFound) {
			kind = entity.ErrorKindUserNotFound
		}
		msg := fmt.Sprintf("loading recipient %s: %v", event.RecipientID, err)
		s.audit.Failure(ctx, "", event, msg, kind)
		return []DeliveryResult{{
			Success:      false,
			ErrorKind:    kind,
			ErrorMessage: msg,
		}}
	}

	slog.Info("dispatching notification",
		slog.String("request_id", requestID),
		slog.String("event_kind", string(event.Kind)),
		slog.String("recipient_id", event.RecipientID),
		slog.Int("enabled_channels", recipient.Preferences.EnabledCount()))

	results := make([]DeliveryResult, len(s.channels))
	var fanout sync.WaitGroup

	for i, ch := range s.channels {
		if !ch.IsEnabled() || !recipient.Preferences.Enabled(ch.Name()) {
			// Synthesized without invoking the adapter.
			results[i] = DeliveryResult{
				Channel:        ch.Name(),
				ProviderStatus: ProviderStatusDisabled,
			}
			s.audit.Skipped(ctx, ch.Name(), event,
				fmt.Sprintf("%s skipped: channel disabled", ch.Name()))
			continue
		}

		fanout.Add(1)
		go func(idx int, channel Channel) {
			defer fanout.Done()
			results[idx] = s.sendChannel(ctx, requestID, channel, recipient, event)
		}(i, ch)
	}

	fanout.Wait()

	s.logAggregate(ctx, event, results)
	return results
}

// sendChannel runs one channel's send inside the worker pool with its own
// child span, timeout and panic containment.
func (s *service) sendChannel(ctx context.Context, requestID string, channel Channel, recipient *entity.Recipient, event *entity.NotificationEvent) (result DeliveryResult) {
	ctx, span := tracing.GetTracer().Start(ctx, fmt.Sprintf("notify.send.%s", channel.Name()))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			slog.Error("panic in notification channel",
				slog.String("request_id", requestID),
				slog.String("channel", string(channel.Name())),
				slog.Any("panic", r),
				slog.String("stack", string(debug.Stack())))
			result = DeliveryResult{
				Channel:      channel.Name(),
				ErrorKind:    entity.ErrorKindUnknown,
				ErrorMessage: fmt.Sprintf("channel panic: %v", r),
			}
		}
	}()

	select {
	case s.workerPool <- struct{}{}:
		defer func() { <-s.workerPool }()
	case <-time.After(workerPoolTimeout):
		slog.Warn("notification dropped: worker pool full",
			slog.String("request_id", requestID),
			slog.String("channel", string(channel.Name())))
		RecordDropped(string(channel.Name()), "pool_full")
		return DeliveryResult{
			Channel:      channel.Name(),
			ErrorKind:    entity.ErrorKindServer,
			ErrorMessage: "worker pool exhausted",
		}
	case <-ctx.Done():
		return DeliveryResult{
			Channel:      channel.Name(),
			ErrorKind:    entity.ErrorKindNetwork,
			ErrorMessage: ctx.Err().Error(),
		}
	}

	sendCtx, cancel := context.WithTimeout(ctx, channelTimeout)
	defer cancel()

	return channel.Send(sendCtx, recipient, event)
}

// logAggregate writes the one overall success or failure entry for a
// completed fan-out.
func (s *service) logAggregate(ctx context.Context, event *entity.NotificationEvent, results []DeliveryResult) {
	succeeded := 0
	attempted := 0
	for _, r := range results {
		if r.Skipped() {
			continue
		}
		attempted++
		if r.Success {
			succeeded++
		}
	}

	if succeeded > 0 {
		s.audit.Success(ctx, "", event,
			fmt.Sprintf("notification sent via %d of %d enabled channels", succeeded, attempted))
		return
	}

	summary := make([]string, 0, len(results))
	for _, r := range results {
		switch {
		case r.Skipped():
			summary = append(summary, fmt.Sprintf("%s=disabled", r.Channel))
		default:
			summary = append(summary, fmt.Sprintf("%s=%s", r.Channel, r.ErrorKind))
		}
	}
	s.audit.Failure(ctx, "", event,
		fmt.Sprintf("notification failed on all channels: %v", summary), entity.ErrorKindNone)
}

// GetChannelHealth implements Service.GetChannelHealth.
func (s *service) GetChannelHealth() []ChannelHealthStatus {
	statuses := make([]ChannelHealthStatus, 0, len(s.channels))
	for _, ch := range s.channels {
		status := ChannelHealthStatus{
			Name:    ch.Name(),
			Enabled: ch.IsEnabled(),
		}
		if br, ok := ch.(breakerReporter); ok {
			status.CircuitBreakerOpen = br.BreakerOpen()
		}
		statuses = append(statuses, status)
	}
	return statuses
}

// Shutdown implements Service.Shutdown.
func (s *service) Shutdown(ctx context.Context) error {
	slog.Info("shutting down notification service")

	s.shutdownCancel()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("notification service shutdown complete")
		return nil
	case <-ctx.Done():
		slog.Warn("notification service shutdown timeout")
		return ctx.Err()
	}
}
