package notify

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/infra/transport"
	"crewdesk/internal/repository"
	"crewdesk/internal/resilience/circuitbreaker"
	"crewdesk/internal/resilience/retry"
)

// EmailChannel implements the Channel interface for email delivery through
// an HTTP email service. It mirrors the SMS channel's shape: circuit
// breaker, retry policy, delivery audit rows.
type EmailChannel struct {
	sender     transport.Transport
	deliveries repository.DeliveryRepository
	audit      *AuditLog
	policy     retry.Policy
	breaker    *circuitbreaker.CircuitBreaker
	enabled    bool
}

// NewEmailChannel creates the email channel. When sender is nil, a service
// client is constructed from the config, or a no-op transport when the
// channel is disabled.
func NewEmailChannel(cfg transport.EmailConfig, sender transport.Transport, deliveries repository.DeliveryRepository, audit *AuditLog) *EmailChannel {
	if sender == nil {
		if cfg.Enabled {
			sender = transport.NewEmailClient(cfg)
		} else {
			sender = transport.NewNoOpTransport()
		}
	}

	return &EmailChannel{
		sender:     sender,
		deliveries: deliveries,
		audit:      audit,
		policy:     retry.EmailProviderPolicy(),
		breaker:    circuitbreaker.New(circuitbreaker.EmailProviderConfig()),
		enabled:    cfg.Enabled,
	}
}

// Name returns the channel identifier "email".
func (c *EmailChannel) Name() entity.Channel {
	return entity.ChannelEmail
}

// IsEnabled reports whether email delivery is enabled via configuration.
func (c *EmailChannel) IsEnabled() bool {
	return c.enabled
}

// Send delivers the event to the recipient's email address.
func (c *EmailChannel) Send(ctx context.Context, recipient *entity.Recipient, event *entity.NotificationEvent) DeliveryResult {
	result := DeliveryResult{Channel: entity.ChannelEmail}

	if !c.enabled || !recipient.Preferences.Enabled(entity.ChannelEmail) {
		result.ProviderStatus = ProviderStatusDisabled
		c.audit.Skipped(ctx, entity.ChannelEmail, event, "email skipped: channel disabled for recipient")
		return result
	}

	if err := entity.ValidateEmail(recipient.Email); err != nil {
		result.ErrorKind = entity.ErrorKindValidation
		result.ErrorMessage = fmt.Sprintf("recipient email rejected: %v", err)
		c.audit.Failure(ctx, entity.ChannelEmail, event, result.ErrorMessage, result.ErrorKind)
		return result
	}

	content := FormatEmailHTML(event.Title, event.Body)

	record := &entity.DeliveryRecord{
		ID:          uuid.New().String(),
		RecipientID: recipient.ID,
		Channel:     entity.ChannelEmail,
		Title:       event.Title,
		Content:     content,
		Status:      entity.DeliveryPending,
		Metadata: map[string]any{
			"email":      recipient.Email,
			"event_kind": string(event.Kind),
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := c.deliveries.Create(ctx, record); err != nil {
		result.ErrorKind = entity.ErrorKindServer
		result.ErrorMessage = fmt.Sprintf("persisting delivery record: %v", err)
		c.audit.Failure(ctx, entity.ChannelEmail, event, result.ErrorMessage, result.ErrorKind)
		return result
	}
	result.DeliveryID = record.ID

	c.audit.Attempt(ctx, entity.ChannelEmail, event, "sending email notification")
	RecordDispatch(string(entity.ChannelEmail))

	start := time.Now()
	receipt, attempts, err := sendWithRetry(ctx, entity.ChannelEmail, c.sender, c.breaker, c.policy, c.audit, event, transport.Message{
		To:      recipient.Email,
		Subject: event.Title,
		Body:    content,
	})
	duration := time.Since(start)

	if err != nil {
		kind := Classify(err)
		if markErr := c.deliveries.MarkFailed(ctx, record.ID, kind, err.Error()); markErr != nil {
			slog.Warn("failed to mark email delivery failed",
				slog.String("delivery_id", record.ID),
				slog.Any("error", markErr))
		}
		c.audit.Failure(ctx, entity.ChannelEmail, event,
			fmt.Sprintf("email delivery failed after %d attempt(s): %v", attempts, err), kind)
		RecordFailure(string(entity.ChannelEmail), duration)

		result.ErrorKind = kind
		result.ErrorMessage = err.Error()
		return result
	}

	if markErr := c.deliveries.MarkDelivered(ctx, record.ID, receipt.ID, receipt.Status); markErr != nil {
		slog.Warn("failed to mark email delivery delivered",
			slog.String("delivery_id", record.ID),
			slog.Any("error", markErr))
	}
	c.audit.Success(ctx, entity.ChannelEmail, event, "email notification delivered")
	RecordSuccess(string(entity.ChannelEmail), duration)

	result.Success = true
	result.ProviderStatus = receipt.Status
	return result
}

// BreakerOpen reports whether the email provider circuit breaker is open.
func (c *EmailChannel) BreakerOpen() bool {
	return c.breaker.IsOpen()
}
