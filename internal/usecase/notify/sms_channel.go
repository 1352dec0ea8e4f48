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

// SMSChannel implements the Channel interface for SMS delivery through an
// HTTP SMS gateway. Provider calls go through a circuit breaker and are
// retried per the SMS retry policy; every attempt is persisted as a
// DeliveryRecord audit row.
type SMSChannel struct {
	sender     transport.Transport
	deliveries repository.DeliveryRepository
	audit      *AuditLog
	policy     retry.Policy
	breaker    *circuitbreaker.CircuitBreaker
	enabled    bool
}

// NewSMSChannel creates the SMS channel. When sender is nil, a gateway
// client is constructed from the config, or a no-op transport when the
// channel is disabled, so the Channel contract is always satisfied without
// nil checks.
func NewSMSChannel(cfg transport.SMSConfig, sender transport.Transport, deliveries repository.DeliveryRepository, audit *AuditLog) *SMSChannel {
	if sender == nil {
		if cfg.Enabled {
			sender = transport.NewSMSClient(cfg)
		} else {
			sender = transport.NewNoOpTransport()
		}
	}

	return &SMSChannel{
		sender:     sender,
		deliveries: deliveries,
		audit:      audit,
		policy:     retry.SMSProviderPolicy(),
		breaker:    circuitbreaker.New(circuitbreaker.SMSProviderConfig()),
		enabled:    cfg.Enabled,
	}
}

// Name returns the channel identifier "sms".
func (c *SMSChannel) Name() entity.Channel {
	return entity.ChannelSMS
}

// IsEnabled reports whether SMS delivery is enabled via configuration.
func (c *SMSChannel) IsEnabled() bool {
	return c.enabled
}

// Send delivers the event to the recipient's phone. The outcome, including
// every failure mode, is folded into the returned DeliveryResult.
func (c *SMSChannel) Send(ctx context.Context, recipient *entity.Recipient, event *entity.NotificationEvent) DeliveryResult {
	result := DeliveryResult{Channel: entity.ChannelSMS}

	if !c.enabled || !recipient.Preferences.Enabled(entity.ChannelSMS) {
		result.ProviderStatus = ProviderStatusDisabled
		c.audit.Skipped(ctx, entity.ChannelSMS, event, "sms skipped: channel disabled for recipient")
		return result
	}

	if err := entity.ValidatePhone(recipient.Phone); err != nil {
		result.ErrorKind = entity.ErrorKindValidation
		result.ErrorMessage = fmt.Sprintf("recipient phone rejected: %v", err)
		c.audit.Failure(ctx, entity.ChannelSMS, event, result.ErrorMessage, result.ErrorKind)
		return result
	}

	content := FormatSMS(event.Title, event.Body)

	record := &entity.DeliveryRecord{
		ID:          uuid.New().String(),
		RecipientID: recipient.ID,
		Channel:     entity.ChannelSMS,
		Title:       event.Title,
		Content:     content,
		Status:      entity.DeliveryPending,
		Metadata: map[string]any{
			"phone":      recipient.Phone,
			"event_kind": string(event.Kind),
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}
	if err := c.deliveries.Create(ctx, record); err != nil {
		result.ErrorKind = entity.ErrorKindServer
		result.ErrorMessage = fmt.Sprintf("persisting delivery record: %v", err)
		c.audit.Failure(ctx, entity.ChannelSMS, event, result.ErrorMessage, result.ErrorKind)
		return result
	}
	result.DeliveryID = record.ID

	c.audit.Attempt(ctx, entity.ChannelSMS, event, "sending sms notification")
	RecordDispatch(string(entity.ChannelSMS))

	start := time.Now()
	receipt, attempts, err := sendWithRetry(ctx, entity.ChannelSMS, c.sender, c.breaker, c.policy, c.audit, event, transport.Message{
		To:   recipient.Phone,
		Body: content,
	})
	duration := time.Since(start)

	if err != nil {
		kind := Classify(err)
		if markErr := c.deliveries.MarkFailed(ctx, record.ID, kind, err.Error()); markErr != nil {
			slog.Warn("failed to mark sms delivery failed",
				slog.String("delivery_id", record.ID),
				slog.Any("error", markErr))
		}
		c.audit.Failure(ctx, entity.ChannelSMS, event,
			fmt.Sprintf("sms delivery failed after %d attempt(s): %v", attempts, err), kind)
		RecordFailure(string(entity.ChannelSMS), duration)

		result.ErrorKind = kind
		result.ErrorMessage = err.Error()
		return result
	}

	if markErr := c.deliveries.MarkDelivered(ctx, record.ID, receipt.ID, receipt.Status); markErr != nil {
		slog.Warn("failed to mark sms delivery delivered",
			slog.String("delivery_id", record.ID),
			slog.Any("error", markErr))
	}
	c.audit.Success(ctx, entity.ChannelSMS, event, "sms notification delivered")
	RecordSuccess(string(entity.ChannelSMS), duration)

	result.Success = true
	result.ProviderStatus = receipt.Status
	return result
}

// BreakerOpen reports whether the SMS provider circuit breaker is open.
func (c *SMSChannel) BreakerOpen() bool {
	return c.breaker.IsOpen()
}
