package notify

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/repository"
)

// InAppChannel implements the Channel interface for in-app notifications.
// There is no external transport: delivering means persisting the
// DeliveryRecord as delivered so the application can render it. The only
// failure mode is the persistence layer, classified as a server error.
type InAppChannel struct {
	deliveries repository.DeliveryRepository
	audit      *AuditLog
	enabled    bool
}

// NewInAppChannel creates the in-app channel.
func NewInAppChannel(enabled bool, deliveries repository.DeliveryRepository, audit *AuditLog) *InAppChannel {
	return &InAppChannel{
		deliveries: deliveries,
		audit:      audit,
		enabled:    enabled,
	}
}

// Name returns the channel identifier "in_app".
func (c *InAppChannel) Name() entity.Channel {
	return entity.ChannelInApp
}

// IsEnabled reports whether in-app delivery is enabled via configuration.
func (c *InAppChannel) IsEnabled() bool {
	return c.enabled
}

// Send records the notification for in-app display. No recipient contact
// data is required for this medium.
func (c *InAppChannel) Send(ctx context.Context, recipient *entity.Recipient, event *entity.NotificationEvent) DeliveryResult {
	result := DeliveryResult{Channel: entity.ChannelInApp}

	if !c.enabled || !recipient.Preferences.Enabled(entity.ChannelInApp) {
		result.ProviderStatus = ProviderStatusDisabled
		c.audit.Skipped(ctx, entity.ChannelInApp, event, "in-app skipped: channel disabled for recipient")
		return result
	}

	title, body := FormatInApp(event.Title, event.Body)

	record := &entity.DeliveryRecord{
		ID:          uuid.New().String(),
		RecipientID: recipient.ID,
		Channel:     entity.ChannelInApp,
		Title:       title,
		Content:     body,
		Status:      entity.DeliveryDelivered,
		Metadata: map[string]any{
			"event_kind": string(event.Kind),
		},
		CreatedAt: time.Now().UTC(),
		UpdatedAt: time.Now().UTC(),
	}

	c.audit.Attempt(ctx, entity.ChannelInApp, event, "storing in-app notification")
	RecordDispatch(string(entity.ChannelInApp))

	start := time.Now()
	if err := c.deliveries.Create(ctx, record); err != nil {
		result.ErrorKind = entity.ErrorKindServer
		result.ErrorMessage = fmt.Sprintf("persisting in-app notification: %v", err)
		c.audit.Failure(ctx, entity.ChannelInApp, event, result.ErrorMessage, result.ErrorKind)
		RecordFailure(string(entity.ChannelInApp), time.Since(start))
		return result
	}

	c.audit.Success(ctx, entity.ChannelInApp, event, "in-app notification stored")
	RecordSuccess(string(entity.ChannelInApp), time.Since(start))

	result.Success = true
	result.DeliveryID = record.ID
	result.ProviderStatus = "stored"
	return result
}
