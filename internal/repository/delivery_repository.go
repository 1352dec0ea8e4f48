// Package repository defines the persistence interfaces consumed by the
// notification engine. Implementations live under
// internal/infra/adapter/persistence.
package repository

import (
	"context"
	"time"

	"crewdesk/internal/domain/entity"
)

// DeliveryStats aggregates terminal delivery outcomes over a time window.
type DeliveryStats struct {
	Delivered int64
	Failed    int64
}

// DeliveryRepository persists per-channel delivery audit records.
//
// Records are created in pending status before the first transport attempt
// and updated exactly once to their terminal status. Implementations must
// be safe for concurrent use.
type DeliveryRepository interface {
	// Create inserts a new delivery record. The record's ID, CreatedAt and
	// UpdatedAt must be populated by the caller.
	Create(ctx context.Context, record *entity.DeliveryRecord) error

	// MarkDelivered transitions a pending record to delivered with the
	// provider-reported message id and status.
	MarkDelivered(ctx context.Context, id, providerMessageID, providerStatus string) error

	// MarkFailed transitions a pending record to failed with the classified
	// error kind and message.
	MarkFailed(ctx context.Context, id string, kind entity.ErrorKind, message string) error

	// StatsSince returns delivered/failed counts for records updated at or
	// after the given time. Used by the periodic stats report.
	StatsSince(ctx context.Context, since time.Time) (DeliveryStats, error)
}
