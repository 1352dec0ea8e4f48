package repository

import (
	"context"

	"crewdesk/internal/domain/entity"
)

// NotificationLogRepository appends entries to the durable notification
// audit log. Entries are write-once; there is no update or delete surface.
//
// Callers treat append failures as non-fatal: a notification send must never
// abort because the log sink is unreachable.
type NotificationLogRepository interface {
	Append(ctx context.Context, entry *entity.LogEntry) error
}
