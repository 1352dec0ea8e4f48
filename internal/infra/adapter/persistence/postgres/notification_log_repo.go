package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/repository"
)

type NotificationLogRepo struct{ db *sql.DB }

func NewNotificationLogRepo(db *sql.DB) repository.NotificationLogRepository {
	return &NotificationLogRepo{db: db}
}

func (repo *NotificationLogRepo) Append(ctx context.Context, entry *entity.LogEntry) error {
	var metadataJSON []byte
	if entry.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(entry.Metadata)
		if err != nil {
			return fmt.Errorf("Append: marshal metadata: %w", err)
		}
	}

	const query = `
INSERT INTO notification_log
       (ts, channel, status, recipient_id, event_kind, message, error_kind, metadata)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := repo.db.ExecContext(ctx, query,
		entry.Timestamp, string(entry.Channel), string(entry.Status),
		nullIfEmpty(entry.RecipientID), nullIfEmpty(string(entry.EventKind)),
		entry.Message, nullIfEmpty(string(entry.ErrorKind)), metadataJSON,
	)
	if err != nil {
		return fmt.Errorf("Append: %w", err)
	}
	return nil
}

// nullIfEmpty maps optional string fields onto SQL NULL.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
