// Package postgres implements the engine's repository interfaces against
// PostgreSQL using database/sql with the pgx stdlib driver.
package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/repository"
)

type DeliveryRepo struct{ db *sql.DB }

func NewDeliveryRepo(db *sql.DB) repository.DeliveryRepository {
	return &DeliveryRepo{db: db}
}

func (repo *DeliveryRepo) Create(ctx context.Context, record *entity.DeliveryRecord) error {
	// Marshal metadata to JSON if present
	var metadataJSON []byte
	if record.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("Create: marshal metadata: %w", err)
		}
	}

	const query = `
INSERT INTO delivery_records
       (id, recipient_id, channel, title, content, status, metadata, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := repo.db.ExecContext(ctx, query,
		record.ID, record.RecipientID, string(record.Channel),
		record.Title, record.Content, string(record.Status),
		metadataJSON, record.CreatedAt, record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *DeliveryRepo) MarkDelivered(ctx context.Context, id, providerMessageID, providerStatus string) error {
	// The status guard keeps transitions forward-only: a terminal record is
	// never rewritten.
	const query = `
UPDATE delivery_records SET
       status              = $1,
       provider_message_id = $2,
       provider_status     = $3,
       updated_at          = NOW()
WHERE id = $4 AND status = $5`
	res, err := repo.db.ExecContext(ctx, query,
		string(entity.DeliveryDelivered), providerMessageID, providerStatus,
		id, string(entity.DeliveryPending),
	)
	if err != nil {
		return fmt.Errorf("MarkDelivered: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("MarkDelivered: no pending record with id %s", id)
	}
	return nil
}

func (repo *DeliveryRepo) MarkFailed(ctx context.Context, id string, kind entity.ErrorKind, message string) error {
	const query = `
UPDATE delivery_records SET
       status        = $1,
       error_kind    = $2,
       error_message = $3,
       updated_at    = NOW()
WHERE id = $4 AND status = $5`
	res, err := repo.db.ExecContext(ctx, query,
		string(entity.DeliveryFailed), string(kind), message,
		id, string(entity.DeliveryPending),
	)
	if err != nil {
		return fmt.Errorf("MarkFailed: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("MarkFailed: no pending record with id %s", id)
	}
	return nil
}

func (repo *DeliveryRepo) StatsSince(ctx context.Context, since time.Time) (repository.DeliveryStats, error) {
	const query = `
SELECT status, COUNT(*)
FROM delivery_records
WHERE updated_at >= $1
GROUP BY status`
	rows, err := repo.db.QueryContext(ctx, query, since)
	if err != nil {
		return repository.DeliveryStats{}, fmt.Errorf("StatsSince: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var stats repository.DeliveryStats
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return repository.DeliveryStats{}, fmt.Errorf("StatsSince: %w", err)
		}
		switch entity.DeliveryStatus(status) {
		case entity.DeliveryDelivered:
			stats.Delivered = count
		case entity.DeliveryFailed:
			stats.Failed = count
		}
	}
	return stats, rows.Err()
}
