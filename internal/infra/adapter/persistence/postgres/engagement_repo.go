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

type EngagementRepo struct{ db *sql.DB }

func NewEngagementRepo(db *sql.DB) repository.EngagementRepository {
	return &EngagementRepo{db: db}
}

// scanEngagement is a helper function to scan an engagement row including metadata
func scanEngagement(rows *sql.Rows) (*entity.EngagementRecord, error) {
	var record entity.EngagementRecord
	var action string
	var metadataJSON []byte
	if err := rows.Scan(
		&record.ID, &record.SubjectID, &record.ActorID, &action,
		&metadataJSON, &record.CreatedAt,
	); err != nil {
		return nil, err
	}
	record.Action = entity.EngagementAction(action)

	if len(metadataJSON) > 0 {
		if err := json.Unmarshal(metadataJSON, &record.Metadata); err != nil {
			return nil, fmt.Errorf("unmarshal metadata: %w", err)
		}
	}
	return &record, nil
}

func (repo *EngagementRepo) Create(ctx context.Context, record *entity.EngagementRecord) error {
	var metadataJSON []byte
	if record.Metadata != nil {
		var err error
		metadataJSON, err = json.Marshal(record.Metadata)
		if err != nil {
			return fmt.Errorf("Create: marshal metadata: %w", err)
		}
	}

	const query = `
INSERT INTO engagement_records (id, subject_id, actor_id, action, metadata, created_at)
VALUES ($1, $2, $3, $4, $5, $6)`
	_, err := repo.db.ExecContext(ctx, query,
		record.ID, record.SubjectID, record.ActorID,
		string(record.Action), metadataJSON, record.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("Create: %w", err)
	}
	return nil
}

func (repo *EngagementRepo) FindRecent(ctx context.Context, actorID, subjectID string, action entity.EngagementAction, windowStart time.Time) ([]*entity.EngagementRecord, error) {
	const query = `
SELECT id, subject_id, actor_id, action, metadata, created_at
FROM engagement_records
WHERE actor_id   = $1
AND   subject_id = $2
AND   action     = $3
AND   created_at >= $4
ORDER BY created_at DESC`
	rows, err := repo.db.QueryContext(ctx, query, actorID, subjectID, string(action), windowStart)
	if err != nil {
		return nil, fmt.Errorf("FindRecent: %w", err)
	}
	defer func() { _ = rows.Close() }()

	records := make([]*entity.EngagementRecord, 0, 4)
	for rows.Next() {
		record, err := scanEngagement(rows)
		if err != nil {
			return nil, fmt.Errorf("FindRecent: %w", err)
		}
		records = append(records, record)
	}
	return records, rows.Err()
}
