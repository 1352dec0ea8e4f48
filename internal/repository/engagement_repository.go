package repository

import (
	"context"
	"time"

	"crewdesk/internal/domain/entity"
)

// EngagementRepository persists user engagement records and answers the
// windowed queries the deduplicator needs.
type EngagementRepository interface {
	// Create inserts a new engagement record. ID and CreatedAt must be
	// populated by the caller.
	Create(ctx context.Context, record *entity.EngagementRecord) error

	// FindRecent returns records matching (actorID, subjectID, action) with
	// CreatedAt >= windowStart, ordered newest-first.
	FindRecent(ctx context.Context, actorID, subjectID string, action entity.EngagementAction, windowStart time.Time) ([]*entity.EngagementRecord, error)
}
