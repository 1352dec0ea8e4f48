package engagement

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/repository"
)

// DefaultWindow is the deduplication window applied when TrackOptions does
// not specify one.
const DefaultWindow = 5 * time.Minute

// TrackOptions controls deduplication for one TrackEngagement call.
type TrackOptions struct {
	// Deduplicate enables the window check. When false every call inserts
	// a new record.
	Deduplicate bool

	// Window is the trailing interval within which a repeated action is
	// treated as the same engagement. Zero means DefaultWindow.
	Window time.Duration
}

// Service provides engagement tracking use cases.
// It handles deduplication logic and delegates persistence to the repository.
type Service struct {
	Repo repository.EngagementRepository

	// now is swappable for tests.
	now func() time.Time
}

// NewService creates an engagement tracking service.
func NewService(repo repository.EngagementRepository) *Service {
	return &Service{
		Repo: repo,
		now:  time.Now,
	}
}

// TrackEngagement records that an actor performed an action on a subject.
//
// With deduplication enabled, a prior record for the same
// (actor, subject, action) inside the window is returned unchanged and no
// insert happens. Click actions are only deduplicated against prior clicks
// whose metadata URL equals the new event's URL: clicks to distinct URLs
// are always recorded separately.
//
// Returns the stored record, which is the prior one on a duplicate hit.
func (s *Service) TrackEngagement(ctx context.Context, actorID, subjectID string, action entity.EngagementAction, metadata map[string]any, opts TrackOptions) (*entity.EngagementRecord, error) {
	if actorID == "" {
		return nil, ErrMissingActor
	}
	if subjectID == "" {
		return nil, ErrMissingSubject
	}
	if !action.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAction, action)
	}

	if opts.Deduplicate {
		prior, err := s.findDuplicate(ctx, actorID, subjectID, action, metadata, opts.Window)
		if err != nil {
			return nil, err
		}
		if prior != nil {
			slog.Debug("duplicate engagement suppressed",
				slog.String("actor_id", actorID),
				slog.String("subject_id", subjectID),
				slog.String("action", string(action)),
				slog.String("prior_id", prior.ID))
			RecordDuplicate(string(action))
			return prior, nil
		}
	}

	record := &entity.EngagementRecord{
		ID:        uuid.New().String(),
		SubjectID: subjectID,
		ActorID:   actorID,
		Action:    action,
		Metadata:  enrich(metadata, s.now()),
		CreatedAt: s.now().UTC(),
	}
	if err := s.Repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("track engagement: %w", err)
	}

	RecordTracked(string(action))
	return record, nil
}

// IsDuplicate reports the most recent prior record that would make a new
// (actor, subject, action) engagement a duplicate within the window, or nil
// when none exists. Exposed for callers that need the check without the
// insert.
func (s *Service) IsDuplicate(ctx context.Context, actorID, subjectID string, action entity.EngagementAction, metadata map[string]any, window time.Duration) (*entity.EngagementRecord, error) {
	return s.findDuplicate(ctx, actorID, subjectID, action, metadata, window)
}

func (s *Service) findDuplicate(ctx context.Context, actorID, subjectID string, action entity.EngagementAction, metadata map[string]any, window time.Duration) (*entity.EngagementRecord, error) {
	if window <= 0 {
		window = DefaultWindow
	}
	windowStart := s.now().UTC().Add(-window)

	recent, err := s.Repo.FindRecent(ctx, actorID, subjectID, action, windowStart)
	if err != nil {
		return nil, fmt.Errorf("query recent engagements: %w", err)
	}

	if action != entity.EngagementClick {
		if len(recent) > 0 {
			return recent[0], nil
		}
		return nil, nil
	}

	// Clicks only collide on the same target URL.
	url := metadataURL(metadata)
	for _, r := range recent {
		if r.MetadataURL() == url {
			return r, nil
		}
	}
	return nil, nil
}

// enrich copies the metadata bag and stamps the client-observed time.
// The input map is never mutated.
func enrich(metadata map[string]any, now time.Time) map[string]any {
	out := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		out[k] = v
	}
	out["client_timestamp"] = now.UTC().Format(time.RFC3339)
	return out
}

func metadataURL(metadata map[string]any) string {
	if metadata == nil {
		return ""
	}
	url, _ := metadata["url"].(string)
	return url
}
