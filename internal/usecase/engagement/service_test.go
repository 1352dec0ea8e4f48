package engagement

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"crewdesk/internal/domain/entity"
)

// mockEngagementRepo is an in-memory EngagementRepository for tests.
type mockEngagementRepo struct {
	mu        sync.Mutex
	records   []*entity.EngagementRecord
	createErr error
	findErr   error
	inserts   int
}

func (m *mockEngagementRepo) Create(ctx context.Context, record *entity.EngagementRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	m.inserts++
	m.records = append(m.records, record)
	return nil
}

func (m *mockEngagementRepo) FindRecent(ctx context.Context, actorID, subjectID string, action entity.EngagementAction, windowStart time.Time) ([]*entity.EngagementRecord, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.findErr != nil {
		return nil, m.findErr
	}

	// Newest-first, matching the repository contract.
	var out []*entity.EngagementRecord
	for i := len(m.records) - 1; i >= 0; i-- {
		r := m.records[i]
		if r.ActorID == actorID && r.SubjectID == subjectID && r.Action == action && !r.CreatedAt.Before(windowStart) {
			out = append(out, r)
		}
	}
	return out, nil
}

func (m *mockEngagementRepo) insertCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.inserts
}

func dedupOpts() TrackOptions {
	return TrackOptions{Deduplicate: true, Window: time.Minute}
}

func TestTrackEngagement_CreatesRecord(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)

	record, err := svc.TrackEngagement(context.Background(), "actor-1", "announce-1", entity.EngagementView, nil, TrackOptions{})

	require.NoError(t, err)
	assert.NotEmpty(t, record.ID)
	assert.Equal(t, "actor-1", record.ActorID)
	assert.Equal(t, "announce-1", record.SubjectID)
	assert.Equal(t, entity.EngagementView, record.Action)
	assert.Contains(t, record.Metadata, "client_timestamp")
	assert.Equal(t, 1, repo.insertCount())
}

func TestTrackEngagement_ViewDeduplicatedWithinWindow(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementView, nil, dedupOpts())
	require.NoError(t, err)

	second, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementView, nil, dedupOpts())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID, "duplicate view returns the prior record")
	assert.Equal(t, 1, repo.insertCount(), "exactly one insert for a duplicate view")
}

func TestTrackEngagement_OutsideWindowInsertsAgain(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)
	now := time.Now()
	svc.now = func() time.Time { return now }

	_, err := svc.TrackEngagement(context.Background(), "actor-1", "announce-1", entity.EngagementView, nil, dedupOpts())
	require.NoError(t, err)

	// Advance past the window.
	svc.now = func() time.Time { return now.Add(2 * time.Minute) }

	second, err := svc.TrackEngagement(context.Background(), "actor-1", "announce-1", entity.EngagementView, nil, dedupOpts())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.insertCount())
	assert.NotEmpty(t, second.ID)
}

func TestTrackEngagement_DistinctActorsNotDeduplicated(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementView, nil, dedupOpts())
	require.NoError(t, err)
	_, err = svc.TrackEngagement(ctx, "actor-2", "announce-1", entity.EngagementView, nil, dedupOpts())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.insertCount())
}

func TestTrackEngagement_ClicksOnDistinctURLsBothInserted(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementClick,
		map[string]any{"url": "https://example.com/a"}, dedupOpts())
	require.NoError(t, err)

	_, err = svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementClick,
		map[string]any{"url": "https://example.com/b"}, dedupOpts())
	require.NoError(t, err)

	assert.Equal(t, 2, repo.insertCount(), "clicks on distinct URLs are never deduplicated")
}

func TestTrackEngagement_ClickSameURLDeduplicated(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)
	ctx := context.Background()
	meta := map[string]any{"url": "https://example.com/a"}

	first, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementClick, meta, dedupOpts())
	require.NoError(t, err)

	second, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementClick, meta, dedupOpts())
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, repo.insertCount())
}

func TestTrackEngagement_DeduplicationDisabled(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementView, nil, TrackOptions{})
	require.NoError(t, err)
	_, err = svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementView, nil, TrackOptions{})
	require.NoError(t, err)

	assert.Equal(t, 2, repo.insertCount())
}

func TestTrackEngagement_InputValidation(t *testing.T) {
	svc := NewService(&mockEngagementRepo{})
	ctx := context.Background()

	_, err := svc.TrackEngagement(ctx, "", "announce-1", entity.EngagementView, nil, TrackOptions{})
	assert.ErrorIs(t, err, ErrMissingActor)

	_, err = svc.TrackEngagement(ctx, "actor-1", "", entity.EngagementView, nil, TrackOptions{})
	assert.ErrorIs(t, err, ErrMissingSubject)

	_, err = svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementAction("like"), nil, TrackOptions{})
	assert.ErrorIs(t, err, ErrInvalidAction)
}

func TestTrackEngagement_MetadataNotMutated(t *testing.T) {
	svc := NewService(&mockEngagementRepo{})
	meta := map[string]any{"url": "https://example.com/a"}

	_, err := svc.TrackEngagement(context.Background(), "actor-1", "announce-1", entity.EngagementClick, meta, TrackOptions{})

	require.NoError(t, err)
	assert.Len(t, meta, 1, "caller's metadata bag must not be mutated")
}

func TestTrackEngagement_RepoErrors(t *testing.T) {
	t.Run("create failure propagates", func(t *testing.T) {
		repo := &mockEngagementRepo{createErr: errors.New("insert failed")}
		svc := NewService(repo)

		_, err := svc.TrackEngagement(context.Background(), "actor-1", "announce-1", entity.EngagementView, nil, TrackOptions{})
		assert.Error(t, err)
	})

	t.Run("window query failure propagates", func(t *testing.T) {
		repo := &mockEngagementRepo{findErr: errors.New("query failed")}
		svc := NewService(repo)

		_, err := svc.TrackEngagement(context.Background(), "actor-1", "announce-1", entity.EngagementView, nil, dedupOpts())
		assert.Error(t, err)
	})
}

func TestIsDuplicate(t *testing.T) {
	repo := &mockEngagementRepo{}
	svc := NewService(repo)
	ctx := context.Background()

	prior, err := svc.IsDuplicate(ctx, "actor-1", "announce-1", entity.EngagementView, nil, time.Minute)
	require.NoError(t, err)
	assert.Nil(t, prior)

	created, err := svc.TrackEngagement(ctx, "actor-1", "announce-1", entity.EngagementView, nil, TrackOptions{})
	require.NoError(t, err)

	prior, err = svc.IsDuplicate(ctx, "actor-1", "announce-1", entity.EngagementView, nil, time.Minute)
	require.NoError(t, err)
	require.NotNil(t, prior)
	assert.Equal(t, created.ID, prior.ID)
}
