package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/go-cmp/cmp"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/infra/adapter/persistence/postgres"
)

func TestEngagementRepo_Create(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	record := &entity.EngagementRecord{
		ID:        "e-1",
		SubjectID: "ann-7",
		ActorID:   "user-1",
		Action:    entity.EngagementView,
		Metadata:  map[string]any{"client_ts": "2026-09-01T10:00:00Z"},
		CreatedAt: time.Now(),
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO engagement_records`)).
		WithArgs(record.ID, record.SubjectID, record.ActorID, "view",
			sqlmock.AnyArg(), record.CreatedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := postgres.NewEngagementRepo(db)
	if err := repo.Create(context.Background(), record); err != nil {
		t.Fatalf("Create err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestEngagementRepo_FindRecent(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	createdAt := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	windowStart := createdAt.Add(-time.Hour)
	want := &entity.EngagementRecord{
		ID:        "e-1",
		SubjectID: "ann-7",
		ActorID:   "user-1",
		Action:    entity.EngagementClick,
		Metadata:  map[string]any{"url": "https://crewdesk.example/jobs/9"},
		CreatedAt: createdAt,
	}

	mock.ExpectQuery(`FROM engagement_records`).
		WithArgs("user-1", "ann-7", "click", windowStart).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "subject_id", "actor_id", "action", "metadata", "created_at",
		}).AddRow(
			want.ID, want.SubjectID, want.ActorID, "click",
			[]byte(`{"url":"https://crewdesk.example/jobs/9"}`), want.CreatedAt,
		))

	repo := postgres.NewEngagementRepo(db)
	got, err := repo.FindRecent(context.Background(), "user-1", "ann-7", entity.EngagementClick, windowStart)
	if err != nil {
		t.Fatalf("FindRecent err=%v", err)
	}
	if len(got) != 1 {
		t.Fatalf("FindRecent len=%d", len(got))
	}
	if diff := cmp.Diff(want, got[0]); diff != "" {
		t.Fatalf("mismatch (-want +got):\n%s", diff)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestEngagementRepo_FindRecent_Empty(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	windowStart := time.Now().Add(-time.Hour)
	mock.ExpectQuery(`FROM engagement_records`).
		WithArgs("user-1", "ann-7", "view", windowStart).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "subject_id", "actor_id", "action", "metadata", "created_at",
		}))

	repo := postgres.NewEngagementRepo(db)
	got, err := repo.FindRecent(context.Background(), "user-1", "ann-7", entity.EngagementView, windowStart)
	if err != nil {
		t.Fatalf("FindRecent err=%v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected no records, got %d", len(got))
	}
}
