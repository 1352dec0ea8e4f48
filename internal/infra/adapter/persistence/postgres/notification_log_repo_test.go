package postgres_test

import (
	"context"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/infra/adapter/persistence/postgres"
)

func TestNotificationLogRepo_Append(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	entry := &entity.LogEntry{
		Timestamp:   time.Now(),
		Channel:     entity.ChannelEmail,
		Status:      entity.LogFailure,
		RecipientID: "user-1",
		EventKind:   entity.EventDropRequestEscalated,
		Message:     "email send failed after 3 attempts",
		ErrorKind:   entity.ErrorKindServer,
		Metadata:    map[string]any{"attempts": 3},
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notification_log`)).
		WithArgs(entry.Timestamp, "email", "failure", "user-1",
			"drop_request_escalated", entry.Message, "server", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := postgres.NewNotificationLogRepo(db)
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}

func TestNotificationLogRepo_Append_OptionalFieldsNull(t *testing.T) {
	db, mock, _ := sqlmock.New()
	defer func() { _ = db.Close() }()

	entry := &entity.LogEntry{
		Timestamp: time.Now(),
		Channel:   entity.ChannelSMS,
		Status:    entity.LogAttempt,
		Message:   "sending sms",
	}

	mock.ExpectExec(regexp.QuoteMeta(`INSERT INTO notification_log`)).
		WithArgs(entry.Timestamp, "sms", "attempt", nil, nil, entry.Message, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	repo := postgres.NewNotificationLogRepo(db)
	if err := repo.Append(context.Background(), entry); err != nil {
		t.Fatalf("Append err=%v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatal(err)
	}
}
