package notify

import (
	"context"
	"log/slog"
	"time"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/repository"
)

// AuditLog records structured attempt/success/failure/skip entries for every
// notification send, writing each entry to the durable log sink and to the
// console stream.
//
// Sink failures are swallowed and downgraded to console-only emission: the
// audit trail must never abort an in-progress notification send. AuditLog is
// safe for concurrent use.
type AuditLog struct {
	sink repository.NotificationLogRepository
}

// NewAuditLog creates an audit logger backed by the given durable sink.
// A nil sink produces a console-only logger.
func NewAuditLog(sink repository.NotificationLogRepository) *AuditLog {
	return &AuditLog{sink: sink}
}

// Attempt records that a send is about to start on a channel.
func (a *AuditLog) Attempt(ctx context.Context, ch entity.Channel, event *entity.NotificationEvent, message string) {
	a.write(ctx, entry(ch, entity.LogAttempt, event, message, entity.ErrorKindNone))
}

// Success records a completed delivery.
func (a *AuditLog) Success(ctx context.Context, ch entity.Channel, event *entity.NotificationEvent, message string) {
	a.write(ctx, entry(ch, entity.LogSuccess, event, message, entity.ErrorKindNone))
}

// Failure records a delivery failure, attempt-level or terminal, with its
// classified kind.
func (a *AuditLog) Failure(ctx context.Context, ch entity.Channel, event *entity.NotificationEvent, message string, kind entity.ErrorKind) {
	a.write(ctx, entry(ch, entity.LogFailure, event, message, kind))
}

// Skipped records a channel that was not attempted, typically because the
// recipient opted out. A skip is a normal outcome, not a failure.
func (a *AuditLog) Skipped(ctx context.Context, ch entity.Channel, event *entity.NotificationEvent, message string) {
	a.write(ctx, entry(ch, entity.LogSkipped, event, message, entity.ErrorKindNone))
}

func entry(ch entity.Channel, status entity.LogStatus, event *entity.NotificationEvent, message string, kind entity.ErrorKind) *entity.LogEntry {
	e := &entity.LogEntry{
		Timestamp: time.Now().UTC(),
		Channel:   ch,
		Status:    status,
		Message:   message,
		ErrorKind: kind,
	}
	if event != nil {
		e.RecipientID = event.RecipientID
		e.EventKind = event.Kind
		e.Metadata = event.Metadata
	}
	return e
}

func (a *AuditLog) write(ctx context.Context, e *entity.LogEntry) {
	a.console(e)

	if a.sink == nil {
		return
	}
	if err := a.sink.Append(ctx, e); err != nil {
		// Console output above already carries the entry; the sink
		// failure itself is only worth a warning.
		slog.Warn("notification log sink unavailable",
			slog.String("channel", string(e.Channel)),
			slog.String("status", string(e.Status)),
			slog.Any("error", err))
		RecordLogSinkFailure()
	}
}

// console emits the entry on the live log stream. Failures log at warn,
// everything else at info; the distinction is for operability only.
func (a *AuditLog) console(e *entity.LogEntry) {
	attrs := []any{
		slog.String("channel", string(e.Channel)),
		slog.String("status", string(e.Status)),
	}
	if e.RecipientID != "" {
		attrs = append(attrs, slog.String("recipient_id", e.RecipientID))
	}
	if e.EventKind != "" {
		attrs = append(attrs, slog.String("event_kind", string(e.EventKind)))
	}
	if e.ErrorKind != entity.ErrorKindNone {
		attrs = append(attrs, slog.String("error_kind", string(e.ErrorKind)))
	}

	if e.Status == entity.LogFailure {
		slog.Warn(e.Message, attrs...)
	} else {
		slog.Info(e.Message, attrs...)
	}
}
