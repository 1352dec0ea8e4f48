package entity

import "time"

// LogStatus classifies a notification log entry.
type LogStatus string

const (
	LogAttempt LogStatus = "attempt"
	LogSuccess LogStatus = "success"
	LogFailure LogStatus = "failure"
	LogSkipped LogStatus = "skipped"
)

// LogEntry is one append-only line in the notification audit log.
// Entries are write-once; the engine never mutates or deletes them.
type LogEntry struct {
	ID          int64
	Timestamp   time.Time
	Channel     Channel
	Status      LogStatus
	RecipientID string
	EventKind   EventKind
	Message     string
	ErrorKind   ErrorKind
	Metadata    map[string]any
}
