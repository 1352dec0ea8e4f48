package db

import "database/sql"

// MigrateUp ensures the tables the notification engine reads and writes
// exist. The recipients table is owned by the user-profile side of the
// application; it is created here only so the engine can run standalone in
// development and tests.
func MigrateUp(db *sql.DB) error {
	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS recipients (
    id             TEXT PRIMARY KEY,
    phone          TEXT,
    email          TEXT,
    sms_enabled    BOOLEAN NOT NULL DEFAULT FALSE,
    email_enabled  BOOLEAN NOT NULL DEFAULT FALSE,
    in_app_enabled BOOLEAN NOT NULL DEFAULT TRUE
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS delivery_records (
    id                  UUID PRIMARY KEY,
    recipient_id        TEXT NOT NULL,
    channel             VARCHAR(20) NOT NULL,
    title               TEXT,
    content             TEXT,
    status              VARCHAR(20) NOT NULL DEFAULT 'pending',
    provider_message_id TEXT,
    provider_status     TEXT,
    error_kind          VARCHAR(30),
    error_message       TEXT,
    metadata            JSONB,
    created_at          TIMESTAMPTZ NOT NULL DEFAULT now(),
    updated_at          TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS notification_log (
    id           BIGSERIAL PRIMARY KEY,
    ts           TIMESTAMPTZ NOT NULL DEFAULT now(),
    channel      VARCHAR(20) NOT NULL,
    status       VARCHAR(20) NOT NULL,
    recipient_id TEXT,
    event_kind   VARCHAR(40),
    message      TEXT NOT NULL,
    error_kind   VARCHAR(30),
    metadata     JSONB
)`); err != nil {
		return err
	}

	if _, err := db.Exec(`
CREATE TABLE IF NOT EXISTS engagement_records (
    id         UUID PRIMARY KEY,
    subject_id TEXT NOT NULL,
    actor_id   TEXT NOT NULL,
    action     VARCHAR(20) NOT NULL,
    metadata   JSONB,
    created_at TIMESTAMPTZ NOT NULL DEFAULT now()
)`); err != nil {
		return err
	}

	indexes := []string{
		// The stats report filters by updated_at; dispatch audits filter by recipient.
		`CREATE INDEX IF NOT EXISTS idx_delivery_records_updated_at ON delivery_records(updated_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_delivery_records_recipient ON delivery_records(recipient_id)`,
		// The deduplicator's windowed lookup.
		`CREATE INDEX IF NOT EXISTS idx_engagement_dedup ON engagement_records(actor_id, subject_id, action, created_at DESC)`,
		`CREATE INDEX IF NOT EXISTS idx_notification_log_ts ON notification_log(ts DESC)`,
	}
	for _, idx := range indexes {
		if _, err := db.Exec(idx); err != nil {
			return err
		}
	}

	return nil
}
