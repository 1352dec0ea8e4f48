package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"crewdesk/internal/domain/entity"
	"crewdesk/internal/repository"
)

type RecipientRepo struct{ db *sql.DB }

func NewRecipientRepo(db *sql.DB) repository.RecipientRepository {
	return &RecipientRepo{db: db}
}

func (repo *RecipientRepo) Get(ctx context.Context, id string) (*entity.Recipient, error) {
	const query = `
SELECT id, COALESCE(phone, ''), COALESCE(email, ''),
       sms_enabled, email_enabled, in_app_enabled
FROM recipients
WHERE id = $1
LIMIT 1`
	var recipient entity.Recipient
	err := repo.db.QueryRowContext(ctx, query, id).Scan(
		&recipient.ID, &recipient.Phone, &recipient.Email,
		&recipient.Preferences.SMS, &recipient.Preferences.Email, &recipient.Preferences.InApp,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrRecipientNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("Get: %w", err)
	}
	return &recipient, nil
}
