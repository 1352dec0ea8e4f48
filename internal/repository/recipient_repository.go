package repository

import (
	"context"

	"crewdesk/internal/domain/entity"
)

// RecipientRepository loads recipient profiles (contact data plus channel
// preference flags) from the user-profile store. The engine never writes
// through this interface.
type RecipientRepository interface {
	// Get returns the recipient profile for the given user id, or
	// entity.ErrRecipientNotFound if no such user exists.
	Get(ctx context.Context, id string) (*entity.Recipient, error)
}
