package profileRepo

import (
	"context"
	"errors"

	"covenant/models"
)

// ErrProfileNotFound is returned when no profile row exists for the given ID.
// Callers rely on it to distinguish "fresh account" from a real failure.
var ErrProfileNotFound = errors.New("profile not found")

// ErrProfileConflict is returned when an upsert violates a uniqueness index.
var ErrProfileConflict = errors.New("profile conflicts with an existing row")

// ProfileRepository defines data access for profile rows.
type ProfileRepository interface {
	// GetByID retrieves a profile by its owner's user ID.
	GetByID(ctx context.Context, id string) (*models.Profile, error)
	// Upsert inserts or replaces the profile row keyed by its ID and returns
	// the stored row.
	Upsert(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	// Delete removes a profile row by its ID.
	Delete(ctx context.Context, id string) error
}
