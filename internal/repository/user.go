package repository

import (
	"context"

	"docflow/internal/model"
)

// UserRepository defines data access for the persisted user list.
type UserRepository interface {
	// List returns all users in storage order.
	List(ctx context.Context) ([]model.User, error)

	// FindByID returns the user with the given id or ErrNotFound.
	FindByID(ctx context.Context, id string) (*model.User, error)

	// FindByEmail returns the user with the exact email or ErrNotFound.
	// Matching is case-sensitive.
	FindByEmail(ctx context.Context, email string) (*model.User, error)

	// Create appends the user and returns the stored copy. Uniqueness of the
	// email is the service's concern.
	Create(ctx context.Context, user *model.User) (*model.User, error)
}

// PreferencesRepository persists per-user UI preferences.
type PreferencesRepository interface {
	// Get returns the preferences for the user or ErrNotFound when never set.
	Get(ctx context.Context, userID string) (*model.Preferences, error)

	// Put stores the preferences for the user, replacing any previous value.
	Put(ctx context.Context, userID string, prefs model.Preferences) error
}
