package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"
	"github.com/reelgen/reelgen-api/internal/domain"
)

// UserStore defines the interface for user data persistence.
type UserStore interface {
	// Create saves a new user to the store.
	// It handles domain validation and password hashing internally.
	// Returns ErrUsernameExists or ErrEmailExists on uniqueness violations.
	// Returns validation errors from the domain User if data is invalid.
	Create(ctx context.Context, user *domain.User) error

	// GetByID retrieves a user by their unique ID.
	// Returns ErrUserNotFound if the user does not exist.
	// The returned user contains all fields except the plaintext password.
	GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error)

	// GetByUsername retrieves a user by their username.
	// Returns ErrUserNotFound if the user does not exist.
	GetByUsername(ctx context.Context, username string) (*domain.User, error)

	// Update modifies an existing user's details.
	// If a new plaintext Password is provided, it is hashed and replaces
	// the stored hash. Returns ErrUserNotFound if the user does not exist,
	// and ErrUsernameExists/ErrEmailExists on uniqueness violations.
	Update(ctx context.Context, user *domain.User) error

	// Delete removes a user from the store by their ID. Videos owned by
	// the user are removed by the store's cascade rules.
	// Returns ErrUserNotFound if the user does not exist.
	Delete(ctx context.Context, id uuid.UUID) error

	// WithTx returns a new UserStore instance that uses the provided transaction.
	// The transaction should be created and managed by the caller.
	WithTx(tx *sql.Tx) UserStore
}
