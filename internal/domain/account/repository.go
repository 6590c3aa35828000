package account

import "context"

// Repository defines persistence operations for accounts.
// Implementations live in the infrastructure layer.
type Repository interface {
	// Create persists a new account.
	// Returns ErrAccountAlreadyExists when the username is taken.
	Create(ctx context.Context, a *Account) error

	// GetByID returns an account by internal ID.
	// Returns ErrAccountNotFound when missing.
	GetByID(ctx context.Context, id string) (*Account, error)

	// GetByUsername returns an account by username.
	// Returns ErrAccountNotFound when missing.
	GetByUsername(ctx context.Context, username Username) (*Account, error)

	// AwardPoints atomically credits delta points to the account.
	// The credit is additive; callers never write an absolute tally.
	AwardPoints(ctx context.Context, id string, delta Points) error
}
