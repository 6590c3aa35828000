package achievement

import "context"

// Repository defines persistence operations for badges.
type Repository interface {
	// Grant inserts a badge. Granting a badge the account already holds
	// is a silent no-op - idempotency is part of the contract, not an
	// error condition.
	Grant(ctx context.Context, b *Badge) error

	// HeldNames returns the set of badge names the account holds.
	HeldNames(ctx context.Context, accountID string) (map[string]bool, error)

	// ListByAccount returns the account's badges, newest first.
	ListByAccount(ctx context.Context, accountID string) ([]Badge, error)
}

// StatsSource provides the aggregates the engine evaluates.
// The persistence layer implements this over the account and ledger tables.
type StatsSource interface {
	Aggregates(ctx context.Context, accountID string) (Aggregates, error)
}
