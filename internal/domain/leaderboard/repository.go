package leaderboard

import "context"

// Reader defines the read side of the leaderboard projection.
// Both the PostgreSQL repository and the Redis-cached decorator
// implement it.
type Reader interface {
	// TopAccounts returns the top entries ordered by points descending,
	// ties broken by account ID ascending. A non-positive limit falls
	// back to DefaultLimit.
	TopAccounts(ctx context.Context, limit int) ([]Entry, error)
}
