// Package command contains write operations (CQRS - Commands).
package command

import (
	"context"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
)

// Repos is the repository set bound to a single transaction.
type Repos struct {
	Accounts account.Repository
	Progress progress.Repository
	Badges   achievement.Repository
	Stats    achievement.StatsSource
}

// UnitOfWork runs a function against transaction-bound repositories.
// The function's writes commit together or not at all: the
// append-credit-evaluate sequences in this package depend on that to
// never leave a ledger row without its point credit.
type UnitOfWork interface {
	Within(ctx context.Context, fn func(Repos) error) error
}

// LeaderboardInvalidator drops cached leaderboard projections after a
// point award. Invalidation is best-effort; a failure only delays how
// soon the new tally shows up, so callers log it and move on.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context) error
}
