package postgres

import (
	"context"

	"github.com/ankit071105/Shiksha-Yatra/internal/application/command"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// UNIT OF WORK IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// UnitOfWork implements command.UnitOfWork over a single PostgreSQL
// transaction. Each Within call opens a transaction, binds fresh
// repositories to it, and commits or rolls back as one.
type UnitOfWork struct {
	conn *Connection
}

// NewUnitOfWork creates a new UnitOfWork.
func NewUnitOfWork(conn *Connection) *UnitOfWork {
	return &UnitOfWork{conn: conn}
}

// Within runs fn against transaction-bound repositories. The repository
// constructors accept any Querier, so binding them to the pgx.Tx is all
// the wiring a transaction needs.
func (u *UnitOfWork) Within(ctx context.Context, fn func(command.Repos) error) error {
	return u.conn.WithTx(ctx, func(tx pgx.Tx) error {
		repos := command.Repos{
			Accounts: NewAccountRepository(tx),
			Progress: NewProgressRepository(tx),
			Badges:   NewBadgeRepository(tx),
			Stats:    NewStatsRepository(tx),
		}
		return fn(repos)
	})
}
