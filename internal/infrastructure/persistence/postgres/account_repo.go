package postgres

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"

	"github.com/jackc/pgx/v5"
)

// ══════════════════════════════════════════════════════════════════════════════
// ACCOUNT REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// AccountRepository implements account.Repository for PostgreSQL.
// It runs over a Querier, so the same repository serves the pool and
// transaction-bound instances built by the unit of work.
type AccountRepository struct {
	q Querier
}

// NewAccountRepository creates a new AccountRepository.
func NewAccountRepository(q Querier) *AccountRepository {
	return &AccountRepository{q: q}
}

const accountColumns = `
	id, username, password_hash, display_name, grade, school,
	preferred_language, avatar, points, created_at
`

// Create persists a new account.
func (r *AccountRepository) Create(ctx context.Context, a *account.Account) error {
	query := `
		INSERT INTO accounts (
			id, username, password_hash, display_name, grade, school,
			preferred_language, avatar, points, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.q.Exec(ctx, query,
		a.ID,
		string(a.Username),
		a.PasswordHash,
		a.DisplayName,
		int(a.Grade),
		a.School,
		string(a.PreferredLanguage),
		a.Avatar,
		int(a.Points),
		a.CreatedAt,
	)
	if err != nil {
		if IsUniqueViolation(err) {
			return account.ErrAccountAlreadyExists
		}
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// GetByID returns an account by internal ID.
func (r *AccountRepository) GetByID(ctx context.Context, id string) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE id = $1`

	row := r.q.QueryRow(ctx, query, id)
	return r.scanAccount(row)
}

// GetByUsername returns an account by username.
func (r *AccountRepository) GetByUsername(ctx context.Context, username account.Username) (*account.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`

	row := r.q.QueryRow(ctx, query, string(username))
	return r.scanAccount(row)
}

// AwardPoints atomically credits delta points to the account.
// The addition happens in SQL so concurrent awards never lose an update.
func (r *AccountRepository) AwardPoints(ctx context.Context, id string, delta account.Points) error {
	if delta < 0 {
		return account.ErrInvalidPoints
	}

	result, err := r.q.Exec(ctx,
		`UPDATE accounts SET points = points + $2 WHERE id = $1`,
		id, int(delta),
	)
	if err != nil {
		return fmt.Errorf("failed to award points: %w", err)
	}

	if result.RowsAffected() == 0 {
		return account.ErrAccountNotFound
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// scanAccount scans a single account from a row.
func (r *AccountRepository) scanAccount(row pgx.Row) (*account.Account, error) {
	var a account.Account
	var username, language string
	var grade, points int

	err := row.Scan(
		&a.ID,
		&username,
		&a.PasswordHash,
		&a.DisplayName,
		&grade,
		&a.School,
		&language,
		&a.Avatar,
		&points,
		&a.CreatedAt,
	)

	if IsNoRows(err) {
		return nil, account.ErrAccountNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan account: %w", err)
	}

	a.Username = account.Username(username)
	a.Grade = account.Grade(grade)
	a.PreferredLanguage = account.Language(language)
	a.Points = account.Points(points)

	return &a, nil
}
