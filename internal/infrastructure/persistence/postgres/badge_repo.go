package postgres

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// BadgeRepository implements achievement.Repository for PostgreSQL.
type BadgeRepository struct {
	q Querier
}

// NewBadgeRepository creates a new BadgeRepository.
func NewBadgeRepository(q Querier) *BadgeRepository {
	return &BadgeRepository{q: q}
}

// Grant inserts a badge. The unique constraint on (account_id, name)
// plus ON CONFLICT DO NOTHING makes re-granting a held badge a no-op.
func (r *BadgeRepository) Grant(ctx context.Context, b *achievement.Badge) error {
	query := `
		INSERT INTO badges (id, account_id, name, description, earned_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (account_id, name) DO NOTHING
	`

	_, err := r.q.Exec(ctx, query,
		b.ID,
		b.AccountID,
		b.Name,
		b.Description,
		b.EarnedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to grant badge: %w", err)
	}

	return nil
}

// HeldNames returns the set of badge names the account holds.
func (r *BadgeRepository) HeldNames(ctx context.Context, accountID string) (map[string]bool, error) {
	rows, err := r.q.Query(ctx,
		`SELECT name FROM badges WHERE account_id = $1`,
		accountID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load held badge names: %w", err)
	}
	defer rows.Close()

	held := make(map[string]bool)
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan badge name: %w", err)
		}
		held[name] = true
	}

	return held, rows.Err()
}

// ListByAccount returns the account's badges, newest first.
func (r *BadgeRepository) ListByAccount(ctx context.Context, accountID string) ([]achievement.Badge, error) {
	query := `
		SELECT id, account_id, name, description, earned_at
		FROM badges
		WHERE account_id = $1
		ORDER BY earned_at DESC
	`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to list badges: %w", err)
	}
	defer rows.Close()

	var badges []achievement.Badge
	for rows.Next() {
		var b achievement.Badge
		if err := rows.Scan(&b.ID, &b.AccountID, &b.Name, &b.Description, &b.EarnedAt); err != nil {
			return nil, fmt.Errorf("failed to scan badge: %w", err)
		}
		badges = append(badges, b)
	}

	return badges, rows.Err()
}

// ══════════════════════════════════════════════════════════════════════════════
// STATS SOURCE IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// StatsRepository implements achievement.StatsSource over the account
// and ledger tables.
type StatsRepository struct {
	q Querier
}

// NewStatsRepository creates a new StatsRepository.
func NewStatsRepository(q Querier) *StatsRepository {
	return &StatsRepository{q: q}
}

// Aggregates returns the four statistics the badge rules evaluate.
// Inside a unit of work this reads the uncommitted writes of the same
// transaction, so the engine sees the tally it is meant to judge.
func (r *StatsRepository) Aggregates(ctx context.Context, accountID string) (achievement.Aggregates, error) {
	query := `
		SELECT
			COALESCE((SELECT points FROM accounts WHERE id = $1), 0),
			(SELECT COUNT(DISTINCT subject) FROM activity_records WHERE account_id = $1),
			COALESCE((SELECT SUM(problems_solved) FROM activity_records WHERE account_id = $1), 0),
			(SELECT COUNT(*) FROM game_results WHERE account_id = $1)
	`

	var agg achievement.Aggregates
	err := r.q.QueryRow(ctx, query, accountID).Scan(
		&agg.Points,
		&agg.Subjects,
		&agg.Problems,
		&agg.Games,
	)
	if err != nil {
		return achievement.Aggregates{}, fmt.Errorf("failed to load aggregates: %w", err)
	}

	return agg, nil
}
