package postgres

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD REPOSITORY IMPLEMENTATION
// ══════════════════════════════════════════════════════════════════════════════

// LeaderboardRepository implements leaderboard.Reader for PostgreSQL.
type LeaderboardRepository struct {
	q Querier
}

// NewLeaderboardRepository creates a new LeaderboardRepository.
func NewLeaderboardRepository(q Querier) *LeaderboardRepository {
	return &LeaderboardRepository{q: q}
}

// TopAccounts returns the top entries ordered by points descending,
// ties broken by account ID ascending. The same ordering lives in
// leaderboard.SortEntries; both sides must agree so cached and direct
// reads rank identically.
func (r *LeaderboardRepository) TopAccounts(ctx context.Context, limit int) ([]leaderboard.Entry, error) {
	if limit <= 0 {
		limit = leaderboard.DefaultLimit
	}

	query := `
		SELECT id, display_name, grade, school, points
		FROM accounts
		ORDER BY points DESC, id ASC
		LIMIT $1
	`

	rows, err := r.q.Query(ctx, query, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query leaderboard: %w", err)
	}
	defer rows.Close()

	var entries []leaderboard.Entry
	for rows.Next() {
		var e leaderboard.Entry

		err := rows.Scan(&e.AccountID, &e.DisplayName, &e.Grade, &e.School, &e.Points)
		if err != nil {
			return nil, fmt.Errorf("failed to scan leaderboard entry: %w", err)
		}

		e.Rank = len(entries) + 1
		entries = append(entries, e)
	}

	return entries, rows.Err()
}
