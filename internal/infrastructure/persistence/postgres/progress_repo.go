package postgres

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS REPOSITORY IMPLEMENTATION
// Append-only ledgers: activity records, chat turns, game results.
// ══════════════════════════════════════════════════════════════════════════════

// ProgressRepository implements progress.Repository for PostgreSQL.
type ProgressRepository struct {
	q Querier
}

// NewProgressRepository creates a new ProgressRepository.
func NewProgressRepository(q Querier) *ProgressRepository {
	return &ProgressRepository{q: q}
}

// ─────────────────────────────────────────────────────────────────────────────
// Appends
// ─────────────────────────────────────────────────────────────────────────────

// AppendActivity appends one study activity record.
func (r *ProgressRepository) AppendActivity(ctx context.Context, rec *progress.ActivityRecord) error {
	query := `
		INSERT INTO activity_records (id, account_id, subject, time_spent, problems_solved, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		rec.ID,
		rec.AccountID,
		rec.Subject,
		rec.TimeSpent,
		rec.ProblemsSolved,
		rec.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append activity record: %w", err)
	}

	return nil
}

// AppendChatTurn appends one tutor-chat exchange.
func (r *ProgressRepository) AppendChatTurn(ctx context.Context, turn *progress.ChatTurn) error {
	query := `
		INSERT INTO chat_turns (id, account_id, message, response, subject, sentiment, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.q.Exec(ctx, query,
		turn.ID,
		turn.AccountID,
		turn.Message,
		turn.Response,
		turn.Subject,
		string(turn.Sentiment),
		turn.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append chat turn: %w", err)
	}

	return nil
}

// AppendGameResult appends one game play result.
func (r *ProgressRepository) AppendGameResult(ctx context.Context, result *progress.GameResult) error {
	query := `
		INSERT INTO game_results (id, account_id, game_name, score, subject, recorded_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.q.Exec(ctx, query,
		result.ID,
		result.AccountID,
		result.GameName,
		result.Score,
		result.Subject,
		result.RecordedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to append game result: %w", err)
	}

	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Reads
// ─────────────────────────────────────────────────────────────────────────────

// AggregateBySubject returns per-subject totals for an account.
func (r *ProgressRepository) AggregateBySubject(ctx context.Context, accountID string) ([]progress.SubjectStats, error) {
	query := `
		SELECT subject,
			   COALESCE(SUM(time_spent), 0),
			   COALESCE(SUM(problems_solved), 0)
		FROM activity_records
		WHERE account_id = $1
		GROUP BY subject
		ORDER BY subject ASC
	`

	rows, err := r.q.Query(ctx, query, accountID)
	if err != nil {
		return nil, fmt.Errorf("failed to aggregate by subject: %w", err)
	}
	defer rows.Close()

	var stats []progress.SubjectStats
	for rows.Next() {
		var s progress.SubjectStats
		if err := rows.Scan(&s.Subject, &s.TotalTime, &s.TotalProblems); err != nil {
			return nil, fmt.Errorf("failed to scan subject stats: %w", err)
		}
		stats = append(stats, s)
	}

	return stats, rows.Err()
}

// ChatHistory returns the account's chat turns, most recent first.
func (r *ProgressRepository) ChatHistory(ctx context.Context, accountID string, limit int) ([]progress.ChatTurn, error) {
	query := `
		SELECT id, account_id, message, response, subject, sentiment, recorded_at
		FROM chat_turns
		WHERE account_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load chat history: %w", err)
	}
	defer rows.Close()

	var turns []progress.ChatTurn
	for rows.Next() {
		var t progress.ChatTurn
		var sentiment string

		err := rows.Scan(&t.ID, &t.AccountID, &t.Message, &t.Response, &t.Subject, &sentiment, &t.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan chat turn: %w", err)
		}

		t.Sentiment = progress.Sentiment(sentiment)
		turns = append(turns, t)
	}

	return turns, rows.Err()
}

// RecentGameResults returns the account's latest game results, most recent first.
func (r *ProgressRepository) RecentGameResults(ctx context.Context, accountID string, limit int) ([]progress.GameResult, error) {
	query := `
		SELECT id, account_id, game_name, score, subject, recorded_at
		FROM game_results
		WHERE account_id = $1
		ORDER BY recorded_at DESC
		LIMIT $2
	`

	rows, err := r.q.Query(ctx, query, accountID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to load game results: %w", err)
	}
	defer rows.Close()

	var results []progress.GameResult
	for rows.Next() {
		var g progress.GameResult

		err := rows.Scan(&g.ID, &g.AccountID, &g.GameName, &g.Score, &g.Subject, &g.RecordedAt)
		if err != nil {
			return nil, fmt.Errorf("failed to scan game result: %w", err)
		}

		results = append(results, g)
	}

	return results, rows.Err()
}
