package progress

import "context"

// Repository defines persistence operations for the learning ledgers.
// All appends are write-once; nothing here updates or deletes a row.
type Repository interface {
	// AppendActivity appends one study activity record.
	AppendActivity(ctx context.Context, rec *ActivityRecord) error

	// AppendChatTurn appends one tutor-chat exchange.
	AppendChatTurn(ctx context.Context, turn *ChatTurn) error

	// AppendGameResult appends one game play result.
	AppendGameResult(ctx context.Context, result *GameResult) error

	// AggregateBySubject returns per-subject totals for an account,
	// grouped by subject.
	AggregateBySubject(ctx context.Context, accountID string) ([]SubjectStats, error)

	// ChatHistory returns the account's chat turns, most recent first.
	ChatHistory(ctx context.Context, accountID string, limit int) ([]ChatTurn, error)

	// RecentGameResults returns the account's latest game results,
	// most recent first.
	RecentGameResults(ctx context.Context, accountID string, limit int) ([]GameResult, error)
}
