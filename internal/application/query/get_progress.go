package query

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET PROGRESS QUERY
// One read for the student dashboard: the account, per-subject totals,
// badges, chat history, and recent game scores.
// ══════════════════════════════════════════════════════════════════════════════

// Limits for the history sections of the dashboard.
const (
	chatHistoryLimit = 50
	gameScoresLimit  = 10
)

// GetProgressQuery identifies the account to load.
type GetProgressQuery struct {
	AccountID string
}

// GetProgressResult contains everything the dashboard renders.
type GetProgressResult struct {
	Account      *account.Account
	SubjectStats []progress.SubjectStats
	Badges       []achievement.Badge
	ChatHistory  []progress.ChatTurn
	GameScores   []progress.GameResult
}

// GetProgressHandler handles the GetProgressQuery.
type GetProgressHandler struct {
	accounts account.Repository
	ledger   progress.Repository
	badges   achievement.Repository
}

// NewGetProgressHandler creates a new GetProgressHandler.
func NewGetProgressHandler(
	accounts account.Repository,
	ledger progress.Repository,
	badges achievement.Repository,
) *GetProgressHandler {
	return &GetProgressHandler{
		accounts: accounts,
		ledger:   ledger,
		badges:   badges,
	}
}

// Handle loads the dashboard projection for one account.
func (h *GetProgressHandler) Handle(ctx context.Context, q GetProgressQuery) (*GetProgressResult, error) {
	if q.AccountID == "" {
		return nil, progress.ErrInvalidAccountID
	}

	acc, err := h.accounts.GetByID(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("get_progress: failed to load account: %w", err)
	}

	stats, err := h.ledger.AggregateBySubject(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("get_progress: failed to aggregate subjects: %w", err)
	}

	badges, err := h.badges.ListByAccount(ctx, q.AccountID)
	if err != nil {
		return nil, fmt.Errorf("get_progress: failed to list badges: %w", err)
	}

	chats, err := h.ledger.ChatHistory(ctx, q.AccountID, chatHistoryLimit)
	if err != nil {
		return nil, fmt.Errorf("get_progress: failed to load chat history: %w", err)
	}

	games, err := h.ledger.RecentGameResults(ctx, q.AccountID, gameScoresLimit)
	if err != nil {
		return nil, fmt.Errorf("get_progress: failed to load game scores: %w", err)
	}

	return &GetProgressResult{
		Account:      acc,
		SubjectStats: stats,
		Badges:       badges,
		ChatHistory:  chats,
		GameScores:   games,
	}, nil
}
