// Package query contains read operations following CQRS pattern.
// Queries never modify state - they only read and return data.
package query

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/leaderboard"
)

// ══════════════════════════════════════════════════════════════════════════════
// GET LEADERBOARD QUERY
// ══════════════════════════════════════════════════════════════════════════════

// GetLeaderboardQuery contains parameters for the leaderboard view.
type GetLeaderboardQuery struct {
	// Limit caps the number of entries; non-positive means DefaultLimit.
	Limit int
}

// GetLeaderboardResult contains the ranked entries.
type GetLeaderboardResult struct {
	Entries []leaderboard.Entry
}

// GetLeaderboardHandler handles the GetLeaderboardQuery.
type GetLeaderboardHandler struct {
	reader leaderboard.Reader
}

// NewGetLeaderboardHandler creates a new GetLeaderboardHandler.
func NewGetLeaderboardHandler(reader leaderboard.Reader) *GetLeaderboardHandler {
	return &GetLeaderboardHandler{reader: reader}
}

// Handle returns the top accounts ordered by points descending with a
// deterministic tie-break (account ID ascending).
func (h *GetLeaderboardHandler) Handle(ctx context.Context, q GetLeaderboardQuery) (*GetLeaderboardResult, error) {
	limit := q.Limit
	if limit <= 0 {
		limit = leaderboard.DefaultLimit
	}

	entries, err := h.reader.TopAccounts(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("get_leaderboard: %w", err)
	}

	return &GetLeaderboardResult{Entries: entries}, nil
}
