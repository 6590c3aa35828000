package command

import (
	"context"
	"fmt"
	"time"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// RECORD GAME COMMAND
// A finished game books three writes in one transaction: the game result
// itself (score/10 points), plus one implicit study-activity row of
// 5 minutes / 1 problem (a further 10 points), then one achievement
// evaluation over the combined state.
// ══════════════════════════════════════════════════════════════════════════════

// RecordGameCommand contains one completed game play.
type RecordGameCommand struct {
	AccountID string
	GameName  string
	Score     int
	Subject   string
}

// Validate validates the command.
func (c RecordGameCommand) Validate() error {
	if c.AccountID == "" {
		return progress.ErrInvalidAccountID
	}
	if c.GameName == "" {
		return progress.ErrInvalidGameName
	}
	if c.Score < 0 {
		return progress.ErrNegativeScore
	}
	return nil
}

// RecordGameResult contains the outcome of recording a game play.
type RecordGameResult struct {
	Result        *progress.GameResult
	Activity      *progress.ActivityRecord
	PointsAwarded int // game points plus the implicit activity credit
	NewBadges     []achievement.Badge
	RecordedAt    time.Time
}

// RecordGameHandler handles the RecordGameCommand.
type RecordGameHandler struct {
	uow         UnitOfWork
	engine      *achievement.Engine
	leaderboard LeaderboardInvalidator
	newID       achievement.IDGenerator
	log         *logger.Logger
}

// NewRecordGameHandler creates a new RecordGameHandler.
func NewRecordGameHandler(
	uow UnitOfWork,
	engine *achievement.Engine,
	leaderboard LeaderboardInvalidator,
	newID achievement.IDGenerator,
	log *logger.Logger,
) *RecordGameHandler {
	return &RecordGameHandler{
		uow:         uow,
		engine:      engine,
		leaderboard: leaderboard,
		newID:       newID,
		log:         log,
	}
}

// Handle executes the record game command.
func (h *RecordGameHandler) Handle(ctx context.Context, cmd RecordGameCommand) (*RecordGameResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_game: validation failed: %w", err)
	}

	game, err := progress.NewGameResult(h.newID(), cmd.AccountID, cmd.GameName, cmd.Score, cmd.Subject)
	if err != nil {
		return nil, fmt.Errorf("record_game: %w", err)
	}

	activity, err := progress.NewActivityRecord(
		h.newID(), cmd.AccountID, cmd.Subject,
		progress.GameActivityTime, progress.GameActivityProblems,
	)
	if err != nil {
		return nil, fmt.Errorf("record_game: %w", err)
	}

	gamePoints := progress.GamePoints(cmd.Score)
	activityPoints := progress.ActivityPoints(progress.GameActivityProblems)

	result := &RecordGameResult{
		Result:        game,
		Activity:      activity,
		PointsAwarded: gamePoints + activityPoints,
		RecordedAt:    game.RecordedAt,
	}

	err = h.uow.Within(ctx, func(r Repos) error {
		if err := r.Progress.AppendGameResult(ctx, game); err != nil {
			return err
		}
		if err := r.Accounts.AwardPoints(ctx, cmd.AccountID, account.Points(gamePoints)); err != nil {
			return err
		}
		if err := r.Progress.AppendActivity(ctx, activity); err != nil {
			return err
		}
		if err := r.Accounts.AwardPoints(ctx, cmd.AccountID, account.Points(activityPoints)); err != nil {
			return err
		}

		granted, err := h.engine.Evaluate(ctx, cmd.AccountID, r.Stats, r.Badges)
		if err != nil {
			return err
		}
		result.NewBadges = granted
		return nil
	})
	if err != nil {
		return nil, err
	}

	if h.leaderboard != nil {
		if err := h.leaderboard.Invalidate(ctx); err != nil {
			h.log.Warn("leaderboard cache invalidation failed", logger.Err(err))
		}
	}

	h.log.Info("game result recorded",
		logger.AccountID(cmd.AccountID),
		logger.String("game", cmd.GameName),
		logger.Int("score", cmd.Score),
		logger.PointsAmount(result.PointsAwarded),
	)

	return result, nil
}
