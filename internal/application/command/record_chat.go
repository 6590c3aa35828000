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
// RECORD CHAT COMMAND
// Classifies the student's message, appends the chat turn, credits a flat
// 5 points, and runs the achievement engine - one transaction, same
// atomicity contract as record_activity.
//
// The tutor response is produced upstream (see AskTutorHandler). A tutor
// failure arrives here as an apologetic response string, never as an
// error: the student's turn is recorded regardless.
// ══════════════════════════════════════════════════════════════════════════════

// RecordChatCommand contains one tutor-chat exchange.
type RecordChatCommand struct {
	AccountID string
	Message   string
	Response  string
	Subject   string
}

// Validate validates the command.
func (c RecordChatCommand) Validate() error {
	if c.AccountID == "" {
		return progress.ErrInvalidAccountID
	}
	if c.Message == "" {
		return progress.ErrEmptyMessage
	}
	return nil
}

// RecordChatResult contains the outcome of recording a chat turn.
type RecordChatResult struct {
	Turn          *progress.ChatTurn
	Sentiment     progress.Sentiment
	PointsAwarded int
	NewBadges     []achievement.Badge
	RecordedAt    time.Time
}

// RecordChatHandler handles the RecordChatCommand.
type RecordChatHandler struct {
	uow         UnitOfWork
	engine      *achievement.Engine
	leaderboard LeaderboardInvalidator
	newID       achievement.IDGenerator
	log         *logger.Logger
}

// NewRecordChatHandler creates a new RecordChatHandler.
func NewRecordChatHandler(
	uow UnitOfWork,
	engine *achievement.Engine,
	leaderboard LeaderboardInvalidator,
	newID achievement.IDGenerator,
	log *logger.Logger,
) *RecordChatHandler {
	return &RecordChatHandler{
		uow:         uow,
		engine:      engine,
		leaderboard: leaderboard,
		newID:       newID,
		log:         log,
	}
}

// Handle executes the record chat command.
func (h *RecordChatHandler) Handle(ctx context.Context, cmd RecordChatCommand) (*RecordChatResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_chat: validation failed: %w", err)
	}

	turn, err := progress.NewChatTurn(h.newID(), cmd.AccountID, cmd.Message, cmd.Response, cmd.Subject)
	if err != nil {
		return nil, fmt.Errorf("record_chat: %w", err)
	}

	result := &RecordChatResult{
		Turn:          turn,
		Sentiment:     turn.Sentiment,
		PointsAwarded: progress.PointsPerChat,
		RecordedAt:    turn.RecordedAt,
	}

	err = h.uow.Within(ctx, func(r Repos) error {
		if err := r.Progress.AppendChatTurn(ctx, turn); err != nil {
			return err
		}
		if err := r.Accounts.AwardPoints(ctx, cmd.AccountID, account.Points(progress.PointsPerChat)); err != nil {
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

	h.log.Info("chat turn recorded",
		logger.AccountID(cmd.AccountID),
		logger.Subject(cmd.Subject),
		logger.String("sentiment", string(turn.Sentiment)),
	)

	return result, nil
}
