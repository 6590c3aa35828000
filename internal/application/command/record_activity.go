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
// RECORD ACTIVITY COMMAND
// Appends one study session to the ledger, credits problems_solved * 10
// points, and runs the achievement engine - all in one transaction.
// A ledger row without its point credit is a consistency violation.
// ══════════════════════════════════════════════════════════════════════════════

// RecordActivityCommand contains the data for one study session.
type RecordActivityCommand struct {
	AccountID      string
	Subject        string
	TimeSpent      int // minutes
	ProblemsSolved int
}

// Validate validates the command.
func (c RecordActivityCommand) Validate() error {
	if c.AccountID == "" {
		return progress.ErrInvalidAccountID
	}
	if c.Subject == "" {
		return progress.ErrInvalidSubject
	}
	if c.TimeSpent < 0 {
		return progress.ErrNegativeTime
	}
	if c.ProblemsSolved < 0 {
		return progress.ErrNegativeProblems
	}
	return nil
}

// RecordActivityResult contains the outcome of recording an activity.
type RecordActivityResult struct {
	Record        *progress.ActivityRecord
	PointsAwarded int
	NewBadges     []achievement.Badge
	RecordedAt    time.Time
}

// RecordActivityHandler handles the RecordActivityCommand.
type RecordActivityHandler struct {
	uow         UnitOfWork
	engine      *achievement.Engine
	leaderboard LeaderboardInvalidator
	newID       achievement.IDGenerator
	log         *logger.Logger
}

// NewRecordActivityHandler creates a new RecordActivityHandler.
func NewRecordActivityHandler(
	uow UnitOfWork,
	engine *achievement.Engine,
	leaderboard LeaderboardInvalidator,
	newID achievement.IDGenerator,
	log *logger.Logger,
) *RecordActivityHandler {
	return &RecordActivityHandler{
		uow:         uow,
		engine:      engine,
		leaderboard: leaderboard,
		newID:       newID,
		log:         log,
	}
}

// Handle executes the record activity command.
func (h *RecordActivityHandler) Handle(ctx context.Context, cmd RecordActivityCommand) (*RecordActivityResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("record_activity: validation failed: %w", err)
	}

	rec, err := progress.NewActivityRecord(h.newID(), cmd.AccountID, cmd.Subject, cmd.TimeSpent, cmd.ProblemsSolved)
	if err != nil {
		return nil, fmt.Errorf("record_activity: %w", err)
	}

	points := progress.ActivityPoints(cmd.ProblemsSolved)
	result := &RecordActivityResult{
		Record:        rec,
		PointsAwarded: points,
		RecordedAt:    rec.RecordedAt,
	}

	err = h.uow.Within(ctx, func(r Repos) error {
		if err := r.Progress.AppendActivity(ctx, rec); err != nil {
			return err
		}
		if err := r.Accounts.AwardPoints(ctx, cmd.AccountID, account.Points(points)); err != nil {
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

	h.invalidateLeaderboard(ctx)

	h.log.Info("activity recorded",
		logger.AccountID(cmd.AccountID),
		logger.Subject(cmd.Subject),
		logger.PointsAmount(points),
		logger.Int("problems_solved", cmd.ProblemsSolved),
		logger.Int("new_badges", len(result.NewBadges)),
	)

	return result, nil
}

func (h *RecordActivityHandler) invalidateLeaderboard(ctx context.Context) {
	if h.leaderboard == nil {
		return
	}
	if err := h.leaderboard.Invalidate(ctx); err != nil {
		h.log.Warn("leaderboard cache invalidation failed", logger.Err(err))
	}
}
