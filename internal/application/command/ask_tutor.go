package command

import (
	"context"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// ASK TUTOR COMMAND
// Calls the AI-tutor collaborator for a response, then records the turn
// through RecordChatHandler. The collaborator failing is not an error:
// the student gets an apologetic message and the turn is still recorded.
// ══════════════════════════════════════════════════════════════════════════════

// TutorFallbackMessage is returned to the student when the AI tutor
// cannot be reached.
const TutorFallbackMessage = "I'm having trouble responding right now. Please try again later."

// TutorClient generates a tutoring response for a student message.
// The student context lets the tutor adapt to grade, school and language.
type TutorClient interface {
	GenerateResponse(ctx context.Context, message string, student TutorStudentContext) (string, error)
}

// TutorStudentContext carries the student details the tutor prompt needs.
type TutorStudentContext struct {
	Grade    int
	School   string
	Language string
	Subject  string
}

// AskTutorCommand contains a student question for the AI tutor.
type AskTutorCommand struct {
	AccountID string
	Message   string
	Subject   string
}

// Validate validates the command.
func (c AskTutorCommand) Validate() error {
	if c.AccountID == "" {
		return progress.ErrInvalidAccountID
	}
	if c.Message == "" {
		return progress.ErrEmptyMessage
	}
	return nil
}

// AskTutorResult contains the tutor's response and the recorded turn.
type AskTutorResult struct {
	Response  string
	Degraded  bool // true when the fallback message was substituted
	Turn      *progress.ChatTurn
	NewBadges int
}

// AskTutorHandler handles the AskTutorCommand.
type AskTutorHandler struct {
	accounts account.Repository
	tutor    TutorClient
	recorder *RecordChatHandler
	log      *logger.Logger
}

// NewAskTutorHandler creates a new AskTutorHandler.
func NewAskTutorHandler(
	accounts account.Repository,
	tutor TutorClient,
	recorder *RecordChatHandler,
	log *logger.Logger,
) *AskTutorHandler {
	return &AskTutorHandler{
		accounts: accounts,
		tutor:    tutor,
		recorder: recorder,
		log:      log,
	}
}

// Handle asks the tutor and records the exchange.
func (h *AskTutorHandler) Handle(ctx context.Context, cmd AskTutorCommand) (*AskTutorResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("ask_tutor: validation failed: %w", err)
	}

	acc, err := h.accounts.GetByID(ctx, cmd.AccountID)
	if err != nil {
		return nil, fmt.Errorf("ask_tutor: failed to load account: %w", err)
	}

	result := &AskTutorResult{}

	response, err := h.tutor.GenerateResponse(ctx, cmd.Message, TutorStudentContext{
		Grade:    int(acc.Grade),
		School:   acc.School,
		Language: acc.PreferredLanguage.String(),
		Subject:  cmd.Subject,
	})
	if err != nil {
		h.log.Warn("tutor unavailable, degrading to fallback message",
			logger.AccountID(cmd.AccountID),
			logger.Err(err),
		)
		response = TutorFallbackMessage
		result.Degraded = true
	}
	result.Response = response

	recorded, err := h.recorder.Handle(ctx, RecordChatCommand{
		AccountID: cmd.AccountID,
		Message:   cmd.Message,
		Response:  response,
		Subject:   cmd.Subject,
	})
	if err != nil {
		return nil, err
	}

	result.Turn = recorded.Turn
	result.NewBadges = len(recorded.NewBadges)

	return result, nil
}
