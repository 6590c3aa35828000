package command

import (
	"context"
	"fmt"
	"time"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REGISTER ACCOUNT COMMAND
// Creates the account and seeds the unconditional "Starter" badge in the
// same transaction: an account without its starter badge must not exist.
// ══════════════════════════════════════════════════════════════════════════════

// RegisterAccountCommand contains the registration data.
type RegisterAccountCommand struct {
	Username          string
	Password          string
	DisplayName       string
	Grade             int
	School            string
	PreferredLanguage string
}

// Validate validates the command.
func (c RegisterAccountCommand) Validate() error {
	if !account.Username(c.Username).IsValid() {
		return account.ErrInvalidUsername
	}
	if len(c.Password) < 6 {
		return account.ErrWeakPassword
	}
	if !account.Grade(c.Grade).IsValid() {
		return account.ErrInvalidGrade
	}
	return nil
}

// RegisterAccountResult contains the created account and its starter badge.
type RegisterAccountResult struct {
	Account      *account.Account
	StarterBadge *achievement.Badge
	RegisteredAt time.Time
}

// RegisterAccountHandler handles the RegisterAccountCommand.
type RegisterAccountHandler struct {
	uow   UnitOfWork
	newID achievement.IDGenerator
	log   *logger.Logger
}

// NewRegisterAccountHandler creates a new RegisterAccountHandler.
func NewRegisterAccountHandler(uow UnitOfWork, newID achievement.IDGenerator, log *logger.Logger) *RegisterAccountHandler {
	return &RegisterAccountHandler{uow: uow, newID: newID, log: log}
}

// Handle executes the registration.
// Returns account.ErrAccountAlreadyExists when the username is taken.
func (h *RegisterAccountHandler) Handle(ctx context.Context, cmd RegisterAccountCommand) (*RegisterAccountResult, error) {
	if err := cmd.Validate(); err != nil {
		return nil, fmt.Errorf("register_account: validation failed: %w", err)
	}

	acc, err := account.NewAccount(account.NewAccountParams{
		ID:                h.newID(),
		Username:          account.Username(cmd.Username),
		Password:          cmd.Password,
		DisplayName:       cmd.DisplayName,
		Grade:             account.Grade(cmd.Grade),
		School:            cmd.School,
		PreferredLanguage: account.Language(cmd.PreferredLanguage),
	})
	if err != nil {
		return nil, fmt.Errorf("register_account: %w", err)
	}

	starter, err := achievement.StarterBadge(h.newID(), acc.ID)
	if err != nil {
		return nil, fmt.Errorf("register_account: %w", err)
	}

	err = h.uow.Within(ctx, func(r Repos) error {
		if err := r.Accounts.Create(ctx, acc); err != nil {
			return err
		}
		return r.Badges.Grant(ctx, starter)
	})
	if err != nil {
		return nil, err
	}

	h.log.Info("account registered",
		logger.AccountID(acc.ID),
		logger.String("username", cmd.Username),
		logger.Int("grade", cmd.Grade),
	)

	return &RegisterAccountResult{
		Account:      acc,
		StarterBadge: starter,
		RegisteredAt: acc.CreatedAt,
	}, nil
}
