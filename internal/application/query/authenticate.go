package query

import (
	"context"
	"errors"
	"fmt"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/shared"
)

// ══════════════════════════════════════════════════════════════════════════════
// AUTHENTICATE QUERY
// Verifies credentials and returns the account. Fails closed: an unknown
// username and a wrong password produce the same generic error, so the
// response never reveals which part was wrong.
// ══════════════════════════════════════════════════════════════════════════════

// AuthenticateQuery contains the login credentials.
type AuthenticateQuery struct {
	Username string
	Password string
}

// AuthenticateResult contains the verified account.
type AuthenticateResult struct {
	Account *account.Account
}

// AuthenticateHandler handles the AuthenticateQuery.
type AuthenticateHandler struct {
	accounts account.Repository
}

// NewAuthenticateHandler creates a new AuthenticateHandler.
func NewAuthenticateHandler(accounts account.Repository) *AuthenticateHandler {
	return &AuthenticateHandler{accounts: accounts}
}

// Handle verifies the credentials.
// Returns shared.ErrBadCredentials on any mismatch.
func (h *AuthenticateHandler) Handle(ctx context.Context, q AuthenticateQuery) (*AuthenticateResult, error) {
	if q.Username == "" || q.Password == "" {
		return nil, shared.ErrBadCredentials
	}

	acc, err := h.accounts.GetByUsername(ctx, account.Username(q.Username))
	if err != nil {
		if errors.Is(err, account.ErrAccountNotFound) {
			return nil, shared.ErrBadCredentials
		}
		return nil, fmt.Errorf("authenticate: %w", err)
	}

	if !acc.CheckPassword(q.Password) {
		return nil, shared.ErrBadCredentials
	}

	return &AuthenticateResult{Account: acc}, nil
}
