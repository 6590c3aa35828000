package query

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/shared"
)

type fakeAccounts struct {
	byUsername map[account.Username]*account.Account
}

func (f *fakeAccounts) Create(_ context.Context, _ *account.Account) error { return nil }

func (f *fakeAccounts) GetByID(_ context.Context, _ string) (*account.Account, error) {
	return nil, account.ErrAccountNotFound
}

func (f *fakeAccounts) GetByUsername(_ context.Context, username account.Username) (*account.Account, error) {
	if a, ok := f.byUsername[username]; ok {
		return a, nil
	}
	return nil, account.ErrAccountNotFound
}

func (f *fakeAccounts) AwardPoints(_ context.Context, _ string, _ account.Points) error {
	return nil
}

func newFakeAccounts(t *testing.T) *fakeAccounts {
	t.Helper()
	acc, err := account.NewAccount(account.NewAccountParams{
		ID:          "acc-1",
		Username:    "asha_k",
		Password:    "secret123",
		DisplayName: "Asha K",
		Grade:       8,
	})
	require.NoError(t, err)
	return &fakeAccounts{byUsername: map[account.Username]*account.Account{acc.Username: acc}}
}

func TestAuthenticate(t *testing.T) {
	h := NewAuthenticateHandler(newFakeAccounts(t))

	result, err := h.Handle(context.Background(), AuthenticateQuery{
		Username: "asha_k",
		Password: "secret123",
	})
	require.NoError(t, err)
	assert.Equal(t, "acc-1", result.Account.ID)
}

func TestAuthenticate_FailsClosed(t *testing.T) {
	// Unknown username and wrong password are indistinguishable to the
	// caller; both map to the same generic error.
	h := NewAuthenticateHandler(newFakeAccounts(t))

	tests := []struct {
		name     string
		username string
		password string
	}{
		{"unknown username", "nobody", "secret123"},
		{"wrong password", "asha_k", "wrong-password"},
		{"empty username", "", "secret123"},
		{"empty password", "asha_k", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := h.Handle(context.Background(), AuthenticateQuery{
				Username: tt.username,
				Password: tt.password,
			})
			assert.ErrorIs(t, err, shared.ErrBadCredentials)
		})
	}
}
