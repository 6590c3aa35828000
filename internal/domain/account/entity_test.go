package account

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validParams() NewAccountParams {
	return NewAccountParams{
		ID:                "acc-1",
		Username:          "asha_k",
		Password:          "secret123",
		DisplayName:       "Asha K",
		Grade:             8,
		School:            "Govt High School",
		PreferredLanguage: "Hindi",
	}
}

func TestNewAccount(t *testing.T) {
	acc, err := NewAccount(validParams())
	require.NoError(t, err)

	assert.Equal(t, Username("asha_k"), acc.Username)
	assert.Equal(t, Grade(8), acc.Grade)
	assert.Equal(t, Language("Hindi"), acc.PreferredLanguage)
	assert.Equal(t, DefaultAvatar, acc.Avatar)
	assert.Equal(t, Points(0), acc.Points)
	assert.False(t, acc.CreatedAt.IsZero())

	// The plaintext must never be stored.
	assert.NotEqual(t, "secret123", acc.PasswordHash)
	assert.NotEmpty(t, acc.PasswordHash)
}

func TestNewAccount_DefaultsLanguage(t *testing.T) {
	params := validParams()
	params.PreferredLanguage = ""

	acc, err := NewAccount(params)
	require.NoError(t, err)
	assert.Equal(t, DefaultLanguage, acc.PreferredLanguage)
}

func TestNewAccount_Validation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*NewAccountParams)
		wantErr error
	}{
		{"username too short", func(p *NewAccountParams) { p.Username = "a" }, ErrInvalidUsername},
		{"username with space", func(p *NewAccountParams) { p.Username = "asha k" }, ErrInvalidUsername},
		{"weak password", func(p *NewAccountParams) { p.Password = "12345" }, ErrWeakPassword},
		{"blank display name", func(p *NewAccountParams) { p.DisplayName = "   " }, ErrInvalidDisplayName},
		{"grade below range", func(p *NewAccountParams) { p.Grade = 5 }, ErrInvalidGrade},
		{"grade above range", func(p *NewAccountParams) { p.Grade = 13 }, ErrInvalidGrade},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			params := validParams()
			tt.mutate(&params)
			_, err := NewAccount(params)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestAccount_CheckPassword(t *testing.T) {
	acc, err := NewAccount(validParams())
	require.NoError(t, err)

	assert.True(t, acc.CheckPassword("secret123"))
	assert.False(t, acc.CheckPassword("wrong"))
	assert.False(t, acc.CheckPassword(""))
}

func TestAccount_AwardPoints(t *testing.T) {
	acc, err := NewAccount(validParams())
	require.NoError(t, err)

	require.NoError(t, acc.AwardPoints(50))
	require.NoError(t, acc.AwardPoints(0))
	assert.Equal(t, Points(50), acc.Points)
}

func TestAccount_AwardPoints_RejectsNegative(t *testing.T) {
	acc, err := NewAccount(validParams())
	require.NoError(t, err)
	require.NoError(t, acc.AwardPoints(30))

	err = acc.AwardPoints(-10)
	assert.ErrorIs(t, err, ErrInvalidPoints)
	// The tally is untouched by the rejected award.
	assert.Equal(t, Points(30), acc.Points)
}

func TestAccount_StringOmitsHash(t *testing.T) {
	acc, err := NewAccount(validParams())
	require.NoError(t, err)
	assert.NotContains(t, acc.String(), acc.PasswordHash)
}
