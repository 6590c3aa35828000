// Package account contains the student account domain model.
// This is the core of the identity and points subsystem - accounts own the
// running EduPoints tally and nothing else mutates it.
package account

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

// ══════════════════════════════════════════════════════════════════════════════
// VALUE OBJECTS
// ══════════════════════════════════════════════════════════════════════════════

// Username represents the unique login name of an account.
type Username string

// IsValid checks that the username is 2-50 characters without whitespace.
func (u Username) IsValid() bool {
	s := string(u)
	return len(s) >= 2 && len(s) <= 50 && !strings.ContainsAny(s, " \t\n\r")
}

// String returns the string representation of the username.
func (u Username) String() string {
	return string(u)
}

// Grade represents a school grade. The platform serves grades 6-12.
type Grade int

// IsValid checks that the grade is within the supported range.
func (g Grade) IsValid() bool {
	return g >= 6 && g <= 12
}

// Points represents the EduPoints tally of an account.
// Points only ever grow; no operation decrements them.
type Points int

// IsValid checks that the points value is non-negative.
func (p Points) IsValid() bool {
	return p >= 0
}

// Add returns the tally after crediting delta points.
func (p Points) Add(delta Points) Points {
	return p + delta
}

// Language represents a preferred content language (e.g., "English", "Hindi").
type Language string

// IsValid checks that the language is non-empty.
func (l Language) IsValid() bool {
	return strings.TrimSpace(string(l)) != ""
}

// String returns the string representation of the language.
func (l Language) String() string {
	return string(l)
}

// DefaultLanguage is assumed when registration omits the language.
const DefaultLanguage Language = "English"

// DefaultAvatar is the avatar assigned at registration.
const DefaultAvatar = "student1"

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrInvalidUsername - username fails the format rules.
	ErrInvalidUsername = errors.New("account: username must be 2-50 chars without whitespace")

	// ErrInvalidGrade - grade outside 6-12.
	ErrInvalidGrade = errors.New("account: grade must be between 6 and 12")

	// ErrInvalidDisplayName - empty or oversized display name.
	ErrInvalidDisplayName = errors.New("account: display name must be 1-100 chars")

	// ErrInvalidLanguage - empty preferred language.
	ErrInvalidLanguage = errors.New("account: preferred language is required")

	// ErrInvalidPoints - negative points value.
	ErrInvalidPoints = errors.New("account: points must be non-negative")

	// ErrWeakPassword - password shorter than the minimum.
	ErrWeakPassword = errors.New("account: password must be at least 6 chars")

	// ErrAccountNotFound - account does not exist.
	ErrAccountNotFound = errors.New("account: not found")

	// ErrAccountAlreadyExists - username already taken.
	ErrAccountAlreadyExists = errors.New("account: username already exists")
)

// ══════════════════════════════════════════════════════════════════════════════
// MAIN ENTITY: ACCOUNT
// ══════════════════════════════════════════════════════════════════════════════

// Account is the central identity entity of the platform.
type Account struct {
	// ID - internal unique identifier (UUID in string form).
	ID string

	// Username - unique login name.
	Username Username

	// PasswordHash - bcrypt hash of the password. Never the plaintext.
	PasswordHash string

	// DisplayName - name shown on dashboards and the leaderboard.
	DisplayName string

	// Grade - school grade, 6-12.
	Grade Grade

	// School - free-form school name.
	School string

	// PreferredLanguage - content language preference.
	PreferredLanguage Language

	// Avatar - avatar identifier for the UI.
	Avatar string

	// Points - running EduPoints tally. Monotonically non-decreasing.
	Points Points

	// CreatedAt - registration time.
	CreatedAt time.Time
}

// NewAccountParams contains parameters for creating a new account.
type NewAccountParams struct {
	ID                string
	Username          Username
	Password          string
	DisplayName       string
	Grade             Grade
	School            string
	PreferredLanguage Language
}

// NewAccount creates a new account with a hashed password.
// Accounts always start with zero points.
func NewAccount(params NewAccountParams) (*Account, error) {
	if params.ID == "" {
		return nil, errors.New("account: id is required")
	}

	if !params.Username.IsValid() {
		return nil, ErrInvalidUsername
	}

	if len(params.Password) < 6 {
		return nil, ErrWeakPassword
	}

	displayName := strings.TrimSpace(params.DisplayName)
	if len(displayName) == 0 || len(displayName) > 100 {
		return nil, ErrInvalidDisplayName
	}

	if !params.Grade.IsValid() {
		return nil, ErrInvalidGrade
	}

	language := params.PreferredLanguage
	if language == "" {
		language = DefaultLanguage
	}
	if !language.IsValid() {
		return nil, ErrInvalidLanguage
	}

	hash, err := HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("account: failed to hash password: %w", err)
	}

	return &Account{
		ID:                params.ID,
		Username:          params.Username,
		PasswordHash:      hash,
		DisplayName:       displayName,
		Grade:             params.Grade,
		School:            strings.TrimSpace(params.School),
		PreferredLanguage: language,
		Avatar:            DefaultAvatar,
		Points:            0,
		CreatedAt:         time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN METHODS
// ══════════════════════════════════════════════════════════════════════════════

// AwardPoints credits delta points to the account.
// Negative deltas are rejected; the tally never decreases.
func (a *Account) AwardPoints(delta Points) error {
	if delta < 0 {
		return ErrInvalidPoints
	}
	a.Points = a.Points.Add(delta)
	return nil
}

// CheckPassword reports whether the plaintext password matches the stored hash.
func (a *Account) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(a.PasswordHash), []byte(password)) == nil
}

// String returns a loggable representation. The password hash is omitted.
func (a *Account) String() string {
	return fmt.Sprintf(
		"Account{ID: %s, Username: %s, Grade: %d, Points: %d}",
		a.ID, a.Username, a.Grade, a.Points,
	)
}

// HashPassword hashes a plaintext password with bcrypt at the default cost.
func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}
