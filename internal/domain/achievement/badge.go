// Package achievement contains the badge domain model and the engine
// that grants badges from aggregate learning statistics.
package achievement

import (
	"errors"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrInvalidAccountID = errors.New("achievement: invalid account ID")
	ErrInvalidBadgeName = errors.New("achievement: badge name is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// BADGE
// ══════════════════════════════════════════════════════════════════════════════

// Badge is a named achievement held by an account. An account holds at
// most one badge per name, and badges are never revoked - the grant is a
// "first time true" record, not a live recomputation.
type Badge struct {
	ID          string
	AccountID   string
	Name        string
	Description string
	EarnedAt    time.Time
}

// NewBadge creates a validated badge.
func NewBadge(id, accountID, name, description string) (*Badge, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if name == "" {
		return nil, ErrInvalidBadgeName
	}

	return &Badge{
		ID:          id,
		AccountID:   accountID,
		Name:        name,
		Description: description,
		EarnedAt:    time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATES
// ══════════════════════════════════════════════════════════════════════════════

// Aggregates are the four statistics the rules read: the points tally,
// the number of distinct subjects studied, total problems solved, and
// total games played.
type Aggregates struct {
	Points   int
	Subjects int
	Problems int
	Games    int
}

// ══════════════════════════════════════════════════════════════════════════════
// RULES
// ══════════════════════════════════════════════════════════════════════════════

// BadgeStarter is seeded once at registration, unconditionally, and is
// therefore not part of the evaluated rule table.
const (
	BadgeStarter            = "Starter"
	StarterBadgeDescription = "Welcome to EduGamify! You've taken your first step in learning."
)

// Rule is one badge-granting condition over the aggregates.
type Rule struct {
	Name        string
	Description string
	Met         func(Aggregates) bool
}

// Rules returns the evaluated rule table, in grant order.
//
// Math Whiz and Science Explorer intentionally share the same
// subject-agnostic condition; changing either to a subject-filtered
// count would alter the observable badge set.
func Rules() []Rule {
	return []Rule{
		{
			Name:        "Quick Learner",
			Description: "Earned 50 points",
			Met:         func(a Aggregates) bool { return a.Points >= 50 && a.Points < 100 },
		},
		{
			Name:        "Knowledge Seeker",
			Description: "Earned 100 points",
			Met:         func(a Aggregates) bool { return a.Points >= 100 },
		},
		{
			Name:        "Math Whiz",
			Description: "Solved 10 math problems",
			Met:         func(a Aggregates) bool { return a.Problems >= 10 },
		},
		{
			Name:        "Science Explorer",
			Description: "Solved 10 science problems",
			Met:         func(a Aggregates) bool { return a.Problems >= 10 },
		},
		{
			Name:        "Multitalented",
			Description: "Studied 3 different subjects",
			Met:         func(a Aggregates) bool { return a.Subjects >= 3 },
		},
		{
			Name:        "Game Master",
			Description: "Played 5 educational games",
			Met:         func(a Aggregates) bool { return a.Games >= 5 },
		},
	}
}
