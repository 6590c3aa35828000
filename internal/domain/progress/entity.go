// Package progress contains the append-only learning ledgers: study
// activity records, tutor chat turns, and game results. Rows are written
// once and never updated or deleted; dashboards and the achievement
// engine read aggregates over them.
package progress

import (
	"errors"
	"strings"
	"time"
)

// ══════════════════════════════════════════════════════════════════════════════
// DOMAIN ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	ErrInvalidAccountID = errors.New("progress: invalid account ID")
	ErrInvalidSubject   = errors.New("progress: subject is required")
	ErrNegativeTime     = errors.New("progress: time spent cannot be negative")
	ErrNegativeProblems = errors.New("progress: problems solved cannot be negative")
	ErrNegativeScore    = errors.New("progress: score cannot be negative")
	ErrEmptyMessage     = errors.New("progress: message is required")
	ErrInvalidGameName  = errors.New("progress: game name is required")
)

// ══════════════════════════════════════════════════════════════════════════════
// POINT FORMULAS
// ══════════════════════════════════════════════════════════════════════════════

// Point awards for user actions. The chat award is flat; study awards
// scale with problems solved and game awards with the score.
const (
	PointsPerProblem = 10
	PointsPerChat    = 5
	GameScoreDivisor = 10

	// A finished game also books one implicit study activity.
	GameActivityTime     = 5
	GameActivityProblems = 1
)

// ActivityPoints returns the points credited for a study activity.
func ActivityPoints(problemsSolved int) int {
	return problemsSolved * PointsPerProblem
}

// GamePoints returns the points credited for a game score,
// excluding the implicit activity credit.
func GamePoints(score int) int {
	return score / GameScoreDivisor
}

// ══════════════════════════════════════════════════════════════════════════════
// ACTIVITY RECORD
// ══════════════════════════════════════════════════════════════════════════════

// ActivityRecord is one study session: time spent on a subject and how
// many problems were solved. Immutable once written.
type ActivityRecord struct {
	ID             string
	AccountID      string
	Subject        string
	TimeSpent      int // minutes
	ProblemsSolved int
	RecordedAt     time.Time
}

// NewActivityRecord creates a validated activity record.
func NewActivityRecord(id, accountID, subject string, timeSpent, problemsSolved int) (*ActivityRecord, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if strings.TrimSpace(subject) == "" {
		return nil, ErrInvalidSubject
	}
	if timeSpent < 0 {
		return nil, ErrNegativeTime
	}
	if problemsSolved < 0 {
		return nil, ErrNegativeProblems
	}

	return &ActivityRecord{
		ID:             id,
		AccountID:      accountID,
		Subject:        subject,
		TimeSpent:      timeSpent,
		ProblemsSolved: problemsSolved,
		RecordedAt:     time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// CHAT TURN
// ══════════════════════════════════════════════════════════════════════════════

// ChatTurn is one tutor-chat exchange with its derived sentiment tag.
// Immutable once written. The response is produced by the AI-tutor
// collaborator; this package only records it.
type ChatTurn struct {
	ID         string
	AccountID  string
	Message    string
	Response   string
	Subject    string
	Sentiment  Sentiment
	RecordedAt time.Time
}

// NewChatTurn creates a chat turn and classifies the student's message.
func NewChatTurn(id, accountID, message, response, subject string) (*ChatTurn, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if strings.TrimSpace(message) == "" {
		return nil, ErrEmptyMessage
	}

	return &ChatTurn{
		ID:         id,
		AccountID:  accountID,
		Message:    message,
		Response:   response,
		Subject:    subject,
		Sentiment:  Classify(message),
		RecordedAt: time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// GAME RESULT
// ══════════════════════════════════════════════════════════════════════════════

// GameResult is one completed game play. Immutable once written.
type GameResult struct {
	ID         string
	AccountID  string
	GameName   string
	Score      int
	Subject    string
	RecordedAt time.Time
}

// NewGameResult creates a validated game result.
func NewGameResult(id, accountID, gameName string, score int, subject string) (*GameResult, error) {
	if accountID == "" {
		return nil, ErrInvalidAccountID
	}
	if strings.TrimSpace(gameName) == "" {
		return nil, ErrInvalidGameName
	}
	if score < 0 {
		return nil, ErrNegativeScore
	}

	return &GameResult{
		ID:         id,
		AccountID:  accountID,
		GameName:   gameName,
		Score:      score,
		Subject:    subject,
		RecordedAt: time.Now().UTC(),
	}, nil
}

// ══════════════════════════════════════════════════════════════════════════════
// AGGREGATES
// ══════════════════════════════════════════════════════════════════════════════

// SubjectStats holds the per-subject totals used by dashboards
// and by the achievement engine.
type SubjectStats struct {
	Subject       string
	TotalTime     int
	TotalProblems int
}
