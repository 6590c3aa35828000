package command

import (
	"context"
	"errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory fixture
//
// One store backs every repository interface, so an achievement
// evaluation inside a unit of work sees the writes that preceded it,
// just like the transaction-bound repositories in production.
// ─────────────────────────────────────────────────────────────────────────────

type memStore struct {
	accounts   map[string]*account.Account
	activities []progress.ActivityRecord
	chats      []progress.ChatTurn
	games      []progress.GameResult
	badges     map[string][]achievement.Badge

	invalidations int
}

func newMemStore() *memStore {
	return &memStore{
		accounts: make(map[string]*account.Account),
		badges:   make(map[string][]achievement.Badge),
	}
}

// account.Repository

func (s *memStore) Create(_ context.Context, a *account.Account) error {
	for _, existing := range s.accounts {
		if existing.Username == a.Username {
			return account.ErrAccountAlreadyExists
		}
	}
	cp := *a
	s.accounts[a.ID] = &cp
	return nil
}

func (s *memStore) GetByID(_ context.Context, id string) (*account.Account, error) {
	a, ok := s.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *memStore) GetByUsername(_ context.Context, username account.Username) (*account.Account, error) {
	for _, a := range s.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (s *memStore) AwardPoints(_ context.Context, id string, delta account.Points) error {
	a, ok := s.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	return a.AwardPoints(delta)
}

// progress.Repository

func (s *memStore) AppendActivity(_ context.Context, rec *progress.ActivityRecord) error {
	s.activities = append(s.activities, *rec)
	return nil
}

func (s *memStore) AppendChatTurn(_ context.Context, turn *progress.ChatTurn) error {
	s.chats = append(s.chats, *turn)
	return nil
}

func (s *memStore) AppendGameResult(_ context.Context, result *progress.GameResult) error {
	s.games = append(s.games, *result)
	return nil
}

func (s *memStore) AggregateBySubject(_ context.Context, accountID string) ([]progress.SubjectStats, error) {
	totals := make(map[string]*progress.SubjectStats)
	for _, rec := range s.activities {
		if rec.AccountID != accountID {
			continue
		}
		st, ok := totals[rec.Subject]
		if !ok {
			st = &progress.SubjectStats{Subject: rec.Subject}
			totals[rec.Subject] = st
		}
		st.TotalTime += rec.TimeSpent
		st.TotalProblems += rec.ProblemsSolved
	}
	out := make([]progress.SubjectStats, 0, len(totals))
	for _, st := range totals {
		out = append(out, *st)
	}
	return out, nil
}

func (s *memStore) ChatHistory(_ context.Context, accountID string, limit int) ([]progress.ChatTurn, error) {
	var out []progress.ChatTurn
	for i := len(s.chats) - 1; i >= 0 && len(out) < limit; i-- {
		if s.chats[i].AccountID == accountID {
			out = append(out, s.chats[i])
		}
	}
	return out, nil
}

func (s *memStore) RecentGameResults(_ context.Context, accountID string, limit int) ([]progress.GameResult, error) {
	var out []progress.GameResult
	for i := len(s.games) - 1; i >= 0 && len(out) < limit; i-- {
		if s.games[i].AccountID == accountID {
			out = append(out, s.games[i])
		}
	}
	return out, nil
}

// achievement.Repository

func (s *memStore) Grant(_ context.Context, b *achievement.Badge) error {
	for _, held := range s.badges[b.AccountID] {
		if held.Name == b.Name {
			return nil
		}
	}
	s.badges[b.AccountID] = append(s.badges[b.AccountID], *b)
	return nil
}

func (s *memStore) HeldNames(_ context.Context, accountID string) (map[string]bool, error) {
	held := make(map[string]bool)
	for _, b := range s.badges[accountID] {
		held[b.Name] = true
	}
	return held, nil
}

func (s *memStore) ListByAccount(_ context.Context, accountID string) ([]achievement.Badge, error) {
	return s.badges[accountID], nil
}

// achievement.StatsSource

func (s *memStore) Aggregates(_ context.Context, accountID string) (achievement.Aggregates, error) {
	agg := achievement.Aggregates{}
	if a, ok := s.accounts[accountID]; ok {
		agg.Points = int(a.Points)
	}
	subjects := make(map[string]bool)
	for _, rec := range s.activities {
		if rec.AccountID != accountID {
			continue
		}
		subjects[rec.Subject] = true
		agg.Problems += rec.ProblemsSolved
	}
	agg.Subjects = len(subjects)
	for _, g := range s.games {
		if g.AccountID == accountID {
			agg.Games++
		}
	}
	return agg, nil
}

// UnitOfWork

func (s *memStore) Within(_ context.Context, fn func(Repos) error) error {
	return fn(Repos{Accounts: s, Progress: s, Badges: s, Stats: s})
}

// LeaderboardInvalidator

func (s *memStore) Invalidate(_ context.Context) error {
	s.invalidations++
	return nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

func testLogger() *logger.Logger {
	return logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})
}

func sequentialIDs() achievement.IDGenerator {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
}

func fixture(t *testing.T) (*memStore, *achievement.Engine, achievement.IDGenerator) {
	t.Helper()
	return newMemStore(), achievement.NewEngine(sequentialIDs()), sequentialIDs()
}

func registerTestAccount(t *testing.T, store *memStore) *account.Account {
	t.Helper()
	acc, err := account.NewAccount(account.NewAccountParams{
		ID:          "acc-1",
		Username:    "asha_k",
		Password:    "secret123",
		DisplayName: "Asha K",
		Grade:       8,
	})
	require.NoError(t, err)
	require.NoError(t, store.Create(context.Background(), acc))
	return acc
}

// ─────────────────────────────────────────────────────────────────────────────
// RegisterAccount
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterAccount(t *testing.T) {
	store, _, newID := fixture(t)
	h := NewRegisterAccountHandler(store, newID, testLogger())

	result, err := h.Handle(context.Background(), RegisterAccountCommand{
		Username:    "asha_k",
		Password:    "secret123",
		DisplayName: "Asha K",
		Grade:       8,
		School:      "Govt High School",
	})
	require.NoError(t, err)

	assert.Equal(t, account.Points(0), result.Account.Points)
	require.NotNil(t, result.StarterBadge)
	assert.Equal(t, achievement.BadgeStarter, result.StarterBadge.Name)

	held, err := store.HeldNames(context.Background(), result.Account.ID)
	require.NoError(t, err)
	assert.True(t, held[achievement.BadgeStarter])
}

func TestRegisterAccount_DuplicateUsername(t *testing.T) {
	store, _, newID := fixture(t)
	registerTestAccount(t, store)
	h := NewRegisterAccountHandler(store, newID, testLogger())

	_, err := h.Handle(context.Background(), RegisterAccountCommand{
		Username:    "asha_k",
		Password:    "different1",
		DisplayName: "Other Asha",
		Grade:       9,
	})
	assert.ErrorIs(t, err, account.ErrAccountAlreadyExists)
}

func TestRegisterAccount_Validation(t *testing.T) {
	store, _, newID := fixture(t)
	h := NewRegisterAccountHandler(store, newID, testLogger())

	_, err := h.Handle(context.Background(), RegisterAccountCommand{
		Username: "asha_k", Password: "123", DisplayName: "Asha", Grade: 8,
	})
	assert.ErrorIs(t, err, account.ErrWeakPassword)

	_, err = h.Handle(context.Background(), RegisterAccountCommand{
		Username: "asha_k", Password: "secret123", DisplayName: "Asha", Grade: 4,
	})
	assert.ErrorIs(t, err, account.ErrInvalidGrade)
}

// ─────────────────────────────────────────────────────────────────────────────
// RecordActivity
// ─────────────────────────────────────────────────────────────────────────────

func TestRecordActivity(t *testing.T) {
	store, engine, newID := fixture(t)
	acc := registerTestAccount(t, store)
	h := NewRecordActivityHandler(store, engine, store, newID, testLogger())

	result, err := h.Handle(context.Background(), RecordActivityCommand{
		AccountID:      acc.ID,
		Subject:        "Math",
		TimeSpent:      30,
		ProblemsSolved: 3,
	})
	require.NoError(t, err)

	assert.Equal(t, 30, result.PointsAwarded)
	require.Len(t, store.activities, 1)
	assert.Equal(t, "Math", store.activities[0].Subject)

	stored, err := store.GetByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Points(30), stored.Points)
	assert.Equal(t, 1, store.invalidations)
}

func TestRecordActivity_GrantsQuickLearner(t *testing.T) {
	store, engine, newID := fixture(t)
	acc := registerTestAccount(t, store)
	h := NewRecordActivityHandler(store, engine, store, newID, testLogger())

	// 5 problems = 50 points, landing inside the Quick Learner window.
	result, err := h.Handle(context.Background(), RecordActivityCommand{
		AccountID:      acc.ID,
		Subject:        "Math",
		TimeSpent:      45,
		ProblemsSolved: 5,
	})
	require.NoError(t, err)

	require.Len(t, result.NewBadges, 1)
	assert.Equal(t, "Quick Learner", result.NewBadges[0].Name)
}

func TestRecordActivity_UnknownAccount(t *testing.T) {
	store, engine, newID := fixture(t)
	h := NewRecordActivityHandler(store, engine, store, newID, testLogger())

	_, err := h.Handle(context.Background(), RecordActivityCommand{
		AccountID:      "nope",
		Subject:        "Math",
		ProblemsSolved: 1,
	})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.Zero(t, store.invalidations)
}

// ─────────────────────────────────────────────────────────────────────────────
// RecordChat
// ─────────────────────────────────────────────────────────────────────────────

func TestRecordChat(t *testing.T) {
	store, engine, newID := fixture(t)
	acc := registerTestAccount(t, store)
	h := NewRecordChatHandler(store, engine, store, newID, testLogger())

	result, err := h.Handle(context.Background(), RecordChatCommand{
		AccountID: acc.ID,
		Message:   "Thanks, that explanation was great!",
		Response:  "Happy to help.",
		Subject:   "Science",
	})
	require.NoError(t, err)

	assert.Equal(t, progress.PointsPerChat, result.PointsAwarded)
	assert.Equal(t, progress.SentimentPositive, result.Sentiment)
	require.Len(t, store.chats, 1)

	stored, err := store.GetByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Points(5), stored.Points)
}

// ─────────────────────────────────────────────────────────────────────────────
// RecordGame
// ─────────────────────────────────────────────────────────────────────────────

func TestRecordGame(t *testing.T) {
	store, engine, newID := fixture(t)
	acc := registerTestAccount(t, store)
	h := NewRecordGameHandler(store, engine, store, newID, testLogger())

	result, err := h.Handle(context.Background(), RecordGameCommand{
		AccountID: acc.ID,
		GameName:  "Geometry Dash",
		Score:     85,
		Subject:   "Math",
	})
	require.NoError(t, err)

	// 85/10 = 8 game points plus the implicit activity's 10.
	assert.Equal(t, 18, result.PointsAwarded)
	require.Len(t, store.games, 1)

	// The implicit study activity is booked alongside the game result.
	require.Len(t, store.activities, 1)
	assert.Equal(t, progress.GameActivityTime, store.activities[0].TimeSpent)
	assert.Equal(t, progress.GameActivityProblems, store.activities[0].ProblemsSolved)

	stored, err := store.GetByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Points(18), stored.Points)
	assert.Equal(t, 1, store.invalidations)
}

func TestRecordGame_FiveGamesEarnGameMaster(t *testing.T) {
	store, engine, newID := fixture(t)
	acc := registerTestAccount(t, store)
	h := NewRecordGameHandler(store, engine, store, newID, testLogger())

	var lastBadges []achievement.Badge
	for i := 0; i < 5; i++ {
		result, err := h.Handle(context.Background(), RecordGameCommand{
			AccountID: acc.ID,
			GameName:  "Geometry Dash",
			Score:     10,
			Subject:   "Math",
		})
		require.NoError(t, err)
		lastBadges = result.NewBadges
	}

	names := make([]string, 0, len(lastBadges))
	for _, b := range lastBadges {
		names = append(names, b.Name)
	}
	assert.Contains(t, names, "Game Master")
}

// ─────────────────────────────────────────────────────────────────────────────
// AskTutor
// ─────────────────────────────────────────────────────────────────────────────

type stubTutor struct {
	response string
	err      error
}

func (s stubTutor) GenerateResponse(_ context.Context, _ string, _ TutorStudentContext) (string, error) {
	return s.response, s.err
}

func TestAskTutor(t *testing.T) {
	store, engine, newID := fixture(t)
	acc := registerTestAccount(t, store)
	recorder := NewRecordChatHandler(store, engine, store, newID, testLogger())
	h := NewAskTutorHandler(store, stubTutor{response: "A fraction is part of a whole."}, recorder, testLogger())

	result, err := h.Handle(context.Background(), AskTutorCommand{
		AccountID: acc.ID,
		Message:   "What is a fraction?",
		Subject:   "Math",
	})
	require.NoError(t, err)

	assert.False(t, result.Degraded)
	assert.Equal(t, "A fraction is part of a whole.", result.Response)
	require.Len(t, store.chats, 1)
	assert.Equal(t, "A fraction is part of a whole.", store.chats[0].Response)
}

func TestAskTutor_DegradesWhenTutorFails(t *testing.T) {
	store, engine, newID := fixture(t)
	acc := registerTestAccount(t, store)
	recorder := NewRecordChatHandler(store, engine, store, newID, testLogger())
	h := NewAskTutorHandler(store, stubTutor{err: errors.New("upstream down")}, recorder, testLogger())

	result, err := h.Handle(context.Background(), AskTutorCommand{
		AccountID: acc.ID,
		Message:   "What is a fraction?",
	})
	require.NoError(t, err)

	assert.True(t, result.Degraded)
	assert.Equal(t, TutorFallbackMessage, result.Response)

	// The degraded turn is recorded and credited like any other.
	require.Len(t, store.chats, 1)
	assert.Equal(t, TutorFallbackMessage, store.chats[0].Response)
	stored, err := store.GetByID(context.Background(), acc.ID)
	require.NoError(t, err)
	assert.Equal(t, account.Points(5), stored.Points)
}

func TestAskTutor_UnknownAccount(t *testing.T) {
	store, engine, newID := fixture(t)
	recorder := NewRecordChatHandler(store, engine, store, newID, testLogger())
	h := NewAskTutorHandler(store, stubTutor{response: "hi"}, recorder, testLogger())

	_, err := h.Handle(context.Background(), AskTutorCommand{
		AccountID: "nope",
		Message:   "hello",
	})
	assert.ErrorIs(t, err, account.ErrAccountNotFound)
	assert.Empty(t, store.chats)
}
