package http

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit071105/Shiksha-Yatra/internal/application/command"
	"github.com/ankit071105/Shiksha-Yatra/internal/application/query"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/catalog"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/leaderboard"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

// ─────────────────────────────────────────────────────────────────────────────
// In-memory backend
// ─────────────────────────────────────────────────────────────────────────────

type memBackend struct {
	accounts   map[string]*account.Account
	activities []progress.ActivityRecord
	chats      []progress.ChatTurn
	games      []progress.GameResult
	badges     map[string][]achievement.Badge
	items      map[string]*catalog.Item
}

func newMemBackend() *memBackend {
	return &memBackend{
		accounts: make(map[string]*account.Account),
		badges:   make(map[string][]achievement.Badge),
		items:    make(map[string]*catalog.Item),
	}
}

func (m *memBackend) Create(_ context.Context, a *account.Account) error {
	for _, existing := range m.accounts {
		if existing.Username == a.Username {
			return account.ErrAccountAlreadyExists
		}
	}
	cp := *a
	m.accounts[a.ID] = &cp
	return nil
}

func (m *memBackend) GetByID(_ context.Context, id string) (*account.Account, error) {
	a, ok := m.accounts[id]
	if !ok {
		return nil, account.ErrAccountNotFound
	}
	cp := *a
	return &cp, nil
}

func (m *memBackend) GetByUsername(_ context.Context, username account.Username) (*account.Account, error) {
	for _, a := range m.accounts {
		if a.Username == username {
			cp := *a
			return &cp, nil
		}
	}
	return nil, account.ErrAccountNotFound
}

func (m *memBackend) AwardPoints(_ context.Context, id string, delta account.Points) error {
	a, ok := m.accounts[id]
	if !ok {
		return account.ErrAccountNotFound
	}
	return a.AwardPoints(delta)
}

func (m *memBackend) AppendActivity(_ context.Context, rec *progress.ActivityRecord) error {
	m.activities = append(m.activities, *rec)
	return nil
}

func (m *memBackend) AppendChatTurn(_ context.Context, turn *progress.ChatTurn) error {
	m.chats = append(m.chats, *turn)
	return nil
}

func (m *memBackend) AppendGameResult(_ context.Context, result *progress.GameResult) error {
	m.games = append(m.games, *result)
	return nil
}

func (m *memBackend) AggregateBySubject(_ context.Context, accountID string) ([]progress.SubjectStats, error) {
	totals := make(map[string]*progress.SubjectStats)
	for _, rec := range m.activities {
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

func (m *memBackend) ChatHistory(_ context.Context, accountID string, limit int) ([]progress.ChatTurn, error) {
	var out []progress.ChatTurn
	for i := len(m.chats) - 1; i >= 0 && len(out) < limit; i-- {
		if m.chats[i].AccountID == accountID {
			out = append(out, m.chats[i])
		}
	}
	return out, nil
}

func (m *memBackend) RecentGameResults(_ context.Context, accountID string, limit int) ([]progress.GameResult, error) {
	var out []progress.GameResult
	for i := len(m.games) - 1; i >= 0 && len(out) < limit; i-- {
		if m.games[i].AccountID == accountID {
			out = append(out, m.games[i])
		}
	}
	return out, nil
}

func (m *memBackend) Grant(_ context.Context, b *achievement.Badge) error {
	for _, held := range m.badges[b.AccountID] {
		if held.Name == b.Name {
			return nil
		}
	}
	m.badges[b.AccountID] = append(m.badges[b.AccountID], *b)
	return nil
}

func (m *memBackend) HeldNames(_ context.Context, accountID string) (map[string]bool, error) {
	held := make(map[string]bool)
	for _, b := range m.badges[accountID] {
		held[b.Name] = true
	}
	return held, nil
}

func (m *memBackend) ListByAccount(_ context.Context, accountID string) ([]achievement.Badge, error) {
	return m.badges[accountID], nil
}

func (m *memBackend) Aggregates(_ context.Context, accountID string) (achievement.Aggregates, error) {
	agg := achievement.Aggregates{}
	if a, ok := m.accounts[accountID]; ok {
		agg.Points = int(a.Points)
	}
	subjects := make(map[string]bool)
	for _, rec := range m.activities {
		if rec.AccountID != accountID {
			continue
		}
		subjects[rec.Subject] = true
		agg.Problems += rec.ProblemsSolved
	}
	agg.Subjects = len(subjects)
	for _, g := range m.games {
		if g.AccountID == accountID {
			agg.Games++
		}
	}
	return agg, nil
}

func (m *memBackend) Within(_ context.Context, fn func(command.Repos) error) error {
	return fn(command.Repos{Accounts: m, Progress: m, Badges: m, Stats: m})
}

func (m *memBackend) TopAccounts(_ context.Context, limit int) ([]leaderboard.Entry, error) {
	entries := make([]leaderboard.Entry, 0, len(m.accounts))
	for _, a := range m.accounts {
		entries = append(entries, leaderboard.Entry{
			AccountID:   a.ID,
			DisplayName: a.DisplayName,
			Grade:       int(a.Grade),
			School:      a.School,
			Points:      int(a.Points),
		})
	}
	leaderboard.SortEntries(entries)
	if len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

func (m *memBackend) List(_ context.Context, f catalog.Filter) ([]catalog.Item, error) {
	var out []catalog.Item
	for _, item := range m.items {
		if f.Matches(*item) {
			out = append(out, *item)
		}
	}
	return out, nil
}

func (m *memBackend) GetCatalogItem(_ context.Context, id string) (*catalog.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, catalog.ErrItemNotFound
	}
	cp := *item
	return &cp, nil
}

func (m *memBackend) IncrementDownloads(_ context.Context, id string) error {
	item, ok := m.items[id]
	if !ok {
		return catalog.ErrItemNotFound
	}
	item.DownloadCount++
	return nil
}

func (m *memBackend) Ping(_ context.Context) error { return nil }

// catalogAdapter exposes the backend as catalog.Repository without the
// GetByID name colliding with the account lookup.
type catalogAdapter struct{ *memBackend }

func (c catalogAdapter) GetByID(ctx context.Context, id string) (*catalog.Item, error) {
	return c.GetCatalogItem(ctx, id)
}

type stubTutor struct{}

func (stubTutor) GenerateResponse(_ context.Context, _ string, _ command.TutorStudentContext) (string, error) {
	return "A fraction is part of a whole.", nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Test server
// ─────────────────────────────────────────────────────────────────────────────

func newTestServer(t *testing.T) (*Server, *memBackend) {
	t.Helper()

	backend := newMemBackend()
	item, err := catalog.NewItem("item-1", "Basic Algebra", "Math", "PDF", "algebra_basics.pdf", 6, "English")
	require.NoError(t, err)
	backend.items[item.ID] = item

	log := logger.New(logger.Options{Output: io.Discard, Level: logger.LevelError})

	n := 0
	newID := func() string {
		n++
		return fmt.Sprintf("id-%d", n)
	}
	engine := achievement.NewEngine(newID)
	chatCmd := command.NewRecordChatHandler(backend, engine, nil, newID, log)

	cfg := DefaultConfig()
	cfg.RateLimitPerMinute = 0 // no throttling in tests

	server := NewServer(cfg, Dependencies{
		RegisterAccountHandler: command.NewRegisterAccountHandler(backend, newID, log),
		RecordActivityHandler:  command.NewRecordActivityHandler(backend, engine, nil, newID, log),
		AskTutorHandler:        command.NewAskTutorHandler(backend, stubTutor{}, chatCmd, log),
		RecordGameHandler:      command.NewRecordGameHandler(backend, engine, nil, newID, log),
		RecordDownloadHandler:  command.NewRecordDownloadHandler(catalogAdapter{backend}, log),

		AuthenticateHandler:   query.NewAuthenticateHandler(backend),
		GetLeaderboardHandler: query.NewGetLeaderboardHandler(backend),
		GetProgressHandler:    query.NewGetProgressHandler(backend, backend, backend),
		ListContentHandler:    query.NewListContentHandler(catalogAdapter{backend}),

		Database: backend,
		Logger:   log,
	})

	return server, backend
}

func doRequest(t *testing.T, server *Server, method, path, body string) (*httptest.ResponseRecorder, JSONResponse) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	rec := httptest.NewRecorder()
	server.buildMiddlewareChain(server.router).ServeHTTP(rec, req)

	var envelope JSONResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	return rec, envelope
}

func registerViaAPI(t *testing.T, server *Server) string {
	t.Helper()

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/auth/register",
		`{"username":"asha_k","password":"secret123","display_name":"Asha K","grade":8,"school":"Govt High School"}`)
	require.Equal(t, http.StatusCreated, rec.Code)

	data := envelope.Data.(map[string]interface{})
	acc := data["account"].(map[string]interface{})
	return acc["id"].(string)
}

// ─────────────────────────────────────────────────────────────────────────────
// Routes
// ─────────────────────────────────────────────────────────────────────────────

func TestRegisterEndpoint(t *testing.T) {
	server, backend := newTestServer(t)

	id := registerViaAPI(t, server)
	assert.NotEmpty(t, id)

	// The starter badge is granted in the same request.
	held, err := backend.HeldNames(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, held[achievement.BadgeStarter])
}

func TestRegisterEndpoint_DuplicateUsername(t *testing.T) {
	server, _ := newTestServer(t)
	registerViaAPI(t, server)

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/auth/register",
		`{"username":"asha_k","password":"other1234","display_name":"Other","grade":9}`)

	assert.Equal(t, http.StatusConflict, rec.Code)
	require.NotNil(t, envelope.Error)
	assert.Equal(t, "username_taken", envelope.Error.Code)
}

func TestRegisterEndpoint_InvalidBody(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/auth/register", `{not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid_body", envelope.Error.Code)
}

func TestLoginEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	registerViaAPI(t, server)

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/auth/login",
		`{"username":"asha_k","password":"secret123"}`)
	assert.Equal(t, http.StatusOK, rec.Code)

	data := envelope.Data.(map[string]interface{})
	acc := data["account"].(map[string]interface{})
	assert.Equal(t, "asha_k", acc["username"])
	// The hash never crosses the wire.
	assert.NotContains(t, acc, "password_hash")
}

func TestLoginEndpoint_BadCredentials(t *testing.T) {
	server, _ := newTestServer(t)
	registerViaAPI(t, server)

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/auth/login",
		`{"username":"asha_k","password":"wrong"}`)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "bad_credentials", envelope.Error.Code)
}

func TestRecordActivityEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	id := registerViaAPI(t, server)

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/activities",
		fmt.Sprintf(`{"account_id":%q,"subject":"Math","time_spent":30,"problems_solved":3}`, id))
	assert.Equal(t, http.StatusCreated, rec.Code)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, float64(30), data["points_awarded"])
}

func TestChatEndpoint(t *testing.T) {
	server, backend := newTestServer(t)
	id := registerViaAPI(t, server)

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/chat",
		fmt.Sprintf(`{"account_id":%q,"message":"What is a fraction?","subject":"Math"}`, id))
	assert.Equal(t, http.StatusOK, rec.Code)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "A fraction is part of a whole.", data["response"])
	assert.Equal(t, false, data["degraded"])
	assert.Equal(t, "neutral", data["sentiment"])
	assert.Len(t, backend.chats, 1)
}

func TestGetProgressEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	id := registerViaAPI(t, server)

	doRequest(t, server, http.MethodPost, "/api/v1/activities",
		fmt.Sprintf(`{"account_id":%q,"subject":"Math","time_spent":30,"problems_solved":3}`, id))

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/accounts/"+id+"/progress", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data := envelope.Data.(map[string]interface{})
	stats := data["subject_stats"].([]interface{})
	require.Len(t, stats, 1)
	first := stats[0].(map[string]interface{})
	assert.Equal(t, "Math", first["subject"])
	assert.Equal(t, float64(3), first["total_problems"])
}

func TestGetProgressEndpoint_UnknownAccount(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/accounts/nope/progress", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "account_not_found", envelope.Error.Code)
}

func TestLeaderboardEndpoint(t *testing.T) {
	server, _ := newTestServer(t)
	id := registerViaAPI(t, server)

	doRequest(t, server, http.MethodPost, "/api/v1/activities",
		fmt.Sprintf(`{"account_id":%q,"subject":"Math","time_spent":10,"problems_solved":2}`, id))

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/leaderboard?limit=5", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data := envelope.Data.(map[string]interface{})
	entries := data["entries"].([]interface{})
	require.Len(t, entries, 1)
	top := entries[0].(map[string]interface{})
	assert.Equal(t, float64(20), top["points"])
	assert.Equal(t, float64(1), top["rank"])
}

func TestListContentEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/content?language=English&grade=6&subject=Math", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data := envelope.Data.(map[string]interface{})
	items := data["items"].([]interface{})
	require.Len(t, items, 1)
	item := items[0].(map[string]interface{})
	assert.Equal(t, "Basic Algebra", item["title"])
}

func TestListContentEndpoint_RequiresLanguage(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/api/v1/content", "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "validation_failed", envelope.Error.Code)
}

func TestDownloadEndpoint(t *testing.T) {
	server, backend := newTestServer(t)

	rec, _ := doRequest(t, server, http.MethodPost, "/api/v1/content/item-1/download", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, 1, backend.items["item-1"].DownloadCount)

	rec, envelope := doRequest(t, server, http.MethodPost, "/api/v1/content/missing/download", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "item_not_found", envelope.Error.Code)
}

func TestHealthEndpoint(t *testing.T) {
	server, _ := newTestServer(t)

	rec, envelope := doRequest(t, server, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	data := envelope.Data.(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
}
