package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/ankit071105/Shiksha-Yatra/internal/application/command"
	"github.com/ankit071105/Shiksha-Yatra/internal/application/query"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/account"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/achievement"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/catalog"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/progress"
	"github.com/ankit071105/Shiksha-Yatra/internal/domain/shared"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
)

// ══════════════════════════════════════════════════════════════════════════════
// REQUEST / RESPONSE DTOs
// ══════════════════════════════════════════════════════════════════════════════

type registerRequest struct {
	Username          string `json:"username"`
	Password          string `json:"password"`
	DisplayName       string `json:"display_name"`
	Grade             int    `json:"grade"`
	School            string `json:"school"`
	PreferredLanguage string `json:"preferred_language"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type activityRequest struct {
	AccountID      string `json:"account_id"`
	Subject        string `json:"subject"`
	TimeSpent      int    `json:"time_spent"`
	ProblemsSolved int    `json:"problems_solved"`
}

type chatRequest struct {
	AccountID string `json:"account_id"`
	Message   string `json:"message"`
	Subject   string `json:"subject,omitempty"`
}

type gameRequest struct {
	AccountID string `json:"account_id"`
	GameName  string `json:"game_name"`
	Score     int    `json:"score"`
	Subject   string `json:"subject,omitempty"`
}

type accountDTO struct {
	ID                string    `json:"id"`
	Username          string    `json:"username"`
	DisplayName       string    `json:"display_name"`
	Grade             int       `json:"grade"`
	School            string    `json:"school,omitempty"`
	PreferredLanguage string    `json:"preferred_language"`
	Avatar            string    `json:"avatar"`
	Points            int       `json:"points"`
	CreatedAt         time.Time `json:"created_at"`
}

type badgeDTO struct {
	Name        string    `json:"name"`
	Description string    `json:"description"`
	EarnedAt    time.Time `json:"earned_at"`
}

type subjectStatsDTO struct {
	Subject       string `json:"subject"`
	TotalTime     int    `json:"total_time"`
	TotalProblems int    `json:"total_problems"`
}

type chatTurnDTO struct {
	Message    string    `json:"message"`
	Response   string    `json:"response"`
	Subject    string    `json:"subject,omitempty"`
	Sentiment  string    `json:"sentiment"`
	RecordedAt time.Time `json:"recorded_at"`
}

type gameResultDTO struct {
	GameName   string    `json:"game_name"`
	Score      int       `json:"score"`
	Subject    string    `json:"subject,omitempty"`
	RecordedAt time.Time `json:"recorded_at"`
}

type catalogItemDTO struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Subject       string `json:"subject"`
	ContentType   string `json:"content_type"`
	PayloadRef    string `json:"payload_ref"`
	GradeLevel    int    `json:"grade_level"`
	Language      string `json:"language"`
	DownloadCount int    `json:"download_count"`
}

func toAccountDTO(a *account.Account) accountDTO {
	return accountDTO{
		ID:                a.ID,
		Username:          a.Username.String(),
		DisplayName:       a.DisplayName,
		Grade:             int(a.Grade),
		School:            a.School,
		PreferredLanguage: a.PreferredLanguage.String(),
		Avatar:            a.Avatar,
		Points:            int(a.Points),
		CreatedAt:         a.CreatedAt,
	}
}

func toBadgeDTOs(badges []achievement.Badge) []badgeDTO {
	out := make([]badgeDTO, 0, len(badges))
	for _, b := range badges {
		out = append(out, badgeDTO{
			Name:        b.Name,
			Description: b.Description,
			EarnedAt:    b.EarnedAt,
		})
	}
	return out
}

func toCatalogItemDTOs(items []catalog.Item) []catalogItemDTO {
	out := make([]catalogItemDTO, 0, len(items))
	for _, item := range items {
		out = append(out, catalogItemDTO{
			ID:            item.ID,
			Title:         item.Title,
			Subject:       item.Subject,
			ContentType:   item.ContentType,
			PayloadRef:    item.PayloadRef,
			GradeLevel:    item.GradeLevel,
			Language:      item.Language,
			DownloadCount: item.DownloadCount,
		})
	}
	return out
}

// ══════════════════════════════════════════════════════════════════════════════
// HEALTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleHealth reports the health of the service and its dependencies.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
	defer cancel()

	checks := map[string]string{}
	healthy := true

	if s.deps.Database != nil {
		if err := s.deps.Database.Ping(ctx); err != nil {
			checks["database"] = "unhealthy"
			healthy = false
		} else {
			checks["database"] = "healthy"
		}
	}

	if s.deps.Cache != nil {
		if err := s.deps.Cache.Ping(ctx); err != nil {
			// A dead cache degrades reads but the service still works.
			checks["cache"] = "unhealthy"
		} else {
			checks["cache"] = "healthy"
		}
	}

	status := http.StatusOK
	overall := "healthy"
	if !healthy {
		status = http.StatusServiceUnavailable
		overall = "unhealthy"
	}

	writeJSON(w, status, map[string]interface{}{
		"status":  overall,
		"uptime":  s.Uptime().String(),
		"checks":  checks,
		"version": "v1",
	})
}

// handleLive is a trivial liveness probe.
func (s *Server) handleLive(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// ══════════════════════════════════════════════════════════════════════════════
// AUTH HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRegister creates a new account with its starter badge.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RegisterAccountHandler.Handle(r.Context(), command.RegisterAccountCommand{
		Username:          req.Username,
		Password:          req.Password,
		DisplayName:       req.DisplayName,
		Grade:             req.Grade,
		School:            req.School,
		PreferredLanguage: req.PreferredLanguage,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"account": toAccountDTO(result.Account),
		"badges":  toBadgeDTOs([]achievement.Badge{*result.StarterBadge}),
	})
}

// handleLogin verifies credentials and returns the account.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AuthenticateHandler.Handle(r.Context(), query.AuthenticateQuery{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account": toAccountDTO(result.Account),
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// PROGRESS HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleRecordActivity records a study session and credits points.
func (s *Server) handleRecordActivity(w http.ResponseWriter, r *http.Request) {
	var req activityRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordActivityHandler.Handle(r.Context(), command.RecordActivityCommand{
		AccountID:      req.AccountID,
		Subject:        req.Subject,
		TimeSpent:      req.TimeSpent,
		ProblemsSolved: req.ProblemsSolved,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"points_awarded": result.PointsAwarded,
		"new_badges":     toBadgeDTOs(result.NewBadges),
		"recorded_at":    result.RecordedAt,
	})
}

// handleChat asks the AI tutor and records the exchange. A tutor outage
// is not an error: the response carries the fallback message and the
// turn is recorded all the same, so the status stays 200.
func (s *Server) handleChat(w http.ResponseWriter, r *http.Request) {
	var req chatRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.AskTutorHandler.Handle(r.Context(), command.AskTutorCommand{
		AccountID: req.AccountID,
		Message:   req.Message,
		Subject:   req.Subject,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"response":   result.Response,
		"sentiment":  string(result.Turn.Sentiment),
		"degraded":   result.Degraded,
		"new_badges": result.NewBadges,
	})
}

// handleRecordGame records a finished game play.
func (s *Server) handleRecordGame(w http.ResponseWriter, r *http.Request) {
	var req gameRequest
	if !decodeBody(w, r, &req) {
		return
	}

	result, err := s.deps.RecordGameHandler.Handle(r.Context(), command.RecordGameCommand{
		AccountID: req.AccountID,
		GameName:  req.GameName,
		Score:     req.Score,
		Subject:   req.Subject,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]interface{}{
		"points_awarded": result.PointsAwarded,
		"new_badges":     toBadgeDTOs(result.NewBadges),
		"recorded_at":    result.RecordedAt,
	})
}

// handleGetProgress returns the dashboard projection for one account.
func (s *Server) handleGetProgress(w http.ResponseWriter, r *http.Request) {
	accountID := r.PathValue("id")

	result, err := s.deps.GetProgressHandler.Handle(r.Context(), query.GetProgressQuery{
		AccountID: accountID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	stats := make([]subjectStatsDTO, 0, len(result.SubjectStats))
	for _, st := range result.SubjectStats {
		stats = append(stats, subjectStatsDTO{
			Subject:       st.Subject,
			TotalTime:     st.TotalTime,
			TotalProblems: st.TotalProblems,
		})
	}

	chats := make([]chatTurnDTO, 0, len(result.ChatHistory))
	for _, t := range result.ChatHistory {
		chats = append(chats, chatTurnDTO{
			Message:    t.Message,
			Response:   t.Response,
			Subject:    t.Subject,
			Sentiment:  string(t.Sentiment),
			RecordedAt: t.RecordedAt,
		})
	}

	games := make([]gameResultDTO, 0, len(result.GameScores))
	for _, g := range result.GameScores {
		games = append(games, gameResultDTO{
			GameName:   g.GameName,
			Score:      g.Score,
			Subject:    g.Subject,
			RecordedAt: g.RecordedAt,
		})
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"account":       toAccountDTO(result.Account),
		"subject_stats": stats,
		"badges":        toBadgeDTOs(result.Badges),
		"chat_history":  chats,
		"game_scores":   games,
	})
}

// ══════════════════════════════════════════════════════════════════════════════
// LEADERBOARD & CONTENT HANDLERS
// ══════════════════════════════════════════════════════════════════════════════

// handleGetLeaderboard returns the ranked top accounts.
func (s *Server) handleGetLeaderboard(w http.ResponseWriter, r *http.Request) {
	limit := getQueryParamInt(r, "limit", 0)

	result, err := s.deps.GetLeaderboardHandler.Handle(r.Context(), query.GetLeaderboardQuery{
		Limit: limit,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"entries": result.Entries,
	})
}

// handleListContent returns catalog items matching the filters.
// Language is required; grade and subject are optional.
func (s *Server) handleListContent(w http.ResponseWriter, r *http.Request) {
	q := query.ListContentQuery{
		Language: r.URL.Query().Get("language"),
		Grade:    getQueryParamInt(r, "grade", 0),
		Subject:  r.URL.Query().Get("subject"),
	}

	result, err := s.deps.ListContentHandler.Handle(r.Context(), q)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"items": toCatalogItemDTOs(result.Items),
	})
}

// handleRecordDownload bumps a catalog item's download counter.
func (s *Server) handleRecordDownload(w http.ResponseWriter, r *http.Request) {
	itemID := r.PathValue("id")

	err := s.deps.RecordDownloadHandler.Handle(r.Context(), command.RecordDownloadCommand{
		ItemID: itemID,
	})
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"status": "recorded"})
}

// ══════════════════════════════════════════════════════════════════════════════
// ERROR MAPPING
// ══════════════════════════════════════════════════════════════════════════════

// decodeBody decodes a JSON request body, writing a 400 on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, dest interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		writeJSONError(w, http.StatusBadRequest, "invalid_body", "Request body must be valid JSON")
		return false
	}
	return true
}

// writeDomainError maps domain errors to HTTP status codes.
func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, account.ErrAccountAlreadyExists):
		writeJSONError(w, http.StatusConflict, "username_taken", "Username already exists")

	case errors.Is(err, shared.ErrBadCredentials):
		writeJSONError(w, http.StatusUnauthorized, "bad_credentials", "Invalid username or password")

	case errors.Is(err, account.ErrAccountNotFound):
		writeJSONError(w, http.StatusNotFound, "account_not_found", "Account not found")

	case errors.Is(err, catalog.ErrItemNotFound):
		writeJSONError(w, http.StatusNotFound, "item_not_found", "Content item not found")

	case isValidationError(err):
		writeJSONError(w, http.StatusBadRequest, "validation_failed", err.Error())

	default:
		s.logger.Error("request failed", logger.Err(err))
		writeJSONError(w, http.StatusInternalServerError, "internal_server_error", "An unexpected error occurred")
	}
}

// isValidationError reports whether the error is one of the domain
// validation sentinels.
func isValidationError(err error) bool {
	validation := []error{
		account.ErrInvalidUsername,
		account.ErrInvalidGrade,
		account.ErrInvalidDisplayName,
		account.ErrInvalidLanguage,
		account.ErrWeakPassword,
		progress.ErrInvalidAccountID,
		progress.ErrInvalidSubject,
		progress.ErrNegativeTime,
		progress.ErrNegativeProblems,
		progress.ErrNegativeScore,
		progress.ErrEmptyMessage,
		progress.ErrInvalidGameName,
		catalog.ErrInvalidLanguage,
	}
	for _, v := range validation {
		if errors.Is(err, v) {
			return true
		}
	}
	return false
}
