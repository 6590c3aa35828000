// Package gemini implements the AI-tutor client over the Gemini
// generateContent API. It builds a grade-aware tutoring prompt from the
// student context and returns the model's text; every failure surfaces
// as ErrGenerationFailed so callers can degrade to a fallback message.
package gemini

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/ankit071105/Shiksha-Yatra/internal/application/command"
	"github.com/ankit071105/Shiksha-Yatra/pkg/circuitbreaker"
	"github.com/ankit071105/Shiksha-Yatra/pkg/logger"
	"github.com/ankit071105/Shiksha-Yatra/pkg/retry"
)

// ══════════════════════════════════════════════════════════════════════════════
// CONFIGURATION
// ══════════════════════════════════════════════════════════════════════════════

// ClientConfig contains configuration for the Gemini API client.
type ClientConfig struct {
	// BaseURL is the generative API base URL.
	BaseURL string

	// APIKey authenticates requests.
	APIKey string

	// Model is the model name used for generation.
	Model string

	// Timeout is the HTTP request timeout.
	Timeout time.Duration

	// MaxAttempts caps retries on transient failures (including the
	// first attempt).
	MaxAttempts int

	// RetryDelay is the initial backoff delay between attempts.
	RetryDelay time.Duration

	// Logger for structured logging.
	Logger *logger.Logger
}

// DefaultClientConfig returns sensible defaults.
func DefaultClientConfig(apiKey string) ClientConfig {
	return ClientConfig{
		BaseURL:     "https://generativelanguage.googleapis.com",
		APIKey:      apiKey,
		Model:       "gemini-1.5-flash",
		Timeout:     30 * time.Second,
		MaxAttempts: 3,
		RetryDelay:  500 * time.Millisecond,
	}
}

// ══════════════════════════════════════════════════════════════════════════════
// ERRORS
// ══════════════════════════════════════════════════════════════════════════════

var (
	// ErrMissingAPIKey indicates the client was built without a key.
	ErrMissingAPIKey = errors.New("gemini: API key is required")

	// ErrGenerationFailed indicates the API call did not produce a response.
	ErrGenerationFailed = errors.New("gemini: generation failed")
)

// ══════════════════════════════════════════════════════════════════════════════
// CLIENT
// ══════════════════════════════════════════════════════════════════════════════

// Client is the Gemini API client. It implements command.TutorClient.
// Calls retry on transient failures and run behind a circuit breaker,
// so a dead upstream trips fast instead of making every student wait
// out the full timeout.
type Client struct {
	config     ClientConfig
	httpClient *http.Client
	retrier    *retry.Retrier
	breaker    *circuitbreaker.CircuitBreaker
	log        *logger.Logger
}

// NewClient creates a new Gemini API client.
func NewClient(config ClientConfig) (*Client, error) {
	if config.APIKey == "" {
		return nil, ErrMissingAPIKey
	}
	if config.BaseURL == "" {
		config.BaseURL = DefaultClientConfig("").BaseURL
	}
	if config.Model == "" {
		config.Model = DefaultClientConfig("").Model
	}
	if config.Timeout <= 0 {
		config.Timeout = 30 * time.Second
	}
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = 3
	}
	if config.RetryDelay <= 0 {
		config.RetryDelay = 500 * time.Millisecond
	}
	if config.Logger == nil {
		config.Logger = logger.Default()
	}

	log := config.Logger.With(logger.Component("gemini_client"))

	return &Client{
		config: config,
		httpClient: &http.Client{
			Timeout: config.Timeout,
		},
		retrier: retry.New(
			retry.WithMaxAttempts(config.MaxAttempts),
			retry.WithInitialDelay(config.RetryDelay),
			retry.WithMaxDelay(10*time.Second),
			retry.WithJitter(0.2),
		),
		breaker: circuitbreaker.TutorAPIBreaker(func(name string, from, to circuitbreaker.State) {
			log.Warn("circuit breaker state changed",
				logger.String("breaker", name),
				logger.String("from", from.String()),
				logger.String("to", to.String()),
			)
		}),
		log: log,
	}, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Wire DTOs
// ─────────────────────────────────────────────────────────────────────────────

type generateRequest struct {
	Contents []content `json:"contents"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

type generateResponse struct {
	Candidates []struct {
		Content struct {
			Parts []part `json:"parts"`
		} `json:"content"`
	} `json:"candidates"`
	Error *struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error,omitempty"`
}

// ─────────────────────────────────────────────────────────────────────────────
// Generation
// ─────────────────────────────────────────────────────────────────────────────

// GenerateResponse asks the model for a tutoring reply to the student's
// message.
func (c *Client) GenerateResponse(ctx context.Context, message string, student command.TutorStudentContext) (string, error) {
	prompt := buildPrompt(message, student)

	reqBody := generateRequest{
		Contents: []content{
			{Parts: []part{{Text: prompt}}},
		},
	}

	data, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("%w: marshal request: %v", ErrGenerationFailed, err)
	}

	endpoint := fmt.Sprintf("%s/v1beta/models/%s:generateContent?key=%s",
		c.config.BaseURL,
		url.PathEscape(c.config.Model),
		url.QueryEscape(c.config.APIKey),
	)

	start := time.Now()

	var text string
	err = c.breaker.Execute(ctx, func(ctx context.Context) error {
		return c.retrier.Do(ctx, func(ctx context.Context) error {
			t, genErr := c.generate(ctx, endpoint, data)
			if genErr != nil {
				return genErr
			}
			text = t
			return nil
		})
	})
	if err != nil {
		if errors.Is(err, circuitbreaker.ErrCircuitOpen) || errors.Is(err, circuitbreaker.ErrTooManyRequests) {
			return "", fmt.Errorf("%w: upstream circuit open", ErrGenerationFailed)
		}
		return "", err
	}

	c.log.Debug("generated tutor response",
		logger.Latency(time.Since(start)),
		logger.Int("response_chars", len(text)),
	)

	return text, nil
}

// generate performs one API call. Network errors and throttled or
// server-side statuses come back as retryable; everything else is
// permanent.
func (c *Client) generate(ctx context.Context, endpoint string, body []byte) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return "", retry.Permanent(fmt.Errorf("%w: create request: %v", ErrGenerationFailed, err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("%w: execute request: %v", ErrGenerationFailed, err))
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", retry.Retryable(fmt.Errorf("%w: read response: %v", ErrGenerationFailed, err))
	}

	if resp.StatusCode != http.StatusOK {
		wrapped := fmt.Errorf("%w: status %d: %s", ErrGenerationFailed, resp.StatusCode, string(respBody))
		if resp.StatusCode == http.StatusTooManyRequests || resp.StatusCode >= http.StatusInternalServerError {
			return "", retry.Retryable(wrapped)
		}
		return "", retry.Permanent(wrapped)
	}

	var genResp generateResponse
	if err := json.Unmarshal(respBody, &genResp); err != nil {
		return "", retry.Permanent(fmt.Errorf("%w: parse response: %v", ErrGenerationFailed, err))
	}

	if genResp.Error != nil {
		return "", retry.Permanent(fmt.Errorf("%w: api error %d: %s", ErrGenerationFailed, genResp.Error.Code, genResp.Error.Message))
	}

	text := extractText(genResp)
	if text == "" {
		return "", retry.Permanent(fmt.Errorf("%w: empty candidate set", ErrGenerationFailed))
	}

	return text, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// Helpers
// ─────────────────────────────────────────────────────────────────────────────

// buildPrompt frames the student's question for the model. The tutor
// stays encouraging, matches the student's grade level, and answers in
// their preferred language.
func buildPrompt(message string, student command.TutorStudentContext) string {
	var b strings.Builder

	b.WriteString("You are a friendly AI tutor for a rural school student. ")
	fmt.Fprintf(&b, "The student is in grade %d", student.Grade)
	if student.School != "" {
		fmt.Fprintf(&b, " at %s", student.School)
	}
	b.WriteString(". ")
	if student.Subject != "" {
		fmt.Fprintf(&b, "The question is about %s. ", student.Subject)
	}
	if student.Language != "" {
		fmt.Fprintf(&b, "Answer in %s. ", student.Language)
	}
	b.WriteString("Keep the explanation simple, encouraging, and suited to the student's grade level.\n\n")
	b.WriteString("Student's question: ")
	b.WriteString(message)

	return b.String()
}

// extractText returns the first non-empty candidate text.
func extractText(resp generateResponse) string {
	for _, cand := range resp.Candidates {
		for _, p := range cand.Content.Parts {
			if strings.TrimSpace(p.Text) != "" {
				return strings.TrimSpace(p.Text)
			}
		}
	}
	return ""
}
