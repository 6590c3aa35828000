package gemini

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ankit071105/Shiksha-Yatra/internal/application/command"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-key")
	cfg.BaseURL = server.URL
	cfg.MaxAttempts = 1 // retries are exercised separately

	client, err := NewClient(cfg)
	require.NoError(t, err)
	return client
}

func TestNewClient_RequiresAPIKey(t *testing.T) {
	_, err := NewClient(ClientConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestGenerateResponse(t *testing.T) {
	var gotPath string
	var gotBody generateRequest

	client := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"  A fraction is part of a whole.  "}]}}]}`))
	})

	text, err := client.GenerateResponse(context.Background(), "What is a fraction?", command.TutorStudentContext{
		Grade:    7,
		School:   "Govt High School",
		Language: "Hindi",
		Subject:  "Math",
	})
	require.NoError(t, err)

	assert.Equal(t, "A fraction is part of a whole.", text)
	assert.Equal(t, "/v1beta/models/gemini-1.5-flash:generateContent", gotPath)

	// The prompt carries the student context and the question.
	require.Len(t, gotBody.Contents, 1)
	require.Len(t, gotBody.Contents[0].Parts, 1)
	prompt := gotBody.Contents[0].Parts[0].Text
	assert.Contains(t, prompt, "grade 7")
	assert.Contains(t, prompt, "Govt High School")
	assert.Contains(t, prompt, "Hindi")
	assert.Contains(t, prompt, "Math")
	assert.Contains(t, prompt, "What is a fraction?")
}

func TestGenerateResponse_HTTPError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "quota exceeded", http.StatusTooManyRequests)
	})

	_, err := client.GenerateResponse(context.Background(), "hello", command.TutorStudentContext{Grade: 7})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateResponse_APIError(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"error":{"code":400,"message":"invalid request","status":"INVALID_ARGUMENT"}}`))
	})

	_, err := client.GenerateResponse(context.Background(), "hello", command.TutorStudentContext{Grade: 7})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateResponse_EmptyCandidates(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"candidates":[]}`))
	})

	_, err := client.GenerateResponse(context.Background(), "hello", command.TutorStudentContext{Grade: 7})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}

func TestGenerateResponse_RetriesTransientFailures(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		if attempts < 3 {
			http.Error(w, "upstream hiccup", http.StatusServiceUnavailable)
			return
		}
		_, _ = w.Write([]byte(`{"candidates":[{"content":{"parts":[{"text":"recovered"}]}}]}`))
	}))
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-key")
	cfg.BaseURL = server.URL
	cfg.RetryDelay = time.Millisecond

	client, err := NewClient(cfg)
	require.NoError(t, err)

	text, err := client.GenerateResponse(context.Background(), "hello", command.TutorStudentContext{Grade: 7})
	require.NoError(t, err)
	assert.Equal(t, "recovered", text)
	assert.Equal(t, 3, attempts)
}

func TestGenerateResponse_DoesNotRetryClientErrors(t *testing.T) {
	attempts := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		attempts++
		http.Error(w, "bad request", http.StatusBadRequest)
	}))
	t.Cleanup(server.Close)

	cfg := DefaultClientConfig("test-key")
	cfg.BaseURL = server.URL
	cfg.RetryDelay = time.Millisecond

	client, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = client.GenerateResponse(context.Background(), "hello", command.TutorStudentContext{Grade: 7})
	assert.ErrorIs(t, err, ErrGenerationFailed)
	assert.Equal(t, 1, attempts)
}

func TestGenerateResponse_MalformedJSON(t *testing.T) {
	client := testClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	_, err := client.GenerateResponse(context.Background(), "hello", command.TutorStudentContext{Grade: 7})
	assert.ErrorIs(t, err, ErrGenerationFailed)
}
