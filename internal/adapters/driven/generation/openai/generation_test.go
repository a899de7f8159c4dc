package openai

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

func TestNewGenerationService(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewGenerationService(Config{})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := NewGenerationService(Config{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
		assert.Equal(t, 0.0, svc.temperature)
	})
}

func TestGenerationService_Generate(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/chat/completions", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var req chatCompletionRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			require.Len(t, req.Messages, 1)
			assert.Equal(t, "user", req.Messages[0].Role)
			assert.Equal(t, 0.0, req.Temperature)

			_, _ = w.Write([]byte(`{"choices": [{"message": {"content": "Paris."}, "finish_reason": "stop"}]}`))
		}))
		defer server.Close()

		svc, err := NewGenerationService(Config{APIKey: "sk-test", BaseURL: server.URL})
		require.NoError(t, err)

		answer, err := svc.Generate(context.Background(), "What is the capital of France?")
		require.NoError(t, err)
		assert.Equal(t, "Paris.", answer)
	})

	t.Run("api error maps to generation service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`{"error": {"message": "rate limit exceeded", "type": "rate_limit_error"}}`))
		}))
		defer server.Close()

		svc, err := NewGenerationService(Config{APIKey: "sk-test", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.Generate(context.Background(), "prompt")
		assert.True(t, errors.Is(err, domain.ErrGenerationService))
		assert.Contains(t, err.Error(), "rate limit exceeded")
	})

	t.Run("no choices maps to generation service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"choices": []}`))
		}))
		defer server.Close()

		svc, err := NewGenerationService(Config{APIKey: "sk-test", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.Generate(context.Background(), "prompt")
		assert.True(t, errors.Is(err, domain.ErrGenerationService))
	})

	t.Run("network error maps to generation service error", func(t *testing.T) {
		svc, err := NewGenerationService(Config{APIKey: "sk-test", BaseURL: "http://localhost:1"})
		require.NoError(t, err)

		_, err = svc.Generate(context.Background(), "prompt")
		assert.True(t, errors.Is(err, domain.ErrGenerationService))
	})
}

func TestGenerationService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewGenerationService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}
