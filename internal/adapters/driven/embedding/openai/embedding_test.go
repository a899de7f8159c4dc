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

func TestNewEmbeddingService(t *testing.T) {
	t.Run("requires api key", func(t *testing.T) {
		_, err := NewEmbeddingService(Config{})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})

	t.Run("defaults", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test"})
		require.NoError(t, err)
		assert.Equal(t, DefaultModel, svc.ModelName())
		assert.Equal(t, 1536, svc.Dimensions())
	})

	t.Run("model dimensions", func(t *testing.T) {
		testCases := []struct {
			model      string
			dimensions int
		}{
			{"text-embedding-3-small", 1536},
			{"text-embedding-3-large", 3072},
			{"text-embedding-ada-002", 1536},
			{"unknown-model", 1536},
		}
		for _, tc := range testCases {
			t.Run(tc.model, func(t *testing.T) {
				svc, err := NewEmbeddingService(Config{APIKey: "sk-test", Model: tc.model})
				require.NoError(t, err)
				assert.Equal(t, tc.dimensions, svc.Dimensions())
			})
		}
	})
}

func TestEmbeddingService_EmbedBatch(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/embeddings", r.URL.Path)
			assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))

			var req embeddingRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
			assert.Equal(t, []string{"hello", "world"}, req.Input)

			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(`{
				"data": [
					{"embedding": [0.4, 0.5, 0.6], "index": 1},
					{"embedding": [0.1, 0.2, 0.3], "index": 0}
				]
			}`))
		}))
		defer server.Close()

		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL, Dimensions: 3})
		require.NoError(t, err)

		embeddings, err := svc.EmbedBatch(context.Background(), []string{"hello", "world"})
		require.NoError(t, err)
		require.Len(t, embeddings, 2)

		// Out-of-order response data is reassembled by index.
		assert.Equal(t, []float32{0.1, 0.2, 0.3}, embeddings[0])
		assert.Equal(t, []float32{0.4, 0.5, 0.6}, embeddings[1])
	})

	t.Run("empty input", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test"})
		require.NoError(t, err)

		embeddings, err := svc.EmbedBatch(context.Background(), nil)
		assert.NoError(t, err)
		assert.Nil(t, embeddings)
	})

	t.Run("api error maps to embedding service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"error": {"message": "invalid api key", "type": "invalid_request_error"}}`))
		}))
		defer server.Close()

		svc, err := NewEmbeddingService(Config{APIKey: "sk-bad", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"hello"})
		assert.True(t, errors.Is(err, domain.ErrEmbeddingService))
		assert.Contains(t, err.Error(), "invalid api key")
	})

	t.Run("invalid json maps to embedding service error", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte("not json"))
		}))
		defer server.Close()

		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"hello"})
		assert.True(t, errors.Is(err, domain.ErrEmbeddingService))
	})

	t.Run("unexpected dimension rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2], "index": 0}]}`))
		}))
		defer server.Close()

		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL, Dimensions: 3})
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"hello"})
		assert.True(t, errors.Is(err, domain.ErrEmbeddingService))
	})

	t.Run("out of range index rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2, 0.3], "index": 5}]}`))
		}))
		defer server.Close()

		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL, Dimensions: 3})
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"hello"})
		assert.True(t, errors.Is(err, domain.ErrEmbeddingService))
		assert.Contains(t, err.Error(), "index 5")
	})

	t.Run("missing data entry rejected", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2, 0.3], "index": 0}]}`))
		}))
		defer server.Close()

		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL, Dimensions: 3})
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"hello", "world"})
		assert.True(t, errors.Is(err, domain.ErrEmbeddingService))
		assert.Contains(t, err.Error(), "no embedding for input 1")
	})

	t.Run("network error maps to embedding service error", func(t *testing.T) {
		svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: "http://localhost:1"})
		require.NoError(t, err)

		_, err = svc.EmbedBatch(context.Background(), []string{"hello"})
		assert.True(t, errors.Is(err, domain.ErrEmbeddingService))
	})
}

func TestEmbeddingService_Embed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": [{"embedding": [0.1, 0.2, 0.3], "index": 0}]}`))
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL, Dimensions: 3})
	require.NoError(t, err)

	embedding, err := svc.Embed(context.Background(), "test query")
	require.NoError(t, err)
	assert.Len(t, embedding, 3)
}

func TestEmbeddingService_Ping(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/models", r.URL.Path)
		assert.Equal(t, "Bearer sk-test", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	svc, err := NewEmbeddingService(Config{APIKey: "sk-test", BaseURL: server.URL})
	require.NoError(t, err)
	assert.NoError(t, svc.Ping(context.Background()))
}
