package services

import (
	"context"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

// --- Mock implementations ---

// mockEmbedder implements driven.EmbeddingService for testing. It produces
// a fixed-dimension vector derived from the text length so different texts
// get different vectors.
type mockEmbedder struct {
	dims       int
	embedErr   error
	pingErr    error
	failUntil  int // fail this many calls before succeeding
	embedCalls int
	batchSizes []int
}

func (m *mockEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	m.embedCalls++
	if m.embedErr != nil && (m.failUntil == 0 || m.embedCalls <= m.failUntil) {
		return nil, m.embedErr
	}
	return m.vector(text), nil
}

func (m *mockEmbedder) EmbedBatch(ctx context.Context, texts []string) ([][]float32, error) {
	m.batchSizes = append(m.batchSizes, len(texts))
	out := make([][]float32, len(texts))
	for i, t := range texts {
		v, err := m.Embed(ctx, t)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

func (m *mockEmbedder) vector(text string) []float32 {
	dims := m.dims
	if dims == 0 {
		dims = 3
	}
	v := make([]float32, dims)
	v[0] = float32(len(text))
	return v
}

func (m *mockEmbedder) Dimensions() int {
	if m.dims == 0 {
		return 3
	}
	return m.dims
}

func (m *mockEmbedder) ModelName() string { return "mock-embedder" }

func (m *mockEmbedder) Ping(_ context.Context) error { return m.pingErr }

func (m *mockEmbedder) Close() error { return nil }

// mockGenerator implements driven.GenerationService for testing.
type mockGenerator struct {
	answer    string
	genErr    error
	pingErr   error
	prompts   []string
	callCount int
	failUntil int // fail this many calls before succeeding
}

func (m *mockGenerator) Generate(_ context.Context, prompt string) (string, error) {
	m.callCount++
	m.prompts = append(m.prompts, prompt)
	if m.genErr != nil && (m.failUntil == 0 || m.callCount <= m.failUntil) {
		return "", m.genErr
	}
	return m.answer, nil
}

func (m *mockGenerator) ModelName() string { return "mock-generator" }

func (m *mockGenerator) Ping(_ context.Context) error { return m.pingErr }

func (m *mockGenerator) Close() error { return nil }

// mockVectorStore implements driven.VectorStore with injectable failures.
type mockVectorStore struct {
	results   []domain.ScoredChunk
	stats     domain.CollectionStats
	inserted  []domain.Chunk
	searchErr error
	insertErr error
	clearErr  error
	statsErr  error
	cleared   bool
	lastK     int
}

func (m *mockVectorStore) Insert(_ context.Context, chunks []domain.Chunk) (int, error) {
	if m.insertErr != nil {
		return 0, m.insertErr
	}
	m.inserted = append(m.inserted, chunks...)
	return len(chunks), nil
}

func (m *mockVectorStore) Search(_ context.Context, _ []float32, k int) ([]domain.ScoredChunk, error) {
	m.lastK = k
	if m.searchErr != nil {
		return nil, m.searchErr
	}
	if k < len(m.results) {
		return m.results[:k], nil
	}
	return m.results, nil
}

func (m *mockVectorStore) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	m.inserted = nil
	return nil
}

func (m *mockVectorStore) Stats(_ context.Context) (*domain.CollectionStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	stats := m.stats
	return &stats, nil
}

func (m *mockVectorStore) Close() error { return nil }
