// Package memory provides an in-memory vector store with brute-force
// cosine similarity search. It shares the sqlite adapter's semantics
// without persistence and backs the service-level tests.
package memory

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
)

// Ensure Store implements the interface.
var _ driven.VectorStore = (*Store)(nil)

// scoreTolerance is the band within which two similarity scores are
// considered equal and ordered by chunk ID instead.
const scoreTolerance = 1e-9

// Store is an in-memory vector store. A single RWMutex serializes
// insert/clear against search, matching the persistent adapter.
type Store struct {
	mu         sync.RWMutex
	collection string
	dimension  int
	records    map[string]domain.Chunk
}

// NewStore creates an empty in-memory store for the given collection.
func NewStore(collection string, dimension int) (*Store, error) {
	if collection == "" {
		return nil, fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}
	if dimension <= 0 {
		return nil, fmt.Errorf("%w: dimension must be positive", domain.ErrInvalidInput)
	}
	return &Store{
		collection: collection,
		dimension:  dimension,
		records:    make(map[string]domain.Chunk),
	}, nil
}

// Insert stores a batch of chunks atomically. The batch is validated in
// full before anything is written, so a dimension mismatch anywhere
// rejects the whole batch. Existing chunk IDs are upserted.
func (s *Store) Insert(_ context.Context, chunks []domain.Chunk) (int, error) {
	for _, c := range chunks {
		if c.ID == "" {
			return 0, fmt.Errorf("%w: chunk without id", domain.ErrInvalidInput)
		}
		if len(c.Embedding) != s.dimension {
			return 0, fmt.Errorf("%w: chunk %s has dimension %d, collection expects %d",
				domain.ErrDimensionMismatch, c.ID, len(c.Embedding), s.dimension)
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range chunks {
		s.records[c.ID] = c
	}
	return len(chunks), nil
}

// Search returns up to k chunks by descending cosine similarity.
func (s *Store) Search(_ context.Context, query []float32, k int) ([]domain.ScoredChunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("%w: k must be positive", domain.ErrInvalidInput)
	}
	if len(query) != s.dimension {
		return nil, fmt.Errorf("%w: query has dimension %d, collection expects %d",
			domain.ErrDimensionMismatch, len(query), s.dimension)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	scored := make([]domain.ScoredChunk, 0, len(s.records))
	for _, c := range s.records {
		scored = append(scored, domain.ScoredChunk{
			Chunk: c,
			Score: cosineSimilarity(query, c.Embedding),
		})
	}

	sort.Slice(scored, func(i, j int) bool {
		if math.Abs(scored[i].Score-scored[j].Score) <= scoreTolerance {
			return scored[i].Chunk.ID < scored[j].Chunk.ID
		}
		return scored[i].Score > scored[j].Score
	})

	if k < len(scored) {
		scored = scored[:k]
	}
	return scored, nil
}

// Clear removes all records.
func (s *Store) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]domain.Chunk)
	return nil
}

// Stats reports the collection state.
func (s *Store) Stats(_ context.Context) (*domain.CollectionStats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return &domain.CollectionStats{
		TotalChunks: len(s.records),
		Collection:  s.collection,
		Dimension:   s.dimension,
	}, nil
}

// Close releases resources.
func (s *Store) Close() error {
	return nil
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// A zero vector yields 0.
func cosineSimilarity(a, b []float32) float64 {
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
