package driven

import (
	"context"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

// VectorStore is a durable collection of chunks with their embedding
// vectors, supporting brute-force similarity search.
//
// Concurrency contract: Insert and Clear serialize against each other and
// against Search within one collection, so a search never observes a
// partially inserted batch. Distinct collections are independent handles
// with independent locks.
type VectorStore interface {
	// Insert stores a batch of chunks atomically and returns the number
	// inserted. Every vector must match the collection's dimension;
	// a mismatch rejects the whole batch (ErrDimensionMismatch) and
	// persists nothing. Chunk IDs already present are upserted.
	Insert(ctx context.Context, chunks []domain.Chunk) (int, error)

	// Search returns up to k chunks ordered by descending cosine
	// similarity to the query vector. Scores equal within tolerance are
	// ordered by chunk ID ascending. An empty store yields an empty
	// result, not an error.
	Search(ctx context.Context, query []float32, k int) ([]domain.ScoredChunk, error)

	// Clear removes all records from the collection. Irreversible.
	// Searches already past the scan are unaffected.
	Clear(ctx context.Context) error

	// Stats reports the collection's name, size and dimension.
	Stats(ctx context.Context) (*domain.CollectionStats, error)

	// Close releases resources.
	Close() error
}
