package domain

import "errors"

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrInvalidInput indicates malformed or invalid input:
	// an empty question, a non-positive K, or a threshold outside [0,1].
	ErrInvalidInput = errors.New("invalid input")

	// ErrChunking indicates a single document's text could not be
	// chunked (e.g. not valid UTF-8). Local to that document; the rest
	// of an ingestion batch proceeds.
	ErrChunking = errors.New("chunking failed")

	// ErrEmbeddingService indicates the embedding backend was
	// unreachable, timed out, or returned malformed output. Fatal for
	// the operation in progress after retries are exhausted.
	ErrEmbeddingService = errors.New("embedding service failure")

	// ErrGenerationService indicates the generation backend failed.
	// Retrieval results computed before the failure remain valid.
	ErrGenerationService = errors.New("generation service failure")

	// ErrDimensionMismatch indicates a vector's dimension differs from
	// the collection's fixed dimension. Rejected at insert time; no
	// record from the offending batch is persisted.
	ErrDimensionMismatch = errors.New("embedding dimension mismatch")

	// ErrDuplicateChunk indicates a chunk ID collision where upsert
	// semantics are not defined.
	ErrDuplicateChunk = errors.New("duplicate chunk id")

	// ErrStoreUnavailable indicates a storage I/O failure, as opposed
	// to bad input.
	ErrStoreUnavailable = errors.New("vector store unavailable")
)
