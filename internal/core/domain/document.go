package domain

import "time"

// SourceText is an externally supplied unit of text to ingest.
// Extraction from container formats (PDF, DOCX, Markdown) happens at the
// boundary; the core only ever sees the extracted text and its identifier.
type SourceText struct {
	// SourceID uniquely identifies the originating document,
	// typically a file name.
	SourceID string

	// Text is the full extracted text content before chunking.
	Text string

	// Page is the page number this text was extracted from, when the
	// boundary loader works page by page. Nil when pages don't apply.
	Page *int
}

// Chunk represents a contiguous segment of a document's text together with
// its embedding vector. Chunks are the unit of storage and retrieval.
// Chunks are immutable once ingested and removed only when the collection
// is cleared or their document is re-ingested.
type Chunk struct {
	// ID is the unique identifier for the chunk within the collection.
	ID string

	// SourceID links to the originating document.
	SourceID string

	// Content is the text content of this chunk. Its length never
	// exceeds the configured chunk size.
	Content string

	// Position is the ordinal position among chunks of the same document.
	Position int

	// StartOffset is the offset (in runes) of Content within the
	// document text. Offsets of consecutive chunks strictly increase.
	StartOffset int

	// Page is the page number in the original document, when known.
	Page *int

	// Embedding is the vector representation for similarity search.
	// Its dimension is fixed per collection.
	Embedding []float32

	// Metadata contains chunk-specific key-value pairs.
	Metadata map[string]any

	// CreatedAt is when the chunk was ingested.
	CreatedAt time.Time
}
