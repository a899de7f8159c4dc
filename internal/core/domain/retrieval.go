package domain

// ScoredChunk pairs a stored chunk with its similarity to a query vector.
// Sequences of scored chunks are ordered by descending similarity; equal
// scores are broken by chunk ID ascending for determinism.
type ScoredChunk struct {
	// Chunk is the matched chunk.
	Chunk Chunk

	// Score is the cosine similarity between the chunk's embedding and
	// the query vector.
	Score float64
}

// Citation identifies the source passage that grounded part of an answer.
type Citation struct {
	// SourceID is the originating document.
	SourceID string `json:"source_id"`

	// Page is the page number, when known.
	Page *int `json:"page,omitempty"`

	// Excerpt is a short sample of the cited passage.
	Excerpt string `json:"excerpt"`
}

// QueryContext is the assembled prompt for the generator plus the citation
// for every passage included in it, in prompt order. It exists only for the
// duration of a single query.
type QueryContext struct {
	// Prompt is the full text sent to the generation service.
	Prompt string

	// Citations lists the sources included in the prompt, in order.
	Citations []Citation
}

// Answer is the outcome of a query: the generated text plus the sources
// that were supplied to the generator as grounding context.
type Answer struct {
	// Text is the generated answer. May be empty when generation failed
	// but retrieval succeeded.
	Text string `json:"answer"`

	// Sources lists the citations for the context passages, in the
	// order they appeared in the prompt.
	Sources []Citation `json:"sources"`
}

// QueryOptions configures a single query.
type QueryOptions struct {
	// K is the number of passages to retrieve. Zero means the
	// configured default; negative values are invalid.
	K int
}

// CollectionStats describes the state of a vector collection.
type CollectionStats struct {
	// TotalChunks is the number of stored chunks.
	TotalChunks int `json:"total_chunks"`

	// Collection is the collection name.
	Collection string `json:"collection"`

	// Dimension is the embedding dimension fixed for this collection.
	Dimension int `json:"dimension"`

	// EmbeddingModel is the model that produced the stored vectors.
	// Populated by the admin service, not the store itself.
	EmbeddingModel string `json:"embedding_model,omitempty"`
}

// BackendStatus reports the reachability of one external backend.
type BackendStatus struct {
	// Name labels the backend role, e.g. "embedding" or "generation".
	Name string

	// Model is the backend's configured model.
	Model string

	// Err is nil when the backend answered the reachability check.
	Err error
}

// IngestReport summarises an ingestion batch.
type IngestReport struct {
	// DocumentsProcessed is the number of documents successfully ingested.
	DocumentsProcessed int `json:"documents_processed"`

	// ChunksAdded is the total number of chunks stored.
	ChunksAdded int `json:"total_chunks_added"`

	// Failures records documents that could not be ingested. A failing
	// document never aborts the rest of the batch.
	Failures []DocumentFailure `json:"-"`
}

// DocumentFailure records why a single document was not ingested.
type DocumentFailure struct {
	// SourceID is the failing document.
	SourceID string

	// Err is the underlying failure.
	Err error
}
