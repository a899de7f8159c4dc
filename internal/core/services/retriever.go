package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

// DefaultTopK is the number of passages retrieved when the caller does not
// ask for a specific K.
const DefaultTopK = 3

// Retriever turns a question into a ranked list of relevant chunks.
type Retriever struct {
	embedder  driven.EmbeddingService
	store     driven.VectorStore
	defaultK  int
	threshold *float64
	retry     retryPolicy
}

// RetrieverOption configures a Retriever.
type RetrieverOption func(*Retriever)

// WithDefaultK sets the K used when a query does not specify one.
func WithDefaultK(k int) RetrieverOption {
	return func(r *Retriever) {
		if k > 0 {
			r.defaultK = k
		}
	}
}

// WithThreshold drops results whose similarity falls below min, even when
// they are within the top K.
func WithThreshold(min float64) RetrieverOption {
	return func(r *Retriever) {
		r.threshold = &min
	}
}

// NewRetriever creates a new retriever.
func NewRetriever(embedder driven.EmbeddingService, store driven.VectorStore, opts ...RetrieverOption) *Retriever {
	r := &Retriever{
		embedder: embedder,
		store:    store,
		defaultK: DefaultTopK,
		retry:    defaultRetryPolicy(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Retrieve embeds the question, searches the store and applies the optional
// similarity threshold. An empty result is a valid outcome, not an error.
func (r *Retriever) Retrieve(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.ScoredChunk, error) {
	logger.Section("Retrieval")

	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is empty", domain.ErrInvalidInput)
	}

	k := opts.K
	switch {
	case k == 0:
		k = r.defaultK
	case k < 0:
		return nil, fmt.Errorf("%w: k must be positive, got %d", domain.ErrInvalidInput, opts.K)
	}
	logger.Debug("Question: %q, k=%d", question, k)

	var query []float32
	err := r.retry.do(ctx, func() error {
		var embedErr error
		query, embedErr = r.embedder.Embed(ctx, question)
		return embedErr
	})
	if err != nil {
		return nil, fmt.Errorf("embedding question: %w", err)
	}

	results, err := r.store.Search(ctx, query, k)
	if err != nil {
		return nil, fmt.Errorf("searching collection: %w", err)
	}
	logger.Debug("Search returned %d result(s)", len(results))

	if r.threshold != nil {
		filtered := results[:0]
		for _, sc := range results {
			if sc.Score >= *r.threshold {
				filtered = append(filtered, sc)
			}
		}
		if len(filtered) < len(results) {
			logger.Debug("Threshold %.3f dropped %d result(s)", *r.threshold, len(results)-len(filtered))
		}
		results = filtered
	}

	return results, nil
}
