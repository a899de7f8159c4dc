package driving

import (
	"context"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

// Answerer executes the question answering pipeline.
type Answerer interface {
	// Ask retrieves relevant passages, assembles a grounded prompt and
	// generates an answer. When generation fails, the returned answer
	// still carries the citations alongside the error.
	Ask(ctx context.Context, question string, opts domain.QueryOptions) (*domain.Answer, error)

	// Retrieve runs only the retrieval stage and returns the ranked
	// passages. An empty result is a valid outcome.
	Retrieve(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.ScoredChunk, error)
}
