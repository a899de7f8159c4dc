package driving

import (
	"context"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

// Admin exposes collection maintenance operations.
type Admin interface {
	// Stats reports the collection state, enriched with the embedding
	// model name.
	Stats(ctx context.Context) (*domain.CollectionStats, error)

	// Clear removes every record from the collection.
	Clear(ctx context.Context) error

	// Ping checks that the embedding and generation backends are
	// reachable, one status per backend.
	Ping(ctx context.Context) []domain.BackendStatus
}
