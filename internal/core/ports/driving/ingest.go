package driving

import (
	"context"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

// Ingestor adds documents to the knowledge base.
type Ingestor interface {
	// Ingest chunks, embeds and stores the given documents. Individual
	// document failures are recorded in the report without aborting the
	// batch; an error is returned only when no document succeeds.
	Ingest(ctx context.Context, sources []domain.SourceText) (*domain.IngestReport, error)
}
