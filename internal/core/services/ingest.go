package services

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/custodia-labs/aska-cli/internal/chunker"
	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driving"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

// Ensure IngestService implements the interface.
var _ driving.Ingestor = (*IngestService)(nil)

// chunkNamespace is the UUID namespace for deterministic chunk IDs, so
// re-ingesting the same document upserts its chunks instead of duplicating.
var chunkNamespace = uuid.MustParse("7c9e6679-7425-40de-944b-e07fc1f90ae7")

// IngestService turns documents into stored, searchable chunks.
type IngestService struct {
	splitter *chunker.Splitter
	embedder driven.EmbeddingService
	store    driven.VectorStore
	retry    retryPolicy
}

// NewIngestService creates a new ingest service.
func NewIngestService(
	splitter *chunker.Splitter,
	embedder driven.EmbeddingService,
	store driven.VectorStore,
) *IngestService {
	return &IngestService{
		splitter: splitter,
		embedder: embedder,
		store:    store,
		retry:    defaultRetryPolicy(),
	}
}

// Ingest chunks, embeds and stores the given documents. Each document is
// embedded in full before its single atomic insert, so a failing document
// never leaves partial chunks behind and never aborts the rest of the batch.
func (s *IngestService) Ingest(ctx context.Context, sources []domain.SourceText) (*domain.IngestReport, error) {
	logger.Section("Ingestion")
	logger.Info("Ingesting %d document(s)", len(sources))

	report := &domain.IngestReport{}

	for _, src := range sources {
		if err := ctx.Err(); err != nil {
			return report, err
		}

		added, err := s.ingestOne(ctx, src)
		if err != nil {
			logger.Warn("Document %s failed: %v", src.SourceID, err)
			report.Failures = append(report.Failures, domain.DocumentFailure{
				SourceID: src.SourceID,
				Err:      err,
			})
			continue
		}

		report.DocumentsProcessed++
		report.ChunksAdded += added
	}

	if report.DocumentsProcessed == 0 && len(report.Failures) > 0 {
		return report, fmt.Errorf("no document could be ingested: %w", report.Failures[0].Err)
	}

	logger.Info("Ingested %d document(s), %d chunk(s)", report.DocumentsProcessed, report.ChunksAdded)
	return report, nil
}

// ingestOne processes a single document and returns the number of chunks
// stored.
func (s *IngestService) ingestOne(ctx context.Context, src domain.SourceText) (int, error) {
	if src.SourceID == "" {
		return 0, fmt.Errorf("%w: document without source id", domain.ErrInvalidInput)
	}

	pieces := s.splitter.Split(src.Text)
	if len(pieces) == 0 {
		logger.Debug("Document %s is empty, nothing to store", src.SourceID)
		return 0, nil
	}
	logger.Debug("Document %s split into %d chunk(s)", src.SourceID, len(pieces))

	texts := make([]string, len(pieces))
	for i, p := range pieces {
		texts[i] = p.Text
	}

	var embeddings [][]float32
	err := s.retry.do(ctx, func() error {
		var embedErr error
		embeddings, embedErr = s.embedder.EmbedBatch(ctx, texts)
		return embedErr
	})
	if err != nil {
		return 0, fmt.Errorf("embedding document %s: %w", src.SourceID, err)
	}
	if len(embeddings) != len(pieces) {
		return 0, fmt.Errorf("%w: got %d embeddings for %d chunks",
			domain.ErrEmbeddingService, len(embeddings), len(pieces))
	}

	now := time.Now().UTC()
	chunks := make([]domain.Chunk, len(pieces))
	for i, p := range pieces {
		chunks[i] = domain.Chunk{
			ID:          chunkID(src, i),
			SourceID:    src.SourceID,
			Content:     p.Text,
			Position:    i,
			StartOffset: p.Start,
			Page:        src.Page,
			Embedding:   embeddings[i],
			CreatedAt:   now,
		}
	}

	return s.store.Insert(ctx, chunks)
}

// chunkID derives a stable identifier from the document identity and the
// chunk's position within it.
func chunkID(src domain.SourceText, position int) string {
	name := src.SourceID
	if src.Page != nil {
		name += "#p" + strconv.Itoa(*src.Page)
	}
	name += "#" + strconv.Itoa(position)
	return uuid.NewSHA1(chunkNamespace, []byte(name)).String()
}
