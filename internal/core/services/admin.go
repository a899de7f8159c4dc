package services

import (
	"context"
	"fmt"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driving"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

// Ensure AdminService implements the interface.
var _ driving.Admin = (*AdminService)(nil)

// AdminService exposes collection maintenance operations.
type AdminService struct {
	store     driven.VectorStore
	embedder  driven.EmbeddingService
	generator driven.GenerationService
}

// NewAdminService creates a new admin service.
func NewAdminService(store driven.VectorStore, embedder driven.EmbeddingService, generator driven.GenerationService) *AdminService {
	return &AdminService{
		store:     store,
		embedder:  embedder,
		generator: generator,
	}
}

// Stats reports the collection state, enriched with the embedding model name.
func (s *AdminService) Stats(ctx context.Context) (*domain.CollectionStats, error) {
	stats, err := s.store.Stats(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading collection stats: %w", err)
	}
	stats.EmbeddingModel = s.embedder.ModelName()
	return stats, nil
}

// Ping checks both backends with one lightweight request each.
func (s *AdminService) Ping(ctx context.Context) []domain.BackendStatus {
	return []domain.BackendStatus{
		{Name: "embedding", Model: s.embedder.ModelName(), Err: s.embedder.Ping(ctx)},
		{Name: "generation", Model: s.generator.ModelName(), Err: s.generator.Ping(ctx)},
	}
}

// Clear removes every record from the collection.
func (s *AdminService) Clear(ctx context.Context) error {
	logger.Info("Clearing collection")
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("clearing collection: %w", err)
	}
	return nil
}
