package cli

import (
	"context"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/extractors"
)

// --- Mock services ---

type mockIngestor struct {
	report    *domain.IngestReport
	ingestErr error
	received  []domain.SourceText
}

func (m *mockIngestor) Ingest(_ context.Context, sources []domain.SourceText) (*domain.IngestReport, error) {
	m.received = append(m.received, sources...)
	if m.ingestErr != nil {
		return nil, m.ingestErr
	}
	if m.report != nil {
		return m.report, nil
	}
	return &domain.IngestReport{
		DocumentsProcessed: len(sources),
		ChunksAdded:        len(sources),
	}, nil
}

type mockAnswerer struct {
	answer  *domain.Answer
	results []domain.ScoredChunk
	askErr  error
	retErr  error
}

func (m *mockAnswerer) Ask(_ context.Context, _ string, _ domain.QueryOptions) (*domain.Answer, error) {
	if m.askErr != nil {
		return m.answer, m.askErr
	}
	return m.answer, nil
}

func (m *mockAnswerer) Retrieve(_ context.Context, _ string, _ domain.QueryOptions) ([]domain.ScoredChunk, error) {
	if m.retErr != nil {
		return nil, m.retErr
	}
	return m.results, nil
}

type mockAdmin struct {
	stats    *domain.CollectionStats
	statuses []domain.BackendStatus
	statsErr error
	clearErr error
	cleared  bool
}

func (m *mockAdmin) Stats(_ context.Context) (*domain.CollectionStats, error) {
	if m.statsErr != nil {
		return nil, m.statsErr
	}
	return m.stats, nil
}

func (m *mockAdmin) Ping(_ context.Context) []domain.BackendStatus {
	return m.statuses
}

func (m *mockAdmin) Clear(_ context.Context) error {
	if m.clearErr != nil {
		return m.clearErr
	}
	m.cleared = true
	return nil
}

// setupTestServices wires mock services into the package vars and returns
// a cleanup restoring the previous state.
func setupTestServices(ing *mockIngestor, ans *mockAnswerer, adm *mockAdmin) func() {
	oldIngestor, oldAnswerer, oldAdmin, oldRegistry := ingestor, answerer, admin, registry

	ingestor = ing
	answerer = ans
	admin = adm
	registry = extractors.NewRegistry()

	return func() {
		ingestor, answerer, admin, registry = oldIngestor, oldAnswerer, oldAdmin, oldRegistry
	}
}
