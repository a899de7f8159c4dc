package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driving"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

// Ensure QAService implements the interface.
var _ driving.Answerer = (*QAService)(nil)

// noContextAnswer is returned without calling the generator when retrieval
// finds nothing relevant.
const noContextAnswer = "I don't have enough information to answer this question."

// QAService runs the full question answering pipeline:
// retrieve, assemble, generate.
type QAService struct {
	retriever *Retriever
	assembler *Assembler
	generator driven.GenerationService
	retry     retryPolicy
}

// NewQAService creates a new question answering service.
func NewQAService(retriever *Retriever, assembler *Assembler, generator driven.GenerationService) *QAService {
	return &QAService{
		retriever: retriever,
		assembler: assembler,
		generator: generator,
		retry:     defaultRetryPolicy(),
	}
}

// Ask answers a question grounded in the stored corpus. When retrieval finds
// nothing, or no retrieved chunk fits the prompt budget, a fixed refusal is
// returned without invoking the generator. When
// generation fails, the citations from the completed retrieval stage are
// still returned alongside the error.
func (s *QAService) Ask(ctx context.Context, question string, opts domain.QueryOptions) (*domain.Answer, error) {
	results, err := s.retriever.Retrieve(ctx, question, opts)
	if err != nil {
		return nil, err
	}

	if len(results) == 0 {
		logger.Info("No relevant context found")
		return &domain.Answer{
			Text:    noContextAnswer,
			Sources: []domain.Citation{},
		}, nil
	}

	qc := s.assembler.BuildPrompt(strings.TrimSpace(question), results)
	logger.Debug("Prompt assembled: %d chars, %d citation(s)", len(qc.Prompt), len(qc.Citations))

	// The budget can exclude even the top-ranked chunk. An ungrounded
	// prompt is no better than an empty retrieval, so refuse the same way.
	if len(qc.Citations) == 0 {
		logger.Info("No retrieved chunk fit the prompt budget")
		return &domain.Answer{
			Text:    noContextAnswer,
			Sources: []domain.Citation{},
		}, nil
	}

	logger.Section("Generation")
	var text string
	err = s.retry.do(ctx, func() error {
		var genErr error
		text, genErr = s.generator.Generate(ctx, qc.Prompt)
		return genErr
	})
	if err != nil {
		return &domain.Answer{Sources: qc.Citations}, fmt.Errorf("generating answer: %w", err)
	}

	return &domain.Answer{
		Text:    strings.TrimSpace(text),
		Sources: qc.Citations,
	}, nil
}

// Retrieve runs only the retrieval stage.
func (s *QAService) Retrieve(ctx context.Context, question string, opts domain.QueryOptions) ([]domain.ScoredChunk, error) {
	return s.retriever.Retrieve(ctx, question, opts)
}
