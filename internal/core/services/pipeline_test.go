package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

func newTestQAService(store *mockVectorStore, generator *mockGenerator) *QAService {
	retriever := NewRetriever(&mockEmbedder{}, store)
	svc := NewQAService(retriever, NewAssembler(0), generator)
	svc.retry = retryPolicy{attempts: 2, backoff: time.Millisecond}
	return svc
}

func TestQAService_Ask(t *testing.T) {
	ctx := context.Background()

	t.Run("answers with sources", func(t *testing.T) {
		store := &mockVectorStore{results: retrieved("The sky is blue.")}
		generator := &mockGenerator{answer: "  The sky is blue.\n"}
		svc := newTestQAService(store, generator)

		answer, err := svc.Ask(ctx, "What color is the sky?", domain.QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, "The sky is blue.", answer.Text)
		require.Len(t, answer.Sources, 1)
		assert.Equal(t, "doc.txt", answer.Sources[0].SourceID)

		require.Len(t, generator.prompts, 1)
		assert.Contains(t, generator.prompts[0], "[1] The sky is blue.")
		assert.Contains(t, generator.prompts[0], "Question: What color is the sky?")
	})

	t.Run("empty retrieval skips generation", func(t *testing.T) {
		store := &mockVectorStore{}
		generator := &mockGenerator{answer: "should not be called"}
		svc := newTestQAService(store, generator)

		answer, err := svc.Ask(ctx, "Anything in here?", domain.QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, noContextAnswer, answer.Text)
		assert.Empty(t, answer.Sources)
		assert.Zero(t, generator.callCount)
	})

	t.Run("budget excluding every chunk skips generation", func(t *testing.T) {
		store := &mockVectorStore{results: retrieved("A chunk far larger than the budget allows.")}
		generator := &mockGenerator{answer: "should not be called"}
		retriever := NewRetriever(&mockEmbedder{}, store)
		svc := NewQAService(retriever, NewAssembler(5), generator)
		svc.retry = retryPolicy{attempts: 2, backoff: time.Millisecond}

		answer, err := svc.Ask(ctx, "Anything in here?", domain.QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, noContextAnswer, answer.Text)
		assert.Empty(t, answer.Sources)
		assert.Zero(t, generator.callCount)
	})

	t.Run("generation failure still returns sources", func(t *testing.T) {
		store := &mockVectorStore{results: retrieved("Some context.")}
		generator := &mockGenerator{genErr: domain.ErrGenerationService}
		svc := newTestQAService(store, generator)

		answer, err := svc.Ask(ctx, "question", domain.QueryOptions{})
		require.Error(t, err)
		assert.True(t, errors.Is(err, domain.ErrGenerationService))
		require.NotNil(t, answer)
		assert.Empty(t, answer.Text)
		assert.Len(t, answer.Sources, 1)
	})

	t.Run("transient generation failure is retried", func(t *testing.T) {
		store := &mockVectorStore{results: retrieved("Some context.")}
		generator := &mockGenerator{
			answer:    "Recovered.",
			genErr:    errors.New("connection reset"),
			failUntil: 1,
		}
		svc := newTestQAService(store, generator)

		answer, err := svc.Ask(ctx, "question", domain.QueryOptions{})
		require.NoError(t, err)
		assert.Equal(t, "Recovered.", answer.Text)
		assert.Equal(t, 2, generator.callCount)
	})

	t.Run("validation error propagates", func(t *testing.T) {
		svc := newTestQAService(&mockVectorStore{}, &mockGenerator{})

		_, err := svc.Ask(ctx, "", domain.QueryOptions{})
		assert.True(t, errors.Is(err, domain.ErrInvalidInput))
	})
}

func TestQAService_Retrieve(t *testing.T) {
	store := &mockVectorStore{results: retrieved("Passage one.", "Passage two.")}
	svc := newTestQAService(store, &mockGenerator{})

	results, err := svc.Retrieve(context.Background(), "question", domain.QueryOptions{})
	require.NoError(t, err)
	assert.Len(t, results, 2)
}
