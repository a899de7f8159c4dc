package services

import (
	"fmt"
	"strings"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

// promptTemplate frames the retrieved passages and instructs the model to
// refuse rather than guess when the context doesn't cover the question.
const promptTemplate = `Use the following context to answer the question. If you cannot answer based on the context, say "I don't have enough information to answer this question."

Context:
%s

Question: %s

Answer:`

// excerptLimit caps citation excerpts, in runes.
const excerptLimit = 200

// Assembler builds a bounded, citable prompt from retrieval results.
type Assembler struct {
	budget int
}

// NewAssembler creates an assembler. budget caps the total characters of
// chunk content included in the prompt; zero or negative disables the cap.
func NewAssembler(budget int) *Assembler {
	return &Assembler{budget: budget}
}

// BuildPrompt concatenates the retrieved chunks in rank order, each prefixed
// with a positional marker, and collects one citation per included chunk in
// the same order. Once the character budget is reached, remaining chunks are
// dropped whole; a chunk is never truncated mid-sentence.
func (a *Assembler) BuildPrompt(question string, results []domain.ScoredChunk) domain.QueryContext {
	var (
		blocks    []string
		citations []domain.Citation
		used      int
	)

	for i, sc := range results {
		length := len([]rune(sc.Chunk.Content))
		if a.budget > 0 && used+length > a.budget {
			logger.Debug("Budget %d reached, dropping %d lower-ranked chunk(s)", a.budget, len(results)-i)
			break
		}
		used += length

		blocks = append(blocks, fmt.Sprintf("[%d] %s", i+1, sc.Chunk.Content))
		citations = append(citations, domain.Citation{
			SourceID: sc.Chunk.SourceID,
			Page:     sc.Chunk.Page,
			Excerpt:  excerpt(sc.Chunk.Content),
		})
	}

	prompt := fmt.Sprintf(promptTemplate, strings.Join(blocks, "\n\n"), question)
	return domain.QueryContext{
		Prompt:    prompt,
		Citations: citations,
	}
}

// excerpt returns the first excerptLimit runes of content.
func excerpt(content string) string {
	runes := []rune(content)
	if len(runes) <= excerptLimit {
		return content
	}
	return string(runes[:excerptLimit])
}
