package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

var (
	askTopK          int
	askRetrievalOnly bool
	askJSON          bool
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a question against the ingested documents",
	Long: `Embeds the question, retrieves the most relevant passages from the
collection and asks the generation backend for an answer grounded in
them. The answer lists its sources.

With --retrieval-only the generation step is skipped and the ranked
passages are printed instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	askCmd.Flags().IntVarP(&askTopK, "top-k", "k", 0, "number of passages to retrieve (0 uses the configured default)")
	askCmd.Flags().BoolVar(&askRetrievalOnly, "retrieval-only", false, "print the retrieved passages without generating an answer")
	askCmd.Flags().BoolVar(&askJSON, "json", false, "output as JSON")
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	question := args[0]

	if answerer == nil {
		return errors.New("query service not configured")
	}

	ctx := cmd.Context()
	opts := domain.QueryOptions{K: askTopK}

	if askRetrievalOnly {
		results, err := answerer.Retrieve(ctx, question, opts)
		if err != nil {
			return fmt.Errorf("retrieval failed: %w", err)
		}
		if askJSON {
			return outputJSON(cmd, resultsForJSON(results))
		}
		return outputResults(cmd, results)
	}

	answer, err := answerer.Ask(ctx, question, opts)
	if err != nil {
		// A generation failure still carries the retrieved sources.
		if answer != nil && len(answer.Sources) > 0 {
			cmd.PrintErrf("generation failed: %v\n", err)
			cmd.Println("Sources that were retrieved:")
			outputSources(cmd, answer.Sources)
		}
		return fmt.Errorf("ask failed: %w", err)
	}

	if askJSON {
		return outputJSON(cmd, answer)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources:")
		outputSources(cmd, answer.Sources)
	}
	return nil
}

func outputJSON(cmd *cobra.Command, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputResults(cmd *cobra.Command, results []domain.ScoredChunk) error {
	if len(results) == 0 {
		cmd.Println("No matching passages found.")
		return nil
	}

	for i, sc := range results {
		cmd.Printf("  [%d] %s (%.3f)\n", i+1, sc.Chunk.SourceID, sc.Score)
		cmd.Printf("      %s\n", sc.Chunk.Content)
		cmd.Println()
	}
	return nil
}

func outputSources(cmd *cobra.Command, sources []domain.Citation) {
	for i, src := range sources {
		if src.Page != nil {
			cmd.Printf("  [%d] %s (page %d)\n", i+1, src.SourceID, *src.Page)
		} else {
			cmd.Printf("  [%d] %s\n", i+1, src.SourceID)
		}
	}
}

// retrievalResult is the JSON shape for --retrieval-only output.
type retrievalResult struct {
	SourceID string  `json:"source_id"`
	Content  string  `json:"content"`
	Score    float64 `json:"score"`
	Page     *int    `json:"page,omitempty"`
}

func resultsForJSON(results []domain.ScoredChunk) []retrievalResult {
	out := make([]retrievalResult, len(results))
	for i, sc := range results {
		out[i] = retrievalResult{
			SourceID: sc.Chunk.SourceID,
			Content:  sc.Chunk.Content,
			Score:    sc.Score,
			Page:     sc.Chunk.Page,
		}
	}
	return out
}
