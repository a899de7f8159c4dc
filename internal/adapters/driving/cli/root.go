// Package cli implements the aska command line interface using cobra.
// Commands talk to the core exclusively through the driving ports; the
// concrete pipeline is assembled once in setupServices.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	embollama "github.com/custodia-labs/aska-cli/internal/adapters/driven/embedding/ollama"
	embopenai "github.com/custodia-labs/aska-cli/internal/adapters/driven/embedding/openai"
	genollama "github.com/custodia-labs/aska-cli/internal/adapters/driven/generation/ollama"
	genopenai "github.com/custodia-labs/aska-cli/internal/adapters/driven/generation/openai"
	"github.com/custodia-labs/aska-cli/internal/adapters/driven/vectorstore/memory"
	"github.com/custodia-labs/aska-cli/internal/adapters/driven/vectorstore/sqlite"
	"github.com/custodia-labs/aska-cli/internal/chunker"
	"github.com/custodia-labs/aska-cli/internal/config"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
	"github.com/custodia-labs/aska-cli/internal/core/ports/driving"
	"github.com/custodia-labs/aska-cli/internal/core/services"
	"github.com/custodia-labs/aska-cli/internal/extractors"
	"github.com/custodia-labs/aska-cli/internal/logger"
)

// version is set at build time via -ldflags.
var version = "dev"

// Services used by the commands. Wired by setupServices; tests inject
// their own implementations.
var (
	cfg         config.Config
	ingestor    driving.Ingestor
	answerer    driving.Answerer
	admin       driving.Admin
	registry    *extractors.Registry
	closeOnExit []func() error
)

var (
	verboseFlag bool
	configFlag  string
)

var rootCmd = &cobra.Command{
	Use:   "aska",
	Short: "Question answering over your own documents",
	Long: `Aska answers natural-language questions against a private document
corpus. Documents are chunked, embedded and stored locally; questions are
answered by a text-generation backend grounded in the most relevant
passages, with citations.`,
	SilenceUsage:  true,
	SilenceErrors: false,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger.SetVerbose(verboseFlag)

		// Commands that don't touch the pipeline skip service setup.
		switch cmd.Name() {
		case "version", "help", "completion":
			return nil
		}
		return setupServices()
	},
	PersistentPostRunE: func(_ *cobra.Command, _ []string) error {
		for _, closeFn := range closeOnExit {
			if err := closeFn(); err != nil {
				logger.Warn("Close error: %v", err)
			}
		}
		closeOnExit = nil
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verboseFlag, "verbose", "v", false, "enable verbose logging to stderr")
	rootCmd.PersistentFlags().StringVar(&configFlag, "config", "", "path to config file (default ~/.aska/config.toml)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// setupServices builds the pipeline from configuration. Already-wired
// services (e.g. injected by tests) are left alone.
func setupServices() error {
	if ingestor != nil && answerer != nil && admin != nil {
		return nil
	}

	var err error
	cfg, err = config.Load(configFlag)
	if err != nil {
		return err
	}

	registry = extractors.NewRegistry()

	embedder, err := buildEmbedder(cfg)
	if err != nil {
		return err
	}
	closeOnExit = append(closeOnExit, embedder.Close)

	generator, err := buildGenerator(cfg)
	if err != nil {
		return err
	}
	closeOnExit = append(closeOnExit, generator.Close)

	dimension := cfg.Embedding.Dimension
	if dimension == 0 {
		dimension = embedder.Dimensions()
	}

	store, err := buildStore(cfg, dimension)
	if err != nil {
		return err
	}
	closeOnExit = append(closeOnExit, store.Close)

	splitter := chunker.New(
		chunker.WithChunkSize(cfg.Chunking.ChunkSize),
		chunker.WithOverlap(cfg.Chunking.ChunkOverlap),
	)

	retrieverOpts := []services.RetrieverOption{services.WithDefaultK(cfg.Retrieval.TopK)}
	if cfg.Retrieval.SimilarityThreshold != nil {
		retrieverOpts = append(retrieverOpts, services.WithThreshold(*cfg.Retrieval.SimilarityThreshold))
	}
	retriever := services.NewRetriever(embedder, store, retrieverOpts...)
	assembler := services.NewAssembler(cfg.Retrieval.PromptBudget)

	ingestor = services.NewIngestService(splitter, embedder, store)
	answerer = services.NewQAService(retriever, assembler, generator)
	admin = services.NewAdminService(store, embedder, generator)

	return nil
}

func buildEmbedder(cfg config.Config) (driven.EmbeddingService, error) {
	switch cfg.Embedding.Provider {
	case "openai":
		return embopenai.NewEmbeddingService(embopenai.Config{
			APIKey:     os.Getenv("OPENAI_API_KEY"),
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimension,
		})
	default:
		return embollama.NewEmbeddingService(embollama.Config{
			BaseURL:    cfg.Embedding.BaseURL,
			Model:      cfg.Embedding.Model,
			Dimensions: cfg.Embedding.Dimension,
		}), nil
	}
}

func buildGenerator(cfg config.Config) (driven.GenerationService, error) {
	switch cfg.Generation.Provider {
	case "openai":
		return genopenai.NewGenerationService(genopenai.Config{
			APIKey:      os.Getenv("OPENAI_API_KEY"),
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
		})
	default:
		return genollama.NewGenerationService(genollama.Config{
			BaseURL:     cfg.Generation.BaseURL,
			Model:       cfg.Generation.Model,
			Temperature: cfg.Generation.Temperature,
			MaxTokens:   cfg.Generation.MaxTokens,
		}), nil
	}
}

func buildStore(cfg config.Config, dimension int) (driven.VectorStore, error) {
	switch cfg.Store.Backend {
	case "memory":
		return memory.NewStore(cfg.Store.Collection, dimension)
	default:
		store, err := sqlite.NewStore(cfg.Store.DataDir, cfg.Store.Collection, dimension)
		if err != nil {
			return nil, fmt.Errorf("opening collection %s: %w", cfg.Store.Collection, err)
		}
		return store, nil
	}
}
