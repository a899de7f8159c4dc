// Package config loads and validates the Aska configuration.
//
// Configuration lives in a TOML file at ~/.aska/config.toml. It is read
// once at startup into an immutable typed struct and validated before any
// pipeline component is constructed; invalid settings fail the command
// instead of surfacing per-call. API keys are not stored in the file; they
// come from the environment (optionally via a .env file).
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/pelletier/go-toml/v2"

	"github.com/custodia-labs/aska-cli/internal/core/domain"
)

// Defaults for a fresh installation.
const (
	DefaultCollection   = "document_qa"
	DefaultChunkSize    = 500
	DefaultChunkOverlap = 50
	DefaultTopK         = 3
	DefaultPromptBudget = 4000
	DefaultStoreBackend = "sqlite"
	DefaultProvider     = "ollama"
)

// Config is the full configuration surface.
type Config struct {
	Chunking   Chunking   `toml:"chunking"`
	Retrieval  Retrieval  `toml:"retrieval"`
	Store      Store      `toml:"store"`
	Embedding  Embedding  `toml:"embedding"`
	Generation Generation `toml:"generation"`
}

// Chunking controls the document splitter.
type Chunking struct {
	// ChunkSize is the maximum chunk length in runes.
	ChunkSize int `toml:"chunk_size"`

	// ChunkOverlap is the overlap between consecutive chunks in runes.
	// Must be smaller than ChunkSize.
	ChunkOverlap int `toml:"chunk_overlap"`
}

// Retrieval controls search and prompt assembly.
type Retrieval struct {
	// TopK is the default number of passages to retrieve.
	TopK int `toml:"top_k"`

	// SimilarityThreshold drops results scoring below it, even within
	// the top K. Nil disables the filter.
	SimilarityThreshold *float64 `toml:"similarity_threshold"`

	// PromptBudget caps the total characters of chunk content included
	// in a prompt. Zero disables the cap.
	PromptBudget int `toml:"prompt_character_budget"`
}

// Store controls the vector store.
type Store struct {
	// Backend selects the store implementation: "sqlite" or "memory".
	Backend string `toml:"backend"`

	// Collection names the active collection.
	Collection string `toml:"collection"`

	// DataDir holds the collection databases. Empty means ~/.aska/data.
	DataDir string `toml:"data_dir"`
}

// Embedding selects and tunes the embedding backend.
type Embedding struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// Model is the embedding model name. Empty uses the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Dimension is the embedding vector size, fixed per collection.
	// Zero uses the provider default for the model.
	Dimension int `toml:"dimension"`
}

// Generation selects and tunes the generation backend.
type Generation struct {
	// Provider is "ollama" or "openai".
	Provider string `toml:"provider"`

	// Model is the generation model name. Empty uses the provider default.
	Model string `toml:"model"`

	// BaseURL overrides the provider endpoint.
	BaseURL string `toml:"base_url"`

	// Temperature fixes the sampling temperature. Zero (the default)
	// keeps answers deterministic for identical prompts.
	Temperature float64 `toml:"temperature"`

	// MaxTokens caps the completion length. Zero lets the model decide.
	MaxTokens int `toml:"max_tokens"`
}

// Default returns the configuration used when no file exists.
func Default() Config {
	return Config{
		Chunking: Chunking{
			ChunkSize:    DefaultChunkSize,
			ChunkOverlap: DefaultChunkOverlap,
		},
		Retrieval: Retrieval{
			TopK:         DefaultTopK,
			PromptBudget: DefaultPromptBudget,
		},
		Store: Store{
			Backend:    DefaultStoreBackend,
			Collection: DefaultCollection,
		},
		Embedding: Embedding{
			Provider: DefaultProvider,
		},
		Generation: Generation{
			Provider:    DefaultProvider,
			Temperature: 0.0,
		},
	}
}

// DefaultPath returns ~/.aska/config.toml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".aska", "config.toml"), nil
}

// Load reads the config file at path, layering it over the defaults and
// validating the result. A missing file yields the defaults. An empty path
// uses DefaultPath.
func Load(path string) (Config, error) {
	cfg := Default()

	if path == "" {
		var err error
		path, err = DefaultPath()
		if err != nil {
			return cfg, err
		}
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, cfg.Validate()
		}
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	if err := toml.Unmarshal(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing config %s: %w", path, err)
	}

	return cfg, cfg.Validate()
}

// Validate checks every setting once, at startup.
func (c Config) Validate() error {
	if c.Chunking.ChunkSize <= 0 {
		return fmt.Errorf("%w: chunk_size must be positive, got %d", domain.ErrInvalidInput, c.Chunking.ChunkSize)
	}
	if c.Chunking.ChunkOverlap < 0 {
		return fmt.Errorf("%w: chunk_overlap must not be negative, got %d", domain.ErrInvalidInput, c.Chunking.ChunkOverlap)
	}
	if c.Chunking.ChunkOverlap >= c.Chunking.ChunkSize {
		return fmt.Errorf("%w: chunk_overlap (%d) must be smaller than chunk_size (%d)",
			domain.ErrInvalidInput, c.Chunking.ChunkOverlap, c.Chunking.ChunkSize)
	}
	if c.Retrieval.TopK <= 0 {
		return fmt.Errorf("%w: top_k must be positive, got %d", domain.ErrInvalidInput, c.Retrieval.TopK)
	}
	if t := c.Retrieval.SimilarityThreshold; t != nil && (*t < 0 || *t > 1) {
		return fmt.Errorf("%w: similarity_threshold must be within [0, 1], got %g", domain.ErrInvalidInput, *t)
	}
	if c.Retrieval.PromptBudget < 0 {
		return fmt.Errorf("%w: prompt_character_budget must not be negative, got %d",
			domain.ErrInvalidInput, c.Retrieval.PromptBudget)
	}
	if c.Store.Backend != "sqlite" && c.Store.Backend != "memory" {
		return fmt.Errorf("%w: unknown store backend %q", domain.ErrInvalidInput, c.Store.Backend)
	}
	if c.Store.Collection == "" {
		return fmt.Errorf("%w: collection name required", domain.ErrInvalidInput)
	}
	if err := validProvider(c.Embedding.Provider); err != nil {
		return fmt.Errorf("embedding: %w", err)
	}
	if err := validProvider(c.Generation.Provider); err != nil {
		return fmt.Errorf("generation: %w", err)
	}
	if c.Embedding.Dimension < 0 {
		return fmt.Errorf("%w: dimension must not be negative, got %d", domain.ErrInvalidInput, c.Embedding.Dimension)
	}
	if c.Generation.Temperature < 0 {
		return fmt.Errorf("%w: temperature must not be negative, got %g", domain.ErrInvalidInput, c.Generation.Temperature)
	}
	return nil
}

func validProvider(p string) error {
	switch p {
	case "ollama", "openai":
		return nil
	}
	return fmt.Errorf("%w: unknown provider %q", domain.ErrInvalidInput, p)
}
