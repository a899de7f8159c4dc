package driven

import "context"

// GenerationService produces answer text from an assembled prompt.
// Temperature is fixed by configuration (0.0 by default) so that identical
// prompts yield repeatable answers.
//
// Implementations may include:
//   - Ollama (llama3.2 and other local models)
//   - OpenAI (chat completions)
type GenerationService interface {
	// Generate produces a completion for the prompt.
	Generate(ctx context.Context, prompt string) (string, error)

	// ModelName returns the name of the generation model being used.
	ModelName() string

	// Ping validates the service is reachable by making a lightweight
	// test request.
	Ping(ctx context.Context) error

	// Close releases resources.
	Close() error
}
