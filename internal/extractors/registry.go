package extractors

import (
	"path/filepath"
	"strings"

	"github.com/custodia-labs/aska-cli/internal/core/ports/driven"
	"github.com/custodia-labs/aska-cli/internal/extractors/markdown"
	"github.com/custodia-labs/aska-cli/internal/extractors/plaintext"
)

// Registry selects an extractor by file extension.
type Registry struct {
	byExtension map[string]driven.Extractor
	fallback    driven.Extractor
}

// NewRegistry creates a registry with the default extractors registered.
func NewRegistry() *Registry {
	r := &Registry{
		byExtension: make(map[string]driven.Extractor),
		fallback:    plaintext.New(),
	}
	r.Register(plaintext.New())
	r.Register(markdown.New())
	return r
}

// Register adds an extractor for each of its declared extensions.
func (r *Registry) Register(e driven.Extractor) {
	for _, ext := range e.Extensions() {
		r.byExtension[strings.ToLower(ext)] = e
	}
}

// ForFile returns the extractor for the given file name, falling back to
// plain text for unknown extensions.
func (r *Registry) ForFile(name string) driven.Extractor {
	ext := strings.ToLower(filepath.Ext(name))
	if e, ok := r.byExtension[ext]; ok {
		return e
	}
	return r.fallback
}

// Supported reports whether the extension has a dedicated extractor.
func (r *Registry) Supported(name string) bool {
	_, ok := r.byExtension[strings.ToLower(filepath.Ext(name))]
	return ok
}
