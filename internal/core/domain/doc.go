// Package domain defines the core business entities for Aska.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - SourceText: An externally supplied (source_id, raw text) pair
//   - Chunk: A bounded segment of a document with its embedding vector
//   - ScoredChunk: A chunk paired with its similarity to a query
//   - QueryContext: An assembled prompt plus its citations
//   - Answer: Generated text plus the sources that grounded it
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
