// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
//   - EmbeddingService: turns text into fixed-dimension vectors
//   - GenerationService: turns an assembled prompt into answer text
//   - VectorStore: persists chunks with vectors, similarity search
//   - Extractor: boundary text extraction for container formats
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter or extractor package
package driven
