package driven

import "context"

// Extractor converts raw document bytes into plain text. Extractors are a
// boundary concern: one variant per format, selected by file extension.
// The core pipeline only ever consumes the extracted text.
type Extractor interface {
	// Extensions returns the file extensions this extractor handles,
	// lower case with leading dot (e.g. ".md").
	Extensions() []string

	// Extract converts raw bytes into plain text.
	Extract(ctx context.Context, raw []byte) (string, error)
}
