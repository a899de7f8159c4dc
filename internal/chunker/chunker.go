// Package chunker provides a recursive-boundary text splitter.
package chunker

import "unicode"

// DefaultChunkSize is the default number of characters per chunk.
const DefaultChunkSize = 500

// DefaultChunkOverlap is the default number of overlapping characters.
const DefaultChunkOverlap = 50

// Piece is a chunk candidate: a contiguous segment of the input text.
type Piece struct {
	// Text is the segment content, at most chunk size runes long.
	Text string

	// Start is the rune offset of Text within the input.
	Start int
}

// Splitter splits text into overlapping bounded segments, preferring natural
// boundaries (paragraph, then sentence, then whitespace) before falling back
// to a hard cut at the chunk size. Splitting is deterministic and pure:
// identical input and configuration always yield identical boundaries.
type Splitter struct {
	chunkSize int
	overlap   int
}

// Option configures the splitter.
type Option func(*Splitter)

// WithChunkSize sets the maximum chunk size in runes.
func WithChunkSize(size int) Option {
	return func(s *Splitter) {
		if size > 0 {
			s.chunkSize = size
		}
	}
}

// WithOverlap sets the overlap between consecutive chunks in runes.
func WithOverlap(overlap int) Option {
	return func(s *Splitter) {
		if overlap >= 0 {
			s.overlap = overlap
		}
	}
}

// New creates a splitter with the given options.
func New(opts ...Option) *Splitter {
	s := &Splitter{
		chunkSize: DefaultChunkSize,
		overlap:   DefaultChunkOverlap,
	}

	for _, opt := range opts {
		opt(s)
	}

	// Ensure overlap doesn't exceed chunk size
	if s.overlap >= s.chunkSize {
		s.overlap = s.chunkSize / 4
	}

	return s
}

// ChunkSize returns the configured maximum chunk size in runes.
func (s *Splitter) ChunkSize() int {
	return s.chunkSize
}

// Overlap returns the configured overlap in runes.
func (s *Splitter) Overlap() int {
	return s.overlap
}

// Split segments text into pieces. Empty text yields no pieces; text no
// longer than the chunk size yields exactly one piece at offset 0. Each
// piece after the first begins before the previous piece's end by the
// configured overlap, and piece offsets strictly increase.
func (s *Splitter) Split(text string) []Piece {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.chunkSize {
		return []Piece{{Text: text, Start: 0}}
	}

	estimated := (len(runes) / (s.chunkSize - s.overlap)) + 1
	pieces := make([]Piece, 0, estimated)

	pos := 0
	for len(runes)-pos > s.chunkSize {
		window := runes[pos : pos+s.chunkSize]
		cut := boundaryCut(window)
		pieces = append(pieces, Piece{Text: string(window[:cut]), Start: pos})

		advance := cut - s.overlap
		if advance <= 0 {
			// Guard against a cut inside the overlap region: without
			// this the next window would start at or before pos.
			advance = s.chunkSize - s.overlap
		}
		pos += advance
	}

	pieces = append(pieces, Piece{Text: string(runes[pos:]), Start: pos})
	return pieces
}

// boundaryCut picks the split point for a full window: the last paragraph
// break, else the last sentence end, else the last whitespace, else a hard
// cut at the window end. Boundaries in the first half of the window are
// rejected so chunks stay near the target size.
func boundaryCut(window []rune) int {
	half := len(window) / 2

	if cut := lastParagraphBreak(window); cut > half {
		return cut
	}
	if cut := lastSentenceEnd(window); cut > half {
		return cut
	}
	if cut := lastWhitespace(window); cut > half {
		return cut
	}
	return len(window)
}

// lastParagraphBreak returns the position just after the last blank line,
// or 0 when the window has none.
func lastParagraphBreak(window []rune) int {
	for i := len(window) - 1; i > 0; i-- {
		if window[i] == '\n' && window[i-1] == '\n' {
			return i + 1
		}
	}
	return 0
}

// lastSentenceEnd returns the position just after the last sentence
// terminator that is followed by whitespace, or 0 when the window has none.
func lastSentenceEnd(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if !isSentenceEnd(window[i]) {
			continue
		}
		if i+1 == len(window) || unicode.IsSpace(window[i+1]) {
			return i + 1
		}
	}
	return 0
}

func isSentenceEnd(r rune) bool {
	return r == '.' || r == '!' || r == '?'
}

// lastWhitespace returns the position just after the last whitespace rune,
// or 0 when the window has none.
func lastWhitespace(window []rune) int {
	for i := len(window) - 1; i >= 0; i-- {
		if unicode.IsSpace(window[i]) {
			return i + 1
		}
	}
	return 0
}
