package chunker

import (
	"strings"
	"testing"
)

func TestNew(t *testing.T) {
	t.Run("default values", func(t *testing.T) {
		s := New()
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected chunkSize %d, got %d", DefaultChunkSize, s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected overlap %d, got %d", DefaultChunkOverlap, s.overlap)
		}
	})

	t.Run("custom values", func(t *testing.T) {
		s := New(WithChunkSize(200), WithOverlap(40))
		if s.chunkSize != 200 {
			t.Errorf("expected chunkSize 200, got %d", s.chunkSize)
		}
		if s.overlap != 40 {
			t.Errorf("expected overlap 40, got %d", s.overlap)
		}
	})

	t.Run("overlap exceeds chunk size", func(t *testing.T) {
		s := New(WithChunkSize(100), WithOverlap(150))
		if s.overlap >= s.chunkSize {
			t.Error("overlap should be reduced when it exceeds chunk size")
		}
	})

	t.Run("zero values ignored", func(t *testing.T) {
		s := New(WithChunkSize(0), WithOverlap(-1))
		if s.chunkSize != DefaultChunkSize {
			t.Errorf("expected default chunkSize, got %d", s.chunkSize)
		}
		if s.overlap != DefaultChunkOverlap {
			t.Errorf("expected default overlap, got %d", s.overlap)
		}
	})
}

func TestSplitter_Split_Empty(t *testing.T) {
	s := New()
	if pieces := s.Split(""); len(pieces) != 0 {
		t.Errorf("expected 0 pieces for empty text, got %d", len(pieces))
	}
}

func TestSplitter_Split_ShortText(t *testing.T) {
	s := New(WithChunkSize(100), WithOverlap(20))
	pieces := s.Split("This is a small piece of content.")

	if len(pieces) != 1 {
		t.Fatalf("expected 1 piece for short text, got %d", len(pieces))
	}
	if pieces[0].Start != 0 {
		t.Errorf("expected offset 0, got %d", pieces[0].Start)
	}
	if pieces[0].Text != "This is a small piece of content." {
		t.Errorf("short text should be returned whole, got %q", pieces[0].Text)
	}
}

func TestSplitter_Split_MaxSize(t *testing.T) {
	s := New(WithChunkSize(50), WithOverlap(10))
	text := strings.Repeat("The quick brown fox jumps over the lazy dog. ", 40)

	for i, p := range s.Split(text) {
		if n := len([]rune(p.Text)); n > 50 {
			t.Errorf("piece %d has %d runes, exceeds chunk size", i, n)
		}
	}
}

func TestSplitter_Split_Deterministic(t *testing.T) {
	s := New(WithChunkSize(80), WithOverlap(15))
	text := strings.Repeat("Some sentences here. Another one follows! And a third? ", 20)

	first := s.Split(text)
	second := s.Split(text)

	if len(first) != len(second) {
		t.Fatalf("piece counts differ: %d vs %d", len(first), len(second))
	}
	for i := range first {
		if first[i] != second[i] {
			t.Errorf("piece %d differs between runs", i)
		}
	}
}

func TestSplitter_Split_OffsetsStrictlyIncrease(t *testing.T) {
	s := New(WithChunkSize(60), WithOverlap(20))
	text := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 30)

	pieces := s.Split(text)
	for i := 1; i < len(pieces); i++ {
		if pieces[i].Start <= pieces[i-1].Start {
			t.Fatalf("offset %d (%d) not greater than offset %d (%d)",
				i, pieces[i].Start, i-1, pieces[i-1].Start)
		}
	}
}

func TestSplitter_Split_Overlap(t *testing.T) {
	s := New(WithChunkSize(60), WithOverlap(20))
	text := strings.Repeat("alpha beta gamma delta epsilon zeta. ", 30)

	pieces := s.Split(text)
	if len(pieces) < 2 {
		t.Fatal("expected multiple pieces")
	}
	for i := 1; i < len(pieces); i++ {
		prevEnd := pieces[i-1].Start + len([]rune(pieces[i-1].Text))
		if pieces[i].Start >= prevEnd {
			t.Errorf("piece %d starts at %d, after previous end %d: no overlap",
				i, pieces[i].Start, prevEnd)
		}
	}
}

// TestSplitter_Split_Tiling checks that concatenating each piece's
// non-overlapping span reconstructs the input exactly.
func TestSplitter_Split_Tiling(t *testing.T) {
	texts := []string{
		strings.Repeat("The quick brown fox jumps over the lazy dog. ", 25),
		"First paragraph of text here.\n\nSecond paragraph follows on.\n\nThird one too.",
		strings.Repeat("naïve café über garçon résumé ", 40), // multi-byte runes
		strings.Repeat("x", 1234),                            // no natural boundaries
	}

	s := New(WithChunkSize(64), WithOverlap(16))
	for ti, text := range texts {
		runes := []rune(text)
		pieces := s.Split(text)

		var rebuilt strings.Builder
		for i, p := range pieces {
			if i == len(pieces)-1 {
				rebuilt.WriteString(p.Text)
				continue
			}
			rebuilt.WriteString(string(runes[p.Start:pieces[i+1].Start]))
		}
		if rebuilt.String() != text {
			t.Errorf("text %d: core spans do not reconstruct the input", ti)
		}
	}
}

func TestSplitter_Split_PrefersParagraphBoundary(t *testing.T) {
	// A blank line sits in the second half of the first window; the split
	// should land right after it rather than mid-sentence.
	text := strings.Repeat("a", 40) + "\n\n" + strings.Repeat("b", 60)
	s := New(WithChunkSize(64), WithOverlap(0))

	pieces := s.Split(text)
	if len(pieces) < 2 {
		t.Fatal("expected multiple pieces")
	}
	if !strings.HasSuffix(pieces[0].Text, "\n\n") {
		t.Errorf("first piece should end at the paragraph break, got %q", pieces[0].Text)
	}
}

func TestSplitter_Split_SentenceScenario(t *testing.T) {
	s := New(WithChunkSize(20), WithOverlap(5))
	pieces := s.Split("The sky is blue. Grass is green.")

	if len(pieces) < 3 {
		t.Fatalf("expected at least 3 overlapping pieces, got %d", len(pieces))
	}
	if pieces[0].Text != "The sky is blue." {
		t.Errorf("first piece should end at the sentence boundary, got %q", pieces[0].Text)
	}

	found := false
	for _, p := range pieces {
		if strings.Contains(p.Text, "Grass") {
			found = true
		}
	}
	if !found {
		t.Error("no piece contains the second sentence's subject")
	}
}

// TestSplitter_Split_ForcedProgress exercises the guard against a boundary
// cut that lands inside the overlap region.
func TestSplitter_Split_ForcedProgress(t *testing.T) {
	s := New(WithChunkSize(10), WithOverlap(8))
	text := strings.Repeat("abcde ", 50)

	pieces := s.Split(text)
	if len(pieces) == 0 {
		t.Fatal("expected pieces")
	}
	for i := 1; i < len(pieces); i++ {
		if pieces[i].Start <= pieces[i-1].Start {
			t.Fatal("splitter made no progress")
		}
	}
}
