package extractors

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRegistry_ForFile(t *testing.T) {
	r := NewRegistry()

	t.Run("markdown by extension", func(t *testing.T) {
		e := r.ForFile("notes/README.md")
		assert.Contains(t, e.Extensions(), ".md")
	})

	t.Run("plain text", func(t *testing.T) {
		e := r.ForFile("minutes.txt")
		assert.Contains(t, e.Extensions(), ".txt")
	})

	t.Run("case insensitive", func(t *testing.T) {
		e := r.ForFile("README.MD")
		assert.Contains(t, e.Extensions(), ".md")
	})

	t.Run("unknown extension falls back to plain text", func(t *testing.T) {
		e := r.ForFile("data.unknown")
		assert.Contains(t, e.Extensions(), ".txt")
	})
}

func TestRegistry_Supported(t *testing.T) {
	r := NewRegistry()

	assert.True(t, r.Supported("a.md"))
	assert.True(t, r.Supported("a.txt"))
	assert.False(t, r.Supported("a.pdf"))
}
