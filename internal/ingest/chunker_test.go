package ingest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestChunker_ShortTextSingleChunk(t *testing.T) {
	c := NewChunker(1000, 200)

	chunks := c.Chunk("Title: Shipping\n\nOrders ship within two business days.")
	require.Len(t, chunks, 1)
	assert.Contains(t, chunks[0], "two business days")
}

func TestChunker_EmptyText(t *testing.T) {
	c := NewChunker(1000, 200)
	assert.Nil(t, c.Chunk("   \n\n  "))
}

func TestChunker_RespectsChunkSize(t *testing.T) {
	c := NewChunker(100, 20)

	var b strings.Builder
	for i := 0; i < 40; i++ {
		b.WriteString("paragraph about hydration and wellness routines ")
	}

	chunks := c.Chunk(b.String())
	require.Greater(t, len(chunks), 1)
	for i, chunk := range chunks {
		assert.LessOrEqual(t, len(chunk), 100, "chunk %d exceeds size", i)
	}
}

func TestChunker_PrefersParagraphBreaks(t *testing.T) {
	c := NewChunker(60, 0)

	text := "First paragraph about bottles.\n\nSecond paragraph about electrolytes."
	chunks := c.Chunk(text)

	require.Len(t, chunks, 2)
	assert.Equal(t, "First paragraph about bottles.", chunks[0])
	assert.Equal(t, "Second paragraph about electrolytes.", chunks[1])
}

func TestChunker_OverlapCarriesContext(t *testing.T) {
	c := NewChunker(80, 30)

	text := strings.Repeat("hydration tips for athletes ", 12)
	chunks := c.Chunk(text)
	require.Greater(t, len(chunks), 1)

	// Each later chunk opens with words from the previous chunk's tail.
	firstWord := strings.Fields(chunks[1])[0]
	assert.Contains(t, chunks[0], firstWord)
}

func TestChunker_HardCutWithoutSeparators(t *testing.T) {
	c := NewChunker(50, 0)

	text := strings.Repeat("x", 160)
	chunks := c.Chunk(text)

	require.Len(t, chunks, 4)
	for _, chunk := range chunks[:3] {
		assert.Len(t, chunk, 50)
	}
}
