// Package ingest builds the semantic index snapshot from the knowledge base.
// Construction runs out-of-band; the serving pipeline only loads the result.
package ingest

import "strings"

// Chunker splits text into overlapping character-budgeted chunks, preferring
// to break on paragraph, then line, then word boundaries.
type Chunker struct {
	chunkSize    int
	chunkOverlap int
}

// NewChunker creates a chunker with the given size and overlap (in characters).
func NewChunker(chunkSize, chunkOverlap int) *Chunker {
	if chunkSize <= 0 {
		chunkSize = 1000
	}
	if chunkOverlap < 0 || chunkOverlap >= chunkSize {
		chunkOverlap = chunkSize / 5
	}
	return &Chunker{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
	}
}

var separators = []string{"\n\n", "\n", " "}

// Chunk splits text into chunks of at most chunkSize characters. Consecutive
// chunks share chunkOverlap characters of context.
func (c *Chunker) Chunk(text string) []string {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil
	}
	if len(text) <= c.chunkSize {
		return []string{text}
	}

	pieces := c.split(text, 0)

	// Merge pieces into chunks up to chunkSize, carrying overlap forward.
	var chunks []string
	var current strings.Builder

	flush := func() {
		chunk := strings.TrimSpace(current.String())
		if chunk != "" {
			chunks = append(chunks, chunk)
		}
		current.Reset()
		if len(chunks) > 0 && c.chunkOverlap > 0 {
			prev := chunks[len(chunks)-1]
			tail := prev
			if len(tail) > c.chunkOverlap {
				tail = tail[len(tail)-c.chunkOverlap:]
				// Back off to a word boundary so overlap never starts mid-word.
				if i := strings.IndexAny(tail, " \n"); i >= 0 {
					tail = tail[i+1:]
				}
			}
			current.WriteString(tail)
		}
	}

	for _, piece := range pieces {
		if current.Len() > 0 && current.Len()+len(piece)+1 > c.chunkSize {
			flush()
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(piece)
	}

	if chunk := strings.TrimSpace(current.String()); chunk != "" {
		// Drop a trailing remainder that is nothing but the carried overlap.
		pureOverlap := c.chunkOverlap > 0 && len(chunk) <= c.chunkOverlap &&
			len(chunks) > 0 && strings.HasSuffix(chunks[len(chunks)-1], chunk)
		if !pureOverlap {
			chunks = append(chunks, chunk)
		}
	}

	return chunks
}

// split recursively breaks text into pieces no longer than chunkSize, working
// down the separator preference list.
func (c *Chunker) split(text string, level int) []string {
	if len(text) <= c.chunkSize {
		if strings.TrimSpace(text) == "" {
			return nil
		}
		return []string{strings.TrimSpace(text)}
	}

	if level >= len(separators) {
		// No separator fits: hard-cut the text.
		var parts []string
		for len(text) > c.chunkSize {
			parts = append(parts, text[:c.chunkSize])
			text = text[c.chunkSize:]
		}
		if text != "" {
			parts = append(parts, text)
		}
		return parts
	}

	var pieces []string
	for _, part := range strings.Split(text, separators[level]) {
		pieces = append(pieces, c.split(part, level+1)...)
	}
	return pieces
}
