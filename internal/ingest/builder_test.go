package ingest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrive-wellness/chatbot-engine/internal/embedding"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
)

func TestLoadKnowledgeBase(t *testing.T) {
	path := filepath.Join(t.TempDir(), "knowledge_base.json")
	content := `[
		{"title": "Shipping", "content": "Orders ship within two business days."},
		{"title": "Returns", "content": "30 day return window."}
	]`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	entries, err := LoadKnowledgeBase(path)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "Shipping", entries[0].Title)
}

func TestLoadKnowledgeBase_Missing(t *testing.T) {
	_, err := LoadKnowledgeBase(filepath.Join(t.TempDir(), "absent.json"))
	assert.Error(t, err)
}

func TestBuilder_Build(t *testing.T) {
	builder := NewBuilder(nil, embedding.NewMockClient(32), BuilderConfig{
		ChunkSize:    1000,
		ChunkOverlap: 200,
		BatchSize:    2,
	})

	entries := []KnowledgeEntry{
		{Title: "Shipping", Content: "Orders ship within two business days."},
		{Title: "Hours", Content: "Open 9am to 5pm Monday through Friday."},
	}

	snapshot, err := builder.Build(context.Background(), entries)
	require.NoError(t, err)

	require.Len(t, snapshot.Entries, 2)
	assert.Equal(t, "mock-embedding-model", snapshot.Model)
	assert.Equal(t, 32, snapshot.Dimension)

	for _, e := range snapshot.Entries {
		assert.NotEmpty(t, e.ID)
		assert.NotEmpty(t, e.DocID)
		assert.NotEmpty(t, e.Vector)
		assert.Contains(t, e.Content, "Title: ")
	}

	// Chunks from the same source share a document ID, distinct sources differ.
	assert.NotEqual(t, snapshot.Entries[0].DocID, snapshot.Entries[1].DocID)
}

func TestBuilder_BuildReportsProgress(t *testing.T) {
	var calls [][2]int
	builder := NewBuilder(nil, embedding.NewMockClient(8), BuilderConfig{
		BatchSize: 1,
		Progress: func(done, total int) {
			calls = append(calls, [2]int{done, total})
		},
	})

	entries := []KnowledgeEntry{
		{Title: "A", Content: "alpha"},
		{Title: "B", Content: "beta"},
	}

	_, err := builder.Build(context.Background(), entries)
	require.NoError(t, err)

	require.Len(t, calls, 2)
	assert.Equal(t, [2]int{1, 2}, calls[0])
	assert.Equal(t, [2]int{2, 2}, calls[1])
}

func TestWriteSnapshot_RoundTrip(t *testing.T) {
	builder := NewBuilder(nil, embedding.NewMockClient(8), BuilderConfig{})

	snapshot, err := builder.Build(context.Background(), []KnowledgeEntry{
		{Title: "Contact", Content: "Email hello@example.com."},
	})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, WriteSnapshot(snapshot, path))

	idx := index.NewMemoryIndex(embedding.NewMockClient(8), index.Options{})
	require.NoError(t, idx.LoadSnapshot(path))
	assert.Equal(t, 1, idx.Len())
}
