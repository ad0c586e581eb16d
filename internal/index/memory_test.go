package index

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thrive-wellness/chatbot-engine/internal/cache"
)

// stubEmbedder returns canned vectors so similarity ordering is controlled.
type stubEmbedder struct {
	vectors map[string][]float32
	calls   int
}

func (s *stubEmbedder) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	out := make([][]float32, len(texts))
	for i, t := range texts {
		out[i] = s.vectors[t]
	}
	s.calls += len(texts)
	return out, nil
}

func (s *stubEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	s.calls++
	return s.vectors[text], nil
}

func (s *stubEmbedder) Model() string  { return "stub" }
func (s *stubEmbedder) Dimension() int { return 3 }

func newTestIndex(t *testing.T, emb *stubEmbedder, entries []SnapshotEntry) *MemoryIndex {
	t.Helper()
	idx := NewMemoryIndex(emb, Options{})
	require.NoError(t, idx.LoadEntries(entries))
	return idx
}

func TestMemoryIndex_Search_RelevanceOrder(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{
		"query": {1, 0, 0},
	}}

	idx := newTestIndex(t, emb, []SnapshotEntry{
		{ID: "far", Title: "Far", Content: "far away", Vector: []float32{0, 1, 0}},
		{ID: "near", Title: "Near", Content: "on topic", Vector: []float32{0.9, 0.1, 0}},
	})

	results, err := idx.Search(context.Background(), "query", 2, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "near", results[0].ID)
	assert.Equal(t, 0, results[0].Rank)
	assert.Greater(t, results[0].Score, results[1].Score)
}

func TestMemoryIndex_Search_KZero(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	idx := newTestIndex(t, emb, []SnapshotEntry{
		{ID: "a", Content: "a", Vector: []float32{1, 0, 0}},
	})

	results, err := idx.Search(context.Background(), "q", 0, 10)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestMemoryIndex_Search_FetchKLimitsPool(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	idx := newTestIndex(t, emb, []SnapshotEntry{
		{ID: "a", Content: "a", Vector: []float32{1, 0, 0}},
		{ID: "b", Content: "b", Vector: []float32{0.9, 0.1, 0}},
		{ID: "c", Content: "c", Vector: []float32{0.8, 0.2, 0}},
	})

	// fetch_k < k: the pool shrinks to fetch_k, never more selected.
	results, err := idx.Search(context.Background(), "q", 3, 2)
	require.NoError(t, err)
	assert.Len(t, results, 2)
}

func TestMemoryIndex_Search_DiversitySelection(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}

	// Two near-duplicates of the best match plus one moderately relevant but
	// distinct passage. MMR should pick the distinct one second.
	idx := newTestIndex(t, emb, []SnapshotEntry{
		{ID: "best", Content: "best", Vector: []float32{1, 0, 0}},
		{ID: "dup", Content: "dup", Vector: []float32{0.999, 0.001, 0}},
		{ID: "other", Content: "other", Vector: []float32{0.5, 0.86, 0}},
	})

	results, err := idx.Search(context.Background(), "q", 2, 10)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, "best", results[0].ID)
	assert.Equal(t, "other", results[1].ID)
}

func TestMemoryIndex_Search_EmptyIndex(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}
	idx := NewMemoryIndex(emb, Options{})

	results, err := idx.Search(context.Background(), "q", 5, 20)
	require.NoError(t, err)
	assert.Empty(t, results)
	assert.Equal(t, 0, idx.Len())
}

func TestMemoryIndex_LoadSnapshot(t *testing.T) {
	snap := Snapshot{
		Model:     "stub",
		Dimension: 3,
		CreatedAt: time.Now().UTC(),
		Entries: []SnapshotEntry{
			{ID: "a", DocID: "doc-1", Title: "Shipping", Content: "ships in 2 days", Vector: []float32{1, 0, 0}},
			{ID: "skip", Title: "No vector", Content: "dropped"},
		},
	}

	data, err := json.Marshal(snap)
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "index.json")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	idx := NewMemoryIndex(&stubEmbedder{}, Options{})
	require.NoError(t, idx.LoadSnapshot(path))

	// Entries without vectors are dropped on load.
	assert.Equal(t, 1, idx.Len())
}

func TestMemoryIndex_QueryEmbeddingCached(t *testing.T) {
	emb := &stubEmbedder{vectors: map[string][]float32{"q": {1, 0, 0}}}

	idx := NewMemoryIndex(emb, Options{Cache: cache.NewMemoryClient(10)})
	require.NoError(t, idx.LoadEntries([]SnapshotEntry{
		{ID: "a", Content: "a", Vector: []float32{1, 0, 0}},
	}))

	ctx := context.Background()
	_, err := idx.Search(ctx, "q", 1, 5)
	require.NoError(t, err)
	_, err = idx.Search(ctx, "q", 1, 5)
	require.NoError(t, err)

	assert.Equal(t, 1, emb.calls, "second identical query should hit the cache")
}
