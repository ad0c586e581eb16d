package index

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/thrive-wellness/chatbot-engine/internal/cache"
	"github.com/thrive-wellness/chatbot-engine/internal/embedding"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
)

// MemoryIndex is an in-memory vector index over passage embeddings. Vectors are
// normalized on insert so similarity is a plain dot product. The index is
// mutated only during load; serving reads may run concurrently.
type MemoryIndex struct {
	mu       sync.RWMutex
	entries  []indexedPassage
	embedder embedding.Embedder
	cache    cache.Client
	cacheTTL time.Duration
	logger   *observability.Logger
}

type indexedPassage struct {
	passage Passage
	vector  []float32
}

// Options configures a MemoryIndex.
type Options struct {
	// Cache, when set, memoizes query embeddings. Passage vectors are already
	// materialized, so this is the only embedding call on the request path.
	Cache    cache.Client
	CacheTTL time.Duration
	Logger   *observability.Logger
}

// NewMemoryIndex creates an empty index that embeds queries with embedder.
func NewMemoryIndex(embedder embedding.Embedder, opts Options) *MemoryIndex {
	logger := opts.Logger
	if logger == nil {
		logger = observability.Nop()
	}

	ttl := opts.CacheTTL
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	return &MemoryIndex{
		embedder: embedder,
		cache:    opts.Cache,
		cacheTTL: ttl,
		logger:   logger.WithComponent("index"),
	}
}

// Snapshot is the persisted form of the index, written by the ingest tool.
type Snapshot struct {
	Model     string          `json:"model"`
	Dimension int             `json:"dimension"`
	CreatedAt time.Time       `json:"created_at"`
	Entries   []SnapshotEntry `json:"entries"`
}

// SnapshotEntry is one indexed passage with its embedding.
type SnapshotEntry struct {
	ID      string    `json:"id"`
	DocID   string    `json:"doc_id"`
	Title   string    `json:"title"`
	Content string    `json:"content"`
	Vector  []float32 `json:"vector"`
}

// LoadSnapshot reads a snapshot file and replaces the index contents.
func (idx *MemoryIndex) LoadSnapshot(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read snapshot: %w", err)
	}

	var snap Snapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return fmt.Errorf("parse snapshot: %w", err)
	}

	return idx.LoadEntries(snap.Entries)
}

// LoadEntries replaces the index contents with the given entries.
func (idx *MemoryIndex) LoadEntries(entries []SnapshotEntry) error {
	indexed := make([]indexedPassage, 0, len(entries))
	for _, e := range entries {
		if len(e.Vector) == 0 {
			continue
		}
		indexed = append(indexed, indexedPassage{
			passage: Passage{
				ID:      e.ID,
				DocID:   e.DocID,
				Title:   e.Title,
				Content: e.Content,
			},
			vector: embedding.Normalize(e.Vector),
		})
	}

	idx.mu.Lock()
	idx.entries = indexed
	idx.mu.Unlock()

	idx.logger.Info().Int("passages", len(indexed)).Msg("Semantic index loaded")
	return nil
}

// Len returns the number of indexed passages.
func (idx *MemoryIndex) Len() int {
	idx.mu.RLock()
	defer idx.mu.RUnlock()
	return len(idx.entries)
}

// Search returns up to k passages selected by maximal marginal relevance from
// the fetchK most similar candidates. For k=0 the result is empty; fetchK < k
// shrinks the candidate pool to fetchK.
func (idx *MemoryIndex) Search(ctx context.Context, query string, k, fetchK int) ([]Passage, error) {
	if k <= 0 {
		return []Passage{}, nil
	}
	if fetchK <= 0 {
		fetchK = k
	}

	queryVec, err := idx.embedQuery(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}
	queryVec = embedding.Normalize(queryVec)

	idx.mu.RLock()
	defer idx.mu.RUnlock()

	type scored struct {
		pos   int
		score float32
	}

	scores := make([]scored, len(idx.entries))
	for i, e := range idx.entries {
		scores[i] = scored{pos: i, score: dot(queryVec, e.vector)}
	}

	sort.SliceStable(scores, func(i, j int) bool {
		return scores[i].score > scores[j].score
	})

	if fetchK < len(scores) {
		scores = scores[:fetchK]
	}

	relevance := make([]float32, len(scores))
	vectors := make([][]float32, len(scores))
	for i, s := range scores {
		relevance[i] = s.score
		vectors[i] = idx.entries[s.pos].vector
	}

	picked := maximalMarginalRelevance(relevance, vectors, k)

	results := make([]Passage, 0, len(picked))
	for _, p := range picked {
		passage := idx.entries[scores[p].pos].passage
		passage.Rank = p
		passage.Score = scores[p].score
		results = append(results, passage)
	}

	return results, nil
}

// embedQuery embeds the query text, consulting the cache when configured.
func (idx *MemoryIndex) embedQuery(ctx context.Context, query string) ([]float32, error) {
	key := cache.Key("embed", idx.embedder.Model(), query)

	if idx.cache != nil {
		if data, err := idx.cache.Get(ctx, key); err == nil {
			var vec []float32
			if err := json.Unmarshal(data, &vec); err == nil && len(vec) > 0 {
				return vec, nil
			}
		}
	}

	vec, err := idx.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, err
	}

	if idx.cache != nil {
		if data, err := json.Marshal(vec); err == nil {
			if err := idx.cache.Set(ctx, key, data, idx.cacheTTL); err != nil {
				idx.logger.Warn().Err(err).Msg("Failed to cache query embedding")
			}
		}
	}

	return vec, nil
}

var _ Searcher = (*MemoryIndex)(nil)
