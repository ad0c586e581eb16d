package ingest

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/thrive-wellness/chatbot-engine/internal/embedding"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
)

// KnowledgeEntry is one record of the authored knowledge base file.
type KnowledgeEntry struct {
	Title   string `json:"title"`
	Content string `json:"content"`
}

// Builder turns knowledge entries into an index snapshot.
type Builder struct {
	logger   *observability.Logger
	chunker  *Chunker
	embedder embedding.Embedder
	config   BuilderConfig
}

// BuilderConfig holds builder settings.
type BuilderConfig struct {
	ChunkSize    int
	ChunkOverlap int
	BatchSize    int
	// Progress, when set, is called after each embedded batch with the number
	// of chunks completed so far and the total.
	Progress func(done, total int)
}

// NewBuilder creates a snapshot builder.
func NewBuilder(logger *observability.Logger, embedder embedding.Embedder, cfg BuilderConfig) *Builder {
	if logger == nil {
		logger = observability.Nop()
	}
	if cfg.ChunkSize <= 0 {
		cfg.ChunkSize = 1000
	}
	if cfg.ChunkOverlap <= 0 {
		cfg.ChunkOverlap = 200
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}

	return &Builder{
		logger:   logger.WithComponent("ingest"),
		chunker:  NewChunker(cfg.ChunkSize, cfg.ChunkOverlap),
		embedder: embedder,
		config:   cfg,
	}
}

// LoadKnowledgeBase reads the authored knowledge file ([{title, content}]).
func LoadKnowledgeBase(path string) ([]KnowledgeEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read knowledge base: %w", err)
	}

	var entries []KnowledgeEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, fmt.Errorf("parse knowledge base: %w", err)
	}

	return entries, nil
}

// Build chunks and embeds the knowledge entries into a snapshot.
func (b *Builder) Build(ctx context.Context, entries []KnowledgeEntry) (*index.Snapshot, error) {
	type pendingChunk struct {
		docID string
		title string
		text  string
	}

	var pending []pendingChunk
	for _, entry := range entries {
		docID := uuid.New().String()
		// Prefix the title so it participates in similarity matching.
		full := fmt.Sprintf("Title: %s\n\n%s", entry.Title, entry.Content)
		for _, chunk := range b.chunker.Chunk(full) {
			pending = append(pending, pendingChunk{docID: docID, title: entry.Title, text: chunk})
		}
	}

	b.logger.Info().
		Int("entries", len(entries)).
		Int("chunks", len(pending)).
		Msg("Chunked knowledge base")

	snapshot := &index.Snapshot{
		Model:     b.embedder.Model(),
		CreatedAt: time.Now().UTC(),
		Entries:   make([]index.SnapshotEntry, 0, len(pending)),
	}

	for start := 0; start < len(pending); start += b.config.BatchSize {
		end := start + b.config.BatchSize
		if end > len(pending) {
			end = len(pending)
		}

		texts := make([]string, 0, end-start)
		for _, p := range pending[start:end] {
			texts = append(texts, p.text)
		}

		vectors, err := b.embedder.Embed(ctx, texts)
		if err != nil {
			return nil, fmt.Errorf("embed batch %d-%d: %w", start, end, err)
		}

		for i, p := range pending[start:end] {
			if i >= len(vectors) || len(vectors[i]) == 0 {
				b.logger.Warn().Str("title", p.title).Msg("Missing embedding for chunk, skipping")
				continue
			}
			snapshot.Entries = append(snapshot.Entries, index.SnapshotEntry{
				ID:      uuid.New().String(),
				DocID:   p.docID,
				Title:   p.title,
				Content: p.text,
				Vector:  vectors[i],
			})
		}

		if b.config.Progress != nil {
			b.config.Progress(end, len(pending))
		}
	}

	snapshot.Dimension = b.embedder.Dimension()

	return snapshot, nil
}

// WriteSnapshot persists a snapshot to path as JSON.
func WriteSnapshot(snapshot *index.Snapshot, path string) error {
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}

	return nil
}
