package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thrive-wellness/chatbot-engine/internal/embedding"
	"github.com/thrive-wellness/chatbot-engine/internal/ingest"
)

// newIngestCmd builds the semantic index snapshot from the knowledge base.
func newIngestCmd() *cobra.Command {
	var (
		knowledgePath string
		outputPath    string
		chunkSize     int
		chunkOverlap  int
	)

	cmd := &cobra.Command{
		Use:   "ingest",
		Short: "Build the semantic index snapshot from the knowledge base",
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON)

			if knowledgePath == "" {
				knowledgePath = cfg.Index.KnowledgePath
			}
			if outputPath == "" {
				outputPath = cfg.Index.SnapshotPath
			}

			entries, err := ingest.LoadKnowledgeBase(knowledgePath)
			if err != nil {
				return fmt.Errorf("load knowledge base: %w", err)
			}
			ui.Info("Loaded %d knowledge entries from %s", len(entries), knowledgePath)

			embedder, err := embedding.NewClient(embedding.Config{
				APIKey:    cfg.Embedding.APIKey,
				Model:     cfg.Embedding.Model,
				BaseURL:   cfg.Embedding.BaseURL,
				Dimension: cfg.Embedding.Dimension,
				Timeout:   cfg.Embedding.Timeout,
			})
			if err != nil {
				return fmt.Errorf("create embedding client: %w", err)
			}

			bar := ui.NewProgressBar(len(entries), "Embedding chunks")

			builder := ingest.NewBuilder(logger, embedder, ingest.BuilderConfig{
				ChunkSize:    chunkSize,
				ChunkOverlap: chunkOverlap,
				BatchSize:    cfg.Embedding.BatchSize,
				Progress: func(done, total int) {
					if bar != nil {
						bar.ChangeMax(total)
						_ = bar.Set(done)
					}
				},
			})

			snapshot, err := builder.Build(cmd.Context(), entries)
			if err != nil {
				ui.Error("Index build failed: %v", err)
				return err
			}

			if err := ingest.WriteSnapshot(snapshot, outputPath); err != nil {
				return fmt.Errorf("write snapshot: %w", err)
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(map[string]interface{}{
					"entries":   len(entries),
					"passages":  len(snapshot.Entries),
					"dimension": snapshot.Dimension,
					"model":     snapshot.Model,
					"output":    outputPath,
				})
			}

			ui.Success("Wrote %d passages (%d-dim, %s) to %s",
				len(snapshot.Entries), snapshot.Dimension, snapshot.Model, outputPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&knowledgePath, "knowledge", "", "knowledge base JSON path (default from config)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "index snapshot output path (default from config)")
	cmd.Flags().IntVar(&chunkSize, "chunk-size", 1000, "max characters per chunk")
	cmd.Flags().IntVar(&chunkOverlap, "chunk-overlap", 200, "characters of overlap between chunks")

	return cmd
}
