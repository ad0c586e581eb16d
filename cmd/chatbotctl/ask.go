package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/thrive-wellness/chatbot-engine/internal/cache"
	"github.com/thrive-wellness/chatbot-engine/internal/catalog"
	"github.com/thrive-wellness/chatbot-engine/internal/embedding"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
	"github.com/thrive-wellness/chatbot-engine/internal/llm"
	"github.com/thrive-wellness/chatbot-engine/internal/pipeline"
)

// newAskCmd runs one question through the full answer pipeline.
func newAskCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ask [question]",
		Short: "Ask a question against the knowledge base and live catalog",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ui := NewUI(outputJSON)
			question := strings.Join(args, " ")

			p, err := buildPipeline()
			if err != nil {
				ui.Error("Pipeline setup failed: %v", err)
				return err
			}

			spin := ui.NewSpinner("Thinking...")
			if spin != nil {
				spin.Start()
			}

			result, err := p.Answer(cmd.Context(), question)

			if spin != nil {
				spin.Stop()
			}

			if err != nil {
				ui.Error("Answer failed: %v", err)
				return err
			}

			if outputJSON {
				return json.NewEncoder(os.Stdout).Encode(result)
			}

			fmt.Println(result.Response)
			if len(result.Sources) > 0 {
				fmt.Println()
				color.New(color.FgCyan).Println("Sources:")
				for _, src := range result.Sources {
					fmt.Printf("  - %s\n", src.Title)
				}
			}
			return nil
		},
	}

	return cmd
}

// buildPipeline assembles the answer pipeline from configuration.
func buildPipeline() (*pipeline.Pipeline, error) {
	embedder, err := embedding.NewClient(embedding.Config{
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		BaseURL:   cfg.Embedding.BaseURL,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("create embedding client: %w", err)
	}

	idx := index.NewMemoryIndex(embedder, index.Options{
		Cache:    cache.NewMemoryClient(cfg.Cache.MaxEntries),
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})
	if err := idx.LoadSnapshot(cfg.Index.SnapshotPath); err != nil {
		return nil, fmt.Errorf("load index snapshot (run 'chatbotctl ingest' first): %w", err)
	}

	var fetcher pipeline.CatalogFetcher
	if catalogClient, err := catalog.NewClient(catalog.Config{
		URL:     cfg.Catalog.URL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	}); err == nil {
		fetcher = catalogClient
	}

	var primary, secondary llm.Provider
	if cfg.Generation.Ollama.Enabled {
		if client, err := llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL: cfg.Generation.Ollama.BaseURL,
			Model:   cfg.Generation.Ollama.Model,
			Timeout: cfg.Generation.Ollama.Timeout,
		}); err == nil {
			secondary = client
		}
	}

	if cfg.Generation.Provider == "ollama" {
		primary, secondary = secondary, nil
	} else {
		if client, err := llm.NewCloudflareClient(llm.CloudflareConfig{
			AccountID: cfg.Generation.Cloudflare.AccountID,
			APIToken:  cfg.Generation.Cloudflare.APIToken,
			Model:     cfg.Generation.Cloudflare.Model,
			Timeout:   cfg.Generation.Cloudflare.Timeout,
		}); err == nil {
			primary = client
		}
	}

	chain := llm.NewChain(llm.ChainConfig{
		Primary:        primary,
		Secondary:      secondary,
		MinAnswerChars: cfg.Generation.MinAnswerChars,
		Logger:         logger.WithComponent("generation"),
	})

	return pipeline.New(pipeline.Options{
		Searcher:        idx,
		Rewriter:        pipeline.NewRewriter(secondary, cfg.Retrieval.RewriteEnabled, logger.WithComponent("rewrite")),
		Classifier:      catalog.NewClassifier(cfg.Catalog.Keywords),
		Fetcher:         fetcher,
		Chain:           chain,
		BusinessName:    cfg.Assistant.BusinessName,
		TopK:            cfg.Retrieval.TopK,
		FetchK:          cfg.Retrieval.FetchK,
		MaxContextChars: cfg.Retrieval.MaxContextChars,
		Logger:          logger.WithComponent("pipeline"),
	}), nil
}
