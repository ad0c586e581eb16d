// Package main provides the chatbot API server entrypoint.
package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/thrive-wellness/chatbot-engine/internal/cache"
	"github.com/thrive-wellness/chatbot-engine/internal/catalog"
	"github.com/thrive-wellness/chatbot-engine/internal/config"
	"github.com/thrive-wellness/chatbot-engine/internal/embedding"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
	"github.com/thrive-wellness/chatbot-engine/internal/ingest"
	"github.com/thrive-wellness/chatbot-engine/internal/llm"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
	"github.com/thrive-wellness/chatbot-engine/internal/pipeline"
)

func main() {
	// Local development convenience; missing .env is fine.
	_ = godotenv.Load()

	cfgPath := os.Getenv("CONFIG_PATH")
	if len(os.Args) > 2 && os.Args[1] == "--config" {
		cfgPath = os.Args[2]
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load config: %v\n", err)
		os.Exit(1)
	}

	logger := observability.NewLogger(observability.LogConfig{
		Level:       cfg.Observability.LogLevel,
		Format:      cfg.Observability.LogFormat,
		ServiceName: cfg.Observability.ServiceName,
	})

	logger.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("provider", cfg.Generation.Provider).
		Bool("catalog", cfg.CatalogConfigured()).
		Msg("Starting chatbot API")

	deps := buildDeps(cfg, logger)

	router := NewRouter(logger, cfg, deps)

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info().Str("addr", addr).Msg("HTTP server listening")
		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		logger.Error().Err(err).Msg("Server error")
	case sig := <-shutdown:
		logger.Info().Str("signal", sig.String()).Msg("Shutdown signal received")
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.GracefulShutdown)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error().Err(err).Msg("Graceful shutdown failed")
		if err := srv.Close(); err != nil {
			logger.Error().Err(err).Msg("Forced shutdown failed")
		}
	}

	logger.Info().Msg("Server stopped")
}

// buildDeps initializes the process-wide collaborators. A failed optional
// dependency (catalog, secondary provider) degrades to nil; a missing index
// leaves the searcher nil and requests are rejected until it is rebuilt.
func buildDeps(cfg *config.Config, logger *observability.Logger) Deps {
	cacheClient := buildCache(cfg, logger)

	searcher := buildIndex(cfg, logger, cacheClient)

	var fetcher pipeline.CatalogFetcher
	catalogClient, err := catalog.NewClient(catalog.Config{
		URL:     cfg.Catalog.URL,
		APIKey:  cfg.Catalog.APIKey,
		Timeout: cfg.Catalog.Timeout,
	})
	if err != nil {
		logger.Warn().Err(err).Msg("Live catalog disabled")
	} else {
		fetcher = catalogClient
	}

	primary, secondary := buildProviders(cfg, logger)

	chain := llm.NewChain(llm.ChainConfig{
		Primary:        primary,
		Secondary:      secondary,
		MinAnswerChars: cfg.Generation.MinAnswerChars,
		Logger:         logger.WithComponent("generation"),
	})

	// Rewrites go through the local provider; a nil provider disables them.
	rewriter := pipeline.NewRewriter(secondary, cfg.Retrieval.RewriteEnabled, logger.WithComponent("rewrite"))

	p := pipeline.New(pipeline.Options{
		Searcher:        searcher,
		Rewriter:        rewriter,
		Classifier:      catalog.NewClassifier(cfg.Catalog.Keywords),
		Fetcher:         fetcher,
		Chain:           chain,
		BusinessName:    cfg.Assistant.BusinessName,
		TopK:            cfg.Retrieval.TopK,
		FetchK:          cfg.Retrieval.FetchK,
		MaxContextChars: cfg.Retrieval.MaxContextChars,
		Logger:          logger.WithComponent("pipeline"),
	})

	return Deps{Pipeline: p, Searcher: searcher, Fetcher: fetcher}
}

func buildCache(cfg *config.Config, logger *observability.Logger) cache.Client {
	if cfg.Cache.Driver == "redis" {
		redisClient, err := cache.NewRedisClient(cache.RedisConfig{
			Addr:     cfg.Cache.Redis.Addr,
			Password: cfg.Cache.Redis.Password,
			DB:       cfg.Cache.Redis.DB,
			PoolSize: cfg.Cache.Redis.PoolSize,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Redis unavailable, falling back to in-memory cache")
		} else {
			return redisClient
		}
	}
	return cache.NewMemoryClient(cfg.Cache.MaxEntries)
}

func buildIndex(cfg *config.Config, logger *observability.Logger, cacheClient cache.Client) index.Searcher {
	embedder, err := embedding.NewClient(embedding.Config{
		APIKey:    cfg.Embedding.APIKey,
		Model:     cfg.Embedding.Model,
		BaseURL:   cfg.Embedding.BaseURL,
		Dimension: cfg.Embedding.Dimension,
		Timeout:   cfg.Embedding.Timeout,
	})
	if err != nil {
		logger.Error().Err(err).Msg("Embedding client unavailable, semantic index disabled")
		return nil
	}

	idx := index.NewMemoryIndex(embedder, index.Options{
		Cache:    cacheClient,
		CacheTTL: cfg.Cache.TTL,
		Logger:   logger,
	})

	if err := idx.LoadSnapshot(cfg.Index.SnapshotPath); err == nil {
		logger.Info().Str("path", cfg.Index.SnapshotPath).Int("passages", idx.Len()).Msg("Loaded index snapshot")
		return idx
	} else if !cfg.Index.AutoBuild {
		logger.Error().Err(err).Msg("Index snapshot missing and auto-build disabled")
		return nil
	}

	logger.Warn().Str("path", cfg.Index.SnapshotPath).Msg("Index snapshot missing, rebuilding from knowledge base")

	entries, err := ingest.LoadKnowledgeBase(cfg.Index.KnowledgePath)
	if err != nil {
		logger.Error().Err(err).Msg("Knowledge base unavailable, semantic index disabled")
		return nil
	}

	builder := ingest.NewBuilder(logger, embedder, ingest.BuilderConfig{
		BatchSize: cfg.Embedding.BatchSize,
	})

	snapshot, err := builder.Build(context.Background(), entries)
	if err != nil {
		logger.Error().Err(err).Msg("Index build failed, semantic index disabled")
		return nil
	}

	if err := ingest.WriteSnapshot(snapshot, cfg.Index.SnapshotPath); err != nil {
		logger.Warn().Err(err).Msg("Failed to persist rebuilt index snapshot")
	}

	if err := idx.LoadEntries(snapshot.Entries); err != nil {
		logger.Error().Err(err).Msg("Failed to load rebuilt index")
		return nil
	}

	logger.Info().Int("passages", idx.Len()).Msg("Rebuilt index from knowledge base")
	return idx
}

func buildProviders(cfg *config.Config, logger *observability.Logger) (primary, secondary llm.Provider) {
	var ollamaClient llm.Provider
	if cfg.Generation.Ollama.Enabled {
		client, err := llm.NewOllamaClient(llm.OllamaConfig{
			BaseURL: cfg.Generation.Ollama.BaseURL,
			Model:   cfg.Generation.Ollama.Model,
			Timeout: cfg.Generation.Ollama.Timeout,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Ollama provider unavailable")
		} else {
			ollamaClient = client
		}
	}

	switch cfg.Generation.Provider {
	case "ollama":
		return ollamaClient, nil
	default:
		cfClient, err := llm.NewCloudflareClient(llm.CloudflareConfig{
			AccountID: cfg.Generation.Cloudflare.AccountID,
			APIToken:  cfg.Generation.Cloudflare.APIToken,
			Model:     cfg.Generation.Cloudflare.Model,
			Timeout:   cfg.Generation.Cloudflare.Timeout,
		})
		if err != nil {
			logger.Warn().Err(err).Msg("Cloudflare provider unavailable")
			return ollamaClient, nil
		}
		return cfClient, ollamaClient
	}
}
