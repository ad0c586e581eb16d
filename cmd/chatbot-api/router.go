// Package main provides the API router setup.
package main

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/thrive-wellness/chatbot-engine/cmd/chatbot-api/handlers"
	"github.com/thrive-wellness/chatbot-engine/cmd/chatbot-api/middleware"
	"github.com/thrive-wellness/chatbot-engine/internal/config"
	"github.com/thrive-wellness/chatbot-engine/internal/index"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
	"github.com/thrive-wellness/chatbot-engine/internal/pipeline"
)

// Deps holds the initialized collaborators the router serves.
type Deps struct {
	Pipeline *pipeline.Pipeline
	Searcher index.Searcher
	Fetcher  pipeline.CatalogFetcher // nil when the catalog is not configured
}

// NewRouter creates the main API router with all routes configured.
func NewRouter(logger *observability.Logger, cfg *config.Config, deps Deps) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(middleware.CORS(cfg.Server.AllowedOrigins))
	r.Use(chimiddleware.Timeout(cfg.Server.ReadTimeout))

	statusHandler := handlers.NewStatusHandler(
		cfg.Assistant.BusinessName,
		cfg.Generation.Provider,
		deps.Searcher,
		cfg.CatalogConfigured(),
	)
	chatHandler := handlers.NewChatHandler(logger, deps.Pipeline)
	productsHandler := handlers.NewProductsHandler(logger, deps.Fetcher)

	r.Get("/", statusHandler.Status)
	r.Get("/products", productsHandler.List)
	r.Post("/chat", chatHandler.Chat)

	return r
}
