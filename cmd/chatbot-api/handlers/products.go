package handlers

import (
	"net/http"

	"github.com/thrive-wellness/chatbot-engine/internal/catalog"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
	"github.com/thrive-wellness/chatbot-engine/internal/pipeline"
)

// ProductsHandler proxies the live catalog listing.
type ProductsHandler struct {
	logger  *observability.Logger
	fetcher pipeline.CatalogFetcher
}

// NewProductsHandler creates a new products handler.
func NewProductsHandler(logger *observability.Logger, fetcher pipeline.CatalogFetcher) *ProductsHandler {
	return &ProductsHandler{logger: logger, fetcher: fetcher}
}

// ProductsResponseDTO represents the catalog listing payload.
type ProductsResponseDTO struct {
	Count    int              `json:"count"`
	Products []catalog.Record `json:"products"`
}

// List handles GET /products.
func (h *ProductsHandler) List(w http.ResponseWriter, r *http.Request) {
	if h.fetcher == nil {
		writeError(w, http.StatusServiceUnavailable, "catalog service not configured", "")
		return
	}

	records, err := h.fetcher.FetchAvailable(r.Context())
	if err != nil {
		h.logger.Error().Err(err).Msg("Catalog listing failed")
		writeError(w, http.StatusBadGateway, "catalog fetch failed", err.Error())
		return
	}

	if records == nil {
		records = []catalog.Record{}
	}

	writeJSON(w, http.StatusOK, ProductsResponseDTO{
		Count:    len(records),
		Products: records,
	})
}
