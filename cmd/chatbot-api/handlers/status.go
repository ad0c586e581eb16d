package handlers

import (
	"net/http"

	"github.com/thrive-wellness/chatbot-engine/internal/index"
)

// StatusHandler reports service health.
type StatusHandler struct {
	serviceName       string
	provider          string
	searcher          index.Searcher
	catalogConfigured bool
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler(serviceName, provider string, searcher index.Searcher, catalogConfigured bool) *StatusHandler {
	return &StatusHandler{
		serviceName:       serviceName,
		provider:          provider,
		searcher:          searcher,
		catalogConfigured: catalogConfigured,
	}
}

// StatusResponseDTO represents the health check payload.
type StatusResponseDTO struct {
	Status            string `json:"status"`
	Message           string `json:"message"`
	Provider          string `json:"provider"`
	IndexLoaded       bool   `json:"index_loaded"`
	CatalogConfigured bool   `json:"catalog_configured"`
}

// Status handles GET /.
func (h *StatusHandler) Status(w http.ResponseWriter, r *http.Request) {
	indexLoaded := h.searcher != nil && h.searcher.Len() > 0

	writeJSON(w, http.StatusOK, StatusResponseDTO{
		Status:            "online",
		Message:           h.serviceName + " Chatbot API",
		Provider:          h.provider,
		IndexLoaded:       indexLoaded,
		CatalogConfigured: h.catalogConfigured,
	})
}
