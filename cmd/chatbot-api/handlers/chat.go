// Package handlers provides HTTP handlers for the chatbot API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/thrive-wellness/chatbot-engine/internal/index"
	"github.com/thrive-wellness/chatbot-engine/internal/observability"
	"github.com/thrive-wellness/chatbot-engine/internal/pipeline"
)

// ChatHandler handles chat requests.
type ChatHandler struct {
	logger   *observability.Logger
	pipeline *pipeline.Pipeline
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, p *pipeline.Pipeline) *ChatHandler {
	return &ChatHandler{logger: logger, pipeline: p}
}

// ChatRequestDTO represents the API request for chat.
type ChatRequestDTO struct {
	Message string `json:"message"`
	// Accepted for forward compatibility; the pipeline is stateless per request.
	ConversationHistory []ConversationMessage `json:"conversation_history,omitempty"`
}

// ConversationMessage represents one prior conversation turn.
type ConversationMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatResponseDTO represents the API response for chat.
type ChatResponseDTO struct {
	Response string            `json:"response"`
	Sources  []pipeline.Source `json:"sources"`
}

// Chat handles POST /chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var reqDTO ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&reqDTO); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	if reqDTO.Message == "" {
		writeError(w, http.StatusBadRequest, "message is required", "")
		return
	}

	result, err := h.pipeline.Answer(ctx, reqDTO.Message)
	if err != nil {
		if errors.Is(err, index.ErrIndexUnavailable) {
			h.logger.Error().Err(err).Msg("Chat request rejected, index not loaded")
			writeError(w, http.StatusInternalServerError, "knowledge index not loaded", "")
			return
		}
		h.logger.Error().Err(err).Msg("Chat request failed")
		writeError(w, http.StatusInternalServerError, "chat failed", err.Error())
		return
	}

	sources := result.Sources
	if sources == nil {
		sources = []pipeline.Source{}
	}

	writeJSON(w, http.StatusOK, ChatResponseDTO{
		Response: result.Response,
		Sources:  sources,
	})
}

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message, detail string) {
	resp := map[string]string{
		"error":   message,
		"message": message,
	}
	if detail != "" {
		resp["detail"] = detail
	}
	writeJSON(w, status, resp)
}
