package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clausewise/contract-engine/internal/observability"
	"github.com/clausewise/contract-engine/internal/query"
)

// ChatHandler handles grounded question answering over a session.
type ChatHandler struct {
	logger  *observability.Logger
	service *query.Service
}

// NewChatHandler creates a new chat handler.
func NewChatHandler(logger *observability.Logger, service *query.Service) *ChatHandler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &ChatHandler{logger: logger, service: service}
}

// ChatRequestDTO is the request body for a chat turn.
type ChatRequestDTO struct {
	Query string `json:"query"`
}

// ChatResponseDTO is the response for a chat turn.
type ChatResponseDTO struct {
	SessionID string `json:"sessionId"`
	Query     string `json:"query"`
	Answer    string `json:"answer"`
}

// Chat handles POST /api/v1/sessions/{sessionId}/chat.
func (h *ChatHandler) Chat(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	var req ChatRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	turn, err := h.service.Chat(r.Context(), sessionID, req.Query)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Chat failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, ChatResponseDTO{
		SessionID: sessionID,
		Query:     turn.Query,
		Answer:    turn.Answer,
	})
}
