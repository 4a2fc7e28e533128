package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/clausewise/contract-engine/internal/observability"
	"github.com/clausewise/contract-engine/internal/query"
)

// RewriteHandler handles stateless clause rewriting.
type RewriteHandler struct {
	logger  *observability.Logger
	service *query.Service
}

// NewRewriteHandler creates a new rewrite handler.
func NewRewriteHandler(logger *observability.Logger, service *query.Service) *RewriteHandler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &RewriteHandler{logger: logger, service: service}
}

// RewriteRequestDTO is the request body for a rewrite.
type RewriteRequestDTO struct {
	Clause string `json:"clauseText"`
}

// RewriteResponseDTO is the response for a rewrite.
type RewriteResponseDTO struct {
	RewrittenText string `json:"rewrittenText"`
}

// Rewrite handles POST /api/v1/rewrite. No session is involved.
func (h *RewriteHandler) Rewrite(w http.ResponseWriter, r *http.Request) {
	var req RewriteRequestDTO
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	result, err := h.service.Rewrite(r.Context(), req.Clause)
	if err != nil {
		h.logger.Warn().Err(err).Msg("Rewrite failed")
		writeDomainError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, RewriteResponseDTO{RewrittenText: result.RewrittenText})
}
