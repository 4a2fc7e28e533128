package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/clausewise/contract-engine/internal/observability"
	"github.com/clausewise/contract-engine/internal/query"
)

// AnalysisHandler handles contract risk analysis requests.
type AnalysisHandler struct {
	logger  *observability.Logger
	service *query.Service
}

// NewAnalysisHandler creates a new analysis handler.
func NewAnalysisHandler(logger *observability.Logger, service *query.Service) *AnalysisHandler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &AnalysisHandler{logger: logger, service: service}
}

// RiskDTO is one identified risk in the response.
type RiskDTO struct {
	Quote       string `json:"quote"`
	Explanation string `json:"explanation"`
}

// AnalysisResponseDTO is the response for an analysis request.
type AnalysisResponseDTO struct {
	SessionID string    `json:"sessionId"`
	Risks     []RiskDTO `json:"risks"`
}

// Analyze handles POST /api/v1/sessions/{sessionId}/analyze.
func (h *AnalysisHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionId")

	result, err := h.service.Analyze(r.Context(), sessionID)
	if err != nil {
		h.logger.Warn().Err(err).Str("session_id", sessionID).Msg("Analysis failed")
		writeDomainError(w, err)
		return
	}

	risks := make([]RiskDTO, 0, len(result.Risks))
	for _, risk := range result.Risks {
		risks = append(risks, RiskDTO{Quote: risk.Quote, Explanation: risk.Explanation})
	}

	writeJSON(w, http.StatusOK, AnalysisResponseDTO{
		SessionID: sessionID,
		Risks:     risks,
	})
}
