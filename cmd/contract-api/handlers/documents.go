package handlers

import (
	"io"
	"net/http"

	"github.com/clausewise/contract-engine/internal/domain"
	"github.com/clausewise/contract-engine/internal/extract"
	"github.com/clausewise/contract-engine/internal/observability"
	"github.com/clausewise/contract-engine/internal/session"
)

// DocumentHandler handles PDF upload and extraction requests.
type DocumentHandler struct {
	logger         *observability.Logger
	cascade        *extract.Cascade
	sessions       session.Store
	maxUploadBytes int64
}

// NewDocumentHandler creates a new document handler.
func NewDocumentHandler(logger *observability.Logger, cascade *extract.Cascade, sessions session.Store, maxUploadBytes int64) *DocumentHandler {
	if logger == nil {
		logger = observability.Nop()
	}
	return &DocumentHandler{
		logger:         logger,
		cascade:        cascade,
		sessions:       sessions,
		maxUploadBytes: maxUploadBytes,
	}
}

// UploadResponseDTO is the response for a successful ingestion.
type UploadResponseDTO struct {
	SessionID   string `json:"sessionId"`
	SourceLayer string `json:"sourceLayer"`
	TextLength  int    `json:"textLength"`
}

// Upload handles POST /api/v1/documents. The uploaded PDF runs through the
// extraction cascade; a session is created only for a successful extraction,
// so a returned id always refers to usable document text.
func (h *DocumentHandler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadBytes)
	if err := r.ParseMultipartForm(h.maxUploadBytes); err != nil {
		writeError(w, http.StatusBadRequest, "invalid multipart form", err.Error())
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		writeError(w, http.StatusBadRequest, "file field is required", err.Error())
		return
	}
	defer file.Close()

	raw, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "read upload", err.Error())
		return
	}
	if len(raw) == 0 {
		writeError(w, http.StatusBadRequest, "uploaded file is empty", "")
		return
	}

	h.logger.Info().
		Str("filename", header.Filename).
		Int("bytes", len(raw)).
		Msg("Document received")

	result, err := h.cascade.Extract(ctx, raw)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	if !result.Success {
		writeDomainError(w, domain.ExtractionFailure("could not extract readable text from document", nil))
		return
	}

	sessionID, err := h.sessions.Create(ctx, result.Text)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "create session", err.Error())
		return
	}

	h.logger.Info().
		Str("session_id", sessionID).
		Str("layer", string(result.Layer)).
		Int("chars", len(result.Text)).
		Msg("Document ingested")

	writeJSON(w, http.StatusCreated, UploadResponseDTO{
		SessionID:   sessionID,
		SourceLayer: string(result.Layer),
		TextLength:  len(result.Text),
	})
}
