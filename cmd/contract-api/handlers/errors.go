// Package handlers provides HTTP handlers for the Contract Engine API.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/clausewise/contract-engine/internal/domain"
)

// errorResponse is the uniform error body for all endpoints.
type errorResponse struct {
	Error  string `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// writeError serializes an error response with the given status.
func writeError(w http.ResponseWriter, status int, message, detail string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorResponse{Error: message, Detail: detail})
}

// writeDomainError maps a domain error to its HTTP status. Generation
// failures are 502 rather than 500: the fault is upstream and the request is
// safe to retry.
func writeDomainError(w http.ResponseWriter, err error) {
	status := http.StatusInternalServerError

	var de *domain.DomainError
	if errors.As(err, &de) {
		switch de.Type {
		case domain.ErrorTypeSessionNotFound:
			status = http.StatusNotFound
		case domain.ErrorTypeValidation:
			status = http.StatusBadRequest
		case domain.ErrorTypeExtraction:
			status = http.StatusUnprocessableEntity
		case domain.ErrorTypeGeneration:
			status = http.StatusBadGateway
		}
		writeError(w, status, de.Message, "")
		return
	}

	writeError(w, status, "internal error", err.Error())
}

// writeJSON serializes a success response.
func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
