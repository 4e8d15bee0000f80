// Package httpapi exposes the catalog over a JSON HTTP API.
package httpapi

import (
	"encoding/json"
	"net/http"

	"github.com/fairyhunter13/inventory-risk-advisor/internal/model"
)

// jsonError represents a JSON error payload.
type jsonError struct {
	Error   string `json:"error"`
	Details string `json:"details,omitempty"`
	Field   string `json:"field,omitempty"`
}

// WriteJSONError writes a JSON error payload with the given status code.
func WriteJSONError(w http.ResponseWriter, status int, message, details string) {
	writeJSON(w, status, jsonError{Error: message, Details: details})
}

// writeValidationError reports a rejected input with its user-facing reason.
func writeValidationError(w http.ResponseWriter, ve *model.ValidationError) {
	writeJSON(w, http.StatusUnprocessableEntity, jsonError{Error: "validation_error", Details: ve.Reason, Field: ve.Field})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
