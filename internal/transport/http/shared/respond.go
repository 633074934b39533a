// Package shared centralizes JSON response envelopes so every module handler
// maps domain errors to HTTP identically.
package shared

import (
	"encoding/json"
	"errors"
	"net/http"

	dErrors "gatehouse/pkg/domain-errors"
)

// ErrorResponse is the JSON error envelope.
type ErrorResponse struct {
	Error   string         `json:"error"`
	Message string         `json:"message,omitempty"`
	Details map[string]any `json:"details,omitempty"`
}

// WriteJSON writes v as a JSON response with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteError translates a domain error into the JSON error envelope.
// Unclassified and internal errors collapse to a bare 500 so internals
// never leak to clients.
func WriteError(w http.ResponseWriter, err error) {
	code := dErrors.CodeOf(err)
	resp := ErrorResponse{Error: string(code)}
	var de *dErrors.Error
	if code != dErrors.CodeInternal && errors.As(err, &de) {
		resp.Message = de.Message
		resp.Details = de.Details
	}
	WriteJSON(w, dErrors.ToHTTPStatus(code), resp)
}
