package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmorales/notes-api/internal/domain"
)

// errorResponse is the JSON body returned on every failure path.
type errorResponse struct {
	Error errorDetail `json:"error"`
}

// errorDetail carries a machine-readable code and a human-readable message.
type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// writeJSON marshals v into the response with the given status code.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("encode response", "error", err)
	}
}

// writeNotFound writes a 404 with the supplied message. The caller supplies
// the message (e.g. "note not found") because the handler is the layer that
// knows what was being looked up.
func writeNotFound(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusNotFound, errorResponse{Error: errorDetail{Code: "not_found", Message: message}})
}

// writeValidation writes a 400 with the message extracted from a wrapped
// domain.ErrValidation error.
func writeValidation(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Code: "validation_error", Message: unwrapMessage(err)}})
}

// writeBadRequest writes a 400 for a request rejected before reaching the
// service layer (e.g. missing or malformed body, malformed id).
func writeBadRequest(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusBadRequest, errorResponse{Error: errorDetail{Code: "validation_error", Message: message}})
}

// writeServiceError maps a service error to the matching status code.
// Unexpected errors (storage failures and the like) are logged here and
// surfaced as an opaque 500 — they are not locally recoverable.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error, notFoundMessage string) {
	switch {
	case errors.Is(err, domain.ErrNotFound):
		writeNotFound(w, notFoundMessage)
	case errors.Is(err, domain.ErrValidation):
		writeValidation(w, err)
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, errorResponse{Error: errorDetail{Code: "conflict", Message: "note was modified concurrently"}})
	default:
		slog.ErrorContext(r.Context(), "internal error", "method", r.Method, "path", r.URL.Path, "error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: errorDetail{Code: "internal_error", Message: "internal server error"}})
	}
}

// unwrapMessage extracts the human-readable part from a wrapped sentinel error.
// e.g. "service.NoteService.Create: validation error: title is required" → "title is required"
func unwrapMessage(err error) string {
	if err == nil {
		return ""
	}
	msg := err.Error()
	if i := strings.LastIndex(msg, "validation error: "); i >= 0 {
		return msg[i+len("validation error: "):]
	}
	return msg
}
