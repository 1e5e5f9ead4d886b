// Package handler provides HTTP request handlers.
package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/echoserve/echoserve/internal/handler/dto"
	"github.com/echoserve/echoserve/internal/store"
)

// Handler serves the routing fallbacks and the liveness root.
type Handler struct{}

// New creates a new Handler instance.
func New() *Handler {
	return &Handler{}
}

// Root is the liveness endpoint.
// GET /
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, dto.MessageResponse{Message: "EchoServe is running"})
}

// NotFound handles 404 responses.
func (h *Handler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusNotFound, "resource not found")
}

// MethodNotAllowed handles 405 responses.
func (h *Handler) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an ErrorResponse with the given status code.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, dto.ErrorResponse{Error: message})
}

// handleStoreError maps a store failure to an HTTP response. Malformed
// identifiers are the caller's fault; everything else is a 500 with a
// generic message.
func handleStoreError(w http.ResponseWriter, logger *slog.Logger, err error) {
	if errors.Is(err, store.ErrInvalidID) {
		writeError(w, http.StatusBadRequest, "invalid id format")
		return
	}
	logger.Error("store error", slog.String("error", err.Error()))
	writeError(w, http.StatusInternalServerError, "internal server error")
}
