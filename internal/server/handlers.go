package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"runtime/debug"

	"github.com/liuzifengxjj1028/chat-app-ai-summary/apimodels"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/claude"
	"github.com/liuzifengxjj1028/chat-app-ai-summary/internal/parser"
)

func (s *Server) handleParseChat(w http.ResponseWriter, r *http.Request) {
	defer r.Body.Close()

	var req apimodels.ParseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.handleParseError(w, r, fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := s.parser.Parse(r.Context(), req)
	if err != nil {
		s.handleParseError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(result); err != nil {
		slog.Debug("Failed to write parse response", "error", err)
	}
}

// handleParseError maps a parse failure to its status code and writes it.
func (s *Server) handleParseError(w http.ResponseWriter, r *http.Request, err error) {
	var apiErr *claude.APIError

	switch {
	case errors.Is(err, parser.ErrMissingText):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, parser.ErrMissingCredential):
		writeError(w, http.StatusInternalServerError, err.Error())
	case errors.As(err, &apiErr):
		writeError(w, apiErr.StatusCode, apiErr.Error())
	default:
		slog.Error("Claude API proxy error",
			"error", err,
			"path", r.URL.Path,
			"stack", string(debug.Stack()),
		)
		writeError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, apimodels.HealthResponse{Status: "ok"})
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, apimodels.ErrorResponse{Error: message})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}
