package server

import (
	"encoding/json"
	"net/http"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

const contentTypeJSON = "application/json; charset=utf-8"

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeOAuthError renders err as {error, error_description?} with its status.
// Errors that are not OAuth errors become server_error.
func writeOAuthError(w http.ResponseWriter, err error) {
	oauthErr := errors.AsOAuthError(err)
	status := oauthErr.Status
	if status == 0 {
		status = http.StatusBadRequest
	}
	writeJSON(w, status, oauthErr)
}

// HealthHandler reports the service name and version.
func (s *Server) HealthHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{
			"name":    s.config.GetAppName(),
			"version": s.config.GetAppVersion(),
			"status":  "ok",
		})
	}
}

func notImplementedHandler(message string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotImplemented, map[string]string{"error": message})
	}
}
