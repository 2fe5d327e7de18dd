package server

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

type ContextKey string

const UpstreamCredentialKey ContextKey = "upstream_credential"

// UpstreamCredential returns the upstream access token recovered from a
// verified bearer token.
func UpstreamCredential(ctx context.Context) (string, bool) {
	credential, ok := ctx.Value(UpstreamCredentialKey).(string)
	return credential, ok && credential != ""
}

// RequireBearer rejects requests without a valid broker access token.
func (s *Server) RequireBearer() func(http.HandlerFunc) http.HandlerFunc {
	return func(next http.HandlerFunc) http.HandlerFunc {
		return func(w http.ResponseWriter, r *http.Request) {
			rawToken, ok := bearerToken(r.Header.Get("Authorization"))
			if !ok {
				s.metrics.BearerChecks.WithLabelValues("missing").Inc()
				s.unauthorized(w)
				return
			}

			claims, err := s.verifier.Verify(rawToken)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("bearer token rejected")
				s.metrics.BearerChecks.WithLabelValues("invalid").Inc()
				s.unauthorized(w)
				return
			}

			s.metrics.BearerChecks.WithLabelValues(resultOK).Inc()
			ctx := context.WithValue(r.Context(), UpstreamCredentialKey, claims.UpstreamCredential)
			next(w, r.WithContext(ctx))
		}
	}
}

func (s *Server) unauthorized(w http.ResponseWriter) {
	w.Header().Set("WWW-Authenticate", fmt.Sprintf("Bearer resource=%q", s.baseURL()))
	writeOAuthError(w, errors.Unauthorized())
}

func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
