package server

import (
	"encoding/json"
	"io"
	"mime"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/mcp-oauth-broker/clients"
	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
	"github.com/jrsteele09/mcp-oauth-broker/oauthmodel"
)

const maxBodyBytes = 1 << 20

// AuthorizeHandler starts the flow and redirects the user agent upstream.
func (s *Server) AuthorizeHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := &oauthmodel.AuthorizationParameters{
			ClientID:            q.Get("client_id"),
			RedirectURI:         q.Get("redirect_uri"),
			State:               q.Get("state"),
			CodeChallenge:       q.Get("code_challenge"),
			CodeChallengeMethod: oauthmodel.CodeMethodType(q.Get("code_challenge_method")),
		}

		upstreamURL, err := s.broker.Authorize(r.Context(), params)
		s.metrics.Authorizations.WithLabelValues(resultLabel(err)).Inc()
		if err != nil {
			writeOAuthError(w, err)
			return
		}
		http.Redirect(w, r, upstreamURL, http.StatusFound)
	}
}

// CallbackHandler receives the upstream redirect and sends the user agent
// back to the client with a broker authorization code.
func (s *Server) CallbackHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		params := &oauthmodel.CallbackParameters{
			Code:             q.Get("code"),
			State:            q.Get("state"),
			Error:            q.Get("error"),
			ErrorDescription: q.Get("error_description"),
		}

		clientURL, err := s.broker.Callback(r.Context(), params)
		s.metrics.Callbacks.WithLabelValues(resultLabel(err)).Inc()
		if err != nil {
			writeOAuthError(w, err)
			return
		}
		http.Redirect(w, r, clientURL, http.StatusFound)
	}
}

// TokenHandler redeems a broker authorization code for an access token.
func (s *Server) TokenHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "no-store")
		w.Header().Set("Pragma", "no-cache")

		req, err := parseTokenRequest(w, r)
		if err != nil {
			s.metrics.TokenRequests.WithLabelValues(errors.CodeInvalidRequest).Inc()
			writeOAuthError(w, errors.InvalidRequest(err.Error()))
			return
		}

		resp, err := s.broker.Token(r.Context(), req)
		s.metrics.TokenRequests.WithLabelValues(resultLabel(err)).Inc()
		if err != nil {
			writeOAuthError(w, err)
			return
		}
		writeJSON(w, http.StatusOK, resp)
	}
}

// parseTokenRequest reads a JSON body when the request says so and treats
// anything else as a form.
func parseTokenRequest(w http.ResponseWriter, r *http.Request) (*oauthmodel.TokenRequest, error) {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		req := &oauthmodel.TokenRequest{}
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			return nil, errors.Wrapf(err, "malformed JSON body")
		}
		return req, nil
	}

	if err := r.ParseForm(); err != nil {
		return nil, errors.Wrapf(err, "malformed form body")
	}
	return &oauthmodel.TokenRequest{
		GrantType:    oauthmodel.GrantType(r.PostForm.Get("grant_type")),
		Code:         r.PostForm.Get("code"),
		CodeVerifier: r.PostForm.Get("code_verifier"),
		ClientID:     r.PostForm.Get("client_id"),
		RedirectURI:  r.PostForm.Get("redirect_uri"),
	}, nil
}

// RegisterHandler answers dynamic client registration. An empty or
// unreadable body registers a client with default metadata.
func (s *Server) RegisterHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req clients.RegistrationRequest
		err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&req)
		if err != nil && err != io.EOF {
			log.Debug().Err(err).Msg("ignoring client registration body")
			req = clients.RegistrationRequest{}
		}

		client, err := s.registrar.Register(req)
		if err != nil {
			log.Error().Err(err).Msg("client registration failed")
			writeOAuthError(w, errors.ServerError(""))
			return
		}
		s.metrics.ClientsRegistered.Inc()
		writeJSON(w, http.StatusOK, client)
	}
}

// MCPHandler hands verified requests to the mounted MCP dispatcher.
func (s *Server) MCPHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		s.mcpHandler.ServeHTTP(w, r)
	}
}
