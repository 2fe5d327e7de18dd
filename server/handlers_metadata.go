package server

import (
	"net/http"
	"strings"

	"github.com/jrsteele09/mcp-oauth-broker/oauthmodel"
)

const scopeMCPTools = "mcp:tools"

func (s *Server) baseURL() string {
	return strings.TrimRight(s.config.GetBaseURL(), "/")
}

// ProtectedResourceMetadataHandler serves the RFC 9728 resource document.
func (s *Server) ProtectedResourceMetadataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := s.baseURL()
		writeJSON(w, http.StatusOK, oauthmodel.ProtectedResourceMetadata{
			Resource:               base,
			AuthorizationServers:   []string{base},
			ScopesSupported:        []string{scopeMCPTools},
			BearerMethodsSupported: []string{"header"},
		})
	}
}

// AuthorizationServerMetadataHandler serves the RFC 8414 discovery document.
func (s *Server) AuthorizationServerMetadataHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		base := s.baseURL()
		writeJSON(w, http.StatusOK, oauthmodel.AuthorizationServerMetadata{
			Issuer:                            base,
			AuthorizationEndpoint:             base + RouteOAuthAuthorize,
			TokenEndpoint:                     base + RouteOAuthToken,
			RegistrationEndpoint:              base + RouteOAuthRegister,
			ScopesSupported:                   []string{scopeMCPTools},
			ResponseTypesSupported:            []string{string(oauthmodel.CodeResponseType)},
			GrantTypesSupported:               []string{string(oauthmodel.AuthorizationCodeGrant)},
			TokenEndpointAuthMethodsSupported: []string{"none"},
			CodeChallengeMethodsSupported:     []string{string(oauthmodel.CodeMethodTypeS256)},
			ServiceDocumentation:              base + RouteDocs,
		})
	}
}
