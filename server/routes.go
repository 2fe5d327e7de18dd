package server

import (
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func (s *Server) initRoutes() {
	s.RegisterRouteHandler("GET "+RouteHealth, ChainMiddleware(s.HealthHandler(), s.APIMiddleware()...))

	// Discovery
	s.RegisterRouteHandler("GET "+RouteWellKnownProtectedResource, ChainMiddleware(s.ProtectedResourceMetadataHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteWellKnownAuthorizationServer, ChainMiddleware(s.AuthorizationServerMetadataHandler(), s.APIMiddleware()...))

	// OAuth
	s.RegisterRouteHandler("GET "+RouteOAuthAuthorize, ChainMiddleware(s.AuthorizeHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("GET "+RouteOAuthCallback, ChainMiddleware(s.CallbackHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuthToken, ChainMiddleware(s.TokenHandler(), s.APIMiddleware()...))
	s.RegisterRouteHandler("POST "+RouteOAuthRegister, ChainMiddleware(s.RegisterHandler(), s.APIMiddleware()...))

	// MCP (requires a broker access token)
	s.RegisterRouteHandler("POST "+RouteMCP, ChainMiddleware(s.MCPHandler(), s.APIMiddleware(s.RequireBearer())...))
	s.RegisterRouteHandler("GET "+RouteMCPSSE, ChainMiddleware(notImplementedHandler("SSE not implemented, use POST /mcp"), s.APIMiddleware()...))

	s.RegisterRouteHandler("GET "+RouteMetrics, promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
}
