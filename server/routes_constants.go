package server

// Route path constants
// All application routes are defined here to ensure consistency and prevent typos
const (
	RouteHealth = "/{$}"

	// Discovery (RFC 9728 / RFC 8414)
	RouteWellKnownProtectedResource   = "/.well-known/oauth-protected-resource"
	RouteWellKnownAuthorizationServer = "/.well-known/oauth-authorization-server"

	// OAuth Routes
	RouteOAuthAuthorize = "/oauth/authorize"
	RouteOAuthCallback  = "/oauth/callback"
	RouteOAuthToken     = "/oauth/token"
	RouteOAuthRegister  = "/oauth/register"

	// Protected MCP surface
	RouteMCP    = "/mcp"
	RouteMCPSSE = "/mcp/sse"

	RouteDocs    = "/docs"
	RouteMetrics = "/metrics"
)
