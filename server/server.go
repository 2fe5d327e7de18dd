package server

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"

	"github.com/jrsteele09/mcp-oauth-broker/auth"
	"github.com/jrsteele09/mcp-oauth-broker/clients"
	"github.com/jrsteele09/mcp-oauth-broker/internal/config"
	"github.com/jrsteele09/mcp-oauth-broker/token"
)

// TokenVerifier checks broker access tokens presented as bearer credentials.
type TokenVerifier interface {
	Verify(rawToken string) (*token.Claims, error)
}

type Server struct {
	env        string // Environment (e.g., "DEV", "PROD")
	mux        *http.ServeMux
	routes     []string
	config     config.Config
	broker     *auth.Broker
	verifier   TokenVerifier
	registrar  *clients.Registrar
	metrics    *Metrics
	registry   *prometheus.Registry
	mcpHandler http.Handler
}

type Option func(*Server)

// WithMCPHandler mounts the MCP dispatch handler behind bearer verification.
// The upstream credential is available to it through UpstreamCredential.
func WithMCPHandler(h http.Handler) Option {
	return func(s *Server) {
		s.mcpHandler = h
	}
}

// WithRegistry sets the Prometheus registry the broker metrics are
// registered with and served from.
func WithRegistry(registry *prometheus.Registry) Option {
	return func(s *Server) {
		s.registry = registry
	}
}

func WithRegistrar(registrar *clients.Registrar) Option {
	return func(s *Server) {
		s.registrar = registrar
	}
}

func New(config config.Config, broker *auth.Broker, verifier TokenVerifier, options ...Option) (*Server, error) {
	if config == nil {
		return nil, fmt.Errorf("[Server New] config is required")
	}
	if broker == nil {
		return nil, fmt.Errorf("[Server New] broker is required")
	}
	if verifier == nil {
		return nil, fmt.Errorf("[Server New] token verifier is required")
	}

	s := &Server{
		env:        config.GetEnv(),
		mux:        http.NewServeMux(),
		config:     config,
		broker:     broker,
		verifier:   verifier,
		registrar:  clients.NewRegistrar(),
		mcpHandler: notImplementedHandler("MCP dispatch is not configured"),
	}
	for _, opt := range options {
		opt(s)
	}
	if s.registry == nil {
		s.registry = prometheus.NewRegistry()
	}

	metrics, err := NewMetrics(s.registry)
	if err != nil {
		return nil, fmt.Errorf("[Server New] metrics: %w", err)
	}
	s.metrics = metrics

	s.initRoutes()
	s.logRoutes()

	return s, nil
}

// ServeHTTP answers CORS for every route, including preflight requests that
// match no method pattern, then dispatches on the mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.CorsMiddleware(s.mux.ServeHTTP)(w, r)
}

func (s *Server) RegisterRouteHandler(pattern string, handler http.Handler) {
	s.routes = append(s.routes, pattern)
	s.mux.Handle(pattern, handler)
}

func (s *Server) RegisterRouteFunc(pattern string, handler func(http.ResponseWriter, *http.Request)) {
	s.routes = append(s.routes, pattern)
	s.mux.HandleFunc(pattern, handler)
}

func (s *Server) logRoutes() {
	if s.env != "DEV" {
		return // Skip logging in non-development environments
	}
	for _, route := range s.routes {
		parts := strings.SplitN(route, " ", 2)

		if len(parts) > 1 {
			logRoute(parts[0], parts[1])
		} else {
			logRoute("", parts[0])
		}
	}
}

func logRoute(method, path string) {
	var displayMethod string
	paddedMethod := fmt.Sprintf(" %-7s", method)
	if color, ok := methodColors[method]; ok {
		displayMethod = color + paddedMethod + ResetColor
	} else {
		displayMethod = Gray + paddedMethod + ResetColor
	}
	log.Info().Msgf("[%-19s] %s", displayMethod, path)
}
