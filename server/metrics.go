package server

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

const (
	metricsNamespace = "mcp_broker"
	resultOK         = "ok"
	resultUpstream   = "upstream_error"
)

// Metrics counts flow outcomes per endpoint. The result label is "ok" or the
// OAuth error code returned to the client.
type Metrics struct {
	Authorizations    *prometheus.CounterVec
	Callbacks         *prometheus.CounterVec
	TokenRequests     *prometheus.CounterVec
	BearerChecks      *prometheus.CounterVec
	ClientsRegistered prometheus.Counter
}

func NewMetrics(registerer prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		Authorizations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "authorizations_total",
			Help:      "Authorization requests by result.",
		}, []string{"result"}),
		Callbacks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "callbacks_total",
			Help:      "Upstream callbacks by result.",
		}, []string{"result"}),
		TokenRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "token_requests_total",
			Help:      "Token requests by result.",
		}, []string{"result"}),
		BearerChecks: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "bearer_checks_total",
			Help:      "Bearer token verifications on the protected surface by result.",
		}, []string{"result"}),
		ClientsRegistered: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "clients_registered_total",
			Help:      "Dynamic client registrations.",
		}),
	}

	for _, c := range []prometheus.Collector{m.Authorizations, m.Callbacks, m.TokenRequests, m.BearerChecks, m.ClientsRegistered} {
		if err := registerer.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// resultLabel maps an outcome to a bounded label value. Error codes relayed
// from the upstream provider are folded into a single value.
func resultLabel(err error) string {
	if err == nil {
		return resultOK
	}
	switch code := errors.AsOAuthError(err).Code; code {
	case errors.CodeInvalidRequest, errors.CodeInvalidGrant, errors.CodeUnsupportedGrantType,
		errors.CodeServerError, errors.CodeUnauthorized:
		return code
	default:
		return resultUpstream
	}
}
