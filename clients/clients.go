// Package clients implements dynamic client registration (RFC 7591) as a
// stub. Every request is accepted and nothing is stored; clients are public
// and authenticate with PKCE only.
package clients

import (
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

const (
	DefaultClientName       = "MCP Client"
	TokenEndpointAuthMethod = "none"
)

// RegistrationRequest is the subset of RFC 7591 client metadata the stub reads.
type RegistrationRequest struct {
	ClientName   string   `json:"client_name,omitempty"`
	RedirectURIs []string `json:"redirect_uris,omitempty"`
}

// Client is the registration response.
type Client struct {
	ID                      string   `json:"client_id"`
	Name                    string   `json:"client_name"`
	RedirectURIs            []string `json:"redirect_uris"`
	GrantTypes              []string `json:"grant_types"`
	ResponseTypes           []string `json:"response_types"`
	TokenEndpointAuthMethod string   `json:"token_endpoint_auth_method"`
}

type Registrar struct {
	newID func() (uuid.UUID, error)
}

type RegistrarOption func(*Registrar)

// WithIDFunc sets the client ID generator (primarily for testing)
func WithIDFunc(newID func() (uuid.UUID, error)) RegistrarOption {
	return func(r *Registrar) {
		r.newID = newID
	}
}

func NewRegistrar(options ...RegistrarOption) *Registrar {
	r := &Registrar{newID: uuid.NewRandom}
	for _, opt := range options {
		opt(r)
	}
	return r
}

// Register returns a fresh public client for req. It never rejects a request.
func (r *Registrar) Register(req RegistrationRequest) (*Client, error) {
	id, err := r.newID()
	if err != nil {
		return nil, errors.Wrap(err, "[Registrar.Register] client id")
	}

	name := req.ClientName
	if name == "" {
		name = DefaultClientName
	}
	redirectURIs := req.RedirectURIs
	if redirectURIs == nil {
		redirectURIs = []string{}
	}

	return &Client{
		ID:                      id.String(),
		Name:                    name,
		RedirectURIs:            redirectURIs,
		GrantTypes:              []string{"authorization_code"},
		ResponseTypes:           []string{"code"},
		TokenEndpointAuthMethod: TokenEndpointAuthMethod,
	}, nil
}
