// Package upstream is the broker's confidential OAuth client for the upstream
// identity provider (GitHub unless configured otherwise).
package upstream

import (
	"context"
	"net/http"
	"strings"

	"github.com/coreos/go-oidc/v3/oidc"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/github"

	brokererrors "github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

const exchangeFailedDescription = "Failed to get access token"

// Config describes the broker's registration with the upstream provider.
type Config struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string // The broker's /oauth/callback
	Scopes       string // Sent verbatim, e.g. "repo,read:user"

	// Issuer selects an OIDC provider whose endpoints are discovered.
	// It takes precedence over AuthURL and TokenURL.
	Issuer string

	// AuthURL and TokenURL override the GitHub endpoints. Both must be set.
	AuthURL  string
	TokenURL string

	// HTTPClient is used for discovery and the code exchange. Defaults to http.DefaultClient.
	HTTPClient *http.Client
}

type Provider struct {
	config     *oauth2.Config
	httpClient *http.Client
}

func New(ctx context.Context, cfg Config) (*Provider, error) {
	if cfg.ClientID == "" || cfg.ClientSecret == "" {
		return nil, errors.Wrap(brokererrors.ErrMissingConfig, "[upstream.New] client id and secret are required")
	}
	if cfg.RedirectURL == "" {
		return nil, errors.Wrap(brokererrors.ErrMissingConfig, "[upstream.New] redirect url is required")
	}

	p := &Provider{httpClient: cfg.HTTPClient}
	endpoint, err := p.resolveEndpoint(ctx, cfg)
	if err != nil {
		return nil, err
	}

	var scopes []string
	if cfg.Scopes != "" {
		scopes = []string{cfg.Scopes}
	}

	p.config = &oauth2.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		Endpoint:     endpoint,
		RedirectURL:  cfg.RedirectURL,
		Scopes:       scopes,
	}
	return p, nil
}

func (p *Provider) resolveEndpoint(ctx context.Context, cfg Config) (oauth2.Endpoint, error) {
	switch {
	case cfg.Issuer != "":
		provider, err := oidc.NewProvider(p.clientContext(ctx), cfg.Issuer)
		if err != nil {
			return oauth2.Endpoint{}, errors.Wrapf(err, "[upstream.New] discover %s", cfg.Issuer)
		}
		return provider.Endpoint(), nil

	case cfg.AuthURL != "" || cfg.TokenURL != "":
		if cfg.AuthURL == "" || cfg.TokenURL == "" {
			return oauth2.Endpoint{}, errors.Wrap(brokererrors.ErrMissingConfig, "[upstream.New] both auth and token urls are required")
		}
		return oauth2.Endpoint{
			AuthURL:   cfg.AuthURL,
			TokenURL:  cfg.TokenURL,
			AuthStyle: oauth2.AuthStyleInParams,
		}, nil

	default:
		return github.Endpoint, nil
	}
}

// AuthCodeURL returns the upstream authorization URL carrying state.
func (p *Provider) AuthCodeURL(state string) string {
	return p.config.AuthCodeURL(state)
}

// Endpoint returns the resolved upstream endpoints.
func (p *Provider) Endpoint() oauth2.Endpoint {
	return p.config.Endpoint
}

// Exchange trades an upstream authorization code for the upstream access
// token. A response from the token endpoint that carries no token becomes an
// *errors.OAuthError with the upstream's error code and description, or
// token_error when it reported none. Transport failures wrap
// errors.ErrUpstreamExchange.
func (p *Provider) Exchange(ctx context.Context, code string) (string, error) {
	tok, err := p.config.Exchange(p.clientContext(ctx), code)
	if err != nil {
		log.Warn().Err(err).Msg("upstream code exchange failed")

		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			return "", exchangeError(retrieveErr)
		}
		return "", errors.Wrap(brokererrors.ErrUpstreamExchange, err.Error())
	}
	if strings.TrimSpace(tok.AccessToken) == "" {
		return "", brokererrors.Upstream(brokererrors.CodeUpstreamTokenError, exchangeFailedDescription)
	}
	return tok.AccessToken, nil
}

func (p *Provider) clientContext(ctx context.Context) context.Context {
	if p.httpClient == nil {
		return ctx
	}
	return context.WithValue(ctx, oauth2.HTTPClient, p.httpClient)
}

func exchangeError(retrieveErr *oauth2.RetrieveError) *brokererrors.OAuthError {
	code := brokererrors.CodeUpstreamTokenError
	if retrieveErr.ErrorCode != "" {
		code = retrieveErr.ErrorCode
	}
	description := exchangeFailedDescription
	if retrieveErr.ErrorDescription != "" {
		description = retrieveErr.ErrorDescription
	}
	return brokererrors.Upstream(code, description)
}
