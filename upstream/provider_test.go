package upstream_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2/github"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
	"github.com/jrsteele09/mcp-oauth-broker/upstream"
)

const (
	testClientID     = "gh-client"
	testClientSecret = "gh-secret"
	testRedirectURL  = "https://broker.example.com/oauth/callback"
)

func baseConfig() upstream.Config {
	return upstream.Config{
		ClientID:     testClientID,
		ClientSecret: testClientSecret,
		RedirectURL:  testRedirectURL,
		Scopes:       "repo,read:user",
	}
}

// tokenServer answers the token endpoint with the given status and JSON body,
// recording the form it received.
func tokenServer(t *testing.T, status int, body map[string]any, received *url.Values) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, r.ParseForm())
		if received != nil {
			*received = r.PostForm
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_ = json.NewEncoder(w).Encode(body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func explicitProvider(t *testing.T, tokenURL string) *upstream.Provider {
	t.Helper()
	cfg := baseConfig()
	cfg.AuthURL = "https://upstream.example.com/authorize"
	cfg.TokenURL = tokenURL
	p, err := upstream.New(context.Background(), cfg)
	require.NoError(t, err)
	return p
}

func TestNew_DefaultsToGitHub(t *testing.T) {
	p, err := upstream.New(context.Background(), baseConfig())
	require.NoError(t, err)
	require.Equal(t, github.Endpoint.AuthURL, p.Endpoint().AuthURL)
	require.Equal(t, github.Endpoint.TokenURL, p.Endpoint().TokenURL)
}

func TestNew_Validation(t *testing.T) {
	cfg := baseConfig()
	cfg.ClientSecret = ""
	_, err := upstream.New(context.Background(), cfg)
	require.ErrorIs(t, err, errors.ErrMissingConfig)

	cfg = baseConfig()
	cfg.RedirectURL = ""
	_, err = upstream.New(context.Background(), cfg)
	require.ErrorIs(t, err, errors.ErrMissingConfig)

	cfg = baseConfig()
	cfg.AuthURL = "https://upstream.example.com/authorize"
	_, err = upstream.New(context.Background(), cfg)
	require.ErrorIs(t, err, errors.ErrMissingConfig)
}

func TestAuthCodeURL(t *testing.T) {
	p, err := upstream.New(context.Background(), baseConfig())
	require.NoError(t, err)

	u, err := url.Parse(p.AuthCodeURL("session-123"))
	require.NoError(t, err)
	require.Equal(t, "github.com", u.Host)
	require.Equal(t, "/login/oauth/authorize", u.Path)

	q := u.Query()
	require.Equal(t, testClientID, q.Get("client_id"))
	require.Equal(t, testRedirectURL, q.Get("redirect_uri"))
	require.Equal(t, "repo,read:user", q.Get("scope"))
	require.Equal(t, "session-123", q.Get("state"))
}

func TestExchange_Success(t *testing.T) {
	var form url.Values
	srv := tokenServer(t, http.StatusOK, map[string]any{"access_token": "U_TOKEN", "token_type": "bearer"}, &form)
	p := explicitProvider(t, srv.URL)

	credential, err := p.Exchange(context.Background(), "UP1")
	require.NoError(t, err)
	require.Equal(t, "U_TOKEN", credential)

	require.Equal(t, "UP1", form.Get("code"))
	require.Equal(t, testClientID, form.Get("client_id"))
	require.Equal(t, testClientSecret, form.Get("client_secret"))
	require.Equal(t, testRedirectURL, form.Get("redirect_uri"))
}

func TestExchange_UpstreamErrorPropagated(t *testing.T) {
	for name, status := range map[string]int{"200 with error": http.StatusOK, "400": http.StatusBadRequest} {
		t.Run(name, func(t *testing.T) {
			srv := tokenServer(t, status, map[string]any{
				"error":             "bad_verification_code",
				"error_description": "The code passed is incorrect or expired.",
			}, nil)
			p := explicitProvider(t, srv.URL)

			_, err := p.Exchange(context.Background(), "UP1")
			require.Error(t, err)

			var oauthErr *errors.OAuthError
			require.True(t, errors.As(err, &oauthErr))
			require.Equal(t, "bad_verification_code", oauthErr.Code)
			require.Equal(t, "The code passed is incorrect or expired.", oauthErr.Description)
			require.Equal(t, http.StatusBadRequest, oauthErr.Status)
		})
	}
}

func TestExchange_MissingAccessToken(t *testing.T) {
	srv := tokenServer(t, http.StatusOK, map[string]any{"token_type": "bearer"}, nil)
	p := explicitProvider(t, srv.URL)

	_, err := p.Exchange(context.Background(), "UP1")

	var oauthErr *errors.OAuthError
	require.True(t, errors.As(err, &oauthErr))
	require.Equal(t, "token_error", oauthErr.Code)
	require.Equal(t, "Failed to get access token", oauthErr.Description)
}

func TestExchange_TransportFailure(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	tokenURL := srv.URL
	srv.Close()
	p := explicitProvider(t, tokenURL)

	_, err := p.Exchange(context.Background(), "UP1")
	require.ErrorIs(t, err, errors.ErrUpstreamExchange)

	var oauthErr *errors.OAuthError
	require.False(t, errors.As(err, &oauthErr))
}

func TestExchange_ServerErrorWithoutBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	t.Cleanup(srv.Close)
	p := explicitProvider(t, srv.URL)

	_, err := p.Exchange(context.Background(), "UP1")

	var oauthErr *errors.OAuthError
	require.True(t, errors.As(err, &oauthErr))
	require.Equal(t, "token_error", oauthErr.Code)
	require.Equal(t, "Failed to get access token", oauthErr.Description)
}

func TestNew_OIDCDiscovery(t *testing.T) {
	var issuer string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/.well-known/openid-configuration", r.URL.Path)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"issuer":                 issuer,
			"authorization_endpoint": issuer + "/authorize",
			"token_endpoint":         issuer + "/token",
			"jwks_uri":               issuer + "/keys",
		})
	}))
	t.Cleanup(srv.Close)
	issuer = srv.URL

	cfg := baseConfig()
	cfg.Issuer = issuer
	cfg.HTTPClient = srv.Client()
	p, err := upstream.New(context.Background(), cfg)
	require.NoError(t, err)
	require.Equal(t, issuer+"/authorize", p.Endpoint().AuthURL)
	require.Equal(t, issuer+"/token", p.Endpoint().TokenURL)
}
