// Package auth implements the two-hop authorization code flow. The client
// runs PKCE against the broker while the broker runs a confidential code
// exchange against the upstream provider, and the upstream credential ends up
// inside a broker-signed access token.
package auth

import (
	"context"
	"net/url"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	brokererrors "github.com/jrsteele09/mcp-oauth-broker/internal/errors"
	"github.com/jrsteele09/mcp-oauth-broker/oauthmodel"
	"github.com/jrsteele09/mcp-oauth-broker/sessions"
)

const (
	defaultSessionTTL = 600 * time.Second
	defaultCodeTTL    = 300 * time.Second
	defaultScope      = "mcp:tools"
	tokenTypeBearer   = "Bearer"
)

// Upstream is the confidential client for the upstream provider.
type Upstream interface {
	// AuthCodeURL returns the upstream authorization URL carrying state.
	AuthCodeURL(state string) string

	// Exchange trades an upstream code for the upstream access token. An
	// *errors.OAuthError is passed to the client unchanged.
	Exchange(ctx context.Context, code string) (string, error)
}

// TokenMinter issues broker access tokens.
type TokenMinter interface {
	Mint(upstreamCredential string) (string, error)
	AccessTokenExpiry() time.Duration
}

// Broker holds the state-free logic of /oauth/authorize, /oauth/callback and
// /oauth/token. All flow state lives in the session repository.
type Broker struct {
	repo       *sessions.Repo
	upstream   Upstream
	tokens     TokenMinter
	ids        IDGenerator
	sessionTTL time.Duration
	codeTTL    time.Duration
	scope      string           // Scope reported in token responses
	nowTime    func() time.Time // nowTime function (injectable for testing)
}

// BrokerOption defines a function type to modify the Broker instance.
type BrokerOption func(*Broker)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) BrokerOption {
	return func(b *Broker) {
		b.nowTime = nowFunc
	}
}

func WithIDGenerator(ids IDGenerator) BrokerOption {
	return func(b *Broker) {
		b.ids = ids
	}
}

// WithLifetimes overrides the session and authorization code TTLs.
func WithLifetimes(sessionTTL, codeTTL time.Duration) BrokerOption {
	return func(b *Broker) {
		b.sessionTTL = sessionTTL
		b.codeTTL = codeTTL
	}
}

func WithScope(scope string) BrokerOption {
	return func(b *Broker) {
		b.scope = scope
	}
}

// NewBroker initializes a Broker with required dependencies.
func NewBroker(repo *sessions.Repo, upstream Upstream, tokens TokenMinter, options ...BrokerOption) (*Broker, error) {
	if repo == nil {
		return nil, errors.New("[NewBroker] session repo is required")
	}
	if upstream == nil {
		return nil, errors.New("[NewBroker] upstream is required")
	}
	if tokens == nil {
		return nil, errors.New("[NewBroker] token minter is required")
	}

	b := &Broker{
		repo:       repo,
		upstream:   upstream,
		tokens:     tokens,
		ids:        NewRandomIDGenerator(defaultCodeLength),
		sessionTTL: defaultSessionTTL,
		codeTTL:    defaultCodeTTL,
		scope:      defaultScope,
		nowTime:    time.Now,
	}
	for _, opt := range options {
		opt(b)
	}
	return b, nil
}

// Authorize starts the flow. It stores a session and returns the upstream
// authorization URL whose state is the new session ID.
func (b *Broker) Authorize(ctx context.Context, params *oauthmodel.AuthorizationParameters) (string, error) {
	if err := params.Validate(); err != nil {
		return "", brokererrors.InvalidRequest(err.Error())
	}

	sessionID, err := b.ids.SessionID()
	if err != nil {
		return "", b.serverError(err, "[Broker.Authorize] session id")
	}

	session := &sessions.Session{
		State:         params.State,
		CodeChallenge: params.CodeChallenge,
		ClientID:      params.ClientID,
		RedirectURI:   params.RedirectURI,
		CreatedAt:     b.nowTime().UTC(),
	}
	if err := b.repo.SaveSession(ctx, sessionID, session, b.sessionTTL); err != nil {
		return "", b.serverError(err, "[Broker.Authorize] save session")
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("client_id", params.ClientID).
		Msg("authorization started")

	return b.upstream.AuthCodeURL(sessionID), nil
}

// Callback completes the upstream leg. It exchanges the upstream code, binds
// the credential to a new broker authorization code and returns the client's
// redirect URI carrying that code and the client's original state.
func (b *Broker) Callback(ctx context.Context, params *oauthmodel.CallbackParameters) (string, error) {
	if params.Error != "" {
		return "", brokererrors.Upstream(params.Error, params.ErrorDescription)
	}
	if err := params.Validate(); err != nil {
		return "", brokererrors.InvalidRequest(err.Error())
	}

	sessionID := params.State
	session, err := b.repo.GetSession(ctx, sessionID)
	if errors.Is(err, brokererrors.ErrNotFound) {
		return "", brokererrors.InvalidRequest("Session not found or expired")
	}
	if err != nil {
		return "", b.serverError(err, "[Broker.Callback] get session")
	}

	credential, err := b.upstream.Exchange(ctx, params.Code)
	if err != nil {
		var oauthErr *brokererrors.OAuthError
		if errors.As(err, &oauthErr) {
			return "", oauthErr
		}
		log.Warn().Err(err).Str("session_id", sessionID).Msg("upstream exchange failed")
		return "", brokererrors.Upstream(brokererrors.CodeUpstreamTokenError, "Failed to get access token")
	}

	code, err := b.ids.AuthorizationCode()
	if err != nil {
		return "", b.serverError(err, "[Broker.Callback] authorization code")
	}

	redirectURL, err := clientRedirect(session.RedirectURI, code, session.State)
	if err != nil {
		return "", b.serverError(err, "[Broker.Callback] client redirect")
	}

	record := &sessions.AuthorizationCode{
		UpstreamCredential: credential,
		SessionID:          sessionID,
		ClientID:           session.ClientID,
		RedirectURI:        session.RedirectURI,
		CodeChallenge:      session.CodeChallenge,
		CreatedAt:          b.nowTime().UTC(),
	}
	if err := b.repo.SaveCode(ctx, code, record, b.codeTTL); err != nil {
		return "", b.serverError(err, "[Broker.Callback] save code")
	}

	// The session ID cannot be replayed once a code exists for it.
	if err := b.repo.DeleteSession(ctx, sessionID); err != nil {
		return "", b.serverError(err, "[Broker.Callback] delete session")
	}

	log.Debug().
		Str("session_id", sessionID).
		Str("client_id", session.ClientID).
		Msg("authorization code issued")

	return redirectURL, nil
}

// Token redeems a broker authorization code. The code is consumed before the
// verifier is checked, so a failed PKCE check still burns it.
func (b *Broker) Token(ctx context.Context, req *oauthmodel.TokenRequest) (*oauthmodel.TokenResponse, error) {
	if req.GrantType != oauthmodel.AuthorizationCodeGrant {
		return nil, brokererrors.UnsupportedGrantType()
	}
	if err := req.Validate(); err != nil {
		return nil, brokererrors.InvalidRequest(err.Error())
	}

	record, err := b.repo.ConsumeCode(ctx, req.Code)
	if errors.Is(err, brokererrors.ErrNotFound) {
		return nil, brokererrors.InvalidGrant("Code not found or expired")
	}
	if err != nil {
		return nil, b.serverError(err, "[Broker.Token] consume code")
	}

	if !VerifyCodeChallenge(record.CodeChallenge, req.CodeVerifier) {
		log.Warn().
			Str("session_id", record.SessionID).
			Str("client_id", record.ClientID).
			Msg("PKCE verification failed")
		return nil, brokererrors.InvalidGrant("Invalid code_verifier")
	}

	accessToken, err := b.tokens.Mint(record.UpstreamCredential)
	if err != nil {
		return nil, b.serverError(err, "[Broker.Token] mint")
	}

	log.Debug().
		Str("session_id", record.SessionID).
		Str("client_id", record.ClientID).
		Msg("access token issued")

	return &oauthmodel.TokenResponse{
		AccessToken: accessToken,
		TokenType:   tokenTypeBearer,
		ExpiresIn:   int(b.tokens.AccessTokenExpiry().Seconds()),
		Scope:       b.scope,
	}, nil
}

// serverError logs an infrastructure failure and hides it behind server_error.
func (b *Broker) serverError(err error, msg string) error {
	log.Error().Err(errors.Wrap(err, msg)).Msg("broker failure")
	return brokererrors.ServerError("")
}

// clientRedirect adds code and state to redirectURI, keeping its existing query.
func clientRedirect(redirectURI, code, state string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", errors.Wrapf(err, "parse redirect uri %q", redirectURI)
	}
	q := u.Query()
	q.Set("code", code)
	q.Set("state", state)
	u.RawQuery = q.Encode()
	return u.String(), nil
}
