// Package token mints and verifies the broker's access tokens. A token is a
// self-contained HS256 JWT carrying the upstream credential; nothing is
// persisted and there is no revocation list.
package token

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"

	brokererrors "github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

const defaultAccessTokenExpiry = time.Hour

// Claims are the claims of a broker access token.
type Claims struct {
	// UpstreamCredential is the upstream provider's access token.
	UpstreamCredential string `json:"github_token"`
	jwt.RegisteredClaims
}

type Manager struct {
	signer            Signer
	issuer            string // The broker's canonical URL
	accessTokenExpiry time.Duration
	subjectFunc       func() string
	nowFunc           func() time.Time
}

type ManagerOption func(*Manager)

func WithAccessTokenExpiry(expiry time.Duration) ManagerOption {
	return func(m *Manager) {
		m.accessTokenExpiry = expiry
	}
}

func WithNowFunc(now func() time.Time) ManagerOption {
	return func(m *Manager) {
		m.nowFunc = now
	}
}

// WithSubjectFunc sets the generator for the random per-token subject
func WithSubjectFunc(subject func() string) ManagerOption {
	return func(m *Manager) {
		m.subjectFunc = subject
	}
}

func New(signer Signer, issuer string, options ...ManagerOption) (*Manager, error) {
	if signer == nil {
		return nil, errors.New("[token.New] signer is required")
	}
	if strings.TrimSpace(issuer) == "" {
		return nil, errors.New("[token.New] issuer is required")
	}

	m := &Manager{
		signer:            signer,
		issuer:            issuer,
		accessTokenExpiry: defaultAccessTokenExpiry,
		subjectFunc:       uuid.NewString,
		nowFunc:           time.Now,
	}
	for _, opt := range options {
		opt(m)
	}
	return m, nil
}

// AccessTokenExpiry is the lifetime of every minted token.
func (m *Manager) AccessTokenExpiry() time.Duration {
	return m.accessTokenExpiry
}

// Mint issues a signed access token embedding upstreamCredential.
func (m *Manager) Mint(upstreamCredential string) (string, error) {
	if upstreamCredential == "" {
		return "", errors.New("[Manager.Mint] upstream credential is required")
	}

	now := m.nowFunc()
	claims := Claims{
		UpstreamCredential: upstreamCredential,
		RegisteredClaims: jwt.RegisteredClaims{
			// Random per issuance, not tied to a user record
			Subject:   m.subjectFunc(),
			Issuer:    m.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.accessTokenExpiry)),
		},
	}

	signed, err := m.signer.Sign(claims)
	if err != nil {
		return "", errors.Wrap(err, "[Manager.Mint] sign")
	}
	return signed, nil
}

// Verify checks the signature, issuer and expiry of rawToken and returns its
// claims. The error is one of ErrInvalidToken, ErrTokenExpired or
// ErrInvalidIssuer, wrapped with the parser's reason.
func (m *Manager) Verify(rawToken string) (*Claims, error) {
	if strings.TrimSpace(rawToken) == "" {
		return nil, brokererrors.ErrInvalidToken
	}

	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{m.signer.GetSigningMethod().Alg()}),
		jwt.WithIssuer(m.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithIssuedAt(),
		jwt.WithTimeFunc(m.nowFunc),
	)

	claims := &Claims{}
	token, err := parser.ParseWithClaims(rawToken, claims, m.signer.GetVerificationKey)
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return nil, errors.Wrap(brokererrors.ErrTokenExpired, err.Error())
	case errors.Is(err, jwt.ErrTokenInvalidIssuer):
		return nil, errors.Wrap(brokererrors.ErrInvalidIssuer, err.Error())
	case err != nil:
		return nil, errors.Wrap(brokererrors.ErrInvalidToken, err.Error())
	case !token.Valid:
		return nil, brokererrors.ErrInvalidToken
	}

	if claims.UpstreamCredential == "" {
		return nil, errors.Wrap(brokererrors.ErrInvalidToken, "missing upstream credential")
	}
	return claims, nil
}
