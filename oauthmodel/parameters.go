package oauthmodel

import (
	"net/url"
)

// CodeMethodType represents the PKCE (Proof Key for Code Exchange) challenge method.
type CodeMethodType string

const (
	// CodeMethodTypeS256 is the only supported method.
	// Client sends: code_challenge = BASE64URL(SHA256(code_verifier))
	// Server validates: BASE64URL(SHA256(provided code_verifier)) == stored code_challenge
	CodeMethodTypeS256 CodeMethodType = "S256"
)

// ResponseType represents the OAuth 2.0 response type.
type ResponseType string

const CodeResponseType ResponseType = "code"

// GrantType represents the OAuth 2.0 grant type used at the token endpoint.
type GrantType string

const AuthorizationCodeGrant GrantType = "authorization_code"

// AuthorizationParameters holds the query parameters of /oauth/authorize.
type AuthorizationParameters struct {
	// ClientID identifies the MCP client. It is carried through the flow but
	// not checked against a registry (registration is a stub).
	// Required: Yes
	ClientID string

	// RedirectURI is where the broker authorization code is finally sent.
	// Required: Yes
	// Example: "http://localhost:3000/callback"
	// Validation: must be an absolute URL
	RedirectURI string

	// State is the client's opaque CSRF value, echoed back on the final redirect.
	// It is not sent upstream; the upstream state is the broker session ID.
	// Required: Yes
	State string

	// CodeChallenge is BASE64URL(SHA256(code_verifier)), stored verbatim.
	// Required: Yes
	// Example: "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM"
	CodeChallenge string

	// CodeChallengeMethod must be "S256" when present.
	// Required: No (absence is treated as S256)
	CodeChallengeMethod CodeMethodType
}

// Validate checks the parameters in the order the errors are reported to the client.
func (p *AuthorizationParameters) Validate() error {
	switch {
	case p.ClientID == "":
		return ErrMissingClientID
	case p.RedirectURI == "":
		return ErrMissingRedirectURI
	case p.State == "":
		return ErrMissingState
	case p.CodeChallenge == "":
		return ErrMissingCodeChallenge
	}

	if p.CodeChallengeMethod != "" && p.CodeChallengeMethod != CodeMethodTypeS256 {
		return ErrInvalidCodeChallengeMethod
	}

	// Private-use schemes (RFC 8252) such as "com.example.app:/cb" have no host.
	u, err := url.Parse(p.RedirectURI)
	if err != nil || !u.IsAbs() {
		return ErrInvalidRedirectURI
	}
	return nil
}

// CallbackParameters holds the query parameters the upstream provider sends
// to /oauth/callback.
type CallbackParameters struct {
	// Code is the upstream authorization code.
	Code string

	// State is the broker session ID that was sent upstream.
	State string

	// Error and ErrorDescription are set when the user denied access or the
	// upstream rejected the request. They are passed to the client unchanged.
	Error            string
	ErrorDescription string
}

func (p *CallbackParameters) Validate() error {
	if p.Code == "" || p.State == "" {
		return ErrMissingCallbackParameters
	}
	return nil
}
