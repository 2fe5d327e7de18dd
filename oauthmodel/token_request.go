package oauthmodel

// TokenRequest holds the body of POST /oauth/token. It is accepted both as
// application/x-www-form-urlencoded and as JSON.
type TokenRequest struct {
	// GrantType must be "authorization_code".
	GrantType GrantType `json:"grant_type"`

	// Code is the broker authorization code from the final redirect.
	// Usage: Exchanged once, then becomes invalid whatever the outcome
	Code string `json:"code"`

	// CodeVerifier is the PKCE verifier matching the stored code_challenge.
	// Example: "dBjftJeZ4CVP-mB92K27uhbUJU1p1r_wW1gFWFOEjXk"
	CodeVerifier string `json:"code_verifier"`

	// ClientID and RedirectURI are accepted but not enforced; clients are public.
	ClientID    string `json:"client_id,omitempty"`
	RedirectURI string `json:"redirect_uri,omitempty"`
}

func (r *TokenRequest) Validate() error {
	if r.Code == "" || r.CodeVerifier == "" {
		return ErrMissingTokenParameters
	}
	return nil
}

// TokenResponse is the RFC 6749 token endpoint success response.
type TokenResponse struct {
	// AccessToken is the broker-signed JWT embedding the upstream credential.
	// Usage: Include in Authorization header: "Bearer <access_token>"
	AccessToken string `json:"access_token"`

	// TokenType is always "Bearer".
	TokenType string `json:"token_type"`

	// ExpiresIn is the lifetime in seconds of the access token.
	ExpiresIn int `json:"expires_in"`

	Scope string `json:"scope"`
}
