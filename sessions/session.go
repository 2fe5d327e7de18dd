package sessions

import "time"

// Session stores the client's side of the flow while the user is away at the
// upstream provider. It lives between /oauth/authorize and /oauth/callback.
type Session struct {
	State         string    `json:"state"`          // Client's original state, echoed back to its redirect URI
	CodeChallenge string    `json:"code_challenge"` // PKCE S256 challenge as supplied by the client
	ClientID      string    `json:"client_id"`
	RedirectURI   string    `json:"redirect_uri"`
	CreatedAt     time.Time `json:"created_at"`
}

// AuthorizationCode binds a broker authorization code to the upstream
// credential obtained in /oauth/callback. It is redeemed once at /oauth/token.
type AuthorizationCode struct {
	UpstreamCredential string    `json:"upstream_credential"`
	SessionID          string    `json:"session_id"` // Originating session, diagnostic only
	ClientID           string    `json:"client_id"`
	RedirectURI        string    `json:"redirect_uri"`
	CodeChallenge      string    `json:"code_challenge"`
	CreatedAt          time.Time `json:"created_at"`
}
