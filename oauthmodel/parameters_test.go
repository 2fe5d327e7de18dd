package oauthmodel_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/mcp-oauth-broker/oauthmodel"
)

func validAuthorizationParameters() oauthmodel.AuthorizationParameters {
	return oauthmodel.AuthorizationParameters{
		ClientID:      "c1",
		RedirectURI:   "https://app/cb",
		State:         "S1",
		CodeChallenge: "E9Melhoa2OwvFrEMTJguCHaoeK1t8URWbuGJSstw-cM",
	}
}

func TestAuthorizationParameters_Validate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(p *oauthmodel.AuthorizationParameters)
		wantErr error
	}{
		{name: "valid without method", mutate: func(p *oauthmodel.AuthorizationParameters) {}},
		{name: "valid S256", mutate: func(p *oauthmodel.AuthorizationParameters) { p.CodeChallengeMethod = "S256" }},
		{name: "missing client_id", mutate: func(p *oauthmodel.AuthorizationParameters) { p.ClientID = "" }, wantErr: oauthmodel.ErrMissingClientID},
		{name: "missing redirect_uri", mutate: func(p *oauthmodel.AuthorizationParameters) { p.RedirectURI = "" }, wantErr: oauthmodel.ErrMissingRedirectURI},
		{name: "missing state", mutate: func(p *oauthmodel.AuthorizationParameters) { p.State = "" }, wantErr: oauthmodel.ErrMissingState},
		{name: "missing code_challenge", mutate: func(p *oauthmodel.AuthorizationParameters) { p.CodeChallenge = "" }, wantErr: oauthmodel.ErrMissingCodeChallenge},
		{name: "plain method", mutate: func(p *oauthmodel.AuthorizationParameters) { p.CodeChallengeMethod = "plain" }, wantErr: oauthmodel.ErrInvalidCodeChallengeMethod},
		{name: "private-use scheme", mutate: func(p *oauthmodel.AuthorizationParameters) { p.RedirectURI = "com.example.app:/oauth2redirect" }},
		{name: "custom scheme with host", mutate: func(p *oauthmodel.AuthorizationParameters) {
			p.RedirectURI = "cursor://anysphere.cursor-retrieval/oauth/callback"
		}},
		{name: "loopback redirect", mutate: func(p *oauthmodel.AuthorizationParameters) { p.RedirectURI = "http://127.0.0.1:33418/cb" }},
		{name: "whitespace values are present", mutate: func(p *oauthmodel.AuthorizationParameters) {
			p.ClientID = " "
			p.State = " "
			p.CodeChallenge = " "
		}},
		{name: "relative redirect_uri", mutate: func(p *oauthmodel.AuthorizationParameters) { p.RedirectURI = "/cb" }, wantErr: oauthmodel.ErrInvalidRedirectURI},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validAuthorizationParameters()
			tt.mutate(&p)
			err := p.Validate()
			if tt.wantErr == nil {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCallbackParameters_Validate(t *testing.T) {
	require.NoError(t, (&oauthmodel.CallbackParameters{Code: "UP1", State: "sid"}).Validate())
	require.ErrorIs(t, (&oauthmodel.CallbackParameters{State: "sid"}).Validate(), oauthmodel.ErrMissingCallbackParameters)
	require.ErrorIs(t, (&oauthmodel.CallbackParameters{Code: "UP1"}).Validate(), oauthmodel.ErrMissingCallbackParameters)
}

func TestTokenRequest_Validate(t *testing.T) {
	require.NoError(t, (&oauthmodel.TokenRequest{Code: "c", CodeVerifier: "v"}).Validate())
	require.ErrorIs(t, (&oauthmodel.TokenRequest{Code: "c"}).Validate(), oauthmodel.ErrMissingTokenParameters)
	require.ErrorIs(t, (&oauthmodel.TokenRequest{CodeVerifier: "v"}).Validate(), oauthmodel.ErrMissingTokenParameters)
}
