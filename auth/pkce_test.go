package auth_test

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/jrsteele09/mcp-oauth-broker/auth"
)

func TestCodeChallengeS256_RFC7636Vector(t *testing.T) {
	// RFC 7636 Appendix B
	require.Equal(t, testCodeChallenge, auth.CodeChallengeS256(testCodeVerifier))
}

func TestVerifyCodeChallenge(t *testing.T) {
	require.True(t, auth.VerifyCodeChallenge(testCodeChallenge, testCodeVerifier))
	require.False(t, auth.VerifyCodeChallenge(testCodeChallenge, testCodeVerifier+"x"))
	require.False(t, auth.VerifyCodeChallenge(testCodeChallenge, ""))
	require.False(t, auth.VerifyCodeChallenge("", testCodeVerifier))

	// The verifier itself is never accepted as the challenge.
	require.False(t, auth.VerifyCodeChallenge(testCodeVerifier, testCodeVerifier))
}

func TestCodeChallengeS256_Unpadded(t *testing.T) {
	challenge := auth.CodeChallengeS256("any verifier")
	require.Len(t, challenge, 43)
	require.NotContains(t, challenge, "=")

	_, err := base64.RawURLEncoding.DecodeString(challenge)
	require.NoError(t, err)
}

func TestRandomIDGenerator(t *testing.T) {
	ids := auth.NewRandomIDGenerator(32)

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		code, err := ids.AuthorizationCode()
		require.NoError(t, err)
		require.Len(t, code, 43)
		require.False(t, seen[code])
		seen[code] = true

		sessionID, err := ids.SessionID()
		require.NoError(t, err)
		require.Len(t, sessionID, 36)
		require.False(t, seen[sessionID])
		seen[sessionID] = true
	}
}
