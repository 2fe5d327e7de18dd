package auth

import (
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
)

// CodeChallengeS256 returns BASE64URL(SHA256(verifier)) without padding.
func CodeChallengeS256(verifier string) string {
	hash := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(hash[:])
}

// VerifyCodeChallenge reports whether verifier hashes to the stored S256 challenge.
func VerifyCodeChallenge(challenge, verifier string) bool {
	if challenge == "" || verifier == "" {
		return false
	}
	computed := CodeChallengeS256(verifier)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(challenge)) == 1
}
