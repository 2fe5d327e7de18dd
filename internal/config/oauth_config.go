package config

import "time"

type OAuthConfig interface {
	GetSessionTTL() time.Duration
	GetAuthCodeTTL() time.Duration
	GetCodeGenerationLength() int
	GetAccessTokenExpiry() time.Duration
	GetAccessTokenScope() string
}

type OAuth struct{}

var _ OAuthConfig = OAuth{}

// GetSessionTTL bounds the upstream round trip between /authorize and /callback.
func (OAuth) GetSessionTTL() time.Duration {
	return 600 * time.Second
}

func (OAuth) GetAuthCodeTTL() time.Duration {
	return 300 * time.Second
}

func (OAuth) GetCodeGenerationLength() int {
	return 32 // 32 bytes = 256 bits
}

func (OAuth) GetAccessTokenExpiry() time.Duration {
	return 1 * time.Hour
}

func (OAuth) GetAccessTokenScope() string {
	return "mcp:tools"
}
