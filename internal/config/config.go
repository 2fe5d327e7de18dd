package config

import (
	"fmt"
	"strings"

	"github.com/jrsteele09/mcp-oauth-broker/internal/errors"
)

type Config interface {
	EnvConfig
	CorsConfig
	OAuthConfig
	UpstreamConfig
	StoreConfig
	Validate() error
}

type EnvConfig interface {
	GetPort() string
	GetAppName() string
	GetAppVersion() string
	GetEnv() string
	GetLogLevel() string
	GetBaseURL() string
	GetJWTSecret() string
}

type CorsConfig interface {
	GetAllowedOrigins() AllowedOrigins
	GetAllowedMethods() string
	GetAllowedHeaders() string
	GetExposedHeaders() string
}

type UpstreamConfig interface {
	GetUpstreamClientID() string
	GetUpstreamClientSecret() string
	GetUpstreamScopes() string
	GetUpstreamIssuer() string
	GetUpstreamAuthURL() string
	GetUpstreamTokenURL() string
}

type StoreConfig interface {
	GetRedisAddr() string
	GetRedisPassword() string
	GetRedisDB() int
	GetRedisKeyPrefix() string
}

type mainConfig struct {
	EnvVars
	Cors
	OAuth
}

// New loads the configuration from the environment.
func New() (Config, error) {
	vars, err := decodeEnvVars()
	if err != nil {
		return nil, err
	}
	return FromEnvVars(vars), nil
}

// FromEnvVars builds a Config from already populated values.
func FromEnvVars(vars EnvVars) Config {
	vars.ServerURL = strings.TrimRight(vars.ServerURL, "/")
	return mainConfig{
		EnvVars: vars,
		Cors:    Cors{origins: ParseAllowedOrigins(vars.CORSAllowedOrigins)},
	}
}

// Validate reports the required settings that are missing.
func (c mainConfig) Validate() error {
	var missing []string
	if c.JWTSecret == "" {
		missing = append(missing, jwtSecretVar)
	}
	if c.GitHubClientID == "" {
		missing = append(missing, githubClientIDVar)
	}
	if c.GitHubClientSecret == "" {
		missing = append(missing, githubClientSecretVar)
	}
	if c.ServerURL == "" {
		missing = append(missing, serverURLVar)
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", errors.ErrMissingConfig, strings.Join(missing, ", "))
	}
	return nil
}
