package config

import (
	"fmt"

	"github.com/joeshaw/envdecode"
)

const (
	serverURLVar          = "SERVER_URL"
	jwtSecretVar          = "JWT_SECRET"
	githubClientIDVar     = "GITHUB_CLIENT_ID"
	githubClientSecretVar = "GITHUB_CLIENT_SECRET"
)

// EnvVars holds every setting read from the environment.
type EnvVars struct {
	Port       string `env:"PORT,default=8080"`
	AppName    string `env:"APP_NAME,default=MCP OAuth Broker"`
	AppVersion string `env:"APP_VERSION,default=1.0.0"`
	Env        string `env:"ENV,default=DEV"`
	LogLevel   string `env:"LOG_LEVEL,default=info"`

	// ServerURL is the broker's canonical URL, used as issuer, resource and redirect base.
	ServerURL string `env:"SERVER_URL,default=http://localhost:8080"`
	JWTSecret string `env:"JWT_SECRET"`

	GitHubClientID     string `env:"GITHUB_CLIENT_ID"`
	GitHubClientSecret string `env:"GITHUB_CLIENT_SECRET"`
	OAuthScopes        string `env:"OAUTH_SCOPES"` // default "repo,read:user"; a comma cannot be expressed in the tag

	// Optional upstream overrides. Issuer takes precedence over explicit URLs.
	UpstreamIssuer   string `env:"UPSTREAM_ISSUER"`
	UpstreamAuthURL  string `env:"UPSTREAM_AUTH_URL"`
	UpstreamTokenURL string `env:"UPSTREAM_TOKEN_URL"`

	// An empty RedisAddr selects the in-memory store.
	RedisAddr      string `env:"REDIS_ADDR"`
	RedisPassword  string `env:"REDIS_PASSWORD"`
	RedisDB        int    `env:"REDIS_DB,default=0"`
	RedisKeyPrefix string `env:"REDIS_KEY_PREFIX,default=mcp-broker:"`

	// Comma-separated; empty allows every origin.
	CORSAllowedOrigins string `env:"CORS_ALLOWED_ORIGINS"`
}

var _ EnvConfig = EnvVars{}
var _ UpstreamConfig = EnvVars{}
var _ StoreConfig = EnvVars{}

func decodeEnvVars() (EnvVars, error) {
	var vars EnvVars
	if err := envdecode.Decode(&vars); err != nil && err != envdecode.ErrNoTargetFieldsAreSet {
		return EnvVars{}, fmt.Errorf("[config] decode environment: %w", err)
	}
	return vars, nil
}

func (e EnvVars) GetPort() string {
	port := e.Port
	if port == "" {
		port = "8080"
	}
	if port[0] != ':' {
		port = ":" + port
	}
	return port
}

func (e EnvVars) GetAppName() string {
	return e.AppName
}

func (e EnvVars) GetAppVersion() string {
	return e.AppVersion
}

func (e EnvVars) GetEnv() string {
	if e.Env == "" {
		return "DEV"
	}
	return e.Env
}

func (e EnvVars) GetLogLevel() string {
	return e.LogLevel
}

// GetBaseURL returns the broker's canonical URL (e.g., "https://broker.example.com")
func (e EnvVars) GetBaseURL() string {
	return e.ServerURL
}

func (e EnvVars) GetJWTSecret() string {
	return e.JWTSecret
}

func (e EnvVars) GetUpstreamClientID() string {
	return e.GitHubClientID
}

func (e EnvVars) GetUpstreamClientSecret() string {
	return e.GitHubClientSecret
}

func (e EnvVars) GetUpstreamScopes() string {
	if e.OAuthScopes == "" {
		return "repo,read:user"
	}
	return e.OAuthScopes
}

func (e EnvVars) GetUpstreamIssuer() string {
	return e.UpstreamIssuer
}

func (e EnvVars) GetUpstreamAuthURL() string {
	return e.UpstreamAuthURL
}

func (e EnvVars) GetUpstreamTokenURL() string {
	return e.UpstreamTokenURL
}

func (e EnvVars) GetRedisAddr() string {
	return e.RedisAddr
}

func (e EnvVars) GetRedisPassword() string {
	return e.RedisPassword
}

func (e EnvVars) GetRedisDB() int {
	return e.RedisDB
}

func (e EnvVars) GetRedisKeyPrefix() string {
	return e.RedisKeyPrefix
}
