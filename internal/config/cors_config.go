package config

import "strings"

const wildcardOrigin = "*"

// AllowedOrigins is the set of origins answered with CORS headers.
type AllowedOrigins map[string]struct{}

// ParseAllowedOrigins reads a comma-separated origin list. An empty list
// allows every origin, since MCP clients run in arbitrary origins.
func ParseAllowedOrigins(list string) AllowedOrigins {
	origins := AllowedOrigins{}
	for _, origin := range strings.Split(list, ",") {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins[origin] = struct{}{}
		}
	}
	if len(origins) == 0 {
		origins[wildcardOrigin] = struct{}{}
	}
	return origins
}

func (a AllowedOrigins) IsAllowedOrigin(origin string) bool {
	_, ok := a[origin]
	return ok
}

// AllowsAny reports whether the wildcard origin is configured.
func (a AllowedOrigins) AllowsAny() bool {
	return a.IsAllowedOrigin(wildcardOrigin)
}

// Cors holds the CORS policy. Methods and headers are fixed by the routes the
// broker serves; only the origins are configurable.
type Cors struct {
	origins AllowedOrigins
}

var _ CorsConfig = Cors{}

func (c Cors) GetAllowedOrigins() AllowedOrigins {
	if c.origins == nil {
		return ParseAllowedOrigins("")
	}
	return c.origins
}

func (Cors) GetAllowedMethods() string {
	return "GET, POST, OPTIONS"
}

func (Cors) GetAllowedHeaders() string {
	return "Content-Type, Authorization, MCP-Protocol-Version"
}

// GetExposedHeaders lets browser clients read the bearer challenge on 401.
func (Cors) GetExposedHeaders() string {
	return "WWW-Authenticate"
}
