package ratelimit

import (
	"strings"
)

// MatchEndpoint resolves the rule for a request path and method. Exact
// matches win over prefix matches; the health check is always unlimited.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if path == "/health" && method == "GET" {
		return &EndpointConfig{Limit: 0}
	}

	for i := range configs {
		rule := &configs[i]
		if rule.Path == path && rule.Method == method {
			return rule
		}
	}

	for i := range configs {
		rule := &configs[i]
		if rule.Method == method && strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			return rule
		}
	}

	return nil
}
