package ratelimit

import "strings"

// exempt lists routes that are never rate limited.
var exempt = map[string]bool{
	"GET /health": true,
}

// MatchEndpoint returns the endpoint rule for a request, or nil when the
// default limit applies. Exempt routes get a rule with Limit 0.
// Rules whose Path ends in "/" match by prefix; exact rules win over prefixes
// and longer prefixes win over shorter ones.
func MatchEndpoint(path, method string, configs []EndpointConfig) *EndpointConfig {
	if exempt[method+" "+path] {
		return &EndpointConfig{Path: path, Method: method}
	}

	var best *EndpointConfig
	for i := range configs {
		rule := &configs[i]
		if rule.Method != method {
			continue
		}
		if rule.Path == path {
			return rule
		}
		if strings.HasSuffix(rule.Path, "/") && strings.HasPrefix(path, rule.Path) {
			if best == nil || len(rule.Path) > len(best.Path) {
				best = rule
			}
		}
	}
	return best
}
