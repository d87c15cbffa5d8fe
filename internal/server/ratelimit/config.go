package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Exact path, or a prefix when it ends in "/"
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from RATE_LIMIT_* environment variables.
func LoadConfig() *Config {
	enabled := getEnvBool("RATE_LIMIT_ENABLED", true)
	if !enabled {
		return &Config{
			Enabled: false,
		}
	}

	defaultLimit := getEnvInt("RATE_LIMIT_DEFAULT_LIMIT", 300)
	defaultWindow := getEnvDuration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute)
	cleanupInterval := getEnvDuration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute)
	idleTimeout := getEnvDuration("RATE_LIMIT_IDLE_TIMEOUT", DefaultIdleTimeout)

	whitelist := parseIPList(os.Getenv("RATE_LIMIT_WHITELIST"))
	blacklist := parseIPList(os.Getenv("RATE_LIMIT_BLACKLIST"))

	return &Config{
		Enabled:         enabled,
		DefaultLimit:    defaultLimit,
		DefaultWindow:   defaultWindow,
		CleanupInterval: cleanupInterval,
		IdleTimeout:     idleTimeout,
		Whitelist:       whitelist,
		Blacklist:       blacklist,
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
// Model-backed routes are limited per hour; RATE_LIMIT_GENERATE_LIMIT overrides the count.
func DefaultEndpointConfigs() []EndpointConfig {
	generateLimit := getEnvInt("RATE_LIMIT_GENERATE_LIMIT", 20)
	generate := func(path string) EndpointConfig {
		return EndpointConfig{Path: path, Method: "POST", Limit: generateLimit, Window: time.Hour, Burst: 3}
	}

	return []EndpointConfig{
		// Tier 1: model calls (strictest limits)
		generate("/generate"),
		generate("/generate/stream"),
		generate("/generate/from-profile"),
		generate("/api/tailor-resume"),
		generate("/api/analyze"),

		// Tier 2: outbound scraping
		{Path: "/api/extract-job", Method: "POST", Limit: 30, Window: time.Minute, Burst: 5},

		// Tier 3: downloads share one bucket per client
		{Path: "/download/", Method: "GET", Limit: 120, Window: time.Minute, Burst: 20},

		// Tier 4: health check (unlimited) is exempt in the matcher
	}
}

// envOr parses the named variable, falling back when it is unset or malformed.
func envOr[T any](key string, fallback T, parse func(string) (T, error)) T {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := parse(raw)
	if err != nil {
		return fallback
	}
	return v
}

func getEnvInt(key string, fallback int) int {
	return envOr(key, fallback, strconv.Atoi)
}

func getEnvBool(key string, fallback bool) bool {
	return envOr(key, fallback, strconv.ParseBool)
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	return envOr(key, fallback, time.ParseDuration)
}

// parseIPList turns a comma-separated client list into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
