package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path (a trailing "/" matches by prefix)
	Method string        // HTTP method
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// Defaults applied when the environment does not override them
const (
	DefaultLimit           = 600
	DefaultWindow          = time.Minute
	DefaultCleanupInterval = 5 * time.Minute
)

// LoadConfig loads rate limiting configuration from the process environment.
func LoadConfig() *Config {
	return LoadConfigFrom(os.LookupEnv)
}

// LoadConfigFrom loads rate limiting configuration through lookup.
// Recognized keys: RATE_LIMIT_ENABLED, RATE_LIMIT_DEFAULT_LIMIT, RATE_LIMIT_DEFAULT_WINDOW,
// RATE_LIMIT_CLEANUP_INTERVAL, RATE_LIMIT_WHITELIST and RATE_LIMIT_BLACKLIST.
// Malformed values fall back to their defaults.
func LoadConfigFrom(lookup func(string) (string, bool)) *Config {
	env := envReader{lookup: lookup}
	if !env.bool("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.int("RATE_LIMIT_DEFAULT_LIMIT", DefaultLimit),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", DefaultWindow),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", DefaultCleanupInterval),
		Whitelist:       parseIPList(env.string("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.string("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(),
	}
}

// DefaultEndpointConfigs returns the default endpoint-specific configurations.
func DefaultEndpointConfigs() []EndpointConfig {
	return []EndpointConfig{
		// Full pipeline runs and exports are the expensive calls
		{Path: "/v1/analyze", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},
		{Path: "/v1/reports/export.xlsx", Method: "GET", Limit: 10, Window: time.Minute, Burst: 2},

		// Single-stage calls
		{Path: "/v1/correct", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},
		{Path: "/v1/validate", Method: "POST", Limit: 300, Window: time.Minute, Burst: 30},

		// Report reads share one bucket per client
		{Path: "/v1/reports/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 60},
	}
}

type envReader struct {
	lookup func(string) (string, bool)
}

func (e envReader) string(key, defaultValue string) string {
	if value, ok := e.lookup(key); ok && value != "" {
		return value
	}
	return defaultValue
}

func (e envReader) int(key string, defaultValue int) int {
	if n, err := strconv.Atoi(e.string(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func (e envReader) bool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(e.string(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func (e envReader) duration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(e.string(key, "")); err == nil {
		return d
	}
	return defaultValue
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
