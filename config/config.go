package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Server    ServerConfig
	Auth      AuthConfig
	RateLimit RateLimitConfig
	Cache     CacheConfig
	Cleaner   CleanerConfig
	Log       LogConfig
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Host string // default: "0.0.0.0"
	Port int    // default: 8080
	Mode string // "debug", "release", "test"; default: "release"
}

// AuthConfig controls API key authentication.
type AuthConfig struct {
	// Enabled toggles API key authentication.
	Enabled bool // default: true

	// APIKeys is the list of valid API keys.
	APIKeys []string
}

// RateLimitConfig controls per-key rate limiting.
type RateLimitConfig struct {
	// RequestsPerSecond is the sustained rate per API key.
	RequestsPerSecond float64 // default: 5

	// Burst is the maximum burst size per API key.
	Burst int // default: 10
}

// CacheConfig controls the clean response cache.
type CacheConfig struct {
	// MaxEntries is the maximum number of cached responses.
	MaxEntries int // default: 1000

	// TTL bounds how long any entry is served, whatever max_age asks for.
	TTL time.Duration // default: 1h
}

// CleanerConfig controls the cleaning pipeline.
type CleanerConfig struct {
	// MaxInputBytes rejects larger documents.
	MaxInputBytes int // default: 5 MiB

	// ValidateTree runs the structural tree check before the first pass.
	ValidateTree bool // default: true

	// BatchConcurrency caps documents cleaned in parallel per batch request.
	BatchConcurrency int // default: 4
}

// LogConfig controls structured logging.
type LogConfig struct {
	Level  string // default: "info"
	Format string // "json" or "text"; default: "json"
}

// Load reads configuration from environment variables with sane defaults.
func Load() *Config {
	return &Config{
		Server: ServerConfig{
			Host: envOr("DOCSCRUB_HOST", "0.0.0.0"),
			Port: envIntOr("DOCSCRUB_PORT", 8080),
			Mode: envOr("DOCSCRUB_MODE", "release"),
		},
		Auth: AuthConfig{
			Enabled: envBoolOr("DOCSCRUB_AUTH_ENABLED", true),
			APIKeys: envSliceOr("DOCSCRUB_API_KEYS", nil),
		},
		RateLimit: RateLimitConfig{
			RequestsPerSecond: envFloatOr("DOCSCRUB_RATE_RPS", 5.0),
			Burst:             envIntOr("DOCSCRUB_RATE_BURST", 10),
		},
		Cache: CacheConfig{
			MaxEntries: envIntOr("DOCSCRUB_CACHE_MAX_ENTRIES", 1000),
			TTL:        envDurationOr("DOCSCRUB_CACHE_TTL", time.Hour),
		},
		Cleaner: CleanerConfig{
			MaxInputBytes:    envIntOr("DOCSCRUB_MAX_INPUT_BYTES", 5<<20),
			ValidateTree:     envBoolOr("DOCSCRUB_VALIDATE_TREE", true),
			BatchConcurrency: envIntOr("DOCSCRUB_BATCH_CONCURRENCY", 4),
		},
		Log: LogConfig{
			Level:  envOr("DOCSCRUB_LOG_LEVEL", "info"),
			Format: envOr("DOCSCRUB_LOG_FORMAT", "json"),
		},
	}
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return c.Server.Host + ":" + strconv.Itoa(c.Server.Port)
}

// --- helper functions ---

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envIntOr(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
}

func envBoolOr(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envFloatOr(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envDurationOr(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envSliceOr(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		return result
	}
	return fallback
}
