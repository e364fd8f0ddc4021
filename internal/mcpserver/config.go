package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/erraggy/json2ts/compiler"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Compile tool defaults.
	UnknownAny           bool
	AdditionalProperties bool
	MaxItems             int
	BannerComment        string

	// Cache settings.
	CacheEnabled       bool
	CacheMaxSize       int
	CacheFileTTL       time.Duration
	CacheURLTTL        time.Duration
	CacheContentTTL    time.Duration
	CacheSweepInterval time.Duration

	// Validate tool pagination.
	ValidateLimit int
	MaxLimit      int

	// Input limits.
	MaxInlineSize   int64
	AllowPrivateIPs bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from JSON2TS_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	defaults := compiler.DefaultOptions()
	return &serverConfig{
		UnknownAny:           envBool("JSON2TS_UNKNOWN_ANY", defaults.UnknownAny),
		AdditionalProperties: envBool("JSON2TS_ADDITIONAL_PROPERTIES", defaults.AdditionalProperties),
		MaxItems:             envMaxItems("JSON2TS_MAX_ITEMS", defaults.MaxItems),
		BannerComment:        envBanner("JSON2TS_BANNER_COMMENT", defaults.BannerComment),
		CacheEnabled:         envBool("JSON2TS_CACHE_ENABLED", true),
		CacheMaxSize:         envInt("JSON2TS_CACHE_MAX_SIZE", 10),
		CacheFileTTL:         envDuration("JSON2TS_CACHE_FILE_TTL", 15*time.Minute),
		CacheURLTTL:          envDuration("JSON2TS_CACHE_URL_TTL", 5*time.Minute),
		CacheContentTTL:      envDuration("JSON2TS_CACHE_CONTENT_TTL", 15*time.Minute),
		CacheSweepInterval:   envDuration("JSON2TS_CACHE_SWEEP_INTERVAL", 60*time.Second),
		ValidateLimit:        envInt("JSON2TS_VALIDATE_LIMIT", 100),
		MaxLimit:             envInt("JSON2TS_MAX_LIMIT", 1000),
		MaxInlineSize:        int64(envInt("JSON2TS_MAX_INLINE_SIZE", 10*1024*1024)),
		AllowPrivateIPs:      envBool("JSON2TS_ALLOW_PRIVATE_IPS", false),
	}
}

func envBool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		slog.Warn("invalid bool env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return b
}

func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// envMaxItems is envInt that also accepts 0 and the -1 "no limit" value.
func envMaxItems(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < -1 {
		slog.Warn("invalid maxItems env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

// envBanner returns the banner comment. "none" disables it.
func envBanner(key, fallback string) string {
	switch v := os.Getenv(key); v {
	case "":
		return fallback
	case "none":
		return ""
	default:
		return v
	}
}

func envDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		slog.Warn("invalid duration env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return d
}
