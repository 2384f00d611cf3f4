package mcpserver

import (
	"log/slog"
	"os"
	"strconv"
	"time"
)

// serverConfig holds all configurable MCP server defaults.
// Loaded once at startup from environment variables via loadConfig().
type serverConfig struct {
	// Table cache settings.
	CacheEnabled bool
	CacheMaxSize int
	CacheFileTTL time.Duration

	// list_patterns defaults.
	ListLimit int
	MaxLimit  int

	// Input limits.
	MaxInlineSize int64
	MaxEndpoints  int

	// AllowWrite lets normalize_fixture rewrite files on disk. When false,
	// every call behaves as a dry run.
	AllowWrite bool
}

// cfg is the active server configuration, initialized at package load time.
var cfg = loadConfig()

// loadConfig reads configuration from APIIDS_MCP_* environment variables.
// Invalid values log a warning and fall back to the hardcoded default.
func loadConfig() *serverConfig {
	return &serverConfig{
		CacheEnabled:  envBool("APIIDS_MCP_CACHE_ENABLED", true),
		CacheMaxSize:  envInt("APIIDS_MCP_CACHE_MAX_SIZE", 10),
		CacheFileTTL:  envDuration("APIIDS_MCP_CACHE_FILE_TTL", 15*time.Minute),
		ListLimit:     envInt("APIIDS_MCP_LIST_LIMIT", 100),
		MaxLimit:      envInt("APIIDS_MCP_MAX_LIMIT", 1000),
		MaxInlineSize: int64(envInt("APIIDS_MCP_MAX_INLINE_SIZE", 10*1024*1024)),
		MaxEndpoints:  envInt("APIIDS_MCP_MAX_ENDPOINTS", 500),
		AllowWrite:    envBool("APIIDS_MCP_ALLOW_WRITE", false),
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
