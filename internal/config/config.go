// Package config loads apiids settings from the environment.
//
// An optional .env file in the working directory is read first; variables
// already set in the environment take precedence over it. Invalid values
// log a warning and fall back to the default.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"github.com/sdmap/apiids/apierrors"
	"github.com/sdmap/apiids/patterns"
	"github.com/sdmap/apiids/runner"
)

// Environment variable names.
const (
	EnvBaseDir    = "APIIDS_BASE_DIR"
	EnvPrefix     = "APIIDS_PREFIX"
	EnvFirst      = "APIIDS_FIRST"
	EnvLast       = "APIIDS_LAST"
	EnvWidth      = "APIIDS_WIDTH"
	EnvExt        = "APIIDS_EXT"
	EnvTable      = "APIIDS_TABLE"
	EnvDuplicates = "APIIDS_DUPLICATES"
	EnvDryRun     = "APIIDS_DRY_RUN"
	EnvFailFast   = "APIIDS_FAIL_FAST"
	EnvLogLevel   = "APIIDS_LOG_LEVEL"
)

// Config holds the settings for a normalization run.
type Config struct {
	Layout runner.Layout
	// TablePath is a YAML or JSON pattern table; empty selects the built-in table
	TablePath  string
	Duplicates patterns.DuplicatePolicy
	DryRun     bool
	FailFast   bool
	LogLevel   slog.Level
}

// Default returns the built-in configuration.
func Default() Config {
	return Config{
		Layout:     runner.DefaultLayout("."),
		Duplicates: patterns.DuplicateKeyed,
		LogLevel:   slog.LevelWarn,
	}
}

// Load reads .env (if present) and the APIIDS_* environment variables.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

// FromEnv builds a Config from the APIIDS_* environment variables only.
func FromEnv() Config {
	def := Default()
	return Config{
		Layout: runner.Layout{
			BaseDir: envString(EnvBaseDir, def.Layout.BaseDir),
			Prefix:  envString(EnvPrefix, def.Layout.Prefix),
			Width:   envInt(EnvWidth, def.Layout.Width),
			First:   envInt(EnvFirst, def.Layout.First),
			Last:    envInt(EnvLast, def.Layout.Last),
			Ext:     envString(EnvExt, def.Layout.Ext),
		},
		TablePath:  os.Getenv(EnvTable),
		Duplicates: envDuplicates(EnvDuplicates, def.Duplicates),
		DryRun:     envBool(EnvDryRun, def.DryRun),
		FailFast:   envBool(EnvFailFast, def.FailFast),
		LogLevel:   envLevel(EnvLogLevel, def.LogLevel),
	}
}

// Validate checks the configuration before a run.
func (c Config) Validate() error {
	if err := c.Layout.Validate(); err != nil {
		return err
	}
	if _, err := patterns.ParseDuplicatePolicy(string(c.Duplicates)); err != nil {
		return err
	}
	if c.TablePath != "" {
		info, err := os.Stat(c.TablePath)
		if err != nil {
			return &apierrors.ConfigError{Option: "table", Value: c.TablePath, Cause: err}
		}
		if info.IsDir() {
			return &apierrors.ConfigError{Option: "table", Value: c.TablePath, Message: "is a directory"}
		}
	}
	return nil
}

// LoadTable returns the pattern table selected by the configuration.
func (c Config) LoadTable() (*patterns.Table, error) {
	opt := patterns.WithDuplicatePolicy(c.Duplicates)
	if c.TablePath == "" {
		return patterns.New(patterns.DefaultEntries(), opt)
	}
	return patterns.LoadFile(c.TablePath, opt)
}

// ParseLevel converts a level name (debug, info, warn, error) to a slog.Level.
func ParseLevel(name string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(name))); err != nil {
		return 0, &apierrors.ConfigError{
			Option:  "log-level",
			Value:   name,
			Message: "must be one of debug, info, warn, error",
		}
	}
	return level, nil
}

func envString(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
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

// envInt accepts zero, since a fixture range may start at 0 and a width of
// 0 disables padding.
func envInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		slog.Warn("invalid int env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return n
}

func envDuplicates(key string, fallback patterns.DuplicatePolicy) patterns.DuplicatePolicy {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	p, err := patterns.ParseDuplicatePolicy(v)
	if err != nil {
		slog.Warn("invalid duplicate policy env var, using default", "key", key, "value", v, "default", fallback, "valid", patterns.ValidDuplicatePolicies()) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return p
}

func envLevel(key string, fallback slog.Level) slog.Level {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	level, err := ParseLevel(v)
	if err != nil {
		slog.Warn("invalid log level env var, using default", "key", key, "value", v, "default", fallback) //nolint:gosec // G706: values are structured log fields, not format strings
		return fallback
	}
	return level
}

// String summarizes the configuration for debug logging.
func (c Config) String() string {
	table := c.TablePath
	if table == "" {
		table = "built-in"
	}
	return fmt.Sprintf("dir=%s range=%s..%s table=%s duplicates=%s dry-run=%t fail-fast=%t",
		c.Layout.BaseDir, c.Layout.Name(c.Layout.First), c.Layout.Name(c.Layout.Last),
		table, c.Duplicates, c.DryRun, c.FailFast)
}
