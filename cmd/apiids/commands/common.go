// Package commands provides CLI command handlers for apiids.
package commands

import (
	"errors"
	"flag"
	"io"
	"log/slog"
	"os"

	"github.com/sdmap/apiids/internal/cliutil"
	"github.com/sdmap/apiids/internal/config"
	"github.com/sdmap/apiids/normalizer"
	"github.com/sdmap/apiids/patterns"
)

// Output destinations. Tests replace them to capture output.
var (
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

// ErrFilesFailed is returned by the run command when at least one fixture
// could not be processed.
var ErrFilesFailed = errors.New("one or more files failed")

// ErrNoMatch is returned by the lookup command when at least one endpoint
// matched no pattern.
var ErrNoMatch = errors.New("one or more endpoints did not match")

// tableFlags are the flags shared by every command that loads a table.
type tableFlags struct {
	Table      string
	Duplicates string
	LogLevel   string
}

// register binds the table flags to fs, using cfg for the defaults.
func (f *tableFlags) register(fs *flag.FlagSet, cfg config.Config) {
	fs.StringVar(&f.Table, "table", cfg.TablePath, "pattern table file, YAML or JSON (default: built-in table)")
	fs.StringVar(&f.Duplicates, "duplicates", string(cfg.Duplicates), "duplicate pattern policy: keyed or first")
	fs.StringVar(&f.LogLevel, "log-level", cfg.LogLevel.String(), "log level: debug, info, warn, error")
}

// apply copies the flag values into cfg.
func (f *tableFlags) apply(cfg *config.Config) error {
	policy, err := patterns.ParseDuplicatePolicy(f.Duplicates)
	if err != nil {
		return err
	}
	level, err := config.ParseLevel(f.LogLevel)
	if err != nil {
		return err
	}
	cfg.TablePath = f.Table
	cfg.Duplicates = policy
	cfg.LogLevel = level
	return nil
}

// newLogger returns a logger writing text records to stderr.
func newLogger(level slog.Level) normalizer.Logger {
	handler := slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})
	return normalizer.NewSlogAdapter(slog.New(handler))
}

// validateFormat checks an output format flag.
func validateFormat(format string) error {
	return cliutil.ValidateOutputFormat(format)
}

// parseArgs parses args with fs. It reports help=true when -h was given.
func parseArgs(fs *flag.FlagSet, args []string) (help bool, err error) {
	if err := fs.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return true, nil
		}
		return false, err
	}
	return false, nil
}
