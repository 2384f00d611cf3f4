package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/sdmap/apiids/internal/cliutil"
	"github.com/sdmap/apiids/internal/config"
	"github.com/sdmap/apiids/internal/mcpserver"
)

// SetupMCPFlags creates and configures a FlagSet for the mcp command.
func SetupMCPFlags(cfg config.Config) (*flag.FlagSet, *tableFlags) {
	fs := flag.NewFlagSet("mcp", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &tableFlags{}

	flags.register(fs, cfg)

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apiids mcp [flags]\n\n")
		cliutil.Writef(fs.Output(), "Serve lookup_endpoint, list_patterns and normalize_fixture as MCP\n")
		cliutil.Writef(fs.Output(), "tools over stdio. Logs are written to stderr.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  APIIDS_MCP_ALLOW_WRITE=true lets normalize_fixture rewrite files.\n")
	}

	return fs, flags
}

// HandleMCP executes the mcp command
func HandleMCP(ctx context.Context, args []string) error {
	base := config.Load()
	fs, flags := SetupMCPFlags(base)

	help, err := parseArgs(fs, args)
	if help || err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("mcp command takes no arguments, got %d", fs.NArg())
	}

	cfg := base
	if err := flags.apply(&cfg); err != nil {
		return err
	}
	table, err := cfg.LoadTable()
	if err != nil {
		return err
	}

	return mcpserver.Run(ctx, table, newLogger(cfg.LogLevel))
}
