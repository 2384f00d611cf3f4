package commands

import (
	"context"
	"flag"
	"fmt"

	"github.com/sdmap/apiids/internal/cliutil"
	"github.com/sdmap/apiids/internal/config"
	"github.com/sdmap/apiids/runner"
)

// RunFlags contains flags for the run command
type RunFlags struct {
	tableFlags
	Dir      string
	Prefix   string
	First    int
	Last     int
	Width    int
	Ext      string
	DryRun   bool
	FailFast bool
	Format   string
	Quiet    bool
}

// SetupRunFlags creates and configures a FlagSet for the run command.
// Flag defaults come from cfg, so flags override environment settings.
func SetupRunFlags(cfg config.Config) (*flag.FlagSet, *RunFlags) {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &RunFlags{}

	fs.StringVar(&flags.Dir, "dir", cfg.Layout.BaseDir, "base directory holding the fixture directories")
	fs.StringVar(&flags.Prefix, "prefix", cfg.Layout.Prefix, "fixture name prefix")
	fs.IntVar(&flags.First, "first", cfg.Layout.First, "first fixture number")
	fs.IntVar(&flags.Last, "last", cfg.Layout.Last, "last fixture number (inclusive)")
	fs.IntVar(&flags.Width, "width", cfg.Layout.Width, "zero-padded width of the fixture number")
	fs.StringVar(&flags.Ext, "ext", cfg.Layout.Ext, "fixture file extension")
	flags.register(fs, cfg)
	fs.BoolVar(&flags.DryRun, "dry-run", cfg.DryRun, "report replacements without writing files")
	fs.BoolVar(&flags.FailFast, "fail-fast", cfg.FailFast, "stop at the first file that cannot be processed")
	fs.StringVar(&flags.Format, "format", cliutil.FormatText, "summary format: text, json, or yaml")
	fs.BoolVar(&flags.Quiet, "q", false, "quiet mode: no progress lines or text summary")
	fs.BoolVar(&flags.Quiet, "quiet", false, "quiet mode: no progress lines or text summary")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apiids run [flags]\n\n")
		cliutil.Writef(fs.Output(), "Replace endpoint fields in fixture files with API IDs.\n\n")
		cliutil.Writef(fs.Output(), "Fixture n is read from <dir>/<prefix><n>/<prefix><n><ext>, with n\n")
		cliutil.Writef(fs.Output(), "zero-padded to -width digits. Missing fixtures are skipped.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nEnvironment:\n")
		cliutil.Writef(fs.Output(), "  Every flag default can be set with an APIIDS_* variable, e.g.\n")
		cliutil.Writef(fs.Output(), "  APIIDS_BASE_DIR, APIIDS_LAST, APIIDS_TABLE. A .env file in the\n")
		cliutil.Writef(fs.Output(), "  working directory is read first.\n")
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  apiids run\n")
		cliutil.Writef(fs.Output(), "  apiids run -dir fixtures -dry-run\n")
		cliutil.Writef(fs.Output(), "  apiids run -table patterns.yaml -duplicates first\n")
		cliutil.Writef(fs.Output(), "  apiids run -format json -q > summary.json\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    All fixtures processed\n")
		cliutil.Writef(fs.Output(), "  1    Invalid configuration, or at least one fixture failed\n")
	}

	return fs, flags
}

// Config returns cfg with the layout and run flags applied.
func (f *RunFlags) Config(cfg config.Config) (config.Config, error) {
	if err := f.apply(&cfg); err != nil {
		return cfg, err
	}
	cfg.Layout = runner.Layout{
		BaseDir: f.Dir,
		Prefix:  f.Prefix,
		Width:   f.Width,
		First:   f.First,
		Last:    f.Last,
		Ext:     f.Ext,
	}
	cfg.DryRun = f.DryRun
	cfg.FailFast = f.FailFast
	return cfg, nil
}

// HandleRun executes the run command
func HandleRun(ctx context.Context, args []string) error {
	base := config.Load()
	fs, flags := SetupRunFlags(base)

	help, err := parseArgs(fs, args)
	if help || err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("run command takes no arguments, got %d", fs.NArg())
	}
	if err := validateFormat(flags.Format); err != nil {
		return err
	}

	cfg, err := flags.Config(base)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	table, err := cfg.LoadTable()
	if err != nil {
		return err
	}

	logger := newLogger(cfg.LogLevel)
	logger.Debug("starting run", "config", cfg.String())

	runCfg := runner.Config{
		Layout:   cfg.Layout,
		Table:    table,
		DryRun:   cfg.DryRun,
		FailFast: cfg.FailFast,
		Logger:   logger,
	}
	text := flags.Format == cliutil.FormatText
	if text && !flags.Quiet {
		runCfg.Progress = stdout
	}

	summary, runErr := runner.Run(ctx, runCfg)
	if summary == nil {
		return runErr
	}

	switch {
	case !text:
		if err := cliutil.OutputStructured(stdout, summary, flags.Format); err != nil {
			return err
		}
	case !flags.Quiet:
		summary.WriteText(stdout)
	}

	if runErr != nil {
		return runErr
	}
	if failures := summary.Failures(); len(failures) > 0 {
		return fmt.Errorf("%d of %d files: %w", len(failures), summary.Considered, ErrFilesFailed)
	}
	return nil
}
