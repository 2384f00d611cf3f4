package commands

import (
	"flag"
	"fmt"

	"github.com/sdmap/apiids/internal/cliutil"
	"github.com/sdmap/apiids/internal/config"
	"github.com/sdmap/apiids/patterns"
)

// LookupFlags contains flags for the lookup command
type LookupFlags struct {
	tableFlags
	Format string
}

// LookupResult is the structured output of the lookup command for one endpoint.
type LookupResult struct {
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	Canonical   string `json:"canonical" yaml:"canonical"`
	Matched     bool   `json:"matched" yaml:"matched"`
	APIID       string `json:"apiId,omitempty" yaml:"apiId,omitempty"`
	Pattern     string `json:"pattern,omitempty" yaml:"pattern,omitempty"`
	Note        string `json:"note,omitempty" yaml:"note,omitempty"`
	NeedsReview bool   `json:"needsReview,omitempty" yaml:"needsReview,omitempty"`
}

// SetupLookupFlags creates and configures a FlagSet for the lookup command.
func SetupLookupFlags(cfg config.Config) (*flag.FlagSet, *LookupFlags) {
	fs := flag.NewFlagSet("lookup", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &LookupFlags{}

	flags.register(fs, cfg)
	fs.StringVar(&flags.Format, "format", cliutil.FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apiids lookup [flags] <endpoint>...\n\n")
		cliutil.Writef(fs.Output(), "Show the API ID each endpoint maps to.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  apiids lookup /citizen-details/:nino/designatory-details\n")
		cliutil.Writef(fs.Output(), "  apiids lookup -duplicates first /agent-fi-relationship/relationships/agent/:arn/service/:s/client/:c\n")
		cliutil.Writef(fs.Output(), "  apiids lookup -format json /hmrc/email /unknown\n")
		cliutil.Writef(fs.Output(), "\nExit Codes:\n")
		cliutil.Writef(fs.Output(), "  0    Every endpoint matched\n")
		cliutil.Writef(fs.Output(), "  1    At least one endpoint did not match, or the table is invalid\n")
	}

	return fs, flags
}

// Lookup resolves each endpoint against table.
func Lookup(table *patterns.Table, endpoints []string) []LookupResult {
	results := make([]LookupResult, 0, len(endpoints))
	for _, endpoint := range endpoints {
		r := LookupResult{Endpoint: endpoint, Canonical: patterns.Canonicalize(endpoint)}
		if m, ok := table.Match(endpoint); ok {
			r.Matched = true
			r.APIID = m.Entry.APIID
			r.Pattern = m.Entry.Pattern
			r.Note = m.Entry.Note
			r.NeedsReview = m.NeedsReview()
		}
		results = append(results, r)
	}
	return results
}

// HandleLookup executes the lookup command
func HandleLookup(args []string) error {
	base := config.Load()
	fs, flags := SetupLookupFlags(base)

	help, err := parseArgs(fs, args)
	if help || err != nil {
		return err
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return fmt.Errorf("lookup command requires at least one endpoint")
	}
	if err := validateFormat(flags.Format); err != nil {
		return err
	}

	cfg := base
	if err := flags.apply(&cfg); err != nil {
		return err
	}
	table, err := cfg.LoadTable()
	if err != nil {
		return err
	}

	results := Lookup(table, fs.Args())
	if flags.Format != cliutil.FormatText {
		if err := cliutil.OutputStructured(stdout, results, flags.Format); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			switch {
			case !r.Matched:
				cliutil.Writef(stdout, "%s → (no match)\n", r.Endpoint)
			case r.NeedsReview && r.Note != "":
				cliutil.Writef(stdout, "%s → %s (review: %s)\n", r.Endpoint, r.APIID, r.Note)
			case r.NeedsReview:
				cliutil.Writef(stdout, "%s → %s (review: duplicate pattern)\n", r.Endpoint, r.APIID)
			default:
				cliutil.Writef(stdout, "%s → %s\n", r.Endpoint, r.APIID)
			}
		}
	}

	for _, r := range results {
		if !r.Matched {
			return ErrNoMatch
		}
	}
	return nil
}
