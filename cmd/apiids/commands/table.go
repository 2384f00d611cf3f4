package commands

import (
	"flag"
	"fmt"
	"strings"

	"github.com/sdmap/apiids/internal/cliutil"
	"github.com/sdmap/apiids/internal/config"
	"github.com/sdmap/apiids/patterns"
)

// TableFlags contains flags for the table command
type TableFlags struct {
	tableFlags
	Format string
}

// TableListing is the structured output of the table command.
type TableListing struct {
	Policy    string              `json:"duplicatePolicy" yaml:"duplicatePolicy"`
	Entries   int                 `json:"entries" yaml:"entries"`
	Groups    []patterns.Group    `json:"groups" yaml:"groups"`
	Conflicts []patterns.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// SetupTableFlags creates and configures a FlagSet for the table command.
func SetupTableFlags(cfg config.Config) (*flag.FlagSet, *TableFlags) {
	fs := flag.NewFlagSet("table", flag.ContinueOnError)
	fs.SetOutput(stderr)
	flags := &TableFlags{}

	flags.register(fs, cfg)
	fs.StringVar(&flags.Format, "format", cliutil.FormatText, "output format: text, json, or yaml")

	fs.Usage = func() {
		cliutil.Writef(fs.Output(), "Usage: apiids table [flags]\n\n")
		cliutil.Writef(fs.Output(), "List the pattern table in match order, grouped by service.\n")
		cliutil.Writef(fs.Output(), "Entries marked [review] map to an ID that depends on context an\n")
		cliutil.Writef(fs.Output(), "endpoint does not carry.\n\n")
		cliutil.Writef(fs.Output(), "Flags:\n")
		fs.PrintDefaults()
		cliutil.Writef(fs.Output(), "\nExamples:\n")
		cliutil.Writef(fs.Output(), "  apiids table\n")
		cliutil.Writef(fs.Output(), "  apiids table -table patterns.yaml -format yaml\n")
	}

	return fs, flags
}

// NewTableListing builds the listing for table.
func NewTableListing(table *patterns.Table) TableListing {
	return TableListing{
		Policy:    string(table.Policy()),
		Entries:   table.Len(),
		Groups:    table.Groups(),
		Conflicts: table.Conflicts(),
	}
}

// HandleTable executes the table command
func HandleTable(args []string) error {
	base := config.Load()
	fs, flags := SetupTableFlags(base)

	help, err := parseArgs(fs, args)
	if help || err != nil {
		return err
	}
	if fs.NArg() != 0 {
		fs.Usage()
		return fmt.Errorf("table command takes no arguments, got %d", fs.NArg())
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

	listing := NewTableListing(table)
	if flags.Format != cliutil.FormatText {
		return cliutil.OutputStructured(stdout, listing, flags.Format)
	}

	writeTableText(listing)
	return nil
}

func writeTableText(listing TableListing) {
	width := 0
	for _, g := range listing.Groups {
		for _, e := range g.Entries {
			width = max(width, len(e.APIID))
		}
	}

	for i, g := range listing.Groups {
		if i > 0 {
			cliutil.Writef(stdout, "\n")
		}
		cliutil.Writef(stdout, "%s\n", g.Title)
		for _, e := range g.Entries {
			line := fmt.Sprintf("  %-*s  %s", width, e.APIID, e.Pattern)
			if e.Ambiguous {
				line += "  [review]"
			}
			if e.Note != "" {
				line += "  # " + e.Note
			}
			cliutil.Writef(stdout, "%s\n", line)
		}
	}

	cliutil.Writef(stdout, "\n%d entries, duplicate policy %s\n", listing.Entries, listing.Policy)
	if len(listing.Conflicts) > 0 {
		cliutil.Writef(stdout, "\nDuplicate patterns (%d):\n", len(listing.Conflicts))
		for _, c := range listing.Conflicts {
			cliutil.Writef(stdout, "  %s → %s (using %s)\n", c.Pattern, strings.Join(c.APIIDs, ", "), c.Resolved)
		}
	}
}
