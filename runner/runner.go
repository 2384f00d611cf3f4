package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/sdmap/apiids/internal/cliutil"
	"github.com/sdmap/apiids/normalizer"
	"github.com/sdmap/apiids/patterns"
)

// Config controls a normalization run.
type Config struct {
	Layout Layout
	// Table is the pattern table. Defaults to patterns.Default().
	Table *patterns.Table
	// DryRun reports what would change without writing files
	DryRun bool
	// FailFast stops the run at the first file that cannot be processed
	FailFast bool
	// Logger receives diagnostic output. Defaults to normalizer.NopLogger.
	Logger normalizer.Logger
	// Progress receives one line per replacement. Nil discards progress.
	Progress io.Writer
	// Options are applied to the normalizer after Logger and DryRun.
	Options []normalizer.Option
}

// FileReport is the outcome for one existing fixture file.
type FileReport struct {
	Name         string                   `json:"name" yaml:"name"`
	Path         string                   `json:"path" yaml:"path"`
	Modified     bool                     `json:"modified" yaml:"modified"`
	Written      bool                     `json:"written" yaml:"written"`
	Replacements []normalizer.Replacement `json:"replacements,omitempty" yaml:"replacements,omitempty"`
	Unresolved   []normalizer.Unresolved  `json:"unresolved,omitempty" yaml:"unresolved,omitempty"`
	Error        string                   `json:"error,omitempty" yaml:"error,omitempty"`

	err error
}

// Err returns the error that stopped this file from being processed.
func (f FileReport) Err() error {
	return f.err
}

// Failed reports whether the file could not be processed.
func (f FileReport) Failed() bool {
	return f.err != nil
}

// Summary is the result of a run.
type Summary struct {
	RunID     string        `json:"runId" yaml:"runId"`
	StartedAt time.Time     `json:"startedAt" yaml:"startedAt"`
	Duration  time.Duration `json:"duration" yaml:"duration"`
	DryRun    bool          `json:"dryRun" yaml:"dryRun"`
	// Considered counts the candidate files that existed
	Considered int `json:"considered" yaml:"considered"`
	// Modified counts files with at least one replacement
	Modified  int                 `json:"modified" yaml:"modified"`
	Files     []FileReport        `json:"files" yaml:"files"`
	Conflicts []patterns.Conflict `json:"conflicts,omitempty" yaml:"conflicts,omitempty"`
}

// Failures returns the files that could not be processed.
func (s *Summary) Failures() []FileReport {
	var out []FileReport
	for _, f := range s.Files {
		if f.Failed() {
			out = append(out, f)
		}
	}
	return out
}

// FileEndpoint pairs a file name with one of its endpoints.
type FileEndpoint struct {
	File       string
	Unresolved normalizer.Unresolved
}

// Unresolved returns every endpoint left in place, by file.
func (s *Summary) Unresolved() []FileEndpoint {
	var out []FileEndpoint
	for _, f := range s.Files {
		for _, u := range f.Unresolved {
			out = append(out, FileEndpoint{File: f.Name, Unresolved: u})
		}
	}
	return out
}

// FileReplacement pairs a file name with one of its replacements.
type FileReplacement struct {
	File        string
	Replacement normalizer.Replacement
}

// Reviews returns every replacement that came from an ambiguous or
// conflicting table entry, by file.
func (s *Summary) Reviews() []FileReplacement {
	var out []FileReplacement
	for _, f := range s.Files {
		for _, r := range f.Replacements {
			if r.NeedsReview {
				out = append(out, FileReplacement{File: f.Name, Replacement: r})
			}
		}
	}
	return out
}

// Run normalizes every fixture of cfg.Layout that exists.
//
// A file that cannot be read, parsed or written is recorded in the summary
// and the run moves on to the next candidate, unless FailFast is set. The
// returned error is non-nil only when the run stopped early: the layout is
// invalid, ctx was cancelled, or FailFast hit a failing file. The summary
// is returned in every case except an invalid layout.
func Run(ctx context.Context, cfg Config) (*Summary, error) {
	if err := cfg.Layout.Validate(); err != nil {
		return nil, err
	}
	table := cfg.Table
	if table == nil {
		table = patterns.Default()
	}
	logger := cfg.Logger
	if logger == nil {
		logger = normalizer.NopLogger{}
	}
	progress := cfg.Progress
	if progress == nil {
		progress = io.Discard
	}

	summary := &Summary{
		RunID:     uuid.NewString(),
		StartedAt: time.Now(),
		DryRun:    cfg.DryRun,
		Conflicts: table.Conflicts(),
	}
	defer func() { summary.Duration = time.Since(summary.StartedAt) }()

	logger = logger.With("run_id", summary.RunID)
	for _, c := range summary.Conflicts {
		logger.Warn("duplicate pattern with different API IDs",
			"pattern", c.Pattern, "apiIds", c.APIIDs, "resolved", c.Resolved)
	}

	opts := append([]normalizer.Option{normalizer.WithLogger(logger), normalizer.WithDryRun(cfg.DryRun)}, cfg.Options...)
	n := normalizer.New(table, opts...)
	cliutil.Writef(progress, "Processing %s JSON files...\n\n", cfg.Layout.Prefix)

	for _, cand := range cfg.Layout.Candidates() {
		if err := ctx.Err(); err != nil {
			return summary, fmt.Errorf("runner: run interrupted before %s: %w", cand.Name, err)
		}

		if _, err := os.Stat(cand.Path); errors.Is(err, os.ErrNotExist) {
			logger.Debug("fixture not found, skipping", "path", cand.Path)
			continue
		}
		summary.Considered++

		report := FileReport{Name: cand.FileName(), Path: cand.Path}
		res, err := n.ProcessFile(cand.Path)
		if res != nil {
			report.Modified = res.Modified()
			report.Written = res.Written
			report.Replacements = res.Replacements
			report.Unresolved = res.Unresolved
			for _, r := range res.Replacements {
				cliutil.Writef(progress, "  %s: %s\n", report.Name, r)
			}
		}
		if err != nil {
			report.err = err
			report.Error = err.Error()
			logger.Error("failed to process fixture", "path", cand.Path, "error", err)
		} else if report.Modified {
			summary.Modified++
		}
		summary.Files = append(summary.Files, report)

		if err != nil && cfg.FailFast {
			return summary, fmt.Errorf("runner: %s: %w", report.Name, err)
		}
	}

	logger.Info("run complete", "considered", summary.Considered, "modified", summary.Modified)
	return summary, nil
}
