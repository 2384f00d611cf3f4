package runner

import (
	"io"
	"strings"

	"github.com/sdmap/apiids/internal/cliutil"
)

// WriteText writes the human-readable run summary to w: the processed and
// modified counts, followed by a section for each kind of result that needs
// attention.
func (s *Summary) WriteText(w io.Writer) {
	cliutil.Writef(w, "\n✓ Processed %d files\n", s.Considered)
	if s.DryRun {
		cliutil.Writef(w, "✓ Would modify %d files (dry run, nothing written)\n", s.Modified)
	} else {
		cliutil.Writef(w, "✓ Modified %d files\n", s.Modified)
	}

	if unresolved := s.Unresolved(); len(unresolved) > 0 {
		cliutil.Writef(w, "\nUnresolved endpoints (%d):\n", len(unresolved))
		for _, u := range unresolved {
			endpoint := u.Unresolved.Endpoint
			if endpoint == "" {
				endpoint = `""`
			}
			cliutil.Writef(w, "  %s: %s - %s (%s)\n", u.File, u.Unresolved.Label, endpoint, u.Unresolved.Reason)
		}
	}

	if reviews := s.Reviews(); len(reviews) > 0 {
		cliutil.Writef(w, "\nNeeds review (%d):\n", len(reviews))
		for _, r := range reviews {
			line := "  " + r.File + ": " + r.Replacement.String()
			if r.Replacement.Note != "" {
				line += " (" + r.Replacement.Note + ")"
			}
			cliutil.Writef(w, "%s\n", line)
		}
	}

	if len(s.Conflicts) > 0 {
		cliutil.Writef(w, "\nDuplicate patterns (%d):\n", len(s.Conflicts))
		for _, c := range s.Conflicts {
			cliutil.Writef(w, "  %s → %s (using %s)\n", c.Pattern, strings.Join(c.APIIDs, ", "), c.Resolved)
		}
	}

	if failures := s.Failures(); len(failures) > 0 {
		cliutil.Writef(w, "\n✗ Failed %d files:\n", len(failures))
		for _, f := range failures {
			cliutil.Writef(w, "  %s: %s\n", f.Name, f.Error)
		}
	}
}
