package bulk

import (
	"fmt"
	"io"
	"os"
)

// GroupError records one failed case group for the summary.
type GroupError struct {
	Key      string // case id or title
	RowRange string // source lines of the group
	Err      error
}

// Result aggregates an import run. With DryRun set the totals describe
// what would happen rather than what did.
type Result struct {
	Created int
	Updated int
	Failed  int
	DryRun  bool
	Errors  []GroupError
}

// Total returns the number of groups the run looked at.
func (r *Result) Total() int {
	return r.Created + r.Updated + r.Failed
}

// ExitCode maps the outcome onto the process exit code.
func (r *Result) ExitCode() int {
	if r.Failed == 0 {
		return 0 // all groups landed
	}
	if r.Created+r.Updated > 0 {
		return 5 // partial success
	}
	return 1 // nothing landed
}

// PrintSummary writes the human-readable outcome. At most ten failures
// are listed; the count names the rest.
func (r *Result) PrintSummary(w io.Writer) {
	switch {
	case r.Failed == 0 && r.DryRun:
		fmt.Fprintf(w, "\n✓ Dry run: %d cases would be created, %d updated\n", r.Created, r.Updated)
	case r.Failed == 0:
		fmt.Fprintf(w, "\n✓ All %d groups imported: %d created, %d updated\n", r.Total(), r.Created, r.Updated)
	case r.Created+r.Updated == 0:
		fmt.Fprintf(w, "\n✗ All %d groups failed\n", r.Failed)
	case r.DryRun:
		fmt.Fprintf(w, "\n⚠ Dry run: %d cases would be created, %d updated, %d failed\n",
			r.Created, r.Updated, r.Failed)
	default:
		fmt.Fprintf(w, "\n⚠ Partial import: %d created, %d updated, %d failed (out of %d)\n",
			r.Created, r.Updated, r.Failed, r.Total())
	}

	if len(r.Errors) == 0 {
		return
	}
	shown := r.Errors
	if len(shown) > 10 {
		fmt.Fprintf(w, "\nShowing first 10 failures (of %d):\n", len(r.Errors))
		shown = shown[:10]
	} else {
		fmt.Fprintf(w, "\nFailures:\n")
	}
	for _, e := range shown {
		fmt.Fprintf(w, "  %s (%s): %v\n", e.Key, e.RowRange, e.Err)
	}
}

// isatty reports whether f is a terminal, which gates progress lines.
func isatty(f *os.File) bool {
	stat, err := f.Stat()
	if err != nil {
		return false
	}
	return (stat.Mode() & os.ModeCharDevice) != 0
}
