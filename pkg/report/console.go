// Package report renders run progress and summaries for humans and writes
// machine-readable run reports.
package report

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"

	"github.com/Sumatoshi-tech/tsfix/pkg/fixer"
)

// ConsoleOptions controls console verbosity.
type ConsoleOptions struct {
	// Quiet prints only errors and the final tally.
	Quiet bool
	// Verbose adds pass names per file and the lint output.
	Verbose bool
	// NoColor disables ANSI colors regardless of the terminal.
	NoColor bool
	// DryRun changes the per-file verb to "would fix".
	DryRun bool
}

// Console is a fixer.Reporter that prints to a writer.
type Console struct {
	mu   sync.Mutex
	out  io.Writer
	opts ConsoleOptions

	ok   *color.Color
	fail *color.Color
	warn *color.Color
	add  *color.Color
	del  *color.Color
	hunk *color.Color
}

var _ fixer.Reporter = (*Console)(nil)

// NewConsole creates a console reporter.
func NewConsole(out io.Writer, opts ConsoleOptions) *Console {
	c := &Console{
		out:  out,
		opts: opts,
		ok:   color.New(color.FgGreen),
		fail: color.New(color.FgRed),
		warn: color.New(color.FgYellow),
		add:  color.New(color.FgGreen),
		del:  color.New(color.FgRed),
		hunk: color.New(color.FgCyan),
	}

	if opts.NoColor {
		for _, col := range []*color.Color{c.ok, c.fail, c.warn, c.add, c.del, c.hunk} {
			col.DisableColor()
		}
	}

	return c
}

// FileFixed prints "fixed: <path>".
func (c *Console) FileFixed(path string, passes []string) {
	if c.opts.Quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	verb := "fixed"
	if c.opts.DryRun {
		verb = "would fix"
	}

	if c.opts.Verbose && len(passes) > 0 {
		c.ok.Fprintf(c.out, "%s: %s (%s)\n", verb, path, strings.Join(passes, ", "))

		return
	}

	c.ok.Fprintf(c.out, "%s: %s\n", verb, path)
}

// FileFailed prints "error: <path>: <message>". Errors are never quiet.
func (c *Console) FileFailed(path string, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.fail.Fprintf(c.out, "error: %s: %v\n", path, err)
}

// FileDiff prints a unified diff with added and removed lines colored.
func (c *Console) FileDiff(_ string, diff string) {
	if diff == "" {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	for _, line := range strings.SplitAfter(diff, "\n") {
		switch {
		case line == "":
		case strings.HasPrefix(line, "+++"), strings.HasPrefix(line, "---"):
			fmt.Fprint(c.out, line)
		case strings.HasPrefix(line, "@@"):
			c.hunk.Fprint(c.out, line)
		case strings.HasPrefix(line, "+"):
			c.add.Fprint(c.out, line)
		case strings.HasPrefix(line, "-"):
			c.del.Fprint(c.out, line)
		default:
			fmt.Fprint(c.out, line)
		}
	}
}

// PatchApplied prints "patched: <file>".
func (c *Console) PatchApplied(outcome fixer.PatchOutcome) {
	if c.opts.Quiet {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	verb := "patched"
	if c.opts.DryRun {
		verb = "would patch"
	}

	c.ok.Fprintf(c.out, "%s: %s\n", verb, outcome.File)
}

// LintFinished warns when the lint command failed.
func (c *Console) LintFinished(outcome fixer.LintOutcome) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if outcome.Error != "" {
		c.warn.Fprintf(c.out, "warning: lint command %q failed: %s\n", outcome.Command, outcome.Error)
	} else if !c.opts.Quiet {
		fmt.Fprintf(c.out, "lint: %s\n", outcome.Command)
	}

	if c.opts.Verbose && outcome.Output != "" {
		fmt.Fprintln(c.out, strings.TrimRight(outcome.Output, "\n"))
	}
}

// RunFinished prints the final tally and, unless quiet, the per-pass table.
func (c *Console) RunFinished(rep *fixer.RunReport) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.opts.Quiet && len(rep.Tally.PassHits) > 0 {
		fmt.Fprintln(c.out, PassTable(rep.Tally))
	}

	summary := Summary(rep)

	if rep.Tally.Failed > 0 {
		c.warn.Fprintln(c.out, summary)

		return
	}

	fmt.Fprintln(c.out, summary)
}

// Summary is the one-line final tally of a run.
func Summary(rep *fixer.RunReport) string {
	t := rep.Tally

	verb := "modified"
	if rep.DryRun {
		verb = "would modify"
	}

	line := fmt.Sprintf("%s %s examined, %s %s, %s failed",
		humanize.Comma(int64(t.Examined)), plural(t.Examined, "file", "files"),
		humanize.Comma(int64(t.Modified)), verb,
		humanize.Comma(int64(t.Failed)),
	)

	if t.Skipped > 0 {
		line += fmt.Sprintf(", %s skipped", humanize.Comma(int64(t.Skipped)))
	}

	if t.BytesRewritten > 0 {
		line += fmt.Sprintf(" (%s rewritten)", humanize.Bytes(uint64(t.BytesRewritten)))
	}

	if !rep.Finished.IsZero() {
		line += fmt.Sprintf(" in %s", rep.Duration().Round(durationPrecision))
	}

	return line
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}

	return many
}
