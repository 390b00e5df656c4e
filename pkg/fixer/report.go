package fixer

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"
)

// File statuses recorded in a RunReport.
const (
	StatusModified    = "modified"
	StatusWouldModify = "would-modify"
	StatusUnchanged   = "unchanged"
	StatusFailed      = "failed"
)

// Tally counts what a run did. It is updated once per file, after the write
// decision.
type Tally struct {
	Examined       int            `json:"examined"            yaml:"examined"`
	Modified       int            `json:"modified"            yaml:"modified"`
	Failed         int            `json:"failed"              yaml:"failed"`
	Skipped        int            `json:"skipped"             yaml:"skipped"`
	BytesRewritten int64          `json:"bytes_rewritten"     yaml:"bytes_rewritten"`
	PassHits       map[string]int `json:"pass_hits,omitempty" yaml:"pass_hits,omitempty"`
}

func (t *Tally) add(outcome FileOutcome, written int) {
	t.Examined++

	switch outcome.Status {
	case StatusFailed:
		t.Failed++

		return
	case StatusModified, StatusWouldModify:
		t.Modified++
		t.BytesRewritten += int64(written)
	}

	if len(outcome.Passes) > 0 && t.PassHits == nil {
		t.PassHits = make(map[string]int)
	}

	for _, pass := range outcome.Passes {
		t.PassHits[pass]++
	}
}

// PassNames returns the passes with at least one hit, sorted.
func (t Tally) PassNames() []string {
	return slices.Sorted(maps.Keys(t.PassHits))
}

// FileOutcome is the result of processing one file. Paths are slash
// separated and relative to the run root.
type FileOutcome struct {
	Path   string   `json:"path"             yaml:"path"`
	Status string   `json:"status"           yaml:"status"`
	Passes []string `json:"passes,omitempty" yaml:"passes,omitempty"`
	Error  string   `json:"error,omitempty"  yaml:"error,omitempty"`
}

// PatchOutcome is the result of applying one literal patch.
type PatchOutcome struct {
	File    string `json:"file"              yaml:"file"`
	Applied bool   `json:"applied"           yaml:"applied"`
	Missing bool   `json:"missing,omitempty" yaml:"missing,omitempty"`
	Error   string `json:"error,omitempty"   yaml:"error,omitempty"`
}

// LintOutcome is the result of the post-pass lint command.
type LintOutcome struct {
	Command string `json:"command"          yaml:"command"`
	Ran     bool   `json:"ran"              yaml:"ran"`
	Error   string `json:"error,omitempty"  yaml:"error,omitempty"`
	Output  string `json:"output,omitempty" yaml:"output,omitempty"`
}

// RunReport describes one complete run. Files lists only modified and
// failed files.
type RunReport struct {
	RunID    string         `json:"run_id"           yaml:"run_id"`
	Root     string         `json:"root"             yaml:"root"`
	DryRun   bool           `json:"dry_run"          yaml:"dry_run"`
	Started  time.Time      `json:"started"          yaml:"started"`
	Finished time.Time      `json:"finished"         yaml:"finished"`
	Tally    Tally          `json:"tally"            yaml:"tally"`
	Files    []FileOutcome  `json:"files,omitempty"  yaml:"files,omitempty"`
	Patches  []PatchOutcome `json:"patches,omitempty" yaml:"patches,omitempty"`
	Lint     *LintOutcome   `json:"lint,omitempty"   yaml:"lint,omitempty"`
}

// Duration is the wall time of the run.
func (r *RunReport) Duration() time.Duration {
	return r.Finished.Sub(r.Started)
}

// FileError is a per-file failure. It never aborts a run.
type FileError struct {
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Errors returns the failed files of the run.
func (r *RunReport) Errors() []*FileError {
	var errs []*FileError

	for _, f := range r.Files {
		if f.Status == StatusFailed {
			errs = append(errs, &FileError{Path: f.Path, Err: errors.New(f.Error)})
		}
	}

	return errs
}
