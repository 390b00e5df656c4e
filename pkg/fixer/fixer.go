// Package fixer runs the rewrite pipeline over a source tree: it collects the
// files to fix, rewrites them one at a time, applies literal config patches
// and finishes with an external lint command.
package fixer

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"slices"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/src-d/enry/v2"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	nooptrace "go.opentelemetry.io/otel/trace/noop"

	"github.com/Sumatoshi-tech/tsfix/pkg/observability"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
	"github.com/Sumatoshi-tech/tsfix/pkg/textutil"
)

// Sentinel errors for run setup.
var (
	// ErrScanDirNotFound indicates the directory to scan does not exist.
	ErrScanDirNotFound = errors.New("scan directory not found")
	// ErrScanDirNotDir indicates the scan path is not a directory.
	ErrScanDirNotDir = errors.New("scan path is not a directory")
	// ErrBinaryContent marks a matching file that holds binary data.
	ErrBinaryContent = errors.New("binary content")
)

// maxLintOutput bounds the lint output kept in a report.
const maxLintOutput = 4096

// Options controls what a run touches.
type Options struct {
	// Root is the project root. Paths in reports are relative to it.
	Root string
	// ScanDir is the directory under Root that is walked. Empty means Root.
	ScanDir string
	// Extensions lists the file extensions to rewrite, with leading dots.
	Extensions []string
	// Excludes are slash-separated glob patterns matched against the path
	// relative to Root, its base name, and its leading directories.
	Excludes []string
	// MaxFileSize skips larger files. Zero means no limit.
	MaxFileSize uint64
	// DryRun computes every change without writing.
	DryRun bool
	// ShowDiff reports a unified diff for every changed file.
	ShowDiff bool
	// Patches are applied after the pipeline unless SkipPatches is set.
	Patches     []Patch
	SkipPatches bool
	// LintArgs is the post-pass command. Empty disables it.
	LintArgs []string
}

// FileReporter receives per-file progress.
type FileReporter interface {
	FileFixed(path string, passes []string)
	FileFailed(path string, err error)
	FileDiff(path, diff string)
}

// StageReporter receives the outcome of the stages after the file pass.
type StageReporter interface {
	PatchApplied(outcome PatchOutcome)
	LintFinished(outcome LintOutcome)
	RunFinished(report *RunReport)
}

// Reporter receives every progress callback of a run.
type Reporter interface {
	FileReporter
	StageReporter
}

// NopReporter ignores every callback.
type NopReporter struct{}

// FileFixed implements Reporter.
func (NopReporter) FileFixed(string, []string) {}

// FileFailed implements Reporter.
func (NopReporter) FileFailed(string, error) {}

// FileDiff implements Reporter.
func (NopReporter) FileDiff(string, string) {}

// PatchApplied implements Reporter.
func (NopReporter) PatchApplied(PatchOutcome) {}

// LintFinished implements Reporter.
func (NopReporter) LintFinished(LintOutcome) {}

// RunFinished implements Reporter.
func (NopReporter) RunFinished(*RunReport) {}

// Deps holds the collaborators of a Fixer. Zero fields get no-op defaults.
type Deps struct {
	Logger   *slog.Logger
	Tracer   trace.Tracer
	Metrics  *observability.FixMetrics
	Reporter Reporter
	Lint     LintRunner
	Now      func() time.Time
}

// Fixer runs a pipeline over the files selected by its Options.
type Fixer struct {
	opts     Options
	pipeline *rewrite.Pipeline
	deps     Deps
}

// New creates a Fixer.
func New(opts Options, pipeline *rewrite.Pipeline, deps Deps) *Fixer {
	if deps.Logger == nil {
		deps.Logger = slog.New(slog.DiscardHandler)
	}

	if deps.Tracer == nil {
		deps.Tracer = nooptrace.NewTracerProvider().Tracer("")
	}

	if deps.Reporter == nil {
		deps.Reporter = NopReporter{}
	}

	if deps.Lint == nil {
		deps.Lint = ExecLint
	}

	if deps.Now == nil {
		deps.Now = time.Now
	}

	return &Fixer{opts: opts, pipeline: pipeline, deps: deps}
}

// Run processes every collected file sequentially, then applies patches and
// runs the lint command. Per-file failures are recorded in the report and do
// not stop the run. An error is returned only when the file set cannot be
// collected or ctx is cancelled; the partial report is returned with it.
func (f *Fixer) Run(ctx context.Context) (*RunReport, error) {
	report := &RunReport{
		RunID:   uuid.NewString(),
		Root:    f.opts.Root,
		DryRun:  f.opts.DryRun,
		Started: f.deps.Now(),
	}

	ctx, span := f.deps.Tracer.Start(ctx, "fix.run", trace.WithAttributes(
		attribute.String("run.id", report.RunID),
		attribute.Bool("run.dry_run", f.opts.DryRun),
	))
	defer span.End()

	logger := f.deps.Logger.With("run_id", report.RunID)

	files, skipped, err := f.Collect(ctx)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())

		return report, err
	}

	report.Tally.Skipped = skipped

	logger.InfoContext(ctx, "collected files", "count", len(files), "skipped", skipped)

	for _, file := range files {
		if ctxErr := ctx.Err(); ctxErr != nil {
			report.Finished = f.deps.Now()

			return report, fmt.Errorf("run interrupted: %w", ctxErr)
		}

		outcome, written := f.processFile(ctx, logger, file)
		report.Tally.add(outcome, written)

		if outcome.Status != StatusUnchanged {
			report.Files = append(report.Files, outcome)
		}
	}

	if !f.opts.SkipPatches {
		report.Patches = f.Patch(ctx)
	}

	if len(f.opts.LintArgs) > 0 && !f.opts.DryRun {
		lint := f.lint(ctx, logger)
		report.Lint = &lint
	}

	report.Finished = f.deps.Now()

	span.SetAttributes(
		attribute.Int("run.examined", report.Tally.Examined),
		attribute.Int("run.modified", report.Tally.Modified),
		attribute.Int("run.failed", report.Tally.Failed),
	)

	logger.InfoContext(ctx, "run finished",
		"examined", report.Tally.Examined,
		"modified", report.Tally.Modified,
		"failed", report.Tally.Failed,
		"duration", report.Duration(),
	)

	f.deps.Reporter.RunFinished(report)

	return report, nil
}

// Collect walks the scan directory and returns the files to process in
// lexical order, plus the number of files skipped for size.
func (f *Fixer) Collect(ctx context.Context) ([]string, int, error) {
	scanRoot := filepath.Join(f.opts.Root, f.opts.ScanDir)

	info, statErr := os.Stat(scanRoot)
	if statErr != nil {
		if errors.Is(statErr, fs.ErrNotExist) {
			return nil, 0, fmt.Errorf("%w: %s", ErrScanDirNotFound, scanRoot)
		}

		return nil, 0, fmt.Errorf("stat %s: %w", scanRoot, statErr)
	}

	if !info.IsDir() {
		return nil, 0, fmt.Errorf("%w: %s", ErrScanDirNotDir, scanRoot)
	}

	var (
		files   []string
		skipped int
	)

	walkErr := filepath.WalkDir(scanRoot, func(p string, entry fs.DirEntry, err error) error {
		if err != nil {
			if errors.Is(err, fs.ErrPermission) || errors.Is(err, fs.ErrNotExist) {
				f.deps.Logger.WarnContext(ctx, "skipping unreadable path", "path", p, "error", err)

				if entry != nil && entry.IsDir() {
					return filepath.SkipDir
				}

				return nil
			}

			return err
		}

		rel := f.relPath(p)

		if entry.IsDir() {
			if p != scanRoot && f.skipDir(entry.Name(), rel) {
				return filepath.SkipDir
			}

			return nil
		}

		if !f.wantFile(rel) {
			return nil
		}

		if f.opts.MaxFileSize > 0 {
			fi, infoErr := entry.Info()
			if infoErr == nil && uint64(fi.Size()) > f.opts.MaxFileSize {
				f.deps.Logger.DebugContext(ctx, "skipping large file", "path", rel, "size", fi.Size())

				skipped++

				return nil
			}
		}

		files = append(files, p)

		return nil
	})
	if walkErr != nil {
		return nil, 0, fmt.Errorf("walk %s: %w", scanRoot, walkErr)
	}

	return files, skipped, nil
}

func (f *Fixer) skipDir(name, rel string) bool {
	if strings.HasPrefix(name, ".") {
		return true
	}

	if enry.IsVendor(rel + "/") {
		return true
	}

	return f.excluded(rel)
}

func (f *Fixer) wantFile(rel string) bool {
	if !slices.Contains(f.opts.Extensions, path.Ext(rel)) {
		return false
	}

	if enry.IsVendor(rel) {
		return false
	}

	return !f.excluded(rel)
}

func (f *Fixer) excluded(rel string) bool {
	base := path.Base(rel)

	for _, pattern := range f.opts.Excludes {
		if ok, _ := path.Match(pattern, rel); ok {
			return true
		}

		if ok, _ := path.Match(pattern, base); ok {
			return true
		}

		if strings.HasPrefix(rel, strings.TrimSuffix(pattern, "/")+"/") {
			return true
		}
	}

	return false
}

func (f *Fixer) relPath(p string) string {
	rel, err := filepath.Rel(f.opts.Root, p)
	if err != nil {
		return filepath.ToSlash(p)
	}

	return filepath.ToSlash(rel)
}

// processFile reads, rewrites and writes back one file. It returns the
// outcome and the number of bytes written.
func (f *Fixer) processFile(ctx context.Context, logger *slog.Logger, file string) (FileOutcome, int) {
	start := time.Now()
	rel := f.relPath(file)

	ctx, span := f.deps.Tracer.Start(ctx, "fix.file", trace.WithAttributes(attribute.String("file.path", rel)))
	defer span.End()

	outcome, written, err := f.rewriteFile(file, rel)

	switch {
	case err != nil:
		outcome.Status = StatusFailed
		outcome.Error = err.Error()

		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "file failed", "path", rel, "error", err)
		f.deps.Reporter.FileFailed(rel, err)
		f.deps.Metrics.RecordFile(ctx, observability.OutcomeFailed, nil, time.Since(start))
	case outcome.Status == StatusUnchanged:
		logger.DebugContext(ctx, "file unchanged", "path", rel)
		f.deps.Metrics.RecordFile(ctx, observability.OutcomeUnchanged, nil, time.Since(start))
	default:
		span.SetAttributes(attribute.StringSlice("pass.names", outcome.Passes))
		logger.InfoContext(ctx, "file rewritten", "path", rel, "passes", outcome.Passes, "dry_run", f.opts.DryRun)
		f.deps.Reporter.FileFixed(rel, outcome.Passes)
		f.deps.Metrics.RecordFile(ctx, observability.OutcomeModified, outcome.Passes, time.Since(start))
	}

	return outcome, written
}

func (f *Fixer) rewriteFile(file, rel string) (FileOutcome, int, error) {
	outcome := FileOutcome{Path: rel, Status: StatusUnchanged}

	info, statErr := os.Stat(file)
	if statErr != nil {
		return outcome, 0, fmt.Errorf("stat: %w", statErr)
	}

	data, readErr := os.ReadFile(file)
	if readErr != nil {
		return outcome, 0, fmt.Errorf("read: %w", readErr)
	}

	if textutil.IsBinary(data) {
		return outcome, 0, ErrBinaryContent
	}

	text := textutil.Decode(data)

	res, runErr := f.pipeline.SafeRun(rewrite.NewSourceFile(rel, text.Body))
	if runErr != nil {
		return outcome, 0, runErr
	}

	if !res.Changed {
		return outcome, 0, nil
	}

	outcome.Passes = res.Passes

	if f.opts.ShowDiff {
		f.deps.Reporter.FileDiff(rel, UnifiedDiff(rel, text.Body, res.Content))
	}

	out := text.Encode(res.Content)

	if f.opts.DryRun {
		outcome.Status = StatusWouldModify

		return outcome, len(out), nil
	}

	writeErr := os.WriteFile(file, out, info.Mode().Perm())
	if writeErr != nil {
		return outcome, 0, fmt.Errorf("write: %w", writeErr)
	}

	outcome.Status = StatusModified

	return outcome, len(out), nil
}

// Patch applies the configured literal patches under Root.
func (f *Fixer) Patch(ctx context.Context) []PatchOutcome {
	outcomes := make([]PatchOutcome, 0, len(f.opts.Patches))

	for _, p := range f.opts.Patches {
		outcome, err := ApplyPatch(f.opts.Root, p, f.opts.DryRun)
		if err != nil {
			outcome.Error = err.Error()
			f.deps.Logger.WarnContext(ctx, "patch failed", "file", p.File, "error", err)
		}

		switch {
		case outcome.Missing:
			f.deps.Logger.DebugContext(ctx, "patch target missing", "file", p.File)
		case outcome.Applied:
			f.deps.Logger.InfoContext(ctx, "patch applied", "file", p.File, "dry_run", f.opts.DryRun)
			f.deps.Metrics.RecordPatch(ctx)
			f.deps.Reporter.PatchApplied(outcome)
		}

		outcomes = append(outcomes, outcome)
	}

	return outcomes
}

// lintTail keeps the last maxLintOutput bytes of out, starting on a rune
// boundary.
func lintTail(out []byte) string {
	if len(out) <= maxLintOutput {
		return string(out)
	}

	cut := len(out) - maxLintOutput
	for cut < len(out) && !utf8.RuneStart(out[cut]) {
		cut++
	}

	return string(out[cut:])
}

func (f *Fixer) lint(ctx context.Context, logger *slog.Logger) LintOutcome {
	outcome := LintOutcome{Command: strings.Join(f.opts.LintArgs, " "), Ran: true}

	ctx, span := f.deps.Tracer.Start(ctx, "fix.lint")
	defer span.End()

	out, err := f.deps.Lint(ctx, f.opts.Root, f.opts.LintArgs)

	outcome.Output = lintTail(out)

	if err != nil {
		outcome.Error = err.Error()

		span.SetStatus(codes.Error, err.Error())
		logger.WarnContext(ctx, "lint command failed", "command", outcome.Command, "error", err)
	} else {
		logger.InfoContext(ctx, "lint command finished", "command", outcome.Command)
	}

	f.deps.Reporter.LintFinished(outcome)

	return outcome
}
