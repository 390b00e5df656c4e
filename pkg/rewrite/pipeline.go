package rewrite

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/Sumatoshi-tech/tsfix/pkg/levenshtein"
)

// Sentinel errors for pipeline construction and execution.
var (
	// ErrUnknownPass indicates a pass name that is not registered.
	ErrUnknownPass = errors.New("unknown pass")
	// ErrPassPanic indicates a pass panicked while rewriting a file.
	ErrPassPanic = errors.New("pass panicked")
)

// passConstructors lists every pass in canonical order. Later passes see the
// output of earlier ones: pruning runs before import ordering so removed lines
// are never sorted, and console redirection runs before it so the inserted
// logger import lands in the right group.
var passConstructors = []func(Policy) Pass{
	CatchBindingPass,
	LooseTypesPass,
	UnusedImportsPass,
	UnusedVarsPass,
	ConsoleLoggerPass,
	ImportOrderPass,
}

// AllPasses builds every pass for the policy in canonical order.
func AllPasses(policy Policy) []Pass {
	passes := make([]Pass, 0, len(passConstructors))
	for _, build := range passConstructors {
		passes = append(passes, build(policy))
	}

	return passes
}

// PassNames returns the canonical pass order.
func PassNames() []string {
	passes := AllPasses(DefaultPolicy())

	names := make([]string, 0, len(passes))
	for _, p := range passes {
		names = append(names, p.Name)
	}

	return names
}

// Result is the outcome of running a pipeline over one file.
type Result struct {
	Content string
	Changed bool
	// Passes names the passes that modified the text, in run order.
	Passes []string
}

// Pipeline is a fixed, ordered list of passes.
type Pipeline struct {
	passes []Pass
}

// NewPipeline composes passes in the given order.
func NewPipeline(passes ...Pass) *Pipeline {
	return &Pipeline{passes: passes}
}

// DefaultPipeline returns every pass in canonical order.
func DefaultPipeline(policy Policy) *Pipeline {
	return NewPipeline(AllPasses(policy)...)
}

// SelectPipeline returns a pipeline restricted to the named passes, kept in
// canonical order. An empty selection yields the default pipeline.
func SelectPipeline(policy Policy, names []string) (*Pipeline, error) {
	if len(names) == 0 {
		return DefaultPipeline(policy), nil
	}

	all := AllPasses(policy)

	for _, name := range names {
		if !slices.ContainsFunc(all, func(p Pass) bool { return p.Name == name }) {
			return nil, UnknownPassError(name)
		}
	}

	selected := make([]Pass, 0, len(names))

	for _, p := range all {
		if slices.Contains(names, p.Name) {
			selected = append(selected, p)
		}
	}

	return NewPipeline(selected...), nil
}

// maxSuggestDistance bounds the edit distance of "did you mean" hints.
const maxSuggestDistance = 3

// UnknownPassError wraps ErrUnknownPass for name, suggesting the closest
// registered pass when there is one.
func UnknownPassError(name string) error {
	known := PassNames()

	if guess, ok := levenshtein.Closest(name, known, maxSuggestDistance); ok {
		return fmt.Errorf("%w: %q (did you mean %q?)", ErrUnknownPass, name, guess)
	}

	return fmt.Errorf("%w: %q (known: %s)", ErrUnknownPass, name, strings.Join(known, ", "))
}

// Passes returns the pipeline's passes in run order.
func (p *Pipeline) Passes() []Pass {
	return slices.Clone(p.passes)
}

// Run applies every pass that fits the file's kind and reports whether the
// final text differs from the original.
func (p *Pipeline) Run(file SourceFile) Result {
	res := Result{Content: file.Content}

	for _, pass := range p.passes {
		if !pass.AppliesTo(file.Kind) {
			continue
		}

		next := pass.Apply(SourceFile{Path: file.Path, Content: res.Content, Kind: file.Kind})
		if next != res.Content {
			res.Passes = append(res.Passes, pass.Name)
			res.Content = next
		}
	}

	res.Changed = res.Content != file.Content

	return res
}

// SafeRun is Run with panics converted to an ErrPassPanic error.
func (p *Pipeline) SafeRun(file SourceFile) (res Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			res = Result{Content: file.Content}
			err = fmt.Errorf("%w: %s: %v", ErrPassPanic, file.Path, r)
		}
	}()

	return p.Run(file), nil
}
