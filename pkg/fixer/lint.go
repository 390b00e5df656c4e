package fixer

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
)

// ErrEmptyLintCommand indicates a lint run was requested without a command.
var ErrEmptyLintCommand = errors.New("empty lint command")

// LintRunner runs the post-pass lint command in dir and returns its combined
// output.
type LintRunner func(ctx context.Context, dir string, args []string) ([]byte, error)

// ExecLint is the LintRunner that spawns args as a subprocess.
func ExecLint(ctx context.Context, dir string, args []string) ([]byte, error) {
	if len(args) == 0 {
		return nil, ErrEmptyLintCommand
	}

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)
	cmd.Dir = dir

	out, err := cmd.CombinedOutput()
	if err != nil {
		return out, fmt.Errorf("run %s: %w", args[0], err)
	}

	return out, nil
}
