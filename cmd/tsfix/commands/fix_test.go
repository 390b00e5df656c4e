package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfix/pkg/report"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

const (
	catchSource = "export function run() {\n  try {\n    go();\n  } catch (err) {\n    return null;\n  }\n}\n"
	catchFixed  = "export function run() {\n  try {\n    go();\n  } catch {\n    return null;\n  }\n}\n"
)

func setupProject(t *testing.T, cfg string) (root, cfgPath string) {
	t.Helper()

	root = t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "src"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "src", "a.ts"), []byte(catchSource), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, "vitest.config.ts"),
		[]byte("import { defineConfig } from 'vitest/config';\n"), 0o644))

	cfgPath = filepath.Join(t.TempDir(), "tsfix.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte(cfg), 0o644))

	return root, cfgPath
}

func execute(t *testing.T, lint func(context.Context, string, []string) ([]byte, error), args ...string) (string, error) {
	t.Helper()

	cmd := newFixCommandWithDeps(lint)

	var out, errOut bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)

	err := cmd.Execute()

	return out.String(), err
}

func noLint(t *testing.T) func(context.Context, string, []string) ([]byte, error) {
	t.Helper()

	return func(context.Context, string, []string) ([]byte, error) {
		t.Error("lint must not run")

		return nil, nil
	}
}

func TestFixCommand_RewritesAndReports(t *testing.T) {
	t.Parallel()

	root, cfgPath := setupProject(t, "scan_dir: src\n")
	reportPath := filepath.Join(t.TempDir(), "run.json")

	var lintDir string

	lint := func(_ context.Context, dir string, _ []string) ([]byte, error) {
		lintDir = dir

		return nil, nil
	}

	out, err := execute(t, lint, root, "--config", cfgPath, "--no-color", "--report", reportPath)
	require.NoError(t, err)

	assert.Contains(t, out, "fixed: src/a.ts\n")
	assert.Contains(t, out, "patched: vitest.config.ts\n")
	assert.Contains(t, out, "1 file examined, 1 modified, 0 failed")
	assert.Equal(t, root, lintDir)

	data, err := os.ReadFile(filepath.Join(root, "src", "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, catchFixed, string(data))

	rep, err := report.ReadFile(reportPath)
	require.NoError(t, err)
	assert.Equal(t, 1, rep.Tally.Modified)
	assert.Equal(t, map[string]int{rewrite.PassCatchBinding: 1}, rep.Tally.PassHits)
	require.NotNil(t, rep.Lint)
	assert.True(t, rep.Lint.Ran)
}

func TestFixCommand_DryRunDiff(t *testing.T) {
	t.Parallel()

	root, cfgPath := setupProject(t, "scan_dir: src\n")

	out, err := execute(t, noLint(t), root, "--config", cfgPath, "--no-color", "--dry-run", "--diff")
	require.NoError(t, err)

	assert.Contains(t, out, "would fix: src/a.ts\n")
	assert.Contains(t, out, "+++ b/src/a.ts\n")
	assert.Contains(t, out, "+  } catch {\n")

	data, err := os.ReadFile(filepath.Join(root, "src", "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, catchSource, string(data))
}

func TestFixCommand_SelectedPassesAndFlags(t *testing.T) {
	t.Parallel()

	root, cfgPath := setupProject(t, "scan_dir: src\n")

	out, err := execute(t, noLint(t), root, "--config", cfgPath, "--no-color",
		"--passes", rewrite.PassImportOrder, "--no-lint", "--no-patches")
	require.NoError(t, err)

	assert.Contains(t, out, "1 file examined, 0 modified, 0 failed")

	data, err := os.ReadFile(filepath.Join(root, "vitest.config.ts"))
	require.NoError(t, err)
	assert.Contains(t, string(data), "vitest/config")
}

func TestFixCommand_SetupErrors(t *testing.T) {
	t.Parallel()

	root, cfgPath := setupProject(t, "scan_dir: src\n")
	_, badCfg := setupProject(t, "unknown_key: 1\n")

	tests := []struct {
		name string
		args []string
		want error
	}{
		{"missing root", []string{filepath.Join(root, "nope"), "--config", cfgPath}, ErrRootNotFound},
		{"unknown pass", []string{root, "--config", cfgPath, "--passes", "nope"}, rewrite.ErrUnknownPass},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := execute(t, noLint(t), tt.args...)
			require.ErrorIs(t, err, tt.want)
		})
	}

	_, err := execute(t, noLint(t), root, "--config", badCfg)
	require.Error(t, err)

	_, err = execute(t, noLint(t), root, "--config", cfgPath, "--no-lint", "--report", filepath.Join(t.TempDir(), "run.txt"))
	require.ErrorIs(t, err, report.ErrUnsupportedFormat)
}
