package commands

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

func TestPassesCommand(t *testing.T) {
	t.Parallel()

	cfgPath := filepath.Join(t.TempDir(), "tsfix.yaml")
	require.NoError(t, os.WriteFile(cfgPath, []byte("passes:\n  enabled: [import-order, catch-binding]\n"), 0o644))

	cmd := NewPassesCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetArgs([]string{"--config", cfgPath})

	require.NoError(t, cmd.Execute())

	text := out.String()
	assert.Less(t, strings.Index(text, rewrite.PassCatchBinding), strings.Index(text, rewrite.PassImportOrder))
	assert.NotContains(t, text, rewrite.PassConsoleLogger)
}

func TestPatchCommand(t *testing.T) {
	t.Parallel()

	root, cfgPath := setupProject(t, "scan_dir: src\n")

	cmd := NewPatchCommand()

	var out bytes.Buffer

	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{root, "--config", cfgPath, "--no-color"})

	require.NoError(t, cmd.Execute())

	assert.Equal(t, "patched: vitest.config.ts\n1 of 1 patches applied\n", out.String())

	data, err := os.ReadFile(filepath.Join(root, "vitest.config.ts"))
	require.NoError(t, err)
	assert.Equal(t, "import { defineConfig } from 'vite';\n", string(data))

	data, err = os.ReadFile(filepath.Join(root, "src", "a.ts"))
	require.NoError(t, err)
	assert.Equal(t, catchSource, string(data), "patch never runs the pipeline")
}
