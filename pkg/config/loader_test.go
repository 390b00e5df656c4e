package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Sumatoshi-tech/tsfix/pkg/config"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

const testMaxFileSize = 2_000_000

func writeConfig(t *testing.T, content string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), ".tsfix.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	return path
}

func TestLoadConfig_EmptyFile_UsesDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := config.LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	require.NotNil(t, cfg)

	assert.Equal(t, config.DefaultRoot, cfg.Root)
	assert.Equal(t, config.DefaultScanDir, cfg.ScanDir)
	assert.Equal(t, config.DefaultExtensions(), cfg.Extensions)
	assert.Empty(t, cfg.Excludes)
	assert.Equal(t, config.DefaultMaxFileSize, cfg.MaxFileSize)
	assert.Empty(t, cfg.Passes.Enabled)
	assert.Equal(t, rewrite.DefaultDenyList(), cfg.Passes.DenyList)
	assert.Equal(t, rewrite.DefaultStatusLiterals(), cfg.Passes.StatusLiterals)
	assert.False(t, cfg.Passes.Catch.SkipIfReferenced)
	assert.Equal(t, config.DefaultLoggerName, cfg.Logger.Name)
	assert.Equal(t, config.DefaultLoggerImport, cfg.Logger.Import)
	assert.Equal(t, config.DefaultLoggerExempt, cfg.Logger.Exempt)
	assert.Empty(t, cfg.Imports.Categories)
	assert.True(t, cfg.Lint.Enabled)
	assert.Equal(t, config.DefaultLintCommand, cfg.Lint.Command)
	assert.Equal(t, config.DefaultPatches(), cfg.Patches)
	assert.Equal(t, config.DefaultLogLevel, cfg.Logging.Level)
	assert.False(t, cfg.Logging.JSON)
}

func TestLoadConfig_ValidFile_Unmarshals(t *testing.T) {
	t.Parallel()

	content := `root: ./web
scan_dir: app
extensions: [".ts", ".tsx", ".js"]
excludes: ["**/*.gen.ts"]
max_file_size: 2MB
passes:
  enabled: [catch-binding, import-order]
  deny_list: [Copy, Trash2]
  status_literals: [open, closed]
  catch:
    skip_if_referenced: true
logger:
  name: log
  import: "~/log"
  exempt: log.ts
imports:
  categories:
    - category: internal
      contains: ["~/"]
    - category: relative
      prefix: ["import { "]
      contains: ["./"]
lint:
  enabled: false
  command: "pnpm lint --fix"
patches:
  - file: vite.config.ts
    old: "a"
    new: "b"
logging:
  level: debug
  json: true
`

	cfg, err := config.LoadConfig(writeConfig(t, content))
	require.NoError(t, err)

	assert.Equal(t, "./web", cfg.Root)
	assert.Equal(t, "app", cfg.ScanDir)
	assert.Equal(t, []string{".ts", ".tsx", ".js"}, cfg.Extensions)
	assert.Equal(t, []string{"**/*.gen.ts"}, cfg.Excludes)
	assert.Equal(t, []string{"catch-binding", "import-order"}, cfg.Passes.Enabled)
	assert.True(t, cfg.Passes.Catch.SkipIfReferenced)
	assert.Equal(t, "log", cfg.Logger.Name)
	require.Len(t, cfg.Imports.Categories, 2)
	assert.Equal(t, []string{"import { "}, cfg.Imports.Categories[1].Prefix)
	assert.False(t, cfg.Lint.Enabled)
	assert.Equal(t, []string{"pnpm", "lint", "--fix"}, cfg.LintArgs())
	assert.Equal(t, []config.PatchConfig{{File: "vite.config.ts", Old: "a", New: "b"}}, cfg.Patches)
	assert.True(t, cfg.Logging.JSON)

	size, sizeErr := cfg.MaxFileSizeBytes()
	require.NoError(t, sizeErr)
	assert.Equal(t, uint64(testMaxFileSize), size)

	policy, policyErr := cfg.Policy()
	require.NoError(t, policyErr)
	assert.Equal(t, []string{"Copy", "Trash2"}, policy.DenyList)
	assert.Equal(t, []string{"open", "closed"}, policy.StatusLiterals)
	assert.Equal(t, "~/log", policy.LoggerImport)
	assert.True(t, policy.CatchSkipIfReferenced)
	require.Len(t, policy.CategoryRules, 2)
	assert.Equal(t, rewrite.CategoryInternal, policy.CategoryRules[0].Category)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(writeConfig(t, "pipeline:\n  workers: 4\n"))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadConfig_BadCategory(t *testing.T) {
	t.Parallel()

	content := "imports:\n  categories:\n    - category: vendor\n      contains: [x]\n"

	_, err := config.LoadConfig(writeConfig(t, content))
	require.ErrorIs(t, err, config.ErrSchemaViolation)
}

func TestLoadConfig_InvalidValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"extension without dot", "extensions: [ts]\n", config.ErrInvalidExtension},
		{"bad size", "max_file_size: lots\n", config.ErrInvalidMaxFileSize},
		{"unknown pass", "passes:\n  enabled: [semicolons]\n", rewrite.ErrUnknownPass},
		{"empty logger", "logger:\n  name: \"\"\n", config.ErrEmptyLoggerName},
		{"lint without command", "lint:\n  command: \"\"\n", config.ErrEmptyLintCommand},
		{"patch without old", "patches:\n  - file: a.ts\n    old: \"\"\n", config.ErrInvalidPatch},
		{"empty root", "root: \"\"\n", config.ErrEmptyRoot},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := config.LoadConfig(writeConfig(t, tt.content))
			require.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	t.Parallel()

	_, err := config.LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
}

func TestDefault(t *testing.T) {
	t.Parallel()

	cfg := config.Default()

	policy, err := cfg.Policy()
	require.NoError(t, err)
	assert.Equal(t, rewrite.DefaultPolicy(), policy)
}
