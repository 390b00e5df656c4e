package config

import "github.com/Sumatoshi-tech/tsfix/pkg/rewrite"

// Scan defaults.
const (
	DefaultRoot        = "."
	DefaultScanDir     = "src"
	DefaultMaxFileSize = "1MB"
)

// Logger facility defaults.
const (
	DefaultLoggerName   = rewrite.DefaultLoggerName
	DefaultLoggerImport = rewrite.DefaultLoggerImport
	DefaultLoggerExempt = rewrite.DefaultLoggerExempt
)

// Lint defaults.
const (
	DefaultLintEnabled = true
	DefaultLintCommand = "npx eslint . --fix"
)

// Logging defaults.
const (
	DefaultLogLevel = "info"
	DefaultLogJSON  = false
)

// Catch pass default.
const DefaultCatchSkipIfReferenced = false

// Default vitest config patch.
const (
	DefaultPatchFile = "vitest.config.ts"
	DefaultPatchOld  = "from 'vitest/config'"
	DefaultPatchNew  = "from 'vite'"
)

// DefaultExtensions returns the file extensions scanned by default.
func DefaultExtensions() []string {
	return []string{".ts", ".tsx"}
}

// DefaultPatches returns the literal patches applied by default.
func DefaultPatches() []PatchConfig {
	return []PatchConfig{{File: DefaultPatchFile, Old: DefaultPatchOld, New: DefaultPatchNew}}
}
