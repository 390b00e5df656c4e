// Package config loads and validates tsfix configuration.
package config

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

// Config is the top-level configuration struct for tsfix.
// Field tags use mapstructure for viper unmarshalling.
type Config struct {
	Root        string        `mapstructure:"root"`
	ScanDir     string        `mapstructure:"scan_dir"`
	Extensions  []string      `mapstructure:"extensions"`
	Excludes    []string      `mapstructure:"excludes"`
	MaxFileSize string        `mapstructure:"max_file_size"`
	Passes      PassesConfig  `mapstructure:"passes"`
	Logger      LoggerConfig  `mapstructure:"logger"`
	Imports     ImportsConfig `mapstructure:"imports"`
	Lint        LintConfig    `mapstructure:"lint"`
	Patches     []PatchConfig `mapstructure:"patches"`
	Logging     LoggingConfig `mapstructure:"logging"`
}

// PassesConfig selects and tunes the rewrite passes.
type PassesConfig struct {
	// Enabled restricts the pipeline to the named passes. Empty runs all.
	Enabled        []string    `mapstructure:"enabled"`
	DenyList       []string    `mapstructure:"deny_list"`
	StatusLiterals []string    `mapstructure:"status_literals"`
	Catch          CatchConfig `mapstructure:"catch"`
}

// CatchConfig tunes the catch-binding pass.
type CatchConfig struct {
	SkipIfReferenced bool `mapstructure:"skip_if_referenced"`
}

// LoggerConfig names the logging facility console calls are redirected to.
type LoggerConfig struct {
	Name   string `mapstructure:"name"`
	Import string `mapstructure:"import"`
	Exempt string `mapstructure:"exempt"`
}

// ImportsConfig holds the import classification rules.
type ImportsConfig struct {
	// Categories replaces the built-in rules when non-empty. First match wins.
	Categories []CategoryConfig `mapstructure:"categories"`
}

// CategoryConfig is one import classification rule.
type CategoryConfig struct {
	Category string   `mapstructure:"category"`
	Prefix   []string `mapstructure:"prefix"`
	Contains []string `mapstructure:"contains"`
	Excludes []string `mapstructure:"excludes"`
}

// LintConfig holds the post-pass lint command.
type LintConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Command string `mapstructure:"command"`
}

// PatchConfig is a literal substitution applied to one file under the root.
type PatchConfig struct {
	File string `mapstructure:"file"`
	Old  string `mapstructure:"old"`
	New  string `mapstructure:"new"`
}

// LoggingConfig holds diagnostic logging settings.
type LoggingConfig struct {
	Level string `mapstructure:"level"`
	JSON  bool   `mapstructure:"json"`
}

// Sentinel errors for configuration validation.
var (
	// ErrEmptyRoot indicates the root directory is empty.
	ErrEmptyRoot = errors.New("root must not be empty")
	// ErrNoExtensions indicates no file extensions are configured.
	ErrNoExtensions = errors.New("extensions must not be empty")
	// ErrInvalidExtension indicates an extension without a leading dot.
	ErrInvalidExtension = errors.New("extensions must start with '.'")
	// ErrInvalidMaxFileSize indicates max_file_size cannot be parsed.
	ErrInvalidMaxFileSize = errors.New("max_file_size must be a byte size such as 1MB")
	// ErrEmptyLoggerName indicates the logger identifier is empty.
	ErrEmptyLoggerName = errors.New("logger.name must not be empty")
	// ErrEmptyLoggerImport indicates the logger import path is empty.
	ErrEmptyLoggerImport = errors.New("logger.import must not be empty")
	// ErrEmptyLintCommand indicates lint is enabled without a command.
	ErrEmptyLintCommand = errors.New("lint.command must not be empty when lint is enabled")
	// ErrInvalidPatch indicates a patch without a file or search string.
	ErrInvalidPatch = errors.New("patches need a file and a non-empty old string")
	// ErrInvalidLogLevel indicates an unknown logging level.
	ErrInvalidLogLevel = errors.New("logging.level must be one of debug, info, warn, error")
)

var logLevels = []string{"debug", "info", "warn", "error"}

// Validate checks Config invariants and returns the first error found.
func (c *Config) Validate() error {
	scanErr := c.validateScan()
	if scanErr != nil {
		return scanErr
	}

	passesErr := c.validatePasses()
	if passesErr != nil {
		return passesErr
	}

	if c.Lint.Enabled && strings.TrimSpace(c.Lint.Command) == "" {
		return ErrEmptyLintCommand
	}

	for i, p := range c.Patches {
		if p.File == "" || p.Old == "" {
			return fmt.Errorf("patches[%d]: %w", i, ErrInvalidPatch)
		}
	}

	if !slices.Contains(logLevels, strings.ToLower(c.Logging.Level)) {
		return fmt.Errorf("%w: got %q", ErrInvalidLogLevel, c.Logging.Level)
	}

	return nil
}

func (c *Config) validateScan() error {
	if c.Root == "" {
		return ErrEmptyRoot
	}

	if len(c.Extensions) == 0 {
		return ErrNoExtensions
	}

	for _, ext := range c.Extensions {
		if !strings.HasPrefix(ext, ".") {
			return fmt.Errorf("%w: got %q", ErrInvalidExtension, ext)
		}
	}

	_, sizeErr := c.MaxFileSizeBytes()

	return sizeErr
}

func (c *Config) validatePasses() error {
	known := rewrite.PassNames()

	for _, name := range c.Passes.Enabled {
		if !slices.Contains(known, name) {
			return fmt.Errorf("passes.enabled: %w", rewrite.UnknownPassError(name))
		}
	}

	if c.Logger.Name == "" {
		return ErrEmptyLoggerName
	}

	if c.Logger.Import == "" {
		return ErrEmptyLoggerImport
	}

	for i, cat := range c.Imports.Categories {
		_, parseErr := rewrite.ParseCategory(cat.Category)
		if parseErr != nil {
			return fmt.Errorf("imports.categories[%d]: %w", i, parseErr)
		}
	}

	return nil
}

// MaxFileSizeBytes parses MaxFileSize. Zero means no limit.
func (c *Config) MaxFileSizeBytes() (uint64, error) {
	if c.MaxFileSize == "" || c.MaxFileSize == "0" {
		return 0, nil
	}

	size, err := humanize.ParseBytes(c.MaxFileSize)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrInvalidMaxFileSize, err)
	}

	return size, nil
}

// LintArgs splits the lint command into argv form.
func (c *Config) LintArgs() []string {
	return strings.Fields(c.Lint.Command)
}

// Policy builds the rewrite policy described by the configuration. Lists
// left empty fall back to the built-in defaults.
func (c *Config) Policy() (rewrite.Policy, error) {
	policy := rewrite.DefaultPolicy()

	if len(c.Passes.DenyList) > 0 {
		policy.DenyList = slices.Clone(c.Passes.DenyList)
	}

	if len(c.Passes.StatusLiterals) > 0 {
		policy.StatusLiterals = slices.Clone(c.Passes.StatusLiterals)
	}

	policy.CatchSkipIfReferenced = c.Passes.Catch.SkipIfReferenced

	if c.Logger.Name != "" {
		policy.LoggerName = c.Logger.Name
	}

	if c.Logger.Import != "" {
		policy.LoggerImport = c.Logger.Import
	}

	policy.LoggerExempt = c.Logger.Exempt

	if len(c.Imports.Categories) == 0 {
		return policy, nil
	}

	rules := make([]rewrite.CategoryRule, 0, len(c.Imports.Categories))

	for i, cat := range c.Imports.Categories {
		parsed, err := rewrite.ParseCategory(cat.Category)
		if err != nil {
			return rewrite.Policy{}, fmt.Errorf("imports.categories[%d]: %w", i, err)
		}

		rules = append(rules, rewrite.CategoryRule{
			Category: parsed,
			Prefixes: cat.Prefix,
			Contains: cat.Contains,
			Excludes: cat.Excludes,
		})
	}

	policy.CategoryRules = rules

	return policy, nil
}
