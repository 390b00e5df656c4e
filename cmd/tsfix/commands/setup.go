// Package commands implements CLI command handlers for tsfix.
package commands

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfix/pkg/config"
	"github.com/Sumatoshi-tech/tsfix/pkg/fixer"
	"github.com/Sumatoshi-tech/tsfix/pkg/observability"
	"github.com/Sumatoshi-tech/tsfix/pkg/version"
)

var (
	// ErrRootNotFound indicates the project root does not exist.
	ErrRootNotFound = errors.New("project root not found")
	// ErrRootNotDir indicates the project root is not a directory.
	ErrRootNotDir = errors.New("project root is not a directory")
)

// Flag names shared across commands.
const (
	flagConfig  = "config"
	flagVerbose = "verbose"
	flagQuiet   = "quiet"
)

// loadConfig reads the configuration and applies the positional root.
func loadConfig(configPath string, args []string) (*config.Config, error) {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, err
	}

	if len(args) > 0 {
		cfg.Root = args[0]
	}

	info, statErr := os.Stat(cfg.Root)
	if statErr != nil {
		if errors.Is(statErr, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrRootNotFound, cfg.Root)
		}

		return nil, fmt.Errorf("stat root: %w", statErr)
	}

	if !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrRootNotDir, cfg.Root)
	}

	return cfg, nil
}

// inheritedBool reads a persistent root flag. Commands built on their own,
// as in tests, do not carry it.
func inheritedBool(cmd *cobra.Command, name string) bool {
	f := cmd.Flag(name)

	return f != nil && f.Value.String() == "true"
}

// logLevel maps the configured level and the verbosity flags to a slog level.
func logLevel(cmd *cobra.Command, configured string) slog.Level {
	switch {
	case inheritedBool(cmd, flagVerbose):
		return slog.LevelDebug
	case inheritedBool(cmd, flagQuiet):
		return slog.LevelError
	}

	var level slog.Level

	err := level.UnmarshalText([]byte(strings.ToLower(configured)))
	if err != nil {
		return slog.LevelInfo
	}

	return level
}

// observabilityConfig builds the telemetry settings for a command run.
func observabilityConfig(cmd *cobra.Command, cfg *config.Config, mode observability.AppMode) observability.Config {
	obsCfg := observability.DefaultConfig().WithEnv()
	obsCfg.ServiceVersion = version.Version
	obsCfg.Mode = mode
	obsCfg.LogLevel = logLevel(cmd, cfg.Logging.Level)
	obsCfg.LogJSON = cfg.Logging.JSON
	obsCfg.LogOutput = cmd.ErrOrStderr()

	return obsCfg
}

func patchesFrom(cfg *config.Config) []fixer.Patch {
	patches := make([]fixer.Patch, 0, len(cfg.Patches))
	for _, p := range cfg.Patches {
		patches = append(patches, fixer.Patch{File: p.File, Old: p.Old, New: p.New})
	}

	return patches
}
