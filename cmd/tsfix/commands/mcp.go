package commands

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfix/pkg/config"
	"github.com/Sumatoshi-tech/tsfix/pkg/mcp"
	"github.com/Sumatoshi-tech/tsfix/pkg/observability"
	"github.com/Sumatoshi-tech/tsfix/pkg/version"
)

// NewMCPCommand creates the MCP server command.
func NewMCPCommand() *cobra.Command {
	var (
		configPath string
		debug      bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Start MCP server for AI agent integration",
		Long: `Start a Model Context Protocol (MCP) server on stdio transport.

The MCP server exposes the rewrite pipeline as tools that AI agents can
discover and invoke:
  - tsfix_rewrite: Rewrite one file's content and report the passes that changed it
  - tsfix_passes: List the passes in pipeline order`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cobraCmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			policy, err := cfg.Policy()
			if err != nil {
				return err
			}

			providers, err := observability.Init(mcpObservabilityConfig(cobraCmd, debug))
			if err != nil {
				return err
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			metrics, err := observability.NewFixMetrics(providers.Meter)
			if err != nil {
				return err
			}

			srv := mcp.NewServer(mcp.ServerDeps{
				Logger:  providers.Logger,
				Metrics: metrics,
				Tracer:  providers.Tracer,
				Policy:  &policy,
			})

			return srv.Run(cobraCmd.Context())
		},
	}

	cmd.Flags().StringVar(&configPath, flagConfig, "", "Config file path (default: .tsfix.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&debug, "debug", false, "Enable debug logging to stderr")

	return cmd
}

// mcpObservabilityConfig keeps stdout free for the protocol: logs go to
// stderr as JSON.
func mcpObservabilityConfig(cmd *cobra.Command, debug bool) observability.Config {
	cfg := observability.DefaultConfig().WithEnv()
	cfg.ServiceVersion = version.Version
	cfg.Mode = observability.ModeMCP
	cfg.LogJSON = true
	cfg.LogOutput = cmd.ErrOrStderr()
	cfg.LogLevel = slog.LevelWarn

	if debug {
		cfg.LogLevel = slog.LevelDebug
	}

	return cfg
}
