package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfix/pkg/fixer"
	"github.com/Sumatoshi-tech/tsfix/pkg/observability"
	"github.com/Sumatoshi-tech/tsfix/pkg/report"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

// NewPatchCommand creates the patch command.
func NewPatchCommand() *cobra.Command {
	var (
		configPath string
		dryRun     bool
		noColor    bool
	)

	cmd := &cobra.Command{
		Use:   "patch [root]",
		Short: "Apply only the literal config patches",
		Long: `Apply the configured {file, old, new} substitutions under <root>.
A file is written only when its content changes; missing files are skipped.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(configPath, args)
			if err != nil {
				return err
			}

			providers, err := observability.Init(observabilityConfig(cmd, cfg, observability.ModeCLI))
			if err != nil {
				return fmt.Errorf("init observability: %w", err)
			}

			defer func() {
				shutdownErr := providers.Shutdown(context.Background())
				if shutdownErr != nil {
					providers.Logger.Warn("observability shutdown failed", "error", shutdownErr)
				}
			}()

			verbose := inheritedBool(cmd, flagVerbose)

			console := report.NewConsole(cmd.OutOrStdout(), report.ConsoleOptions{
				Quiet:   inheritedBool(cmd, flagQuiet),
				Verbose: verbose,
				NoColor: noColor,
				DryRun:  dryRun,
			})

			fx := fixer.New(fixer.Options{
				Root:    cfg.Root,
				DryRun:  dryRun,
				Patches: patchesFrom(cfg),
			}, rewrite.NewPipeline(), fixer.Deps{
				Logger:   providers.Logger,
				Tracer:   providers.Tracer,
				Reporter: console,
			})

			applied := 0

			for _, outcome := range fx.Patch(cmd.Context()) {
				switch {
				case outcome.Error != "":
					console.FileFailed(outcome.File, errors.New(outcome.Error))
				case outcome.Applied:
					applied++
				case outcome.Missing && verbose:
					fmt.Fprintf(cmd.OutOrStdout(), "missing: %s\n", outcome.File)
				}
			}

			if !inheritedBool(cmd, flagQuiet) {
				fmt.Fprintf(cmd.OutOrStdout(), "%d of %d patches applied\n", applied, len(cfg.Patches))
			}

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, flagConfig, "", "Config file path (default: .tsfix.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")

	return cmd
}
