package commands

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfix/pkg/config"
	"github.com/Sumatoshi-tech/tsfix/pkg/fixer"
	"github.com/Sumatoshi-tech/tsfix/pkg/observability"
	"github.com/Sumatoshi-tech/tsfix/pkg/report"
	"github.com/Sumatoshi-tech/tsfix/pkg/rewrite"
)

// FixCommand holds configuration and dependencies for the fix command.
type FixCommand struct {
	configPath      string
	dryRun          bool
	diff            bool
	noLint          bool
	noPatches       bool
	passes          []string
	reportPath      string
	metricsTextfile string
	noColor         bool
	logJSON         bool

	lint fixer.LintRunner
}

// NewFixCommand creates the fix command.
func NewFixCommand() *cobra.Command {
	return newFixCommandWithDeps(fixer.ExecLint)
}

func newFixCommandWithDeps(lint fixer.LintRunner) *cobra.Command {
	fc := &FixCommand{lint: lint}

	cmd := &cobra.Command{
		Use:   "fix [root]",
		Short: "Rewrite lint-flagged patterns across the project",
		Long: `Run the rewrite pipeline over every matching file under <root>/<scan_dir>,
apply the configured literal patches, then run the lint command.

Per-file failures are reported and the run continues. The exit code is
non-zero only when the run cannot start.`,
		Args: cobra.MaximumNArgs(1),
		RunE: fc.run,
	}

	cmd.Flags().StringVar(&fc.configPath, flagConfig, "", "Config file path (default: .tsfix.yaml in CWD or $HOME)")
	cmd.Flags().BoolVar(&fc.dryRun, "dry-run", false, "Report what would change without writing")
	cmd.Flags().BoolVar(&fc.diff, "diff", false, "Print a unified diff for every changed file")
	cmd.Flags().BoolVar(&fc.noLint, "no-lint", false, "Skip the post-pass lint command")
	cmd.Flags().BoolVar(&fc.noPatches, "no-patches", false, "Skip the literal config patches")
	cmd.Flags().StringSliceVar(&fc.passes, "passes", nil,
		"Run only these passes, in pipeline order (example: catch-binding,import-order)")
	cmd.Flags().StringVar(&fc.reportPath, "report", "", "Write a run report (.json, .yaml or .yml)")
	cmd.Flags().StringVar(&fc.metricsTextfile, "metrics-textfile", "",
		"Write Prometheus metrics to this file at exit (node-exporter textfile format)")
	cmd.Flags().BoolVar(&fc.noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&fc.logJSON, "log-json", false, "Emit diagnostic logs as JSON")

	return cmd
}

func (fc *FixCommand) run(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(fc.configPath, args)
	if err != nil {
		return err
	}

	if cmd.Flags().Changed("passes") {
		cfg.Passes.Enabled = fc.passes
	}

	if fc.logJSON {
		cfg.Logging.JSON = true
	}

	pipeline, err := buildPipeline(cfg)
	if err != nil {
		return err
	}

	opts, err := fc.options(cfg)
	if err != nil {
		return err
	}

	obsCfg := observabilityConfig(cmd, cfg, observability.ModeCLI)
	obsCfg.MetricsTextfile = fc.metricsTextfile

	providers, err := observability.Init(obsCfg)
	if err != nil {
		return fmt.Errorf("init observability: %w", err)
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

	console := report.NewConsole(cmd.OutOrStdout(), report.ConsoleOptions{
		Quiet:   inheritedBool(cmd, flagQuiet),
		Verbose: inheritedBool(cmd, flagVerbose),
		NoColor: fc.noColor,
		DryRun:  fc.dryRun,
	})

	fx := fixer.New(opts, pipeline, fixer.Deps{
		Logger:   providers.Logger,
		Tracer:   providers.Tracer,
		Metrics:  metrics,
		Reporter: console,
		Lint:     fc.lint,
	})

	rep, err := fx.Run(cmd.Context())
	if err != nil {
		return err
	}

	if fc.reportPath != "" {
		writeErr := report.WriteFile(fc.reportPath, rep)
		if writeErr != nil {
			return writeErr
		}
	}

	return nil
}

func (fc *FixCommand) options(cfg *config.Config) (fixer.Options, error) {
	maxSize, err := cfg.MaxFileSizeBytes()
	if err != nil {
		return fixer.Options{}, err
	}

	opts := fixer.Options{
		Root:        cfg.Root,
		ScanDir:     cfg.ScanDir,
		Extensions:  cfg.Extensions,
		Excludes:    cfg.Excludes,
		MaxFileSize: maxSize,
		DryRun:      fc.dryRun,
		ShowDiff:    fc.diff,
		Patches:     patchesFrom(cfg),
		SkipPatches: fc.noPatches,
	}

	if cfg.Lint.Enabled && !fc.noLint {
		opts.LintArgs = cfg.LintArgs()
	}

	return opts, nil
}

func buildPipeline(cfg *config.Config) (*rewrite.Pipeline, error) {
	policy, err := cfg.Policy()
	if err != nil {
		return nil, err
	}

	return rewrite.SelectPipeline(policy, cfg.Passes.Enabled)
}
