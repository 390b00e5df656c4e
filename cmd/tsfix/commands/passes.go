package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfix/pkg/config"
	"github.com/Sumatoshi-tech/tsfix/pkg/report"
)

// NewPassesCommand creates the passes command.
func NewPassesCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "passes",
		Short: "List the rewrite passes in pipeline order",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.LoadConfig(configPath)
			if err != nil {
				return err
			}

			pipeline, err := buildPipeline(cfg)
			if err != nil {
				return err
			}

			fmt.Fprintln(cmd.OutOrStdout(), report.PipelineTable(pipeline.Passes()))

			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, flagConfig, "", "Config file path (default: .tsfix.yaml in CWD or $HOME)")

	return cmd
}
