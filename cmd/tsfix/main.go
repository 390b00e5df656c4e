// Package main provides the entry point for the tsfix CLI tool.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/tsfix/cmd/tsfix/commands"
	"github.com/Sumatoshi-tech/tsfix/pkg/version"
)

var (
	verbose bool
	quiet   bool
)

func main() {
	version.InitBinaryVersion()

	rootCmd := &cobra.Command{
		Use:   "tsfix",
		Short: "tsfix - mechanical cleanup for TypeScript/React source trees",
		Long: `tsfix rewrites lint-flagged patterns in a TypeScript/React project:
catch bindings, loose any types, unused imports and state, console logging
and import grouping.

Commands:
  fix       Rewrite every source file under the project
  patch     Apply only the literal config patches
  passes    List the rewrite passes in pipeline order
  mcp       Serve the pipeline as an MCP tool over stdio`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "suppress output")

	rootCmd.AddCommand(commands.NewFixCommand())
	rootCmd.AddCommand(commands.NewPatchCommand())
	rootCmd.AddCommand(commands.NewPassesCommand())
	rootCmd.AddCommand(commands.NewMCPCommand())
	rootCmd.AddCommand(versionCmd())

	err := rootCmd.Execute()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "tsfix %s (commit: %s, built: %s)\n", version.Version, version.Commit, version.Date)
		},
	}
}
