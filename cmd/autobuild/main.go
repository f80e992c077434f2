package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/teranos/autobuild/cmd/autobuild/commands"
	"github.com/teranos/autobuild/logger"
)

var rootCmd = &cobra.Command{
	Use:   "autobuild",
	Short: "Generate CLI bindings, tool descriptors and reference docs from a library manifest",
	Long: `autobuild - Command engine generator.

Reads a library manifest (module -> class -> method, with documentation) and
generates one click command per method, grouped per module, plus optional
Galaxy tool descriptors, MCP tool descriptors and reStructuredText reference
pages.

Available commands:
  generate - Render every artifact into the output root
  check    - Report generated files that are out of date
  docs     - Write reference pages from the generated commands' help
  config   - Show or validate the configuration
  version  - Show build information

Examples:
  autobuild generate                 # Generate everything
  autobuild generate histories       # Regenerate one module
  autobuild generate --lenient --mcp # Substitute missing return docs, add MCP tools
  autobuild generate --watch         # Regenerate when inputs change
  autobuild check                    # Fail when generated files drift`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		jsonLogs, _ := cmd.Flags().GetBool("json-logs")
		if err := logger.Initialize(jsonLogs, verbosity); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		logger.Debugw("Logger initialized", "level", logger.LevelName(verbosity), "command", cmd.Name())
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Cleanup()
	},
}

func init() {
	rootCmd.PersistentFlags().String("config", "", "Config file (default: nearest .command-engine.yml)")
	rootCmd.PersistentFlags().CountP("verbose", "v", "Increase output verbosity (repeat for more detail: -v, -vv)")
	rootCmd.PersistentFlags().Bool("json-logs", false, "Emit logs as JSON")

	rootCmd.AddCommand(commands.GenerateCmd)
	rootCmd.AddCommand(commands.CheckCmd)
	rootCmd.AddCommand(commands.DocsCmd)
	rootCmd.AddCommand(commands.ConfigCmd)
	rootCmd.AddCommand(commands.VersionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		commands.PrintError(err)
		os.Exit(1)
	}
}
