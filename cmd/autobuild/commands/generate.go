package commands

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/teranos/autobuild/builder"
	"github.com/teranos/autobuild/config"
	"github.com/teranos/autobuild/logger"
	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/render"
)

// GenerateCmd renders every artifact into the output root.
var GenerateCmd = &cobra.Command{
	Use:   "generate [module...]",
	Short: "Generate CLI bindings and tool descriptors",
	Long: `Walk the library manifest and render one CLI binding per method, one
aggregator per module, and the optional descriptor and MCP targets.

Naming modules regenerates only those modules and skips the stale sweep.

Examples:
  autobuild generate
  autobuild generate histories workflows
  autobuild generate --no-descriptor
  autobuild generate --watch`,
	RunE: runGenerate,
}

func init() {
	addTargetFlags(GenerateCmd.Flags())
	GenerateCmd.Flags().Bool("watch", false, "Regenerate when the config, manifest or templates change")
	GenerateCmd.MarkFlagsMutuallyExclusive("strict", "lenient")
	GenerateCmd.MarkFlagsMutuallyExclusive("descriptor", "no-descriptor")
}

// addTargetFlags registers the flags applyOverrides reads.
func addTargetFlags(fs *pflag.FlagSet) {
	fs.Bool("descriptor", true, "Render Galaxy tool descriptors")
	fs.Bool("no-descriptor", false, "Skip Galaxy tool descriptors")
	fs.Bool("mcp", false, "Render MCP tool descriptors")
	fs.Bool("strict", false, "Fail on undocumented return values")
	fs.Bool("lenient", false, "Substitute undocumented return values with dict")
}

// applyOverrides lets explicit flags win over the configuration.
func applyOverrides(cmd *cobra.Command, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("descriptor") {
		cfg.Targets.Descriptor, _ = flags.GetBool("descriptor")
	}
	if flags.Changed("no-descriptor") {
		cfg.Targets.Descriptor = false
	}
	if flags.Changed("mcp") {
		cfg.Targets.MCP, _ = flags.GetBool("mcp")
	}
	if flags.Changed("strict") {
		cfg.Strict = true
	}
	if flags.Changed("lenient") {
		cfg.Strict = false
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	watch, _ := cmd.Flags().GetBool("watch")

	once := func(ctx context.Context) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		applyOverrides(cmd, cfg)

		report, err := builder.Generate(ctx, cfg, render.NewFileSink(), args...)
		if err != nil {
			return err
		}
		printReport(report, cfg.OutputRoot)
		return nil
	}

	if !watch {
		return once(cmd.Context())
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := once(ctx); err != nil {
		PrintError(err)
	}

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	paths := []string{config.Source(), cfg.Templates.Dir}
	if local, ok := manifest.LocalPath(cfg.Module.Manifest); ok {
		paths = append(paths, local)
	}

	w, err := config.NewInputWatcher(func() error {
		if err := once(ctx); err != nil {
			PrintError(err)
		}
		return nil
	}, paths...)
	if err != nil {
		return err
	}
	w.Start()
	defer w.Stop()

	pterm.Info.Println("Watching for changes, press Ctrl+C to stop")
	<-ctx.Done()
	logger.Infow("Watch stopped")
	return nil
}
