package commands

import (
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/autobuild/builder"
	"github.com/teranos/autobuild/docgen"
	"github.com/teranos/autobuild/harness"
	"github.com/teranos/autobuild/render"
)

// DocsCmd writes reStructuredText reference pages.
var DocsCmd = &cobra.Command{
	Use:   "docs",
	Short: "Write reference pages for the generated commands",
	Long: `Load the command groups from the assembled cmd_*.py modules, capture each
command's help output in-process and write one page per command group plus a
commands index under docs.dir. Curated commands registered next to the
generated ones are documented too.

Groups listed in docs.skip are left out. The hook named by docs.reset_hook
runs before each command's help is captured.`,
	RunE: runDocs,
}

func runDocs(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	hook, err := docgen.LookupResetHook(cfg.Docs.ResetHook)
	if err != nil {
		return err
	}
	helpArgs, err := docgen.ParseHelpArgs(cfg.Docs.HelpArgs)
	if err != nil {
		return err
	}

	// An in-memory run yields the models and overlays what generate would
	// write on the current tree; commands are discovered from that view.
	sink := render.NewCheckSink()
	report, err := builder.Generate(cmd.Context(), cfg, sink)
	if err != nil {
		return err
	}
	layout, err := render.NewLayout(cfg.OutputRoot, cfg.ProjectName, cfg.Module.Prefix)
	if err != nil {
		return err
	}
	tree, err := harness.Discover(layout, sink, report.Groups)
	if err != nil {
		return err
	}

	g := docgen.New(tree, render.NewFileSink(), docgen.Options{
		Project:       cfg.ProjectName,
		Documentation: cfg.Documentation,
		Dir:           cfg.Docs.Dir,
		Skip:          cfg.Docs.Skip,
		Reset:         hook,
		HelpArgs:      helpArgs,
	})
	res, err := g.Generate(cmd.Context())
	if err != nil {
		return err
	}

	pterm.Success.Printfln("Wrote %d command pages and %s", len(res.Pages), res.Index)
	return nil
}
