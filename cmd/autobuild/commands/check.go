package commands

import (
	"path/filepath"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/autobuild/builder"
	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/render"
)

// CheckCmd verifies that generated files match what generate would write.
var CheckCmd = &cobra.Command{
	Use:   "check",
	Short: "Check that generated files are up to date",
	Long: `Render every artifact in memory and compare it with the output root.

Reports files that would be written, changed or removed, and exits non-zero
when any differ. Nothing is written.`,
	RunE: runCheck,
}

func init() {
	addTargetFlags(CheckCmd.Flags())
	CheckCmd.Flags().Bool("diff", true, "Print a line diff for changed files")
}

func runCheck(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	applyOverrides(cmd, cfg)
	showDiff, _ := cmd.Flags().GetBool("diff")

	sink := render.NewCheckSink()
	if _, err := builder.Generate(cmd.Context(), cfg, sink); err != nil {
		return err
	}

	if sink.UpToDate() {
		pterm.Success.Println("Generated files are up to date")
		return nil
	}

	drift := sink.Drift()
	for _, d := range drift {
		path := d.Path
		if rel, err := filepath.Rel(cfg.OutputRoot, d.Path); err == nil {
			path = rel
		}
		pterm.Warning.Printfln("%s (%s)", path, d.Kind)
		if showDiff && d.Diff != "" {
			pterm.Println(d.Diff)
		}
	}
	pterm.Info.Println("Run 'autobuild generate' to update")
	return errors.Newf("%d generated files are out of date", len(drift))
}
