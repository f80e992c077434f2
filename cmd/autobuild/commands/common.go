// Package commands implements the autobuild subcommands.
package commands

import (
	"path/filepath"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/spf13/cobra"

	"github.com/teranos/autobuild/builder"
	"github.com/teranos/autobuild/config"
	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/logger"
)

// loadConfig loads and validates the configuration named by --config.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger.SetTheme(cfg.Log.Theme)
	if cfg.Log.JSON && !logger.JSONOutput {
		verbosity, _ := cmd.Flags().GetCount("verbose")
		if err := logger.Initialize(true, verbosity); err != nil {
			return nil, errors.Wrap(err, "failed to initialize logger")
		}
	}
	return cfg, nil
}

// PrintError prints err and any hints attached to it.
func PrintError(err error) {
	pterm.Error.Println(err.Error())
	if hints := errors.FlattenHints(err); hints != "" {
		for _, hint := range strings.Split(hints, "\n") {
			if hint = strings.TrimSpace(hint); hint != "" {
				pterm.Info.Println(hint)
			}
		}
	}
}

// printReport summarises a generation run.
func printReport(report *builder.Report, root string) {
	rel := func(path string) string {
		if r, err := filepath.Rel(root, path); err == nil {
			return r
		}
		return path
	}

	data := pterm.TableData{{"Module", "Methods"}}
	for _, g := range report.Groups {
		data = append(data, []string{g.Name, pterm.Sprint(len(g.Methods))})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	for _, name := range report.Deprecated {
		pterm.Info.Printfln("Deprecated, removed: %s", name)
	}
	for _, name := range report.Substituted {
		pterm.Warning.Printfln("Undocumented return, assumed dict: %s", name)
	}
	for _, name := range report.Unresolved {
		pterm.Warning.Printfln("Descriptor placeholder: %s", name)
	}
	for _, path := range report.Removed {
		pterm.Info.Printfln("Removed %s", rel(path))
	}
	pterm.Success.Printfln("Generated %d methods in %d modules (%s)",
		report.Methods, len(report.Modules), report.Duration.Round(time.Millisecond))
}
