package commands

import (
	"encoding/json"
	"fmt"

	"github.com/pelletier/go-toml/v2"
	"github.com/pterm/pterm"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/teranos/autobuild/config"
	"github.com/teranos/autobuild/errors"
)

// ConfigCmd groups the configuration subcommands.
var ConfigCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or validate the configuration",
	Long: `Display and validate the autobuild configuration.

Configuration sources (in order of precedence):
1. Command line flags
2. Environment variables (AUTOBUILD_* prefix)
3. Config file (--config, or the nearest .command-engine.yml)
4. pyproject.toml [project].name for project_name
5. Default values

Examples:
  autobuild config show
  autobuild config show --format json
  autobuild config validate`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	RunE:  runConfigShow,
}

var configValidateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration",
	RunE:  runConfigValidate,
}

var configFormat string

func init() {
	configShowCmd.Flags().StringVar(&configFormat, "format", "yaml", "Output format: yaml, json, toml")

	ConfigCmd.AddCommand(configShowCmd)
	ConfigCmd.AddCommand(configValidateCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	path, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(path)
	if err != nil {
		return err
	}

	out, err := formatConfig(cfg, configFormat)
	if err != nil {
		return err
	}
	if src := config.Source(); src != "" {
		fmt.Fprintf(cmd.OutOrStdout(), "# Loaded from %s\n", src)
	}
	fmt.Fprint(cmd.OutOrStdout(), out)
	return nil
}

func formatConfig(cfg *config.Config, format string) (string, error) {
	switch format {
	case "json":
		data, err := json.MarshalIndent(cfg, "", "  ")
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal config to JSON")
		}
		return string(data) + "\n", nil
	case "yaml":
		data, err := yaml.Marshal(cfg)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal config to YAML")
		}
		return string(data), nil
	case "toml":
		data, err := toml.Marshal(cfg)
		if err != nil {
			return "", errors.Wrap(err, "failed to marshal config to TOML")
		}
		return string(data), nil
	default:
		return "", errors.Newf("unsupported format: %s (supported: yaml, json, toml)", format)
	}
}

func runConfigValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(cmd); err != nil {
		return err
	}
	pterm.Success.Println("Configuration is valid")
	return nil
}
