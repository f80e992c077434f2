package config

import "github.com/spf13/viper"

// SetDefaults configures default values for all configuration options
func SetDefaults(v *viper.Viper) {
	// Registered so AUTOBUILD_* environment variables reach Unmarshal.
	v.SetDefault("project_name", "")
	v.SetDefault("module.manifest", "")

	v.SetDefault("output_root", ".")
	v.SetDefault("strict", true)
	v.SetDefault("documentation", "")

	v.SetDefault("module.prefix", "")
	v.SetDefault("module.class_marker", "Client")
	v.SetDefault("module.wrapped_prefix", "ctx.gi")
	v.SetDefault("module.ignore.top_attrs", []string{})
	v.SetDefault("module.ignore.funcs", []string{})

	v.SetDefault("targets.descriptor", true)
	v.SetDefault("targets.mcp", false)

	v.SetDefault("docs.dir", "docs")
	v.SetDefault("docs.skip", []string{"init"})
	v.SetDefault("docs.reset_hook", "")
	v.SetDefault("docs.help_args", "--help")

	v.SetDefault("log.json", false)
	v.SetDefault("log.theme", "everforest")
}
