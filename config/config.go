// Package config loads the generator configuration: which library manifest
// to walk, how to resolve its modules, where artifacts go and which targets
// are rendered.
package config

// DefaultFileName is the configuration file looked up from the working
// directory upwards when no explicit path is given.
const DefaultFileName = ".command-engine.yml"

// Config represents the autobuild configuration
type Config struct {
	ProjectName   string          `mapstructure:"project_name" yaml:"project_name" json:"project_name" toml:"project_name"`
	OutputRoot    string          `mapstructure:"output_root" yaml:"output_root" json:"output_root" toml:"output_root"`
	Strict        bool            `mapstructure:"strict" yaml:"strict" json:"strict" toml:"strict"`
	Documentation string          `mapstructure:"documentation" yaml:"documentation" json:"documentation" toml:"documentation"`
	Module        ModuleConfig    `mapstructure:"module" yaml:"module" json:"module" toml:"module"`
	Templates     TemplatesConfig `mapstructure:"templates" yaml:"templates" json:"templates" toml:"templates"`
	Targets       TargetsConfig   `mapstructure:"targets" yaml:"targets" json:"targets" toml:"targets"`
	Docs          DocsConfig      `mapstructure:"docs" yaml:"docs" json:"docs" toml:"docs"`
	Log           LogConfig       `mapstructure:"log" yaml:"log" json:"log" toml:"log"`
}

// ModuleConfig describes the library being wrapped.
type ModuleConfig struct {
	// Manifest is a local path or go-getter source of the library manifest.
	Manifest string `mapstructure:"manifest" yaml:"manifest" json:"manifest" toml:"manifest"`

	// Library entry point; cross-checked against the manifest header.
	BaseModule   string   `mapstructure:"base_module" yaml:"base_module" json:"base_module" toml:"base_module"`
	InstanceFunc string   `mapstructure:"instance_func" yaml:"instance_func" json:"instance_func" toml:"instance_func"`
	InstanceArgs []string `mapstructure:"instance_args" yaml:"instance_args" json:"instance_args" toml:"instance_args"`
	InstanceCls  string   `mapstructure:"instance_cls" yaml:"instance_cls" json:"instance_cls" toml:"instance_cls"`

	Prefix        string            `mapstructure:"prefix" yaml:"prefix" json:"prefix" toml:"prefix"`
	ClassMarker   string            `mapstructure:"class_marker" yaml:"class_marker" json:"class_marker" toml:"class_marker"`
	ClassMap      map[string]string `mapstructure:"class_map" yaml:"class_map" json:"class_map" toml:"class_map"` // module -> implementing class
	WrappedPrefix string            `mapstructure:"wrapped_prefix" yaml:"wrapped_prefix" json:"wrapped_prefix" toml:"wrapped_prefix"`
	Ignore        IgnoreConfig      `mapstructure:"ignore" yaml:"ignore" json:"ignore" toml:"ignore"`
}

// IgnoreConfig lists names the walker skips.
type IgnoreConfig struct {
	TopAttrs []string `mapstructure:"top_attrs" yaml:"top_attrs" json:"top_attrs" toml:"top_attrs"`
	Funcs    []string `mapstructure:"funcs" yaml:"funcs" json:"funcs" toml:"funcs"` // "method" or "Class.method"
}

// TemplatesConfig points at on-disk template overrides.
type TemplatesConfig struct {
	Dir string `mapstructure:"dir" yaml:"dir" json:"dir" toml:"dir"`
}

// TargetsConfig toggles optional artifact kinds. Bindings are always rendered.
type TargetsConfig struct {
	Descriptor bool `mapstructure:"descriptor" yaml:"descriptor" json:"descriptor" toml:"descriptor"`
	MCP        bool `mapstructure:"mcp" yaml:"mcp" json:"mcp" toml:"mcp"`
}

// DocsConfig configures reference documentation generation.
type DocsConfig struct {
	Dir       string   `mapstructure:"dir" yaml:"dir" json:"dir" toml:"dir"`
	Skip      []string `mapstructure:"skip" yaml:"skip" json:"skip" toml:"skip"`
	ResetHook string   `mapstructure:"reset_hook" yaml:"reset_hook" json:"reset_hook" toml:"reset_hook"`
	HelpArgs  string   `mapstructure:"help_args" yaml:"help_args" json:"help_args" toml:"help_args"`
}

// LogConfig configures log output.
type LogConfig struct {
	JSON  bool   `mapstructure:"json" yaml:"json" json:"json" toml:"json"`
	Theme string `mapstructure:"theme" yaml:"theme" json:"theme" toml:"theme"` // gruvbox, everforest
}
