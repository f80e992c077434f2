package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/spf13/viper"
	"github.com/teranos/autobuild/errors"
)

var (
	globalConfig *Config
	loadedFrom   string
)

// Load reads the configuration from path, or from the nearest
// DefaultFileName when path is empty. The result is cached until Reset.
func Load(path string) (*Config, error) {
	if globalConfig != nil {
		return globalConfig, nil
	}

	v := newViper()
	if path == "" {
		path = findProjectConfig()
	}
	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "failed to read config file %s", path)
		}
	}

	cfg, err := LoadWithViper(v)
	if err != nil {
		return nil, err
	}

	if cfg.ProjectName == "" {
		dir := "."
		if path != "" {
			dir = filepath.Dir(path)
		}
		cfg.ProjectName = projectNameFromPyproject(filepath.Join(dir, "pyproject.toml"))
	}

	globalConfig = cfg
	loadedFrom = path
	return globalConfig, nil
}

// Source returns the file the cached configuration was read from, or ""
// when it came from defaults and the environment only.
func Source() string {
	return loadedFrom
}

// LoadWithViper loads configuration using a provided Viper instance
func LoadWithViper(v *viper.Viper) (*Config, error) {
	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return &cfg, nil
}

// LoadFromFile loads configuration from a specific file path without
// touching the cache or the environment.
func LoadFromFile(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	SetDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		return nil, errors.Wrapf(err, "failed to read config file %s", path)
	}
	return LoadWithViper(v)
}

// Reset clears the cached configuration.
func Reset() {
	globalConfig = nil
	loadedFrom = ""
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetEnvPrefix("AUTOBUILD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	SetDefaults(v)
	return v
}

// findProjectConfig walks up from the working directory looking for
// DefaultFileName. Returns "" when none is found.
func findProjectConfig() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}

	for {
		candidate := filepath.Join(dir, DefaultFileName)
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

type pyproject struct {
	Project struct {
		Name string `toml:"name"`
	} `toml:"project"`
}

// projectNameFromPyproject returns the [project] name of a pyproject.toml
// as an importable package name, or "" if unavailable.
func projectNameFromPyproject(path string) string {
	var p pyproject
	if _, err := toml.DecodeFile(path, &p); err != nil {
		return ""
	}
	return strings.ReplaceAll(p.Project.Name, "-", "_")
}
