package config

import (
	"strings"

	"github.com/teranos/autobuild/errors"
)

// Validate checks that the configuration is valid
func (c *Config) Validate() error {
	if c.ProjectName == "" {
		return invalid("project_name is required (or provide pyproject.toml with [project].name)")
	}
	if strings.HasPrefix(c.ProjectName, ".") || strings.HasSuffix(c.ProjectName, ".") || strings.Contains(c.ProjectName, "..") {
		return invalid("project_name %q is not a dotted package path", c.ProjectName)
	}
	if c.OutputRoot == "" {
		return invalid("output_root cannot be empty (omit for \".\")")
	}
	if c.Module.Manifest == "" {
		return invalid("module.manifest is required")
	}
	if c.Module.ClassMarker == "" {
		return invalid("module.class_marker cannot be empty")
	}
	for module, class := range c.Module.ClassMap {
		if class == "" {
			return invalid("module.class_map.%s names no class", module)
		}
	}
	for _, fn := range c.Module.Ignore.Funcs {
		if strings.Count(fn, ".") > 1 {
			return invalid("module.ignore.funcs entry %q must be \"method\" or \"Class.method\"", fn)
		}
	}
	if c.Docs.Dir == "" {
		return invalid("docs.dir cannot be empty")
	}
	if c.Log.Theme != "" && c.Log.Theme != "gruvbox" && c.Log.Theme != "everforest" {
		return invalid("log.theme must be gruvbox or everforest, got %q", c.Log.Theme)
	}
	return nil
}

func invalid(format string, args ...interface{}) error {
	return errors.Wrap(errors.ErrInvalidConfig, errors.Newf(format, args...).Error())
}

// ProjectPath returns the project name as a relative directory path.
func (c *Config) ProjectPath() string {
	return strings.ReplaceAll(c.ProjectName, ".", "/")
}
