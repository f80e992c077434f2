package render

import (
	"path/filepath"
	"regexp"
	"strings"

	"github.com/teranos/autobuild/errors"
)

// GeneratedMarker appears in every artifact this tool owns. Files without
// it are never pruned.
const GeneratedMarker = "Code generated by autobuild. DO NOT EDIT."

// Layout maps modules and methods to artifact paths under an output root.
//
//	<root>/<project/path>/commands/cmd_<prefix><module>.py
//	<root>/<project/path>/commands/<prefix><module>/__init__.py
//	<root>/<project/path>/commands/<prefix><module>/<method>.py
//	<root>/galaxy/<module>_<method>.xml
//	<root>/mcp/<module>_<method>.json
type Layout struct {
	Root        string
	ProjectName string
	Prefix      string
}

// NewLayout validates the output location.
func NewLayout(root, projectName, prefix string) (*Layout, error) {
	if root == "" {
		return nil, errors.Wrap(errors.ErrMissingOutputPath, "output root is empty")
	}
	if projectName == "" {
		return nil, errors.Wrap(errors.ErrMissingOutputPath, "project name is empty")
	}
	return &Layout{Root: root, ProjectName: projectName, Prefix: prefix}, nil
}

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_]`)

// Sanitize makes name safe as a file name and import path segment.
func Sanitize(name string) string {
	return unsafeChars.ReplaceAllString(name, "_")
}

// ProjectDir is the project package directory.
func (l *Layout) ProjectDir() string {
	return filepath.Join(l.Root, filepath.FromSlash(strings.ReplaceAll(l.ProjectName, ".", "/")))
}

// CommandsDir holds the aggregators and one directory per module.
func (l *Layout) CommandsDir() string {
	return filepath.Join(l.ProjectDir(), "commands")
}

// PackageName is the module's directory and import name.
func (l *Layout) PackageName(module string) string {
	return l.Prefix + Sanitize(module)
}

// ModuleDir holds the bindings of one module.
func (l *Layout) ModuleDir(module string) string {
	return filepath.Join(l.CommandsDir(), l.PackageName(module))
}

// BindingPath is the CLI binding of one method.
func (l *Layout) BindingPath(module, method string) string {
	return filepath.Join(l.ModuleDir(module), Sanitize(method)+".py")
}

// MarkerPath is the package marker of a module directory.
func (l *Layout) MarkerPath(module string) string {
	return filepath.Join(l.ModuleDir(module), "__init__.py")
}

// AggregatorPath registers every binding of a module under one group.
func (l *Layout) AggregatorPath(module string) string {
	return filepath.Join(l.CommandsDir(), "cmd_"+l.PackageName(module)+".py")
}

// DescriptorDir holds the tool descriptors.
func (l *Layout) DescriptorDir() string {
	return filepath.Join(l.Root, "galaxy")
}

// DescriptorPath is the tool descriptor of one method.
func (l *Layout) DescriptorPath(module, method string) string {
	return filepath.Join(l.DescriptorDir(), Sanitize(module)+"_"+Sanitize(method)+".xml")
}

// MCPDir holds the tool-call descriptors. The directory is owned entirely
// by the generator.
func (l *Layout) MCPDir() string {
	return filepath.Join(l.Root, "mcp")
}

// MCPPath is the tool-call descriptor of one method.
func (l *Layout) MCPPath(module, method string) string {
	return filepath.Join(l.MCPDir(), Sanitize(module)+"_"+Sanitize(method)+".json")
}

// ImportPath is the dotted import path of a binding file in a module.
func (l *Layout) ImportPath(module, file string) string {
	stem := strings.TrimSuffix(filepath.Base(file), filepath.Ext(file))
	return l.ProjectName + ".commands." + l.PackageName(module) + "." + stem
}
