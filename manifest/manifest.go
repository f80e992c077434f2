// Package manifest describes a wrapped library: its root instance, the
// namespaces its attributes come from, and the classes and methods those
// namespaces define. A manifest is produced by a separate extraction step
// against the real library and consumed here instead of live reflection.
package manifest

import (
	"sort"

	"github.com/teranos/autobuild/errors"
)

// Manifest is the declared object graph of a library.
type Manifest struct {
	SchemaVersion string               `yaml:"schema_version"`
	EntryPoint    EntryPoint           `yaml:"entry_point"`
	Root          Root                 `yaml:"root"`
	Namespaces    map[string]Namespace `yaml:"namespaces"`
}

// EntryPoint records how the extractor obtained the root instance.
type EntryPoint struct {
	Module  string   `yaml:"module"`
	Factory string   `yaml:"factory"`
	Args    []string `yaml:"args"`
	Class   string   `yaml:"class"`
}

// Root is the library's top-level instance.
type Root struct {
	Name       string      `yaml:"name"`
	Attributes []Attribute `yaml:"attributes"`
}

// Attribute is one attribute of the root instance. Namespace names the
// module its value is defined in.
type Attribute struct {
	Name      string `yaml:"name"`
	Namespace string `yaml:"namespace"`
	Type      string `yaml:"type"`
}

// Namespace is one library module: plain symbols plus class definitions.
type Namespace struct {
	Symbols []string         `yaml:"symbols"`
	Classes map[string]Class `yaml:"classes"`
}

// Class is a class definition with its documentation and methods.
type Class struct {
	Doc     string   `yaml:"doc"`
	Methods []Method `yaml:"methods"`
}

// Method is a runtime method signature. Args includes a leading self or
// cls when the method is bound; Defaults align to the trailing Args.
type Method struct {
	Name     string   `yaml:"name"`
	Doc      string   `yaml:"doc"`
	Args     []string `yaml:"args"`
	Defaults Defaults `yaml:"defaults"`
}

// AttributeNames returns the root attribute names in sorted order.
func (m *Manifest) AttributeNames() []string {
	names := make([]string, 0, len(m.Root.Attributes))
	for _, a := range m.Root.Attributes {
		names = append(names, a.Name)
	}
	sort.Strings(names)
	return names
}

// Attribute returns the named root attribute.
func (m *Manifest) Attribute(name string) (Attribute, bool) {
	for _, a := range m.Root.Attributes {
		if a.Name == name {
			return a, true
		}
	}
	return Attribute{}, false
}

// Namespace returns the named namespace.
func (m *Manifest) Namespace(name string) (Namespace, bool) {
	ns, ok := m.Namespaces[name]
	return ns, ok
}

// SymbolNames returns every symbol and class name of the namespace, sorted
// and deduplicated.
func (ns Namespace) SymbolNames() []string {
	seen := make(map[string]bool, len(ns.Symbols)+len(ns.Classes))
	var names []string
	for _, s := range ns.Symbols {
		if !seen[s] {
			seen[s] = true
			names = append(names, s)
		}
	}
	for c := range ns.Classes {
		if !seen[c] {
			seen[c] = true
			names = append(names, c)
		}
	}
	sort.Strings(names)
	return names
}

// MethodNames returns the class's method names in sorted order.
func (c Class) MethodNames() []string {
	names := make([]string, 0, len(c.Methods))
	for _, m := range c.Methods {
		names = append(names, m.Name)
	}
	sort.Strings(names)
	return names
}

// Method returns the named method.
func (c Class) Method(name string) (Method, bool) {
	for _, m := range c.Methods {
		if m.Name == name {
			return m, true
		}
	}
	return Method{}, false
}

// CheckEntryPoint fails when the configured entry point differs from the
// one the manifest was extracted with. Empty values on either side match.
func (m *Manifest) CheckEntryPoint(module, factory, class string) error {
	mismatch := func(field, configured, declared string) error {
		if configured == "" || declared == "" || configured == declared {
			return nil
		}
		return errors.WithHint(
			errors.Wrapf(errors.ErrInvalidManifest, "entry point %s: configured %q, manifest declares %q", field, configured, declared),
			"regenerate the manifest against the configured library entry point",
		)
	}
	if err := mismatch("module", module, m.EntryPoint.Module); err != nil {
		return err
	}
	if err := mismatch("factory", factory, m.EntryPoint.Factory); err != nil {
		return err
	}
	return mismatch("class", class, m.EntryPoint.Class)
}
