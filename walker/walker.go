// Package walker enumerates the wrappable surface of a library manifest:
// the root instance's public attributes, the class implementing each one,
// and that class's public methods.
//
// Iteration is sorted at every level so that repeated runs over the same
// manifest produce the same module and method order.
package walker

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"go.uber.org/zap"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/manifest"
)

// DefaultClassMarker is the substring identifying implementing classes.
const DefaultClassMarker = "Client"

// Options control which names are walked and how classes are resolved.
type Options struct {
	ClassMarker string
	// ClassMap pins the implementing class of a module.
	ClassMap       map[string]string
	IgnoreTopAttrs []string
	// IgnoreFuncs entries are a bare method name or Class.method.
	IgnoreFuncs []string
}

// Module is one library module exposed through a root attribute.
type Module struct {
	Name      string
	Namespace string
	Class     string
	ClassDoc  string
	Methods   []manifest.Method
}

// Target identifies one method to generate.
type Target struct {
	Module string
	Class  string
	Method string
}

// Walker walks a manifest.
type Walker struct {
	m    *manifest.Manifest
	opts Options
	log  *zap.SugaredLogger
}

// New returns a walker over m.
func New(m *manifest.Manifest, opts Options, log *zap.SugaredLogger) *Walker {
	if opts.ClassMarker == "" {
		opts.ClassMarker = DefaultClassMarker
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	return &Walker{m: m, opts: opts, log: log}
}

// Modules returns every walkable module in attribute-name order. A module
// whose class cannot be resolved fails the walk.
func (w *Walker) Modules() ([]Module, error) {
	var modules []Module
	for _, name := range w.m.AttributeNames() {
		if !Public(name) {
			continue
		}
		if contains(w.opts.IgnoreTopAttrs, name) {
			w.log.Debugw("Skipping ignored attribute", "module", name)
			continue
		}
		mod, err := w.Module(name)
		if err != nil {
			return nil, err
		}
		modules = append(modules, mod)
	}
	return modules, nil
}

// Module resolves a single root attribute.
func (w *Walker) Module(name string) (Module, error) {
	attr, ok := w.m.Attribute(name)
	if !ok {
		return Module{}, errors.Wrapf(errors.ErrUnresolvableModule, "no attribute %s", name)
	}
	ns, ok := w.m.Namespace(attr.Namespace)
	if !ok {
		return Module{}, errors.Wrapf(errors.ErrUnresolvableModule, "module %s: namespace %q is not described", name, attr.Namespace)
	}

	className, err := w.resolveClass(name, ns)
	if err != nil {
		return Module{}, err
	}
	class, ok := ns.Classes[className]
	if !ok {
		return Module{}, errors.Wrapf(errors.ErrUnresolvableModule, "module %s: class %s has no definition in %s", name, className, attr.Namespace)
	}

	mod := Module{
		Name:      name,
		Namespace: attr.Namespace,
		Class:     className,
		ClassDoc:  class.Doc,
	}
	for _, methodName := range class.MethodNames() {
		if !Public(methodName) {
			continue
		}
		if w.ignoresFunc(className, methodName) {
			w.log.Debugw("Skipping ignored method", "module", name, "method", methodName)
			continue
		}
		m, _ := class.Method(methodName)
		mod.Methods = append(mod.Methods, m)
	}
	return mod, nil
}

func (w *Walker) resolveClass(module string, ns manifest.Namespace) (string, error) {
	if pinned, ok := w.opts.ClassMap[module]; ok {
		return pinned, nil
	}
	return ResolveClass(module, ns, w.opts.ClassMarker)
}

// ResolveClass picks the one symbol of ns containing marker, excluding
// marker itself. Zero or several candidates are an error.
func ResolveClass(module string, ns manifest.Namespace, marker string) (string, error) {
	var candidates []string
	for _, sym := range ns.SymbolNames() {
		if sym != marker && strings.Contains(sym, marker) {
			candidates = append(candidates, sym)
		}
	}
	switch len(candidates) {
	case 1:
		return candidates[0], nil
	case 0:
		return "", errors.WithHint(
			errors.Wrapf(errors.ErrUnresolvableModule, "module %s: no symbol contains %q", module, marker),
			"pin the class with module.class_map or ignore the attribute with module.ignore.top_attrs",
		)
	default:
		return "", errors.WithHint(
			errors.Wrapf(errors.ErrUnresolvableModule, "module %s: symbols %s all contain %q", module, strings.Join(candidates, ", "), marker),
			"pin the class with module.class_map",
		)
	}
}

func (w *Walker) ignoresFunc(class, method string) bool {
	for _, fn := range w.opts.IgnoreFuncs {
		if fn == method || fn == class+"."+method {
			return true
		}
	}
	return false
}

// Targets flattens modules into (module, class, method) triples.
func Targets(modules []Module) []Target {
	var targets []Target
	for _, mod := range modules {
		for _, m := range mod.Methods {
			targets = append(targets, Target{Module: mod.Name, Class: mod.Class, Method: m.Name})
		}
	}
	return targets
}

// Public reports whether name is walked: not underscore-prefixed and not
// constant-styled.
func Public(name string) bool {
	if name == "" || strings.HasPrefix(name, "_") {
		return false
	}
	r, _ := utf8.DecodeRuneInString(name)
	return unicode.ToUpper(r) != r
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
