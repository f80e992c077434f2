// Package reconcile merges a method's runtime signature with its
// documentation into the ordered parameter model every artifact is
// rendered from.
package reconcile

import (
	"strings"

	"github.com/teranos/autobuild/doccomment"
	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/typemap"
)

// Kind distinguishes required from optional parameters.
type Kind int

const (
	Positional Kind = iota
	Keyword
)

func (k Kind) String() string {
	if k == Keyword {
		return "keyword"
	}
	return "positional"
}

// Param is one reconciled parameter.
type Param struct {
	Name        string
	Type        string // documented type, "" when undocumented
	Description string
	Documented  bool
	Kind        Kind
	Default     manifest.Value // keyword parameters only
	// Synthesized parameters are documented but absent from the runtime
	// signature. They are forwarded only when the user supplies them.
	Synthesized bool
}

// DecodeJSON reports whether the parameter is passed as JSON text and
// decoded before the wrapped call.
func (p Param) DecodeJSON() bool {
	return p.Type == "dict"
}

// Optional reports whether the parameter has a default.
func (p Param) Optional() bool {
	return p.Kind == Keyword
}

// DefaultLiteral renders the default for a generated signature. The
// no-value marker and empty lists both render as None.
func (p Param) DefaultLiteral() string {
	if p.Default.IsNone() || p.Default.IsEmptyList() {
		return "None"
	}
	return p.Default.Literal()
}

// Model is the reconciled parameter list of one method: positional
// parameters in signature order, keyword parameters in signature order,
// then synthesized parameters sorted by name.
type Model struct {
	Params         []Param
	HadSynthesized bool
	// Undocumented lists runtime arguments with no documentation.
	Undocumented []string
}

// Pair is a runtime argument with its default, if any.
type Pair struct {
	Name    string
	Default *manifest.Value
}

// PairArguments drops a leading self or cls and aligns defaults to the
// trailing arguments. Arguments without a default are positional.
func PairArguments(args []string, defaults []manifest.Value) ([]Pair, error) {
	if len(args) > 0 && (args[0] == "self" || args[0] == "cls") {
		args = args[1:]
	}
	if len(defaults) > len(args) {
		return nil, errors.Wrapf(errors.ErrInvalidManifest, "%d defaults for %d arguments", len(defaults), len(args))
	}

	pairs := make([]Pair, len(args))
	offset := len(args) - len(defaults)
	for i, name := range args {
		pairs[i].Name = name
		if i >= offset {
			d := defaults[i-offset]
			pairs[i].Default = &d
		}
	}
	return pairs, nil
}

// Reconcile builds the parameter model of method from its documentation.
func Reconcile(method manifest.Method, docs *doccomment.Docs) (*Model, error) {
	pairs, err := PairArguments(method.Args, method.Defaults)
	if err != nil {
		return nil, errors.Wrapf(err, "method %s", method.Name)
	}

	m := &Model{}
	var positional, keyword []Param
	seen := make(map[string]bool, len(pairs))

	for _, pair := range pairs {
		seen[pair.Name] = true
		p := Param{Name: pair.Name}
		if e, ok := docs.Param(pair.Name); ok {
			p.Type = e.Type
			p.Description = e.Description
			p.Documented = true
		} else {
			m.Undocumented = append(m.Undocumented, pair.Name)
		}

		if pair.Default == nil {
			p.Kind = Positional
			positional = append(positional, p)
			continue
		}

		p.Kind = Keyword
		p.Default = *pair.Default
		if p.Default.IsEmptyList() {
			p.Default = manifest.None
		}
		keyword = append(keyword, p)
	}

	m.Params = append(positional, keyword...)

	for _, name := range docs.Names() {
		if seen[name] {
			continue
		}
		e, _ := docs.Param(name)
		p := Param{
			Name:        name,
			Type:        e.Type,
			Description: e.Description,
			Documented:  true,
			Kind:        Keyword,
			Default:     manifest.None,
			Synthesized: true,
		}
		if typemap.IsList(e.Type) {
			p.Default = manifest.EmptyList
		}
		m.Params = append(m.Params, p)
		m.HadSynthesized = true
	}
	return m, nil
}

// Positional returns the positional parameters in order.
func (m *Model) Positional() []Param {
	return m.filter(func(p Param) bool { return p.Kind == Positional })
}

// Options returns the keyword parameters, organic then synthesized.
func (m *Model) Options() []Param {
	return m.filter(func(p Param) bool { return p.Kind == Keyword })
}

func (m *Model) filter(keep func(Param) bool) []Param {
	var out []Param
	for _, p := range m.Params {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}

// Signature renders the generated command's parameter list, starting with
// the context parameter.
func (m *Model) Signature() string {
	parts := []string{"ctx"}
	for _, p := range m.Params {
		if p.Kind == Positional {
			parts = append(parts, p.Name)
		} else {
			parts = append(parts, p.Name+"="+p.DefaultLiteral())
		}
	}
	return strings.Join(parts, ", ")
}

// Invocation renders the wrapped call's arguments. Synthesized parameters
// travel through the kwargs dict built by Adjustments.
func (m *Model) Invocation() string {
	var parts []string
	for _, p := range m.Params {
		if p.Synthesized {
			continue
		}
		value := p.Name
		if p.DecodeJSON() {
			value = "json_loads(" + p.Name + ")"
		}
		if p.Kind == Positional {
			parts = append(parts, value)
		} else {
			parts = append(parts, p.Name+"="+value)
		}
	}
	if m.HadSynthesized {
		parts = append(parts, "**kwargs")
	}
	return strings.Join(parts, ", ")
}

// KwargsInit initialises the kwargs dict when synthesized parameters exist.
func (m *Model) KwargsInit() string {
	if !m.HadSynthesized {
		return ""
	}
	return "\n    kwargs = {}\n"
}

// Adjustments renders the conditional forwarding of synthesized parameters.
func (m *Model) Adjustments() string {
	var b strings.Builder
	for _, p := range m.Params {
		if p.Synthesized {
			b.WriteString(forwardRule(p))
		}
	}
	return b.String()
}

// forwardRule is the condition under which a synthesized parameter is
// passed on: booleans and scalars when set, strings and lists when
// non-empty, dicts when set and decoded.
func forwardRule(p Param) string {
	switch {
	case p.Type == "str" || typemap.IsList(p.Type):
		return "    if " + p.Name + " and len(" + p.Name + ") > 0:\n        kwargs['" + p.Name + "'] = " + p.Name + "\n"
	case p.DecodeJSON():
		return "    if " + p.Name + " is not None:\n        kwargs['" + p.Name + "'] = json_loads(" + p.Name + ")\n"
	default:
		return "    if " + p.Name + " is not None:\n        kwargs['" + p.Name + "'] = " + p.Name + "\n"
	}
}
