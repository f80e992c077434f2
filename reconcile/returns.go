package reconcile

import (
	"strings"

	"github.com/teranos/autobuild/doccomment"
	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/typemap"
)

// DefaultReturnType stands in for undocumented return values.
const DefaultReturnType = "dict"

// ReturnSpec is the documented return value of a method.
type ReturnSpec struct {
	Type        string
	Description string
	// Substituted is set when the return was not documented and the
	// default was used instead.
	Substituted bool
}

// ResolveReturn picks the return specification. Deprecated methods and
// lenient runs fall back to DefaultReturnType; a strict run fails with
// ErrMissingReturnDocumentation.
func ResolveReturn(docs *doccomment.Docs, strict bool) (ReturnSpec, error) {
	if docs.Return != nil {
		r := ReturnSpec{Type: docs.Return.Type, Description: strings.TrimSpace(docs.Return.Description)}
		if r.Type == "" {
			r.Type = DefaultReturnType
		}
		return r, nil
	}

	substitute := ReturnSpec{Type: DefaultReturnType, Substituted: true}
	if docs.Deprecated || !strict {
		return substitute, nil
	}
	return ReturnSpec{}, errors.WithHint(
		errors.Wrap(errors.ErrMissingReturnDocumentation, "no :rtype:/:returns: clause"),
		"document the return value or run with strict: false",
	)
}

// NoValue reports whether the method returns nothing.
func (r ReturnSpec) NoValue() bool {
	return r.Type == typemap.NoType
}

// OutputFormat is the lower-cased first word of the return type; the
// no-value marker is kept as is.
func (r ReturnSpec) OutputFormat() string {
	if r.NoValue() {
		return r.Type
	}
	f := strings.ToLower(r.Type)
	if i := strings.IndexByte(f, ' '); i >= 0 {
		f = f[:i]
	}
	return f
}

// ReformatJSON is the structured-output post-processing step, disabled for
// methods that return nothing.
func (r ReturnSpec) ReformatJSON() string {
	if r.NoValue() {
		return ""
	}
	return "| jq -S ."
}

// DescriptorFormat is the descriptor's output dataset format.
func (r ReturnSpec) DescriptorFormat() string {
	if r.NoValue() {
		return "txt"
	}
	return "json"
}
