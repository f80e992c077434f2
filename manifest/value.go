package manifest

import (
	"math"
	"strconv"
	"strings"

	"github.com/teranos/autobuild/errors"
	"gopkg.in/yaml.v3"
)

// ValueKind is the runtime type of a default value.
type ValueKind int

const (
	KindNone ValueKind = iota
	KindString
	KindInt
	KindFloat
	KindBool
	KindList
	KindDict
)

// Value is a runtime default value as declared in the manifest. An
// explicit YAML null decodes to KindNone; an absent default is expressed
// by the Defaults slice being shorter than Args.
type Value struct {
	Kind    ValueKind
	Str     string
	Int     int64
	Float   float64
	Bool    bool
	Items   []Value
	Entries []Entry
}

// Entry is one key of a dict default.
type Entry struct {
	Key   string
	Value Value
}

// Common values.
var (
	None      = Value{Kind: KindNone}
	EmptyList = Value{Kind: KindList}
)

// String returns a string value.
func String(s string) Value { return Value{Kind: KindString, Str: s} }

// Int returns an integer value.
func Int(i int64) Value { return Value{Kind: KindInt, Int: i} }

// Float returns a float value.
func Float(f float64) Value { return Value{Kind: KindFloat, Float: f} }

// Bool returns a boolean value.
func Bool(b bool) Value { return Value{Kind: KindBool, Bool: b} }

// List returns a list value.
func List(items ...Value) Value { return Value{Kind: KindList, Items: items} }

// UnmarshalYAML decodes any YAML node into a Value, keeping null distinct
// from the empty string.
func (v *Value) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		return v.UnmarshalYAML(node.Alias)
	}

	switch node.Kind {
	case yaml.ScalarNode:
		switch node.ShortTag() {
		case "!!null":
			*v = None
		case "!!bool":
			var b bool
			if err := node.Decode(&b); err != nil {
				return err
			}
			*v = Bool(b)
		case "!!int":
			var i int64
			if err := node.Decode(&i); err != nil {
				return err
			}
			*v = Int(i)
		case "!!float":
			var f float64
			if err := node.Decode(&f); err != nil {
				return err
			}
			*v = Float(f)
		default:
			*v = String(node.Value)
		}
	case yaml.SequenceNode:
		items := make([]Value, len(node.Content))
		for i, child := range node.Content {
			if err := items[i].UnmarshalYAML(child); err != nil {
				return err
			}
		}
		*v = Value{Kind: KindList, Items: items}
	case yaml.MappingNode:
		entries := make([]Entry, 0, len(node.Content)/2)
		for i := 0; i+1 < len(node.Content); i += 2 {
			var e Entry
			e.Key = node.Content[i].Value
			if err := e.Value.UnmarshalYAML(node.Content[i+1]); err != nil {
				return err
			}
			entries = append(entries, e)
		}
		*v = Value{Kind: KindDict, Entries: entries}
	default:
		return errors.Wrapf(errors.ErrInvalidManifest, "unsupported default at line %d", node.Line)
	}
	return nil
}

// Defaults is a method's trailing default values. It decodes its sequence
// itself because yaml.v3 skips custom unmarshalers for null nodes, which
// would drop None defaults and shift the rest onto the wrong arguments.
type Defaults []Value

// UnmarshalYAML decodes every sequence item, null included.
func (d *Defaults) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.AliasNode {
		return d.UnmarshalYAML(node.Alias)
	}
	if node.Kind != yaml.SequenceNode {
		return errors.Wrapf(errors.ErrInvalidManifest, "defaults at line %d must be a sequence", node.Line)
	}
	out := make(Defaults, len(node.Content))
	for i, child := range node.Content {
		if err := out[i].UnmarshalYAML(child); err != nil {
			return err
		}
	}
	*d = out
	return nil
}

// MarshalYAML encodes the value back to its plain YAML form.
func (v Value) MarshalYAML() (interface{}, error) {
	switch v.Kind {
	case KindString:
		return v.Str, nil
	case KindInt:
		return v.Int, nil
	case KindFloat:
		return v.Float, nil
	case KindBool:
		return v.Bool, nil
	case KindList:
		items := make([]interface{}, len(v.Items))
		for i, item := range v.Items {
			items[i], _ = item.MarshalYAML()
		}
		return items, nil
	case KindDict:
		node := &yaml.Node{Kind: yaml.MappingNode}
		for _, e := range v.Entries {
			var val yaml.Node
			raw, _ := e.Value.MarshalYAML()
			if err := val.Encode(raw); err != nil {
				return nil, err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Value: e.Key}, &val)
		}
		return node, nil
	default:
		return nil, nil
	}
}

// IsNone reports whether the value is the no-value marker.
func (v Value) IsNone() bool { return v.Kind == KindNone }

// IsEmptyList reports whether the value is a list with no items.
func (v Value) IsEmptyList() bool { return v.Kind == KindList && len(v.Items) == 0 }

// Truthy follows the source language's truthiness: empty strings,
// collections, zero numbers, false and None are false.
func (v Value) Truthy() bool {
	switch v.Kind {
	case KindString:
		return v.Str != ""
	case KindInt:
		return v.Int != 0
	case KindFloat:
		return v.Float != 0
	case KindBool:
		return v.Bool
	case KindList:
		return len(v.Items) > 0
	case KindDict:
		return len(v.Entries) > 0
	default:
		return false
	}
}

// Text is the value's plain string form, as used for help-text defaults.
func (v Value) Text() string {
	if v.Kind == KindString {
		return v.Str
	}
	return v.Literal()
}

// Literal renders the value as a source literal for generated signatures.
func (v Value) Literal() string {
	switch v.Kind {
	case KindString:
		return strconv.Quote(v.Str)
	case KindInt:
		return strconv.FormatInt(v.Int, 10)
	case KindFloat:
		return floatLiteral(v.Float)
	case KindBool:
		if v.Bool {
			return "True"
		}
		return "False"
	case KindList:
		parts := make([]string, len(v.Items))
		for i, item := range v.Items {
			parts[i] = item.Literal()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindDict:
		parts := make([]string, len(v.Entries))
		for i, e := range v.Entries {
			parts[i] = strconv.Quote(e.Key) + ": " + e.Value.Literal()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "None"
	}
}

func floatLiteral(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return `float("inf")`
	case math.IsInf(f, -1):
		return `float("-inf")`
	case math.IsNaN(f):
		return `float("nan")`
	}
	s := strconv.FormatFloat(f, 'g', -1, 64)
	if !strings.ContainsAny(s, ".eEn") {
		s += ".0"
	}
	return s
}
