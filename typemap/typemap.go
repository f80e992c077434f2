// Package typemap translates documented parameter types into the
// declaration fragments each output format needs: CLI decorator
// arguments, tool-descriptor parameter XML and descriptor command-line
// macros.
package typemap

import (
	"html"
	"strings"

	"github.com/teranos/autobuild/errors"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// NoType is the documented type meaning "takes no typed value".
const NoType = "None"

// FlagKind is how an in-process command flag stores the parameter.
type FlagKind int

const (
	FlagString FlagKind = iota
	FlagInt
	FlagFloat
	FlagBool
	FlagStringList
)

// SchemaKind is the JSON schema type used for tool-call descriptors.
type SchemaKind string

const (
	SchemaString  SchemaKind = "string"
	SchemaNumber  SchemaKind = "number"
	SchemaBoolean SchemaKind = "boolean"
	SchemaArray   SchemaKind = "array"
	SchemaObject  SchemaKind = "object"
)

// Entry is the translation of one documented type.
type Entry struct {
	// CLI holds the decorator arguments, in order.
	CLI []string
	// Descriptor is the parameter XML with {name} {label} {help} {default}.
	Descriptor string
	// Option and Argument are the command-line macros for optional and
	// required parameters, with {name}.
	Option   string
	Argument string
	Flag     FlagKind
	Schema   SchemaKind
	List     bool
}

const (
	textParam = `<param name="{name}" label="{label}" argument="{name}" type="text" {help} />`
	valueOpt  = "#if ${name}:\n  --{name} '${name}'\n#end if"
	valueArg  = "'${name}'"
	repeatOpt = "#for $rep in $repeat_{name}:\n  --{name} '$rep.{name}'\n#end for"
	listParam = "<repeat name=\"repeat_{name}\" title=\"{name}\">\n\t\t" + textParam + "\n\t</repeat>"
)

var table = map[string]Entry{
	"str": {
		CLI:        []string{"type=str"},
		Descriptor: textParam,
		Option:     valueOpt,
		Argument:   valueArg,
		Flag:       FlagString,
		Schema:     SchemaString,
	},
	"dict": {
		CLI:        []string{"type=str"},
		Descriptor: `<param name="{name}" label="{label}" argument="{name}" type="data" format="json" {help} />`,
		Option:     valueOpt,
		Argument:   valueArg,
		Flag:       FlagString,
		Schema:     SchemaObject,
	},
	"int": {
		CLI:        []string{"type=int"},
		Descriptor: `<param name="{name}" label="{label}" argument="{name}" type="integer" value="{default}" {help} />`,
		Option:     valueOpt,
		Argument:   valueArg,
		Flag:       FlagInt,
		Schema:     SchemaNumber,
	},
	"float": {
		CLI:        []string{"type=float"},
		Descriptor: `<param name="{name}" label="{label}" argument="{name}" type="float" value="{default}" {help} />`,
		Option:     valueOpt,
		Argument:   valueArg,
		Flag:       FlagFloat,
		Schema:     SchemaNumber,
	},
	"bool": {
		CLI:        []string{"is_flag=True"},
		Descriptor: `<param name="{name}" label="{label}" argument="{name}" type="boolean" truevalue="--{name}" falsevalue="" {help} />`,
		Option:     "#if ${name}:\n  ${name}\n#end if",
		Argument:   "--${name}",
		Flag:       FlagBool,
		Schema:     SchemaBoolean,
	},
	"list": {
		CLI:        []string{"type=str", "multiple=True"},
		Descriptor: listParam,
		Option:     repeatOpt,
		Argument:   repeatOpt,
		Flag:       FlagStringList,
		Schema:     SchemaArray,
		List:       true,
	},
	"list of str": {
		CLI:        []string{"type=str", "multiple=True"},
		Descriptor: listParam,
		Option:     repeatOpt,
		Argument:   repeatOpt,
		Flag:       FlagStringList,
		Schema:     SchemaArray,
		List:       true,
	},
	"file": {
		CLI:        []string{"type=click.File('rb+')"},
		Descriptor: `<param name="{name}" label="{label}" argument="{name}" type="data" format="data" {help} />`,
		Option:     valueOpt,
		Argument:   valueArg,
		Flag:       FlagString,
		Schema:     SchemaString,
	},
	NoType: {
		CLI:        nil,
		Descriptor: "<error />",
		Option:     "## UNKNOWN {name}",
		Argument:   "## UNKNOWN {name}",
		Flag:       FlagString,
		Schema:     SchemaString,
	},
}

// Lookup returns the translation of a documented type.
func Lookup(docType string) (Entry, bool) {
	e, ok := table[docType]
	return e, ok
}

// Types returns every translatable type name.
func Types() []string {
	return []string{"bool", "dict", "file", "float", "int", "list", "list of str", NoType, "str"}
}

// IsList reports whether docType is a list type.
func IsList(docType string) bool {
	e, ok := table[docType]
	return ok && e.List
}

// CLIFragment returns the CLI decorator arguments for docType. Unknown and
// undocumented types are an error: the CLI must not guess.
func CLIFragment(docType string) ([]string, error) {
	e, ok := table[docType]
	if !ok {
		if docType == "" {
			return nil, errors.Wrap(errors.ErrUnresolvedParameterType, "parameter type is undocumented")
		}
		return nil, errors.Wrapf(errors.ErrUnresolvedParameterType, "unknown parameter type %s", docType)
	}
	return e.CLI, nil
}

// DescriptorParam renders the descriptor parameter for name. Help is
// escaped for attribute use; an empty default renders as 0. Unknown types
// render a visible placeholder and report resolved=false.
func DescriptorParam(docType, name, help, def string) (xml string, resolved bool) {
	e, ok := table[docType]
	if !ok {
		return `<error name="` + name + `" type="` + docType + `" />`, false
	}
	if def == "" {
		def = "0"
	}
	helpAttr := ""
	if help != "" {
		helpAttr = `help="` + html.EscapeString(help) + `"`
	}
	r := strings.NewReplacer("{name}", name, "{label}", Label(name), "{help}", helpAttr, "{default}", def)
	return r.Replace(e.Descriptor), docType != NoType
}

// Macro renders the descriptor command-line macro for name.
func Macro(docType, name string, optional bool) string {
	e, ok := table[docType]
	if !ok {
		e = table[NoType]
	}
	tmpl := e.Argument
	if optional {
		tmpl = e.Option
	}
	return strings.ReplaceAll(tmpl, "{name}", name)
}

// Label turns an identifier into a human label: history_id -> History Id.
func Label(name string) string {
	return cases.Title(language.Und, cases.NoLower).String(strings.ReplaceAll(name, "_", " "))
}
