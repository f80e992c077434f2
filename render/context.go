package render

import (
	"sort"
	"strings"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/reconcile"
	"github.com/teranos/autobuild/typemap"
)

// Method is everything known about one method once it is reconciled.
type Method struct {
	Module  string
	Class   string
	Name    string
	Summary string
	Model   *reconcile.Model
	Return  reconcile.ReturnSpec
}

// Options are the run-wide inputs to every context.
type Options struct {
	ProjectName   string
	WrappedPrefix string
}

// Context is the complete set of values templates may reference. Every
// field is always supplied, empty when not applicable.
type Context struct {
	ProjectName            string
	ModuleName             string
	ClassName              string
	FunctionName           string
	CommandName            string
	CLIArguments           string
	CLIOptions             string
	ArgsWithDefaults       string
	WrappedMethod          string
	WrappedMethodArgs      string
	KwargUpdates           string
	EmptyKwargs            string
	DescriptorArguments    string
	DescriptorOptions      string
	DescriptorCLIArguments string
	DescriptorCLIOptions   string
	DescriptorReformatJSON string
	DescriptorOutputFormat string
	OutputFormat           string
	OutputDocumentation    string
	ShortDocstring         string

	// Unresolved lists parameters rendered as descriptor placeholders.
	Unresolved []string
}

// Placeholders is the template schema: the keys of Context.Values.
var Placeholders = []string{
	"args_with_defaults",
	"class_name",
	"cli_arguments",
	"cli_options",
	"command_name",
	"descriptor_arguments",
	"descriptor_cli_arguments",
	"descriptor_cli_options",
	"descriptor_options",
	"descriptor_output_format",
	"descriptor_reformat_json",
	"empty_kwargs",
	"function_name",
	"kwarg_updates",
	"module_name",
	"output_documentation",
	"output_format",
	"project_name",
	"short_docstring",
	"wrapped_method",
	"wrapped_method_args",
}

// IsPlaceholder reports whether name is part of the template schema.
func IsPlaceholder(name string) bool {
	i := sort.SearchStrings(Placeholders, name)
	return i < len(Placeholders) && Placeholders[i] == name
}

// Values returns the context keyed by placeholder name.
func (c *Context) Values() map[string]string {
	return map[string]string{
		"args_with_defaults":       c.ArgsWithDefaults,
		"class_name":               c.ClassName,
		"cli_arguments":            c.CLIArguments,
		"cli_options":              c.CLIOptions,
		"command_name":             c.CommandName,
		"descriptor_arguments":     c.DescriptorArguments,
		"descriptor_cli_arguments": c.DescriptorCLIArguments,
		"descriptor_cli_options":   c.DescriptorCLIOptions,
		"descriptor_options":       c.DescriptorOptions,
		"descriptor_output_format": c.DescriptorOutputFormat,
		"descriptor_reformat_json": c.DescriptorReformatJSON,
		"empty_kwargs":             c.EmptyKwargs,
		"function_name":            c.FunctionName,
		"kwarg_updates":            c.KwargUpdates,
		"module_name":              c.ModuleName,
		"output_documentation":     c.OutputDocumentation,
		"output_format":            c.OutputFormat,
		"project_name":             c.ProjectName,
		"short_docstring":          c.ShortDocstring,
		"wrapped_method":           c.WrappedMethod,
		"wrapped_method_args":      c.WrappedMethodArgs,
	}
}

// NewContext accumulates the per-parameter fragments of every output
// format. A parameter without a CLI translation is an error; descriptor
// placeholders are recorded in Unresolved.
func NewContext(opts Options, m Method) (*Context, error) {
	c := &Context{
		ProjectName:            opts.ProjectName,
		ModuleName:             m.Module,
		ClassName:              m.Class,
		FunctionName:           m.Name,
		CommandName:            m.Name,
		ArgsWithDefaults:       m.Model.Signature(),
		WrappedMethodArgs:      m.Model.Invocation(),
		KwargUpdates:           m.Model.Adjustments(),
		EmptyKwargs:            m.Model.KwargsInit(),
		DescriptorReformatJSON: m.Return.ReformatJSON(),
		DescriptorOutputFormat: m.Return.DescriptorFormat(),
		OutputFormat:           m.Return.OutputFormat(),
		OutputDocumentation:    m.Return.Description,
		ShortDocstring:         m.Summary,
	}

	wrapped := []string{m.Module, m.Name}
	if opts.WrappedPrefix != "" {
		wrapped = append([]string{opts.WrappedPrefix}, wrapped...)
	}
	c.WrappedMethod = strings.Join(wrapped, ".")

	var cliArgs, cliOpts, descArgs, descOpts, macroArgs, macroOpts strings.Builder
	descArgs.WriteString("    <!-- arguments -->\n")
	descOpts.WriteString("    <!-- options -->\n")

	for _, p := range m.Model.Params {
		frag, err := typemap.CLIFragment(p.Type)
		if err != nil {
			return nil, errors.Wrapf(err, "parameter %s of %s.%s", p.Name, m.Module, m.Name)
		}

		def := ""
		if p.Kind == reconcile.Keyword && p.Default.Truthy() {
			def = p.Default.Text()
		}
		xml, resolved := typemap.DescriptorParam(p.Type, p.Name, p.Description, def)
		if !resolved {
			c.Unresolved = append(c.Unresolved, p.Name)
		}

		if p.Kind == reconcile.Positional {
			cliArgs.WriteString(cliArgument(p.Name, frag))
			descArgs.WriteString("\t" + xml + "\n")
			macroArgs.WriteString(typemap.Macro(p.Type, p.Name, false) + "\n")
		} else {
			cliOpts.WriteString(cliOption(p, frag))
			descOpts.WriteString("\t" + xml + "\n")
			macroOpts.WriteString(typemap.Macro(p.Type, p.Name, true) + "\n")
		}
	}

	c.CLIArguments = cliArgs.String()
	c.CLIOptions = cliOpts.String()
	c.DescriptorArguments = descArgs.String()
	c.DescriptorOptions = descOpts.String()
	c.DescriptorCLIArguments = macroArgs.String()
	c.DescriptorCLIOptions = macroOpts.String()
	return c, nil
}

func cliArgument(name string, frag []string) string {
	parts := append([]string{quote(name)}, frag...)
	return "@click.argument(" + strings.Join(parts, ", ") + ")\n"
}

func cliOption(p reconcile.Param, frag []string) string {
	lines := []string{
		quote("--" + p.Name),
		"help=" + quote(p.Description),
	}
	if p.Default.Truthy() {
		lines = append(lines, "default="+quote(p.Default.Text()), "show_default=True")
	}
	lines = append(lines, frag...)
	return "@click.option(\n    " + strings.Join(lines, ",\n    ") + "\n)\n"
}

var quoteEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

func quote(s string) string {
	return `"` + quoteEscaper.Replace(s) + `"`
}

// Group is one generated command group with its methods in command order.
type Group struct {
	Name    string
	Class   string
	Doc     string
	Methods []Method
}
