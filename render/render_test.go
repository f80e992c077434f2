package render

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/reconcile"
)

func sampleMethod() Method {
	return Method{
		Module:  "histories",
		Class:   "HistoryClient",
		Name:    "show_history",
		Summary: "Get details of a given history.",
		Model: &reconcile.Model{
			Params: []reconcile.Param{
				{Name: "history_id", Type: "str", Description: "Encoded history ID", Documented: true, Kind: reconcile.Positional},
				{Name: "contents", Type: "bool", Description: "Return contents", Documented: true, Kind: reconcile.Keyword, Default: manifest.Bool(false)},
				{Name: "limit", Type: "int", Description: `Max "items"`, Documented: true, Kind: reconcile.Keyword, Default: manifest.Int(10)},
			},
		},
		Return: reconcile.ReturnSpec{Type: "dict", Description: "details of the history"},
	}
}

func TestNewLayout(t *testing.T) {
	_, err := NewLayout("", "parsec", "")
	assert.True(t, errors.Is(err, errors.ErrMissingOutputPath))

	_, err = NewLayout("out", "", "")
	assert.True(t, errors.Is(err, errors.ErrMissingOutputPath))

	l, err := NewLayout("out", "parsec.tools", "g_")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("out", "parsec", "tools", "commands"), l.CommandsDir())
	assert.Equal(t, filepath.Join("out", "parsec", "tools", "commands", "g_histories", "show_history.py"), l.BindingPath("histories", "show_history"))
	assert.Equal(t, filepath.Join("out", "parsec", "tools", "commands", "cmd_g_histories.py"), l.AggregatorPath("histories"))
	assert.Equal(t, filepath.Join("out", "parsec", "tools", "commands", "g_histories", "__init__.py"), l.MarkerPath("histories"))
	assert.Equal(t, filepath.Join("out", "galaxy", "histories_show_history.xml"), l.DescriptorPath("histories", "show_history"))
	assert.Equal(t, filepath.Join("out", "mcp", "histories_show_history.json"), l.MCPPath("histories", "show_history"))
	assert.Equal(t, "parsec.tools.commands.g_histories.show_history", l.ImportPath("histories", "show_history.py"))
}

func TestSanitize(t *testing.T) {
	tests := map[string]string{
		"histories":  "histories",
		"tool-shed":  "tool_shed",
		"a.b/c":      "a_b_c",
		"../escape":  "___escape",
		"with space": "with_space",
	}
	for in, want := range tests {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestNewContext(t *testing.T) {
	m := sampleMethod()
	c, err := NewContext(Options{ProjectName: "parsec", WrappedPrefix: "ctx.gi"}, m)
	require.NoError(t, err)

	assert.Equal(t, "ctx.gi.histories.show_history", c.WrappedMethod)
	assert.Equal(t, "ctx, history_id, contents=False, limit=10", c.ArgsWithDefaults)
	assert.Equal(t, "history_id, contents=contents, limit=limit", c.WrappedMethodArgs)
	assert.Equal(t, "@click.argument(\"history_id\", type=str)\n", c.CLIArguments)

	// falsy defaults are not shown
	assert.Contains(t, c.CLIOptions, "@click.option(\n    \"--contents\",\n    help=\"Return contents\",\n    is_flag=True\n)\n")
	assert.Contains(t, c.CLIOptions, "    help=\"Max \\\"items\\\"\",\n    default=\"10\",\n    show_default=True,\n    type=int\n)\n")

	assert.True(t, strings.HasPrefix(c.DescriptorArguments, "    <!-- arguments -->\n\t<param name=\"history_id\""))
	assert.True(t, strings.HasPrefix(c.DescriptorOptions, "    <!-- options -->\n"))
	assert.Contains(t, c.DescriptorOptions, `value="10"`)
	assert.Contains(t, c.DescriptorOptions, `help="Max &#34;items&#34;"`)
	assert.Equal(t, "'$history_id'\n", c.DescriptorCLIArguments)
	assert.Contains(t, c.DescriptorCLIOptions, "#if $limit:\n  --limit '$limit'\n#end if\n")

	assert.Equal(t, "dict", c.OutputFormat)
	assert.Equal(t, "| jq -S .", c.DescriptorReformatJSON)
	assert.Equal(t, "json", c.DescriptorOutputFormat)
	assert.Empty(t, c.Unresolved)
	assert.Empty(t, c.EmptyKwargs)
}

func TestNewContextUnresolvedTypes(t *testing.T) {
	m := sampleMethod()
	m.Model.Params = append(m.Model.Params, reconcile.Param{Name: "blob", Type: "bytes", Kind: reconcile.Keyword, Default: manifest.None})

	_, err := NewContext(Options{ProjectName: "parsec"}, m)
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrUnresolvedParameterType))
	assert.Contains(t, err.Error(), "blob")
}

func TestNewContextDescriptorPlaceholder(t *testing.T) {
	m := sampleMethod()
	m.Model.Params = append(m.Model.Params, reconcile.Param{Name: "nothing", Type: "None", Kind: reconcile.Keyword, Default: manifest.None})

	c, err := NewContext(Options{ProjectName: "parsec"}, m)
	require.NoError(t, err)
	assert.Equal(t, []string{"nothing"}, c.Unresolved)
	assert.Contains(t, c.DescriptorOptions, "\t<error />\n")
	assert.Contains(t, c.DescriptorCLIOptions, "## UNKNOWN nothing")
}

func TestContextValuesMatchPlaceholders(t *testing.T) {
	c := &Context{}
	values := c.Values()
	assert.Len(t, values, len(Placeholders))
	for _, name := range Placeholders {
		_, ok := values[name]
		assert.True(t, ok, name)
	}
}

func TestParseRejectsUnknownPlaceholders(t *testing.T) {
	_, err := Parse("ok", "{{.project_name}} {{if .cli_options}}{{.cli_options}}{{end}}")
	require.NoError(t, err)

	tests := map[string]string{
		"field":    "{{.project}}",
		"if":       "{{if .nope}}x{{end}}",
		"range":    "{{range .items}}{{end}}",
		"variable": "{{$.missing}}",
		"else":     "{{if .cli_options}}{{else}}{{.other}}{{end}}",
	}
	for name, src := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Parse(name, src)
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrTemplatePlaceholder))
		})
	}

	_, err = Parse("broken", "{{.project_name")
	assert.True(t, errors.Is(err, errors.ErrTemplatePlaceholder))
}

func TestStore(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "binding.tmpl"), []byte("custom {{.command_name}}\n"), 0644))

	s := NewStore(dir)
	tmpl, err := s.Template(BindingTemplate)
	require.NoError(t, err)
	out, err := Execute(tmpl, &Context{CommandName: "show"})
	require.NoError(t, err)
	assert.Equal(t, "custom show\n", string(out))

	// falls back to the built-in descriptor
	_, err = s.Template(DescriptorTemplate)
	require.NoError(t, err)

	_, err = s.Template("nope")
	assert.True(t, errors.Is(err, errors.ErrMissingTemplate))
}

func TestBuiltinTemplates(t *testing.T) {
	m := sampleMethod()
	c, err := NewContext(Options{ProjectName: "parsec", WrappedPrefix: "ctx.gi"}, m)
	require.NoError(t, err)
	s := NewStore("")

	binding, err := BindingTarget(s).Render(c, &m)
	require.NoError(t, err)
	text := string(binding)
	assert.True(t, strings.HasPrefix(text, "# "+GeneratedMarker))
	assert.Contains(t, text, "@click.command('show_history')\n@click.argument(\"history_id\", type=str)\n@click.option(")
	assert.Contains(t, text, ")\n@pass_context\n@custom_exception\n@dict_output\ndef cli(ctx, history_id, contents=False, limit=10):\n")
	assert.Contains(t, text, "    \"\"\"Get details of a given history.\n\nOutput:\n\n    details of the history\n    \"\"\"\n")
	assert.Contains(t, text, "    return ctx.gi.histories.show_history(history_id, contents=contents, limit=limit)\n")

	descriptor, err := DescriptorTarget(s).Render(c, &m)
	require.NoError(t, err)
	text = string(descriptor)
	assert.Contains(t, text, `<tool id="histories_show_history" name="histories show_history"`)
	assert.Contains(t, text, GeneratedMarker)
	assert.Contains(t, text, "parsec histories show_history\n'$history_id'\n")
	assert.Contains(t, text, `<data format="json" name="results"/>`)
}

func TestBuiltinBindingWithSynthesizedParams(t *testing.T) {
	m := sampleMethod()
	m.Model.Params = append(m.Model.Params, reconcile.Param{
		Name: "keys", Type: "list", Documented: true, Kind: reconcile.Keyword, Default: manifest.EmptyList, Synthesized: true,
	})
	m.Model.HadSynthesized = true

	c, err := NewContext(Options{ProjectName: "parsec", WrappedPrefix: "ctx.gi"}, m)
	require.NoError(t, err)
	out, err := BindingTarget(NewStore("")).Render(c, &m)
	require.NoError(t, err)

	assert.Contains(t, string(out), "    \"\"\"\n    kwargs = {}\n\n    if keys and len(keys) > 0:\n        kwargs['keys'] = keys\n    return ctx.gi.histories.show_history(history_id, contents=contents, limit=limit, **kwargs)\n")
}
