package docgen

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/autobuild/errors"
	"github.com/teranos/autobuild/harness"
	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/reconcile"
	"github.com/teranos/autobuild/render"
)

const raw = "Get details of a given history.\n\nOutput:\n\n    details of the history\n    "

const help = `Usage: parsec histories show_history [OPTIONS] HISTORY_ID

  Get details of a given history.

  Output:

      details of the history

Options:
  --contents  Include contents
  --help      Show this message and exit.
`

func TestSplitDoc(t *testing.T) {
	helpText, output := SplitDoc(raw)
	assert.Equal(t, "Get details of a given history.\n\n", helpText)
	assert.Equal(t, "    details of the history\n    ", output)

	helpText, output = SplitDoc("    Just help.\n    ")
	assert.Equal(t, "Just help.\n", helpText)
	assert.Empty(t, output)
}

func TestDedent(t *testing.T) {
	assert.Equal(t, "a\nb\n  c\n  d", Dedent("    a\nb\n      c\n  d", 4))
	assert.Equal(t, "x\n   y", Dedent("     x\n   y", 5))
}

func TestCommandSection(t *testing.T) {
	got := CommandSection("show_history", raw, help)
	want := "\n``show_history`` command\n" +
		"------------------------\n\n" +
		"**Usage**::\n\n    parsec histories show_history [OPTIONS] HISTORY_ID\n" +
		"\n**Help**\n\n" +
		"Get details of a given history.\n\n\n" +
		"**Output**\n\n\n" +
		"    details of the history\n    \n" +
		"**Options**::\n\n\n" +
		"      --contents  Include contents\n" +
		"      --help      Show this message and exit.\n" +
		"    \n"
	assert.Equal(t, want, got)
}

func TestIndexAndGroupHeaders(t *testing.T) {
	assert.Equal(t, "========\nCommands\n========\n\nIntro.\n\n.. toctree::\n   :maxdepth: 0\n", IndexHeader("Intro."))
	assert.Equal(t, "histories\n=========\n\nThis section is auto-generated from the help text for the parsec command\n``histories``.\n\n", GroupHeader("parsec", "histories"))
}

func TestParseHelpArgs(t *testing.T) {
	args, err := ParseHelpArgs(`--help --format "plain text"`)
	require.NoError(t, err)
	assert.Equal(t, []string{"--help", "--format", "plain text"}, args)

	args, err = ParseHelpArgs("")
	require.NoError(t, err)
	assert.Equal(t, []string{"--help"}, args)

	_, err = ParseHelpArgs(`--help "unterminated`)
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
}

func TestResetHooks(t *testing.T) {
	hook, err := LookupResetHook("")
	require.NoError(t, err)
	assert.Nil(t, hook)

	hook, err = LookupResetHook("config")
	require.NoError(t, err)
	require.NoError(t, hook(context.Background()))

	_, err = LookupResetHook("missing")
	assert.True(t, errors.Is(err, errors.ErrInvalidConfig))
	assert.Contains(t, ResetHookNames(), "config")
}

func sampleTree() *harness.Tree {
	return harness.New("parsec", []render.Group{
		{
			Name: "histories",
			Doc:  "Manage histories.",
			Methods: []render.Method{
				{
					Module:  "histories",
					Name:    "show_history",
					Summary: "Get details of a given history.",
					Model: &reconcile.Model{Params: []reconcile.Param{
						{Name: "history_id", Type: "str", Kind: reconcile.Positional},
						{Name: "contents", Type: "bool", Description: "Include contents", Kind: reconcile.Keyword, Default: manifest.Bool(false)},
					}},
					Return: reconcile.ReturnSpec{Type: "dict", Description: "details of the history"},
				},
				{
					Module:  "histories",
					Name:    "get_histories",
					Summary: "List histories.",
					Model:   &reconcile.Model{},
					Return:  reconcile.ReturnSpec{Type: "list", Description: "a list"},
				},
			},
		},
		{Name: "init", Doc: "Set up."},
	})
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	resets := 0
	g := New(sampleTree(), render.NewFileSink(), Options{
		Project:       "parsec",
		Documentation: "Reference for every command.",
		Dir:           dir,
		Skip:          []string{"init"},
		Reset: func(context.Context) error {
			resets++
			return nil
		},
	})

	res, err := g.Generate(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, resets)
	assert.Equal(t, []string{filepath.Join(dir, "commands", "histories.rst")}, res.Pages)

	index, err := os.ReadFile(res.Index)
	require.NoError(t, err)
	assert.Equal(t, IndexHeader("Reference for every command.")+"\n   commands/histories.rst\n", string(index))

	page, err := os.ReadFile(res.Pages[0])
	require.NoError(t, err)
	text := string(page)
	assert.Contains(t, text, "histories\n=========\n")
	assert.Contains(t, text, "\n``get_histories`` command\n-------------------------\n")
	assert.Contains(t, text, "**Usage**::\n\n    parsec histories show_history [OPTIONS] HISTORY_ID\n")
	assert.Contains(t, text, "\n**Output**\n\n\n    details of the history\n")
	assert.Contains(t, text, "      --contents  Include contents\n")
	assert.Less(t, strings.Index(text, "``get_histories``"), strings.Index(text, "``show_history``"))
}

func TestGenerateResetFailure(t *testing.T) {
	g := New(sampleTree(), render.NewCheckSink(), Options{
		Project: "parsec",
		Dir:     t.TempDir(),
		Reset: func(context.Context) error {
			return errors.New("boom")
		},
	})
	_, err := g.Generate(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestGenerateDocumentsCuratedCommands(t *testing.T) {
	root := t.TempDir()
	layout, err := render.NewLayout(root, "parsec", "")
	require.NoError(t, err)
	files := map[string]string{
		"cmd_histories.py": `# ` + render.GeneratedMarker + `
import click
from parsec.commands.histories.helpers import cli as helpers


@click.group()
def cli():
    """Manage histories."""
    pass


cli.add_command(helpers)
`,
		"histories/helpers.py": `import click


@click.command('helpers')
@click.option("--pattern", help="Glob to match")
def cli(pattern):
    """List helper files.

    Output:

         matching file names
    """
`,
		"cmd_init.py": "import click\n\n\n@click.command()\ndef cli():\n    \"\"\"Set up the tool.\"\"\"\n",
	}
	for name, src := range files {
		path := filepath.Join(layout.CommandsDir(), filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
		require.NoError(t, os.WriteFile(path, []byte(src), 0644))
	}

	tree, err := harness.Discover(layout, render.NewFileSink(), nil)
	require.NoError(t, err)

	dir := t.TempDir()
	res, err := New(tree, render.NewFileSink(), Options{
		Project: "parsec",
		Dir:     dir,
		Skip:    []string{"init"},
	}).Generate(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{filepath.Join(dir, "commands", "histories.rst")}, res.Pages)

	page, err := os.ReadFile(res.Pages[0])
	require.NoError(t, err)
	text := string(page)
	assert.Contains(t, text, "\n``helpers`` command\n-------------------\n")
	assert.Contains(t, text, "**Usage**::\n\n    parsec histories helpers [OPTIONS]\n")
	assert.Contains(t, text, "List helper files.")
	assert.Contains(t, text, "      --pattern TEXT  Glob to match\n")
	assert.NoFileExists(t, filepath.Join(dir, "commands", "init.rst"))
}
