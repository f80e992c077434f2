package harness

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/reconcile"
	"github.com/teranos/autobuild/render"
)

func groups() []render.Group {
	return []render.Group{
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
						{Name: "limit", Type: "int", Description: "Max items", Kind: reconcile.Keyword, Default: manifest.Int(10)},
						{Name: "keys", Type: "list", Description: "Only these keys", Kind: reconcile.Keyword, Default: manifest.EmptyList, Synthesized: true},
					}},
					Return: reconcile.ReturnSpec{Type: "dict", Description: "details of the history"},
				},
				{
					Module:  "histories",
					Name:    "get_histories",
					Summary: "List histories.",
					Model:   &reconcile.Model{},
					Return:  reconcile.ReturnSpec{Type: "list", Description: "histories"},
				},
			},
		},
		{Name: "init", Doc: "Set up the tool."},
	}
}

func TestTreeStructure(t *testing.T) {
	tree := New("parsec", groups())
	assert.Equal(t, []string{"histories", "init"}, tree.Groups())

	subs, err := tree.Subcommands("histories")
	require.NoError(t, err)
	assert.Equal(t, []string{"get_histories", "show_history"}, subs)

	_, err = tree.Subcommands("nope")
	assert.Error(t, err)

	doc, err := tree.RawDoc("histories", "show_history")
	require.NoError(t, err)
	assert.Equal(t, "Get details of a given history.\n\nOutput:\n\n    details of the history\n    ", doc)
}

func TestHelp(t *testing.T) {
	tree := New("parsec", groups())
	out, err := tree.Help(context.Background(), []string{"histories", "show_history", "--help"})
	require.NoError(t, err)

	assert.Contains(t, out, "Usage: parsec histories show_history [OPTIONS] HISTORY_ID\n\n  Get details of a given history.\n\n  Output:\n\n      details of the history\n\nOptions:\n")
	assert.Contains(t, out, "  --contents       Include contents\n")
	assert.Contains(t, out, "  --limit INTEGER  Max items  [default: 10]\n")
	assert.Contains(t, out, "  --keys TEXT      Only these keys\n")
	assert.Contains(t, out, "  --help           Show this message and exit.\n")
}

func TestHelpForGroup(t *testing.T) {
	tree := New("parsec", groups())
	out, err := tree.Help(context.Background(), []string{"histories", "--help"})
	require.NoError(t, err)
	assert.Contains(t, out, "Usage: parsec histories [OPTIONS] COMMAND [ARGS]...\n")
	assert.Contains(t, out, "Commands:\n")
	assert.Contains(t, out, "show_history")
}

func TestCleanDoc(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"single line", "  Summary.  ", "Summary."},
		{"indented body", "Summary.\n\n    Body line\n      nested\n    ", "Summary.\n\nBody line\n  nested"},
		{"leading blank", "\n    Summary.\n    More.\n", "Summary.\nMore."},
		{"trailing spaces", "Summary.   \n    Body.  \n    ", "Summary.\nBody."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CleanDoc(tt.in))
		})
	}
}
