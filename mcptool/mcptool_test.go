package mcptool

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teranos/autobuild/manifest"
	"github.com/teranos/autobuild/reconcile"
	"github.com/teranos/autobuild/render"
)

func method() *render.Method {
	return &render.Method{
		Module:  "histories",
		Name:    "show_history",
		Summary: "Get details of a given history.",
		Model: &reconcile.Model{Params: []reconcile.Param{
			{Name: "history_id", Type: "str", Description: "Encoded history ID", Kind: reconcile.Positional},
			{Name: "limit", Type: "int", Kind: reconcile.Keyword, Default: manifest.Int(10)},
			{Name: "deleted", Type: "bool", Kind: reconcile.Keyword, Default: manifest.Bool(true)},
			{Name: "keys", Type: "list", Kind: reconcile.Keyword, Default: manifest.EmptyList, Synthesized: true},
			{Name: "filters", Type: "dict", Kind: reconcile.Keyword, Default: manifest.None},
		}},
		Return: reconcile.ReturnSpec{Type: "dict", Description: "details of the history"},
	}
}

type schema struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	InputSchema struct {
		Type       string                            `json:"type"`
		Properties map[string]map[string]interface{} `json:"properties"`
		Required   []string                          `json:"required"`
	} `json:"inputSchema"`
}

func TestRender(t *testing.T) {
	m := method()
	target := NewTarget()
	layout, err := render.NewLayout("out", "parsec", "")
	require.NoError(t, err)
	assert.Equal(t, layout.MCPPath("histories", "show_history"), target.Path(layout, m))

	data, err := target.Render(nil, m)
	require.NoError(t, err)

	var got schema
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "histories_show_history", got.Name)
	assert.Equal(t, "Get details of a given history.\n\nReturns: details of the history", got.Description)
	assert.Equal(t, "object", got.InputSchema.Type)
	assert.Equal(t, []string{"history_id"}, got.InputSchema.Required)

	props := got.InputSchema.Properties
	assert.Equal(t, "string", props["history_id"]["type"])
	assert.Equal(t, "Encoded history ID", props["history_id"]["description"])
	assert.Equal(t, "number", props["limit"]["type"])
	assert.Equal(t, float64(10), props["limit"]["default"])
	assert.Equal(t, "boolean", props["deleted"]["type"])
	assert.Equal(t, true, props["deleted"]["default"])
	assert.Equal(t, "array", props["keys"]["type"])
	assert.Equal(t, "object", props["filters"]["type"])
}

func TestRenderIsDeterministic(t *testing.T) {
	a, err := NewTarget().Render(nil, method())
	require.NoError(t, err)
	b, err := NewTarget().Render(nil, method())
	require.NoError(t, err)
	assert.Equal(t, string(a), string(b))
}

func TestDescriptionWithoutReturnValue(t *testing.T) {
	m := method()
	m.Return = reconcile.ReturnSpec{Type: "None", Description: "nothing"}
	assert.Equal(t, "Get details of a given history.", description(m))
}
