package manifest

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/autobuild/errors"
	"gopkg.in/yaml.v3"
)

const sample = `
schema_version: "1.2"
entry_point:
  module: bioblend.galaxy
  factory: GalaxyInstance
  class: GalaxyInstance
root:
  name: GalaxyInstance
  attributes:
    - {name: jobs, namespace: bioblend.galaxy.jobs, type: JobsClient}
    - {name: histories, namespace: bioblend.galaxy.histories, type: HistoryClient}
namespaces:
  bioblend.galaxy.histories:
    symbols: [Client, ConnectionError]
    classes:
      HistoryClient:
        doc: Manage histories.
        methods:
          - name: show_history
            args: [self, history_id, contents, deleted, visible, details, types]
            defaults: [false, null, null, null, []]
          - name: get_histories
            args: [self, history_id, name, deleted]
            defaults: [null, null, false]
`

func TestParse(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.Equal(t, []string{"histories", "jobs"}, m.AttributeNames())

	ns, ok := m.Namespace("bioblend.galaxy.histories")
	require.True(t, ok)
	assert.Equal(t, []string{"Client", "ConnectionError", "HistoryClient"}, ns.SymbolNames())

	class := ns.Classes["HistoryClient"]
	assert.Equal(t, []string{"get_histories", "show_history"}, class.MethodNames())

	show, ok := class.Method("show_history")
	require.True(t, ok)
	require.Len(t, show.Defaults, 5)
	assert.Equal(t, Bool(false), show.Defaults[0])
	assert.True(t, show.Defaults[1].IsNone())
	assert.True(t, show.Defaults[4].IsEmptyList())
}

func TestValueDecoding(t *testing.T) {
	tests := []struct {
		name    string
		yaml    string
		kind    ValueKind
		literal string
		text    string
		truthy  bool
	}{
		{"null", "null", KindNone, "None", "None", false},
		{"tilde", "~", KindNone, "None", "None", false},
		{"empty string", `""`, KindString, `""`, "", false},
		{"string", "hello", KindString, `"hello"`, "hello", true},
		{"quoted number", `"10"`, KindString, `"10"`, "10", true},
		{"int", "10", KindInt, "10", "10", true},
		{"zero", "0", KindInt, "0", "0", false},
		{"float", "1.5", KindFloat, "1.5", "1.5", true},
		{"whole float", "2.0", KindFloat, "2.0", "2.0", true},
		{"true", "true", KindBool, "True", "True", true},
		{"false", "false", KindBool, "False", "False", false},
		{"empty list", "[]", KindList, "[]", "[]", false},
		{"list", "[a, 1]", KindList, `["a", 1]`, `["a", 1]`, true},
		{"dict", "{k: v}", KindDict, `{"k": "v"}`, `{"k": "v"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v Value
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &v))
			assert.Equal(t, tt.kind, v.Kind)
			assert.Equal(t, tt.literal, v.Literal())
			assert.Equal(t, tt.text, v.Text())
			assert.Equal(t, tt.truthy, v.Truthy())
		})
	}
}

func TestValueMarshalRoundTrip(t *testing.T) {
	in := Defaults{None, String("x"), Int(3), Bool(true), List(String("a"), None)}
	out, err := yaml.Marshal(in)
	require.NoError(t, err)

	var back Defaults
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, in, back)
}

func TestDefaultsKeepNull(t *testing.T) {
	tests := []struct {
		name string
		yaml string
		want Defaults
	}{
		{"leading null", "[null, x, 3, true]", Defaults{None, String("x"), Int(3), Bool(true)}},
		{"only nulls", "[null, ~]", Defaults{None, None}},
		{"trailing null", "[false, null]", Defaults{Bool(false), None}},
		{"empty", "[]", Defaults{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Defaults
			require.NoError(t, yaml.Unmarshal([]byte(tt.yaml), &d))
			assert.Equal(t, tt.want, d)
		})
	}

	t.Run("not a sequence", func(t *testing.T) {
		var m Method
		err := yaml.Unmarshal([]byte("{name: m, defaults: 3}"), &m)
		assert.True(t, errors.Is(err, errors.ErrInvalidManifest))
	})
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"missing schema", "root: {name: X}\n"},
		{"bad schema", "schema_version: banana\n"},
		{"future schema", "schema_version: \"2.1\"\n"},
		{"duplicate attribute", "schema_version: \"1.0\"\nroot:\n  attributes: [{name: a}, {name: a}]\n"},
		{"too many defaults", `schema_version: "1.0"
namespaces:
  ns:
    classes:
      C:
        methods: [{name: m, args: [self], defaults: [1, 2]}]
`},
		{"duplicate method", `schema_version: "1.0"
namespaces:
  ns:
    classes:
      C:
        methods: [{name: m}, {name: m}]
`},
		{"unknown field", "schema_version: \"1.0\"\nrooot: {}\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.doc))
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.ErrInvalidManifest), "got %v", err)
		})
	}
}

func TestCheckEntryPoint(t *testing.T) {
	m, err := Parse([]byte(sample))
	require.NoError(t, err)

	assert.NoError(t, m.CheckEntryPoint("bioblend.galaxy", "GalaxyInstance", ""))
	assert.NoError(t, m.CheckEntryPoint("", "", ""))

	err = m.CheckEntryPoint("bioblend.toolshed", "", "")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrInvalidManifest))
}

func TestLoadLocal(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "library.yml")
	require.NoError(t, os.WriteFile(path, []byte(sample), 0644))

	local, ok := LocalPath(path)
	require.True(t, ok)
	assert.Equal(t, path, local)

	m, err := Load(context.Background(), path)
	require.NoError(t, err)
	assert.Equal(t, "GalaxyInstance", m.Root.Name)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(context.Background(), filepath.Join(t.TempDir(), "absent.yml"))
	assert.Error(t, err)
}
