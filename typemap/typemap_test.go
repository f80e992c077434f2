package typemap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/autobuild/errors"
)

func TestCLIFragment(t *testing.T) {
	tests := []struct {
		docType string
		want    []string
	}{
		{"str", []string{"type=str"}},
		{"dict", []string{"type=str"}},
		{"int", []string{"type=int"}},
		{"float", []string{"type=float"}},
		{"bool", []string{"is_flag=True"}},
		{"list", []string{"type=str", "multiple=True"}},
		{"list of str", []string{"type=str", "multiple=True"}},
		{"file", []string{"type=click.File('rb+')"}},
		{"None", nil},
	}

	for _, tt := range tests {
		t.Run(tt.docType, func(t *testing.T) {
			got, err := CLIFragment(tt.docType)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCLIFragmentUnknown(t *testing.T) {
	for _, docType := range []string{"", "list of dicts", "String"} {
		_, err := CLIFragment(docType)
		require.Error(t, err, docType)
		assert.True(t, errors.Is(err, errors.ErrUnresolvedParameterType))
	}
}

func TestDescriptorParam(t *testing.T) {
	tests := []struct {
		name     string
		docType  string
		param    string
		help     string
		def      string
		want     string
		resolved bool
	}{
		{
			name:    "text with help",
			docType: "str", param: "history_id", help: "Encoded history ID",
			want:     `<param name="history_id" label="History Id" argument="history_id" type="text" help="Encoded history ID" />`,
			resolved: true,
		},
		{
			name:    "integer default",
			docType: "int", param: "limit", def: "500",
			want:     `<param name="limit" label="Limit" argument="limit" type="integer" value="500"  />`,
			resolved: true,
		},
		{
			name:    "integer without default",
			docType: "int", param: "offset",
			want:     `<param name="offset" label="Offset" argument="offset" type="integer" value="0"  />`,
			resolved: true,
		},
		{
			name:    "boolean",
			docType: "bool", param: "purge", help: `Say "yes"`,
			want:     `<param name="purge" label="Purge" argument="purge" type="boolean" truevalue="--purge" falsevalue="" help="Say &#34;yes&#34;" />`,
			resolved: true,
		},
		{
			name:    "list repeats",
			docType: "list", param: "tags",
			want:     "<repeat name=\"repeat_tags\" title=\"tags\">\n\t\t<param name=\"tags\" label=\"Tags\" argument=\"tags\" type=\"text\"  />\n\t</repeat>",
			resolved: true,
		},
		{
			name:    "explicit no type",
			docType: "None", param: "x",
			want:     "<error />",
			resolved: false,
		},
		{
			name:    "unknown type",
			docType: "list of dicts", param: "steps",
			want:     `<error name="steps" type="list of dicts" />`,
			resolved: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, resolved := DescriptorParam(tt.docType, tt.param, tt.help, tt.def)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.resolved, resolved)
		})
	}
}

func TestMacro(t *testing.T) {
	tests := []struct {
		docType  string
		optional bool
		want     string
	}{
		{"str", true, "#if $name:\n  --name '$name'\n#end if"},
		{"str", false, "'$name'"},
		{"bool", true, "#if $name:\n  $name\n#end if"},
		{"bool", false, "--$name"},
		{"list", true, "#for $rep in $repeat_name:\n  --name '$rep.name'\n#end for"},
		{"None", false, "## UNKNOWN name"},
		{"mystery", true, "## UNKNOWN name"},
	}

	for _, tt := range tests {
		t.Run(tt.docType, func(t *testing.T) {
			assert.Equal(t, tt.want, Macro(tt.docType, "name", tt.optional))
		})
	}
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "History Id", Label("history_id"))
	assert.Equal(t, "Name", Label("name"))
	assert.Equal(t, "Get Most Recently Used History", Label("get_most_recently_used_history"))
}

func TestTypesAreAllTranslatable(t *testing.T) {
	for _, ty := range Types() {
		_, ok := Lookup(ty)
		assert.True(t, ok, ty)
	}
	assert.True(t, IsList("list of str"))
	assert.False(t, IsList("str"))
	assert.False(t, IsList("unknown"))
}
