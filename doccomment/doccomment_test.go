package doccomment

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/teranos/autobuild/errors"
)

const showHistory = `
        Get details of a given history.

        :type history_id: str
        :param history_id: Encoded history ID to filter on

        :type contents: bool
        :param contents: When ` + "``True``" + `, instead of the history details,
          return a list with info for all datasets in the given history.

        :type types: list
        :param types: Dataset types to include

        :rtype: dict
        :return: details of the given history. For example::

            {'id': 'f3c2b0f3ecac9f02', 'name': 'Unnamed history'}
        `

func TestParseParameters(t *testing.T) {
	d, err := Parse(showHistory)
	require.NoError(t, err)

	assert.Equal(t, []string{"contents", "history_id", "types"}, d.Names())

	e, ok := d.Param("history_id")
	require.True(t, ok)
	assert.Equal(t, "str", e.Type)
	assert.Equal(t, "Encoded history ID to filter on", e.Description)

	e, _ = d.Param("contents")
	assert.Equal(t, "bool", e.Type)
	assert.Equal(t, "When ``True``, instead of the history details, return a list with info for all datasets in the given history.", e.Description)

	assert.Equal(t, "Get details of a given history.", d.Summary)
	assert.False(t, d.Deprecated)
}

func TestParseReturnTypeFirst(t *testing.T) {
	d, err := Parse(showHistory)
	require.NoError(t, err)
	require.NotNil(t, d.Return)

	assert.Equal(t, "dict", d.Return.Type)
	assert.Contains(t, d.Return.Description, "details of the given history. For example::")
	assert.Contains(t, d.Return.Description, "'Unnamed history'}", "worked example is kept")
}

func TestParseReturnDescriptionFirst(t *testing.T) {
	doc := `
    Delete a history.

    :returns: Nothing of interest
      really.
    :rtype: None
    `
	d, err := Parse(doc)
	require.NoError(t, err)
	require.NotNil(t, d.Return)
	assert.Equal(t, "None", d.Return.Type)
	assert.Equal(t, "Nothing of interest\n      really.", d.Return.Description)
}

func TestParseBothOrdersAgree(t *testing.T) {
	first, err := Parse(":rtype: list\n:returns: all jobs")
	require.NoError(t, err)
	second, err := Parse(":returns: all jobs\n:rtype: list")
	require.NoError(t, err)

	require.NotNil(t, first.Return)
	require.NotNil(t, second.Return)
	assert.Equal(t, first.Return.Type, second.Return.Type)
	assert.Equal(t, first.Return.Description, second.Return.Description)
}

func TestParseReturnTypeFollowedByProse(t *testing.T) {
	tests := []struct {
		name string
		doc  string
		typ  string
	}{
		{"trailing field", ":returns: the job :rtype: dict :raises: ConnectionError", "dict"},
		{"trailing prose", ":returns: the job\n:rtype: dict\nsee also show_job", "dict see also show_job"},
		{"last rtype wins", ":returns: a :rtype: list :rtype: dict", "dict"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.doc)
			require.NoError(t, err)
			require.NotNil(t, d.Return)
			assert.Equal(t, tt.typ, d.Return.Type)
		})
	}
}

func TestParseLastReturnClauseWins(t *testing.T) {
	d, err := Parse(":rtype: list\n:returns: the jobs\n\n:rtype: dict\n:returns: the job")
	require.NoError(t, err)
	require.NotNil(t, d.Return)
	assert.Equal(t, "dict", d.Return.Type)
}

func TestParseCorruption(t *testing.T) {
	_, err := Parse(":type a: str :param b: desc")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDocumentationCorruption))
}

func TestParseIgnoresMalformedBlocks(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"param without type", ":param name: the name"},
		{"type without param", ":type name: str"},
		{"empty description", ":type name: str :param name:"},
		{"type containing colon", ":type m: dict of str:int :param m: mapping"},
		{"rtype alone", ":rtype: dict"},
		{"returns alone", ":returns: something"},
		{"prose with colons", "Note: this is: prose"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, err := Parse(tt.doc)
			require.NoError(t, err)
			assert.Empty(t, d.Params)
			assert.Nil(t, d.Return)
		})
	}
}

func TestParseDeprecated(t *testing.T) {
	d, err := Parse("Old call.\n\n.. deprecated:: 0.9\n   Use show_dataset instead.")
	require.NoError(t, err)
	assert.True(t, d.Deprecated)
	assert.Nil(t, d.Return)
}

func TestSummary(t *testing.T) {
	tests := []struct {
		doc  string
		want string
	}{
		{"", UndocumentedSummary},
		{"   \n  ", UndocumentedSummary},
		{":type a: str\n:param a: x", UndocumentedSummary},
		{"One line.", "One line."},
		{"\n    Spans\n    two lines.\n\n    More.", "Spans two lines."},
	}
	for _, tt := range tests {
		d, err := Parse(tt.doc)
		require.NoError(t, err)
		assert.Equal(t, tt.want, d.Summary, "doc %q", tt.doc)
	}
}

func TestParseFrontMatter(t *testing.T) {
	doc := `---
params:
  history_id: {type: str, description: Encoded history ID}
  purge: {type: bool, description: Purge it}
returns: {type: dict, description: Deleted history}
---
Delete a history.

:type purge: int
:param purge: overridden by front matter
`
	d, err := Parse(doc)
	require.NoError(t, err)

	assert.Equal(t, Entry{Type: "bool", Description: "Purge it"}, d.Params["purge"])
	assert.Equal(t, Entry{Type: "str", Description: "Encoded history ID"}, d.Params["history_id"])
	require.NotNil(t, d.Return)
	assert.Equal(t, "dict", d.Return.Type)
	assert.Equal(t, "Delete a history.", d.Summary)
}

func TestParseFrontMatterInvalid(t *testing.T) {
	_, err := Parse("---\nparams: [unclosed\n---\nbody")
	require.Error(t, err)
	assert.True(t, errors.Is(err, errors.ErrDocumentationCorruption))
}

func TestLex(t *testing.T) {
	toks := lex(":type a: str :param a: the a value")
	require.Len(t, toks, 4)
	assert.Equal(t, tokType, toks[0].kind)
	assert.Equal(t, "a", toks[0].arg)
	assert.Equal(t, tokText, toks[1].kind)
	assert.Equal(t, " str ", toks[1].arg)
	assert.Equal(t, tokParam, toks[2].kind)
	assert.Equal(t, " the a value", toks[3].arg)
}
