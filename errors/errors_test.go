package errors

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewf(t *testing.T) {
	err := Newf("error: %s %d", "test", 42)
	require.NotNil(t, err)
	assert.Equal(t, "error: test 42", err.Error())
}

func TestWrapKeepsKind(t *testing.T) {
	wrapped := Wrapf(ErrUnresolvableModule, "module %s", "histories")

	assert.Contains(t, wrapped.Error(), "module histories")
	assert.Contains(t, wrapped.Error(), "unresolvable module")
	assert.True(t, Is(wrapped, ErrUnresolvableModule))
	assert.Equal(t, ErrUnresolvableModule, Kind(wrapped))
}

func TestWithHint(t *testing.T) {
	err := WithHint(Wrap(ErrMissingTemplate, "binding"), "set templates.dir")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "set templates.dir", hints[0])
	assert.True(t, Is(err, ErrMissingTemplate))
}

func TestIsFatal(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		strict bool
		want   bool
	}{
		{"nil", nil, true, false},
		{"missing return strict", Wrap(ErrMissingReturnDocumentation, "x"), true, true},
		{"missing return lenient", Wrap(ErrMissingReturnDocumentation, "x"), false, false},
		{"corruption lenient", Wrap(ErrDocumentationCorruption, "x"), false, true},
		{"unresolved type lenient", Wrap(ErrUnresolvedParameterType, "x"), false, true},
		{"unclassified", New("boom"), false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsFatal(tt.err, tt.strict))
		})
	}
}

func TestKindUnclassified(t *testing.T) {
	assert.Nil(t, Kind(New("boom")))
}
