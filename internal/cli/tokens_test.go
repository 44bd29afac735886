package cli

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dori/getitdone/internal/model"
)

func TestParseTokens(t *testing.T) {
	tok, err := ParseTokens([]string{"buy", "milk #errand", "%20", "!-2", "@26/10/20", "-#home", "#errand"}, testNow)
	require.NoError(t, err)

	assert.Equal(t, "buy milk", tok.Title())
	assert.Equal(t, []string{"#errand"}, tok.AddTags)
	assert.Equal(t, []string{"#home"}, tok.RemoveTags)
	assert.Equal(t, 20, tok.Item.Completion.Value())
	assert.Equal(t, -2, tok.Item.Priority.Value())

	d, ok := tok.Item.Deadline.Get()
	require.True(t, ok)
	assert.True(t, time.Date(2026, 10, 20, 0, 0, 0, 0, time.Local).Equal(d))
	assert.False(t, tok.Item.Title.IsModified(), "words are left to the command")
}

func TestParseTokensNegations(t *testing.T) {
	tok, err := ParseTokens([]string{"-%", "-!", "-@"}, testNow)
	require.NoError(t, err)

	want := []model.Field{
		{Column: model.ColDeadline, Value: nil},
		{Column: model.ColCompletion, Value: nil},
		{Column: model.ColPriority, Value: nil},
	}
	if diff := cmp.Diff(want, tok.Item.ModifiedFields()); diff != "" {
		t.Errorf("fields mismatch (-want +got):\n%s", diff)
	}
	assert.Empty(t, tok.Words)
}

func TestParseTokensErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"empty tag", []string{"#"}},
		{"empty removed tag", []string{"-#"}},
		{"completion not a number", []string{"%abc"}},
		{"priority not a number", []string{"!high"}},
		{"bad date", []string{"@someday"}},
		{"tag with comma", []string{"#a,b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseTokens(tt.args, testNow)
			assert.ErrorIs(t, err, model.ErrValidation)
		})
	}
}

func TestParseIDs(t *testing.T) {
	ids, err := parseIDs([]string{"3", "1 2"})
	require.NoError(t, err)
	assert.Equal(t, []int64{3, 1, 2}, ids)

	for _, bad := range []string{"x", "0", "-4"} {
		_, err := parseIDs([]string{bad})
		assert.ErrorIs(t, err, model.ErrValidation, "id %q", bad)
	}
}

func TestTemplateParams(t *testing.T) {
	got := templateParams([]string{"100", "#home", "-3"})
	assert.Equal(t, []any{int64(100), "#home", int64(-3)}, got)
}
