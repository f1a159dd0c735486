package tui

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cliengoerrors "github.com/mrz1836/cliengo/internal/errors"
)

func TestNewOutput_Format(t *testing.T) {
	var buf bytes.Buffer
	_, isJSON := NewOutput(&buf, FormatJSON).(*JSONOutput)
	assert.True(t, isJSON)
	_, isTTY := NewOutput(&buf, FormatText).(*TTYOutput)
	assert.True(t, isTTY)
	_, isTTY = NewOutput(&buf, "").(*TTYOutput)
	assert.True(t, isTTY)
}

func TestTTYOutput_Messages(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Success("saved")
	out.Warning("careful")
	out.Info("hello")
	out.Error(cliengoerrors.ErrClientNotFound)

	got := buf.String()
	assert.Contains(t, got, "✓ saved")
	assert.Contains(t, got, "⚠ careful")
	assert.Contains(t, got, "hello")
	assert.Contains(t, got, "✗ client not found")
	assert.NotContains(t, got, "Try:")
}

func TestTTYOutput_ErrorWithSuggestion(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	err := NewActionableError("not signed in", "cliengo login --email you@example.com").
		Wrap(cliengoerrors.ErrNotSignedIn)
	out.Error(err)

	require.ErrorIs(t, err, cliengoerrors.ErrNotSignedIn)
	assert.Contains(t, buf.String(), "▸ Try: cliengo login --email you@example.com")
}

func TestTTYOutput_TableAlignsWideRunes(t *testing.T) {
	t.Setenv("NO_COLOR", "1")

	var buf bytes.Buffer
	out := NewTTYOutput(&buf)
	out.Table([]string{"NAME", "TASK"}, [][]string{
		{"José", "Logo"},
		{"日本", "Site"},
		{"Al", "Copy"},
	})

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	require.Len(t, lines, 4)
	// Second column starts at the same display cell on every line.
	for _, line := range lines {
		idx := strings.LastIndex(line, "  ")
		require.Positive(t, idx, line)
		assert.Equal(t, 6, CellWidth(line[:idx+2]), line)
	}
}

func TestTTYOutput_TableEmptyHeaders(t *testing.T) {
	var buf bytes.Buffer
	NewTTYOutput(&buf).Table(nil, [][]string{{"x"}})
	assert.Empty(t, buf.String())
}

func TestJSONOutput_Messages(t *testing.T) {
	var buf bytes.Buffer
	out := NewJSONOutput(&buf)
	out.Success("saved")
	out.Error(NewActionableError("boom", "retry"))

	dec := json.NewDecoder(&buf)
	var first, second map[string]string
	require.NoError(t, dec.Decode(&first))
	require.NoError(t, dec.Decode(&second))

	assert.Equal(t, map[string]string{"type": "success", "message": "saved"}, first)
	assert.Equal(t, "error", second["type"])
	assert.Equal(t, "boom", second["message"])
	assert.Equal(t, "retry", second["suggestion"])
}

func TestJSONOutput_Table(t *testing.T) {
	var buf bytes.Buffer
	NewJSONOutput(&buf).Table([]string{"a", "b"}, [][]string{{"1"}, {"2", "3"}})

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	assert.Equal(t, []map[string]string{{"a": "1", "b": ""}, {"a": "2", "b": "3"}}, rows)
}

func TestCellWidthAndPadding(t *testing.T) {
	tests := []struct {
		in    string
		width int
	}{
		{"", 0},
		{"abc", 3},
		{"日本", 4},
		{"\x1b[31mred\x1b[0m", 3},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.width, CellWidth(tc.in), tc.in)
	}

	assert.Equal(t, "ab  ", PadRight("ab", 4))
	assert.Equal(t, "abcdef", PadRight("abcdef", 4))
	assert.Equal(t, "abc…", Truncate("abcdefgh", 4))
	assert.Equal(t, "abc", Truncate("abc", 4))
}
