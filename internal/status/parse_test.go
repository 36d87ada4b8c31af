package status

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLineRecognizedCodes(t *testing.T) {
	tests := []struct {
		code string
		kind ChangeKind
	}{
		{" D", Deleted},
		{" M", Modified},
		{"??", NotTracked},
		{" A", Added},
		{"MM", ModifiedInBothStages},
		{"AM", AddedThenModified},
	}

	for _, tt := range tests {
		t.Run(tt.kind.String(), func(t *testing.T) {
			for _, path := range []string{"a", "src/main.go", "dir with space/file name.txt", " leading"} {
				change, err := ParseLine(tt.code + " " + path)
				require.NoError(t, err)
				assert.Equal(t, tt.kind, change.Kind())
				assert.Equal(t, path, change.Path())
			}
		})
	}
}

func TestParseLineScenarios(t *testing.T) {
	change, err := ParseLine("?? src/awesome.rs")
	require.NoError(t, err)
	assert.Equal(t, NotTracked, change.Kind())
	assert.Equal(t, "src/awesome.rs", change.Path())

	change, err = ParseLine(" D LICENSE")
	require.NoError(t, err)
	assert.Equal(t, Deleted, change.Kind())
	assert.Equal(t, "LICENSE", change.Path())
}

func TestParseLineStripsCarriageReturn(t *testing.T) {
	change, err := ParseLine(" M README.md\r")
	require.NoError(t, err)
	assert.Equal(t, "README.md", change.Path())
}

func TestParseLineRejectsUnknownCodes(t *testing.T) {
	for _, code := range []string{"M ", "A ", "D ", "R ", "C ", "UU", "!!", "DD", "AA", " R", "MD", "XY", "  ", "?M"} {
		t.Run(code, func(t *testing.T) {
			_, err := ParseLine(code + " file.txt")
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrMalformedStatusLine)

			var lineErr *LineError
			require.ErrorAs(t, err, &lineErr)
			assert.Contains(t, lineErr.Reason, "unknown code")
			assert.Zero(t, lineErr.Line)
		})
	}
}

func TestParseLineRejectsShortOrMisshapen(t *testing.T) {
	tests := []struct {
		name   string
		line   string
		reason string
	}{
		{name: "empty", line: "", reason: "empty line"},
		{name: "code only", line: "??", reason: "shorter than"},
		{name: "code and space", line: "?? ", reason: "shorter than"},
		{name: "one byte", line: "M", reason: "shorter than"},
		{name: "no separator", line: "??file", reason: "missing space"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseLine(tt.line)
			require.ErrorIs(t, err, ErrMalformedStatusLine)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestRoundTrip(t *testing.T) {
	for _, kind := range Kinds() {
		change, err := NewFileChange(kind, "some/path")
		require.NoError(t, err)

		parsed, err := ParseLine(change.String())
		require.NoError(t, err)
		assert.Equal(t, kind, parsed.Kind())
		assert.Equal(t, change, parsed)
	}
}

func TestParseEmptyInput(t *testing.T) {
	changes, err := Parse("")
	require.NoError(t, err)
	assert.NotNil(t, changes)
	assert.Empty(t, changes)
}

func TestParsePreservesOrder(t *testing.T) {
	input := " D lorem\n A ipsum\n M dolor\n?? sit\n?? amet\nAM consecteur\nMM adipiscing\n"

	changes, err := Parse(input)
	require.NoError(t, err)
	require.Len(t, changes, 7)

	want := []struct {
		kind ChangeKind
		path string
	}{
		{Deleted, "lorem"},
		{Added, "ipsum"},
		{Modified, "dolor"},
		{NotTracked, "sit"},
		{NotTracked, "amet"},
		{AddedThenModified, "consecteur"},
		{ModifiedInBothStages, "adipiscing"},
	}
	for i, w := range want {
		assert.Equal(t, w.kind, changes[i].Kind(), "line %d", i+1)
		assert.Equal(t, w.path, changes[i].Path(), "line %d", i+1)
	}
}

func TestParseWithoutTrailingNewline(t *testing.T) {
	changes, err := Parse(" M a\n M b")
	require.NoError(t, err)
	assert.Len(t, changes, 2)
}

func TestParseCRLF(t *testing.T) {
	changes, err := Parse(" M a\r\n?? b\r\n")
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "a", changes[0].Path())
	assert.Equal(t, "b", changes[1].Path())
}

func TestParseFailsWholeBatch(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{name: "unknown code", input: " M a\nR  b -> c\n?? d\n", line: 2},
		{name: "empty line in middle", input: " M a\n\n?? d\n", line: 2},
		{name: "lone newline", input: "\n", line: 1},
		{name: "trailing blank line", input: " M a\n\n", line: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			changes, err := Parse(tt.input)
			assert.Nil(t, changes)
			require.ErrorIs(t, err, ErrMalformedStatusLine)

			var lineErr *LineError
			require.True(t, errors.As(err, &lineErr))
			assert.Equal(t, tt.line, lineErr.Line)
		})
	}
}

func TestParseLenientSkipsBadLines(t *testing.T) {
	input := " M a\nM  staged.go\n\nR  old -> new\n?? d\n"

	changes, skipped, err := ParseLenient(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, changes, 2)
	assert.Equal(t, "a", changes[0].Path())
	assert.Equal(t, "d", changes[1].Path())

	require.Len(t, skipped, 2)
	assert.Equal(t, 2, skipped[0].Line)
	assert.Equal(t, "M  staged.go", skipped[0].Text)
	assert.Equal(t, 4, skipped[1].Line)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("boom") }

func TestParseReaderPropagatesReadErrors(t *testing.T) {
	_, err := ParseReader(failingReader{})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrMalformedStatusLine)
	assert.Contains(t, err.Error(), "boom")

	_, _, err = ParseLenient(failingReader{})
	require.Error(t, err)
}

func TestParseRejectsOverlongLine(t *testing.T) {
	input := " M ok.go\n?? " + strings.Repeat("x", maxLineLength) + "\n"

	changes, err := Parse(input)
	require.Error(t, err)
	assert.Nil(t, changes)
	assert.ErrorIs(t, err, ErrMalformedStatusLine)

	var lineErr *LineError
	require.ErrorAs(t, err, &lineErr)
	assert.Equal(t, 2, lineErr.Line)
	assert.Contains(t, lineErr.Reason, "line too long")

	_, _, err = ParseLenient(strings.NewReader(input))
	assert.ErrorIs(t, err, ErrMalformedStatusLine)
}

func TestLineErrorMessage(t *testing.T) {
	err := &LineError{Line: 3, Text: "XY foo", Reason: `unknown code "XY"`}
	assert.Equal(t, `malformed status line 3 "XY foo": unknown code "XY"`, err.Error())

	err = &LineError{Text: "XY foo", Reason: "bad"}
	assert.Equal(t, `malformed status line "XY foo": bad`, err.Error())
}
