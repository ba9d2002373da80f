package parser

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestDefaultParserParsesBlocks(t *testing.T) {
	content := `
: This is a completion source file

--- apple
this is green
and nothing else
---

--- aple
this is green2
---

--- banana
this is yellow
---
--- else
this is other
---
`
	snippets, err := DefaultParser{}.ParseBytes("test.txt", []byte(content))
	require.NoError(t, err)

	assert.Equal(t, []Snippet{
		{Name: "apple", Content: Content{Kind: Static, Text: "this is green\nand nothing else"}},
		{Name: "aple", Content: Content{Kind: Static, Text: "this is green2"}},
		{Name: "banana", Content: Content{Kind: Static, Text: "this is yellow"}},
		{Name: "else", Content: Content{Kind: Static, Text: "this is other"}},
	}, snippets)
}

func TestDefaultParserTwoSnippets(t *testing.T) {
	snippets, err := DefaultParser{}.ParseBytes("f", []byte("--- apple\nA red fruit\n---\n--- banana\nA yellow fruit\n---"))
	require.NoError(t, err)
	require.Len(t, snippets, 2)
	assert.Equal(t, "apple", snippets[0].Name)
	assert.Equal(t, Content{Kind: Static, Text: "A red fruit"}, snippets[0].Content)
	assert.Equal(t, "banana", snippets[1].Name)
	assert.Equal(t, Content{Kind: Static, Text: "A yellow fruit"}, snippets[1].Content)
}

func TestDefaultParserIsIdempotent(t *testing.T) {
	path := writeFile(t, "snips.txt", "--- a\n: note\n  indented\n\n\nafter\n---\n--- b\n{{ x }}\n---\n")

	first, err := DefaultParser{}.Parse(path)
	require.NoError(t, err)
	second, err := DefaultParser{}.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestDefaultParserComments(t *testing.T) {
	content := `
: File level comment (ignored)
--- apple
: This is a comment about apples
:Another comment
this is green
and nothing else
---`
	snippets, err := DefaultParser{}.ParseBytes("f", []byte(content))
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, []string{"This is a comment about apples", "Another comment"}, snippets[0].Comments)
	assert.Equal(t, "this is green\nand nothing else", snippets[0].Content.Text)
}

func TestDefaultParserWhitespace(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		{
			name:     "indentation is preserved",
			content:  "--- a\n    indented\n\tand tabbed\n---",
			expected: "    indented\n\tand tabbed",
		},
		{
			name:     "leading blank lines are dropped",
			content:  "--- a\n\n   \nbody\n---",
			expected: "body",
		},
		{
			name:     "blank runs collapse to one",
			content:  "--- a\none\n\n\n\ntwo\n---",
			expected: "one\n\ntwo",
		},
		{
			name:     "comments do not break blank collapsing",
			content:  "--- a\none\n\n: note\n\ntwo\n---",
			expected: "one\n\ntwo",
		},
		{
			name:     "crlf line endings",
			content:  "--- a\r\nfirst\r\nsecond\r\n---\r\n",
			expected: "first\nsecond",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snippets, err := DefaultParser{}.ParseBytes("f", []byte(tt.content))
			require.NoError(t, err)
			require.Len(t, snippets, 1)
			assert.Equal(t, tt.expected, snippets[0].Content.Text)
		})
	}
}

func TestDefaultParserIgnoresTextOutsideBlocks(t *testing.T) {
	content := "\nrandom text\n--- apple\nline\n---\nrandom trailing text\n"
	snippets, err := DefaultParser{}.ParseBytes("f", []byte(content))
	require.NoError(t, err)
	assert.Equal(t, []Snippet{{Name: "apple", Content: Content{Kind: Static, Text: "line"}}}, snippets)
}

func TestDefaultParserClassifiesTemplates(t *testing.T) {
	snippets, err := DefaultParser{}.ParseBytes("f", []byte("--- date\n{{ current_date }}\n---"))
	require.NoError(t, err)
	require.Len(t, snippets, 1)
	assert.Equal(t, Template, snippets[0].Content.Kind)
}

func TestDefaultParserErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		reason  Reason
		line    int
		snippet string
	}{
		{
			name:    "empty content",
			content: "--- empty\n---",
			reason:  ReasonEmptyContent,
			line:    1,
			snippet: "empty",
		},
		{
			name:    "only comments",
			content: "--- quiet\n: nothing here\n---",
			reason:  ReasonEmptyContent,
			line:    1,
			snippet: "quiet",
		},
		{
			name:    "missing closing delimiter at end of file",
			content: "\n--- apple\nline1\nline2",
			reason:  ReasonMissingClosingDelimiter,
			line:    2,
			snippet: "apple",
		},
		{
			name:    "comment only block left open",
			content: "--- valid\ncontent\n---\n--- malformed\n: missing end delimiter\n",
			reason:  ReasonMissingClosingDelimiter,
			line:    4,
			snippet: "malformed",
		},
		{
			name:    "opening inside an open block",
			content: "--- valid\ncontent\n---\n--- malformed\n--- another-start\ncontent\n---\n",
			reason:  ReasonMissingClosingDelimiter,
			line:    4,
			snippet: "malformed",
		},
		{
			name:    "closing without opening",
			content: "--- valid\ncontent\n---\n---\ncontent\n---\n",
			reason:  ReasonUnmatchedClosingDelimiter,
			line:    4,
		},
		{
			name:    "bare closing delimiter",
			content: "---",
			reason:  ReasonUnmatchedClosingDelimiter,
			line:    1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			snippets, err := DefaultParser{}.ParseBytes("snips.txt", []byte(tt.content))
			assert.Nil(t, snippets)

			var perr *ParseError
			require.True(t, errors.As(err, &perr), "expected *ParseError, got %v", err)
			assert.Equal(t, tt.reason, perr.Reason)
			assert.Equal(t, tt.line, perr.Line)
			assert.Equal(t, tt.snippet, perr.Name)
			assert.Equal(t, "snips.txt", perr.File)
		})
	}
}

func TestDefaultParserErrorMessage(t *testing.T) {
	_, err := DefaultParser{}.ParseBytes("snips.txt", []byte("\n--- apple\nline1"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "missing closing delimiter")
	assert.Contains(t, err.Error(), "line 2")
	assert.Contains(t, err.Error(), "snips.txt")
}

func TestDefaultParserLenientEOF(t *testing.T) {
	snippets, err := DefaultParser{Lenient: true}.ParseBytes("f", []byte("--- a\nfirst\n---\n--- b\nsecond"))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, Names(snippets))
}

func TestDefaultParserEmptyFile(t *testing.T) {
	path := writeFile(t, "empty.txt", "")
	snippets, err := DefaultParser{}.Parse(path)
	require.NoError(t, err)
	assert.Empty(t, snippets)
}

func TestDefaultParserMissingFileFallsBack(t *testing.T) {
	snippets, err := DefaultParser{}.Parse(filepath.Join(t.TempDir(), "does_not_exist.txt"))
	require.NoError(t, err)
	assert.NotEmpty(t, snippets)
	assert.Equal(t, Fallback(), snippets)
}

func TestDefaultParserUnreadableFile(t *testing.T) {
	// A directory cannot be read as a file
	_, err := DefaultParser{}.Parse(t.TempDir())

	var ferr *FileError
	require.True(t, errors.As(err, &ferr), "expected *FileError, got %v", err)
}
