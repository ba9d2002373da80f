package parser

import (
	_ "embed"
	"log/slog"
	"strings"
)

const (
	openDelim     = "--- "
	closeDelim    = "---"
	commentMarker = ":"

	// FallbackSource is reported as the file of built-in snippets
	FallbackSource = "<builtin>"
)

//go:embed default_completions.txt
var fallbackCompletions []byte

// DefaultParser reads the native block format:
//
//	--- name
//	: comment
//	content line
//	---
//
// Text between blocks is ignored.
type DefaultParser struct {
	// Lenient closes a snippet left open at end of file instead of failing.
	//
	// Deprecated: older releases accepted unterminated trailing snippets.
	// Every block is expected to be closed.
	Lenient bool
}

// Parse reads path and parses it. A missing file is replaced by the built-in
// snippet collection so a fresh install has something to complete.
func (p DefaultParser) Parse(path string) ([]Snippet, error) {
	data, err := readSource(path)
	if err != nil {
		if IsNotExist(err) {
			slog.Warn("snippet file not found, using built-in snippets", "file", path)
			return p.ParseBytes(FallbackSource, fallbackCompletions)
		}
		return nil, err
	}
	return p.ParseBytes(path, data)
}

// Fallback returns the built-in snippet collection
func Fallback() []Snippet {
	snippets, err := DefaultParser{}.ParseBytes(FallbackSource, fallbackCompletions)
	if err != nil {
		panic("built-in snippets are malformed: " + err.Error())
	}
	return snippets
}

// snippetBuilder accumulates one block between its opening and closing lines
type snippetBuilder struct {
	name      string
	startLine int
	content   []string
	comments  []string
	lastBlank bool
}

// add records a line found inside the block
func (b *snippetBuilder) add(line, trimmed string) {
	if strings.HasPrefix(trimmed, commentMarker) {
		b.comments = append(b.comments, strings.TrimSpace(trimmed[len(commentMarker):]))
		return
	}

	blank := trimmed == ""
	// Leading blank lines are dropped, runs of blank lines collapse to one
	if !blank || (len(b.content) > 0 && !b.lastBlank) {
		b.content = append(b.content, line)
	}
	b.lastBlank = blank
}

func (b *snippetBuilder) build(path string) (Snippet, error) {
	text := strings.Join(b.content, "\n")
	if len(b.content) == 0 || text == "" {
		return Snippet{}, &ParseError{
			Name:   b.name,
			File:   path,
			Line:   b.startLine,
			Reason: ReasonEmptyContent,
		}
	}
	return Snippet{
		Name:     b.name,
		Content:  Classify(text),
		Comments: b.comments,
	}, nil
}

func (b *snippetBuilder) unterminated(path string) *ParseError {
	return &ParseError{
		Name:   b.name,
		File:   path,
		Line:   b.startLine,
		Reason: ReasonMissingClosingDelimiter,
	}
}

// ParseBytes parses data that was read from path. Any structural error aborts
// the whole parse.
func (p DefaultParser) ParseBytes(path string, data []byte) ([]Snippet, error) {
	var snippets []Snippet
	var current *snippetBuilder

	for i, line := range splitLines(string(data)) {
		lineNum := i + 1
		trimmed := strings.TrimSpace(line)

		switch {
		case strings.HasPrefix(trimmed, openDelim):
			if current != nil {
				return nil, current.unterminated(path)
			}
			current = &snippetBuilder{
				name:      strings.TrimPrefix(trimmed, openDelim),
				startLine: lineNum,
			}

		case trimmed == closeDelim:
			if current == nil {
				return nil, &ParseError{
					File:   path,
					Line:   lineNum,
					Reason: ReasonUnmatchedClosingDelimiter,
				}
			}
			snippet, err := current.build(path)
			if err != nil {
				return nil, err
			}
			snippets = append(snippets, snippet)
			current = nil

		case current != nil:
			current.add(line, trimmed)
		}
	}

	if current != nil {
		if !p.Lenient {
			return nil, current.unterminated(path)
		}
		snippet, err := current.build(path)
		if err != nil {
			return nil, err
		}
		snippets = append(snippets, snippet)
	}

	slog.Debug("parsed snippets", "file", path, "format", FormatDefault, "count", len(snippets))
	return snippets, nil
}

// splitLines splits s into physical lines, dropping "\r" line endings and the
// empty element after a final newline
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}
