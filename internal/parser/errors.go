package parser

import (
	"fmt"
	"strings"
)

// Reason describes why a source file was rejected
type Reason string

const (
	ReasonEmptyContent              Reason = "empty content"
	ReasonMissingClosingDelimiter   Reason = "missing closing delimiter (---)"
	ReasonUnmatchedClosingDelimiter Reason = "found closing delimiter without opening snippet"
	ReasonMalformedStructuredData   Reason = "malformed structured data"
)

// ParseError reports a structural problem in a source file. Line is 1-based
// for the default format and 0 for the structured formats, which carry no
// line information.
type ParseError struct {
	Name   string
	File   string
	Line   int
	Reason Reason
	Err    error
}

func (e *ParseError) Error() string {
	var b strings.Builder
	b.WriteString("invalid snippet format")
	if e.Name != "" {
		fmt.Fprintf(&b, " for %q", e.Name)
	}
	fmt.Fprintf(&b, " in %s", e.File)
	if e.Line > 0 {
		fmt.Fprintf(&b, ", line %d", e.Line)
	}
	b.WriteString(": ")
	b.WriteString(string(e.Reason))
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// FileError wraps an I/O failure on a source file
type FileError struct {
	File string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("failed to read snippet file %s: %v", e.File, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

func malformed(path string, err error) *ParseError {
	return &ParseError{File: path, Reason: ReasonMalformedStructuredData, Err: err}
}
