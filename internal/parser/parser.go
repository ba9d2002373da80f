package parser

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
)

// Format identifies the on-disk layout of a snippet source
type Format int

const (
	FormatDefault Format = iota // "--- name" ... "---" blocks
	FormatTable                 // TOML [[snippets]] tables (simple-completion-language-server)
	FormatObject                // VS Code JSON snippet object
)

// String returns the configuration tag of the format
func (f Format) String() string {
	switch f {
	case FormatTable:
		return "scls"
	case FormatObject:
		return "vcode"
	default:
		return "default"
	}
}

// ParseFormat maps a configuration tag to a Format. An empty tag selects the
// default format.
func ParseFormat(tag string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(tag)) {
	case "", "default":
		return FormatDefault, nil
	case "scls", "table", "toml":
		return FormatTable, nil
	case "vcode", "vscode", "object", "json":
		return FormatObject, nil
	default:
		return FormatDefault, fmt.Errorf("unknown snippet format %q (supported: default, scls, vcode)", tag)
	}
}

// Parser turns a source file into an ordered list of snippets
type Parser interface {
	Parse(path string) ([]Snippet, error)
}

var (
	defaultParser = DefaultParser{}
	tableParser   = TableParser{}
	objectParser  = ObjectParser{}
)

// New returns the parser for the given format. Parsers are stateless and
// safe to share.
func New(format Format) Parser {
	switch format {
	case FormatTable:
		return tableParser
	case FormatObject:
		return objectParser
	default:
		return defaultParser
	}
}

// ParseFile parses path with the parser registered for format
func ParseFile(path string, format Format) ([]Snippet, error) {
	return New(format).Parse(path)
}

// readSource reads a whole source file, mapping failures to FileError
func readSource(path string) ([]byte, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &FileError{File: path, Err: err}
	}
	return data, nil
}

// IsNotExist reports whether err was caused by a missing source file
func IsNotExist(err error) bool {
	return errors.Is(err, fs.ErrNotExist)
}
