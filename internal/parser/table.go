package parser

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"

	"github.com/BurntSushi/toml"
)

// placeholderRe matches "${N:label}" and "$N" tab stops
var placeholderRe = regexp.MustCompile(`\$\{(\d+):([^}]+)\}|\$(\d+)`)

// paramPrefix names unlabeled tab stops: "$2" becomes "{{ param2 }}"
const paramPrefix = "param"

type tableFile struct {
	Snippets []tableSnippet `toml:"snippets"`
}

type tableSnippet struct {
	Prefix      *string  `toml:"prefix"`
	Scope       []string `toml:"scope"`
	Body        body     `toml:"body"`
	Description *string  `toml:"description"`
}

// TableParser reads simple-completion-language-server TOML files:
//
//	[[snippets]]
//	prefix = "log"
//	scope = ["go"]
//	body = "log.Printf(\"${1:format}\", $2)"
//	description = "printf logging"
//
// Tab stops are rewritten into template variables.
type TableParser struct{}

// Parse reads and parses path
func (p TableParser) Parse(path string) ([]Snippet, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(path, data)
}

// ParseBytes parses data that was read from path
func (TableParser) ParseBytes(path string, data []byte) ([]Snippet, error) {
	var file tableFile
	if err := toml.Unmarshal(data, &file); err != nil {
		return nil, malformed(path, err)
	}

	snippets := make([]Snippet, 0, len(file.Snippets))
	for i, rec := range file.Snippets {
		switch {
		case rec.Prefix == nil:
			return nil, malformed(path, fmt.Errorf("snippet %d: missing prefix", i+1))
		case !rec.Body.set:
			return nil, malformed(path, fmt.Errorf("snippet %d: missing body", i+1))
		}

		text := rec.Body.joined()
		if !rec.Body.list {
			text = strings.ReplaceAll(text, `\n`, "\n")
		}

		var comments []string
		if rec.Description != nil {
			comments = append(comments, *rec.Description)
		}
		if len(rec.Scope) > 0 {
			comments = append(comments, "Scope: "+strings.Join(rec.Scope, ", "))
		}

		snippets = append(snippets, Snippet{
			Name:     *rec.Prefix,
			Content:  Classify(ConvertPlaceholders(text)),
			Comments: comments,
		})
	}

	slog.Debug("parsed snippets", "file", path, "format", FormatTable, "count", len(snippets))
	return snippets, nil
}

// ConvertPlaceholders rewrites tab stops into template variables: a labeled
// "${1:name}" becomes "{{ name }}" and a bare "$1" becomes "{{ param1 }}"
func ConvertPlaceholders(s string) string {
	return placeholderRe.ReplaceAllStringFunc(s, func(m string) string {
		groups := placeholderRe.FindStringSubmatch(m)
		switch {
		case groups[2] != "":
			return fmt.Sprintf("{{ %s }}", groups[2])
		case groups[3] != "":
			return fmt.Sprintf("{{ %s%s }}", paramPrefix, groups[3])
		default:
			return fmt.Sprintf("{{ %s%s }}", paramPrefix, groups[1])
		}
	})
}
