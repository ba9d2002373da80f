package parser

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/marcozac/go-jsonc"
	"github.com/tidwall/gjson"
)

// ObjectParser reads VS Code snippet files, a JSON object (comments allowed)
// mapping a title to {prefix, body, description}. The title is discarded and
// tab stops are kept as written. Snippets come back in declaration order.
type ObjectParser struct{}

// Parse reads and parses path
func (p ObjectParser) Parse(path string) ([]Snippet, error) {
	data, err := readSource(path)
	if err != nil {
		return nil, err
	}
	return p.ParseBytes(path, data)
}

// ParseBytes parses data that was read from path
func (ObjectParser) ParseBytes(path string, data []byte) ([]Snippet, error) {
	// Decoding into a RawMessage validates the document and yields it with
	// comments stripped
	var raw json.RawMessage
	if err := jsonc.Unmarshal(data, &raw); err != nil {
		return nil, malformed(path, err)
	}

	root := gjson.ParseBytes(raw)
	if !root.IsObject() {
		return nil, malformed(path, errors.New("top-level value must be an object"))
	}

	var snippets []Snippet
	var recErr error
	root.ForEach(func(key, rec gjson.Result) bool {
		snippet, err := objectSnippet(rec)
		if err != nil {
			recErr = fmt.Errorf("snippet %q: %w", key.String(), err)
			return false
		}
		snippets = append(snippets, snippet)
		return true
	})
	if recErr != nil {
		return nil, malformed(path, recErr)
	}

	slog.Debug("parsed snippets", "file", path, "format", FormatObject, "count", len(snippets))
	return snippets, nil
}

func objectSnippet(rec gjson.Result) (Snippet, error) {
	if !rec.IsObject() {
		return Snippet{}, errors.New("expected an object")
	}

	prefix := rec.Get("prefix")
	if prefix.Type != gjson.String {
		return Snippet{}, errors.New("prefix must be a string")
	}

	text, err := objectBody(rec.Get("body"))
	if err != nil {
		return Snippet{}, err
	}

	var comments []string
	if desc := rec.Get("description"); desc.Type == gjson.String {
		comments = append(comments, desc.String())
	}

	return Snippet{
		Name:     prefix.String(),
		Content:  Classify(text),
		Comments: comments,
	}, nil
}

func objectBody(v gjson.Result) (string, error) {
	switch {
	case !v.Exists():
		return "", errors.New("missing body")
	case v.Type == gjson.String:
		return v.String(), nil
	case v.IsArray():
		items := v.Array()
		lines := make([]string, 0, len(items))
		for i, item := range items {
			if item.Type != gjson.String {
				return "", fmt.Errorf("body line %d: expected string", i+1)
			}
			lines = append(lines, item.String())
		}
		return strings.Join(lines, "\n"), nil
	default:
		return "", errors.New("body must be a string or an array of strings")
	}
}
