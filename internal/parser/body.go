package parser

import (
	"fmt"
	"strings"
)

// body is a snippet body given either as one string or as a list of lines
type body struct {
	text  string
	lines []string
	list  bool
	set   bool
}

// UnmarshalTOML implements toml.Unmarshaler
func (b *body) UnmarshalTOML(v any) error {
	switch val := v.(type) {
	case string:
		b.text = val
	case []any:
		b.list = true
		b.lines = make([]string, 0, len(val))
		for i, item := range val {
			s, ok := item.(string)
			if !ok {
				return fmt.Errorf("body line %d: expected string, got %T", i+1, item)
			}
			b.lines = append(b.lines, s)
		}
	default:
		return fmt.Errorf("body: expected string or array of strings, got %T", v)
	}
	b.set = true
	return nil
}

// joined returns the body as a single string, list bodies joined with "\n"
func (b body) joined() string {
	if b.list {
		return strings.Join(b.lines, "\n")
	}
	return b.text
}
