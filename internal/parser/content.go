package parser

import "strings"

// Kind tags snippet content as plain text or as a template
type Kind int

const (
	Static   Kind = iota // Used verbatim
	Template             // Needs the template engine before use
)

// String returns the lowercase name of the kind
func (k Kind) String() string {
	if k == Template {
		return "template"
	}
	return "static"
}

// Content is the text of a snippet together with its classification
type Content struct {
	Kind Kind
	Text string
}

// Classify tags raw text as Template when it contains both "{{" and "}}",
// Static otherwise. Template syntax is not validated here; a static text that
// happens to contain both markers is still treated as a template.
func Classify(raw string) Content {
	if strings.Contains(raw, "{{") && strings.Contains(raw, "}}") {
		return Content{Kind: Template, Text: raw}
	}
	return Content{Kind: Static, Text: raw}
}

// IsTemplate reports whether the content must be rendered
func (c Content) IsTemplate() bool {
	return c.Kind == Template
}

func (c Content) String() string {
	return c.Text
}
