package parser

// Snippet is a named text fragment loaded from a source file
type Snippet struct {
	Name     string   // Lookup key, unique by convention only
	Content  Content  // Static text or template source
	Comments []string // Display-only annotations (description, scope)
}

// Names returns the snippet names in collection order
func Names(snippets []Snippet) []string {
	names := make([]string, len(snippets))
	for i, s := range snippets {
		names[i] = s.Name
	}
	return names
}
