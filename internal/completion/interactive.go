package completion

import (
	"strings"

	"github.com/gubarz/snip/internal/parser"
)

// Entry is one line offered to a Selector
type Entry struct {
	Display string // Name, optionally followed by a tab and extra columns
	Preview string
}

// Selector lets a user pick one entry. ok is false when the user aborted.
type Selector interface {
	Select(entries []Entry, query string) (choice string, ok bool, err error)
}

// Entries builds selector entries in snippet order. The display text is the
// name and the first content line separated by a tab.
func Entries(items []parser.Snippet) []Entry {
	entries := make([]Entry, len(items))
	for i, s := range items {
		first, _, _ := strings.Cut(s.Content.Text, "\n")
		entries[i] = Entry{Display: s.Name + "\t" + first, Preview: Preview(s)}
	}
	return entries
}

// Preview renders the Name, Comments and Content sections shown next to a
// selector entry
func Preview(s parser.Snippet) string {
	var b strings.Builder
	b.WriteString("Name:\n  ")
	b.WriteString(s.Name)
	b.WriteString("\n")
	if len(s.Comments) > 0 {
		b.WriteString("\nComments:\n")
		for _, c := range s.Comments {
			b.WriteString("  ")
			b.WriteString(c)
			b.WriteString("\n")
		}
	}
	b.WriteString("\nContent:\n")
	b.WriteString(s.Content.Text)
	return b.String()
}

// Interactive resolves input without prompting when it names a snippet
// exactly or fuzzy matches exactly one; otherwise the selector decides.
// The selector's choice is cut at the first tab and matched by name.
func Interactive(items []parser.Snippet, input string, sel Selector) (parser.Snippet, bool, error) {
	query := strings.TrimSpace(input)
	if query != "" {
		if s, ok := Exact(items, query); ok {
			return s, true, nil
		}
		if ranked := Rank(items, query); len(ranked) == 1 {
			return ranked[0], true, nil
		}
	}

	choice, ok, err := sel.Select(Entries(items), query)
	if err != nil || !ok {
		return parser.Snippet{}, false, err
	}

	name, _, _ := strings.Cut(choice, "\t")
	s, found := Exact(items, name)
	return s, found, nil
}
