package parser

import "strings"

// FindStartLine returns the 1-based line on which the block for name opens,
// so an editor can jump to it
func FindStartLine(content, name string) (int, bool) {
	want := openDelim + name
	for i, line := range splitLines(content) {
		if strings.TrimSpace(line) == want {
			return i + 1, true
		}
	}
	return 0, false
}
