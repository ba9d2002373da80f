// Package completion resolves user input to a snippet by exact name, fuzzy
// score or an interactive picker.
package completion

import (
	"sort"
	"strings"

	"github.com/gubarz/snip/internal/parser"
	"github.com/lithammer/fuzzysearch/fuzzy"
)

// Exact returns the first snippet whose name equals the trimmed input
func Exact(items []parser.Snippet, input string) (parser.Snippet, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return parser.Snippet{}, false
	}
	for _, s := range items {
		if s.Name == input {
			return s, true
		}
	}
	return parser.Snippet{}, false
}

// Score rates how well name matches input. Names that do not contain the
// input as a case-insensitive subsequence report false. The edit distance
// only grows with the length of name, so the characters skipped between the
// first and last matched rune are added as a gap penalty.
func Score(input, name string) (int, bool) {
	distance := fuzzy.RankMatchFold(input, name)
	if distance < 0 {
		return 0, false
	}
	return -(distance + gaps(input, name)), true
}

// gaps counts the runes of name skipped inside a leftmost subsequence match
// of input
func gaps(input, name string) int {
	want := []rune(strings.ToLower(input))
	if len(want) == 0 {
		return 0
	}

	matched, skipped, pending := 0, 0, 0
	for _, r := range strings.ToLower(name) {
		if r == want[matched] {
			if matched > 0 {
				skipped += pending
			}
			pending = 0
			matched++
			if matched == len(want) {
				return skipped
			}
			continue
		}
		pending++
	}
	return 0
}

// Fuzzy returns the best scoring snippet; the first one wins a tie
func Fuzzy(items []parser.Snippet, input string) (parser.Snippet, bool) {
	input = strings.TrimSpace(input)
	if input == "" {
		return parser.Snippet{}, false
	}

	var best parser.Snippet
	bestScore, found := 0, false
	for _, s := range items {
		score, ok := Score(input, s.Name)
		if !ok {
			continue
		}
		if !found || score > bestScore {
			best, bestScore, found = s, score, true
		}
	}
	return best, found
}

// Rank returns every fuzzy match ordered best first, keeping source order
// among equal scores. Empty input matches everything in source order.
func Rank(items []parser.Snippet, input string) []parser.Snippet {
	input = strings.TrimSpace(input)
	if input == "" {
		return append([]parser.Snippet(nil), items...)
	}

	type scored struct {
		snippet parser.Snippet
		score   int
	}

	var matches []scored
	for _, s := range items {
		if score, ok := Score(input, s.Name); ok {
			matches = append(matches, scored{s, score})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].score > matches[j].score
	})

	ranked := make([]parser.Snippet, len(matches))
	for i, m := range matches {
		ranked[i] = m.snippet
	}
	return ranked
}
