// Package service ties snippet types, parsing, completion and rendering
// together for the command line.
package service

import (
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/gubarz/snip/internal/completion"
	"github.com/gubarz/snip/internal/config"
	"github.com/gubarz/snip/internal/executor"
	"github.com/gubarz/snip/internal/parser"
)

// ErrNotFound is returned when no snippet matches the input
var ErrNotFound = errors.New("no matching snippet")

// Renderer turns snippet content into final text
type Renderer interface {
	Render(parser.Content) (string, error)
}

// Service answers completion requests. Every call re-reads its sources.
type Service struct {
	types     *config.Registry
	renderer  Renderer
	clipboard executor.Clipboard
	selector  completion.Selector
}

// New creates a service over the given type registry
func New(types *config.Registry, renderer Renderer, clipboard executor.Clipboard, selector completion.Selector) *Service {
	return &Service{
		types:     types,
		renderer:  renderer,
		clipboard: clipboard,
		selector:  selector,
	}
}

// Types returns the type registry
func (s *Service) Types() *config.Registry {
	return s.types
}

// Snippets parses every source of a type in order and concatenates the
// results. Name collisions across sources are kept.
func (s *Service) Snippets(typeName string) ([]parser.Snippet, error) {
	res, err := s.types.Resolve(typeName)
	if err != nil {
		return nil, err
	}

	var all []parser.Snippet
	for _, src := range res.Sources {
		snippets, err := parser.ParseFile(src.SourceFile, src.Format)
		if err != nil {
			return nil, err
		}
		slog.Debug("loaded source", "type", src.Name, "file", src.SourceFile, "count", len(snippets))
		all = append(all, snippets...)
	}
	return all, nil
}

// FindExact returns the snippet named input
func (s *Service) FindExact(typeName, input string) (parser.Snippet, error) {
	return s.find(typeName, input, completion.Exact)
}

// FindFuzzy returns the best fuzzy match for input
func (s *Service) FindFuzzy(typeName, input string) (parser.Snippet, error) {
	return s.find(typeName, input, completion.Fuzzy)
}

// Find resolves input exactly or by fuzzy score
func (s *Service) Find(typeName, input string, fuzzy bool) (parser.Snippet, error) {
	if fuzzy {
		return s.FindFuzzy(typeName, input)
	}
	return s.FindExact(typeName, input)
}

func (s *Service) find(typeName, input string, match func([]parser.Snippet, string) (parser.Snippet, bool)) (parser.Snippet, error) {
	snippets, err := s.Snippets(typeName)
	if err != nil {
		return parser.Snippet{}, err
	}
	snippet, ok := match(snippets, input)
	if !ok {
		return parser.Snippet{}, fmt.Errorf("%w: %q", ErrNotFound, input)
	}
	return snippet, nil
}

// FindInteractive resolves input, asking the selector when it is ambiguous
func (s *Service) FindInteractive(typeName, input string) (parser.Snippet, error) {
	if s.selector == nil {
		return parser.Snippet{}, errors.New("interactive selection is not available")
	}
	snippets, err := s.Snippets(typeName)
	if err != nil {
		return parser.Snippet{}, err
	}
	snippet, ok, err := completion.Interactive(snippets, input, s.selector)
	if err != nil {
		return parser.Snippet{}, err
	}
	if !ok {
		return parser.Snippet{}, fmt.Errorf("%w: %q", ErrNotFound, input)
	}
	return snippet, nil
}

// Rank returns every fuzzy match for input, best first
func (s *Service) Rank(typeName, input string) ([]parser.Snippet, error) {
	snippets, err := s.Snippets(typeName)
	if err != nil {
		return nil, err
	}
	return completion.Rank(snippets, input), nil
}

// Render renders a snippet's content
func (s *Service) Render(snippet parser.Snippet) (string, error) {
	return s.renderer.Render(snippet.Content)
}

// Copy resolves input, renders it and places the result on the clipboard
func (s *Service) Copy(typeName, input string, fuzzy bool) (parser.Snippet, string, error) {
	snippet, err := s.Find(typeName, input, fuzzy)
	if err != nil {
		return parser.Snippet{}, "", err
	}
	text, err := s.Render(snippet)
	if err != nil {
		return snippet, "", err
	}
	if err := s.clipboard.Copy(text); err != nil {
		return snippet, "", err
	}
	return snippet, text, nil
}

// Location is where a snippet is defined, for the editor
type Location struct {
	File string
	Line int // 0 when unknown
}

// Locate finds the file and line that define name within a type. Combined
// types are searched in source order; a name that is not found yields the
// first source with line 0.
func (s *Service) Locate(typeName, name string) (Location, error) {
	res, err := s.types.Resolve(typeName)
	if err != nil {
		return Location{}, err
	}
	if len(res.Sources) == 0 {
		return Location{}, fmt.Errorf("snippet type %s has no sources", typeName)
	}

	if name != "" {
		for _, src := range res.Sources {
			if src.Format != parser.FormatDefault {
				continue
			}
			data, err := os.ReadFile(src.SourceFile)
			if err != nil {
				continue
			}
			if line, ok := parser.FindStartLine(string(data), name); ok {
				return Location{File: src.SourceFile, Line: line}, nil
			}
		}
	}
	return Location{File: res.Sources[0].SourceFile}, nil
}
