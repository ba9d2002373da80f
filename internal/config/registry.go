package config

import (
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"

	"github.com/gubarz/snip/internal/parser"
)

var (
	// ErrUnknownType is returned when a snippet type is not configured
	ErrUnknownType = errors.New("unknown snippet type")
	// ErrTypeCycle is returned when combined types reference each other
	ErrTypeCycle = errors.New("combined snippet type cycle")
)

// SnippetType is a concrete type backed by a single source file
type SnippetType struct {
	Name        string
	SourceFile  string
	Format      parser.Format
	Description string
	Alias       string
}

// CombinedType merges the snippets of other types in the listed order
type CombinedType struct {
	Name        string
	Sources     []string
	Description string
	Alias       string
}

// Resolution is the ordered list of concrete sources behind a type name
type Resolution struct {
	Name     string
	Combined bool
	Sources  []SnippetType
}

// Registry holds every configured snippet type
type Registry struct {
	concrete map[string]SnippetType
	combined map[string]CombinedType
}

// typeKey normalizes a type name. Viper lower-cases table keys, so names
// given on the command line or in "sources" are matched the same way.
func typeKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// NewRegistry validates the snippet_types table and builds a registry
func NewRegistry(types map[string]TypeConfig) (*Registry, error) {
	r := &Registry{
		concrete: make(map[string]SnippetType),
		combined: make(map[string]CombinedType),
	}

	for name, tc := range types {
		name = typeKey(name)
		if len(tc.Sources) > 0 {
			members := make([]string, len(tc.Sources))
			for i, member := range tc.Sources {
				members[i] = typeKey(member)
			}
			r.combined[name] = CombinedType{
				Name:        name,
				Sources:     members,
				Description: tc.Description,
				Alias:       tc.Alias,
			}
			continue
		}

		if tc.SourceFile == "" {
			return nil, fmt.Errorf("snippet type %q: source_file or sources is required", name)
		}
		format, err := parser.ParseFormat(tc.Format)
		if err != nil {
			return nil, fmt.Errorf("snippet type %q: %w", name, err)
		}
		path, err := expandTilde(tc.SourceFile)
		if err != nil {
			return nil, fmt.Errorf("snippet type %q: %w", name, err)
		}
		r.concrete[name] = SnippetType{
			Name:        name,
			SourceFile:  path,
			Format:      format,
			Description: tc.Description,
			Alias:       tc.Alias,
		}
	}
	return r, nil
}

// Names returns every type name, sorted
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.concrete)+len(r.combined))
	for name := range r.concrete {
		names = append(names, name)
	}
	for name := range r.combined {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Lookup returns the concrete type with the given name
func (r *Registry) Lookup(name string) (SnippetType, bool) {
	st, ok := r.concrete[typeKey(name)]
	return st, ok
}

// Combined returns the combined type with the given name
func (r *Registry) Combined(name string) (CombinedType, bool) {
	ct, ok := r.combined[typeKey(name)]
	return ct, ok
}

// Description returns the description of any type, or "" if unknown
func (r *Registry) Description(name string) string {
	name = typeKey(name)
	if st, ok := r.concrete[name]; ok {
		return st.Description
	}
	return r.combined[name].Description
}

// Alias returns the shell alias of any type, or "" if none
func (r *Registry) Alias(name string) string {
	name = typeKey(name)
	if st, ok := r.concrete[name]; ok {
		return st.Alias
	}
	return r.combined[name].Alias
}

// Resolve expands a type name into its concrete sources. Combined types may
// nest; unknown members are skipped with a warning and a reference back to a
// type already being expanded fails with ErrTypeCycle. A combined type left
// with no sources at all is reported as ErrUnknownType.
func (r *Registry) Resolve(name string) (Resolution, error) {
	name = typeKey(name)
	if st, ok := r.concrete[name]; ok {
		return Resolution{Name: name, Sources: []SnippetType{st}}, nil
	}
	if _, ok := r.combined[name]; !ok {
		return Resolution{}, fmt.Errorf("%w: %s, update your configuration", ErrUnknownType, name)
	}

	var sources []SnippetType
	if err := r.expand(name, map[string]bool{}, &sources); err != nil {
		return Resolution{}, err
	}
	if len(sources) == 0 {
		return Resolution{}, fmt.Errorf("%w: combined type %s has no known sources, update your configuration", ErrUnknownType, name)
	}
	return Resolution{Name: name, Combined: true, Sources: sources}, nil
}

func (r *Registry) expand(name string, active map[string]bool, out *[]SnippetType) error {
	if active[name] {
		return fmt.Errorf("%w: %s", ErrTypeCycle, name)
	}
	active[name] = true
	defer delete(active, name)

	for _, member := range r.combined[name].Sources {
		if st, ok := r.concrete[member]; ok {
			*out = append(*out, st)
			continue
		}
		if _, ok := r.combined[member]; ok {
			if err := r.expand(member, active, out); err != nil {
				return err
			}
			continue
		}
		slog.Warn("combined type references unknown source", "type", name, "source", member)
	}
	return nil
}
