// Package registry holds the catalogs of presentation themes and templates.
// A Registry is immutable once built and safe for concurrent use.
package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"

	orderedmap "github.com/wk8/go-ordered-map/v2"
)

// ErrNotFound is returned when a theme or template id does not resolve.
var ErrNotFound = errors.New("not found")

// DefaultThemeID is the theme selected when nothing else is chosen.
const DefaultThemeID = "software_professional"

// Theme is a visual style the generator applies to a presentation.
type Theme struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	AccentColor string `json:"accentColor" yaml:"accent_color"`
}

// Template is a predefined presentation structure with ordered input fields.
type Template struct {
	ID          string   `json:"id" yaml:"id"`
	Name        string   `json:"name" yaml:"name"`
	Description string   `json:"description" yaml:"description"`
	Category    string   `json:"category" yaml:"-"`
	Fields      []string `json:"fields" yaml:"fields"`
	IsCustom    bool     `json:"isCustom" yaml:"-"`
}

// HasField reports whether id is one of the template's declared fields.
func (t Template) HasField(id string) bool {
	return slices.Contains(t.Fields, id)
}

// Category groups templates for display.
type Category struct {
	Name      string
	Templates []Template
}

type Registry struct {
	themes     []Theme
	themeIndex map[string]int

	categories    *orderedmap.OrderedMap[string, []Template]
	templateIndex map[string]Template
}

// New builds a registry from themes and ordered categories.
// Ids must be unique across themes and across all templates.
func New(themes []Theme, categories []Category) (*Registry, error) {
	r := &Registry{
		themes:        slices.Clone(themes),
		themeIndex:    make(map[string]int, len(themes)),
		categories:    orderedmap.New[string, []Template](),
		templateIndex: make(map[string]Template),
	}

	for i, theme := range themes {
		if theme.ID == "" {
			return nil, fmt.Errorf("theme %d has no id", i)
		}
		if _, dup := r.themeIndex[theme.ID]; dup {
			return nil, fmt.Errorf("duplicate theme id %q", theme.ID)
		}
		r.themeIndex[theme.ID] = i
	}

	for _, category := range categories {
		if _, dup := r.categories.Get(category.Name); dup {
			return nil, fmt.Errorf("duplicate template category %q", category.Name)
		}

		templates := make([]Template, 0, len(category.Templates))
		for _, tmpl := range category.Templates {
			if tmpl.ID == "" {
				return nil, fmt.Errorf("template in category %q has no id", category.Name)
			}
			if _, dup := r.templateIndex[tmpl.ID]; dup {
				return nil, fmt.Errorf("duplicate template id %q", tmpl.ID)
			}
			tmpl.Category = category.Name
			tmpl.Fields = slices.Clone(tmpl.Fields)
			r.templateIndex[tmpl.ID] = tmpl
			templates = append(templates, tmpl)
		}
		r.categories.Set(category.Name, templates)
	}

	return r, nil
}

// Themes returns all themes in definition order.
func (r *Registry) Themes() []Theme {
	return slices.Clone(r.themes)
}

// Categories returns the template categories in display order.
func (r *Registry) Categories() []Category {
	out := make([]Category, 0, r.categories.Len())
	for pair := r.categories.Oldest(); pair != nil; pair = pair.Next() {
		templates := make([]Template, len(pair.Value))
		for i, t := range pair.Value {
			t.Fields = slices.Clone(t.Fields)
			templates[i] = t
		}
		out = append(out, Category{Name: pair.Key, Templates: templates})
	}
	return out
}

// Templates returns every template, category by category.
func (r *Registry) Templates() []Template {
	var out []Template
	for _, c := range r.Categories() {
		out = append(out, c.Templates...)
	}
	return out
}

// Theme looks up a theme by id.
func (r *Registry) Theme(id string) (Theme, error) {
	i, ok := r.themeIndex[id]
	if !ok {
		return Theme{}, fmt.Errorf("theme %q: %w", id, ErrNotFound)
	}
	return r.themes[i], nil
}

// Template looks up a template by id.
func (r *Registry) Template(id string) (Template, error) {
	t, ok := r.templateIndex[id]
	if !ok {
		return Template{}, fmt.Errorf("template %q: %w", id, ErrNotFound)
	}
	t.Fields = slices.Clone(t.Fields)
	return t, nil
}

var defaultRegistry = sync.OnceValue(func() *Registry {
	r, err := New(builtinThemes, builtinCategories)
	if err != nil {
		panic(fmt.Sprintf("invalid built-in registry: %v", err))
	}
	return r
})

// Default returns the process-wide registry of built-in themes and templates.
func Default() *Registry {
	return defaultRegistry()
}
