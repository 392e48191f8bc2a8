package registry

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"slices"

	"github.com/goccy/go-yaml"
)

type catalogFile struct {
	Templates []Template `yaml:"templates"`
}

// ParseCatalog decodes a YAML list of user templates.
func ParseCatalog(data []byte) ([]Template, error) {
	var file catalogFile
	if err := yaml.UnmarshalWithOptions(data, &file, yaml.Strict()); err != nil {
		return nil, fmt.Errorf("parsing template catalog: %w", err)
	}

	for i, t := range file.Templates {
		if t.ID == "" {
			return nil, fmt.Errorf("template %d: missing id", i)
		}
		if len(t.Fields) == 0 {
			return nil, fmt.Errorf("template %q: at least one field is required", t.ID)
		}
		if t.Name == "" {
			file.Templates[i].Name = t.ID
		}
		file.Templates[i].IsCustom = true
	}

	return file.Templates, nil
}

// WithCustomTemplates returns the built-in catalogs plus extra templates
// appended to the custom category.
func WithCustomTemplates(extra []Template) (*Registry, error) {
	categories := make([]Category, 0, len(builtinCategories))
	for _, c := range builtinCategories {
		if c.Name == CustomCategory {
			c.Templates = append(slices.Clone(c.Templates), extra...)
		}
		categories = append(categories, c)
	}
	return New(builtinThemes, categories)
}

// Load returns the default registry when path is empty or does not exist,
// otherwise the built-ins extended with the templates declared in path.
func Load(path string) (*Registry, error) {
	if path == "" {
		return Default(), nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			slog.Debug("No custom template catalog", "path", path)
			return Default(), nil
		}
		return nil, fmt.Errorf("reading template catalog: %w", err)
	}

	extra, err := ParseCatalog(data)
	if err != nil {
		return nil, err
	}

	slog.Debug("Loaded custom templates", "path", path, "count", len(extra))
	return WithCustomTemplates(extra)
}
