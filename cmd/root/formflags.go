package root

import (
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/spf13/cobra"

	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/registry"
)

// formFlags describes a form on the command line. --template selects
// template mode; otherwise quick-create is used.
type formFlags struct {
	theme       string
	template    string
	fields      []string
	topic       string
	slides      int
	company     string
	presenter   string
	context     string
	contextFile string
	kind        string
}

func addFormFlags(cmd *cobra.Command, f *formFlags) {
	cmd.Flags().StringVar(&f.theme, "theme", "", "Theme id (see 'slidecraft themes')")
	cmd.Flags().StringVarP(&f.template, "template", "t", "", "Template id (see 'slidecraft templates')")
	cmd.Flags().StringArrayVarP(&f.fields, "field", "f", nil, "Template field as key=value (repeatable)")
	cmd.Flags().StringVar(&f.topic, "topic", "", "Presentation topic (quick create)")
	cmd.Flags().IntVar(&f.slides, "slides", form.DefaultSlideCount, "Total number of slides (quick create)")
	cmd.Flags().StringVar(&f.company, "company", "", "Company name (quick create)")
	cmd.Flags().StringVar(&f.presenter, "presenter", "", "Presenter name (quick create)")
	cmd.Flags().StringVar(&f.context, "context", "", "Additional context such as an agenda or outline (quick create)")
	cmd.Flags().StringVar(&f.contextFile, "context-file", "", "Read additional context from a file (quick create)")
	cmd.Flags().StringVar(&f.kind, "type", "", "Presentation type: general, sermon, business or education (quick create)")

	cmd.MarkFlagsMutuallyExclusive("template", "topic")
	cmd.MarkFlagsMutuallyExclusive("context", "context-file")
}

// build turns the flags into a form, starting from base.
func (f *formFlags) build(reg *registry.Registry, base *form.State) (*form.State, error) {
	s := base.Clone()

	if f.theme != "" {
		if err := s.SelectTheme(reg, f.theme); err != nil {
			return nil, fmt.Errorf("--theme: %w", err)
		}
	}

	if f.template != "" {
		if err := s.SelectTemplate(reg, f.template); err != nil {
			return nil, fmt.Errorf("--template: %w", err)
		}
		for _, kv := range f.fields {
			key, value, ok := strings.Cut(kv, "=")
			if !ok {
				return nil, fmt.Errorf("--field %q: expected key=value", kv)
			}
			if err := s.SetField(reg, strings.TrimSpace(key), value); err != nil {
				return nil, fmt.Errorf("--field: %w", err)
			}
		}
		return s, nil
	}

	if len(f.fields) > 0 {
		return nil, fmt.Errorf("--field requires --template")
	}

	s.UseQuickCreate()
	s.Quick.Topic = f.topic
	s.Quick.SlideCount = f.slides
	s.Quick.CompanyName = f.company
	s.Quick.PresenterName = f.presenter
	s.Quick.AdditionalContext = f.context

	if f.contextFile != "" {
		buf, err := os.ReadFile(f.contextFile)
		if err != nil {
			return nil, fmt.Errorf("--context-file: %w", err)
		}
		s.Quick.AdditionalContext = string(buf)
	}

	if f.kind != "" {
		kind := form.PresentationType(strings.ToLower(f.kind))
		if !slices.Contains(form.PresentationTypes, kind) {
			return nil, fmt.Errorf("--type %q: expected one of %v", f.kind, form.PresentationTypes)
		}
		s.Quick.PresentationType = kind
	}

	return s, nil
}
