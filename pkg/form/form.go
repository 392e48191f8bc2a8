// Package form models the presentation request a user is editing.
package form

import (
	"fmt"
	"maps"
	"strings"

	"github.com/slidecraft/slidecraft/pkg/registry"
)

// Mode selects how the presentation is described.
type Mode string

const (
	ModeQuickCreate Mode = "quick"
	ModeUseTemplate Mode = "template"
)

// ParseMode accepts the wire names of a mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeQuickCreate, "":
		return ModeQuickCreate, nil
	case ModeUseTemplate:
		return ModeUseTemplate, nil
	default:
		return "", fmt.Errorf("unknown mode %q (expected %q or %q)", s, ModeQuickCreate, ModeUseTemplate)
	}
}

// DefaultSlideCount is the slide count a new form starts with.
const DefaultSlideCount = 8

// PresentationType tunes the structure the generator is asked for.
type PresentationType string

const (
	TypeGeneral   PresentationType = "general"
	TypeSermon    PresentationType = "sermon"
	TypeBusiness  PresentationType = "business"
	TypeEducation PresentationType = "education"
)

// PresentationTypes lists the known types in display order.
var PresentationTypes = []PresentationType{TypeGeneral, TypeSermon, TypeBusiness, TypeEducation}

// QuickFields are the freeform inputs of quick-create mode.
type QuickFields struct {
	Topic             string           `json:"topic"`
	SlideCount        int              `json:"slideCount"`
	CompanyName       string           `json:"companyName,omitempty"`
	PresenterName     string           `json:"presenterName,omitempty"`
	AdditionalContext string           `json:"additionalContext,omitempty"`
	PresentationType  PresentationType `json:"presentationType,omitempty"`
}

// State is the form a single session edits. It is not safe for concurrent
// mutation; the owning session serializes access.
type State struct {
	Mode                Mode              `json:"mode"`
	SelectedThemeID     string            `json:"selectedThemeId"`
	SelectedTemplateID  string            `json:"selectedTemplateId,omitempty"`
	Quick               QuickFields       `json:"quickFields"`
	TemplateFieldValues map[string]string `json:"templateFieldValues,omitempty"`
}

// New returns a quick-create form with the default theme selected.
func New() *State {
	return &State{
		Mode:            ModeQuickCreate,
		SelectedThemeID: registry.DefaultThemeID,
		Quick: QuickFields{
			SlideCount: DefaultSlideCount,
		},
	}
}

// Clone returns a deep copy of s.
func (s *State) Clone() *State {
	c := *s
	c.TemplateFieldValues = maps.Clone(s.TemplateFieldValues)
	return &c
}

// SelectTheme switches the theme; the id must resolve in reg.
func (s *State) SelectTheme(reg *registry.Registry, id string) error {
	if _, err := reg.Theme(id); err != nil {
		return err
	}
	s.SelectedThemeID = id
	return nil
}

// SelectTemplate switches to template mode with the given template. Values
// entered for fields the new template does not declare are dropped.
func (s *State) SelectTemplate(reg *registry.Registry, id string) error {
	tmpl, err := reg.Template(id)
	if err != nil {
		return err
	}

	s.Mode = ModeUseTemplate
	s.SelectedTemplateID = id
	maps.DeleteFunc(s.TemplateFieldValues, func(k, _ string) bool {
		return !tmpl.HasField(k)
	})
	return nil
}

// UseQuickCreate switches back to quick-create mode.
func (s *State) UseQuickCreate() {
	s.Mode = ModeQuickCreate
	s.SelectedTemplateID = ""
}

// SetField records a value for one of the selected template's fields.
func (s *State) SetField(reg *registry.Registry, field, value string) error {
	if s.SelectedTemplateID == "" {
		return fmt.Errorf("no template selected")
	}

	tmpl, err := reg.Template(s.SelectedTemplateID)
	if err != nil {
		return err
	}
	if !tmpl.HasField(field) {
		return fmt.Errorf("template %q has no field %q", tmpl.ID, field)
	}

	if s.TemplateFieldValues == nil {
		s.TemplateFieldValues = make(map[string]string)
	}
	s.TemplateFieldValues[field] = value
	return nil
}

// FieldValue returns the value entered for field, or "" when absent.
func (s *State) FieldValue(field string) string {
	return s.TemplateFieldValues[field]
}

// CheckReferences verifies that the selected theme and template exist and
// that field values only use declared keys. An empty mode is normalized to
// quick-create. It is used when a whole state arrives from outside, e.g. over
// HTTP.
func (s *State) CheckReferences(reg *registry.Registry) error {
	mode, err := ParseMode(string(s.Mode))
	if err != nil {
		return err
	}
	s.Mode = mode

	if _, err := reg.Theme(s.SelectedThemeID); err != nil {
		return err
	}

	if s.Mode == ModeQuickCreate {
		if s.SelectedTemplateID != "" {
			return fmt.Errorf("template %q selected in quick-create mode", s.SelectedTemplateID)
		}
		return nil
	}

	if s.SelectedTemplateID == "" {
		return nil
	}
	tmpl, err := reg.Template(s.SelectedTemplateID)
	if err != nil {
		return err
	}
	for k := range s.TemplateFieldValues {
		if !tmpl.HasField(k) {
			return fmt.Errorf("template %q has no field %q", tmpl.ID, k)
		}
	}
	return nil
}

// FieldLabel turns a field id such as "sermon_title" into "Sermon Title".
func FieldLabel(field string) string {
	words := strings.Split(field, "_")
	for i, w := range words {
		if w == "" {
			continue
		}
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
