// Package validate decides whether a form is complete enough to submit.
package validate

import (
	"strings"

	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/registry"
)

// ValidationError is a user-facing reason why a form cannot be submitted.
type ValidationError struct {
	Reason string
}

func (e *ValidationError) Error() string {
	return "missing required input: " + e.Reason
}

// Check returns nil when s can be submitted, or a *ValidationError.
func Check(s *form.State, reg *registry.Registry) error {
	if s == nil {
		return &ValidationError{Reason: "no form"}
	}

	switch s.Mode {
	case form.ModeQuickCreate:
		if strings.TrimSpace(s.Quick.Topic) == "" {
			return &ValidationError{Reason: "please enter a presentation topic"}
		}
		return nil
	case form.ModeUseTemplate:
		if s.SelectedTemplateID == "" {
			return &ValidationError{Reason: "please select a template"}
		}
		if _, err := reg.Template(s.SelectedTemplateID); err != nil {
			return &ValidationError{Reason: "unknown template " + s.SelectedTemplateID}
		}
		return nil
	default:
		return &ValidationError{Reason: "unknown mode " + string(s.Mode)}
	}
}

// CanSubmit reports whether s passes Check.
func CanSubmit(s *form.State, reg *registry.Registry) bool {
	return Check(s, reg) == nil
}
