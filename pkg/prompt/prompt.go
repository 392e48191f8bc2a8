// Package prompt turns a form into the generation request sent downstream.
package prompt

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/validate"
)

// ErrInvalidState is returned when a form cannot be composed into a request.
var ErrInvalidState = errors.New("invalid form state")

// Request is a composed generation request. PromptText is the instruction for
// the generator; the remaining fields carry the same input in structured form
// for transports that forward it.
type Request struct {
	ID         string    `json:"id"`
	PromptText string    `json:"prompt"`
	Mode       form.Mode `json:"mode"`
	ThemeID    string    `json:"themeId"`
	TemplateID string    `json:"templateId,omitempty"`

	// Fields holds every declared template field in declaration order.
	// Set in template mode only.
	Fields *orderedmap.OrderedMap[string, string] `json:"fields,omitempty"`
	// Quick is set in quick-create mode only.
	Quick *form.QuickFields `json:"quickFields,omitempty"`
}

// Payload returns the structured form input: the template field map or the
// quick-create fields.
func (r *Request) Payload() any {
	if r.Mode == form.ModeUseTemplate {
		return r.Fields
	}
	return r.Quick
}

// Compose builds the request for s. It is deterministic apart from the
// request id.
func Compose(s *form.State, reg *registry.Registry) (*Request, error) {
	if err := validate.Check(s, reg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
	}

	req := &Request{
		ID:      uuid.NewString(),
		Mode:    s.Mode,
		ThemeID: s.SelectedThemeID,
	}

	switch s.Mode {
	case form.ModeQuickCreate:
		quick := s.Quick
		req.Quick = &quick
		req.PromptText = quickCreateText(s.SelectedThemeID, quick)
	case form.ModeUseTemplate:
		tmpl, err := reg.Template(s.SelectedTemplateID)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidState, err)
		}
		req.TemplateID = tmpl.ID
		req.Fields = orderedmap.New[string, string]()
		for _, field := range tmpl.Fields {
			req.Fields.Set(field, s.FieldValue(field))
		}
		req.PromptText = templateText(tmpl, s.SelectedThemeID, req.Fields)
	}

	return req, nil
}

// ContentSlides is the number of body slides requested for a deck of n
// slides: everything except the title, agenda and conclusion slides. The
// value is not clamped and may be zero or negative for n < 3.
func ContentSlides(n int) int {
	return n - 3
}

func quickCreateText(themeID string, q form.QuickFields) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a professional PowerPoint presentation about \"%s\".\n\n", q.Topic)
	fmt.Fprintf(&b, "Theme: %s\n", themeID)
	fmt.Fprintf(&b, "Number of slides: %d\n", q.SlideCount)
	if q.CompanyName != "" {
		fmt.Fprintf(&b, "Company: %s\n", q.CompanyName)
	}
	if q.PresenterName != "" {
		fmt.Fprintf(&b, "Presenter: %s\n", q.PresenterName)
	}

	hasContext := q.AdditionalContext != ""
	if hasContext {
		b.WriteString("\nAdditional Context:\n")
		b.WriteString(q.AdditionalContext)
		b.WriteString("\n\nPlease use the context above to inform the slide content. ")
		b.WriteString("If there's an agenda or outline, structure the presentation to match it.\n")
	}

	if guidance := typeGuidance[q.PresentationType]; guidance != "" {
		b.WriteString("\n")
		b.WriteString(guidance)
	}

	b.WriteString("\nUse the presentation generator with the selected theme. Include:\n")
	b.WriteString("- Title slide\n")
	if hasContext {
		b.WriteString("- Agenda/overview (based on context provided)\n")
	} else {
		b.WriteString("- Agenda/overview\n")
	}
	fmt.Fprintf(&b, "- %d content slides with relevant bullet points\n", ContentSlides(q.SlideCount))
	b.WriteString("- Conclusion with next steps\n")
	b.WriteString("- Speaker notes for each slide\n")
	b.WriteString("\nMake it professional and ready to present.")

	return b.String()
}

func templateText(tmpl registry.Template, themeID string, fields *orderedmap.OrderedMap[string, string]) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Create a PowerPoint presentation using the \"%s\" template.\n\n", tmpl.Name)
	fmt.Fprintf(&b, "Template: %s\n", tmpl.ID)
	fmt.Fprintf(&b, "Theme: %s\n", themeID)
	b.WriteString("Template data:\n")
	for pair := fields.Oldest(); pair != nil; pair = pair.Next() {
		fmt.Fprintf(&b, "%s: %s\n", pair.Key, pair.Value)
	}
	if tmpl.IsCustom {
		b.WriteString("\nThis is a user-supplied template; keep its layouts and brand colors.\n")
	}
	fmt.Fprintf(&b, "\nUse the presentation generator with the template library. Populate the template with the provided data and apply the %s theme.", themeID)

	return b.String()
}

var typeGuidance = map[form.PresentationType]string{
	form.TypeSermon: `This is a SERMON presentation. Structure it with:
- Opening with scripture reference
- 2-3 main points with biblical application
- Practical takeaways
- Closing prayer points
`,
	form.TypeBusiness: `This is a BUSINESS presentation. Structure it with:
- Executive summary/overview
- Key metrics or data points
- Main content organized logically
- Action items and next steps
`,
	form.TypeEducation: `This is an EDUCATIONAL presentation. Structure it with:
- Learning objectives
- Core concepts broken down clearly
- Examples and illustrations
- Summary and key takeaways
`,
	form.TypeGeneral: `This is a GENERAL presentation. Structure it professionally with:
- Clear introduction
- Logically organized main content
- Supporting details
- Conclusion with key points
`,
}
