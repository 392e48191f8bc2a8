// Package cli renders registry listings, composed requests and submission
// results for the terminal.
package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/docker/go-units"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/slidecraft/slidecraft/pkg/form"
	"github.com/slidecraft/slidecraft/pkg/prompt"
	"github.com/slidecraft/slidecraft/pkg/registry"
	"github.com/slidecraft/slidecraft/pkg/submit"
)

type Printer struct {
	out io.Writer

	bold  *color.Color
	faint *color.Color
	ok    *color.Color
	fail  *color.Color
}

// NewPrinter writes to out. Colors are only emitted when out is a terminal.
func NewPrinter(out io.Writer) *Printer {
	p := &Printer{
		out:   out,
		bold:  color.New(color.Bold),
		faint: color.New(color.Faint),
		ok:    color.New(color.FgGreen, color.Bold),
		fail:  color.New(color.FgRed, color.Bold),
	}
	if !isTerminal(out) {
		for _, c := range []*color.Color{p.bold, p.faint, p.ok, p.fail} {
			c.DisableColor()
		}
	}
	return p
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) Println(a ...any) {
	fmt.Fprintln(p.out, a...)
}

func (p *Printer) Printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

// PrintError prints an error message
func (p *Printer) PrintError(err error) {
	p.Printf("%s %s\n", p.fail.Sprint("Error:"), err)
}

// PrintThemes lists themes in display order, marking the selected one.
func (p *Printer) PrintThemes(themes []registry.Theme, selected string) {
	for _, t := range themes {
		marker := " "
		if t.ID == selected {
			marker = "*"
		}
		p.Printf("%s %-24s %s  %s\n", marker, p.bold.Sprint(t.ID), t.Name, p.faint.Sprint(t.AccentColor))
	}
}

// PrintCategories lists every category with its templates and fields.
func (p *Printer) PrintCategories(categories []registry.Category) {
	for i, c := range categories {
		if i > 0 {
			p.Println()
		}
		p.Printf("%s\n", p.bold.Sprint(strings.ToUpper(c.Name)))
		for _, t := range c.Templates {
			p.Printf("  %-22s %s\n", t.ID, t.Name)
			if t.Description != "" {
				p.Printf("  %-22s %s\n", "", p.faint.Sprint(t.Description))
			}
		}
	}
}

// PrintTemplate shows one template's fields with their display labels.
func (p *Printer) PrintTemplate(t registry.Template) {
	p.Printf("%s (%s)\n", p.bold.Sprint(t.Name), t.ID)
	if t.Description != "" {
		p.Println(t.Description)
	}
	p.Println()
	for _, f := range t.Fields {
		p.Printf("  --field %s=...   %s\n", f, p.faint.Sprint(form.FieldLabel(f)))
	}
}

// PrintRequest prints the instruction text exactly as it would be sent.
func (p *Printer) PrintRequest(req *prompt.Request) {
	p.Println(req.PromptText)
}

// PrintResult renders a published submission Result.
func (p *Printer) PrintResult(r submit.Result) {
	switch r := r.(type) {
	case *submit.Success:
		p.Printf("%s Presentation generated\n", p.ok.Sprint("✓"))
		p.Printf("  Theme:    %s\n", r.ThemeName)
		if r.TemplateName != "" {
			p.Printf("  Template: %s\n", r.TemplateName)
		}
		if r.Filepath != "" {
			p.Printf("  File:     %s%s\n", r.Filepath, fileSize(r.Filepath))
		}
		if r.Message != "" {
			p.Println()
			p.Println(r.Message)
		}
	case *submit.Failure:
		p.Printf("%s %s\n", p.fail.Sprint("✗"), r.ErrorMessage)
	}
}

// fileSize returns " (12.3kB)" when path is a readable local file.
func fileSize(path string) string {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return ""
	}
	return " (" + units.HumanSize(float64(info.Size())) + ")"
}
