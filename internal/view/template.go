package view

import (
	"fmt"
	"html/template"
	"io"
)

// TemplateData is what template views execute with.
type TemplateData struct {
	Path   string
	Status int
	Outlet template.HTML
	ctx    *Context
}

// State returns the value stored under id, or nil.
func (d TemplateData) State(id string) any {
	v, _ := d.ctx.Lookup(id)
	return v
}

type templateView struct {
	name string
	tmpl *template.Template
}

// Template returns a view that executes tmpl. Layout templates place the
// routed child with {{ .Outlet }}.
func Template(name string, tmpl *template.Template) View {
	return &templateView{name: name, tmpl: tmpl}
}

// ParseTemplate parses src and wraps it as a view. It panics on a parse
// error since page templates are compiled into the binary.
func ParseTemplate(name, src string) View {
	return Template(name, template.Must(template.New(name).Parse(src)))
}

func (v *templateView) Name() string { return v.name }

func (v *templateView) Render(w io.Writer, c *Context) error {
	outlet, err := c.RenderOutlet()
	if err != nil {
		return fmt.Errorf("view %s: outlet: %w", v.name, err)
	}
	data := TemplateData{Path: c.Path, Status: c.Status, Outlet: outlet, ctx: c}
	if err := v.tmpl.Execute(w, data); err != nil {
		return fmt.Errorf("view %s: %w", v.name, err)
	}
	return nil
}
