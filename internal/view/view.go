// Package view defines the renderable units the application mounts and the
// router resolves paths to.
package view

import (
	"bytes"
	"html/template"
	"io"
	"net/http"
)

// View is a renderable unit of the UI tree.
type View interface {
	Name() string
	Render(w io.Writer, c *Context) error
}

// State is read access to the application state store.
type State interface {
	Get(id string) (any, bool)
}

// Context carries everything a view may read while rendering.
type Context struct {
	// Path is the request path without query or fragment.
	Path string
	// Status is the HTTP status the page is served with.
	Status int
	// State is nil when no store is attached.
	State State
	// Outlet is the routed child view for layout views.
	Outlet View
}

// NewContext returns a context for path with status 200.
func NewContext(path string, state State) *Context {
	return &Context{Path: path, Status: http.StatusOK, State: state}
}

// Lookup reads id from the attached state. It reports false when no store
// is attached or the id is not defined.
func (c *Context) Lookup(id string) (any, bool) {
	if c == nil || c.State == nil {
		return nil, false
	}
	return c.State.Get(id)
}

// RenderOutlet renders the outlet view to an HTML fragment. An empty
// fragment is returned when there is no outlet.
func (c *Context) RenderOutlet() (template.HTML, error) {
	if c == nil || c.Outlet == nil {
		return "", nil
	}
	var buf bytes.Buffer
	child := *c
	child.Outlet = nil
	if err := c.Outlet.Render(&buf, &child); err != nil {
		return "", err
	}
	return template.HTML(buf.String()), nil
}

type funcView struct {
	name string
	fn   func(w io.Writer, c *Context) error
}

// Func adapts a render function to a View.
func Func(name string, fn func(w io.Writer, c *Context) error) View {
	return &funcView{name: name, fn: fn}
}

func (v *funcView) Name() string                         { return v.name }
func (v *funcView) Render(w io.Writer, c *Context) error { return v.fn(w, c) }
