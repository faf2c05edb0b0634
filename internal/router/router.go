// Package router resolves request paths to views from a static route list.
package router

import (
	"errors"
	"fmt"
	"html/template"
	"io"
	"net/http"
	"strings"

	"github.com/sahilm/fuzzy"

	"aashub/internal/app"
	"aashub/internal/view"
)

var (
	ErrDuplicateRoute = errors.New("duplicate route path")
	ErrInvalidPath    = errors.New("route path must start with /")
	ErrNilView        = errors.New("route has no view")
)

// maxSuggestions bounds the paths offered on the not-found page.
const maxSuggestions = 3

// Route associates a path with the view rendered for it.
type Route struct {
	Path string
	View view.View
}

// Router matches paths exactly against an immutable route list.
type Router struct {
	routes []Route
	byPath map[string]view.View
	paths  []string
}

// New builds a router from routes, keeping their order.
func New(routes []Route) (*Router, error) {
	r := &Router{byPath: make(map[string]view.View, len(routes))}
	for _, rt := range routes {
		if !strings.HasPrefix(rt.Path, "/") {
			return nil, fmt.Errorf("route %q: %w", rt.Path, ErrInvalidPath)
		}
		if rt.View == nil {
			return nil, fmt.Errorf("route %q: %w", rt.Path, ErrNilView)
		}
		if _, dup := r.byPath[rt.Path]; dup {
			return nil, fmt.Errorf("route %q: %w", rt.Path, ErrDuplicateRoute)
		}
		r.byPath[rt.Path] = rt.View
		r.routes = append(r.routes, rt)
		r.paths = append(r.paths, rt.Path)
	}
	return r, nil
}

func (r *Router) Name() string       { return "router" }
func (r *Router) Requires() []string { return []string{"ui"} }

func (r *Router) Install(a *app.App) error {
	a.SetResolver(r)
	return nil
}

// Routes returns a copy of the route list in registration order.
func (r *Router) Routes() []Route {
	return append([]Route(nil), r.routes...)
}

// Resolve returns the view registered for path. Matching is exact; a query
// string or fragment on path is ignored.
func (r *Router) Resolve(path string) (view.View, bool) {
	v, ok := r.byPath[cleanPath(path)]
	return v, ok
}

// Fallback returns the not-found view for path.
func (r *Router) Fallback(path string) view.View {
	return &notFound{path: cleanPath(path), suggestions: r.Suggest(path)}
}

// Suggest returns up to three registered paths that fuzzy-match path,
// best match first.
func (r *Router) Suggest(path string) []string {
	p := strings.Trim(cleanPath(path), "/")
	if p == "" {
		return nil
	}
	matches := fuzzy.Find(p, r.paths)
	out := make([]string, 0, maxSuggestions)
	for _, m := range matches {
		if len(out) == maxSuggestions {
			break
		}
		out = append(out, m.Str)
	}
	return out
}

func cleanPath(p string) string {
	if i := strings.IndexAny(p, "?#"); i >= 0 {
		p = p[:i]
	}
	return p
}

var notFoundTmpl = template.Must(template.New("NotFound").Parse(
	`<section class="not-found"><h1>404</h1><p>No page at <code>{{ .Path }}</code>.</p>` +
		`{{ if .Suggestions }}<p>Did you mean:</p><ul>{{ range .Suggestions }}<li><a href="{{ . }}">{{ . }}</a></li>{{ end }}</ul>{{ end }}` +
		`<p><a href="/">Back to start</a></p></section>`))

type notFound struct {
	path        string
	suggestions []string
}

func (v *notFound) Name() string { return "NotFound" }

func (v *notFound) Render(w io.Writer, c *view.Context) error {
	if c != nil {
		c.Status = http.StatusNotFound
	}
	return notFoundTmpl.Execute(w, struct {
		Path        string
		Suggestions []string
	}{v.path, v.suggestions})
}
