// Package app holds the root application handle: the root view, the plugins
// attached to it and the mount point inside the shell document.
package app

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"net/http"
	"strings"

	"golang.org/x/net/html"

	"aashub/internal/system"
	"aashub/internal/view"
)

var (
	ErrPluginInstalled    = errors.New("plugin already installed")
	ErrMissingDependency  = errors.New("plugin dependency not installed")
	ErrAlreadyMounted     = errors.New("application already mounted")
	ErrNotMounted         = errors.New("application not mounted")
	ErrNoShell            = errors.New("no shell document: ui plugin not installed")
	ErrMountAnchorMissing = errors.New("mount anchor not found")
)

// Plugin is a cross-cutting capability attached to the application at
// startup.
type Plugin interface {
	Name() string
	Install(a *App) error
}

// Dependent is implemented by plugins that need other plugins attached
// before them.
type Dependent interface {
	Requires() []string
}

// Shell provides the host document the application mounts into and the
// static assets it references.
type Shell interface {
	Document() (*html.Node, error)
	Assets() fs.FS
}

// Resolver maps request paths to views.
type Resolver interface {
	Resolve(path string) (view.View, bool)
	Fallback(path string) view.View
}

// App is the application handle. It is built and mounted by a single
// goroutine; once mounted it is read-only and safe to serve concurrently.
type App struct {
	root      view.View
	plugins   []string
	installed map[string]bool

	shell    Shell
	resolver Resolver
	state    view.State

	mount *mountPoint
}

// New creates an application handle rendering root.
func New(root view.View) *App {
	return &App{root: root, installed: map[string]bool{}}
}

// Use attaches p. Plugins are attached once each and only before Mount.
func (a *App) Use(p Plugin) error {
	if a.mount != nil {
		return fmt.Errorf("use %s: %w", p.Name(), ErrAlreadyMounted)
	}
	name := p.Name()
	if a.installed[name] {
		return fmt.Errorf("use %s: %w", name, ErrPluginInstalled)
	}
	if d, ok := p.(Dependent); ok {
		for _, req := range d.Requires() {
			if !a.installed[req] {
				return fmt.Errorf("use %s: requires %s: %w", name, req, ErrMissingDependency)
			}
		}
	}
	if err := p.Install(a); err != nil {
		return fmt.Errorf("use %s: %w", name, err)
	}
	a.installed[name] = true
	a.plugins = append(a.plugins, name)
	return nil
}

// Plugins returns the attached plugin names in attachment order.
func (a *App) Plugins() []string {
	return append([]string(nil), a.plugins...)
}

// Installed reports whether a plugin named name is attached.
func (a *App) Installed(name string) bool { return a.installed[name] }

func (a *App) SetShell(s Shell)       { a.shell = s }
func (a *App) SetResolver(r Resolver) { a.resolver = r }
func (a *App) SetState(s view.State)  { a.state = s }
func (a *App) Root() view.View        { return a.root }
func (a *App) Mounted() bool          { return a.mount != nil }

// Assets returns the shell's static assets, or nil without a shell.
func (a *App) Assets() fs.FS {
	if a.shell == nil {
		return nil
	}
	return a.shell.Assets()
}

// Mount attaches the application to the element selected by selector
// ("#app" or "app") in the shell document. It succeeds at most once.
func (a *App) Mount(selector string) error {
	if a.mount != nil {
		return ErrAlreadyMounted
	}
	if a.shell == nil {
		return ErrNoShell
	}
	id := strings.TrimPrefix(strings.TrimSpace(selector), "#")
	if id == "" {
		return fmt.Errorf("%w: empty selector", ErrMountAnchorMissing)
	}
	doc, err := a.shell.Document()
	if err != nil {
		return fmt.Errorf("load shell document: %w", err)
	}
	mp, err := newMountPoint(doc, id)
	if err != nil {
		return err
	}
	a.mount = mp
	system.Logger.Debug("application mounted", "anchor", "#"+id, "plugins", strings.Join(a.plugins, ","))
	return nil
}

// Resolve returns the view routed at path. Without a router nothing
// resolves.
func (a *App) Resolve(path string) (view.View, bool) {
	if a.resolver == nil {
		return nil, false
	}
	return a.resolver.Resolve(path)
}

// Render renders the whole document for path and returns it with the HTTP
// status the page should be served with.
func (a *App) Render(path string) ([]byte, int, error) {
	if a.mount == nil {
		return nil, 0, ErrNotMounted
	}
	c := view.NewContext(path, a.state)
	if a.resolver != nil {
		if v, ok := a.resolver.Resolve(path); ok {
			c.Outlet = v
		} else {
			c.Outlet = a.resolver.Fallback(path)
			c.Status = http.StatusNotFound
		}
	}
	var buf bytes.Buffer
	buf.Write(a.mount.head)
	if err := a.root.Render(&buf, c); err != nil {
		return nil, 0, fmt.Errorf("render %s: %w", path, err)
	}
	buf.Write(a.mount.tail)
	return buf.Bytes(), c.Status, nil
}

func (a *App) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	body, status, err := a.Render(r.URL.Path)
	if err != nil {
		if errors.Is(err, ErrNotMounted) {
			http.Error(w, err.Error(), http.StatusServiceUnavailable)
			return
		}
		system.Logger.Error("render failed", "path", r.URL.Path, "err", err)
		http.Error(w, "render failed", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if r.Method != http.MethodHead {
		_, _ = w.Write(body)
	}
}
