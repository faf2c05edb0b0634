// Package bootstrap builds the application handle: it creates the root
// view, attaches the plugins in order and mounts the result.
package bootstrap

import (
	"fmt"
	"io/fs"

	"aashub/internal/app"
	"aashub/internal/config"
	"aashub/internal/pages"
	"aashub/internal/plugins"
	"aashub/internal/router"
	"aashub/internal/store"
	"aashub/internal/system"
	"aashub/internal/uilib"
	appver "aashub/internal/version"
	webembed "aashub/internal/webui/embed"
)

// Options controls New. Zero fields use the embedded defaults.
type Options struct {
	// Assets replaces the embedded shell document and assets.
	Assets fs.FS
}

// Result holds the objects built during bootstrap. The caller owns them.
type Result struct {
	App    *app.App
	Router *router.Router
	Store  *store.Store
}

// New runs the startup sequence: root view, plugins (UI library, router,
// store), mount. Any failure aborts startup; no partially built
// application is returned.
func New(cfg config.Config, opts Options) (*Result, error) {
	root, err := pages.App()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: root view: %w", err)
	}
	routes, err := pages.Routes()
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	r, err := router.New(routes)
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	s := store.New()
	if err := s.Define(pages.InfoState, pages.Info{Title: cfg.UI.Title, Version: appver.AppVersion}); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}

	assets := opts.Assets
	if assets == nil {
		assets = webembed.Dist()
	}
	ui := uilib.Options{FS: assets, Title: cfg.UI.Title, Theme: cfg.UI.Theme}

	a := app.New(root)
	if err := plugins.Register(a, plugins.Defaults(ui, r, s)...); err != nil {
		return nil, fmt.Errorf("bootstrap: %w", err)
	}
	if err := a.Mount(cfg.UI.Mount); err != nil {
		return nil, fmt.Errorf("bootstrap: mount %s: %w", cfg.UI.Mount, err)
	}
	system.Logger.Info("application mounted", "anchor", cfg.UI.Mount, "routes", len(routes))
	return &Result{App: a, Router: r, Store: s}, nil
}
