// Package plugins attaches the application's plugins in a fixed order.
package plugins

import (
	"errors"
	"fmt"

	"aashub/internal/app"
	"aashub/internal/router"
	"aashub/internal/store"
	"aashub/internal/system"
	"aashub/internal/uilib"
)

// ErrNilPlugin is returned when a constructor yields no plugin and no error.
var ErrNilPlugin = errors.New("constructor returned nil plugin")

// Constructor builds one plugin. Constructors run in list order, so a
// plugin is only built once everything before it is attached.
type Constructor func() (app.Plugin, error)

// Register builds and attaches each plugin in order. The first failure
// aborts registration: a partially registered application must not be
// mounted.
func Register(a *app.App, ctors ...Constructor) error {
	for i, ctor := range ctors {
		p, err := ctor()
		if err != nil {
			return fmt.Errorf("plugins: construct #%d: %w", i, err)
		}
		if p == nil {
			return fmt.Errorf("plugins: construct #%d: %w", i, ErrNilPlugin)
		}
		if err := a.Use(p); err != nil {
			return fmt.Errorf("plugins: install #%d %s: %w", i, p.Name(), err)
		}
		system.Logger.Debug("plugin installed", "name", p.Name(), "position", i)
	}
	return nil
}

// Of wraps an already built plugin as a constructor.
func Of(p app.Plugin) Constructor {
	return func() (app.Plugin, error) { return p, nil }
}

// UI returns the constructor of the UI library plugin.
func UI(opts uilib.Options) Constructor {
	return func() (app.Plugin, error) {
		lib, err := uilib.New(opts)
		if err != nil {
			return nil, err
		}
		return lib, nil
	}
}

// Store returns the constructor of the state store plugin for s.
func Store(s *store.Store) Constructor {
	return Of(s)
}

// Defaults is the application's plugin list: UI library, router, store.
func Defaults(ui uilib.Options, r *router.Router, s *store.Store) []Constructor {
	return []Constructor{UI(ui), Of(r), Store(s)}
}
