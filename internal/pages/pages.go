// Package pages holds the application's views and its route table.
package pages

import (
	"embed"
	"fmt"

	"aashub/internal/router"
	"aashub/internal/view"
)

//go:embed content
var content embed.FS

// InfoState is the store id of the Info shown in the page chrome.
const InfoState = "app"

// Info is the application metadata rendered by the root view.
type Info struct {
	Title   string
	Version string
}

// App returns the root view: the page chrome with the routed view in its
// main area.
func App() (view.View, error) {
	b, err := content.ReadFile("content/App.html")
	if err != nil {
		return nil, err
	}
	return view.ParseTemplate("App", string(b)), nil
}

// HelloWorld returns the landing page.
func HelloWorld() (view.View, error) {
	b, err := content.ReadFile("content/HelloWorld.md")
	if err != nil {
		return nil, err
	}
	return view.Markdown("HelloWorld", string(b))
}

// Routes returns the route table.
func Routes() ([]router.Route, error) {
	hello, err := HelloWorld()
	if err != nil {
		return nil, fmt.Errorf("pages: %w", err)
	}
	return []router.Route{
		{Path: "/", View: hello},
	}, nil
}
