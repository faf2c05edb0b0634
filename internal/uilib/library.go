// Package uilib is the UI library plugin: it owns the shell document the
// application mounts into, its static assets and the page theme.
package uilib

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"

	"aashub/internal/app"
)

const shellDocument = "index.html"

var ErrUnknownTheme = errors.New("unknown theme")

// Themes lists the accepted theme names.
var Themes = []string{"light", "dark"}

// Options configures a Library.
type Options struct {
	// FS holds index.html at its root and the assets it references.
	FS    fs.FS
	Title string
	Theme string
}

// Library serves the shell document and assets.
type Library struct {
	fs    fs.FS
	title string
	theme string
}

// New validates opts and returns a library. An empty theme means "light".
func New(opts Options) (*Library, error) {
	if opts.FS == nil {
		return nil, errors.New("uilib: no asset filesystem")
	}
	if _, err := fs.Stat(opts.FS, shellDocument); err != nil {
		return nil, fmt.Errorf("uilib: shell document: %w", err)
	}
	theme := strings.ToLower(strings.TrimSpace(opts.Theme))
	if theme == "" {
		theme = "light"
	}
	if !validTheme(theme) {
		return nil, fmt.Errorf("uilib: %q: %w", opts.Theme, ErrUnknownTheme)
	}
	return &Library{fs: opts.FS, title: strings.TrimSpace(opts.Title), theme: theme}, nil
}

func validTheme(t string) bool {
	for _, s := range Themes {
		if s == t {
			return true
		}
	}
	return false
}

func (l *Library) Name() string  { return "ui" }
func (l *Library) Title() string { return l.title }
func (l *Library) Theme() string { return l.theme }
func (l *Library) Assets() fs.FS { return l.fs }

func (l *Library) Install(a *app.App) error {
	a.SetShell(l)
	return nil
}

// Document parses a fresh copy of the shell document with the title and
// theme applied.
func (l *Library) Document() (*html.Node, error) {
	f, err := l.fs.Open(shellDocument)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	doc, err := html.Parse(f)
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", shellDocument, err)
	}
	if root := find(doc, atom.Html); root != nil {
		setAttr(root, "data-theme", l.theme)
	}
	if l.title != "" {
		setTitle(doc, l.title)
	}
	return doc, nil
}

func setTitle(doc *html.Node, title string) {
	t := find(doc, atom.Title)
	if t == nil {
		head := find(doc, atom.Head)
		if head == nil {
			return
		}
		t = &html.Node{Type: html.ElementNode, DataAtom: atom.Title, Data: "title"}
		head.AppendChild(t)
	}
	for c := t.FirstChild; c != nil; {
		next := c.NextSibling
		t.RemoveChild(c)
		c = next
	}
	t.AppendChild(&html.Node{Type: html.TextNode, Data: title})
}

func setAttr(n *html.Node, key, val string) {
	for i := range n.Attr {
		if n.Attr[i].Key == key {
			n.Attr[i].Val = val
			return
		}
	}
	n.Attr = append(n.Attr, html.Attribute{Key: key, Val: val})
}

func find(n *html.Node, a atom.Atom) *html.Node {
	if n.Type == html.ElementNode && n.DataAtom == a {
		return n
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := find(c, a); found != nil {
			return found
		}
	}
	return nil
}
