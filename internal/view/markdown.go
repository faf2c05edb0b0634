package view

import (
	"bytes"
	"fmt"
	"io"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
)

// Markdowner is implemented by views that have a markdown source, so they
// can be previewed outside the browser.
type Markdowner interface {
	Markdown() string
}

var md = goldmark.New(goldmark.WithExtensions(extension.GFM))

type markdownView struct {
	name   string
	source string
	html   []byte
}

// Markdown converts source to HTML once and returns a view serving it.
func Markdown(name, source string) (View, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(source), &buf); err != nil {
		return nil, fmt.Errorf("view %s: markdown: %w", name, err)
	}
	return &markdownView{name: name, source: source, html: buf.Bytes()}, nil
}

func (v *markdownView) Name() string     { return v.name }
func (v *markdownView) Markdown() string { return v.source }

func (v *markdownView) Render(w io.Writer, _ *Context) error {
	_, err := w.Write(v.html)
	return err
}
