package app

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"golang.org/x/net/html"
)

const outletMarkerPrefix = "aashub-outlet-"

// mountPoint is the shell document pre-rendered around the anchor element,
// so a page is head + root view + tail.
type mountPoint struct {
	id   string
	head []byte
	tail []byte
}

func newMountPoint(doc *html.Node, id string) (*mountPoint, error) {
	anchor := findByID(doc, id)
	if anchor == nil {
		return nil, fmt.Errorf("%w: #%s", ErrMountAnchorMissing, id)
	}
	// mounting replaces whatever placeholder content the anchor had
	for c := anchor.FirstChild; c != nil; {
		next := c.NextSibling
		anchor.RemoveChild(c)
		c = next
	}
	// unique per mount so a marker-like comment already in the shell cannot match
	outletMarker := outletMarkerPrefix + uuid.NewString()
	anchor.AppendChild(&html.Node{Type: html.CommentNode, Data: outletMarker})

	var buf bytes.Buffer
	if err := html.Render(&buf, doc); err != nil {
		return nil, fmt.Errorf("render shell document: %w", err)
	}
	marker := []byte("<!--" + outletMarker + "-->")
	b := buf.Bytes()
	i := bytes.Index(b, marker)
	if i < 0 {
		return nil, errors.New("outlet marker lost while rendering shell document")
	}
	return &mountPoint{
		id:   id,
		head: append([]byte(nil), b[:i]...),
		tail: append([]byte(nil), b[i+len(marker):]...),
	}, nil
}

func findByID(n *html.Node, id string) *html.Node {
	if n.Type == html.ElementNode {
		for _, attr := range n.Attr {
			if attr.Namespace == "" && attr.Key == "id" && attr.Val == id {
				return n
			}
		}
	}
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		if found := findByID(c, id); found != nil {
			return found
		}
	}
	return nil
}
