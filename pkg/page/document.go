package page

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Document is a parsed page plus the user state a real browser keeps
// beside the tree: the current selection and element click handlers.
// It is not safe for concurrent use; a Context serialises access.
type Document struct {
	root      *html.Node
	selection string
	handlers  map[*html.Node]func()
	styles    []string
}

// ParseDocument parses an HTML page.
func ParseDocument(r io.Reader) (*Document, error) {
	root, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return &Document{root: root, handlers: make(map[*html.Node]func())}, nil
}

// NewDocument parses rawHTML.
func NewDocument(rawHTML string) (*Document, error) {
	return ParseDocument(strings.NewReader(rawHTML))
}

// emptyDocument is a document that has not started loading; it has no
// <html> element at all.
func emptyDocument() *Document {
	return &Document{
		root:     &html.Node{Type: html.DocumentNode},
		handlers: make(map[*html.Node]func()),
	}
}

// DocumentElement returns the <html> element, or nil before the document loads.
func (d *Document) DocumentElement() *html.Node {
	for c := d.root.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Html {
			return c
		}
	}
	return nil
}

// Body returns the <body> element, or nil.
func (d *Document) Body() *html.Node {
	el := d.DocumentElement()
	if el == nil {
		return nil
	}
	for c := el.FirstChild; c != nil; c = c.NextSibling {
		if c.Type == html.ElementNode && c.DataAtom == atom.Body {
			return c
		}
	}
	return nil
}

// Selection returns the current selection verbatim.
func (d *Document) Selection() string { return d.selection }

// SetSelection records what the user has selected.
func (d *Document) SetSelection(text string) { d.selection = text }

// GetElementByID returns the first element in tree order with the id.
func (d *Document) GetElementByID(id string) *html.Node {
	var found *html.Node
	walk(d.root, func(n *html.Node) bool {
		if found != nil {
			return false
		}
		if n.Type == html.ElementNode && attr(n, "id") == id {
			found = n
			return false
		}
		return true
	})
	return found
}

// CountByID counts elements carrying id.
func (d *Document) CountByID(id string) int {
	count := 0
	walk(d.root, func(n *html.Node) bool {
		if n.Type == html.ElementNode && attr(n, "id") == id {
			count++
		}
		return true
	})
	return count
}

// OnClick registers the activation handler for n, replacing any previous one.
func (d *Document) OnClick(n *html.Node, fn func()) {
	d.handlers[n] = fn
}

// Click activates the element with id. It reports whether a handler ran.
func (d *Document) Click(id string) bool {
	n := d.GetElementByID(id)
	if n == nil {
		return false
	}
	fn, ok := d.handlers[n]
	if !ok {
		return false
	}
	fn()
	return true
}

// Remove detaches n and forgets handlers registered on its subtree.
func (d *Document) Remove(n *html.Node) {
	walk(n, func(c *html.Node) bool {
		delete(d.handlers, c)
		return true
	})
	if n.Parent != nil {
		n.Parent.RemoveChild(n)
	}
}

// AddStyle installs a stylesheet. Installing the same sheet twice is a no-op.
func (d *Document) AddStyle(css string) {
	for _, s := range d.styles {
		if s == css {
			return
		}
	}
	d.styles = append(d.styles, css)
}

// Styles returns the installed stylesheets.
func (d *Document) Styles() []string { return append([]string(nil), d.styles...) }

// Render serialises the tree.
func (d *Document) Render() string {
	var b strings.Builder
	if err := html.Render(&b, d.root); err != nil {
		return ""
	}
	return b.String()
}

// walk visits n and its descendants depth-first. Returning false from fn
// skips the node's children.
func walk(n *html.Node, fn func(*html.Node) bool) {
	if !fn(n) {
		return
	}
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		walk(c, fn)
		c = next
	}
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func element(tag atom.Atom, attrs ...string) *html.Node {
	n := &html.Node{Type: html.ElementNode, DataAtom: tag, Data: tag.String()}
	for i := 0; i+1 < len(attrs); i += 2 {
		n.Attr = append(n.Attr, html.Attribute{Key: attrs[i], Val: attrs[i+1]})
	}
	return n
}

// setText replaces n's children with a single text node.
func setText(n *html.Node, text string) {
	for c := n.FirstChild; c != nil; {
		next := c.NextSibling
		n.RemoveChild(c)
		c = next
	}
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
}

// textOf concatenates the text nodes under n.
func textOf(n *html.Node) string {
	var b strings.Builder
	walk(n, func(c *html.Node) bool {
		if c.Type == html.TextNode {
			b.WriteString(c.Data)
		}
		return true
	})
	return b.String()
}
