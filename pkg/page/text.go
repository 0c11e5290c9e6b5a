package page

import (
	"strings"

	"golang.org/x/net/html"
)

// visibleText approximates innerText of body: script, style and graphics
// subtrees are dropped, whitespace collapses inside inline runs and block
// boundaries become line breaks. The result is cut to maxRunes.
func visibleText(body *html.Node, maxRunes int) string {
	if body == nil {
		return ""
	}

	var tb textBuilder
	for c := body.FirstChild; c != nil; c = c.NextSibling {
		tb.node(c, false)
	}
	return Truncate(tb.b.String(), maxRunes)
}

type textBuilder struct {
	b            strings.Builder
	pendingSpace bool
	pendingBreak int
}

func (tb *textBuilder) node(n *html.Node, pre bool) {
	switch n.Type {
	case html.TextNode:
		if pre {
			tb.flush()
			tb.b.WriteString(n.Data)
			return
		}
		tb.text(n.Data)
		return
	case html.ElementNode:
	default:
		return
	}

	tag := strings.ToLower(n.Data)
	if isSkippedElement(tag) || isHidden(n) {
		return
	}
	if tag == "br" {
		tb.lineBreak(1)
		return
	}

	gap := blockGap(tag)
	tb.lineBreak(gap)
	inPre := pre || tag == "pre" || tag == "textarea"
	for c := n.FirstChild; c != nil; c = c.NextSibling {
		tb.node(c, inPre)
	}
	tb.lineBreak(gap)
	if tag == "td" || tag == "th" {
		tb.pendingSpace = true
	}
}

func (tb *textBuilder) text(s string) {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		if s != "" {
			tb.pendingSpace = true
		}
		return
	}
	if isSpace(s[0]) {
		tb.pendingSpace = true
	}
	tb.flush()
	tb.b.WriteString(strings.Join(fields, " "))
	if isSpace(s[len(s)-1]) {
		tb.pendingSpace = true
	}
}

func (tb *textBuilder) lineBreak(n int) {
	if n > tb.pendingBreak {
		tb.pendingBreak = n
	}
}

func (tb *textBuilder) flush() {
	if tb.b.Len() > 0 {
		switch {
		case tb.pendingBreak > 0:
			tb.b.WriteString(strings.Repeat("\n", tb.pendingBreak))
		case tb.pendingSpace:
			tb.b.WriteByte(' ')
		}
	}
	tb.pendingBreak = 0
	tb.pendingSpace = false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}

// isSkippedElement reports subtrees that contribute no visible text.
func isSkippedElement(tag string) bool {
	switch tag {
	case "script", "style", "noscript", "svg", "canvas", "template", "head":
		return true
	}
	return false
}

func isHidden(n *html.Node) bool {
	for _, a := range n.Attr {
		switch a.Key {
		case "hidden":
			return true
		case "style":
			style := strings.ReplaceAll(strings.ToLower(a.Val), " ", "")
			if strings.Contains(style, "display:none") || strings.Contains(style, "visibility:hidden") {
				return true
			}
		}
	}
	return false
}

// blockGap returns how many line breaks surround a block element.
func blockGap(tag string) int {
	switch tag {
	case "p", "h1", "h2", "h3", "h4", "h5", "h6", "blockquote", "pre":
		return 2
	case "div", "section", "article", "header", "footer", "nav", "main", "aside",
		"ul", "ol", "li", "table", "tr", "form", "fieldset", "figure", "figcaption",
		"dl", "dt", "dd", "hr", "address", "details", "summary":
		return 1
	}
	return 0
}

// Truncate cuts s to at most max runes. A non-positive max keeps s whole.
func Truncate(s string, max int) string {
	if max <= 0 {
		return s
	}
	count := 0
	for i := range s {
		if count == max {
			return s[:i]
		}
		count++
	}
	return s
}
