package page

import (
	"fmt"

	"github.com/cyberxai/cyberxai/pkg/protocol"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// Element ids of the overlay. They match the injected stylesheet.
const (
	OverlayID      = "cyberxai-overlay"
	overlayTitleID = "cxai-title"
	overlayBodyID  = "cxai-body"
	overlayCloseID = "cxai-close"

	// DefaultOverlayTitle is shown when a showOverlay payload has no title.
	DefaultOverlayTitle = "CyberXAI"
)

// overlayHandle points at the single overlay element of a page.
type overlayHandle struct {
	root  *html.Node
	title *html.Node
	body  *html.Node
}

// Agent is the content agent installed in one page. It reads the page and
// owns at most one overlay element.
type Agent struct {
	doc     *Document
	overlay *overlayHandle
	maxText int
}

// NewAgent installs an agent on doc. maxText bounds getPageText replies.
func NewAgent(doc *Document, maxText int) *Agent {
	return &Agent{doc: doc, maxText: maxText}
}

// Handle dispatches one page command.
func (a *Agent) Handle(cmd protocol.PageCommand) (protocol.PageReply, error) {
	switch cmd.Cmd {
	case protocol.PageCmdPing:
		return protocol.PageReply{OK: true}, nil
	case protocol.PageCmdGetSelection:
		return protocol.PageReply{Text: a.SelectionText()}, nil
	case protocol.PageCmdGetPageText:
		return protocol.PageReply{Text: a.PageText()}, nil
	case protocol.PageCmdShowOverlay:
		var title, body string
		if cmd.Payload != nil {
			title, body = cmd.Payload.Title, cmd.Payload.Body
		}
		a.ShowOverlay(title, body)
		return protocol.PageReply{}, nil
	default:
		return protocol.PageReply{}, fmt.Errorf("unknown page command %q", cmd.Cmd)
	}
}

// SelectionText returns the selection verbatim, "" when nothing is selected.
func (a *Agent) SelectionText() string {
	return a.doc.Selection()
}

// PageText returns the visible body text, cut to the agent's limit.
func (a *Agent) PageText() string {
	return visibleText(a.doc.Body(), a.maxText)
}

// ShowOverlay creates the overlay on first use and rewrites its title and
// body afterwards. Before the document has an <html> element it does nothing.
func (a *Agent) ShowOverlay(title, body string) {
	if title == "" {
		title = DefaultOverlayTitle
	}

	if a.overlay == nil || a.overlay.root.Parent == nil {
		if !a.createOverlay() {
			return
		}
	}
	setText(a.overlay.title, title)
	setText(a.overlay.body, body)
}

// Overlay returns the current overlay title and body.
func (a *Agent) Overlay() (title, body string, ok bool) {
	if a.overlay == nil || a.overlay.root.Parent == nil {
		return "", "", false
	}
	return textOf(a.overlay.title), textOf(a.overlay.body), true
}

func (a *Agent) createOverlay() bool {
	docEl := a.doc.DocumentElement()
	if docEl == nil {
		return false
	}

	// Adopt an overlay left by an earlier agent instead of adding a second one.
	if existing := a.doc.GetElementByID(OverlayID); existing != nil {
		a.doc.Remove(existing)
	}

	root := element(atom.Div, "id", OverlayID)
	card := element(atom.Div, "class", "cxai-card")
	header := element(atom.Div, "class", "cxai-header")
	title := element(atom.Span, "id", overlayTitleID)
	closeBtn := element(atom.Button, "id", overlayCloseID, "title", "Close")
	closeBtn.AppendChild(&html.Node{Type: html.TextNode, Data: "✕"})
	body := element(atom.Pre, "id", overlayBodyID)

	header.AppendChild(title)
	header.AppendChild(closeBtn)
	card.AppendChild(header)
	card.AppendChild(body)
	root.AppendChild(card)
	docEl.AppendChild(root)

	handle := &overlayHandle{root: root, title: title, body: body}
	a.doc.OnClick(closeBtn, func() {
		a.doc.Remove(handle.root)
		if a.overlay == handle {
			a.overlay = nil
		}
	})
	a.overlay = handle
	return true
}
