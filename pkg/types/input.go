package types

import (
	"strings"

	"github.com/cyberxai/cyberxai/pkg/protocol"
)

// TabID identifies a page context.
type TabID string

// Mode selects what a trigger checks.
type Mode string

const (
	ModeSelection Mode = "selection" // ModeSelection checks the user's text selection.
	ModePageScan  Mode = "page_scan" // ModePageScan scans the whole visible page.
)

// Command returns the host command for the mode.
func (m Mode) Command() protocol.Command {
	if m == ModePageScan {
		return protocol.CommandScan
	}
	return protocol.CommandClassify
}

// PageCommand returns the agent command that extracts text for the mode.
func (m Mode) PageCommand() protocol.PageCommand {
	if m == ModePageScan {
		return protocol.GetPageText()
	}
	return protocol.GetSelectionText()
}

// Request is one user-initiated check. It lives for a single round trip
// and is never persisted.
type Request struct {
	ID     string
	Mode   Mode
	Source TabID
	Text   string
}

// NewRequest trims text and reports whether anything is left to check.
func NewRequest(id string, mode Mode, source TabID, text string) (*Request, bool) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return nil, false
	}
	return &Request{ID: id, Mode: mode, Source: source, Text: trimmed}, true
}
