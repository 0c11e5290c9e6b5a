package tui

import (
	"fmt"
	"strings"

	"github.com/cyberxai/cyberxai/pkg/types"
)

// View implements tea.Model.
func (m *model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(headerStyle.Render("CyberXAI"))
	if m.source != "" {
		b.WriteString(" " + sourceStyle.Render(m.source))
	}
	b.WriteString("\n\n")

	b.WriteString(outputStyle.Width(m.boxWidth()).Render(m.outputText()))
	b.WriteString("\n")

	if m.busy {
		b.WriteString(fmt.Sprintf("%s %s\n", m.spinner.View(), busyLabel(m.busyMode)))
	} else if m.status != "" {
		b.WriteString(statusStyle.Render(m.status) + "\n")
	}

	b.WriteString("\n" + m.help.View(m.keys))
	return b.String()
}

func (m *model) outputText() string {
	text := m.popup.Output().Text()
	if text == "" {
		return placeholderStyle.Render("Choose an action.")
	}
	return text
}

func (m *model) boxWidth() int {
	if m.width <= 4 {
		return 40
	}
	return m.width - 4
}

func busyLabel(mode types.Mode) string {
	if mode == types.ModePageScan {
		return "Scanning page..."
	}
	return "Checking selection..."
}
