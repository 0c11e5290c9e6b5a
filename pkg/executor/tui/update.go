package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cyberxai/cyberxai/pkg/trigger"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// checkDoneMsg carries the outcome of one check back to the event loop.
type checkDoneMsg struct {
	outcome trigger.Outcome
}

// Update implements tea.Model.
func (m *model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case checkDoneMsg:
		m.busy = false
		m.status = statusFor(msg.outcome)
		return m, nil

	case spinner.TickMsg:
		if !m.busy {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		m.cancel()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Selection):
		return m, m.startCheck(types.ModeSelection)

	case key.Matches(msg, m.keys.Scan):
		return m, m.startCheck(types.ModePageScan)

	case key.Matches(msg, m.keys.Copy):
		text := m.popup.Output().Text()
		if text == "" {
			m.status = "Nothing to copy."
			return m, nil
		}
		if err := m.copy(text); err != nil {
			m.logger.Warnf("clipboard write failed: %v", err)
			m.status = "Copy failed."
			return m, nil
		}
		m.status = "Copied."
	}
	return m, nil
}

// startCheck runs one check off the event loop. A second action while a
// check is in flight is ignored.
func (m *model) startCheck(mode types.Mode) tea.Cmd {
	if m.busy {
		return nil
	}
	m.busy = true
	m.busyMode = mode
	m.status = ""

	ctx, popup := m.ctx, m.popup
	run := func() tea.Msg {
		return checkDoneMsg{outcome: popup.Run(ctx, mode)}
	}
	return tea.Batch(m.spinner.Tick, run)
}

func statusFor(out trigger.Outcome) string {
	switch {
	case out.Skipped:
		return "No active tab."
	case out.Abandoned:
		return "Cancelled."
	default:
		return ""
	}
}

func writeClipboard(text string) error {
	return clipboard.WriteAll(text)
}
