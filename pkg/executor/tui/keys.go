package tui

import "github.com/charmbracelet/bubbles/key"

type keyMap struct {
	Selection key.Binding
	Scan      key.Binding
	Copy      key.Binding
	Quit      key.Binding
}

func defaultKeyMap() keyMap {
	return keyMap{
		Selection: key.NewBinding(
			key.WithKeys("s"),
			key.WithHelp("s", "check selection"),
		),
		Scan: key.NewBinding(
			key.WithKeys("p"),
			key.WithHelp("p", "scan page"),
		),
		Copy: key.NewBinding(
			key.WithKeys("c"),
			key.WithHelp("c", "copy result"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "close"),
		),
	}
}

// ShortHelp implements help.KeyMap.
func (k keyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Selection, k.Scan, k.Copy, k.Quit}
}

// FullHelp implements help.KeyMap.
func (k keyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{k.ShortHelp()}
}
