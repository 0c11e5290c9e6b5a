package tui

import "github.com/charmbracelet/lipgloss"

var (
	salmonPink  = lipgloss.Color("#FFB3BA")
	mintGreen   = lipgloss.Color("#A8E6CF")
	mutedGray   = lipgloss.Color("#6B7280")
	brightWhite = lipgloss.Color("#F9FAFB")
)

var (
	headerStyle = lipgloss.NewStyle().
			Foreground(salmonPink).
			Bold(true)

	sourceStyle = lipgloss.NewStyle().
			Foreground(mutedGray)

	outputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(salmonPink).
			Foreground(brightWhite).
			Padding(0, 1)

	placeholderStyle = lipgloss.NewStyle().
				Foreground(mutedGray).
				Italic(true)

	statusStyle = lipgloss.NewStyle().
			Foreground(mintGreen)

	spinnerStyle = lipgloss.NewStyle().
			Foreground(salmonPink)
)
