package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/trigger"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// checker is the part of trigger.Popup the model needs.
type checker interface {
	Run(ctx context.Context, mode types.Mode) trigger.Outcome
	Output() *trigger.Output
}

// model is the popup's state.
type model struct {
	spinner spinner.Model
	help    help.Model
	keys    keyMap

	popup  checker
	source string
	logger *logging.Logger

	// ctx lives as long as the popup; cancel abandons in-flight checks.
	ctx    context.Context
	cancel context.CancelFunc

	busy     bool
	busyMode types.Mode
	status   string
	width    int
	quitting bool

	// copy writes to the system clipboard; replaced in tests.
	copy func(string) error
}

func newModel(ctx context.Context, cancel context.CancelFunc, popup checker, source string, logger *logging.Logger) *model {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle

	return &model{
		spinner: s,
		help:    help.New(),
		keys:    defaultKeyMap(),
		popup:   popup,
		source:  source,
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
		width:   60,
		copy:    writeClipboard,
	}
}

// Init implements tea.Model.
func (m *model) Init() tea.Cmd {
	return nil
}
