// Package tui is the popup surface in a terminal: two actions, one output
// region, and a spinner while a check is in flight.
//
// The code is split the way Bubble Tea programs usually are:
// - executor.go: program lifecycle
// - model.go: state
// - update.go: message handling
// - view.go: rendering
// - keys.go: key bindings and help
// - styles.go: colours
package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/trigger"
)

// Executor runs the popup until the user closes it.
type Executor struct {
	popup   *trigger.Popup
	source  string
	logger  *logging.Logger
	program *tea.Program
}

// NewExecutor creates a popup executor. source describes the page being
// checked and is shown in the header.
func NewExecutor(popup *trigger.Popup, source string, logger *logging.Logger) *Executor {
	if logger == nil {
		logger = logging.Discard("popup")
	}
	return &Executor{popup: popup, source: source, logger: logger}
}

// Run blocks until the popup is closed. Closing the popup abandons any
// check still in flight.
func (e *Executor) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	m := newModel(ctx, cancel, e.popup, e.source, e.logger)
	e.program = tea.NewProgram(m, tea.WithAltScreen())

	e.logger.Infof("popup opened for %s", e.source)
	if _, err := e.program.Run(); err != nil {
		return fmt.Errorf("failed to run popup: %w", err)
	}
	e.logger.Infof("popup closed")
	return nil
}
