// Package trigger holds the user entry points: the page menu and the
// popup. Both run the same check and differ only in where and how the
// result is shown.
package trigger

import (
	"context"
	"errors"
	"fmt"

	"github.com/cyberxai/cyberxai/pkg/host"
	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/cyberxai/cyberxai/pkg/provision"
	"github.com/cyberxai/cyberxai/pkg/types"
	"github.com/google/uuid"
)

// TabResolver finds the tab a trigger acts on.
type TabResolver interface {
	Active(ctx context.Context) (types.TabID, bool)
}

// Exchanger runs one host session.
type Exchanger interface {
	Exchange(ctx context.Context, cmd protocol.Command, text string, opts ...host.ExchangeOption) (*protocol.HostResponse, error)
}

// Deps are the collaborators shared by every controller.
type Deps struct {
	Tabs   TabResolver
	Pages  PageClient
	Bridge Exchanger
	Logger *logging.Logger
	Emit   types.EventEmitter
}

// Controller runs checks end to end and shows exactly one message per run.
type Controller struct {
	name    string
	tabs    TabResolver
	pages   PageClient
	bridge  Exchanger
	surface Surface
	style   Style
	logger  *logging.Logger
	emit    types.EventEmitter
	newID   func() string
}

// New creates a controller that shows results on surface with style.
func New(name string, deps Deps, surface Surface, style Style) *Controller {
	logger := deps.Logger
	if logger == nil {
		logger = logging.Discard("trigger")
	}
	emit := deps.Emit
	if emit == nil {
		emit = types.NopEmitter
	}
	return &Controller{
		name:    name,
		tabs:    deps.Tabs,
		pages:   deps.Pages,
		bridge:  deps.Bridge,
		surface: surface,
		style:   style,
		logger:  logger.With(name),
		emit:    emit,
		newID:   uuid.NewString,
	}
}

// Outcome describes how one run ended.
type Outcome struct {
	RequestID string
	Tab       types.TabID
	Mode      types.Mode
	// Skipped is set when there was no tab to act on.
	Skipped bool
	// Abandoned is set when the caller went away before anything was shown.
	Abandoned bool
	Shown     bool
	Message   Message
	Kind      types.ErrorKind
	Err       error
}

// run is the state of one invocation.
type run struct {
	c   *Controller
	out Outcome
}

// Run performs one check of mode against the active tab.
func (c *Controller) Run(ctx context.Context, mode types.Mode) (out Outcome) {
	tab, ok := c.tabs.Active(ctx)
	if !ok {
		c.logger.Debugf("%s check ignored: no active tab", mode)
		return Outcome{Mode: mode, Skipped: true}
	}

	r := &run{c: c, out: Outcome{RequestID: c.newID(), Tab: tab, Mode: mode}}
	c.emit(types.NewCheckStartedEvent(r.out.RequestID, tab, mode))
	c.logger.Infof("request %s: %s check on tab %s", r.out.RequestID, mode, tab)

	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("panic: %v", p)
			c.logger.Errorf("request %s: %v", r.out.RequestID, err)
			r.fail(ctx, types.KindUnexpectedFailure, err)
		}
		out = r.out
	}()

	r.check(ctx)
	return r.out
}

func (r *run) check(ctx context.Context) {
	c, id, tab, mode := r.c, r.out.RequestID, r.out.Tab, r.out.Mode

	reply, err := c.pages.Send(ctx, tab, mode.PageCommand())
	if err != nil {
		r.fail(ctx, pageErrorKind(err), err)
		return
	}

	req, ok := types.NewRequest(id, mode, tab, reply.Text)
	if !ok {
		r.fail(ctx, types.KindNoTextFound, types.ErrNoText)
		return
	}
	c.emit(types.NewTextExtractedEvent(id, tab, mode, len(req.Text)))

	resp, err := c.bridge.Exchange(ctx, mode.Command(), req.Text,
		host.WithSessionID(id),
		host.WithObserver(func(s host.State) {
			switch s {
			case host.StateOpened:
				c.emit(types.NewSessionOpenedEvent(id, tab, mode))
			case host.StateClosed:
				c.emit(types.NewSessionClosedEvent(id, tab, mode))
			}
		}),
	)
	if err != nil {
		r.fail(ctx, hostErrorKind(err), err)
		return
	}

	msg, err := r.render(resp)
	if err != nil {
		r.fail(ctx, types.KindHostError, err)
		return
	}
	r.show(ctx, msg)
}

func (r *run) render(resp *protocol.HostResponse) (Message, error) {
	switch r.out.Mode.Command() {
	case protocol.CommandScan:
		result, err := resp.Scan()
		if err != nil {
			return Message{}, err
		}
		return r.c.style.ScanReport(result), nil
	default:
		result, err := resp.Classify()
		if err != nil {
			return Message{}, err
		}
		return r.c.style.Verdict(result), nil
	}
}

// fail shows the notice for kind, unless the caller has gone away.
func (r *run) fail(ctx context.Context, kind types.ErrorKind, err error) {
	if r.out.Shown {
		return
	}
	if ctxErr := ctx.Err(); ctxErr != nil && errors.Is(err, ctxErr) {
		r.abandon(ctxErr)
		return
	}

	r.out.Kind = kind
	r.out.Err = types.NewCheckError(kind, err)
	r.c.logger.Warnf("request %s: %s: %v", r.out.RequestID, kind, err)
	r.c.emit(types.NewCheckFailedEvent(r.out.RequestID, r.out.Tab, r.out.Mode, kind, err))
	r.show(ctx, r.c.style.Notice(kind, r.out.Mode, err))
}

// show hands msg to the surface at most once per run.
func (r *run) show(ctx context.Context, msg Message) {
	if r.out.Shown || r.out.Abandoned {
		return
	}
	if err := ctx.Err(); err != nil {
		r.abandon(err)
		return
	}

	r.out.Shown = true
	r.out.Message = msg
	if err := r.c.surface.Show(ctx, r.out.Tab, msg); err != nil {
		r.c.logger.Errorf("request %s: could not display result: %v", r.out.RequestID, err)
	}
	r.c.emit(types.NewResultShownEvent(r.out.RequestID, r.out.Tab, r.out.Mode, msg.Title, msg.Body))
}

func (r *run) abandon(err error) {
	if r.out.Abandoned {
		return
	}
	r.out.Abandoned = true
	r.out.Err = err
	r.c.logger.Infof("request %s: abandoned: %v", r.out.RequestID, err)
	r.c.emit(types.NewCheckAbandonedEvent(r.out.RequestID, r.out.Tab, r.out.Mode, err))
}

func pageErrorKind(err error) types.ErrorKind {
	if errors.Is(err, provision.ErrPageNotAccessible) {
		return types.KindPageUnreachable
	}
	return types.KindUnexpectedFailure
}

func hostErrorKind(err error) types.ErrorKind {
	switch {
	case errors.Is(err, host.ErrHostUnavailable):
		return types.KindHostUnavailable
	case errors.Is(err, host.ErrHostError):
		return types.KindHostError
	default:
		return types.KindUnexpectedFailure
	}
}
