// Package provision makes sure a page has a responsive content agent
// before anything is asked of it.
package provision

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// ErrPageNotAccessible means the agent could not be installed in, or
// reached on, the page.
var ErrPageNotAccessible = errors.New("page not accessible")

// Target is the scripting surface of a browser.
type Target interface {
	Send(ctx context.Context, tab types.TabID, cmd protocol.PageCommand) (protocol.PageReply, error)
	InsertCSS(ctx context.Context, tab types.TabID) error
	ExecuteScript(ctx context.Context, tab types.TabID) error
}

// Options tunes the probe and injection timing.
type Options struct {
	// PingTimeout bounds the readiness probe.
	PingTimeout time.Duration
	// SettleInterval is waited after injecting, before the agent is used.
	SettleInterval time.Duration
	// CallTimeout bounds each command sent to a ready agent.
	CallTimeout time.Duration
}

// DefaultOptions matches the defaults of the provision config section.
func DefaultOptions() Options {
	return Options{
		PingTimeout:    time.Second,
		SettleInterval: 50 * time.Millisecond,
		CallTimeout:    5 * time.Second,
	}
}

// Provisioner runs the probe-then-inject protocol. Readiness is never
// cached; every call probes again.
type Provisioner struct {
	target Target
	opts   Options
	logger *logging.Logger
}

// New creates a provisioner for target.
func New(target Target, opts Options, logger *logging.Logger) *Provisioner {
	if logger == nil {
		logger = logging.Discard("provision")
	}
	return &Provisioner{target: target, opts: opts, logger: logger}
}

// Ensure probes the tab and injects the agent if the probe fails. It
// reports whether an injection happened.
func (p *Provisioner) Ensure(ctx context.Context, tab types.TabID) (bool, error) {
	if p.ping(ctx, tab) {
		return false, nil
	}
	if err := ctx.Err(); err != nil {
		return false, err
	}

	p.logger.Debugf("no agent answered in tab %s, injecting", tab)

	if err := p.target.InsertCSS(ctx, tab); err != nil {
		p.logger.Warnf("failed to insert overlay styles in tab %s: %v", tab, err)
	}
	if err := p.target.ExecuteScript(ctx, tab); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return false, ctxErr
		}
		return false, fmt.Errorf("%w: %w", ErrPageNotAccessible, err)
	}

	if err := p.settle(ctx); err != nil {
		return true, err
	}
	return true, nil
}

// Send ensures the agent and delivers cmd to it under the call timeout.
func (p *Provisioner) Send(ctx context.Context, tab types.TabID, cmd protocol.PageCommand) (protocol.PageReply, error) {
	if _, err := p.Ensure(ctx, tab); err != nil {
		return protocol.PageReply{}, err
	}

	callCtx, cancel := p.bounded(ctx, p.opts.CallTimeout)
	defer cancel()

	reply, err := p.target.Send(callCtx, tab, cmd)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return protocol.PageReply{}, ctxErr
		}
		return protocol.PageReply{}, fmt.Errorf("%w: %s: %w", ErrPageNotAccessible, cmd.Cmd, err)
	}
	return reply, nil
}

func (p *Provisioner) ping(ctx context.Context, tab types.TabID) bool {
	pingCtx, cancel := p.bounded(ctx, p.opts.PingTimeout)
	defer cancel()

	reply, err := p.target.Send(pingCtx, tab, protocol.Ping())
	if err != nil {
		p.logger.Debugf("ping tab %s: %v", tab, err)
		return false
	}
	return reply.OK
}

func (p *Provisioner) settle(ctx context.Context) error {
	if p.opts.SettleInterval <= 0 {
		return nil
	}
	timer := time.NewTimer(p.opts.SettleInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Provisioner) bounded(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
