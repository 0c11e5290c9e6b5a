package host

import (
	"context"
	"fmt"
	"time"

	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/google/uuid"
)

// DefaultResponseTimeout bounds the wait for the host's answer.
const DefaultResponseTimeout = 30 * time.Second

// fallbackTimeout replaces a non-positive Await timeout.
var fallbackTimeout = DefaultResponseTimeout

// Bridge opens sessions to the host. It keeps no connection between
// sessions and is safe for concurrent use.
type Bridge struct {
	dialer  Dialer
	timeout time.Duration
	logger  *logging.Logger
}

// NewBridge creates a bridge. A non-positive timeout uses
// DefaultResponseTimeout; the wait is never unbounded.
func NewBridge(dialer Dialer, timeout time.Duration, logger *logging.Logger) *Bridge {
	if timeout <= 0 {
		timeout = DefaultResponseTimeout
	}
	if logger == nil {
		logger = logging.Discard("host")
	}
	return &Bridge{dialer: dialer, timeout: timeout, logger: logger}
}

// ExchangeOption customises one Exchange call.
type ExchangeOption func(*exchangeConfig)

type exchangeConfig struct {
	observer func(State)
	id       string
}

// WithObserver reports every state the session enters.
func WithObserver(fn func(State)) ExchangeOption {
	return func(c *exchangeConfig) { c.observer = fn }
}

// WithSessionID names the session in logs.
func WithSessionID(id string) ExchangeOption {
	return func(c *exchangeConfig) { c.id = id }
}

// Open establishes a new session. Failures wrap ErrHostUnavailable.
func (b *Bridge) Open(ctx context.Context, opts ...ExchangeOption) (*Session, error) {
	cfg := exchangeConfig{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.id == "" {
		cfg.id = uuid.NewString()
	}

	ch, err := b.dialer.Dial(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		b.logger.Warnf("session %s: dial failed: %v", cfg.id, err)
		return nil, fmt.Errorf("%w: %w", ErrHostUnavailable, err)
	}

	s := newSession(cfg.id, ch, b.logger, cfg.observer)
	opened := false
	defer func() {
		// Also runs when the observer panics, before the caller can defer Close.
		if !opened {
			_ = s.Close()
		}
	}()
	if err := s.transition([]State{StateIdle}, StateOpened); err != nil {
		return nil, err
	}
	opened = true
	return s, nil
}

// Exchange runs one complete session: open, send cmd with text, wait for
// the first answer, close. The session is closed exactly once on every
// path, including panics in the observer.
func (b *Bridge) Exchange(ctx context.Context, cmd protocol.Command, text string, opts ...ExchangeOption) (*protocol.HostResponse, error) {
	s, err := b.Open(ctx, opts...)
	if err != nil {
		return nil, err
	}
	defer s.Close()

	if err := s.Send(cmd, text); err != nil {
		return nil, err
	}

	resp, err := s.Await(ctx, b.timeout)
	if err != nil {
		b.logger.Warnf("session %s: %s failed: %v", s.ID(), cmd, err)
		return resp, err
	}
	b.logger.Infof("session %s: %s answered", s.ID(), cmd)
	return resp, nil
}
