// Package host talks to the native classification host. Every check gets
// its own short-lived Session: open, one send, one answer, close.
package host

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/protocol"
)

var (
	// ErrHostUnavailable means the host could not be started or reached.
	ErrHostUnavailable = errors.New("native host unavailable")

	// ErrHostError means the host answered with a failure, an unexpected
	// shape, or nothing at all.
	ErrHostError = errors.New("native host error")

	// ErrSessionState means a session operation was used out of order.
	ErrSessionState = errors.New("invalid session state")
)

// State is a session's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateOpened
	StateAwaitingResponse
	StateResolved
	StateHostError
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateOpened:
		return "opened"
	case StateAwaitingResponse:
		return "awaiting_response"
	case StateResolved:
		return "resolved"
	case StateHostError:
		return "host_error"
	case StateClosed:
		return "closed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

type received struct {
	data []byte
	err  error
}

// Session is one request/response exchange with the host.
type Session struct {
	id       string
	ch       Channel
	logger   *logging.Logger
	observer func(State)

	mu    sync.Mutex
	state State
	cmd   protocol.Command

	inbox      chan received
	readerDone chan struct{}
	closeOnce  sync.Once
	closeErr   error
}

func newSession(id string, ch Channel, logger *logging.Logger, observer func(State)) *Session {
	return &Session{
		id:       id,
		ch:       ch,
		logger:   logger,
		observer: observer,
		state:    StateIdle,
	}
}

// ID returns the session id used in logs.
func (s *Session) ID() string { return s.id }

// State returns the current state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Session) transition(from []State, to State) error {
	s.mu.Lock()
	ok := false
	for _, f := range from {
		if s.state == f {
			ok = true
			break
		}
	}
	if !ok {
		cur := s.state
		s.mu.Unlock()
		return fmt.Errorf("%w: %s -> %s", ErrSessionState, cur, to)
	}
	s.state = to
	s.mu.Unlock()

	s.logger.Debugf("session %s: %s", s.id, to)
	if s.observer != nil {
		s.observer(to)
	}
	return nil
}

// Send writes the session's single request and starts waiting for the
// first message. A second Send fails with ErrSessionState.
func (s *Session) Send(cmd protocol.Command, text string) error {
	return s.SendRequest(protocol.HostRequest{Cmd: cmd, Text: text})
}

// SendRequest is Send for a prebuilt request, such as a batch.
func (s *Session) SendRequest(req protocol.HostRequest) error {
	if err := s.transition([]State{StateOpened}, StateAwaitingResponse); err != nil {
		return err
	}
	s.mu.Lock()
	s.cmd = req.Cmd
	s.mu.Unlock()

	// The reader hands over at most one message and never blocks on it,
	// so it exits as soon as Close unblocks Receive.
	s.inbox = make(chan received, 1)
	s.readerDone = make(chan struct{})
	go func() {
		defer close(s.readerDone)
		data, err := s.ch.Receive()
		s.inbox <- received{data: data, err: err}
	}()

	if err := s.ch.Send(req); err != nil {
		s.fail()
		return fmt.Errorf("%w: failed to send %s: %w", ErrHostError, req.Cmd, err)
	}
	return nil
}

// Await returns the host's first message, bounded by timeout and ctx. A
// non-positive timeout uses DefaultResponseTimeout. The channel is closed
// before Await returns, whatever the outcome.
func (s *Session) Await(ctx context.Context, timeout time.Duration) (*protocol.HostResponse, error) {
	if s.State() != StateAwaitingResponse {
		return nil, fmt.Errorf("%w: await in state %s", ErrSessionState, s.State())
	}
	defer s.Close()

	if timeout <= 0 {
		timeout = fallbackTimeout
	}
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case msg := <-s.inbox:
		return s.resolve(msg)
	case <-timer.C:
		s.fail()
		return nil, fmt.Errorf("%w: no response within %v", ErrHostError, timeout)
	case <-ctx.Done():
		s.fail()
		return nil, ctx.Err()
	}
}

func (s *Session) resolve(msg received) (*protocol.HostResponse, error) {
	if msg.err != nil {
		s.fail()
		if errors.Is(msg.err, io.EOF) {
			return nil, fmt.Errorf("%w: channel closed before any message", ErrHostError)
		}
		return nil, fmt.Errorf("%w: %w", ErrHostError, msg.err)
	}

	var resp protocol.HostResponse
	if err := json.Unmarshal(msg.data, &resp); err != nil {
		s.fail()
		return nil, fmt.Errorf("%w: undecodable response: %w", ErrHostError, err)
	}

	s.mu.Lock()
	cmd := s.cmd
	s.mu.Unlock()

	if !resp.OK {
		s.fail()
		if resp.Error != "" {
			return &resp, fmt.Errorf("%w: %s", ErrHostError, resp.Error)
		}
		return &resp, fmt.Errorf("%w: host reported failure", ErrHostError)
	}
	if resp.Mode != cmd {
		s.fail()
		return &resp, fmt.Errorf("%w: expected mode %q, got %q", ErrHostError, cmd, resp.Mode)
	}

	if err := s.transition([]State{StateAwaitingResponse}, StateResolved); err != nil {
		return nil, err
	}
	return &resp, nil
}

func (s *Session) fail() {
	_ = s.transition([]State{StateOpened, StateAwaitingResponse}, StateHostError)
}

// Close releases the channel. It runs exactly once; later calls return
// the first result.
func (s *Session) Close() error {
	s.closeOnce.Do(func() {
		s.closeErr = s.ch.Close()
		if s.readerDone != nil {
			<-s.readerDone
		}
		s.mu.Lock()
		s.state = StateClosed
		s.mu.Unlock()

		s.logger.Debugf("session %s: %s", s.id, StateClosed)
		if s.observer != nil {
			s.observer(StateClosed)
		}
	})
	return s.closeErr
}
