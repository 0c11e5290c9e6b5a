package host

import (
	"context"
	"errors"
	"io"
	"os"
	"sync"

	"github.com/cyberxai/cyberxai/pkg/protocol"
)

// Channel is one duplex connection to the host. Close must unblock a
// pending Receive and may be called more than once.
type Channel interface {
	Send(req protocol.HostRequest) error
	Receive() ([]byte, error)
	Close() error
}

// Dialer opens channels to the host.
type Dialer interface {
	Dial(ctx context.Context) (Channel, error)
}

// DialFunc adapts a function to Dialer.
type DialFunc func(ctx context.Context) (Channel, error)

// Dial calls f.
func (f DialFunc) Dial(ctx context.Context) (Channel, error) { return f(ctx) }

// StreamChannel speaks native messaging framing over a reader/writer pair.
type StreamChannel struct {
	r       io.ReadCloser
	w       io.WriteCloser
	onClose func() error

	closeOnce sync.Once
	closeErr  error
}

// NewStreamChannel wraps r and w. onClose, if set, runs after both ends
// are closed and its error is returned from Close.
func NewStreamChannel(r io.ReadCloser, w io.WriteCloser, onClose func() error) *StreamChannel {
	return &StreamChannel{r: r, w: w, onClose: onClose}
}

// Send writes one framed request.
func (c *StreamChannel) Send(req protocol.HostRequest) error {
	return protocol.WriteFrame(c.w, req)
}

// Receive reads one framed message. io.EOF means the host closed the
// stream cleanly before sending anything.
func (c *StreamChannel) Receive() ([]byte, error) {
	return protocol.ReadFrame(c.r, protocol.MaxIncomingFrame)
}

// Close closes the write side first so the host sees end of input.
func (c *StreamChannel) Close() error {
	c.closeOnce.Do(func() {
		errW := c.w.Close()
		var errHook error
		if c.onClose != nil {
			errHook = c.onClose()
		}
		errR := c.r.Close()
		if errors.Is(errR, os.ErrClosed) {
			// The process reaper may already have closed the read side.
			errR = nil
		}
		c.closeErr = errors.Join(errW, errHook, errR)
	})
	return c.closeErr
}
