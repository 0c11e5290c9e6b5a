package host

import (
	"context"
	"encoding/json"
	"io"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/cyberxai/cyberxai/pkg/protocol"
)

// hostBehaviour answers one request by writing to w. Returning without
// writing leaves the channel silent until the client closes it.
type hostBehaviour func(req protocol.HostRequest, w io.Writer)

func respondJSON(raw string) hostBehaviour {
	return func(_ protocol.HostRequest, w io.Writer) {
		_ = protocol.WriteFrame(w, json.RawMessage(raw))
	}
}

// fakeHost is an in-process native host reached over io.Pipe.
type fakeHost struct {
	t         *testing.T
	behaviour hostBehaviour
	// hangUp closes the host's output right after reading the request.
	hangUp bool

	dials    atomic.Int32
	closes   atomic.Int32
	requests chan protocol.HostRequest
	wg       sync.WaitGroup
}

func newFakeHost(t *testing.T, behaviour hostBehaviour) *fakeHost {
	h := &fakeHost{t: t, behaviour: behaviour, requests: make(chan protocol.HostRequest, 8)}
	t.Cleanup(h.wg.Wait)
	return h
}

func (h *fakeHost) Dial(context.Context) (Channel, error) {
	h.dials.Add(1)

	hostR, clientW := io.Pipe()
	clientR, hostW := io.Pipe()

	h.wg.Add(1)
	go func() {
		defer h.wg.Done()
		defer hostW.Close()

		var req protocol.HostRequest
		if err := protocol.ReadMessage(hostR, protocol.MaxOutgoingFrame, &req); err != nil {
			return
		}
		h.requests <- req

		if h.hangUp {
			hostW.Close()
		} else if h.behaviour != nil {
			h.behaviour(req, hostW)
		}
		// Stay alive until the client hangs up.
		_, _ = io.Copy(io.Discard, hostR)
	}()

	return NewStreamChannel(clientR, clientW, func() error {
		h.closes.Add(1)
		return nil
	}), nil
}
