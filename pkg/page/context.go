package page

import (
	"context"
	"fmt"
	"sync"

	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// Context is one page's isolated event loop. The document, the installed
// agent and the URL are only touched from the loop goroutine.
type Context struct {
	id    types.TabID
	ops   chan func()
	done  chan struct{}
	once  sync.Once
	guard *URLGuard

	// loop-owned
	url        string
	doc        *Document
	agent      *Agent
	maxText    int
	injections int
}

func newContext(id types.TabID, url string, doc *Document, guard *URLGuard, maxText int) *Context {
	c := &Context{
		id:      id,
		ops:     make(chan func()),
		done:    make(chan struct{}),
		guard:   guard,
		url:     url,
		doc:     doc,
		maxText: maxText,
	}
	go c.loop()
	return c
}

func (c *Context) loop() {
	for {
		select {
		case op := <-c.ops:
			op()
		case <-c.done:
			return
		}
	}
}

// ID returns the tab id.
func (c *Context) ID() types.TabID { return c.id }

// do runs fn on the loop and waits for its result, the caller's ctx, or
// the context's destruction, whichever comes first.
func (c *Context) do(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	result := make(chan error, 1)
	op := func() { result <- fn() }

	select {
	case c.ops <- op:
	case <-c.done:
		return ErrContextGone
	case <-ctx.Done():
		return ctx.Err()
	}

	select {
	case err := <-result:
		return err
	case <-c.done:
		return ErrContextGone
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Send delivers a command to the page's agent.
func (c *Context) Send(ctx context.Context, cmd protocol.PageCommand) (protocol.PageReply, error) {
	var reply protocol.PageReply
	err := c.do(ctx, func() error {
		if c.agent == nil {
			return ErrNoReceiver
		}
		var err error
		reply, err = c.agent.Handle(cmd)
		return err
	})
	return reply, err
}

// InsertCSS installs the overlay stylesheet.
func (c *Context) InsertCSS(ctx context.Context, css string) error {
	return c.do(ctx, func() error {
		if c.guard.Blocks(c.url) {
			return fmt.Errorf("%w: %s", ErrNotScriptable, c.url)
		}
		c.doc.AddStyle(css)
		return nil
	})
}

// ExecuteScript installs a content agent. Every call installs a fresh
// agent, which is why callers probe before injecting.
func (c *Context) ExecuteScript(ctx context.Context) error {
	return c.do(ctx, func() error {
		if c.guard.Blocks(c.url) {
			return fmt.Errorf("%w: %s", ErrNotScriptable, c.url)
		}
		c.agent = NewAgent(c.doc, c.maxText)
		c.injections++
		return nil
	})
}

// Navigate replaces the document. The agent does not survive navigation.
func (c *Context) Navigate(ctx context.Context, url string, doc *Document) error {
	return c.do(ctx, func() error {
		c.url = url
		c.doc = doc
		c.agent = nil
		return nil
	})
}

// Select sets the user's selection.
func (c *Context) Select(ctx context.Context, text string) error {
	return c.do(ctx, func() error {
		c.doc.SetSelection(text)
		return nil
	})
}

// DismissOverlay activates the overlay's close button, as a user would.
// It reports whether an overlay was removed.
func (c *Context) DismissOverlay(ctx context.Context) (bool, error) {
	var removed bool
	err := c.do(ctx, func() error {
		removed = c.doc.Click(overlayCloseID)
		return nil
	})
	return removed, err
}

// Snapshot is a read-only view of a page taken on its loop.
type Snapshot struct {
	URL          string
	HTML         string
	Styles       []string
	HasAgent     bool
	Injections   int
	OverlayCount int
	OverlayTitle string
	OverlayBody  string
}

// Snapshot captures the page state.
func (c *Context) Snapshot(ctx context.Context) (Snapshot, error) {
	var s Snapshot
	err := c.do(ctx, func() error {
		s = Snapshot{
			URL:          c.url,
			HTML:         c.doc.Render(),
			Styles:       c.doc.Styles(),
			HasAgent:     c.agent != nil,
			Injections:   c.injections,
			OverlayCount: c.doc.CountByID(OverlayID),
		}
		if title := c.doc.GetElementByID(overlayTitleID); title != nil {
			s.OverlayTitle = textOf(title)
		}
		if body := c.doc.GetElementByID(overlayBodyID); body != nil {
			s.OverlayBody = textOf(body)
		}
		return nil
	})
	return s, err
}

// Destroy tears the context down. Pending and future calls fail with
// ErrContextGone.
func (c *Context) Destroy() {
	c.once.Do(func() { close(c.done) })
}
