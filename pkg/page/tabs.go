package page

import (
	"context"
	_ "embed"
	"fmt"
	"strconv"
	"sync"

	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// OverlayCSS is the stylesheet injected alongside the content agent.
//
//go:embed assets/overlay.css
var OverlayCSS string

// Tabs is an in-process browser: a registry of page contexts with one
// active tab.
type Tabs struct {
	mu      sync.Mutex
	tabs    map[types.TabID]*Context
	active  types.TabID
	next    int
	guard   *URLGuard
	maxText int
}

// NewTabs creates an empty registry. guard may be nil.
func NewTabs(guard *URLGuard, maxText int) *Tabs {
	return &Tabs{
		tabs:    make(map[types.TabID]*Context),
		guard:   guard,
		maxText: maxText,
	}
}

// Open loads rawHTML as a new tab and makes it active.
func (t *Tabs) Open(url, rawHTML string) (types.TabID, error) {
	doc, err := NewDocument(rawHTML)
	if err != nil {
		return "", fmt.Errorf("failed to parse page %s: %w", url, err)
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.next++
	id := types.TabID(strconv.Itoa(t.next))
	t.tabs[id] = newContext(id, url, doc, t.guard, t.maxText)
	t.active = id
	return id, nil
}

// Get returns the context of a tab.
func (t *Tabs) Get(id types.TabID) (*Context, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	c, ok := t.tabs[id]
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrTabNotFound, id)
	}
	return c, nil
}

// Active returns the focused tab, if any.
func (t *Tabs) Active(_ context.Context) (types.TabID, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.active == "" {
		return "", false
	}
	return t.active, true
}

// Activate focuses an existing tab.
func (t *Tabs) Activate(id types.TabID) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, ok := t.tabs[id]; !ok {
		return fmt.Errorf("%w %q", ErrTabNotFound, id)
	}
	t.active = id
	return nil
}

// Close destroys a tab. Closing the active tab leaves no tab focused.
func (t *Tabs) Close(id types.TabID) {
	t.mu.Lock()
	c, ok := t.tabs[id]
	delete(t.tabs, id)
	if t.active == id {
		t.active = ""
	}
	t.mu.Unlock()

	if ok {
		c.Destroy()
	}
}

// CloseAll destroys every tab.
func (t *Tabs) CloseAll() {
	t.mu.Lock()
	tabs := t.tabs
	t.tabs = make(map[types.TabID]*Context)
	t.active = ""
	t.mu.Unlock()

	for _, c := range tabs {
		c.Destroy()
	}
}

// Send delivers cmd to the tab's content agent.
func (t *Tabs) Send(ctx context.Context, id types.TabID, cmd protocol.PageCommand) (protocol.PageReply, error) {
	c, err := t.Get(id)
	if err != nil {
		return protocol.PageReply{}, err
	}
	return c.Send(ctx, cmd)
}

// InsertCSS injects the overlay stylesheet into the tab.
func (t *Tabs) InsertCSS(ctx context.Context, id types.TabID) error {
	c, err := t.Get(id)
	if err != nil {
		return err
	}
	return c.InsertCSS(ctx, OverlayCSS)
}

// ExecuteScript injects the content agent into the tab.
func (t *Tabs) ExecuteScript(ctx context.Context, id types.TabID) error {
	c, err := t.Get(id)
	if err != nil {
		return err
	}
	return c.ExecuteScript(ctx)
}

// Navigate loads a new document into an existing tab. Any installed
// agent is lost.
func (t *Tabs) Navigate(ctx context.Context, id types.TabID, url, rawHTML string) error {
	c, err := t.Get(id)
	if err != nil {
		return err
	}
	doc, err := NewDocument(rawHTML)
	if err != nil {
		return fmt.Errorf("failed to parse page %s: %w", url, err)
	}
	return c.Navigate(ctx, url, doc)
}
