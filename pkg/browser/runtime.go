// Package browser drives a real Chromium through Playwright and exposes
// its tabs with the same scripting surface as the in-memory page.Tabs.
package browser

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"sync"

	"github.com/cyberxai/cyberxai/pkg/logging"
	"github.com/cyberxai/cyberxai/pkg/page"
	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/cyberxai/cyberxai/pkg/types"
	"github.com/playwright-community/playwright-go"
)

//go:embed assets/agent.js
var agentJS string

const (
	// DefaultTimeout is the Playwright default timeout in milliseconds.
	DefaultTimeout = 30000.0

	dispatchJS = `(msg) => window.__cyberxai ? window.__cyberxai.handle(msg) : null`
	selectJS   = `(text) => { const s = window.getSelection(); s.removeAllRanges(); return window.find(text); }`
)

// Options configures the browser.
type Options struct {
	Headless bool
	// Timeout bounds each Playwright call, in milliseconds.
	Timeout float64
	// Guard lists pages the runtime refuses to script.
	Guard *page.URLGuard
	// MaxText bounds getPageText replies, in runes.
	MaxText int
}

// Runtime owns one Chromium instance. Each page is a tab.
type Runtime struct {
	mu      sync.Mutex
	opts    Options
	logger  *logging.Logger
	pw      *playwright.Playwright
	browser playwright.Browser
	context playwright.BrowserContext
	pages   map[types.TabID]playwright.Page
	active  types.TabID
	next    int
	started bool
}

// NewRuntime creates a runtime. Start must be called before use.
func NewRuntime(opts Options, logger *logging.Logger) *Runtime {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if logger == nil {
		logger = logging.Discard("browser")
	}
	return &Runtime{
		opts:   opts,
		logger: logger,
		pages:  make(map[types.TabID]playwright.Page),
	}
}

// Start installs the driver if needed, then launches Chromium.
func (r *Runtime) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started {
		return nil
	}

	// Keep the driver quiet; its output would corrupt the popup.
	runOpts := &playwright.RunOptions{
		Browsers: []string{"chromium"},
		Verbose:  false,
		Stdout:   io.Discard,
		Stderr:   io.Discard,
	}
	if err := playwright.Install(runOpts); err != nil {
		return fmt.Errorf("failed to install playwright: %w", err)
	}

	pw, err := playwright.Run(runOpts)
	if err != nil {
		return fmt.Errorf("failed to start playwright: %w", err)
	}

	browser, err := pw.Chromium.Launch(playwright.BrowserTypeLaunchOptions{
		Headless: playwright.Bool(r.opts.Headless),
	})
	if err != nil {
		_ = pw.Stop()
		return fmt.Errorf("failed to launch browser: %w", err)
	}

	bctx, err := browser.NewContext()
	if err != nil {
		browser.Close()
		_ = pw.Stop()
		return fmt.Errorf("failed to create context: %w", err)
	}

	r.pw, r.browser, r.context = pw, browser, bctx
	r.started = true
	r.logger.Infof("chromium started (headless=%t)", r.opts.Headless)
	return nil
}

// Open loads url in a new tab and focuses it.
func (r *Runtime) Open(url string) (types.TabID, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.started {
		return "", fmt.Errorf("browser runtime not started")
	}

	p, err := r.context.NewPage()
	if err != nil {
		return "", fmt.Errorf("failed to create page: %w", err)
	}
	p.SetDefaultTimeout(r.opts.Timeout)

	if _, err := p.Goto(url); err != nil {
		p.Close()
		return "", fmt.Errorf("navigation failed: %w", err)
	}

	r.next++
	id := types.TabID(strconv.Itoa(r.next))
	r.pages[id] = p
	r.active = id
	p.OnClose(func(playwright.Page) { r.forget(id) })

	r.logger.Debugf("tab %s opened %s", id, url)
	return id, nil
}

func (r *Runtime) forget(id types.TabID) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.pages, id)
	if r.active == id {
		r.active = ""
	}
}

func (r *Runtime) page(id types.TabID) (playwright.Page, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.pages[id]
	if !ok || p.IsClosed() {
		return nil, fmt.Errorf("%w %q", page.ErrTabNotFound, id)
	}
	return p, nil
}

// Active returns the focused tab.
func (r *Runtime) Active(_ context.Context) (types.TabID, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active, r.active != ""
}

// Select selects the first occurrence of text in the tab.
func (r *Runtime) Select(ctx context.Context, id types.TabID, text string) error {
	p, err := r.page(id)
	if err != nil {
		return err
	}
	found, err := call(ctx, func() (any, error) { return p.Evaluate(selectJS, text) })
	if err != nil {
		return fmt.Errorf("failed to select text: %w", err)
	}
	if ok, _ := found.(bool); !ok {
		return fmt.Errorf("text %q not found on page", text)
	}
	return nil
}

// Send dispatches cmd to the tab's agent.
func (r *Runtime) Send(ctx context.Context, id types.TabID, cmd protocol.PageCommand) (protocol.PageReply, error) {
	p, err := r.page(id)
	if err != nil {
		return protocol.PageReply{}, err
	}

	arg, err := toJSValue(cmd)
	if err != nil {
		return protocol.PageReply{}, err
	}

	raw, err := call(ctx, func() (any, error) { return p.Evaluate(dispatchJS, arg) })
	if err != nil {
		return protocol.PageReply{}, fmt.Errorf("%s: %w", cmd.Cmd, err)
	}

	reply, err := decodeReply(raw)
	if err != nil {
		return protocol.PageReply{}, err
	}
	reply.Text = page.Truncate(reply.Text, r.opts.MaxText)
	return reply, nil
}

// InsertCSS adds the overlay stylesheet to the tab.
func (r *Runtime) InsertCSS(ctx context.Context, id types.TabID) error {
	p, err := r.scriptable(id)
	if err != nil {
		return err
	}
	_, err = call(ctx, func() (any, error) {
		return p.AddStyleTag(playwright.PageAddStyleTagOptions{Content: playwright.String(page.OverlayCSS)})
	})
	return err
}

// ExecuteScript installs the content agent in the tab.
func (r *Runtime) ExecuteScript(ctx context.Context, id types.TabID) error {
	p, err := r.scriptable(id)
	if err != nil {
		return err
	}
	_, err = call(ctx, func() (any, error) {
		return p.AddScriptTag(playwright.PageAddScriptTagOptions{Content: playwright.String(agentJS)})
	})
	if err != nil {
		return fmt.Errorf("%w: %w", page.ErrNotScriptable, err)
	}
	return nil
}

func (r *Runtime) scriptable(id types.TabID) (playwright.Page, error) {
	p, err := r.page(id)
	if err != nil {
		return nil, err
	}
	if url := p.URL(); r.opts.Guard.Blocks(url) {
		return nil, fmt.Errorf("%w: %s", page.ErrNotScriptable, url)
	}
	return p, nil
}

// Close closes one tab.
func (r *Runtime) Close(id types.TabID) error {
	p, err := r.page(id)
	if err != nil {
		return err
	}
	return p.Close()
}

// Shutdown closes the browser and stops the driver.
func (r *Runtime) Shutdown() error {
	r.mu.Lock()
	if !r.started {
		r.mu.Unlock()
		return nil
	}
	r.started = false
	r.pages = make(map[types.TabID]playwright.Page)
	r.active = ""
	pw, browser, bctx := r.pw, r.browser, r.context
	r.mu.Unlock()

	// Page close events call back into forget, so the lock is not held here.
	_ = bctx.Close()
	_ = browser.Close()
	if err := pw.Stop(); err != nil {
		return fmt.Errorf("failed to stop playwright: %w", err)
	}
	return nil
}

// call runs a blocking Playwright call, returning early if ctx ends. An
// abandoned call still finishes within the Playwright timeout.
func call(ctx context.Context, fn func() (any, error)) (any, error) {
	type result struct {
		v   any
		err error
	}
	done := make(chan result, 1)
	go func() {
		v, err := fn()
		done <- result{v, err}
	}()

	select {
	case res := <-done:
		return res.v, res.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func toJSValue(cmd protocol.PageCommand) (map[string]any, error) {
	data, err := json.Marshal(cmd)
	if err != nil {
		return nil, fmt.Errorf("failed to encode page command: %w", err)
	}
	var out map[string]any
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to encode page command: %w", err)
	}
	return out, nil
}

// decodeReply converts an Evaluate result into a reply. A null result
// means no agent is installed.
func decodeReply(raw any) (protocol.PageReply, error) {
	if raw == nil {
		return protocol.PageReply{}, page.ErrNoReceiver
	}
	data, err := json.Marshal(raw)
	if err != nil {
		return protocol.PageReply{}, fmt.Errorf("failed to read agent reply: %w", err)
	}
	var reply protocol.PageReply
	if err := json.Unmarshal(data, &reply); err != nil {
		return protocol.PageReply{}, fmt.Errorf("failed to read agent reply: %w", err)
	}
	return reply, nil
}
