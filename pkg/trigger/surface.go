package trigger

import (
	"context"
	"fmt"
	"sync"

	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// Surface is where a controller shows its one message per invocation.
type Surface interface {
	Show(ctx context.Context, tab types.TabID, msg Message) error
}

// PageClient sends commands to a page's content agent.
type PageClient interface {
	Send(ctx context.Context, tab types.TabID, cmd protocol.PageCommand) (protocol.PageReply, error)
}

// OverlaySurface renders into the page's overlay through its agent.
type OverlaySurface struct {
	pages PageClient
}

// NewOverlaySurface creates an overlay surface.
func NewOverlaySurface(pages PageClient) *OverlaySurface {
	return &OverlaySurface{pages: pages}
}

// Show sends showOverlay to the tab.
func (s *OverlaySurface) Show(ctx context.Context, tab types.TabID, msg Message) error {
	if _, err := s.pages.Send(ctx, tab, protocol.ShowOverlay(msg.Title, msg.Body)); err != nil {
		return fmt.Errorf("failed to show overlay: %w", err)
	}
	return nil
}

// Output is the popup's single text region, reused for every result.
type Output struct {
	mu       sync.Mutex
	text     string
	onChange func(string)
}

// NewOutput creates an output region. onChange, if set, is called with
// every new text.
func NewOutput(onChange func(string)) *Output {
	return &Output{onChange: onChange}
}

// Set replaces the text.
func (o *Output) Set(text string) {
	o.mu.Lock()
	o.text = text
	fn := o.onChange
	o.mu.Unlock()

	if fn != nil {
		fn(text)
	}
}

// Text returns the current text.
func (o *Output) Text() string {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.text
}

// PopupSurface writes message bodies into an Output.
type PopupSurface struct {
	out *Output
}

// NewPopupSurface creates a popup surface over out.
func NewPopupSurface(out *Output) *PopupSurface {
	return &PopupSurface{out: out}
}

// Show replaces the output text with the message body.
func (s *PopupSurface) Show(_ context.Context, _ types.TabID, msg Message) error {
	s.out.Set(msg.Body)
	return nil
}
