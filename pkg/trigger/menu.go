package trigger

import (
	"context"
	"fmt"

	"github.com/cyberxai/cyberxai/pkg/config"
	"github.com/cyberxai/cyberxai/pkg/types"
)

// MenuItem is an entry of the page context menu.
type MenuItem struct {
	ID    string
	Title string
	Mode  types.Mode
	// NeedsSelection hides the item when nothing is selected.
	NeedsSelection bool
}

const (
	MenuSelectionID = "cyberxai-selection"
	MenuScanPageID  = "cyberxai-scan-page"
)

// MenuItems are the registered context menu entries.
var MenuItems = []MenuItem{
	{ID: MenuSelectionID, Title: "Check cyberbullying (selected text)", Mode: types.ModeSelection, NeedsSelection: true},
	{ID: MenuScanPageID, Title: "Scan page for cyberbullying", Mode: types.ModePageScan},
}

// VisibleItems returns the entries shown for a page, in order.
func VisibleItems(hasSelection bool) []MenuItem {
	items := make([]MenuItem, 0, len(MenuItems))
	for _, item := range MenuItems {
		if item.NeedsSelection && !hasSelection {
			continue
		}
		items = append(items, item)
	}
	return items
}

// Menu is the page context menu trigger. Results go to the page overlay.
type Menu struct {
	*Controller
}

// NewMenu creates the menu trigger.
func NewMenu(deps Deps, display config.DisplaySettings) *Menu {
	return &Menu{Controller: New("menu", deps, NewOverlaySurface(deps.Pages), OverlayStyle(display))}
}

// Clicked runs the check bound to a menu item.
func (m *Menu) Clicked(ctx context.Context, itemID string) (Outcome, error) {
	for _, item := range MenuItems {
		if item.ID == itemID {
			return m.Run(ctx, item.Mode), nil
		}
	}
	return Outcome{}, fmt.Errorf("unknown menu item %q", itemID)
}

// Popup is the popup trigger. Results go to its output region.
type Popup struct {
	*Controller
	out *Output
}

// NewPopup creates the popup trigger writing into out.
func NewPopup(deps Deps, display config.DisplaySettings, out *Output) *Popup {
	return &Popup{
		Controller: New("popup", deps, NewPopupSurface(out), PopupStyle(display)),
		out:        out,
	}
}

// CheckSelection is the popup's "check selection" action.
func (p *Popup) CheckSelection(ctx context.Context) Outcome {
	return p.Run(ctx, types.ModeSelection)
}

// ScanPage is the popup's "scan page" action.
func (p *Popup) ScanPage(ctx context.Context) Outcome {
	return p.Run(ctx, types.ModePageScan)
}

// Output returns the popup's output region.
func (p *Popup) Output() *Output { return p.out }
