package protocol

// PageCommandName identifies a command addressed to a page content agent.
type PageCommandName string

const (
	PageCmdPing         PageCommandName = "ping"             // PageCmdPing is the liveness probe.
	PageCmdGetSelection PageCommandName = "getSelectionText" // PageCmdGetSelection reads the user's selection.
	PageCmdGetPageText  PageCommandName = "getPageText"      // PageCmdGetPageText reads the visible page text.
	PageCmdShowOverlay  PageCommandName = "showOverlay"      // PageCmdShowOverlay creates or updates the overlay.
)

// OverlayPayload is the content of a showOverlay command.
type OverlayPayload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
}

// PageCommand is a message sent to a page content agent.
type PageCommand struct {
	Cmd     PageCommandName `json:"cmd"`
	Payload *OverlayPayload `json:"payload,omitempty"`
}

// PageReply is an agent's answer. Ping sets OK, extraction sets Text and
// showOverlay leaves both zero.
type PageReply struct {
	OK   bool   `json:"ok,omitempty"`
	Text string `json:"text,omitempty"`
}

// Ping builds a liveness probe.
func Ping() PageCommand { return PageCommand{Cmd: PageCmdPing} }

// GetSelectionText builds a selection read.
func GetSelectionText() PageCommand { return PageCommand{Cmd: PageCmdGetSelection} }

// GetPageText builds a page text read.
func GetPageText() PageCommand { return PageCommand{Cmd: PageCmdGetPageText} }

// ShowOverlay builds an overlay update.
func ShowOverlay(title, body string) PageCommand {
	return PageCommand{Cmd: PageCmdShowOverlay, Payload: &OverlayPayload{Title: title, Body: body}}
}
