package page

import (
	"fmt"
	"testing"

	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAgent(t *testing.T, rawHTML string) (*Document, *Agent) {
	t.Helper()
	doc, err := NewDocument(rawHTML)
	require.NoError(t, err)
	return doc, NewAgent(doc, 0)
}

func TestAgent_Ping(t *testing.T) {
	_, agent := newTestAgent(t, "<body></body>")

	reply, err := agent.Handle(protocol.Ping())
	require.NoError(t, err)
	assert.True(t, reply.OK)
}

func TestAgent_SelectionText(t *testing.T) {
	doc, agent := newTestAgent(t, "<body>page</body>")

	reply, err := agent.Handle(protocol.GetSelectionText())
	require.NoError(t, err)
	assert.Equal(t, "", reply.Text)

	doc.SetSelection("  you are dumb ")
	reply, err = agent.Handle(protocol.GetSelectionText())
	require.NoError(t, err)
	assert.Equal(t, "  you are dumb ", reply.Text, "selection is returned verbatim")
}

func TestAgent_PageTextExcludesOverlay(t *testing.T) {
	_, agent := newTestAgent(t, "<body><p>hello there</p></body>")
	agent.ShowOverlay("CyberXAI", "some result")

	reply, err := agent.Handle(protocol.GetPageText())
	require.NoError(t, err)
	assert.Equal(t, "hello there", reply.Text)
}

func TestAgent_PageTextLimit(t *testing.T) {
	doc, err := NewDocument("<body>abcdefghij</body>")
	require.NoError(t, err)
	agent := NewAgent(doc, 3)

	assert.Equal(t, "abc", agent.PageText())
}

func TestAgent_ShowOverlay_SingleInstance(t *testing.T) {
	doc, agent := newTestAgent(t, "<body>x</body>")

	for i := 0; i < 5; i++ {
		_, err := agent.Handle(protocol.ShowOverlay(fmt.Sprintf("title %d", i), fmt.Sprintf("body %d", i)))
		require.NoError(t, err)
		assert.Equal(t, 1, doc.CountByID(OverlayID))
	}

	title, body, ok := agent.Overlay()
	require.True(t, ok)
	assert.Equal(t, "title 4", title)
	assert.Equal(t, "body 4", body)
}

func TestAgent_ShowOverlay_DefaultTitle(t *testing.T) {
	_, agent := newTestAgent(t, "<body></body>")

	_, err := agent.Handle(protocol.PageCommand{Cmd: protocol.PageCmdShowOverlay})
	require.NoError(t, err)

	title, body, ok := agent.Overlay()
	require.True(t, ok)
	assert.Equal(t, DefaultOverlayTitle, title)
	assert.Equal(t, "", body)
}

func TestAgent_CloseButtonRemovesOverlay(t *testing.T) {
	doc, agent := newTestAgent(t, "<body></body>")
	agent.ShowOverlay("t", "b")

	assert.True(t, doc.Click(overlayCloseID))
	assert.Equal(t, 0, doc.CountByID(OverlayID))
	_, _, ok := agent.Overlay()
	assert.False(t, ok)

	agent.ShowOverlay("again", "shown")
	assert.Equal(t, 1, doc.CountByID(OverlayID))
	title, body, ok := agent.Overlay()
	require.True(t, ok)
	assert.Equal(t, "again", title)
	assert.Equal(t, "shown", body)
}

func TestAgent_SecondAgentAdoptsOverlay(t *testing.T) {
	doc, first := newTestAgent(t, "<body></body>")
	first.ShowOverlay("old", "old")

	second := NewAgent(doc, 0)
	second.ShowOverlay("new", "new")

	assert.Equal(t, 1, doc.CountByID(OverlayID))
	title, _, ok := second.Overlay()
	require.True(t, ok)
	assert.Equal(t, "new", title)
}

func TestAgent_ShowOverlayBeforeLoad(t *testing.T) {
	doc := emptyDocument()
	agent := NewAgent(doc, 0)

	agent.ShowOverlay("t", "b")
	assert.Equal(t, 0, doc.CountByID(OverlayID))
	_, _, ok := agent.Overlay()
	assert.False(t, ok)
}

func TestAgent_UnknownCommand(t *testing.T) {
	_, agent := newTestAgent(t, "<body></body>")

	_, err := agent.Handle(protocol.PageCommand{Cmd: "bogus"})
	assert.Error(t, err)
}
