package browser

import (
	"context"
	"os"
	"testing"

	"github.com/cyberxai/cyberxai/pkg/page"
	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeReply(t *testing.T) {
	_, err := decodeReply(nil)
	assert.ErrorIs(t, err, page.ErrNoReceiver)

	reply, err := decodeReply(map[string]any{"ok": true})
	require.NoError(t, err)
	assert.True(t, reply.OK)

	reply, err = decodeReply(map[string]any{"text": "hello"})
	require.NoError(t, err)
	assert.Equal(t, "hello", reply.Text)

	_, err = decodeReply(map[string]any{"text": 12})
	assert.Error(t, err)
}

func TestToJSValue(t *testing.T) {
	v, err := toJSValue(protocol.ShowOverlay("t", "b"))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{
		"cmd":     "showOverlay",
		"payload": map[string]any{"title": "t", "body": "b"},
	}, v)

	v, err = toJSValue(protocol.Ping())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"cmd": "ping"}, v)
}

func TestAgentScriptIsEmbedded(t *testing.T) {
	assert.Contains(t, agentJS, "window.__cyberxai")
	assert.Contains(t, agentJS, page.OverlayID)
}

func TestRuntime_NotStarted(t *testing.T) {
	r := NewRuntime(Options{}, nil)

	_, err := r.Open("https://example.com")
	assert.Error(t, err)

	_, ok := r.Active(context.Background())
	assert.False(t, ok)

	_, err = r.Send(context.Background(), "1", protocol.Ping())
	assert.ErrorIs(t, err, page.ErrTabNotFound)

	assert.NoError(t, r.Shutdown())
}

// TestRuntime_Chromium needs a Chromium download and is opt-in.
func TestRuntime_Chromium(t *testing.T) {
	if os.Getenv("CYBERXAI_BROWSER_TESTS") == "" {
		t.Skip("set CYBERXAI_BROWSER_TESTS=1 to run against Chromium")
	}

	guard, err := page.NewURLGuard([]string{"chrome://*"})
	require.NoError(t, err)
	r := NewRuntime(Options{Headless: true, Guard: guard, MaxText: 100}, nil)
	require.NoError(t, r.Start())
	defer r.Shutdown()

	ctx := context.Background()
	id, err := r.Open("data:text/html,<body><p>you are such an idiot</p></body>")
	require.NoError(t, err)

	_, err = r.Send(ctx, id, protocol.Ping())
	assert.ErrorIs(t, err, page.ErrNoReceiver)

	require.NoError(t, r.InsertCSS(ctx, id))
	require.NoError(t, r.ExecuteScript(ctx, id))

	reply, err := r.Send(ctx, id, protocol.Ping())
	require.NoError(t, err)
	assert.True(t, reply.OK)

	reply, err = r.Send(ctx, id, protocol.GetPageText())
	require.NoError(t, err)
	assert.Equal(t, "you are such an idiot", reply.Text)

	require.NoError(t, r.Select(ctx, id, "idiot"))
	reply, err = r.Send(ctx, id, protocol.GetSelectionText())
	require.NoError(t, err)
	assert.Equal(t, "idiot", reply.Text)

	for _, body := range []string{"one", "two"} {
		_, err = r.Send(ctx, id, protocol.ShowOverlay("CyberXAI", body))
		require.NoError(t, err)
	}
}
