package page

import (
	"context"
	"testing"
	"time"

	"github.com/cyberxai/cyberxai/pkg/protocol"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func newTestTabs(t *testing.T) *Tabs {
	t.Helper()
	guard, err := NewURLGuard([]string{"chrome://*", "about:*"})
	require.NoError(t, err)
	tabs := NewTabs(guard, 0)
	t.Cleanup(tabs.CloseAll)
	return tabs
}

func TestURLGuard(t *testing.T) {
	guard, err := NewURLGuard([]string{"chrome://*", "https://chromewebstore.google.com/*"})
	require.NoError(t, err)

	assert.True(t, guard.Blocks("chrome://settings"))
	assert.True(t, guard.Blocks("https://chromewebstore.google.com/detail/x"))
	assert.False(t, guard.Blocks("https://example.com"))

	var nilGuard *URLGuard
	assert.False(t, nilGuard.Blocks("chrome://settings"))

	_, err = NewURLGuard([]string{"[unclosed"})
	assert.Error(t, err)
}

func TestTabs_OpenActivatesTab(t *testing.T) {
	tabs := newTestTabs(t)
	ctx := context.Background()

	_, ok := tabs.Active(ctx)
	assert.False(t, ok)

	first, err := tabs.Open("https://a.example", "<body>a</body>")
	require.NoError(t, err)
	second, err := tabs.Open("https://b.example", "<body>b</body>")
	require.NoError(t, err)

	active, ok := tabs.Active(ctx)
	require.True(t, ok)
	assert.Equal(t, second, active)

	require.NoError(t, tabs.Activate(first))
	active, _ = tabs.Active(ctx)
	assert.Equal(t, first, active)

	assert.ErrorIs(t, tabs.Activate("99"), ErrTabNotFound)
}

func TestTabs_SendWithoutAgent(t *testing.T) {
	tabs := newTestTabs(t)
	id, err := tabs.Open("https://example.com", "<body>x</body>")
	require.NoError(t, err)

	_, err = tabs.Send(context.Background(), id, protocol.Ping())
	assert.ErrorIs(t, err, ErrNoReceiver)
}

func TestTabs_InjectThenSend(t *testing.T) {
	tabs := newTestTabs(t)
	ctx := context.Background()
	id, err := tabs.Open("https://example.com", "<body><p>hello</p></body>")
	require.NoError(t, err)

	require.NoError(t, tabs.InsertCSS(ctx, id))
	require.NoError(t, tabs.ExecuteScript(ctx, id))

	reply, err := tabs.Send(ctx, id, protocol.Ping())
	require.NoError(t, err)
	assert.True(t, reply.OK)

	reply, err = tabs.Send(ctx, id, protocol.GetPageText())
	require.NoError(t, err)
	assert.Equal(t, "hello", reply.Text)

	c, err := tabs.Get(id)
	require.NoError(t, err)
	snap, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.True(t, snap.HasAgent)
	assert.Equal(t, 1, snap.Injections)
	assert.Equal(t, []string{OverlayCSS}, snap.Styles)
}

func TestTabs_ProtectedPageRefusesInjection(t *testing.T) {
	tabs := newTestTabs(t)
	ctx := context.Background()
	id, err := tabs.Open("chrome://settings", "<body>settings</body>")
	require.NoError(t, err)

	assert.ErrorIs(t, tabs.InsertCSS(ctx, id), ErrNotScriptable)
	assert.ErrorIs(t, tabs.ExecuteScript(ctx, id), ErrNotScriptable)
}

func TestTabs_NavigateDropsAgent(t *testing.T) {
	tabs := newTestTabs(t)
	ctx := context.Background()
	id, err := tabs.Open("https://example.com", "<body>one</body>")
	require.NoError(t, err)
	require.NoError(t, tabs.ExecuteScript(ctx, id))

	require.NoError(t, tabs.Navigate(ctx, id, "https://example.com/next", "<body>two</body>"))

	_, err = tabs.Send(ctx, id, protocol.Ping())
	assert.ErrorIs(t, err, ErrNoReceiver)
}

func TestTabs_OverlayLifecycle(t *testing.T) {
	tabs := newTestTabs(t)
	ctx := context.Background()
	id, err := tabs.Open("https://example.com", "<body>text</body>")
	require.NoError(t, err)
	require.NoError(t, tabs.ExecuteScript(ctx, id))

	for _, body := range []string{"first", "second"} {
		_, err := tabs.Send(ctx, id, protocol.ShowOverlay("CyberXAI", body))
		require.NoError(t, err)
	}

	c, err := tabs.Get(id)
	require.NoError(t, err)
	snap, err := c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.OverlayCount)
	assert.Equal(t, "CyberXAI", snap.OverlayTitle)
	assert.Equal(t, "second", snap.OverlayBody)

	removed, err := c.DismissOverlay(ctx)
	require.NoError(t, err)
	assert.True(t, removed)

	snap, err = c.Snapshot(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.OverlayCount)
}

func TestTabs_ClosedTab(t *testing.T) {
	tabs := newTestTabs(t)
	ctx := context.Background()
	id, err := tabs.Open("https://example.com", "<body>x</body>")
	require.NoError(t, err)

	c, err := tabs.Get(id)
	require.NoError(t, err)
	tabs.Close(id)

	_, ok := tabs.Active(ctx)
	assert.False(t, ok)

	_, err = tabs.Send(ctx, id, protocol.Ping())
	assert.ErrorIs(t, err, ErrTabNotFound)

	_, err = c.Send(ctx, protocol.Ping())
	assert.ErrorIs(t, err, ErrContextGone)
}

func TestContext_SendHonoursCallerContext(t *testing.T) {
	tabs := newTestTabs(t)
	id, err := tabs.Open("https://example.com", "<body>x</body>")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()
	<-ctx.Done()

	_, err = tabs.Send(ctx, id, protocol.Ping())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
