package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHostSection(t *testing.T) {
	s := NewHostSection()
	require.NoError(t, s.Validate())

	name, manifest := s.Manifest()
	assert.Equal(t, DefaultHostName, name)
	assert.Empty(t, manifest)

	require.NoError(t, s.SetData(map[string]any{
		"response_timeout": "5s",
		"kill_grace":       float64(time.Second),
		"manifest_path":    "/etc/cyberxai/host.json",
		"unknown":          true,
	}))
	timeout, grace := s.Timeouts()
	assert.Equal(t, 5*time.Second, timeout)
	assert.Equal(t, time.Second, grace)

	t.Run("response timeout must be finite", func(t *testing.T) {
		require.NoError(t, s.SetData(map[string]any{"response_timeout": "0s"}))
		assert.Error(t, s.Validate())
	})

	t.Run("wrong type", func(t *testing.T) {
		assert.Error(t, s.SetData(map[string]any{"name": 12}))
	})

	s.Reset()
	timeout, _ = s.Timeouts()
	assert.Equal(t, 30*time.Second, timeout)
}

func TestProvisionSection(t *testing.T) {
	s := NewProvisionSection()
	require.NoError(t, s.Validate())

	ping, settle := s.Timing()
	assert.Equal(t, time.Second, ping)
	assert.Equal(t, 50*time.Millisecond, settle)
	assert.Contains(t, s.Patterns(), "chrome://*")

	require.NoError(t, s.SetData(map[string]any{
		"protected_patterns": []any{"file://*"},
	}))
	assert.Equal(t, []string{"file://*"}, s.Patterns())

	require.NoError(t, s.SetData(map[string]any{"protected_patterns": []any{"[unclosed"}}))
	assert.Error(t, s.Validate())

	assert.Error(t, s.SetData(map[string]any{"protected_patterns": []any{1}}))
}

func TestDisplaySection(t *testing.T) {
	s := NewDisplaySection()
	require.NoError(t, s.Validate())

	snap := s.Snapshot()
	assert.Equal(t, 2, snap.OverlayPrecision)
	assert.Equal(t, 3, snap.PopupPrecision)
	assert.Equal(t, 5, snap.MaxHits)
	assert.Equal(t, 50000, snap.MaxPageText)

	// JSON decodes numbers as float64, YAML as int.
	require.NoError(t, s.SetData(map[string]any{"max_hits": float64(3), "popup_precision": 4}))
	snap = s.Snapshot()
	assert.Equal(t, 3, snap.MaxHits)
	assert.Equal(t, 4, snap.PopupPrecision)

	assert.Error(t, s.SetData(map[string]any{"max_hits": 2.5}))

	require.NoError(t, s.SetData(map[string]any{"overlay_precision": 9}))
	assert.Error(t, s.Validate())
}
