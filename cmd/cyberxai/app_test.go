package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCLI(t *testing.T, html string) *CLIConfig {
	t.Helper()
	dir := t.TempDir()
	pagePath := filepath.Join(dir, "page.html")
	require.NoError(t, os.WriteFile(pagePath, []byte(html), 0o600))

	return &CLIConfig{
		Command:    "menu",
		Action:     "scan",
		File:       pagePath,
		ConfigFile: filepath.Join(dir, "config.json"),
		LogDir:     filepath.Join(dir, "logs"),
	}
}

func TestRun_MenuWithoutHostManifest(t *testing.T) {
	cli := testCLI(t, "<body><p>hello there</p></body>")

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cli, &out))
	assert.Equal(t, "CyberXAI\nNative host unavailable.\n", out.String())
}

func TestRun_MenuEmptySelection(t *testing.T) {
	cli := testCLI(t, "<body><p>hello there</p></body>")
	cli.Action = "selection"

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cli, &out))
	assert.Equal(t, "CyberXAI\nNo selection detected.\n", out.String())
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name   string
		modify func(*CLIConfig)
	}{
		{"missing command", func(c *CLIConfig) { c.Command = "" }},
		{"unknown command", func(c *CLIConfig) { c.Command = "options" }},
		{"unknown action", func(c *CLIConfig) { c.Action = "everything" }},
		{"no page", func(c *CLIConfig) { c.File = "" }},
		{"file and url", func(c *CLIConfig) { c.URL = "https://example.com" }},
		{"missing file", func(c *CLIConfig) { c.File = filepath.Join(t.TempDir(), "nope.html") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cli := testCLI(t, "<body>x</body>")
			tt.modify(cli)
			assert.Error(t, run(context.Background(), cli, &bytes.Buffer{}))
		})
	}
}

func TestRun_InitConfig(t *testing.T) {
	cli := testCLI(t, "<body>x</body>")
	cli.InitConfig = true

	var out bytes.Buffer
	require.NoError(t, run(context.Background(), cli, &out))
	assert.FileExists(t, cli.ConfigFile)
	assert.Contains(t, out.String(), cli.ConfigFile)
}

func TestRun_Override(t *testing.T) {
	cli := testCLI(t, "<body>x</body>")
	cli.OverrideFile = filepath.Join(t.TempDir(), "override.yaml")
	require.NoError(t, os.WriteFile(cli.OverrideFile, []byte("display:\n  max_hits: 0\n"), 0o600))

	err := run(context.Background(), cli, &bytes.Buffer{})
	assert.ErrorContains(t, err, "invalid configuration override")
}

func TestParseFlags(t *testing.T) {
	cli := parseFlags([]string{"-file", "a.html", "-select", "mean", "-action", "selection", "menu"})
	assert.Equal(t, "menu", cli.Command)
	assert.Equal(t, "a.html", cli.File)
	assert.Equal(t, "mean", cli.Selection)
	assert.True(t, cli.Headless)
}
