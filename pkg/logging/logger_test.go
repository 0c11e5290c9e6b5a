package logging

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

// setupTestDir points the package at a temp directory and resets global state.
func setupTestDir(t *testing.T) {
	t.Helper()

	origLogDir, origInitErr := logDir, initErr
	origRunID := runID

	logDir = t.TempDir()
	initErr = nil
	initOnce = sync.Once{}
	runID = ""
	runIDOnce = sync.Once{}

	t.Cleanup(func() {
		logDir, initErr = origLogDir, origInitErr
		initOnce = sync.Once{}
		runID = origRunID
		runIDOnce = sync.Once{}
	})
}

func readLog(t *testing.T, l *Logger) string {
	t.Helper()
	content, err := os.ReadFile(l.LogPath())
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	return string(content)
}

func TestNewLogger(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("bridge")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "bridge" {
		t.Errorf("Expected component 'bridge', got %q", logger.component)
	}
	if logger.RunID() == "" {
		t.Error("Expected non-empty run ID")
	}
	if _, err := os.Stat(logger.LogPath()); err != nil {
		t.Errorf("Log file does not exist at %s: %v", logger.LogPath(), err)
	}
}

func TestLoggerLevels(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("Debug %d", 1)
	logger.Infof("Info message")
	logger.Warnf("Warning message")
	logger.Errorf("Error message")

	content := readLog(t, logger)
	for _, pattern := range []string{
		"[test] [DEBUG] Debug 1",
		"[test] [INFO] Info message",
		"[test] [WARN] Warning message",
		"[test] [ERROR] Error message",
	} {
		if !strings.Contains(content, pattern) {
			t.Errorf("Log content missing %q\nContent:\n%s", pattern, content)
		}
	}
}

func TestLoggerWithScope(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("trigger")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	scoped := logger.With("req-42")
	scoped.Infof("opened session")
	// Closing the child must not close the shared file.
	if err := scoped.Close(); err != nil {
		t.Fatalf("Close on scoped logger failed: %v", err)
	}
	logger.Infof("still writable")

	content := readLog(t, logger)
	if !strings.Contains(content, "[trigger] [INFO] [req-42] opened session") {
		t.Errorf("Missing scoped line\nContent:\n%s", content)
	}
	if !strings.Contains(content, "[trigger] [INFO] still writable") {
		t.Errorf("Parent logger stopped writing\nContent:\n%s", content)
	}
}

func TestMultipleComponentsShareFile(t *testing.T) {
	setupTestDir(t)

	a, err := NewLogger("component1")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer a.Close()
	b, err := NewLogger("component2")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer b.Close()

	if a.LogPath() != b.LogPath() {
		t.Errorf("Expected same log path, got %q and %q", a.LogPath(), b.LogPath())
	}

	a.Infof("from a")
	b.Infof("from b")

	content := readLog(t, a)
	if !strings.Contains(content, "[component1]") || !strings.Contains(content, "[component2]") {
		t.Errorf("Expected both components in log\nContent:\n%s", content)
	}
}

func TestLogPathFormat(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	fileName := filepath.Base(logger.LogPath())
	if !strings.HasSuffix(fileName, "-cyberxai.log") {
		t.Errorf("Expected log file to end with '-cyberxai.log', got %q", fileName)
	}
	if strings.Count(strings.TrimSuffix(fileName, "-cyberxai.log"), "-") != 4 {
		t.Errorf("Expected UUID run id in %q", fileName)
	}
}

func TestLoggerCloseTwice(t *testing.T) {
	setupTestDir(t)

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

func TestDiscard(t *testing.T) {
	logger := Discard("test")
	logger.Infof("dropped %s", "line")
	if logger.LogPath() != "" {
		t.Errorf("Discard logger should have no path, got %q", logger.LogPath())
	}
	if err := logger.Close(); err != nil {
		t.Errorf("Close failed: %v", err)
	}
}
