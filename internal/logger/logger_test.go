package logger

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseLevel(t *testing.T) {
	testCases := []struct {
		input string
		level slog.Level
		known bool
	}{
		{"debug", slog.LevelDebug, true},
		{"DBG", slog.LevelDebug, true},
		{"info", slog.LevelInfo, true},
		{"", slog.LevelInfo, true},
		{" warn ", slog.LevelWarn, true},
		{"err", slog.LevelError, true},
		{"verbose", slog.LevelInfo, false},
	}

	for _, tc := range testCases {
		level, known := ParseLevel(tc.input)
		if level != tc.level || known != tc.known {
			t.Errorf("ParseLevel(%q): expected (%v, %v), got (%v, %v)", tc.input, tc.level, tc.known, level, known)
		}
	}
}

func TestInitLogger(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "nested", "riven.log")
	closer, err := InitLogger(path, "warn")
	if err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}

	slog.Info("hidden")
	slog.Warn("shown", "row", 3)
	if err := closer.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read log: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "hidden") {
		t.Errorf("Expected info records to be filtered, got %q", content)
	}
	if !strings.Contains(content, "msg=shown row=3") {
		t.Errorf("Expected the warning record, got %q", content)
	}
}

func TestInitLoggerUnknownLevel(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	path := filepath.Join(t.TempDir(), "riven.log")
	closer, err := InitLogger(path, "loud")
	if err != nil {
		t.Fatalf("InitLogger failed: %v", err)
	}
	closer.Close() // nolint: errcheck

	data, _ := os.ReadFile(path)
	if !strings.Contains(string(data), "unknown log level") {
		t.Errorf("Expected a warning about the level, got %q", string(data))
	}
}
