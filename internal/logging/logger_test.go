package logging

import (
	"bytes"
	"strings"
	"testing"
)

func TestNoopBeforeInit(t *testing.T) {
	Close()
	// Must not panic
	Info("ignored", "k", "v")
	Error("ignored")
}

func TestInit_LevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "warn"); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer Close()

	Debug("debug line")
	Info("info line")
	Warn("warn line", "item", "https://example.com")

	out := buf.String()
	if strings.Contains(out, "debug line") || strings.Contains(out, "info line") {
		t.Errorf("expected debug/info to be filtered, got %q", out)
	}
	if !strings.Contains(out, "warn line") {
		t.Errorf("expected warn line in output, got %q", out)
	}
	if !strings.Contains(out, "https://example.com") {
		t.Errorf("expected keyvals in output, got %q", out)
	}
}

func TestInit_BadLevel(t *testing.T) {
	var buf bytes.Buffer
	if err := Init(&buf, "loud"); err == nil {
		t.Error("expected error for unknown level")
	}
}
