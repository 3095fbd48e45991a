package logging

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewWritesToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "arena.log")
	l, err := New(Options{FilePath: path, Level: "debug"})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	l.Named("possession").Debug("ball picked up")
	Sync(l)

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	if !strings.Contains(string(data), "ball picked up") || !strings.Contains(string(data), "possession") {
		t.Fatalf("log file missing entry: %q", data)
	}
}

func TestNewRejectsBadLevel(t *testing.T) {
	if _, err := New(Options{Level: "loud"}); err == nil {
		t.Fatal("expected error for unknown level")
	}
}
