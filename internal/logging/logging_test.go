package logging

import (
	"bytes"
	"strings"
	"testing"
	"time"
)

func newTestLogger(buf *bytes.Buffer, level Level) *Logger {
	l := New(Config{Level: level, Output: buf, Prefix: "test"})
	l.now = func() time.Time { return time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC) }
	return l
}

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"debug", LevelDebug},
		{"DEBUG", LevelDebug},
		{"info", LevelInfo},
		{"warning", LevelWarn},
		{"WARN", LevelWarn},
		{"error", LevelError},
		{"bogus", LevelInfo},
	}
	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLevelFiltering(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelWarn)

	l.Debug("debug")
	l.Info("info")
	if buf.Len() != 0 {
		t.Errorf("messages below level were written: %q", buf.String())
	}

	l.Warn("warn %d", 1)
	want := "2026-01-02T03:04:05.000 [WARN] test: warn 1\n"
	if buf.String() != want {
		t.Errorf("Warn() wrote %q, want %q", buf.String(), want)
	}
}

func TestFieldsAreSorted(t *testing.T) {
	var buf bytes.Buffer
	l := newTestLogger(&buf, LevelDebug).
		WithComponent("pointer").
		WithFields(map[string]any{"id": 3, "action": "down"})

	l.Debug("event")
	if !strings.HasSuffix(buf.String(), "event {action=down, component=pointer, id=3}\n") {
		t.Errorf("Debug() wrote %q", buf.String())
	}
}

func TestWithFieldDoesNotMutateParent(t *testing.T) {
	var buf bytes.Buffer
	parent := newTestLogger(&buf, LevelInfo)
	_ = parent.WithField("k", "v")

	parent.Info("plain")
	if strings.Contains(buf.String(), "k=v") {
		t.Errorf("parent logger carries child field: %q", buf.String())
	}
}

func TestNull(t *testing.T) {
	Null.Error("dropped")
	Null.WithField("a", 1).Info("dropped")
	if Null.Enabled(LevelError) {
		t.Error("Null.Enabled() = true, want false")
	}
	if OrNull(nil) != Null {
		t.Error("OrNull(nil) should return Null")
	}
}
