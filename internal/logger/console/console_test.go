package console

import (
	"bytes"
	"strings"
	"testing"
)

func TestLevels(t *testing.T) {
	var buf bytes.Buffer
	l := New(Params{Output: &buf, NoTimestamp: true})

	l.Debug("hidden")
	l.Info("visible", "addr", ":8080")
	out := buf.String()

	if strings.Contains(out, "hidden") {
		t.Error("debug line should be filtered at info level")
	}
	if !strings.Contains(out, "visible") || !strings.Contains(out, ":8080") {
		t.Errorf("expected info line with key-values, got %q", out)
	}
}

func TestDebugLevel(t *testing.T) {
	var buf bytes.Buffer
	l := New(Params{Output: &buf, NoTimestamp: true, Debug: true})
	l.Debug("tick", "n", 3)
	if !strings.Contains(buf.String(), "tick") {
		t.Errorf("expected debug line, got %q", buf.String())
	}
}
