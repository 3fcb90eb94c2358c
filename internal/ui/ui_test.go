package ui

import (
	"testing"

	"github.com/fatih/color"
)

func TestSwatch(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	if got := Swatch("#1F8C7D"); got != "■" {
		t.Errorf("expected plain block, got %q", got)
	}
	if got := Swatch("teal"); got != "■" {
		t.Errorf("expected fallback block, got %q", got)
	}
}

func TestStatusIcon(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	if StatusIcon(true) != "✓" || StatusIcon(false) != "✗" {
		t.Error("unexpected status icons")
	}
}

func TestWarnIcon(t *testing.T) {
	color.NoColor = true
	defer func() { color.NoColor = false }()

	if WarnIcon() != "⚠" {
		t.Errorf("unexpected warn icon %q", WarnIcon())
	}
	if Warn.Sprint("careful") != "careful" {
		t.Error("warn colour should pass text through without colour")
	}
}
