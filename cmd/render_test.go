package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/render"
)

func warnDoc() *dataset.Document {
	return &dataset.Document{
		Nodes: []dataset.Node{
			{ID: "A", Name: "Alpha", Archetype: []string{"Market Aggregators"}},
			{ID: "B", Name: "Beta", Archetype: []string{"Community Builders"}},
		},
	}
}

func TestInputWarnings(t *testing.T) {
	tests := []struct {
		name     string
		filter   string
		selected string
		want     []string
	}{
		{"none", "", "", nil},
		{"valid filter and selection", "Market Aggregators", "A", nil},
		{"unknown filter", "Nobody", "", []string{`no player has archetype "Nobody", showing all`}},
		{"unknown player", "", "Z", []string{`unknown player "Z", nothing selected`}},
		{"hidden player", "Market Aggregators", "B", []string{`player "B" is hidden by the filter, nothing selected`}},
		{"unknown filter keeps selection", "Nobody", "B", []string{`no player has archetype "Nobody", showing all`}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := inputWarnings(warnDoc(), tt.filter, tt.selected)
			if strings.Join(got, "|") != strings.Join(tt.want, "|") {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWriteSVGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "map.svg")
	sc := &render.Scene{Width: 100, Height: 50}
	if err := writeSVG(path, sc); err != nil {
		t.Fatalf("writeSVG: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if s := strings.TrimSpace(string(data)); !strings.HasPrefix(s, "<svg") || !strings.HasSuffix(s, "</svg>") {
		t.Errorf("expected a complete svg document, got %q", s)
	}
}

func TestWriteSVGBadPath(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing", "map.svg")
	if err := writeSVG(path, &render.Scene{Width: 1, Height: 1}); err == nil {
		t.Error("expected an error for a missing directory")
	}
}
