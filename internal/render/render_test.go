package render

import (
	"math"
	"strings"
	"testing"

	"github.com/msalah0e/ecomap/internal/graph"
	"github.com/msalah0e/ecomap/internal/highlight"
	"github.com/msalah0e/ecomap/internal/viewport"
)

func arena() *graph.Arena {
	a := graph.NewArena(
		[]graph.Node{
			{ID: "A", Name: "Alpha & Co", Color: "#1F8C7D"},
			{ID: "B", Name: "Beta"},
			{ID: "C", Name: "Gamma"},
		},
		[]graph.Link{
			{SourceID: "A", TargetID: "B"},
			{SourceID: "B", TargetID: "C"},
		},
	)
	a.Resolve()
	for i := range a.Nodes {
		a.Nodes[i].X = float64(i) * 100
		a.Nodes[i].Y = 50
	}
	return a
}

func build(a *graph.Arena, sel string) *Scene {
	d := highlight.Decorate(a.Nodes, a.Links, sel, "", highlight.DefaultStyle())
	return Build(a, d, viewport.Identity(), 800, 600)
}

func TestBuild(t *testing.T) {
	s := build(arena(), "")

	if len(s.Nodes) != 3 || len(s.Labels) != 3 || len(s.Links) != 2 {
		t.Fatalf("unexpected scene sizes: %d nodes, %d labels, %d links", len(s.Nodes), len(s.Labels), len(s.Links))
	}
	n := s.Nodes[0]
	if n.Key != "n:A" || n.Attrs["cx"] != "0" || n.Attrs["cy"] != "50" {
		t.Errorf("unexpected node element %+v", n)
	}
	if n.Attrs["stroke"] != "#1F8C7D" || n.Attrs["fill"] != "#000" || n.Attrs["r"] != "6" {
		t.Errorf("unexpected node style %+v", n.Attrs)
	}
	if s.Nodes[1].Attrs["stroke"] != "#999999" {
		t.Errorf("missing colour should fall back to the default, got %s", s.Nodes[1].Attrs["stroke"])
	}
	if s.Links[0].Key != "l:A->B#0" || s.Links[0].Attrs["x2"] != "100" {
		t.Errorf("unexpected link element %+v", s.Links[0])
	}
	if s.Labels[2].Key != "t:C" || s.Labels[2].Text != "Gamma" || s.Labels[2].Attrs["dy"] != "20" {
		t.Errorf("unexpected label element %+v", s.Labels[2])
	}
}

func TestBuildDropsBadLinks(t *testing.T) {
	a := arena()
	a.Nodes[2].X = math.NaN()
	a.Links = append(a.Links, graph.Link{SourceID: "A", TargetID: "Z", Index: 2, Source: -1, Target: -1})

	s := build(a, "")
	if len(s.Links) != 1 || s.Links[0].Key != "l:A->B#0" {
		t.Errorf("expected only A->B to survive, got %d links", len(s.Links))
	}
	if len(s.Nodes) != 2 {
		t.Errorf("node with NaN position should not be painted, got %d nodes", len(s.Nodes))
	}
}

func TestBuildDecoration(t *testing.T) {
	s := build(arena(), "A")
	if s.Nodes[0].Attrs["r"] != "30" || s.Nodes[1].Attrs["r"] != "20" {
		t.Errorf("unexpected radii %s / %s", s.Nodes[0].Attrs["r"], s.Nodes[1].Attrs["r"])
	}
	if s.Nodes[2].Attrs["opacity"] != "0.1" {
		t.Errorf("expected dimmed node, got %s", s.Nodes[2].Attrs["opacity"])
	}
	if s.Links[0].Attrs["stroke-width"] != "2" || s.Links[1].Attrs["opacity"] != "0.1" {
		t.Errorf("unexpected link decoration %v / %v", s.Links[0].Attrs, s.Links[1].Attrs)
	}
}

func TestDiffIdentical(t *testing.T) {
	a := arena()
	if p := Diff(build(a, ""), build(a, "")); len(p) != 0 {
		t.Errorf("expected no patches, got %+v", p)
	}
}

func TestDiffFromNil(t *testing.T) {
	s := build(arena(), "")
	patches := Diff(nil, s)

	adds := 0
	for _, p := range patches {
		switch p.Op {
		case OpAdd:
			adds++
		case OpResize:
			if p.Width != 800 || p.Height != 600 {
				t.Errorf("unexpected resize %+v", p)
			}
		default:
			t.Errorf("unexpected op %s", p.Op)
		}
	}
	if adds != 8 {
		t.Errorf("expected 8 adds, got %d", adds)
	}
}

func TestDiffMove(t *testing.T) {
	a := arena()
	prev := build(a, "")
	a.Nodes[1].X = 150
	next := build(a, "")

	patches := Diff(prev, next)
	keys := map[string]map[string]string{}
	for _, p := range patches {
		if p.Op != OpUpdate {
			t.Fatalf("expected only updates, got %s", p.Op)
		}
		keys[p.Key] = p.Attrs
	}
	if len(keys) != 4 {
		t.Errorf("expected node, label and two links updated, got %v", keys)
	}
	if keys["n:B"]["cx"] != "150" || len(keys["n:B"]) != 1 {
		t.Errorf("expected only cx to change on n:B, got %v", keys["n:B"])
	}
	if keys["l:A->B#0"]["x2"] != "150" || keys["l:B->C#1"]["x1"] != "150" {
		t.Error("links should follow the moved node")
	}
}

func TestDiffRemoveAndTransform(t *testing.T) {
	a := arena()
	prev := build(a, "")

	b := graph.NewArena(a.Nodes[:2], a.Links[:1])
	b.Resolve()
	d := highlight.Decorate(b.Nodes, b.Links, "", "", highlight.DefaultStyle())
	next := Build(b, d, viewport.Transform{X: 5, Y: 5, K: 2}, 800, 600)

	var removed []string
	var transformed bool
	for _, p := range Diff(prev, next) {
		switch p.Op {
		case OpRemove:
			removed = append(removed, p.Key)
		case OpTransform:
			transformed = p.Transform.K == 2
		}
	}
	if len(removed) != 3 {
		t.Errorf("expected C, its label and B->C removed, got %v", removed)
	}
	if !transformed {
		t.Error("expected a transform patch")
	}
}

func TestWriteSVG(t *testing.T) {
	s := build(arena(), "")
	s.Background = "#050505"
	var b strings.Builder
	if err := WriteSVG(&b, s); err != nil {
		t.Fatalf("WriteSVG: %v", err)
	}
	out := b.String()

	for _, want := range []string{
		`<svg xmlns="http://www.w3.org/2000/svg" width="800" height="600"`,
		`stdDeviation="2.5"`,
		`refX="28"`,
		`<circle id="n:A"`,
		`<line id="l:A-&gt;B#0"`,
		`>Alpha &amp; Co</text>`,
		`transform="translate(0,0) scale(1)"`,
		`fill="#050505"`,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q", want)
		}
	}
}
