package graph

import (
	"strings"
	"testing"

	"github.com/msalah0e/ecomap/internal/dataset"
)

// abcDoc is A→B→C where only A and C are Market Aggregators.
func abcDoc() *dataset.Document {
	return &dataset.Document{
		Nodes: []dataset.Node{
			{ID: "A", Name: "Alpha Air", Segment: "Aviation", Archetype: []string{"Market Aggregators", "Infrastructure Integrators"}, Outbound: []string{"B"}},
			{ID: "B", Name: "Beta Booking", Segment: "OTA", Archetype: []string{"Vertical Specialists"}, Outbound: []string{"C"}, Inbound: []string{"A"}},
			{ID: "C", Name: "Gamma Tours", Segment: "Tours", Archetype: []string{"Market Aggregators"}, Description: "small group travel", Inbound: []string{"B"}},
		},
		Links: []dataset.Link{
			{Source: "A", Target: "B", Type: "outbound"},
			{Source: "B", Target: "C", Type: "outbound"},
		},
	}
}

func TestMaterializeCopies(t *testing.T) {
	doc := abcDoc()
	nodes, links := Materialize(doc)

	if len(nodes) != 3 || len(links) != 2 {
		t.Fatalf("expected 3 nodes / 2 links, got %d / %d", len(nodes), len(links))
	}

	nodes[0].X = 42
	nodes[0].Archetype[0] = "changed"
	nodes[0].Outbound[0] = "Z"
	links[0].SourceID = "Z"

	if doc.Nodes[0].Archetype[0] != "Market Aggregators" {
		t.Error("materialize aliased the archetype slice")
	}
	if doc.Nodes[0].Outbound[0] != "B" {
		t.Error("materialize aliased the outbound slice")
	}
	if doc.Links[0].Source != "A" {
		t.Error("materialize aliased the link")
	}
	for _, l := range links {
		if l.Resolved() {
			t.Error("fresh links should be unresolved")
		}
	}
}

func TestApplyFilterNoCategory(t *testing.T) {
	nodes, links := Materialize(abcDoc())
	vn, vl := ApplyFilter(nodes, links, "")
	if len(vn) != 3 || len(vl) != 2 {
		t.Errorf("expected everything visible, got %d / %d", len(vn), len(vl))
	}
}

func TestApplyFilterDropsDanglingLinks(t *testing.T) {
	nodes, links := Materialize(abcDoc())
	vn, vl := ApplyFilter(nodes, links, "Market Aggregators")

	if len(vn) != 2 || vn[0].ID != "A" || vn[1].ID != "C" {
		t.Fatalf("expected visible nodes [A C], got %v", ids(vn))
	}
	if len(vl) != 0 {
		t.Errorf("expected no visible links, got %d", len(vl))
	}
}

func TestApplyFilterClosure(t *testing.T) {
	doc := abcDoc()
	for _, a := range dataset.Archetypes {
		nodes, links := Materialize(doc)
		vn, vl := ApplyFilter(nodes, links, a.Name)
		kept := make(map[string]bool)
		for _, n := range vn {
			kept[n.ID] = true
		}
		for _, l := range vl {
			if !kept[l.SourceID] || !kept[l.TargetID] {
				t.Errorf("%s: link %s->%s escapes the visible set", a.Name, l.SourceID, l.TargetID)
			}
		}
	}
}

func TestApplyFilterUnknownCategory(t *testing.T) {
	nodes, links := Materialize(abcDoc())
	vn, vl := ApplyFilter(nodes, links, "Nobody")
	if len(vn) != 0 || len(vl) != 0 {
		t.Errorf("expected empty result, got %d / %d", len(vn), len(vl))
	}
}

func TestArenaResolve(t *testing.T) {
	nodes, links := Materialize(abcDoc())
	links = append(links, Link{SourceID: "A", TargetID: "ghost"})
	a := NewArena(nodes, links)

	dropped := a.Resolve()
	if dropped != 1 {
		t.Errorf("expected 1 dropped link, got %d", dropped)
	}
	if len(a.Links) != 2 {
		t.Fatalf("expected 2 links, got %d", len(a.Links))
	}
	for i, l := range a.Links {
		if !l.Resolved() {
			t.Errorf("link %d unresolved", i)
		}
		if l.Index != i {
			t.Errorf("link %d has index %d", i, l.Index)
		}
		if a.Nodes[l.Source].ID != l.SourceID || a.Nodes[l.Target].ID != l.TargetID {
			t.Errorf("link %d resolved to the wrong nodes", i)
		}
	}
}

func TestArenaLookup(t *testing.T) {
	nodes, links := Materialize(abcDoc())
	vn, vl := ApplyFilter(nodes, links, "Market Aggregators")
	a := NewArena(vn, vl)

	i, ok := a.Lookup("C")
	if !ok || i != 1 {
		t.Errorf("expected C at index 1, got %d (%v)", i, ok)
	}
	if a.Node("B") != nil {
		t.Error("filtered node B should not be in the arena")
	}
}

func TestPinUnpin(t *testing.T) {
	var n Node
	n.Pin(3, 4)
	if !n.Pinned() || *n.FX != 3 || *n.FY != 4 {
		t.Fatal("pin not applied")
	}
	n.Unpin()
	if n.Pinned() {
		t.Error("unpin not applied")
	}
}

func TestSearchNodes(t *testing.T) {
	nodes, _ := Materialize(abcDoc())

	m := SearchNodes(nodes, "TOURS")
	if len(m) != 1 || !m["C"] {
		t.Errorf("expected only C, got %v", m)
	}
	if len(SearchNodes(nodes, "a")) != 3 {
		t.Error("expected all names to contain 'a'")
	}
	if len(SearchNodes(nodes, "")) != 0 {
		t.Error("empty term should match nothing")
	}
	if len(SearchNodes(nodes, "zzz")) != 0 {
		t.Error("expected no matches")
	}
}

func TestSearchScoring(t *testing.T) {
	doc := abcDoc()

	results := Search(doc, "gamma tours")
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}
	if results[0].Node.ID != "C" || results[0].Score < 100 {
		t.Errorf("unexpected top result %+v", results[0])
	}

	results = Search(doc, "travel")
	if len(results) != 1 || results[0].Score != 10 {
		t.Errorf("expected description-only hit, got %+v", results)
	}

	if Search(doc, "  ") != nil {
		t.Error("blank query should return nothing")
	}
}

func TestBuildDetail(t *testing.T) {
	d, err := BuildDetail(abcDoc(), "B")
	if err != nil {
		t.Fatalf("BuildDetail failed: %v", err)
	}
	if len(d.Inbound) != 1 || d.Inbound[0].Name != "Alpha Air" {
		t.Errorf("unexpected inbound %v", d.Inbound)
	}
	if len(d.Outbound) != 1 || d.Outbound[0].Name != "Gamma Tours" {
		t.Errorf("unexpected outbound %v", d.Outbound)
	}
	if len(d.Archetypes) != 1 || d.Archetypes[0].Color != "#E85D75" {
		t.Errorf("unexpected archetypes %v", d.Archetypes)
	}

	if _, err := BuildDetail(abcDoc(), "nope"); err == nil {
		t.Error("expected error for unknown id")
	}
}

func TestRenderDetail(t *testing.T) {
	d, _ := BuildDetail(abcDoc(), "B")
	identity := func(s string) string { return s }
	out := RenderDetail(d, identity, identity, identity)

	for _, want := range []string{"Beta Booking", "Alpha Air", "Gamma Tours", "Vertical Specialists"} {
		if !strings.Contains(out, want) {
			t.Errorf("detail output missing %q", want)
		}
	}
	if strings.Index(out, "Alpha Air") > strings.Index(out, "Beta Booking") {
		t.Error("inbound players should be listed above the player")
	}
}

func TestExportDOT(t *testing.T) {
	dot := ExportDOT(abcDoc())
	if !strings.Contains(dot, "digraph ecomap") {
		t.Error("DOT output missing digraph header")
	}
	if !strings.Contains(dot, `"A" -> "B"`) {
		t.Error("DOT output missing edge")
	}
	if !strings.Contains(dot, "outbound") {
		t.Error("DOT output missing link type")
	}
}

func ids(nodes []Node) []string {
	out := make([]string, len(nodes))
	for i, n := range nodes {
		out[i] = n.ID
	}
	return out
}
