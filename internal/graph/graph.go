package graph

import (
	"slices"

	"github.com/msalah0e/ecomap/internal/dataset"
)

// Node is a working copy of a dataset player, augmented with the mutable
// simulation state. A Node belongs to exactly one Arena.
type Node struct {
	ID            string
	Name          string
	Segment       string
	Archetype     []string
	Color         string
	Description   string
	MarketSize    string
	BusinessModel string
	Outbound      []string
	Inbound       []string

	Index  int
	X, Y   float64
	VX, VY float64
	// FX and FY are non-nil only while the node is pinned by a drag.
	FX, FY *float64
}

// Pin fixes the node at (x, y) until Unpin.
func (n *Node) Pin(x, y float64) {
	n.FX, n.FY = &x, &y
}

// Unpin releases the node back to the simulation.
func (n *Node) Unpin() {
	n.FX, n.FY = nil, nil
}

// Pinned reports whether the node is held by a drag gesture.
func (n *Node) Pinned() bool {
	return n.FX != nil && n.FY != nil
}

// HasArchetype reports whether the node belongs to the given category.
func (n *Node) HasArchetype(name string) bool {
	return slices.Contains(n.Archetype, name)
}

// Link is a working copy of a relationship. Source and Target hold arena
// indices once the link force has resolved SourceID and TargetID; until
// then they are -1.
type Link struct {
	SourceID string
	TargetID string
	Type     string

	Index  int
	Source int
	Target int
}

// Resolved reports whether both endpoints point at live arena nodes.
func (l *Link) Resolved() bool {
	return l.Source >= 0 && l.Target >= 0
}

// Touches reports whether the link has the given node id at either end.
func (l *Link) Touches(id string) bool {
	return l.SourceID == id || l.TargetID == id
}

// Arena is the node and link storage of one simulation epoch. Everything
// that reads or writes positions during the epoch goes through the same
// Arena; a rebuild discards it and makes a new one.
type Arena struct {
	Nodes []Node
	Links []Link

	index map[string]int
}

// Materialize copies the document's records into fresh working slices.
// The document is never written to.
func Materialize(doc *dataset.Document) ([]Node, []Link) {
	nodes := make([]Node, len(doc.Nodes))
	for i, src := range doc.Nodes {
		nodes[i] = Node{
			ID:            src.ID,
			Name:          src.Name,
			Segment:       src.Segment,
			Archetype:     slices.Clone(src.Archetype),
			Color:         src.Color,
			Description:   src.Description,
			MarketSize:    src.MarketSize,
			BusinessModel: src.BusinessModel,
			Outbound:      slices.Clone(src.Outbound),
			Inbound:       slices.Clone(src.Inbound),
			Index:         i,
		}
	}

	links := make([]Link, len(doc.Links))
	for i, src := range doc.Links {
		links[i] = Link{
			SourceID: src.Source,
			TargetID: src.Target,
			Type:     src.Type,
			Index:    i,
			Source:   -1,
			Target:   -1,
		}
	}
	return nodes, links
}

// NewArena takes ownership of nodes and links, renumbering them densely.
// Link endpoints are left unresolved.
func NewArena(nodes []Node, links []Link) *Arena {
	a := &Arena{
		Nodes: nodes,
		Links: links,
		index: make(map[string]int, len(nodes)),
	}
	for i := range a.Nodes {
		a.Nodes[i].Index = i
		a.index[a.Nodes[i].ID] = i
	}
	for i := range a.Links {
		a.Links[i].Index = i
		a.Links[i].Source = -1
		a.Links[i].Target = -1
	}
	return a
}

// Lookup returns the arena index of a node id.
func (a *Arena) Lookup(id string) (int, bool) {
	i, ok := a.index[id]
	return i, ok
}

// Node returns the node with the given id, or nil.
func (a *Arena) Node(id string) *Node {
	i, ok := a.index[id]
	if !ok {
		return nil
	}
	return &a.Nodes[i]
}

// Resolve points every link at its endpoint indices and drops the links
// whose endpoints are not in the arena. It returns the number dropped.
func (a *Arena) Resolve() int {
	kept := a.Links[:0]
	for _, l := range a.Links {
		s, okS := a.index[l.SourceID]
		t, okT := a.index[l.TargetID]
		if !okS || !okT {
			continue
		}
		l.Source, l.Target = s, t
		l.Index = len(kept)
		kept = append(kept, l)
	}
	dropped := len(a.Links) - len(kept)
	a.Links = kept
	return dropped
}
