package graph

import (
	"fmt"
	"sort"
	"strings"

	"github.com/msalah0e/ecomap/internal/dataset"
)

// Ref is a resolved reference to another player.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Detail is the read-only projection shown for a selected player.
type Detail struct {
	Node       *dataset.Node       `json:"node"`
	Archetypes []dataset.Archetype `json:"archetypes"`
	Outbound   []Ref               `json:"outbound"`
	Inbound    []Ref               `json:"inbound"`
}

// BuildDetail looks up a player and resolves its connection ids to names.
func BuildDetail(doc *dataset.Document, id string) (*Detail, error) {
	n, ok := doc.Node(id)
	if !ok {
		return nil, fmt.Errorf("player not found: %s", id)
	}

	d := &Detail{Node: n}
	for _, name := range n.Archetype {
		a, ok := dataset.LookupArchetype(name)
		if !ok {
			a = dataset.Archetype{Name: name, Color: dataset.DefaultColor}
		}
		d.Archetypes = append(d.Archetypes, a)
	}
	for _, ref := range n.Outbound {
		d.Outbound = append(d.Outbound, Ref{ID: ref, Name: doc.NameOf(ref)})
	}
	for _, ref := range n.Inbound {
		d.Inbound = append(d.Inbound, Ref{ID: ref, Name: doc.NameOf(ref)})
	}
	return d, nil
}

// RenderDetail produces a terminal tree view of a player and its connections.
func RenderDetail(d *Detail, brandFn, subtleFn, infoFn func(string) string) string {
	var b strings.Builder

	for i, ref := range d.Inbound {
		prefix := "  ├── "
		if i == len(d.Inbound)-1 && len(d.Outbound) == 0 {
			prefix = "  └── "
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", prefix, subtleFn("inbound"), subtleFn("──"), brandFn(ref.Name)))
		b.WriteString("  │\n")
	}

	n := d.Node
	b.WriteString(fmt.Sprintf("  ● %s %s\n", brandFn(n.Name), subtleFn("("+n.ID+")")))
	if n.Segment != "" {
		b.WriteString(fmt.Sprintf("  │  %s\n", subtleFn(n.Segment)))
	}
	for _, a := range d.Archetypes {
		b.WriteString(fmt.Sprintf("  │  %s %s\n", infoFn(a.Name), subtleFn(a.Description)))
	}
	if n.Description != "" {
		b.WriteString(fmt.Sprintf("  │  %s\n", infoFn("\""+n.Description+"\"")))
	}
	if n.MarketSize != "" {
		b.WriteString(fmt.Sprintf("  │  market size: %s\n", n.MarketSize))
	}
	if n.BusinessModel != "" {
		b.WriteString(fmt.Sprintf("  │  business model: %s\n", n.BusinessModel))
	}

	if len(d.Outbound) > 0 {
		b.WriteString("  │\n")
	}
	for i, ref := range d.Outbound {
		prefix := "  ├── "
		if i == len(d.Outbound)-1 {
			prefix = "  └── "
		}
		b.WriteString(fmt.Sprintf("%s%s %s %s\n", prefix, subtleFn("outbound"), subtleFn("──"), brandFn(ref.Name)))
	}

	return b.String()
}

// ExportDOT returns the dataset in Graphviz DOT format.
func ExportDOT(doc *dataset.Document) string {
	var b strings.Builder
	b.WriteString("digraph ecomap {\n")
	b.WriteString("  rankdir=LR;\n")
	b.WriteString("  node [shape=box, style=rounded];\n\n")

	nodes := make([]dataset.Node, len(doc.Nodes))
	copy(nodes, doc.Nodes)
	sort.Slice(nodes, func(i, j int) bool { return nodes[i].ID < nodes[j].ID })

	for _, n := range nodes {
		label := n.Name
		if n.Segment != "" {
			label += "\\n(" + n.Segment + ")"
		}
		color := n.Color
		if color == "" {
			color = dataset.DefaultColor
		}
		b.WriteString(fmt.Sprintf("  %q [label=%q, color=%q];\n", n.ID, label, color))
	}

	b.WriteString("\n")
	for _, l := range doc.Links {
		if l.Type != "" {
			b.WriteString(fmt.Sprintf("  %q -> %q [label=%q];\n", l.Source, l.Target, l.Type))
		} else {
			b.WriteString(fmt.Sprintf("  %q -> %q;\n", l.Source, l.Target))
		}
	}

	b.WriteString("}\n")
	return b.String()
}
