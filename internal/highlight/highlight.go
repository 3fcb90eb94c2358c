// Package highlight computes the per-element decoration of a view from the
// current selection and search term. Decorate is a pure function: the same
// inputs always give the same output.
package highlight

import (
	"github.com/msalah0e/ecomap/internal/graph"
)

// State is the decoration mode a view is in.
type State int

const (
	Neutral State = iota
	Selected
	Searching
)

func (s State) String() string {
	switch s {
	case Selected:
		return "selected"
	case Searching:
		return "searching"
	default:
		return "neutral"
	}
}

// Style holds the decoration constants.
type Style struct {
	DimOpacity        float64 `toml:"dim_opacity"`
	SearchLinkOpacity float64 `toml:"search_link_opacity"`
	Radius            float64 `toml:"radius"`
	NeighborRadius    float64 `toml:"neighbor_radius"`
	SelectedRadius    float64 `toml:"selected_radius"`
	LinkWidth         float64 `toml:"link_width"`
	HighlightWidth    float64 `toml:"highlight_width"`
	LinkColor         string  `toml:"link_color"`
	HighlightColor    string  `toml:"highlight_color"`
}

// DefaultStyle returns the stock look.
func DefaultStyle() Style {
	return Style{
		DimOpacity:        0.1,
		SearchLinkOpacity: 0.05,
		Radius:            6,
		NeighborRadius:    20,
		SelectedRadius:    30,
		LinkWidth:         1,
		HighlightWidth:    2,
		LinkColor:         "#555",
		HighlightColor:    "#555",
	}
}

// NodeStyle decorates one node circle.
type NodeStyle struct {
	Opacity float64
	Radius  float64
}

// LinkStyle decorates one link line.
type LinkStyle struct {
	Opacity     float64
	Width       float64
	Color       string
	Highlighted bool
}

// LabelStyle decorates one node label.
type LabelStyle struct {
	Opacity float64
}

// Decoration is the output of Decorate. Nodes and Labels are aligned with
// the input nodes, Links with the input links.
type Decoration struct {
	State State
	// Highlighted holds the ids raised to full opacity. It is empty in the
	// Neutral state.
	Highlighted map[string]bool
	Nodes       []NodeStyle
	Links       []LinkStyle
	Labels      []LabelStyle
}

// Decorate computes the decoration of the visible nodes and links.
//
// A selection wins over a search. A selected id that is not among the
// visible nodes is treated as no selection. A search that matches no node
// name decorates like Neutral.
func Decorate(nodes []graph.Node, links []graph.Link, selectedID, searchTerm string, style Style) Decoration {
	d := neutral(nodes, links, style)

	if selectedID != "" && visible(nodes, selectedID) {
		selectNeighborhood(&d, nodes, links, selectedID, style)
		return d
	}

	if searchTerm != "" {
		matches := graph.SearchNodes(nodes, searchTerm)
		if len(matches) > 0 {
			searchMatches(&d, nodes, matches, style)
		}
	}
	return d
}

func neutral(nodes []graph.Node, links []graph.Link, style Style) Decoration {
	d := Decoration{
		State:       Neutral,
		Highlighted: map[string]bool{},
		Nodes:       make([]NodeStyle, len(nodes)),
		Links:       make([]LinkStyle, len(links)),
		Labels:      make([]LabelStyle, len(nodes)),
	}
	for i := range nodes {
		d.Nodes[i] = NodeStyle{Opacity: 1, Radius: style.Radius}
		d.Labels[i] = LabelStyle{Opacity: 1}
	}
	for i := range links {
		d.Links[i] = LinkStyle{Opacity: 1, Width: style.LinkWidth, Color: style.LinkColor}
	}
	return d
}

func visible(nodes []graph.Node, id string) bool {
	for i := range nodes {
		if nodes[i].ID == id {
			return true
		}
	}
	return false
}

func selectNeighborhood(d *Decoration, nodes []graph.Node, links []graph.Link, selectedID string, style Style) {
	d.State = Selected
	d.Highlighted[selectedID] = true
	for i := range links {
		l := &links[i]
		if l.SourceID == selectedID {
			d.Highlighted[l.TargetID] = true
		}
		if l.TargetID == selectedID {
			d.Highlighted[l.SourceID] = true
		}
	}

	for i := range nodes {
		id := nodes[i].ID
		switch {
		case id == selectedID:
			d.Nodes[i] = NodeStyle{Opacity: 1, Radius: style.SelectedRadius}
			d.Labels[i].Opacity = 1
		case d.Highlighted[id]:
			d.Nodes[i] = NodeStyle{Opacity: 1, Radius: style.NeighborRadius}
			d.Labels[i].Opacity = 1
		default:
			d.Nodes[i].Opacity = style.DimOpacity
			d.Labels[i].Opacity = style.DimOpacity
		}
	}

	for i := range links {
		if links[i].Touches(selectedID) {
			d.Links[i] = LinkStyle{
				Opacity:     1,
				Width:       style.HighlightWidth,
				Color:       style.HighlightColor,
				Highlighted: true,
			}
		} else {
			d.Links[i].Opacity = style.DimOpacity
		}
	}
}

func searchMatches(d *Decoration, nodes []graph.Node, matches map[string]bool, style Style) {
	d.State = Searching
	for i := range nodes {
		if matches[nodes[i].ID] {
			d.Highlighted[nodes[i].ID] = true
			continue
		}
		d.Nodes[i].Opacity = style.DimOpacity
		d.Labels[i].Opacity = style.DimOpacity
	}
	for i := range d.Links {
		d.Links[i].Opacity = style.SearchLinkOpacity
	}
}

