// Package render turns an arena and its decoration into a declarative SVG
// scene, and reconciles successive scenes into keyed patches.
package render

import (
	"fmt"
	"math"
	"strconv"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/graph"
	"github.com/msalah0e/ecomap/internal/highlight"
	"github.com/msalah0e/ecomap/internal/viewport"
)

// Kind is the SVG element an Element becomes.
type Kind string

const (
	KindLine   Kind = "line"
	KindCircle Kind = "circle"
	KindText   Kind = "text"
)

// Element is one keyed scene element.
type Element struct {
	Key   string            `json:"key"`
	Kind  Kind              `json:"kind"`
	Attrs map[string]string `json:"attrs"`
	Text  string            `json:"text,omitempty"`
}

// Scene is the full desired state of a view. Links, Nodes and Labels are
// painted in that order.
type Scene struct {
	Width      float64            `json:"width"`
	Height     float64            `json:"height"`
	Transform  viewport.Transform `json:"transform"`
	Background string             `json:"background,omitempty"`
	Links      []Element          `json:"links"`
	Nodes      []Element          `json:"nodes"`
	Labels     []Element          `json:"labels"`
}

// Layer attributes shared by every element of a layer.
const (
	LinkStroke        = "#555"
	LinkStrokeOpacity = "0.3"
	NodeFill          = "#000"
	NodeStrokeWidth   = "2"
	LabelFill         = "#aaa"
	LabelSize         = "8px"
	LabelOffset       = "20"
)

// NodeKey, LinkKey and LabelKey name scene elements.
func NodeKey(id string) string  { return "n:" + id }
func LabelKey(id string) string { return "t:" + id }
func LinkKey(l *graph.Link) string {
	return fmt.Sprintf("l:%s->%s#%d", l.SourceID, l.TargetID, l.Index)
}

// Build produces the scene for the arena as decorated by d. Decoration
// slices must be aligned with the arena's nodes and links. Links with an
// unresolved endpoint or a non-finite coordinate are left out, as are
// nodes with non-finite positions.
func Build(a *graph.Arena, d highlight.Decoration, t viewport.Transform, width, height float64) *Scene {
	s := &Scene{
		Width:     width,
		Height:    height,
		Transform: t,
		Links:     make([]Element, 0, len(a.Links)),
		Nodes:     make([]Element, 0, len(a.Nodes)),
		Labels:    make([]Element, 0, len(a.Nodes)),
	}

	for i := range a.Links {
		l := &a.Links[i]
		if !l.Resolved() || l.Source >= len(a.Nodes) || l.Target >= len(a.Nodes) {
			continue
		}
		src, dst := &a.Nodes[l.Source], &a.Nodes[l.Target]
		if !finite(src.X, src.Y, dst.X, dst.Y) {
			continue
		}
		style := highlight.LinkStyle{Opacity: 1, Width: 1, Color: LinkStroke}
		if i < len(d.Links) {
			style = d.Links[i]
		}
		s.Links = append(s.Links, Element{
			Key:  LinkKey(l),
			Kind: KindLine,
			Attrs: map[string]string{
				"x1":           coord(src.X),
				"y1":           coord(src.Y),
				"x2":           coord(dst.X),
				"y2":           coord(dst.Y),
				"stroke":       style.Color,
				"stroke-width": num(style.Width),
				"opacity":      num(style.Opacity),
				"marker-end":   "url(#arrow)",
			},
		})
	}

	for i := range a.Nodes {
		n := &a.Nodes[i]
		if !finite(n.X, n.Y) {
			continue
		}
		ns := highlight.NodeStyle{Opacity: 1, Radius: 6}
		ls := highlight.LabelStyle{Opacity: 1}
		if i < len(d.Nodes) {
			ns, ls = d.Nodes[i], d.Labels[i]
		}
		color := n.Color
		if color == "" {
			color = dataset.DefaultColor
		}
		s.Nodes = append(s.Nodes, Element{
			Key:  NodeKey(n.ID),
			Kind: KindCircle,
			Attrs: map[string]string{
				"cx":           coord(n.X),
				"cy":           coord(n.Y),
				"r":            num(ns.Radius),
				"fill":         NodeFill,
				"stroke":       color,
				"stroke-width": NodeStrokeWidth,
				"opacity":      num(ns.Opacity),
				"filter":       "url(#glow)",
				"data-id":      n.ID,
			},
		})
		s.Labels = append(s.Labels, Element{
			Key:  LabelKey(n.ID),
			Kind: KindText,
			Attrs: map[string]string{
				"x":           coord(n.X),
				"y":           coord(n.Y),
				"dy":          LabelOffset,
				"text-anchor": "middle",
				"font-size":   LabelSize,
				"fill":        LabelFill,
				"opacity":     num(ls.Opacity),
			},
			Text: n.Name,
		})
	}
	return s
}

func finite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// coord rounds positions to hundredths so sub-pixel jitter of a settled
// layout does not produce patches.
func coord(f float64) string {
	return strconv.FormatFloat(math.Round(f*100)/100, 'f', -1, 64)
}

func num(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
