package render

import (
	"maps"

	"github.com/msalah0e/ecomap/internal/viewport"
)

// Op is a patch operation.
type Op string

const (
	OpAdd       Op = "add"
	OpUpdate    Op = "update"
	OpRemove    Op = "remove"
	OpTransform Op = "transform"
	OpResize    Op = "resize"
)

// Patch is one change between two scenes. Add carries the full element;
// update carries only the attributes that changed, with an empty value for
// a removed attribute.
type Patch struct {
	Op        Op                  `json:"op"`
	Key       string              `json:"key,omitempty"`
	Kind      Kind                `json:"kind,omitempty"`
	Attrs     map[string]string   `json:"attrs,omitempty"`
	Text      *string             `json:"text,omitempty"`
	Transform *viewport.Transform `json:"transform,omitempty"`
	Width     float64             `json:"width,omitempty"`
	Height    float64             `json:"height,omitempty"`
}

// Diff returns the patches that turn prev into next. A nil prev diffs
// against an empty scene. Removals come first, then per-layer adds and
// updates in paint order.
func Diff(prev, next *Scene) []Patch {
	if prev == nil {
		prev = &Scene{Transform: viewport.Identity()}
	}
	var patches []Patch

	if prev.Width != next.Width || prev.Height != next.Height {
		patches = append(patches, Patch{Op: OpResize, Width: next.Width, Height: next.Height})
	}
	if prev.Transform != next.Transform {
		t := next.Transform
		patches = append(patches, Patch{Op: OpTransform, Transform: &t})
	}

	layers := [][2][]Element{
		{prev.Links, next.Links},
		{prev.Nodes, next.Nodes},
		{prev.Labels, next.Labels},
	}
	for _, l := range layers {
		patches = append(patches, removals(l[0], l[1])...)
	}
	for _, l := range layers {
		patches = append(patches, changes(l[0], l[1])...)
	}
	return patches
}

func index(els []Element) map[string]*Element {
	m := make(map[string]*Element, len(els))
	for i := range els {
		m[els[i].Key] = &els[i]
	}
	return m
}

func removals(prev, next []Element) []Patch {
	keep := index(next)
	var out []Patch
	for _, e := range prev {
		if _, ok := keep[e.Key]; !ok {
			out = append(out, Patch{Op: OpRemove, Key: e.Key, Kind: e.Kind})
		}
	}
	return out
}

func changes(prev, next []Element) []Patch {
	old := index(prev)
	var out []Patch
	for _, e := range next {
		p, ok := old[e.Key]
		if !ok {
			text := e.Text
			out = append(out, Patch{Op: OpAdd, Key: e.Key, Kind: e.Kind, Attrs: maps.Clone(e.Attrs), Text: &text})
			continue
		}

		changed := make(map[string]string)
		for k, v := range e.Attrs {
			if pv, ok := p.Attrs[k]; !ok || pv != v {
				changed[k] = v
			}
		}
		for k := range p.Attrs {
			if _, ok := e.Attrs[k]; !ok {
				changed[k] = ""
			}
		}

		var text *string
		if p.Text != e.Text {
			t := e.Text
			text = &t
		}
		if len(changed) == 0 && text == nil {
			continue
		}
		if len(changed) == 0 {
			changed = nil
		}
		out = append(out, Patch{Op: OpUpdate, Key: e.Key, Kind: e.Kind, Attrs: changed, Text: text})
	}
	return out
}
