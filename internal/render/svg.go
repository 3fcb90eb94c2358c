package render

import (
	"fmt"
	"html"
	"io"
	"maps"
	"slices"
	"strings"
)

// Defs is the static <defs> block every scene references: the node glow
// filter and the link arrowhead.
const Defs = `<defs>` +
	`<filter id="glow" x="-50%" y="-50%" width="200%" height="200%">` +
	`<feGaussianBlur stdDeviation="2.5" result="coloredBlur"/>` +
	`<feMerge><feMergeNode in="coloredBlur"/><feMergeNode in="SourceGraphic"/></feMerge>` +
	`</filter>` +
	`<marker id="arrow" viewBox="0 -5 10 10" refX="28" refY="0" markerWidth="6" markerHeight="6" orient="auto">` +
	`<path d="M0,-5L10,0L0,5" fill="#555"/>` +
	`</marker>` +
	`</defs>`

// WriteSVG serialises the whole scene as a standalone SVG document.
func WriteSVG(w io.Writer, s *Scene) error {
	var b strings.Builder
	fmt.Fprintf(&b, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s">`,
		num(s.Width), num(s.Height), num(s.Width), num(s.Height))
	b.WriteString("\n")
	b.WriteString(Defs)
	b.WriteString("\n")
	if s.Background != "" {
		fmt.Fprintf(&b, `<rect width="100%%" height="100%%" fill="%s"/>`+"\n", html.EscapeString(s.Background))
	}

	fmt.Fprintf(&b, `<g transform="%s">`+"\n", s.Transform.String())

	fmt.Fprintf(&b, `<g class="links" stroke="%s" stroke-opacity="%s">`+"\n", LinkStroke, LinkStrokeOpacity)
	for i := range s.Links {
		writeElement(&b, &s.Links[i])
	}
	b.WriteString("</g>\n<g class=\"nodes\">\n")
	for i := range s.Nodes {
		writeElement(&b, &s.Nodes[i])
	}
	b.WriteString("</g>\n<g class=\"labels\" pointer-events=\"none\" style=\"text-shadow: 0 1px 2px rgba(0,0,0,0.8)\">\n")
	for i := range s.Labels {
		writeElement(&b, &s.Labels[i])
	}
	b.WriteString("</g>\n</g>\n</svg>\n")

	_, err := io.WriteString(w, b.String())
	return err
}

func writeElement(b *strings.Builder, e *Element) {
	b.WriteString("<")
	b.WriteString(string(e.Kind))
	fmt.Fprintf(b, ` id="%s"`, html.EscapeString(e.Key))
	for _, k := range slices.Sorted(maps.Keys(e.Attrs)) {
		fmt.Fprintf(b, ` %s="%s"`, k, html.EscapeString(e.Attrs[k]))
	}
	if e.Kind == KindText {
		fmt.Fprintf(b, ">%s</%s>\n", html.EscapeString(e.Text), e.Kind)
		return
	}
	b.WriteString("/>\n")
}
