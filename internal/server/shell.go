package server

import (
	"bytes"
	"embed"
	"html/template"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/render"
)

//go:embed web/index.html
var webFS embed.FS

var shellTmpl = template.Must(template.New("index.html").ParseFS(webFS, "web/index.html"))

type shellData struct {
	Title      string
	Compact    bool
	Archetypes []dataset.Archetype
}

// Defs lets the template inline the scene definitions verbatim.
func (shellData) Defs() template.HTML {
	return template.HTML(render.Defs)
}

func renderShell(d shellData) (string, error) {
	var buf bytes.Buffer
	if err := shellTmpl.Execute(&buf, d); err != nil {
		return "", err
	}
	return buf.String(), nil
}
