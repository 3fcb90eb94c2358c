package dataset

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Node is one ecosystem player as it appears in the source document.
type Node struct {
	ID            string   `json:"id" yaml:"id"`
	Name          string   `json:"name" yaml:"name"`
	Segment       string   `json:"segment" yaml:"segment"`
	Archetype     []string `json:"archetype" yaml:"archetype"`
	Color         string   `json:"color" yaml:"color"`
	Description   string   `json:"description" yaml:"description"`
	MarketSize    string   `json:"market_size" yaml:"market_size"`
	BusinessModel string   `json:"business_model" yaml:"business_model"`
	Outbound      []string `json:"outbound" yaml:"outbound"`
	Inbound       []string `json:"inbound" yaml:"inbound"`
}

// Link is a directed relationship between two players, by id.
type Link struct {
	Source string `json:"source" yaml:"source"`
	Target string `json:"target" yaml:"target"`
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
}

// Document is the full, read-only dataset. It is loaded once and shared by
// every view; nothing downstream may write to it.
type Document struct {
	Nodes []Node `json:"nodes" yaml:"nodes"`
	Links []Link `json:"links" yaml:"links"`
}

// Stats holds summary counts.
type Stats struct {
	Nodes      int
	Links      int
	Archetypes int
	Segments   int
}

// Parse decodes a document. The format is picked from the file extension;
// anything that is not .yaml/.yml is treated as JSON.
func Parse(data []byte, name string) (*Document, error) {
	doc := &Document{}
	switch strings.ToLower(filepath.Ext(name)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("dataset parse %s: %w", name, err)
		}
	default:
		if err := json.Unmarshal(data, doc); err != nil {
			return nil, fmt.Errorf("dataset parse %s: %w", name, err)
		}
	}
	if doc.Nodes == nil {
		doc.Nodes = make([]Node, 0)
	}
	if doc.Links == nil {
		doc.Links = make([]Link, 0)
	}
	return doc, nil
}

// LoadFile reads a document from disk.
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("dataset read: %w", err)
	}
	return Parse(data, path)
}

// LoadFromFS reads a document from an embedded (or any) filesystem.
func LoadFromFS(fsys fs.FS, path string) (*Document, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("dataset read: %w", err)
	}
	return Parse(data, path)
}

// Node returns the record with the given id.
func (d *Document) Node(id string) (*Node, bool) {
	for i := range d.Nodes {
		if d.Nodes[i].ID == id {
			return &d.Nodes[i], true
		}
	}
	return nil, false
}

// NameOf resolves an id to a display name, falling back to the id itself.
func (d *Document) NameOf(id string) string {
	if n, ok := d.Node(id); ok {
		return n.Name
	}
	return id
}

// GetStats returns summary statistics.
func (d *Document) GetStats() Stats {
	archetypes := make(map[string]bool)
	segments := make(map[string]bool)
	for _, n := range d.Nodes {
		for _, a := range n.Archetype {
			archetypes[a] = true
		}
		if n.Segment != "" {
			segments[n.Segment] = true
		}
	}
	return Stats{
		Nodes:      len(d.Nodes),
		Links:      len(d.Links),
		Archetypes: len(archetypes),
		Segments:   len(segments),
	}
}

// ExportJSON returns the document as pretty-printed JSON.
func (d *Document) ExportJSON() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// ExportYAML returns the document as YAML.
func (d *Document) ExportYAML() ([]byte, error) {
	return yaml.Marshal(d)
}
