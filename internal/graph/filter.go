package graph

import (
	"sort"
	"strings"

	"github.com/msalah0e/ecomap/internal/dataset"
)

// ApplyFilter returns the nodes that carry the given archetype and the
// links whose two endpoints both survive. An empty category keeps
// everything. Runs in O(nodes + links).
func ApplyFilter(nodes []Node, links []Link, category string) ([]Node, []Link) {
	if category == "" {
		return nodes, links
	}

	valid := make(map[string]bool)
	visible := make([]Node, 0, len(nodes))
	for _, n := range nodes {
		if n.HasArchetype(category) {
			valid[n.ID] = true
			visible = append(visible, n)
		}
	}

	visibleLinks := make([]Link, 0, len(links))
	for _, l := range links {
		if valid[l.SourceID] && valid[l.TargetID] {
			visibleLinks = append(visibleLinks, l)
		}
	}
	return visible, visibleLinks
}

// SearchNodes returns the ids of nodes whose display name contains term,
// case-insensitively. An empty term matches nothing.
func SearchNodes(nodes []Node, term string) map[string]bool {
	matched := make(map[string]bool)
	if term == "" {
		return matched
	}
	q := strings.ToLower(term)
	for _, n := range nodes {
		if strings.Contains(strings.ToLower(n.Name), q) {
			matched[n.ID] = true
		}
	}
	return matched
}

// SearchResult holds a scored search hit.
type SearchResult struct {
	Node  *dataset.Node `json:"node"`
	Score int           `json:"score"`
}

// Search scores players against a query: name(100) > segment(20) >
// archetype(15) > description(10).
func Search(doc *dataset.Document, query string) []SearchResult {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return nil
	}
	var results []SearchResult

	for i := range doc.Nodes {
		n := &doc.Nodes[i]
		score := 0
		nameLower := strings.ToLower(n.Name)
		segLower := strings.ToLower(n.Segment)

		if nameLower == q || strings.ToLower(n.ID) == q {
			score += 100
		} else if strings.Contains(nameLower, q) {
			score += 50
		}

		if segLower == q {
			score += 20
		} else if strings.Contains(segLower, q) {
			score += 15
		}
		for _, a := range n.Archetype {
			if strings.Contains(strings.ToLower(a), q) {
				score += 15
				break
			}
		}

		if strings.Contains(strings.ToLower(n.Description), q) {
			score += 10
		}

		if score > 0 {
			results = append(results, SearchResult{Node: n, Score: score})
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Score > results[j].Score
	})
	return results
}
