package force

import (
	"math"

	"github.com/msalah0e/ecomap/internal/graph"
)

const maxQuadDepth = 32

// quad is a square cell of a point quadtree over arena node positions.
// Leaves hold point indices (several when positions coincide); internal
// cells hold up to four children. After accumulate, cx/cy is the
// charge-weighted centre of the cell and charge its total strength.
type quad struct {
	x0, y0, size float64
	split        bool
	children     [4]*quad
	points       []int

	cx, cy float64
	charge float64
}

func buildQuadtree(nodes []graph.Node) *quad {
	if len(nodes) == 0 {
		return nil
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for i := range nodes {
		minX = math.Min(minX, nodes[i].X)
		minY = math.Min(minY, nodes[i].Y)
		maxX = math.Max(maxX, nodes[i].X)
		maxY = math.Max(maxY, nodes[i].Y)
	}
	size := math.Max(maxX-minX, maxY-minY)
	if size <= 0 || math.IsNaN(size) || math.IsInf(size, 0) {
		size = 1
	}
	// Nudge the upper bound so the largest coordinate falls inside.
	size *= 1 + 1e-9

	root := &quad{x0: minX, y0: minY, size: size}
	for i := range nodes {
		root.insert(nodes, i, 0)
	}
	return root
}

func (q *quad) insert(nodes []graph.Node, i, depth int) {
	if !q.split {
		if len(q.points) == 0 || depth >= maxQuadDepth || samePosition(&nodes[q.points[0]], &nodes[i]) {
			q.points = append(q.points, i)
			return
		}
		q.split = true
		existing := q.points
		q.points = nil
		for _, p := range existing {
			q.child(nodes[p].X, nodes[p].Y).insert(nodes, p, depth+1)
		}
	}
	q.child(nodes[i].X, nodes[i].Y).insert(nodes, i, depth+1)
}

func (q *quad) child(x, y float64) *quad {
	half := q.size / 2
	k := 0
	x0, y0 := q.x0, q.y0
	if x >= q.x0+half {
		k |= 1
		x0 += half
	}
	if y >= q.y0+half {
		k |= 2
		y0 += half
	}
	if q.children[k] == nil {
		q.children[k] = &quad{x0: x0, y0: y0, size: half}
	}
	return q.children[k]
}

// accumulate computes charge and charge-weighted centres bottom-up.
func (q *quad) accumulate(nodes []graph.Node, strengths []float64) {
	var sx, sy, weight float64
	q.charge = 0

	if !q.split {
		for _, p := range q.points {
			s := strengths[p]
			w := math.Abs(s)
			q.charge += s
			weight += w
			sx += w * nodes[p].X
			sy += w * nodes[p].Y
		}
		if weight > 0 {
			q.cx, q.cy = sx/weight, sy/weight
		} else if len(q.points) > 0 {
			q.cx, q.cy = nodes[q.points[0]].X, nodes[q.points[0]].Y
		}
		return
	}

	for _, c := range q.children {
		if c == nil {
			continue
		}
		c.accumulate(nodes, strengths)
		w := math.Abs(c.charge)
		q.charge += c.charge
		weight += w
		sx += w * c.cx
		sy += w * c.cy
	}
	if weight > 0 {
		q.cx, q.cy = sx/weight, sy/weight
	}
}

func samePosition(a, b *graph.Node) bool {
	return a.X == b.X && a.Y == b.Y
}
