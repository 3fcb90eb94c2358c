package force

import (
	"math"
	"math/rand"

	"github.com/msalah0e/ecomap/internal/graph"
)

// ManyBody applies an n-body charge between all nodes: negative strength
// repels, positive attracts. Far-away clusters are approximated by their
// quadtree cell once cellSize²/distance² drops below Theta².
type ManyBody struct {
	Strength    float64
	Theta       float64
	DistanceMin float64

	arena     *graph.Arena
	rnd       *rand.Rand
	strengths []float64
	theta2    float64
	distMin2  float64
}

// NewManyBody returns a charge force. Theta 0 degrades to exact pairwise
// summation.
func NewManyBody(strength, theta, distanceMin float64) *ManyBody {
	return &ManyBody{Strength: strength, Theta: theta, DistanceMin: distanceMin}
}

func (f *ManyBody) Initialize(a *graph.Arena, rnd *rand.Rand) {
	f.arena, f.rnd = a, rnd
	f.strengths = make([]float64, len(a.Nodes))
	for i := range f.strengths {
		f.strengths[i] = f.Strength
	}
	f.theta2 = f.Theta * f.Theta
	f.distMin2 = f.DistanceMin * f.DistanceMin
}

func (f *ManyBody) Apply(alpha float64) {
	nodes := f.arena.Nodes
	root := buildQuadtree(nodes)
	if root == nil {
		return
	}
	root.accumulate(nodes, f.strengths)
	for i := range nodes {
		f.visit(root, i, alpha)
	}
}

func (f *ManyBody) visit(q *quad, i int, alpha float64) {
	if q.charge == 0 {
		return
	}
	n := &f.arena.Nodes[i]

	if q.split {
		dx, dy := q.cx-n.X, q.cy-n.Y
		l := dx*dx + dy*dy
		if f.theta2 > 0 && q.size*q.size/f.theta2 < l {
			if l < f.distMin2 {
				l = math.Sqrt(f.distMin2 * l)
			}
			n.VX += dx * q.charge * alpha / l
			n.VY += dy * q.charge * alpha / l
			return
		}
		for _, c := range q.children {
			if c != nil {
				f.visit(c, i, alpha)
			}
		}
		return
	}

	for _, p := range q.points {
		if p == i {
			continue
		}
		o := &f.arena.Nodes[p]
		dx, dy := o.X-n.X, o.Y-n.Y
		if dx == 0 {
			dx = jiggle(f.rnd)
		}
		if dy == 0 {
			dy = jiggle(f.rnd)
		}
		l := dx*dx + dy*dy
		if l < f.distMin2 {
			l = math.Sqrt(f.distMin2 * l)
		}
		w := f.strengths[p] * alpha / l
		n.VX += dx * w
		n.VY += dy * w
	}
}
