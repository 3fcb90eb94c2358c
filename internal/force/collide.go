package force

import (
	"math"
	"math/rand"

	"github.com/msalah0e/ecomap/internal/graph"
)

// Collide treats every node as a disc of Radius and pushes overlapping
// discs apart. It is a relaxation: each pass resolves part of the overlap
// through velocities instead of snapping positions. Overlaps are found by
// pairwise comparison, which is fine for a few hundred nodes.
type Collide struct {
	Radius     float64
	Strength   float64
	Iterations int

	arena *graph.Arena
	rnd   *rand.Rand
}

// NewCollide returns a single-pass collision force.
func NewCollide(radius, strength float64) *Collide {
	return &Collide{Radius: radius, Strength: strength, Iterations: 1}
}

func (f *Collide) Initialize(a *graph.Arena, rnd *rand.Rand) {
	f.arena, f.rnd = a, rnd
}

// Apply ignores alpha: overlaps are resolved at the same rate whether the
// layout is hot or cold.
func (f *Collide) Apply(float64) {
	nodes := f.arena.Nodes
	r := f.Radius * 2

	for k := 0; k < f.Iterations; k++ {
		for i := range nodes {
			a := &nodes[i]
			xi, yi := a.X+a.VX, a.Y+a.VY
			for j := i + 1; j < len(nodes); j++ {
				b := &nodes[j]
				x := xi - b.X - b.VX
				y := yi - b.Y - b.VY
				l := x*x + y*y
				if l >= r*r {
					continue
				}
				if x == 0 {
					x = jiggle(f.rnd)
					l += x * x
				}
				if y == 0 {
					y = jiggle(f.rnd)
					l += y * y
				}
				l = math.Sqrt(l)
				l = (r - l) / l * f.Strength
				x *= l
				y *= l

				// Equal radii: both discs take half the push.
				a.VX += x * 0.5
				a.VY += y * 0.5
				b.VX -= x * 0.5
				b.VY -= y * 0.5
			}
		}
	}
}
