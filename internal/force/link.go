package force

import (
	"math"
	"math/rand"

	"github.com/msalah0e/ecomap/internal/graph"
)

// Link pulls connected nodes toward a rest distance. Each link's stiffness
// is 1/min(degree(source), degree(target)), so links into sparse parts of
// the graph pull harder than links between hubs. The correction is split
// between the endpoints by their relative degree.
type Link struct {
	Distance   float64
	Iterations int

	arena     *graph.Arena
	rnd       *rand.Rand
	strengths []float64
	bias      []float64
}

// NewLink returns a link force with the given rest distance.
func NewLink(distance float64, iterations int) *Link {
	if iterations < 1 {
		iterations = 1
	}
	return &Link{Distance: distance, Iterations: iterations}
}

// Initialize resolves link endpoints to arena indices and precomputes the
// per-link stiffness and bias.
func (f *Link) Initialize(a *graph.Arena, rnd *rand.Rand) {
	f.arena, f.rnd = a, rnd
	a.Resolve()

	count := make([]int, len(a.Nodes))
	for _, l := range a.Links {
		count[l.Source]++
		count[l.Target]++
	}

	f.strengths = make([]float64, len(a.Links))
	f.bias = make([]float64, len(a.Links))
	for i, l := range a.Links {
		cs, ct := count[l.Source], count[l.Target]
		f.bias[i] = float64(cs) / float64(cs+ct)
		f.strengths[i] = 1 / float64(min(cs, ct))
	}
}

// Strength returns the stiffness of link i.
func (f *Link) Strength(i int) float64 { return f.strengths[i] }

// Apply nudges endpoint velocities toward the rest distance, using the
// positions each endpoint is about to move to.
func (f *Link) Apply(alpha float64) {
	nodes := f.arena.Nodes
	for k := 0; k < f.Iterations; k++ {
		for i, l := range f.arena.Links {
			s, t := &nodes[l.Source], &nodes[l.Target]
			x := t.X + t.VX - s.X - s.VX
			if x == 0 {
				x = jiggle(f.rnd)
			}
			y := t.Y + t.VY - s.Y - s.VY
			if y == 0 {
				y = jiggle(f.rnd)
			}
			d := math.Sqrt(x*x + y*y)
			d = (d - f.Distance) / d * alpha * f.strengths[i]
			x *= d
			y *= d

			b := f.bias[i]
			t.VX -= x * b
			t.VY -= y * b
			s.VX += x * (1 - b)
			s.VY += y * (1 - b)
		}
	}
}
