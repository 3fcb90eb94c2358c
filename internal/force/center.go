package force

import (
	"math/rand"

	"github.com/msalah0e/ecomap/internal/graph"
)

// Center translates all nodes so their centroid sits on (X, Y). It moves
// positions directly rather than velocities, so it never adds energy.
type Center struct {
	X, Y     float64
	Strength float64

	arena *graph.Arena
}

// NewCenter returns a centering force at full strength.
func NewCenter(x, y float64) *Center {
	return &Center{X: x, Y: y, Strength: 1}
}

func (f *Center) Initialize(a *graph.Arena, _ *rand.Rand) {
	f.arena = a
}

func (f *Center) Apply(float64) {
	nodes := f.arena.Nodes
	if len(nodes) == 0 {
		return
	}
	var sx, sy float64
	for i := range nodes {
		sx += nodes[i].X
		sy += nodes[i].Y
	}
	n := float64(len(nodes))
	sx = (sx/n - f.X) * f.Strength
	sy = (sy/n - f.Y) * f.Strength
	for i := range nodes {
		nodes[i].X -= sx
		nodes[i].Y -= sy
	}
}
