// Package drag pins nodes under pointer gestures and keeps the simulation
// warm while any gesture is active.
package drag

import (
	"github.com/quartercastle/vector"

	"github.com/msalah0e/ecomap/internal/graph"
)

// DefaultHeat is the alpha target held while a node is being dragged.
const DefaultHeat = 0.3

// Heater is the part of a simulation the drag controller drives.
type Heater interface {
	SetAlphaTarget(t float64)
	Restart()
}

// Controller tracks the active drag gestures of one simulation epoch.
type Controller struct {
	arena  *graph.Arena
	sim    Heater
	heat   float64
	active map[int]bool
}

// New returns a controller over the arena of sim.
func New(a *graph.Arena, sim Heater) *Controller {
	return &Controller{
		arena:  a,
		sim:    sim,
		heat:   DefaultHeat,
		active: make(map[int]bool),
	}
}

// SetHeat changes the alpha target used during gestures.
func (c *Controller) SetHeat(t float64) {
	if t > 0 {
		c.heat = t
	}
}

// Start begins a gesture on node i, pinning it where it is. The first
// concurrent gesture heats the simulation. It reports false for an unknown
// node.
func (c *Controller) Start(i int) bool {
	if i < 0 || i >= len(c.arena.Nodes) {
		return false
	}
	if c.active[i] {
		return true
	}
	if len(c.active) == 0 {
		c.sim.SetAlphaTarget(c.heat)
		c.sim.Restart()
	}
	c.active[i] = true

	n := &c.arena.Nodes[i]
	n.Pin(n.X, n.Y)
	return true
}

// Move drags node i to p, given in simulation coordinates.
func (c *Controller) Move(i int, p vector.Vector) bool {
	if !c.active[i] {
		return false
	}
	n := &c.arena.Nodes[i]
	n.Pin(p.X(), p.Y())
	n.X, n.Y = p.X(), p.Y()
	n.VX, n.VY = 0, 0
	return true
}

// End releases node i. Once no gesture is active the simulation is left to
// cool.
func (c *Controller) End(i int) bool {
	if !c.active[i] {
		return false
	}
	delete(c.active, i)
	c.arena.Nodes[i].Unpin()
	if len(c.active) == 0 {
		c.sim.SetAlphaTarget(0)
	}
	return true
}

// Active returns the number of gestures in progress.
func (c *Controller) Active() int {
	return len(c.active)
}

// Dragging reports whether node i is held by a gesture.
func (c *Controller) Dragging(i int) bool {
	return c.active[i]
}
