// Package force is an iterative velocity-Verlet style force layout: link
// springs, Barnes-Hut repulsion, centering and collision, cooled by a
// decaying alpha.
package force

import (
	"math"
	"math/rand"

	"github.com/msalah0e/ecomap/internal/graph"
)

// Config holds the physical constants of a simulation.
type Config struct {
	LinkDistance    float64
	LinkIterations  int
	Charge          float64
	Theta           float64
	DistanceMin     float64
	CollideRadius   float64
	CollideStrength float64
	VelocityDecay   float64
	AlphaMin        float64
	AlphaDecay      float64
	Seed            int64
}

// DefaultConfig returns the layout defaults.
func DefaultConfig() Config {
	return Config{
		LinkDistance:    100,
		LinkIterations:  1,
		Charge:          -300,
		Theta:           0.9,
		DistanceMin:     1,
		CollideRadius:   30,
		CollideStrength: 1,
		VelocityDecay:   0.4,
		AlphaMin:        0.001,
		AlphaDecay:      1 - math.Pow(0.001, 1.0/300),
		Seed:            1,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.LinkDistance != 0 {
		d.LinkDistance = c.LinkDistance
	}
	if c.LinkIterations > 0 {
		d.LinkIterations = c.LinkIterations
	}
	if c.Charge != 0 {
		d.Charge = c.Charge
	}
	if c.Theta > 0 {
		d.Theta = c.Theta
	}
	if c.DistanceMin > 0 {
		d.DistanceMin = c.DistanceMin
	}
	if c.CollideRadius > 0 {
		d.CollideRadius = c.CollideRadius
	}
	if c.CollideStrength > 0 {
		d.CollideStrength = c.CollideStrength
	}
	if c.VelocityDecay > 0 && c.VelocityDecay < 1 {
		d.VelocityDecay = c.VelocityDecay
	}
	if c.AlphaMin > 0 {
		d.AlphaMin = c.AlphaMin
	}
	if c.AlphaDecay > 0 && c.AlphaDecay < 1 {
		d.AlphaDecay = c.AlphaDecay
	}
	if c.Seed != 0 {
		d.Seed = c.Seed
	}
	return d
}

// Force is one term of the simulation. Initialize is called once when the
// simulation is built; Apply once per tick, in registration order.
type Force interface {
	Initialize(a *graph.Arena, rnd *rand.Rand)
	Apply(alpha float64)
}

// Simulation advances the positions of every node in an arena.
type Simulation struct {
	arena *graph.Arena
	rnd   *rand.Rand

	alpha         float64
	alphaMin      float64
	alphaDecay    float64
	alphaTarget   float64
	velocityDecay float64

	link    *Link
	charge  *ManyBody
	center  *Center
	collide *Collide
	forces  []Force

	running bool
	stopped bool
	ticks   int
}

// New builds a simulation over the arena, centred on (width/2, height/2).
// Link endpoints are resolved here; unresolvable links are dropped from the
// arena. Nodes start on a phyllotaxis spiral around the centre.
func New(a *graph.Arena, width, height float64, cfg Config) *Simulation {
	cfg = cfg.withDefaults()
	s := &Simulation{
		arena:         a,
		rnd:           rand.New(rand.NewSource(cfg.Seed)),
		alpha:         1,
		alphaMin:      cfg.AlphaMin,
		alphaDecay:    cfg.AlphaDecay,
		velocityDecay: 1 - cfg.VelocityDecay,
		running:       true,
	}

	cx, cy := width/2, height/2
	place(a, cx, cy)

	s.link = NewLink(cfg.LinkDistance, cfg.LinkIterations)
	s.charge = NewManyBody(cfg.Charge, cfg.Theta, cfg.DistanceMin)
	s.center = NewCenter(cx, cy)
	s.collide = NewCollide(cfg.CollideRadius, cfg.CollideStrength)
	s.forces = []Force{s.link, s.charge, s.center, s.collide}
	for _, f := range s.forces {
		f.Initialize(a, s.rnd)
	}
	return s
}

const (
	initialRadius = 10.0
)

var initialAngle = math.Pi * (3 - math.Sqrt(5))

func place(a *graph.Arena, cx, cy float64) {
	for i := range a.Nodes {
		n := &a.Nodes[i]
		if n.Pinned() {
			n.X, n.Y = *n.FX, *n.FY
			continue
		}
		radius := initialRadius * math.Sqrt(0.5+float64(i))
		angle := float64(i) * initialAngle
		n.X = cx + radius*math.Cos(angle)
		n.Y = cy + radius*math.Sin(angle)
		n.VX, n.VY = 0, 0
	}
}

// Tick advances the simulation by one step: alpha moves toward its target,
// every force is applied in order, then velocities are integrated. A
// stopped simulation ignores ticks.
func (s *Simulation) Tick() {
	if s.stopped {
		return
	}
	s.alpha += (s.alphaTarget - s.alpha) * s.alphaDecay

	for _, f := range s.forces {
		f.Apply(s.alpha)
	}

	for i := range s.arena.Nodes {
		n := &s.arena.Nodes[i]
		if n.FX == nil {
			n.VX *= s.velocityDecay
			n.X += n.VX
		} else {
			n.X = *n.FX
			n.VX = 0
		}
		if n.FY == nil {
			n.VY *= s.velocityDecay
			n.Y += n.VY
		} else {
			n.Y = *n.FY
			n.VY = 0
		}
	}

	s.ticks++
	if s.alpha < s.alphaMin {
		s.running = false
	}
}

// Step ticks up to n times, returning early once the layout has settled.
// It returns the number of ticks taken.
func (s *Simulation) Step(n int) int {
	taken := 0
	for taken < n && s.Running() {
		s.Tick()
		taken++
	}
	return taken
}

// Running reports whether the simulation still wants ticks.
func (s *Simulation) Running() bool {
	return s.running && !s.stopped
}

// Settled reports whether alpha has cooled below its floor.
func (s *Simulation) Settled() bool {
	return s.alpha < s.alphaMin
}

// Restart resumes ticking after the simulation settled. It does not
// change alpha.
func (s *Simulation) Restart() {
	if s.stopped {
		return
	}
	s.running = true
}

// Stop ends the simulation for good. It is called when the owning view is
// rebuilt; the arena must not be touched by this simulation afterwards.
func (s *Simulation) Stop() {
	s.stopped = true
	s.running = false
}

// Stopped reports whether Stop was called.
func (s *Simulation) Stopped() bool {
	return s.stopped
}

// Alpha returns the current temperature.
func (s *Simulation) Alpha() float64 { return s.alpha }

// SetAlpha sets the current temperature.
func (s *Simulation) SetAlpha(a float64) {
	s.alpha = math.Max(0, a)
}

// AlphaTarget returns the temperature alpha decays toward.
func (s *Simulation) AlphaTarget() float64 { return s.alphaTarget }

// SetAlphaTarget sets the temperature alpha decays toward.
func (s *Simulation) SetAlphaTarget(t float64) {
	s.alphaTarget = math.Max(0, t)
}

// SetCenter moves the centering target, for example after a resize.
func (s *Simulation) SetCenter(x, y float64) {
	s.center.X, s.center.Y = x, y
}

// Ticks returns how many ticks have run.
func (s *Simulation) Ticks() int { return s.ticks }

// Arena returns the node storage the simulation writes to.
func (s *Simulation) Arena() *graph.Arena { return s.arena }

func jiggle(rnd *rand.Rand) float64 {
	return (rnd.Float64() - 0.5) * 1e-6
}
