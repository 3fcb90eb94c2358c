package force

import (
	"math"
	"math/rand"
	"testing"

	"github.com/msalah0e/ecomap/internal/graph"
)

func arena(ids []string, edges [][2]string) *graph.Arena {
	nodes := make([]graph.Node, len(ids))
	for i, id := range ids {
		nodes[i] = graph.Node{ID: id, Name: id}
	}
	links := make([]graph.Link, len(edges))
	for i, e := range edges {
		links[i] = graph.Link{SourceID: e[0], TargetID: e[1]}
	}
	return graph.NewArena(nodes, links)
}

func abc() *graph.Arena {
	return arena([]string{"A", "B", "C"}, [][2]string{{"A", "B"}, {"B", "C"}})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.LinkDistance != 100 {
		t.Errorf("expected link distance 100, got %v", cfg.LinkDistance)
	}
	if cfg.Charge != -300 {
		t.Errorf("expected charge -300, got %v", cfg.Charge)
	}
	if cfg.CollideRadius != 30 {
		t.Errorf("expected collide radius 30, got %v", cfg.CollideRadius)
	}
	if math.Abs(math.Pow(1-cfg.AlphaDecay, 300)-cfg.AlphaMin) > 1e-12 {
		t.Error("alpha should cool from 1 to alphaMin in 300 ticks")
	}
}

func TestNewResolvesLinks(t *testing.T) {
	a := arena([]string{"A", "B"}, [][2]string{{"A", "B"}, {"A", "ghost"}})
	New(a, 800, 600, Config{})
	if len(a.Links) != 1 {
		t.Fatalf("expected dangling link to be dropped, got %d links", len(a.Links))
	}
	if !a.Links[0].Resolved() {
		t.Error("link should be resolved")
	}
}

func TestInitialPlacement(t *testing.T) {
	a := arena([]string{"A", "B", "C", "D"}, nil)
	New(a, 800, 600, Config{})

	seen := make(map[[2]float64]bool)
	var sx, sy float64
	for _, n := range a.Nodes {
		if math.IsNaN(n.X) || math.IsNaN(n.Y) {
			t.Fatal("node placed at NaN")
		}
		key := [2]float64{n.X, n.Y}
		if seen[key] {
			t.Error("two nodes placed on the same point")
		}
		seen[key] = true
		sx += n.X
		sy += n.Y
	}
	if math.Abs(sx/4-400) > 30 || math.Abs(sy/4-300) > 30 {
		t.Errorf("initial spiral should sit near the centre, centroid (%v, %v)", sx/4, sy/4)
	}
}

func TestLinkStrengthFollowsDegree(t *testing.T) {
	a := arena(
		[]string{"H1", "H2", "a", "b", "c", "d"},
		[][2]string{{"H1", "H2"}, {"H1", "a"}, {"H1", "b"}, {"H2", "c"}, {"H2", "d"}},
	)
	f := NewLink(100, 1)
	f.Initialize(a, rand.New(rand.NewSource(1)))

	if got := f.Strength(0); math.Abs(got-1.0/3) > 1e-12 {
		t.Errorf("hub-to-hub link: expected strength 1/3, got %v", got)
	}
	if got := f.Strength(1); got != 1 {
		t.Errorf("hub-to-leaf link: expected strength 1, got %v", got)
	}
}

func TestLinkPullsTowardDistance(t *testing.T) {
	a := arena([]string{"A", "B"}, [][2]string{{"A", "B"}})
	a.Nodes[0].X, a.Nodes[1].X = 0, 300
	f := NewLink(100, 1)
	f.Initialize(a, rand.New(rand.NewSource(1)))
	f.Apply(1)

	if a.Nodes[0].VX <= 0 || a.Nodes[1].VX >= 0 {
		t.Errorf("stretched link should pull endpoints together, got vx %v / %v", a.Nodes[0].VX, a.Nodes[1].VX)
	}

	a.Nodes[0].VX, a.Nodes[1].VX = 0, 0
	a.Nodes[1].X = 20
	f.Apply(1)
	if a.Nodes[0].VX >= 0 || a.Nodes[1].VX <= 0 {
		t.Errorf("compressed link should push endpoints apart, got vx %v / %v", a.Nodes[0].VX, a.Nodes[1].VX)
	}
}

func TestManyBodyRepels(t *testing.T) {
	a := arena([]string{"A", "B"}, nil)
	a.Nodes[0].X, a.Nodes[0].Y = 0, 0
	a.Nodes[1].X, a.Nodes[1].Y = 10, 0
	f := NewManyBody(-300, 0.9, 1)
	f.Initialize(a, rand.New(rand.NewSource(1)))
	f.Apply(1)

	if a.Nodes[0].VX >= 0 || a.Nodes[1].VX <= 0 {
		t.Errorf("negative charge should repel, got vx %v / %v", a.Nodes[0].VX, a.Nodes[1].VX)
	}
	if math.Abs(a.Nodes[0].VX+a.Nodes[1].VX) > 1e-9 {
		t.Error("repulsion between two equal charges should be symmetric")
	}
}

func scatter(n int, seed int64) *graph.Arena {
	ids := make([]string, n)
	for i := range ids {
		ids[i] = string(rune('a'+i%26)) + string(rune('0'+i/26))
	}
	a := arena(ids, nil)
	rnd := rand.New(rand.NewSource(seed))
	for i := range a.Nodes {
		a.Nodes[i].X = rnd.Float64() * 1000
		a.Nodes[i].Y = rnd.Float64() * 1000
	}
	return a
}

func TestManyBodyExactMatchesPairwise(t *testing.T) {
	a := scatter(40, 7)
	f := NewManyBody(-300, 0, 1)
	f.Initialize(a, rand.New(rand.NewSource(1)))
	f.Apply(1)

	for i := range a.Nodes {
		var vx, vy float64
		for j := range a.Nodes {
			if i == j {
				continue
			}
			dx := a.Nodes[j].X - a.Nodes[i].X
			dy := a.Nodes[j].Y - a.Nodes[i].Y
			l := dx*dx + dy*dy
			vx += dx * -300 / l
			vy += dy * -300 / l
		}
		if math.Abs(vx-a.Nodes[i].VX) > 1e-9 || math.Abs(vy-a.Nodes[i].VY) > 1e-9 {
			t.Fatalf("node %d: expected (%v, %v), got (%v, %v)", i, vx, vy, a.Nodes[i].VX, a.Nodes[i].VY)
		}
	}
}

func TestManyBodyBarnesHutApproximation(t *testing.T) {
	exact := scatter(120, 11)
	approx := scatter(120, 11)

	fe := NewManyBody(-300, 0, 1)
	fe.Initialize(exact, rand.New(rand.NewSource(1)))
	fe.Apply(1)
	fa := NewManyBody(-300, 0.9, 1)
	fa.Initialize(approx, rand.New(rand.NewSource(1)))
	fa.Apply(1)

	var diff, norm float64
	for i := range exact.Nodes {
		dx := exact.Nodes[i].VX - approx.Nodes[i].VX
		dy := exact.Nodes[i].VY - approx.Nodes[i].VY
		diff += dx*dx + dy*dy
		norm += exact.Nodes[i].VX*exact.Nodes[i].VX + exact.Nodes[i].VY*exact.Nodes[i].VY
	}
	if rel := math.Sqrt(diff / norm); rel > 0.25 {
		t.Errorf("Barnes-Hut error too large: %.3f", rel)
	}
}

func TestManyBodyCoincidentNodes(t *testing.T) {
	a := arena([]string{"A", "B", "C"}, nil)
	for i := range a.Nodes {
		a.Nodes[i].X, a.Nodes[i].Y = 5, 5
	}
	f := NewManyBody(-300, 0.9, 1)
	f.Initialize(a, rand.New(rand.NewSource(3)))
	f.Apply(1)
	for _, n := range a.Nodes {
		if math.IsNaN(n.VX) || math.IsNaN(n.VY) || math.IsInf(n.VX, 0) {
			t.Fatal("coincident nodes produced a non-finite velocity")
		}
	}
}

func TestCenterMovesCentroid(t *testing.T) {
	a := scatter(10, 3)
	f := NewCenter(400, 300)
	f.Initialize(a, nil)
	f.Apply(1)

	var sx, sy float64
	for _, n := range a.Nodes {
		sx += n.X
		sy += n.Y
	}
	if math.Abs(sx/10-400) > 1e-9 || math.Abs(sy/10-300) > 1e-9 {
		t.Errorf("expected centroid (400, 300), got (%v, %v)", sx/10, sy/10)
	}
}

func TestCenterEmptyArena(t *testing.T) {
	f := NewCenter(1, 1)
	f.Initialize(arena(nil, nil), nil)
	f.Apply(1)
}

func TestCollideSeparatesOverlap(t *testing.T) {
	a := arena([]string{"A", "B", "C"}, nil)
	a.Nodes[0].X = 0
	a.Nodes[1].X = 20
	a.Nodes[2].X = 500
	f := NewCollide(30, 1)
	f.Initialize(a, rand.New(rand.NewSource(1)))
	f.Apply(1)

	if a.Nodes[0].VX >= 0 || a.Nodes[1].VX <= 0 {
		t.Errorf("overlapping discs should be pushed apart, got vx %v / %v", a.Nodes[0].VX, a.Nodes[1].VX)
	}
	if a.Nodes[2].VX != 0 || a.Nodes[2].VY != 0 {
		t.Error("distant disc should be untouched")
	}
	// One pass closes the whole overlap (strength 1): predicted gap is 2r.
	gap := (a.Nodes[1].X + a.Nodes[1].VX) - (a.Nodes[0].X + a.Nodes[0].VX)
	if math.Abs(gap-60) > 1e-9 {
		t.Errorf("expected predicted separation 60, got %v", gap)
	}
}

func TestSimulationSettles(t *testing.T) {
	s := New(abc(), 800, 600, Config{})
	taken := s.Step(1000)
	if taken < 290 || taken > 310 {
		t.Errorf("expected to settle in ~300 ticks, took %d", taken)
	}
	if !s.Settled() || s.Running() {
		t.Error("simulation should be settled and idle")
	}
}

func TestSimulationLayout(t *testing.T) {
	a := abc()
	s := New(a, 800, 600, Config{})
	s.Step(1000)

	for i := range a.Nodes {
		for j := i + 1; j < len(a.Nodes); j++ {
			d := math.Hypot(a.Nodes[i].X-a.Nodes[j].X, a.Nodes[i].Y-a.Nodes[j].Y)
			if d < 40 {
				t.Errorf("%s and %s overlap (distance %.1f)", a.Nodes[i].ID, a.Nodes[j].ID, d)
			}
		}
	}
	for _, l := range a.Links {
		sn, tn := a.Nodes[l.Source], a.Nodes[l.Target]
		if d := math.Hypot(sn.X-tn.X, sn.Y-tn.Y); d > 400 {
			t.Errorf("linked nodes drifted apart: %.1f", d)
		}
	}

	var sx, sy float64
	for _, n := range a.Nodes {
		sx += n.X
		sy += n.Y
	}
	if math.Abs(sx/3-400) > 1 || math.Abs(sy/3-300) > 1 {
		t.Errorf("layout drifted off centre: (%v, %v)", sx/3, sy/3)
	}
}

func TestSimulationDeterministic(t *testing.T) {
	a1, a2 := abc(), abc()
	New(a1, 800, 600, Config{}).Step(50)
	New(a2, 800, 600, Config{}).Step(50)
	for i := range a1.Nodes {
		if a1.Nodes[i].X != a2.Nodes[i].X || a1.Nodes[i].Y != a2.Nodes[i].Y {
			t.Fatal("same seed should give the same layout")
		}
	}
}

func TestPinnedNodeHoldsPosition(t *testing.T) {
	a := abc()
	s := New(a, 800, 600, Config{})
	a.Nodes[1].Pin(123, 456)
	for i := 0; i < 20; i++ {
		s.Tick()
	}
	if a.Nodes[1].X != 123 || a.Nodes[1].Y != 456 {
		t.Errorf("pinned node moved to (%v, %v)", a.Nodes[1].X, a.Nodes[1].Y)
	}
	if a.Nodes[1].VX != 0 || a.Nodes[1].VY != 0 {
		t.Error("pinned node should have zero velocity")
	}
}

func TestAlphaTargetKeepsWarm(t *testing.T) {
	s := New(abc(), 800, 600, Config{})
	s.SetAlphaTarget(0.3)
	if taken := s.Step(1000); taken != 1000 {
		t.Errorf("warm simulation should keep running, stopped after %d", taken)
	}
	if math.Abs(s.Alpha()-0.3) > 0.01 {
		t.Errorf("alpha should approach 0.3, got %v", s.Alpha())
	}

	s.SetAlphaTarget(0)
	if taken := s.Step(2000); taken == 2000 {
		t.Error("simulation should settle once the target drops to 0")
	}
}

func TestRestartAfterSettle(t *testing.T) {
	s := New(abc(), 800, 600, Config{})
	s.Step(1000)
	if s.Running() {
		t.Fatal("expected settled simulation")
	}
	s.SetAlphaTarget(0.3)
	s.Restart()
	if !s.Running() {
		t.Fatal("restart should resume ticking")
	}
	s.Tick()
	if !s.Running() {
		t.Error("heated simulation should keep running after one tick")
	}
}

func TestStopIgnoresTicks(t *testing.T) {
	a := abc()
	s := New(a, 800, 600, Config{})
	s.Stop()
	x := a.Nodes[0].X
	s.Tick()
	s.Restart()
	if s.Running() || !s.Stopped() {
		t.Error("stopped simulation must not restart")
	}
	if a.Nodes[0].X != x || s.Ticks() != 0 {
		t.Error("stopped simulation must not move nodes")
	}
}

func TestSetCenter(t *testing.T) {
	a := abc()
	s := New(a, 800, 600, Config{})
	s.SetCenter(100, 100)
	s.Step(1000)
	var sx float64
	for _, n := range a.Nodes {
		sx += n.X
	}
	if math.Abs(sx/3-100) > 1 {
		t.Errorf("expected centroid x 100 after SetCenter, got %v", sx/3)
	}
}
