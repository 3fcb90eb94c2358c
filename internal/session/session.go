// Package session owns one interactive view of the ecosystem graph: its
// inputs, its viewport, and the current simulation epoch. All state is
// touched from a single goroutine, either the caller of the synchronous
// methods or Run.
package session

import (
	"context"
	"math"
	"time"

	"github.com/quartercastle/vector"

	"github.com/msalah0e/ecomap/internal/dataset"
	"github.com/msalah0e/ecomap/internal/drag"
	"github.com/msalah0e/ecomap/internal/force"
	"github.com/msalah0e/ecomap/internal/graph"
	"github.com/msalah0e/ecomap/internal/highlight"
	"github.com/msalah0e/ecomap/internal/logger"
	"github.com/msalah0e/ecomap/internal/render"
	"github.com/msalah0e/ecomap/internal/viewport"
)

// Options configures a session.
type Options struct {
	Width, Height float64

	Filter   string
	Search   string
	Selected string

	Layout     force.Config
	Style      highlight.Style
	MinScale   float64
	MaxScale   float64
	DragHeat   float64
	Background string

	// TickRate is the interval between simulation ticks in Run.
	TickRate time.Duration
	// ClickTolerance is how far, in screen pixels, a pointer may travel
	// between down and up and still count as a click.
	ClickTolerance float64
	// FitPadding is the margin kept around the graph by a fit event.
	FitPadding float64
	// Buffer sizes the event and frame channels.
	Buffer int
}

func (o Options) withDefaults() Options {
	if o.Width <= 0 {
		o.Width = 1
	}
	if o.Height <= 0 {
		o.Height = 1
	}
	if o.Style == (highlight.Style{}) {
		o.Style = highlight.DefaultStyle()
	}
	if o.MinScale <= 0 {
		o.MinScale = viewport.MinScale
	}
	if o.MaxScale <= 0 {
		o.MaxScale = viewport.MaxScale
	}
	if o.DragHeat <= 0 {
		o.DragHeat = drag.DefaultHeat
	}
	if o.TickRate <= 0 {
		o.TickRate = time.Second / 60
	}
	if o.ClickTolerance <= 0 {
		o.ClickTolerance = 3
	}
	if o.FitPadding <= 0 {
		o.FitPadding = 40
	}
	if o.Buffer <= 0 {
		o.Buffer = 64
	}
	return o
}

// Frame is what a session emits after every event and tick. A full frame
// carries the whole scene; otherwise Patches reconcile the previous frame.
type Frame struct {
	Seq      uint64         `json:"seq"`
	Full     bool           `json:"full"`
	Scene    *render.Scene  `json:"scene,omitempty"`
	Patches  []render.Patch `json:"patches,omitempty"`
	State    string         `json:"state"`
	Filter   string         `json:"filter,omitempty"`
	Search   string         `json:"search,omitempty"`
	Selected string         `json:"selected,omitempty"`
	Nodes    int            `json:"nodes"`
	Links    int            `json:"links"`
	Running  bool           `json:"running"`
}

// Empty reports whether the frame changes nothing on screen.
func (f Frame) Empty() bool {
	return !f.Full && len(f.Patches) == 0
}

// epoch is everything that lives for one simulation: built together and
// discarded together.
type epoch struct {
	arena      *graph.Arena
	sim        *force.Simulation
	drag       *drag.Controller
	decoration highlight.Decoration
}

type pointer struct {
	node  int
	start vector.Vector
	last  vector.Vector
	moved bool
}

// Session is one view of a dataset.
type Session struct {
	doc  *dataset.Document
	opts Options
	view *viewport.Controller

	filter   string
	search   string
	selected string
	// applied is the filter the current epoch was built with; it is empty
	// when the requested filter matched nothing.
	applied string

	epoch    *epoch
	epochs   int
	pointers map[int]*pointer

	scene  *render.Scene
	seq    uint64
	resync bool

	events chan Event
	frames chan Frame

	// OnSelect is called with the clicked node, or nil when the background
	// is clicked.
	OnSelect func(*dataset.Node)
}

// New builds a session and its first epoch. doc is only read.
func New(doc *dataset.Document, opts Options) *Session {
	opts = opts.withDefaults()
	s := &Session{
		doc:      doc,
		opts:     opts,
		view:     viewport.NewController(opts.Width, opts.Height),
		filter:   opts.Filter,
		search:   opts.Search,
		selected: opts.Selected,
		pointers: make(map[int]*pointer),
		events:   make(chan Event, opts.Buffer),
		frames:   make(chan Frame, opts.Buffer),
		resync:   true,
	}
	s.view.SetScaleExtent(opts.MinScale, opts.MaxScale)
	s.rebuild()
	return s
}

// rebuild stops the current simulation and starts a fresh epoch from the
// dataset and the current inputs. Positions do not survive a rebuild; the
// viewport transform does.
func (s *Session) rebuild() {
	if s.epoch != nil {
		s.epoch.sim.Stop()
	}
	s.pointers = make(map[int]*pointer)

	nodes, links := graph.Materialize(s.doc)
	s.applied = s.filter
	if fn, fl := graph.ApplyFilter(nodes, links, s.filter); len(fn) > 0 || s.filter == "" {
		nodes, links = fn, fl
	} else {
		s.applied = ""
		logger.Debug("filter matched nothing, showing all", "filter", s.filter)
	}
	a := graph.NewArena(nodes, links)

	w, h := s.view.Size()
	sim := force.New(a, w, h, s.opts.Layout)
	dc := drag.New(a, sim)
	dc.SetHeat(s.opts.DragHeat)

	s.epoch = &epoch{
		arena:      a,
		sim:        sim,
		drag:       dc,
		decoration: highlight.Decorate(a.Nodes, a.Links, s.selected, s.search, s.opts.Style),
	}
	s.epochs++
	logger.Debug("epoch rebuilt",
		"epoch", s.epochs,
		"nodes", len(a.Nodes),
		"links", len(a.Links),
		"filter", s.applied,
		"state", s.epoch.decoration.State.String())
}

// Handle applies one event. Structural changes (filter, search, selection
// and resize) rebuild the epoch before Handle returns.
func (s *Session) Handle(ev Event) error {
	p := vector.Vector{ev.X, ev.Y}
	switch ev.Type {
	case PointerDown:
		s.pointerDown(ev.Pointer, p)
	case PointerMove:
		s.pointerMove(ev.Pointer, p)
	case PointerUp:
		s.pointerUp(ev.Pointer, p, true)
	case PointerCancel:
		s.pointerUp(ev.Pointer, p, false)
	case Wheel:
		s.view.Wheel(ev.DeltaY, viewport.DeltaMode(ev.DeltaMode), p)
	case Pinch:
		s.view.Pinch(ev.Scale, p)
	case Resize:
		s.view.Resize(ev.Width, ev.Height)
		s.rebuild()
	case Filter:
		s.filter = ev.Value
		s.rebuild()
	case Search:
		s.search = ev.Value
		s.rebuild()
	case Select:
		s.selected = ev.Value
		s.rebuild()
	case ResetView:
		s.view.Reset()
	case FitView:
		s.fit()
	case Snapshot:
		s.resync = true
	default:
		return &ErrUnknownEvent{Type: ev.Type}
	}
	return nil
}

func (s *Session) pointerDown(id int, p vector.Vector) {
	i := s.hit(s.view.Transform().Invert(p))
	if i >= 0 {
		s.epoch.drag.Start(i)
	}
	s.pointers[id] = &pointer{node: i, start: p, last: p}
}

func (s *Session) pointerMove(id int, p vector.Vector) {
	ptr, ok := s.pointers[id]
	if !ok {
		return
	}
	if !ptr.moved && p.Sub(ptr.start).Magnitude() > s.opts.ClickTolerance {
		ptr.moved = true
	}
	switch other := s.pinchPartner(id); {
	case ptr.node >= 0:
		s.epoch.drag.Move(ptr.node, s.view.Transform().Invert(p))
	case other != nil:
		// Two background pointers: the midpoint pans, the spread zooms
		// around it.
		other.moved = true
		d := p.Sub(ptr.last).Scale(0.5)
		s.view.Pan(d.X(), d.Y())
		prev := ptr.last.Sub(other.last).Magnitude()
		next := p.Sub(other.last).Magnitude()
		if prev > 0 && next > 0 {
			s.view.Pinch(next/prev, p.Add(other.last).Scale(0.5))
		}
	default:
		d := p.Sub(ptr.last)
		s.view.Pan(d.X(), d.Y())
	}
	ptr.last = p
}

// pinchPartner returns the other background pointer when exactly two
// background pointers are down, one of them id.
func (s *Session) pinchPartner(id int) *pointer {
	var other *pointer
	count := 0
	for pid, ptr := range s.pointers {
		if ptr.node >= 0 {
			continue
		}
		count++
		if pid != id {
			other = ptr
		}
	}
	if count != 2 {
		return nil
	}
	return other
}

func (s *Session) pointerUp(id int, p vector.Vector, commit bool) {
	ptr, ok := s.pointers[id]
	if !ok {
		return
	}
	delete(s.pointers, id)
	if p.Sub(ptr.start).Magnitude() > s.opts.ClickTolerance {
		ptr.moved = true
	}

	if ptr.node >= 0 {
		s.epoch.drag.End(ptr.node)
		if commit && !ptr.moved {
			s.click(s.epoch.arena.Nodes[ptr.node].ID)
		}
		return
	}
	if commit && !ptr.moved {
		s.click("")
	}
}

// click selects a node, or clears the selection for the background.
func (s *Session) click(id string) {
	if s.OnSelect != nil {
		if n, ok := s.doc.Node(id); ok {
			s.OnSelect(n)
		} else {
			s.OnSelect(nil)
		}
	}
	if id == s.selected {
		return
	}
	s.selected = id
	s.rebuild()
}

// hit returns the topmost node whose decorated circle contains p, or -1.
func (s *Session) hit(p vector.Vector) int {
	e := s.epoch
	for i := len(e.arena.Nodes) - 1; i >= 0; i-- {
		n := &e.arena.Nodes[i]
		r := s.opts.Style.Radius
		if i < len(e.decoration.Nodes) {
			r = e.decoration.Nodes[i].Radius
		}
		if math.Hypot(p.X()-n.X, p.Y()-n.Y) <= r {
			return i
		}
	}
	return -1
}

func (s *Session) fit() {
	points := make([]vector.Vector, 0, len(s.epoch.arena.Nodes))
	for _, n := range s.epoch.arena.Nodes {
		points = append(points, vector.Vector{n.X, n.Y})
	}
	if b, ok := viewport.BoundsOf(points); ok {
		s.view.Fit(b, s.opts.FitPadding)
	}
}

// Tick advances the simulation one step if it has not settled. It reports
// whether a step was taken.
func (s *Session) Tick() bool {
	if !s.epoch.sim.Running() {
		return false
	}
	s.epoch.sim.Tick()
	return true
}

// Settle ticks until the layout settles or max ticks have run, returning
// the number taken.
func (s *Session) Settle(max int) int {
	return s.epoch.sim.Step(max)
}

// Scene builds the scene for the current state.
func (s *Session) Scene() *render.Scene {
	w, h := s.view.Size()
	sc := render.Build(s.epoch.arena, s.epoch.decoration, s.view.Transform(), w, h)
	sc.Background = s.opts.Background
	return sc
}

// Frame builds the next frame: a full scene after a resync request or for
// the first frame, otherwise the diff against the previous frame.
func (s *Session) Frame() Frame {
	scene := s.Scene()
	f := Frame{
		State:    s.epoch.decoration.State.String(),
		Filter:   s.applied,
		Search:   s.search,
		Selected: s.selected,
		Nodes:    len(s.epoch.arena.Nodes),
		Links:    len(s.epoch.arena.Links),
		Running:  s.epoch.sim.Running(),
	}
	if s.resync || s.scene == nil {
		f.Full = true
		f.Scene = scene
		s.resync = false
	} else {
		f.Patches = render.Diff(s.scene, scene)
	}
	s.scene = scene
	if !f.Empty() {
		s.seq++
	}
	f.Seq = s.seq
	return f
}

// Post queues an event for Run. It is safe to call from any goroutine and
// reports false when the queue is full.
func (s *Session) Post(ev Event) bool {
	select {
	case s.events <- ev:
		return true
	default:
		return false
	}
}

// Frames returns the channel Run emits frames on. It is closed when Run
// returns.
func (s *Session) Frames() <-chan Frame {
	return s.frames
}

// Run is the event loop. Events and ticks are handled one at a time, and a
// frame is emitted after each of them once positions are integrated. Run
// returns when ctx is done, after stopping the simulation.
func (s *Session) Run(ctx context.Context) error {
	ticker := time.NewTicker(s.opts.TickRate)
	defer ticker.Stop()
	defer close(s.frames)
	defer func() { s.epoch.sim.Stop() }()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev := <-s.events:
			if err := s.Handle(ev); err != nil {
				logger.Warn("dropping event", "err", err)
				continue
			}
			s.emit()
		case <-ticker.C:
			if s.Tick() {
				s.emit()
			}
		}
	}
}

// emit sends the next frame without blocking. A frame that does not fit is
// dropped and the following one is sent in full.
func (s *Session) emit() {
	f := s.Frame()
	if f.Empty() {
		return
	}
	select {
	case s.frames <- f:
	default:
		s.resync = true
		logger.Debug("frame dropped, client will resync", "seq", f.Seq)
	}
}

// Inputs returns the requested filter, search term and selected id.
func (s *Session) Inputs() (filter, search, selected string) {
	return s.filter, s.search, s.selected
}

// Transform returns the viewport transform.
func (s *Session) Transform() viewport.Transform {
	return s.view.Transform()
}

// Arena returns the node storage of the current epoch. It is replaced on
// every rebuild.
func (s *Session) Arena() *graph.Arena {
	return s.epoch.arena
}

// Simulation returns the simulation of the current epoch.
func (s *Session) Simulation() *force.Simulation {
	return s.epoch.sim
}

// Epochs returns how many epochs have been built.
func (s *Session) Epochs() int {
	return s.epochs
}
