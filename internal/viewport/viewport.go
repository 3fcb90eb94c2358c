// Package viewport holds the pan/zoom transform applied to the rendered
// scene. It never touches simulation coordinates.
package viewport

import (
	"fmt"
	"math"
	"strconv"

	"github.com/quartercastle/vector"
)

const (
	MinScale = 0.1
	MaxScale = 4.0
)

// DeltaMode is the unit of a wheel delta, as reported by browsers.
type DeltaMode int

const (
	DeltaPixel DeltaMode = iota
	DeltaLine
	DeltaPage
)

// Transform maps simulation space to screen space: screen = p*K + (X, Y).
type Transform struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	K float64 `json:"k"`
}

// Identity is the transform of a freshly opened view.
func Identity() Transform {
	return Transform{K: 1}
}

// Apply maps a simulation point to screen space.
func (t Transform) Apply(p vector.Vector) vector.Vector {
	return p.Scale(t.K).Add(vector.Vector{t.X, t.Y})
}

// Invert maps a screen point back to simulation space.
func (t Transform) Invert(p vector.Vector) vector.Vector {
	return p.Sub(vector.Vector{t.X, t.Y}).Scale(1 / t.K)
}

// String renders the transform as an SVG transform attribute.
func (t Transform) String() string {
	return fmt.Sprintf("translate(%s,%s) scale(%s)", num(t.X), num(t.Y), num(t.K))
}

func num(f float64) string {
	return strconv.FormatFloat(math.Round(f*1000)/1000, 'f', -1, 64)
}

// Bounds is an axis-aligned box in simulation space.
type Bounds struct {
	Min, Max vector.Vector
}

// BoundsOf returns the smallest box containing every point, and false when
// there are no points.
func BoundsOf(points []vector.Vector) (Bounds, bool) {
	if len(points) == 0 {
		return Bounds{}, false
	}
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, p := range points {
		minX = math.Min(minX, p.X())
		minY = math.Min(minY, p.Y())
		maxX = math.Max(maxX, p.X())
		maxY = math.Max(maxY, p.Y())
	}
	return Bounds{Min: vector.Vector{minX, minY}, Max: vector.Vector{maxX, maxY}}, true
}

// Controller owns the transform of one view and the viewport size it is
// applied to. It is not safe for concurrent use; the owning session
// serialises access.
type Controller struct {
	t      Transform
	width  float64
	height float64
	minK   float64
	maxK   float64
}

// NewController returns a controller with the identity transform.
func NewController(width, height float64) *Controller {
	c := &Controller{t: Identity(), minK: MinScale, maxK: MaxScale}
	c.Resize(width, height)
	return c
}

// SetScaleExtent changes the zoom clamp. Invalid extents are ignored.
func (c *Controller) SetScaleExtent(min, max float64) {
	if min <= 0 || max < min {
		return
	}
	c.minK, c.maxK = min, max
	c.t.K = c.clamp(c.t.K)
}

// Transform returns the current transform.
func (c *Controller) Transform() Transform { return c.t }

// Size returns the viewport size in pixels.
func (c *Controller) Size() (float64, float64) { return c.width, c.height }

// Center returns the middle of the viewport in screen space.
func (c *Controller) Center() vector.Vector {
	return vector.Vector{c.width / 2, c.height / 2}
}

// Pan moves the scene by (dx, dy) screen pixels.
func (c *Controller) Pan(dx, dy float64) {
	c.t.X += dx
	c.t.Y += dy
}

// ZoomAt multiplies the scale by factor, keeping the simulation point under
// the screen point p fixed.
func (c *Controller) ZoomAt(factor float64, p vector.Vector) {
	if factor <= 0 || math.IsNaN(factor) || math.IsInf(factor, 0) {
		return
	}
	k := c.clamp(c.t.K * factor)
	if k == c.t.K {
		return
	}
	world := c.t.Invert(p)
	c.t.K = k
	c.t.X = p.X() - world.X()*k
	c.t.Y = p.Y() - world.Y()*k
}

// Wheel zooms around p for a wheel event. Scrolling down zooms out.
func (c *Controller) Wheel(deltaY float64, mode DeltaMode, p vector.Vector) {
	c.ZoomAt(math.Pow(2, WheelDelta(deltaY, mode)), p)
}

// WheelDelta converts a wheel delta into a base-2 zoom exponent.
func WheelDelta(deltaY float64, mode DeltaMode) float64 {
	switch mode {
	case DeltaLine:
		return -deltaY * 0.05
	case DeltaPage:
		return -deltaY
	default:
		return -deltaY * 0.002
	}
}

// Pinch zooms by the ratio between the current and initial finger spread.
func (c *Controller) Pinch(scale float64, p vector.Vector) {
	c.ZoomAt(scale, p)
}

// Resize records a new viewport size. Sizes below one pixel are clamped.
func (c *Controller) Resize(width, height float64) {
	c.width = math.Max(1, width)
	c.height = math.Max(1, height)
}

// Reset returns to the identity transform.
func (c *Controller) Reset() {
	c.t = Identity()
	c.t.K = c.clamp(1)
}

// Fit scales and centres the view so b fits inside the viewport with
// padding pixels on every side.
func (c *Controller) Fit(b Bounds, padding float64) {
	w := b.Max.X() - b.Min.X()
	h := b.Max.Y() - b.Min.Y()
	availW := math.Max(1, c.width-2*padding)
	availH := math.Max(1, c.height-2*padding)

	k := c.maxK
	if w > 0 {
		k = math.Min(k, availW/w)
	}
	if h > 0 {
		k = math.Min(k, availH/h)
	}
	k = c.clamp(k)

	mid := b.Min.Add(b.Max).Scale(0.5)
	c.t = Transform{
		K: k,
		X: c.width/2 - mid.X()*k,
		Y: c.height/2 - mid.Y()*k,
	}
}

func (c *Controller) clamp(k float64) float64 {
	return math.Max(c.minK, math.Min(c.maxK, k))
}
