// Package view holds the screen mapping shared by the local viewer
package view

import (
	"math"

	"github.com/orbitable/orbitable-web/sim"
)

// Camera maps world meters to screen pixels, centered on the origin
type Camera struct {
	Scale  float64 // meters per pixel
	Width  float64
	Height float64
}

// FitCamera picks a scale that shows every existing body with some margin
func FitCamera(bodies []*sim.Body, width, height int) Camera {
	extent := 0.0
	for _, b := range bodies {
		if !b.Exists() {
			continue
		}
		extent = math.Max(extent, math.Max(math.Abs(b.Position.X), math.Abs(b.Position.Y)))
	}
	half := math.Min(float64(width), float64(height)) / 2
	scale := 1.0
	if extent > 0 {
		scale = extent * 1.2 / half
	}
	return Camera{Scale: scale, Width: float64(width), Height: float64(height)}
}

// Zoom multiplies the scale; factors below 1 zoom in
func (c *Camera) Zoom(factor float64) {
	c.Scale *= factor
}

// ToScreen converts a world position to pixels
func (c Camera) ToScreen(p sim.Vector) (x, y float64) {
	return c.Width/2 + p.X/c.Scale, c.Height/2 - p.Y/c.Scale
}

// ToWorld converts pixels to a world position
func (c Camera) ToWorld(x, y float64) sim.Vector {
	return sim.Vector{X: (x - c.Width/2) * c.Scale, Y: (c.Height/2 - y) * c.Scale}
}

// Radius converts a body radius to pixels, never smaller than minPx
func (c Camera) Radius(r, minPx float64) float64 {
	return math.Max(minPx, r/c.Scale)
}

// Pick returns the id of the closest existing body within maxDist pixels, or -1
func (c Camera) Pick(bodies []*sim.Body, x, y, maxDist float64) int {
	best, bestDist := -1, maxDist
	for _, b := range bodies {
		if !b.Exists() {
			continue
		}
		sx, sy := c.ToScreen(b.Position)
		if d := math.Hypot(sx-x, sy-y); d < bestDist {
			best, bestDist = b.ID, d
		}
	}
	return best
}

// Trail is a fixed size ring of past positions
type Trail struct {
	buf   []sim.Vector
	start int
	n     int
}

// NewTrail keeps the last size positions
func NewTrail(size int) *Trail {
	return &Trail{buf: make([]sim.Vector, size)}
}

// Push records a position, dropping the oldest when full
func (t *Trail) Push(p sim.Vector) {
	idx := (t.start + t.n) % len(t.buf)
	t.buf[idx] = p
	if t.n < len(t.buf) {
		t.n++
	} else {
		t.start = (t.start + 1) % len(t.buf)
	}
}

// Points returns the positions oldest first
func (t *Trail) Points() []sim.Vector {
	out := make([]sim.Vector, t.n)
	for i := 0; i < t.n; i++ {
		out[i] = t.buf[(t.start+i)%len(t.buf)]
	}
	return out
}
