package sim

import (
	"fmt"

	"gonum.org/v1/gonum/spatial/r2"
)

// Vector is a 2D value used for positions, velocities and forces.
// Operations return new values and never modify the receiver.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (v Vector) r2() r2.Vec { return r2.Vec{X: v.X, Y: v.Y} }

func fromR2(p r2.Vec) Vector { return Vector{X: p.X, Y: p.Y} }

// Add returns v + o
func (v Vector) Add(o Vector) Vector {
	return fromR2(v.r2().Add(o.r2()))
}

// Sub returns v - o
func (v Vector) Sub(o Vector) Vector {
	return fromR2(v.r2().Sub(o.r2()))
}

// Scale returns v * s
func (v Vector) Scale(s float64) Vector {
	return fromR2(v.r2().Scale(s))
}

// Norm returns the Euclidean length of v
func (v Vector) Norm() float64 {
	return r2.Norm(v.r2())
}

// DistanceTo returns the Euclidean distance between v and o
func (v Vector) DistanceTo(o Vector) float64 {
	return r2.Norm(o.r2().Sub(v.r2()))
}

func (v Vector) String() string {
	return fmt.Sprintf("(%g,%g)", v.X, v.Y)
}
