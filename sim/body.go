package sim

import (
	"fmt"
	"math"
)

// BodyState is the lifecycle state of a body
type BodyState uint8

const (
	BodyAlive BodyState = iota
	BodyDestroyed
)

func (s BodyState) String() string {
	switch s {
	case BodyAlive:
		return "alive"
	case BodyDestroyed:
		return "destroyed"
	default:
		return fmt.Sprintf("BodyState(%d)", uint8(s))
	}
}

// Body is a massive point-like object in the simulation.
//
// A destroyed body is a tombstone: it stays in the engine's collection with
// a zero radius and frozen motion until it is deleted by id.
type Body struct {
	ID    int
	Name  string
	Color string

	Mass       float64
	Radius     float64
	Density    float64
	Luminosity float64

	Position Vector
	Velocity Vector

	// Force accumulated during the current step
	Force Vector

	State BodyState
}

// NewBody builds a fully populated body from a patch, filling defaults for
// every absent field. The id is -1 until an engine assigns one.
func NewBody(p BodyPatch) *Body {
	return newBody(p, defaultNamer)
}

func newBody(p BodyPatch, namer *Namer) *Body {
	mass := DefaultMass
	if p.Mass != nil {
		mass = *p.Mass
	}
	radius := DefaultRadius
	if p.Radius != nil {
		radius = *p.Radius
	}

	b := &Body{
		ID:       -1,
		Position: p.Position.apply(Vector{}),
		Velocity: p.Velocity.apply(Vector{}),
	}
	if p.Luminosity != nil {
		b.Luminosity = *p.Luminosity
	}
	if p.Name != nil && *p.Name != "" {
		b.Name = *p.Name
	} else {
		b.Name = namer.Name()
	}
	b.SetMassRadius(mass, radius)
	b.Color = ClassifyColor(b)
	return b
}

// Exists reports whether the body takes part in the simulation
func (b *Body) Exists() bool {
	return b.State == BodyAlive
}

// Destroy tombstones the body
func (b *Body) Destroy() {
	b.Radius = 0
	b.State = BodyDestroyed
}

// SetMassRadius sets mass and radius and derives the density
func (b *Body) SetMassRadius(mass, radius float64) {
	b.Mass = mass
	b.Radius = radius
	b.Density = density(mass, radius)
	b.settle()
}

// SetRadius sets the radius and derives the density from the current mass
func (b *Body) SetRadius(radius float64) {
	b.Radius = radius
	b.Density = density(b.Mass, radius)
	b.settle()
}

// SetMass sets the mass and derives the radius from the current density.
// A body with zero density is destroyed instead and keeps its mass.
func (b *Body) SetMass(mass float64) {
	if b.Density == 0 {
		b.Destroy()
		return
	}
	b.Mass = mass
	b.Radius = RadiusFactor * math.Cbrt(b.Mass/b.Density)
	b.settle()
}

// SetDensity sets the density and derives the radius from the current mass
func (b *Body) SetDensity(d float64) {
	b.Density = d
	if d != 0 {
		b.Radius = RadiusFactor * math.Cbrt(b.Mass/d)
	}
	b.settle()
}

// AddMass merges mass into the body
func (b *Body) AddMass(mass float64) {
	b.SetMass(b.Mass + mass)
}

// AddForce accumulates a force for the current step
func (b *Body) AddForce(f Vector) {
	b.Force = b.Force.Add(f)
}

// ResetForce clears the accumulated force
func (b *Body) ResetForce() {
	b.Force = Vector{}
}

// ApplyForce integrates the accumulated force over dt (semi-implicit Euler)
// and clears it.
func (b *Body) ApplyForce(dt float64) {
	b.Velocity.X += (b.Force.X / b.Mass) * dt
	b.Velocity.Y += (b.Force.Y / b.Mass) * dt
	b.Position.X += b.Velocity.X * dt
	b.Position.Y += b.Velocity.Y * dt

	b.ResetForce()
}

// Apply merges a patch into the body. Mass and radius are applied together
// so the density follows both; absent sides keep their current value.
func (b *Body) Apply(p BodyPatch) {
	if p.Name != nil {
		b.Name = *p.Name
	}
	if p.Mass != nil || p.Radius != nil {
		mass, radius := b.Mass, b.Radius
		if p.Mass != nil {
			mass = *p.Mass
		}
		if p.Radius != nil {
			radius = *p.Radius
		}
		b.SetMassRadius(mass, radius)
	}
	if p.Luminosity != nil {
		b.Luminosity = *p.Luminosity
	}
	b.Position = p.Position.apply(b.Position)
	b.Velocity = p.Velocity.apply(b.Velocity)

	if p.Mass != nil || p.Luminosity != nil {
		b.Color = ClassifyColor(b)
	}
}

// Copy returns a deep copy of the body, id included
func (b *Body) Copy() *Body {
	c := *b
	return &c
}

func (b *Body) String() string {
	return fmt.Sprintf(" ID: %d E: %t P: %s V: %s M: %g R: %g D: %g L: %g",
		b.ID, b.Exists(), b.Position, b.Velocity, b.Mass, b.Radius, b.Density, b.Luminosity)
}

// settle enforces the tombstone invariants after a physical change
func (b *Body) settle() {
	if b.Density == 0 {
		b.Destroy()
	}
	if b.State == BodyDestroyed {
		b.Radius = 0
	}
}

func density(mass, radius float64) float64 {
	return mass / ((4.0 / 3.0 * math.Pi) * math.Pow(radius, 3))
}
