package sim

import (
	"math"
	"strings"
	"testing"
)

func newTestBody() *Body {
	return NewBody(BodyPatch{
		Mass:       Float(1),
		Radius:     Float(1),
		Luminosity: Float(1),
		Position:   VectorPatch{X: Float(1), Y: Float(1)},
		Velocity:   VectorPatch{X: Float(1), Y: Float(1)},
	})
}

func TestNewBodyAssignsAttributes(t *testing.T) {
	b := NewBody(BodyPatch{
		Name:       Str("Name"),
		Mass:       Float(1),
		Radius:     Float(6),
		Luminosity: Float(7),
		Position:   VectorPatch{X: Float(2), Y: Float(3)},
		Velocity:   VectorPatch{X: Float(4), Y: Float(5)},
	})

	if b.Mass != 1 || b.Radius != 6 || b.Luminosity != 7 {
		t.Errorf("mass/radius/luminosity = %v/%v/%v, expected 1/6/7", b.Mass, b.Radius, b.Luminosity)
	}
	if b.Position != (Vector{2, 3}) || b.Velocity != (Vector{4, 5}) {
		t.Errorf("position/velocity = %v/%v, expected (2,3)/(4,5)", b.Position, b.Velocity)
	}
	if b.Name != "Name" {
		t.Errorf("Name = %q, expected %q", b.Name, "Name")
	}
	if b.ID != -1 {
		t.Errorf("ID = %d, expected -1 before an engine assigns one", b.ID)
	}
	if !b.Exists() {
		t.Errorf("new body should exist")
	}
}

func TestNewBodyDefaults(t *testing.T) {
	b := NewBody(BodyPatch{})

	if b.Mass != DefaultMass || b.Radius != DefaultRadius {
		t.Errorf("defaults = %v/%v, expected %v/%v", b.Mass, b.Radius, DefaultMass, DefaultRadius)
	}
	if b.Density <= 0 || math.IsInf(b.Density, 0) {
		t.Errorf("default density = %v, expected positive and finite", b.Density)
	}
	if b.Position != (Vector{}) || b.Velocity != (Vector{}) || b.Luminosity != 0 {
		t.Errorf("default motion = %v/%v/%v, expected zeros", b.Position, b.Velocity, b.Luminosity)
	}
	if b.Name == "" {
		t.Errorf("expected a generated name")
	}
	if !strings.HasPrefix(b.Color, "#") {
		t.Errorf("Color = %q, expected a hex color", b.Color)
	}
}

func TestBodyApply(t *testing.T) {
	tests := []struct {
		name     string
		patch    BodyPatch
		expected Body
	}{
		{
			name: "all attributes",
			patch: BodyPatch{
				Mass: Float(2), Radius: Float(2), Luminosity: Float(2),
				Position: VectorPatch{X: Float(2), Y: Float(2)},
				Velocity: VectorPatch{X: Float(2), Y: Float(2)},
			},
			expected: Body{Mass: 2, Radius: 2, Luminosity: 2, Position: Vector{2, 2}, Velocity: Vector{2, 2}},
		},
		{
			name:     "only mass",
			patch:    BodyPatch{Mass: Float(2)},
			expected: Body{Mass: 2, Radius: 1, Luminosity: 1, Position: Vector{1, 1}, Velocity: Vector{1, 1}},
		},
		{
			name:     "only x position",
			patch:    BodyPatch{Position: VectorPatch{X: Float(2)}},
			expected: Body{Mass: 1, Radius: 1, Luminosity: 1, Position: Vector{2, 1}, Velocity: Vector{1, 1}},
		},
		{
			name:     "only y position",
			patch:    BodyPatch{Position: VectorPatch{Y: Float(2)}},
			expected: Body{Mass: 1, Radius: 1, Luminosity: 1, Position: Vector{1, 2}, Velocity: Vector{1, 1}},
		},
		{
			name:     "only x velocity",
			patch:    BodyPatch{Velocity: VectorPatch{X: Float(2)}},
			expected: Body{Mass: 1, Radius: 1, Luminosity: 1, Position: Vector{1, 1}, Velocity: Vector{2, 1}},
		},
		{
			name:     "only y velocity",
			patch:    BodyPatch{Velocity: VectorPatch{Y: Float(2)}},
			expected: Body{Mass: 1, Radius: 1, Luminosity: 1, Position: Vector{1, 1}, Velocity: Vector{1, 2}},
		},
		{
			name:     "only luminosity",
			patch:    BodyPatch{Luminosity: Float(2)},
			expected: Body{Mass: 1, Radius: 1, Luminosity: 2, Position: Vector{1, 1}, Velocity: Vector{1, 1}},
		},
		{
			name:     "only radius",
			patch:    BodyPatch{Radius: Float(2)},
			expected: Body{Mass: 1, Radius: 2, Luminosity: 1, Position: Vector{1, 1}, Velocity: Vector{1, 1}},
		},
		{
			name:     "explicit zero velocity",
			patch:    BodyPatch{Velocity: VectorPatch{X: Float(0), Y: Float(0)}},
			expected: Body{Mass: 1, Radius: 1, Luminosity: 1, Position: Vector{1, 1}, Velocity: Vector{0, 0}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBody()
			b.Apply(tt.patch)

			if b.Mass != tt.expected.Mass || b.Radius != tt.expected.Radius || b.Luminosity != tt.expected.Luminosity {
				t.Errorf("mass/radius/luminosity = %v/%v/%v, expected %v/%v/%v",
					b.Mass, b.Radius, b.Luminosity, tt.expected.Mass, tt.expected.Radius, tt.expected.Luminosity)
			}
			if b.Position != tt.expected.Position {
				t.Errorf("Position = %v, expected %v", b.Position, tt.expected.Position)
			}
			if b.Velocity != tt.expected.Velocity {
				t.Errorf("Velocity = %v, expected %v", b.Velocity, tt.expected.Velocity)
			}
			if b.Density != density(b.Mass, b.Radius) {
				t.Errorf("Density = %v, expected %v", b.Density, density(b.Mass, b.Radius))
			}
		})
	}
}

func TestBodyForces(t *testing.T) {
	t.Run("accumulate", func(t *testing.T) {
		b := newTestBody()
		b.ResetForce()
		f := Vector{3, -2}
		b.AddForce(f)
		if b.Force != f {
			t.Errorf("Force = %v, expected %v", b.Force, f)
		}
		b.AddForce(f)
		if b.Force != f.Scale(2) {
			t.Errorf("Force = %v, expected %v", b.Force, f.Scale(2))
		}
		b.ResetForce()
		if b.Force != (Vector{}) {
			t.Errorf("Force after reset = %v, expected zero", b.Force)
		}
	})

	t.Run("apply", func(t *testing.T) {
		mass := 4.0
		dt := 3.0
		f := Vector{8, -12}
		b := NewBody(BodyPatch{Mass: Float(mass), Radius: Float(1)})
		b.AddForce(f)
		b.ApplyForce(dt)

		if b.Velocity.X != f.X/mass*dt || b.Velocity.Y != f.Y/mass*dt {
			t.Errorf("Velocity = %v, expected (%v,%v)", b.Velocity, f.X/mass*dt, f.Y/mass*dt)
		}
		if b.Position.X != f.X/mass*dt*dt || b.Position.Y != f.Y/mass*dt*dt {
			t.Errorf("Position = %v, expected (%v,%v)", b.Position, f.X/mass*dt*dt, f.Y/mass*dt*dt)
		}
		if b.Force != (Vector{}) {
			t.Errorf("Force = %v, expected zero after ApplyForce", b.Force)
		}
	})
}

func TestBodyMassAndDensity(t *testing.T) {
	t.Run("SetMass derives radius", func(t *testing.T) {
		b := NewBody(BodyPatch{})
		b.Mass, b.Radius, b.Density = 10, 10, 10
		b.SetMass(100)
		if b.Mass != 100 {
			t.Errorf("Mass = %v, expected 100", b.Mass)
		}
		if expected := RadiusFactor * math.Cbrt(100.0/10); b.Radius != expected {
			t.Errorf("Radius = %v, expected %v", b.Radius, expected)
		}
	})

	t.Run("SetMass with zero density destroys", func(t *testing.T) {
		b := NewBody(BodyPatch{})
		b.Mass, b.Radius, b.Density = 10, 10, 0
		b.SetMass(100)
		if b.Mass != 10 {
			t.Errorf("Mass = %v, expected unchanged 10", b.Mass)
		}
		if b.Exists() || b.Radius != 0 {
			t.Errorf("expected destroyed body with radius 0, got state %v radius %v", b.State, b.Radius)
		}
	})

	t.Run("AddMass", func(t *testing.T) {
		b := NewBody(BodyPatch{})
		b.Mass, b.Radius, b.Density = 10, 10, 10
		b.AddMass(100)
		if b.Mass != 110 {
			t.Errorf("Mass = %v, expected 110", b.Mass)
		}
		if expected := RadiusFactor * math.Cbrt(110.0/10); b.Radius != expected {
			t.Errorf("Radius = %v, expected %v", b.Radius, expected)
		}
	})

	t.Run("SetRadius derives density", func(t *testing.T) {
		b := NewBody(BodyPatch{})
		b.Mass, b.Radius, b.Density = 10, 10, 10
		b.SetRadius(100)
		if b.Radius != 100 || b.Density != density(10, 100) {
			t.Errorf("radius/density = %v/%v, expected 100/%v", b.Radius, b.Density, density(10, 100))
		}
	})

	t.Run("SetMassRadius derives density", func(t *testing.T) {
		b := NewBody(BodyPatch{})
		b.SetMassRadius(100, 100)
		if b.Mass != 100 || b.Radius != 100 || b.Density != density(100, 100) {
			t.Errorf("mass/radius/density = %v/%v/%v", b.Mass, b.Radius, b.Density)
		}
	})

	t.Run("SetDensity zero destroys", func(t *testing.T) {
		b := NewBody(BodyPatch{Mass: Float(10), Radius: Float(1)})
		b.SetDensity(0)
		if b.Exists() || b.Radius != 0 {
			t.Errorf("expected destroyed body, got state %v radius %v", b.State, b.Radius)
		}
	})

	t.Run("zero mass destroys", func(t *testing.T) {
		b := newTestBody()
		b.Apply(BodyPatch{Mass: Float(0)})
		if b.Exists() {
			t.Errorf("body with zero density should be destroyed")
		}
	})
}

func TestBodyDestroy(t *testing.T) {
	b := newTestBody()
	b.Destroy()
	if b.Radius != 0 || b.Exists() || b.State != BodyDestroyed {
		t.Errorf("after Destroy radius=%v state=%v, expected 0/destroyed", b.Radius, b.State)
	}

	// Tombstones stay inert
	b.SetMass(50)
	if b.Radius != 0 || b.Exists() {
		t.Errorf("destroyed body came back: radius=%v state=%v", b.Radius, b.State)
	}
}

func TestBodyCopy(t *testing.T) {
	b := NewBody(BodyPatch{
		Name: Str("Name"), Mass: Float(1), Radius: Float(6), Luminosity: Float(7),
		Position: VectorPatch{X: Float(2), Y: Float(3)},
		Velocity: VectorPatch{X: Float(4), Y: Float(5)},
	})
	b.ID = 9
	c := b.Copy()

	if *c != *b {
		t.Errorf("Copy = %+v, expected %+v", *c, *b)
	}
	c.Position.X = 100
	if b.Position.X != 2 {
		t.Errorf("modifying the copy changed the original")
	}
}

func TestBodyString(t *testing.T) {
	s := newTestBody().String()
	if !strings.Contains(s, "M: 1") {
		t.Errorf("String() = %q, expected mass in output", s)
	}
}
