package sim

import (
	"math"
)

// Physical constants
const (
	// G is the gravitational constant in m^3 kg^-1 s^-2
	G = 6.674e-11

	// PI2 is a full turn in radians
	PI2 = 2 * math.Pi

	// Earth-like defaults used when a body is created without mass or radius
	DefaultMass   = 5.972e24
	DefaultRadius = 6.3674447e6

	// RadiusFactor is (3/(4*pi))^(1/3), used to recover a radius from mass/density
	RadiusFactor = 0.62035049090
)

// Note defaults
const (
	DefaultNoteDuration = 100000000
	DefaultNoteTitle    = "Note"
	DefaultNoteText     = "Look!"
)

// BigNum returns b * 10^e
func BigNum(b, e float64) float64 {
	return b * math.Pow(10, e)
}

// NormalizeAngle keeps angle between 0 and 2*PI
func NormalizeAngle(angle float64) float64 {
	for angle < 0 {
		angle += PI2
	}
	for angle >= PI2 {
		angle -= PI2
	}
	return angle
}

// Bearing returns the four-quadrant angle from one position to another,
// normalized to [0, 2*PI). Coincident points give 0.
func Bearing(from, to Vector) float64 {
	return NormalizeAngle(math.Atan2(to.Y-from.Y, to.X-from.X))
}

// Gravity returns the magnitude of the gravitational force between two
// masses at the given distance using the constant g.
func Gravity(g, massA, massB, distance float64) float64 {
	// A distance of 0 has no direction, so no force
	if distance == 0 {
		return 0
	}
	return g * (massA * massB) / (distance * distance)
}

// ForceVector returns a vector of the given magnitude pointing along angle
func ForceVector(angle, magnitude float64) Vector {
	return Vector{X: math.Cos(angle) * magnitude, Y: math.Sin(angle) * magnitude}
}
