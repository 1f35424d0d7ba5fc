package scenario

import (
	"encoding/json"
	"fmt"
	"math"
	"os"

	"github.com/orbitable/orbitable-web/sim"
)

// EnvironmentConfig describes a starting state for the engine
type EnvironmentConfig struct {
	Name      string           `json:"name"`
	Dt        float64          `json:"dt,omitempty"`
	AutoOrbit bool             `json:"auto_orbit,omitempty"`
	Track     *TrackConfig     `json:"track,omitempty"`
	Bodies    []sim.Attributes `json:"bodies"`
	Notes     []sim.Attributes `json:"notes,omitempty"`
}

// TrackConfig names the bodies whose orbit is measured, by index in Bodies
type TrackConfig struct {
	Target int `json:"target"`
	Center int `json:"center"`
}

// LoadConfig reads an environment from a JSON file
func LoadConfig(path string) (*EnvironmentConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read scenario: %w", err)
	}
	return Parse(data)
}

// Parse decodes an environment from JSON
func Parse(data []byte) (*EnvironmentConfig, error) {
	var env EnvironmentConfig
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("parse scenario: %w", err)
	}
	if env.Dt < 0 || math.IsNaN(env.Dt) || math.IsInf(env.Dt, 0) {
		return nil, fmt.Errorf("parse scenario %q: invalid dt %v", env.Name, env.Dt)
	}
	return &env, nil
}

// Resolve returns the built-in scenario called name, or loads name as a JSON
// file when no built-in matches. An empty name selects the solar system.
func Resolve(name string) (*EnvironmentConfig, error) {
	if name == "" {
		name = "solar"
	}
	if env, err := Builtin(name); err == nil {
		return env, nil
	}
	return LoadConfig(name)
}

// Apply resets the engine to this environment. Tracking errors are returned
// after the bodies and notes are in place.
func (env *EnvironmentConfig) Apply(e *sim.Engine) error {
	bodies := make([]*sim.Body, len(env.Bodies))
	for i, attrs := range env.Bodies {
		bodies[i] = e.NewBody(attrs)
	}
	if env.AutoOrbit {
		SetOrbitalVelocities(bodies, e.G)
	}

	sources := make([]sim.BodySource, len(bodies))
	for i, b := range bodies {
		sources[i] = b
	}
	e.Reset(sources)

	notes := make([]sim.NoteSource, len(env.Notes))
	for i, attrs := range env.Notes {
		notes[i] = attrs
	}
	e.ResetNotes(notes)

	if env.Track != nil {
		if err := e.TrackOrbit(env.Track.Target, env.Track.Center); err != nil {
			return fmt.Errorf("scenario %q: %w", env.Name, err)
		}
	}
	return nil
}

// SetOrbitalVelocities gives every body at rest a circular orbit around the
// first body. Bodies that already move are left alone.
func SetOrbitalVelocities(bodies []*sim.Body, g float64) {
	if len(bodies) == 0 {
		return
	}
	central := bodies[0]
	for _, b := range bodies[1:] {
		if b.Velocity != (sim.Vector{}) {
			continue
		}
		if v, ok := OrbitalVelocity(g, central, b.Position); ok {
			b.Velocity = v
		}
	}
}

// OrbitalVelocity returns the velocity of a circular, counter-clockwise orbit
// around center passing through pos. ok is false when pos coincides with the
// center or the center has no mass.
func OrbitalVelocity(g float64, center *sim.Body, pos sim.Vector) (v sim.Vector, ok bool) {
	rel := pos.Sub(center.Position)
	r := rel.Norm()
	if r < 1e-9 || center.Mass <= 0 {
		return sim.Vector{}, false
	}

	speed := math.Sqrt(g * center.Mass / r)
	tangent := sim.Vector{X: -rel.Y / r, Y: rel.X / r}
	return center.Velocity.Add(tangent.Scale(speed)), true
}
