package scenario

import (
	"fmt"
	"math"
	"sort"

	"github.com/orbitable/orbitable-web/sim"
)

var builtins = map[string]func() *EnvironmentConfig{
	"solar":  Solar,
	"binary": Binary,
}

// Names lists the built-in scenarios
func Names() []string {
	names := make([]string, 0, len(builtins))
	for name := range builtins {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Builtin returns a fresh copy of the named built-in scenario
func Builtin(name string) (*EnvironmentConfig, error) {
	build, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("unknown scenario %q", name)
	}
	return build(), nil
}

// body builds an attribute bag; an empty name lets the engine generate one
func body(name string, mass, radius, luminosity, x, y float64) sim.Attributes {
	attrs := sim.Attributes{
		"mass":       mass,
		"radius":     radius,
		"luminosity": luminosity,
		"position":   map[string]any{"x": x, "y": y},
		"velocity":   map[string]any{"x": 0.0, "y": 0.0},
	}
	if name != "" {
		attrs["name"] = name
	}
	return attrs
}

func note(title, text string, start, duration, x, y float64) sim.Attributes {
	return sim.Attributes{
		"title":     title,
		"text":      text,
		"startTime": start,
		"duration":  duration,
		"position":  map[string]any{"x": x, "y": y},
	}
}

// Solar is the inner solar system with the Earth tracked around the Sun
func Solar() *EnvironmentConfig {
	return &EnvironmentConfig{
		Name:      "solar",
		Dt:        3600,
		AutoOrbit: true,
		Track:     &TrackConfig{Target: 3, Center: 0},
		Bodies: []sim.Attributes{
			body("Sun", sim.BigNum(1.989, 30), sim.BigNum(6.957, 8), sim.BigNum(3.828, 26), 0, 0),
			body("Mercury", sim.BigNum(3.301, 23), sim.BigNum(2.4397, 6), 0, sim.BigNum(5.791, 10), 0),
			body("Venus", sim.BigNum(4.867, 24), sim.BigNum(6.0518, 6), 0, 0, sim.BigNum(1.082, 11)),
			body("Earth", sim.DefaultMass, sim.DefaultRadius, 0, -sim.BigNum(1.496, 11), 0),
			body("Mars", sim.BigNum(6.417, 23), sim.BigNum(3.3895, 6), 0, 0, -sim.BigNum(2.279, 11)),
		},
		Notes: []sim.Attributes{
			note("Earth", "One orbit takes about 3.16e7 seconds.", 0, sim.BigNum(2, 6), -sim.BigNum(1.496, 11), 0),
			note("Mercury", "The innermost planet completes an orbit every 88 days.", sim.BigNum(4, 6), sim.BigNum(4, 6), sim.BigNum(5.791, 10), 0),
		},
	}
}

// Binary is two equal stars circling their barycenter with one planet far
// outside both
func Binary() *EnvironmentConfig {
	const (
		starMass = 1e30
		half     = 1e11 // half the star separation
		planetR  = 8e11
	)
	starSpeed := math.Sqrt(sim.G * starMass / (4 * half))
	planetSpeed := math.Sqrt(sim.G * 2 * starMass / planetR)

	a := body("Castor", starMass, 5e8, 2e26, -half, 0)
	a["velocity"] = map[string]any{"x": 0.0, "y": -starSpeed}
	b := body("Pollux", starMass, 5e8, 1e26, half, 0)
	b["velocity"] = map[string]any{"x": 0.0, "y": starSpeed}
	p := body("", sim.DefaultMass, sim.DefaultRadius, 0, 0, planetR)
	p["velocity"] = map[string]any{"x": -planetSpeed, "y": 0.0}

	return &EnvironmentConfig{
		Name:   "binary",
		Dt:     7200,
		Track:  &TrackConfig{Target: 1, Center: 0},
		Bodies: []sim.Attributes{a, b, p},
	}
}
