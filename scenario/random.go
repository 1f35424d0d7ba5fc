package scenario

import (
	"fmt"
	"math"

	"golang.org/x/exp/rand"

	"github.com/orbitable/orbitable-web/sim"
)

// Random cluster tuning
const (
	clusterStarMass   = 2e30
	clusterStarRadius = 7e8
	clusterMinOrbit   = 3e10
	clusterMaxOrbit   = 6e11
	clusterMinMass    = 1e22
	clusterMaxMass    = 2e27
	clusterDensity    = 3000.0
)

// Random builds a star with n planets on circular orbits. The same seed
// always produces the same cluster.
func Random(seed uint64, n int) *EnvironmentConfig {
	rng := rand.New(rand.NewSource(seed))

	bodies := make([]sim.Attributes, 0, n+1)
	bodies = append(bodies, body("", clusterStarMass, clusterStarRadius, sim.BigNum(3, 26), 0, 0))

	logMin, logMax := math.Log10(clusterMinMass), math.Log10(clusterMaxMass)
	for i := 0; i < n; i++ {
		r := clusterMinOrbit + rng.Float64()*(clusterMaxOrbit-clusterMinOrbit)
		theta := rng.Float64() * sim.PI2
		mass := math.Pow(10, logMin+rng.Float64()*(logMax-logMin))
		radius := sim.RadiusFactor * math.Cbrt(mass/clusterDensity)

		bodies = append(bodies, body("", mass, radius, 0, r*math.Cos(theta), r*math.Sin(theta)))
	}

	env := &EnvironmentConfig{
		Name:      fmt.Sprintf("random-%d", seed),
		Dt:        3600,
		AutoOrbit: true,
		Bodies:    bodies,
	}
	if n > 0 {
		env.Track = &TrackConfig{Target: 1, Center: 0}
	}
	return env
}
