package server

import (
	"log"
	"time"

	"github.com/orbitable/orbitable-web/sim"
)

// Debug flags for various subsystems
var (
	DebugOrbit = false // Log orbit tracking changes and completed orbits
	DebugStep  = false // Log the duration of every simulation step
)

// logOrbitCompletion logs the tracker statistics after an orbit completes
func logOrbitCompletion(t *sim.OrbitTracker, now float64) {
	if DebugOrbit {
		stats := t.Stats()
		log.Printf("[ORBIT DEBUG] Orbit %d complete at t=%g: mean %g min %g max %g",
			stats.Count, now, stats.Mean, stats.Min, stats.Max)
	}
}

// logStep logs how long a simulation step took
func logStep(step, bodies int, took time.Duration) {
	if DebugStep {
		log.Printf("[STEP DEBUG] Step %d: %d bodies in %v", step, bodies, took)
	}
}
