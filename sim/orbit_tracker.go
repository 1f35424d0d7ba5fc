package sim

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrNoBody is returned when the target or center body is missing
	ErrNoBody = errors.New("orbit tracking needs both a target and a center body")
	// ErrSameBody is returned when target and center resolve to the same body
	ErrSameBody = errors.New("orbit target and center are the same body")
)

// OrbitStats summarizes the completed orbits of a tracker
type OrbitStats struct {
	Count int
	Mean  float64 // running mean of orbit durations
	Min   float64
	Max   float64
}

// OrbitTracker measures the period of the target body around the center body.
//
// Exact angle equality never happens under discrete steps, so completion
// uses two phases. While armed, the tracker waits for the target to reach the
// quadrant diagonally opposite the one it started in. Once there it is
// closing, and each update tests whether the start angle lies on the shorter
// arc between the previous and the current bearing.
//
// The tracker only reads body positions.
type OrbitTracker struct {
	target *Body
	center *Body

	running      bool
	semiComplete bool

	startAngle   float64
	lastAngle    float64
	currentAngle float64
	startTime    float64

	startQuad int
	goalQuad  int

	stats OrbitStats
}

// NewOrbitTracker starts tracking target around center at startTime.
// On error the returned tracker is suspended.
func NewOrbitTracker(target, center *Body, startTime float64) (*OrbitTracker, error) {
	t := &OrbitTracker{}
	err := t.Reset(target, center, startTime)
	return t, err
}

// Reset points the tracker at a new pair of bodies. A valid pair discards all
// statistics and re-arms the tracker. An invalid pair suspends tracking and
// keeps the statistics gathered so far.
func (t *OrbitTracker) Reset(target, center *Body, startTime float64) error {
	if err := checkPair(target, center); err != nil {
		t.target = target
		t.center = center
		t.running = false
		return err
	}

	*t = OrbitTracker{target: target, center: center, running: true}
	t.arm(startTime)
	return nil
}

// SetTarget changes the target body, keeping the current center
func (t *OrbitTracker) SetTarget(b *Body, now float64) error {
	return t.Reset(b, t.center, now)
}

// SetCenter changes the center body, keeping the current target
func (t *OrbitTracker) SetCenter(b *Body, now float64) error {
	return t.Reset(t.target, b, now)
}

// Suspend stops tracking without touching the statistics
func (t *OrbitTracker) Suspend() {
	t.running = false
}

func checkPair(target, center *Body) error {
	if target == nil || center == nil {
		return ErrNoBody
	}
	if target == center || (target.ID >= 0 && target.ID == center.ID) {
		return ErrSameBody
	}
	return nil
}

// arm records a new orbit start at time
func (t *OrbitTracker) arm(time float64) {
	t.startAngle = t.bearing()
	t.lastAngle = t.startAngle
	t.currentAngle = t.startAngle
	t.startTime = time
	t.semiComplete = false

	t.startQuad = Quadrant(t.relativePosition())
	t.goalQuad = t.startQuad + 2
	if t.goalQuad > 4 {
		t.goalQuad -= 4
	}
}

// Update advances the tracker to the given simulation time. It is a no-op
// while tracking is suspended.
func (t *OrbitTracker) Update(time float64) {
	if !t.running {
		return
	}

	t.currentAngle = t.bearing()

	if t.semiComplete {
		if CheckCross(t.lastAngle, t.currentAngle, t.startAngle) {
			t.completeOrbit(time)
		}
	} else if Quadrant(t.relativePosition()) == t.goalQuad {
		t.semiComplete = true
	}

	t.lastAngle = t.currentAngle
}

// completeOrbit records an orbit ending at time and re-arms the tracker
func (t *OrbitTracker) completeOrbit(time float64) {
	elapsed := time - t.startTime

	t.stats.Count++
	n := float64(t.stats.Count)
	t.stats.Mean = t.stats.Mean*((n-1)/n) + elapsed*(1/n)
	if t.stats.Count == 1 {
		t.stats.Min = elapsed
		t.stats.Max = elapsed
	} else {
		t.stats.Min = math.Min(t.stats.Min, elapsed)
		t.stats.Max = math.Max(t.stats.Max, elapsed)
	}

	t.arm(time)
}

// bearing is the angle from the center to the target
func (t *OrbitTracker) bearing() float64 {
	return Bearing(t.center.Position, t.target.Position)
}

func (t *OrbitTracker) relativePosition() Vector {
	return t.target.Position.Sub(t.center.Position)
}

// Target returns the tracked body
func (t *OrbitTracker) Target() *Body { return t.target }

// Center returns the body being orbited
func (t *OrbitTracker) Center() *Body { return t.center }

// Running reports whether tracking is active
func (t *OrbitTracker) Running() bool { return t.running }

// SemiComplete reports whether the target has reached the goal quadrant
func (t *OrbitTracker) SemiComplete() bool { return t.semiComplete }

// Stats returns the statistics of completed orbits
func (t *OrbitTracker) Stats() OrbitStats { return t.stats }

// StartAngle returns the bearing recorded at the start of the current orbit
func (t *OrbitTracker) StartAngle() float64 { return t.startAngle }

// Quadrants returns the start and goal quadrants of the current orbit
func (t *OrbitTracker) Quadrants() (start, goal int) { return t.startQuad, t.goalQuad }

// Quadrant classifies a relative position into quadrants 1..4.
// Points on an axis belong to the non-negative side.
func Quadrant(v Vector) int {
	if v.X >= 0 {
		if v.Y >= 0 {
			return 1
		}
		return 4
	}
	if v.Y >= 0 {
		return 2
	}
	return 3
}

// CheckCross reports whether target lies on the shorter arc from start to
// end, ends included. All angles are in [0, 2*PI).
func CheckCross(start, end, target float64) bool {
	var cw, ccw float64
	if start < end {
		ccw = end - start
		cw = -(start + (PI2 - end))

		if math.Abs(cw) < math.Abs(ccw) {
			// Clockwise through zero, e.g. 0.1 -> 6.1
			return target <= start || target >= end
		}
		// Counter-clockwise, e.g. 0.1 -> 0.2
		return target >= start && target <= end
	}

	cw = end - start
	ccw = end + (PI2 - start)

	if math.Abs(cw) < math.Abs(ccw) {
		// Clockwise, e.g. 0.2 -> 0.1
		return target <= start && target >= end
	}
	// Counter-clockwise through zero, e.g. 6.1 -> 0.1
	return target >= start || target <= end
}

func (t *OrbitTracker) String() string {
	if t.target == nil || t.center == nil {
		return fmt.Sprintf("Orbit tracking suspended (%d orbits, mean %g)", t.stats.Count, t.stats.Mean)
	}
	return fmt.Sprintf("Target: %s\nCenter: %s\nQuads: %d/%d\nSemi: %t\nOrbit Time: %g (%d)",
		t.target, t.center, t.startQuad, t.goalQuad, t.semiComplete, t.stats.Mean, t.stats.Count)
}
