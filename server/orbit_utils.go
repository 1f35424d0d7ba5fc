package server

import (
	"github.com/orbitable/orbitable-web/scenario"
	"github.com/orbitable/orbitable-web/sim"
)

// OrbitalVelocity returns the velocity a body at pos needs for a circular,
// counter-clockwise orbit around the body centerID, including the center's
// own motion. ok is false if the center is missing, destroyed or at pos.
//
// The caller must hold simMu.
func (s *Server) OrbitalVelocity(centerID int, pos sim.Vector) (vx, vy float64, ok bool) {
	center := s.engine.Body(centerID)
	if center == nil || !center.Exists() {
		return 0, 0, false
	}

	v, ok := scenario.OrbitalVelocity(s.engine.G, center, pos)
	if !ok {
		return 0, 0, false
	}
	return v.X, v.Y, true
}
