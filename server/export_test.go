package server

import "github.com/orbitable/orbitable-web/sim"

// Test helpers to reach the simulation directly

// SetEngine replaces the engine
func (s *Server) SetEngine(e *sim.Engine) {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	s.engine = e
}

// GetEngine returns the current engine
func (s *Server) GetEngine() *sim.Engine {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return s.engine
}

// Paused reports whether the tick loop is paused
func (s *Server) Paused() bool {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return s.paused
}

// TimeStep returns the simulated seconds per tick
func (s *Server) TimeStep() float64 {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return s.timeStep
}
