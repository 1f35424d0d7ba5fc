package sim

import (
	"fmt"
	"strings"
)

// BodySource is anything the engine can turn into a body: an existing
// *Body (kept as is), an Attributes bag or a BodyPatch.
type BodySource interface {
	toBody(namer *Namer) *Body
}

// NoteSource is anything the engine can turn into a note
type NoteSource interface {
	toNote() *Note
}

func (b *Body) toBody(*Namer) *Body { return b }

func (a Attributes) toBody(n *Namer) *Body { return newBody(PatchFromAttributes(a), n) }

func (p BodyPatch) toBody(n *Namer) *Body { return newBody(p, n) }

func (n *Note) toNote() *Note { return n }

func (a Attributes) toNote() *Note { return NewNote(NotePatchFromAttributes(a)) }

func (p NotePatch) toNote() *Note { return NewNote(p) }

// Engine owns the bodies of a simulation and advances them in discrete steps.
//
// Engine is not safe for concurrent use. Step must finish before any other
// mutator runs; hosts serialize all calls behind one lock.
type Engine struct {
	G              float64
	SimulationTime float64
	Steps          int

	// PauseFrame makes the next Step a no-op; Step clears it
	PauseFrame bool

	// SelectedBody is the id of the body selected in the host UI, -1 if none
	SelectedBody int

	bodies    []*Body
	notes     []*Note
	tracker   *OrbitTracker
	idCounter int
	namer     *Namer

	trackTarget int
	trackCenter int

	resetState snapshot
}

// snapshot holds deep copies used by ResetLocal
type snapshot struct {
	bodies []*Body
	notes  []*Note
}

// NewEngine creates an empty engine using the real gravitational constant
func NewEngine() *Engine {
	return NewEngineWithSeed(1)
}

// NewEngineWithSeed creates an empty engine whose generated body names
// follow the given seed
func NewEngineWithSeed(seed uint64) *Engine {
	return &Engine{
		G:            G,
		SelectedBody: -1,
		tracker:      &OrbitTracker{},
		namer:        NewNamer(seed),
		trackTarget:  -1,
		trackCenter:  -1,
	}
}

// Bodies returns the body collection, tombstones included.
// Callers must not add or remove elements.
func (e *Engine) Bodies() []*Body {
	return e.bodies
}

// Body returns the body with the given id, or nil
func (e *Engine) Body(id int) *Body {
	for _, b := range e.bodies {
		if b.ID == id {
			return b
		}
	}
	return nil
}

// Notes returns all notes
func (e *Engine) Notes() []*Note {
	return e.notes
}

// Note returns the note with the given id, or nil
func (e *Engine) Note(id string) *Note {
	for _, n := range e.notes {
		if n.ID == id {
			return n
		}
	}
	return nil
}

// VisibleNotes returns the notes shown at the current simulation time
func (e *Engine) VisibleNotes() []*Note {
	var visible []*Note
	for _, n := range e.notes {
		if n.Check(e.SimulationTime) {
			visible = append(visible, n)
		}
	}
	return visible
}

// Tracker returns the orbit tracker
func (e *Engine) Tracker() *OrbitTracker {
	return e.tracker
}

// TrackedIDs returns the ids passed to the last successful TrackOrbit,
// or -1, -1
func (e *Engine) TrackedIDs() (target, center int) {
	return e.trackTarget, e.trackCenter
}

// Reset replaces the body collection, assigns dense ids and zeroes the
// simulation clock. Orbit tracking is suspended until TrackOrbit is called.
func (e *Engine) Reset(bodies []BodySource) {
	e.bodies = make([]*Body, 0, len(bodies))
	for _, src := range bodies {
		if src == nil {
			continue
		}
		if b, ok := src.(*Body); ok && b == nil {
			continue
		}
		e.bodies = append(e.bodies, src.toBody(e.namer))
	}
	e.assignIDs()

	e.tracker = &OrbitTracker{}
	e.trackTarget, e.trackCenter = -1, -1
	e.ResetValues()
	e.setResetState()
}

// ResetNotes replaces all notes
func (e *Engine) ResetNotes(notes []NoteSource) {
	e.notes = make([]*Note, 0, len(notes))
	for _, src := range notes {
		if src == nil {
			continue
		}
		if n, ok := src.(*Note); ok && n == nil {
			continue
		}
		e.notes = append(e.notes, src.toNote())
	}
	e.setResetState()
}

// ResetValues zeroes the clock and step counter and clears UI state
func (e *Engine) ResetValues() {
	e.SimulationTime = 0
	e.Steps = 0
	e.SelectedBody = -1
	e.PauseFrame = false
}

// ResetLocal restores bodies and notes to the state after the last
// modification and restarts the clock. A previously tracked pair is
// tracked again if both bodies are still present.
func (e *Engine) ResetLocal() {
	e.bodies = copyBodies(e.resetState.bodies)
	e.notes = copyNotes(e.resetState.notes)

	e.idCounter = 0
	for _, b := range e.bodies {
		if b.ID >= e.idCounter {
			e.idCounter = b.ID + 1
		}
	}

	e.ResetValues()
	e.tracker = &OrbitTracker{}
	if e.trackTarget >= 0 {
		if err := e.TrackOrbit(e.trackTarget, e.trackCenter); err != nil {
			e.trackTarget, e.trackCenter = -1, -1
		}
	}
}

// assignIDs renumbers all bodies densely from 0
func (e *Engine) assignIDs() {
	for i, b := range e.bodies {
		b.ID = i
	}
	e.idCounter = len(e.bodies)
}

// NewBody builds a body from src using the engine's namer without adding it
func (e *Engine) NewBody(src BodySource) *Body {
	if src == nil {
		src = Attributes{}
	}
	b := src.toBody(e.namer)
	if b == nil {
		b = newBody(BodyPatch{}, e.namer)
	}
	return b
}

// AddBody builds a body from src, gives it the next unused id and appends it
func (e *Engine) AddBody(src BodySource) *Body {
	b := e.NewBody(src)
	b.ID = e.idCounter
	e.idCounter++
	e.bodies = append(e.bodies, b)
	e.setResetState()
	return b
}

// DeleteBody removes the body with the given id. Remaining ids are not
// renumbered. Tracking stops if the body was tracked.
func (e *Engine) DeleteBody(id int) bool {
	for i, b := range e.bodies {
		if b.ID != id {
			continue
		}
		e.bodies = append(e.bodies[:i], e.bodies[i+1:]...)
		if e.tracker.Target() == b || e.tracker.Center() == b {
			e.tracker.Suspend()
		}
		if e.SelectedBody == id {
			e.SelectedBody = -1
		}
		e.setResetState()
		return true
	}
	return false
}

// UpdateBody merges an attribute bag into the body with the given id
func (e *Engine) UpdateBody(id int, attrs Attributes) bool {
	return e.UpdateBodyPatch(id, PatchFromAttributes(attrs))
}

// UpdateBodyPatch merges a patch into the body with the given id
func (e *Engine) UpdateBodyPatch(id int, p BodyPatch) bool {
	b := e.Body(id)
	if b == nil {
		return false
	}
	b.Apply(p)
	e.setResetState()
	return true
}

// AddNote builds a note from src and appends it
func (e *Engine) AddNote(src NoteSource) *Note {
	if src == nil {
		src = Attributes{}
	}
	n := src.toNote()
	e.notes = append(e.notes, n)
	e.setResetState()
	return n
}

// DeleteNote removes the note with the given id
func (e *Engine) DeleteNote(id string) bool {
	for i, n := range e.notes {
		if n.ID == id {
			e.notes = append(e.notes[:i], e.notes[i+1:]...)
			e.setResetState()
			return true
		}
	}
	return false
}

// UpdateNote merges an attribute bag into the note with the given id
func (e *Engine) UpdateNote(id string, attrs Attributes) bool {
	n := e.Note(id)
	if n == nil {
		return false
	}
	p := NotePatchFromAttributes(attrs)
	p.ID = nil
	n.Apply(p)
	e.setResetState()
	return true
}

// TrackOrbit starts measuring the orbit of targetID around centerID from
// the current simulation time. Missing or identical bodies suspend
// tracking and return an error wrapping ErrNoBody or ErrSameBody.
func (e *Engine) TrackOrbit(targetID, centerID int) error {
	if err := e.tracker.Reset(e.Body(targetID), e.Body(centerID), e.SimulationTime); err != nil {
		return fmt.Errorf("track body %d around body %d: %w", targetID, centerID, err)
	}
	e.trackTarget, e.trackCenter = targetID, centerID
	return nil
}

// CheckCollision reports whether two bodies at distance overlap
func (e *Engine) CheckCollision(a, b *Body, distance float64) bool {
	return distance < a.Radius+b.Radius
}

// ApplyCollision merges the lighter body into the heavier one. On equal
// mass the body with the lower id absorbs the other. The absorber keeps its
// position and velocity.
func (e *Engine) ApplyCollision(a, b *Body) {
	absorber, absorbed := a, b
	if b.Mass > a.Mass || (b.Mass == a.Mass && b.ID < a.ID) {
		absorber, absorbed = b, a
	}
	absorber.AddMass(absorbed.Mass)
	absorbed.Destroy()
	absorbed.ResetForce()
}

// Step advances the simulation by dt: pairwise gravity and collisions,
// integration of every existing body, then the clock and orbit tracker.
// If PauseFrame is set the call only clears it.
func (e *Engine) Step(dt float64) {
	if e.PauseFrame {
		e.PauseFrame = false
		return
	}

	for a := 0; a < len(e.bodies)-1; a++ {
		bodyA := e.bodies[a]
		if !bodyA.Exists() {
			continue
		}

		for b := a + 1; b < len(e.bodies); b++ {
			bodyB := e.bodies[b]
			if !bodyB.Exists() {
				continue
			}

			distance := bodyA.Position.DistanceTo(bodyB.Position)

			if e.CheckCollision(bodyA, bodyB, distance) {
				e.ApplyCollision(bodyA, bodyB)
				if !bodyA.Exists() {
					break
				}
				continue
			}

			angle := Bearing(bodyA.Position, bodyB.Position)
			magnitude := Gravity(e.G, bodyA.Mass, bodyB.Mass, distance)
			force := ForceVector(angle, magnitude)

			bodyA.AddForce(force)
			bodyB.AddForce(force.Scale(-1))
		}
	}

	// All forces are known, integrate
	for _, b := range e.bodies {
		if b.Exists() {
			b.ApplyForce(dt)
		}
	}

	e.SimulationTime += dt
	e.tracker.Update(e.SimulationTime)
	e.Steps++
}

func (e *Engine) setResetState() {
	e.resetState = snapshot{
		bodies: copyBodies(e.bodies),
		notes:  copyNotes(e.notes),
	}
}

func copyBodies(bodies []*Body) []*Body {
	out := make([]*Body, len(bodies))
	for i, b := range bodies {
		out[i] = b.Copy()
	}
	return out
}

func copyNotes(notes []*Note) []*Note {
	out := make([]*Note, len(notes))
	for i, n := range notes {
		out[i] = n.Copy()
	}
	return out
}

func (e *Engine) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "-- CURRENT STATE -- (%d)\nSimulation Time: %g\n", e.Steps, e.SimulationTime)
	for _, b := range e.bodies {
		if b.Exists() {
			fmt.Fprintf(&sb, "ID: %d\t%s\n", b.ID, b)
		} else {
			fmt.Fprintf(&sb, "ID: %d\t (destroyed)\n", b.ID)
		}
	}
	return sb.String()
}
