package server

import (
	"math"

	"github.com/orbitable/orbitable-web/sim"
)

// BodyView is the wire form of a body
type BodyView struct {
	ID         int        `json:"id"`
	Name       string     `json:"name"`
	Color      string     `json:"color"`
	Mass       float64    `json:"mass"`
	Radius     float64    `json:"radius"`
	Density    float64    `json:"density"`
	Luminosity float64    `json:"luminosity"`
	Position   sim.Vector `json:"position"`
	Velocity   sim.Vector `json:"velocity"`
	Exists     bool       `json:"exists"`
	Selected   bool       `json:"selected,omitempty"`
}

// NoteView is the wire form of a note
type NoteView struct {
	ID        string     `json:"id"`
	Title     string     `json:"title"`
	Text      string     `json:"text"`
	Position  sim.Vector `json:"position"`
	StartTime float64    `json:"startTime"`
	Duration  float64    `json:"duration"`
}

// OrbitView summarizes the orbit tracker
type OrbitView struct {
	Running      bool    `json:"running"`
	SemiComplete bool    `json:"semiComplete"`
	Count        int     `json:"count"`
	Mean         float64 `json:"mean"`
	Min          float64 `json:"min"`
	Max          float64 `json:"max"`
	TargetID     int     `json:"targetId"`
	CenterID     int     `json:"centerId"`
}

// StateUpdate is the frame broadcast after every tick
type StateUpdate struct {
	Time     float64    `json:"time"`
	Step     int        `json:"step"`
	Dt       float64    `json:"dt"`
	Scenario string     `json:"scenario"`
	Bodies   []BodyView `json:"bodies"`
	Notes    []NoteView `json:"notes"`
	Orbit    OrbitView  `json:"orbit"`
	Paused   bool       `json:"paused"`
}

// finite replaces values JSON cannot carry with 0
func finite(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0
	}
	return v
}

func finiteVector(v sim.Vector) sim.Vector {
	return sim.Vector{X: finite(v.X), Y: finite(v.Y)}
}

func newBodyView(b *sim.Body, selected int) BodyView {
	return BodyView{
		ID:         b.ID,
		Name:       b.Name,
		Color:      b.Color,
		Mass:       finite(b.Mass),
		Radius:     finite(b.Radius),
		Density:    finite(b.Density),
		Luminosity: finite(b.Luminosity),
		Position:   finiteVector(b.Position),
		Velocity:   finiteVector(b.Velocity),
		Exists:     b.Exists(),
		Selected:   b.ID == selected,
	}
}

func newNoteView(n *sim.Note) NoteView {
	return NoteView{
		ID:        n.ID,
		Title:     n.Title,
		Text:      n.Text,
		Position:  finiteVector(n.Position),
		StartTime: finite(n.StartTime),
		Duration:  finite(n.Duration),
	}
}

func newOrbitView(t *sim.OrbitTracker) OrbitView {
	stats := t.Stats()
	view := OrbitView{
		Running:      t.Running(),
		SemiComplete: t.SemiComplete(),
		Count:        stats.Count,
		Mean:         stats.Mean,
		Min:          stats.Min,
		Max:          stats.Max,
		TargetID:     -1,
		CenterID:     -1,
	}
	if t.Target() != nil {
		view.TargetID = t.Target().ID
	}
	if t.Center() != nil {
		view.CenterID = t.Center().ID
	}
	return view
}

// buildStateUpdate copies the engine state into a frame. Only notes visible
// at the current time are included.
func buildStateUpdate(e *sim.Engine, paused bool, dt float64, scenarioName string) StateUpdate {
	update := StateUpdate{
		Time:     e.SimulationTime,
		Step:     e.Steps,
		Dt:       dt,
		Scenario: scenarioName,
		Bodies:   make([]BodyView, 0, len(e.Bodies())),
		Notes:    []NoteView{},
		Orbit:    newOrbitView(e.Tracker()),
		Paused:   paused,
	}
	for _, b := range e.Bodies() {
		update.Bodies = append(update.Bodies, newBodyView(b, e.SelectedBody))
	}
	for _, n := range e.VisibleNotes() {
		update.Notes = append(update.Notes, newNoteView(n))
	}
	return update
}
