package sim

import (
	"fmt"

	"github.com/google/uuid"
)

// Note is a scene annotation shown during a window of simulation time
type Note struct {
	ID        string
	Position  Vector
	StartTime float64
	Duration  float64
	Title     string
	Text      string
}

// NotePatch is a partial note update. Nil fields are absent.
type NotePatch struct {
	ID        *string
	Position  VectorPatch
	StartTime *float64
	Duration  *float64
	Title     *string
	Text      *string
}

// NotePatchFromAttributes converts an attribute bag into a NotePatch.
// Malformed fields are left absent.
func NotePatchFromAttributes(attrs Attributes) NotePatch {
	var p NotePatch
	if attrs == nil {
		return p
	}
	p.ID = attrs.str("id")
	p.Position = attrs.vector("position")
	p.StartTime = attrs.number("startTime")
	p.Duration = attrs.number("duration")
	p.Title = attrs.str("title")
	p.Text = attrs.str("text")
	return p
}

// NewNote builds a note from a patch with defaults for absent fields.
// Notes without an id get a random UUID.
func NewNote(p NotePatch) *Note {
	n := &Note{
		Duration: DefaultNoteDuration,
		Title:    DefaultNoteTitle,
		Text:     DefaultNoteText,
	}
	if p.ID != nil && *p.ID != "" {
		n.ID = *p.ID
	} else {
		n.ID = uuid.NewString()
	}
	n.Apply(NotePatch{
		Position:  p.Position,
		StartTime: p.StartTime,
		Duration:  p.Duration,
		Title:     p.Title,
		Text:      p.Text,
	})
	return n
}

// Apply merges a patch into the note. The id never changes.
func (n *Note) Apply(p NotePatch) {
	n.Position = p.Position.apply(n.Position)
	if p.StartTime != nil {
		n.StartTime = *p.StartTime
	}
	if p.Duration != nil {
		n.Duration = *p.Duration
	}
	if p.Title != nil {
		n.Title = *p.Title
	}
	if p.Text != nil {
		n.Text = *p.Text
	}
}

// Check reports whether the note is visible at the given time
func (n *Note) Check(t float64) bool {
	return t >= n.StartTime && t <= n.StartTime+n.Duration
}

// Copy returns a copy of the note
func (n *Note) Copy() *Note {
	c := *n
	return &c
}

func (n *Note) String() string {
	return fmt.Sprintf(" S: %g D: %g P: %s TITLE: %s TEXT: %s",
		n.StartTime, n.Duration, n.Position, n.Title, n.Text)
}
