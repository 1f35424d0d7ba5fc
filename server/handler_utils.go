package server

import (
	"html"
	"strings"

	"github.com/orbitable/orbitable-web/sim"
)

// Handler data structures

// AddBodyData represents a request to add a body.
// With AutoOrbit the velocity is replaced by a circular orbit around Center.
type AddBodyData struct {
	Attributes sim.Attributes `json:"attributes"`
	AutoOrbit  bool           `json:"autoOrbit,omitempty"`
	Center     int            `json:"center,omitempty"`
}

// BodyData addresses a body, with optional attributes for updates
type BodyData struct {
	ID         int            `json:"id"`
	Attributes sim.Attributes `json:"attributes,omitempty"`
}

// NoteData addresses a note, with optional attributes for add and update
type NoteData struct {
	ID         string         `json:"id"`
	Attributes sim.Attributes `json:"attributes,omitempty"`
}

// TrackData selects the orbit to measure
type TrackData struct {
	Target int `json:"target"`
	Center int `json:"center"`
}

// PauseData sets the pause state; an absent value toggles it
type PauseData struct {
	Paused *bool `json:"paused,omitempty"`
}

// SelectData selects a body in the UI, -1 clears the selection
type SelectData struct {
	ID int `json:"id"`
}

// ScenarioData names a built-in scenario
type ScenarioData struct {
	Name string `json:"name"`
}

// AckData confirms a request that created something
type AckData struct {
	Request string `json:"request"`
	ID      any    `json:"id"`
}

// Utility functions

// sanitizeText escapes HTML special characters to prevent XSS
func sanitizeText(text string) string {
	// Limit length using runes to avoid splitting multi-byte characters
	const maxTextLength = 500
	runes := []rune(text)
	if len(runes) > maxTextLength {
		text = string(runes[:maxTextLength])
	}
	return html.EscapeString(text)
}

// sanitizeName removes everything except letters, digits, spaces and dashes
func sanitizeName(name string) string {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == ' ' {
			return r
		}
		return -1
	}, name)

	const maxNameLength = 32
	if len(cleaned) > maxNameLength {
		cleaned = cleaned[:maxNameLength]
	}

	return strings.TrimSpace(cleaned)
}

// sanitizeBodyAttributes cleans the user supplied name in place
func sanitizeBodyAttributes(attrs sim.Attributes) {
	if name, ok := attrs["name"].(string); ok {
		if cleaned := sanitizeName(name); cleaned != "" {
			attrs["name"] = cleaned
		} else {
			delete(attrs, "name")
		}
	}
}

// sanitizeNoteAttributes escapes the user supplied title and text in place
func sanitizeNoteAttributes(attrs sim.Attributes) {
	for _, key := range []string{"title", "text", "id"} {
		if v, ok := attrs[key].(string); ok {
			attrs[key] = sanitizeText(v)
		}
	}
}
