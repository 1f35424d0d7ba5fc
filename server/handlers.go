package server

import (
	"encoding/json"
	"fmt"
	"log"

	"github.com/orbitable/orbitable-web/scenario"
	"github.com/orbitable/orbitable-web/sim"
)

// handleReset replaces the whole simulation with the bodies and notes sent
// by the client
func (c *Client) handleReset(data json.RawMessage) {
	env, err := scenario.Parse(data)
	if err != nil {
		c.sendError("Invalid reset data")
		return
	}
	if env.Name == "" {
		env.Name = "custom"
	}
	for _, attrs := range env.Bodies {
		sanitizeBodyAttributes(attrs)
	}
	for _, attrs := range env.Notes {
		sanitizeNoteAttributes(attrs)
	}

	s := c.server
	s.simMu.Lock()
	err = s.loadEnvironment(env)
	s.simMu.Unlock()

	if err != nil {
		c.sendError(err.Error())
	}
	log.Printf("Client %d reset the simulation", c.ID)
	s.sendState()
}

// handleRestore rewinds to the state after the last edit
func (c *Client) handleRestore(data json.RawMessage) {
	s := c.server
	s.simMu.Lock()
	s.engine.ResetLocal()
	s.simMu.Unlock()

	log.Printf("Client %d restored the last snapshot", c.ID)
	s.sendState()
}

// handleAddBody adds a body and acknowledges its id to the sender
func (c *Client) handleAddBody(data json.RawMessage) {
	var req AddBodyData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid body data")
		return
	}
	if req.Attributes == nil {
		req.Attributes = sim.Attributes{}
	}
	sanitizeBodyAttributes(req.Attributes)

	s := c.server
	s.simMu.Lock()
	b := s.engine.NewBody(req.Attributes)
	if req.AutoOrbit {
		if vx, vy, ok := s.OrbitalVelocity(req.Center, b.Position); ok {
			b.Velocity = sim.Vector{X: vx, Y: vy}
		} else {
			s.simMu.Unlock()
			c.sendError(fmt.Sprintf("Cannot orbit body %d", req.Center))
			return
		}
	}
	b = s.engine.AddBody(b)
	id := b.ID
	s.simMu.Unlock()

	c.sendMsg(ServerMessage{Type: MsgTypeAck, Data: AckData{Request: MsgTypeAddBody, ID: id}})
	s.sendState()
}

// handleDeleteBody removes a body
func (c *Client) handleDeleteBody(data json.RawMessage) {
	var req BodyData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid body data")
		return
	}

	s := c.server
	s.simMu.Lock()
	ok := s.engine.DeleteBody(req.ID)
	s.simMu.Unlock()

	if !ok {
		c.sendError(fmt.Sprintf("No body with id %d", req.ID))
		return
	}
	s.sendState()
}

// handleUpdateBody merges attributes into a body
func (c *Client) handleUpdateBody(data json.RawMessage) {
	var req BodyData
	if err := json.Unmarshal(data, &req); err != nil || req.Attributes == nil {
		c.sendError("Invalid body data")
		return
	}
	sanitizeBodyAttributes(req.Attributes)

	s := c.server
	s.simMu.Lock()
	ok := s.engine.UpdateBody(req.ID, req.Attributes)
	s.simMu.Unlock()

	if !ok {
		c.sendError(fmt.Sprintf("No body with id %d", req.ID))
		return
	}
	s.sendState()
}

// handleAddNote adds a note and acknowledges its id to the sender
func (c *Client) handleAddNote(data json.RawMessage) {
	var req NoteData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid note data")
		return
	}
	if req.Attributes == nil {
		req.Attributes = sim.Attributes{}
	}
	if req.ID != "" {
		req.Attributes["id"] = req.ID
	}
	sanitizeNoteAttributes(req.Attributes)

	s := c.server
	s.simMu.Lock()
	if id, ok := req.Attributes["id"].(string); ok && s.engine.Note(id) != nil {
		s.simMu.Unlock()
		c.sendError("Note id already in use")
		return
	}
	n := s.engine.AddNote(req.Attributes)
	id := n.ID
	s.simMu.Unlock()

	c.sendMsg(ServerMessage{Type: MsgTypeAck, Data: AckData{Request: MsgTypeAddNote, ID: id}})
	s.sendState()
}

// handleDeleteNote removes a note
func (c *Client) handleDeleteNote(data json.RawMessage) {
	var req NoteData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid note data")
		return
	}

	s := c.server
	s.simMu.Lock()
	ok := s.engine.DeleteNote(req.ID)
	s.simMu.Unlock()

	if !ok {
		c.sendError("No note with id " + sanitizeText(req.ID))
		return
	}
	s.sendState()
}

// handleUpdateNote merges attributes into a note
func (c *Client) handleUpdateNote(data json.RawMessage) {
	var req NoteData
	if err := json.Unmarshal(data, &req); err != nil || req.Attributes == nil {
		c.sendError("Invalid note data")
		return
	}
	sanitizeNoteAttributes(req.Attributes)

	s := c.server
	s.simMu.Lock()
	ok := s.engine.UpdateNote(req.ID, req.Attributes)
	s.simMu.Unlock()

	if !ok {
		c.sendError("No note with id " + sanitizeText(req.ID))
		return
	}
	s.sendState()
}

// handleTrack points the orbit tracker at a new pair of bodies
func (c *Client) handleTrack(data json.RawMessage) {
	var req TrackData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid track data")
		return
	}

	s := c.server
	s.simMu.Lock()
	err := s.engine.TrackOrbit(req.Target, req.Center)
	s.simMu.Unlock()

	if err != nil {
		c.sendError(err.Error())
		return
	}
	if DebugOrbit {
		log.Printf("[ORBIT DEBUG] Client %d tracking body %d around body %d", c.ID, req.Target, req.Center)
	}
	s.sendState()
}

// handlePause sets or toggles the pause state
func (c *Client) handlePause(data json.RawMessage) {
	var req PauseData
	if len(data) > 0 && string(data) != "null" {
		if err := json.Unmarshal(data, &req); err != nil {
			c.sendError("Invalid pause data")
			return
		}
	}

	s := c.server
	s.simMu.Lock()
	if req.Paused != nil {
		s.paused = *req.Paused
	} else {
		s.paused = !s.paused
	}
	paused := s.paused
	s.simMu.Unlock()

	log.Printf("Client %d set paused=%t", c.ID, paused)
	s.sendState()
}

// handleSkip drops the next simulation step
func (c *Client) handleSkip(data json.RawMessage) {
	s := c.server
	s.simMu.Lock()
	s.engine.PauseFrame = true
	s.simMu.Unlock()
}

// handleSelect records the body selected in the UI
func (c *Client) handleSelect(data json.RawMessage) {
	var req SelectData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid select data")
		return
	}

	s := c.server
	s.simMu.Lock()
	valid := req.ID == -1 || s.engine.Body(req.ID) != nil
	if valid {
		s.engine.SelectedBody = req.ID
	}
	s.simMu.Unlock()

	if !valid {
		c.sendError(fmt.Sprintf("No body with id %d", req.ID))
		return
	}
	s.sendState()
}

// handleScenario loads a built-in scenario by name. Files on the server are
// never read on behalf of a client.
func (c *Client) handleScenario(data json.RawMessage) {
	var req ScenarioData
	if err := json.Unmarshal(data, &req); err != nil {
		c.sendError("Invalid scenario data")
		return
	}

	env, err := scenario.Builtin(req.Name)
	if err != nil {
		c.sendError(sanitizeText(err.Error()))
		return
	}

	s := c.server
	s.simMu.Lock()
	err = s.loadEnvironment(env)
	s.simMu.Unlock()

	if err != nil {
		c.sendError(err.Error())
	}
	s.sendState()
}
