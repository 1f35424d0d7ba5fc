package server

import (
	"encoding/json"
	"testing"

	"github.com/orbitable/orbitable-web/config"
)

// newTestClient returns a client attached to a server running the solar
// scenario, without any network connection
func newTestClient(t *testing.T) (*Server, *Client) {
	t.Helper()
	server := NewServer(config.Defaults())
	client := &Client{
		ID:     1,
		server: server,
		send:   make(chan ServerMessage, 64),
	}
	return server, client
}

// drain empties the client's queue and returns what was in it
func drain(c *Client) []ServerMessage {
	var msgs []ServerMessage
	for {
		select {
		case msg := <-c.send:
			msgs = append(msgs, msg)
		default:
			return msgs
		}
	}
}

// TestHandleMessageRouting verifies that handleMessage dispatches all known
// message types without panicking.
func TestHandleMessageRouting(t *testing.T) {
	server, client := newTestClient(t)

	knownTypes := map[string]string{
		MsgTypeReset:      `{"bodies":[{"mass":1e20},{"mass":1e20,"position":{"x":1e9}}]}`,
		MsgTypeRestore:    `{}`,
		MsgTypeAddBody:    `{"attributes":{"mass":1e20,"position":{"x":5e9}}}`,
		MsgTypeDeleteBody: `{"id":0}`,
		MsgTypeUpdateBody: `{"id":1,"attributes":{"mass":2e20}}`,
		MsgTypeAddNote:    `{"attributes":{"title":"hello"}}`,
		MsgTypeDeleteNote: `{"id":"missing"}`,
		MsgTypeUpdateNote: `{"id":"missing","attributes":{"title":"x"}}`,
		MsgTypeTrack:      `{"target":1,"center":2}`,
		MsgTypePause:      `{}`,
		MsgTypeSkip:       `{}`,
		MsgTypeSelect:     `{"id":-1}`,
		MsgTypeScenario:   `{"name":"binary"}`,
	}

	for msgType, payload := range knownTypes {
		t.Run("dispatch_"+msgType, func(t *testing.T) {
			client.handleMessage(ClientMessage{
				Type: msgType,
				Data: json.RawMessage(payload),
			})
			drain(client)
		})
	}

	if server.GetEngine() == nil {
		t.Errorf("engine lost after routing")
	}
}

// TestHandleMessageUnknownType verifies unknown message types are reported
// to the sender without panic.
func TestHandleMessageUnknownType(t *testing.T) {
	_, client := newTestClient(t)

	client.handleMessage(ClientMessage{
		Type: "<nonexistent>",
		Data: json.RawMessage(`{}`),
	})

	msgs := drain(client)
	if len(msgs) != 1 || msgs[0].Type != MsgTypeError {
		t.Fatalf("expected one error message, got %v", msgs)
	}
	if text := msgs[0].Data.(string); text != "Unknown message type: &lt;nonexistent&gt;" {
		t.Errorf("error text = %q", text)
	}
}

// TestHandleMessageMalformedData verifies that every handler that decodes
// data rejects malformed JSON with an error message.
func TestHandleMessageMalformedData(t *testing.T) {
	_, client := newTestClient(t)

	types := []string{
		MsgTypeReset, MsgTypeAddBody, MsgTypeDeleteBody, MsgTypeUpdateBody,
		MsgTypeAddNote, MsgTypeDeleteNote, MsgTypeUpdateNote, MsgTypeTrack,
		MsgTypePause, MsgTypeSelect, MsgTypeScenario,
	}

	for _, msgType := range types {
		t.Run(msgType, func(t *testing.T) {
			client.handleMessage(ClientMessage{Type: msgType, Data: json.RawMessage(`[1,`)})
			msgs := drain(client)
			if len(msgs) == 0 || msgs[0].Type != MsgTypeError {
				t.Errorf("%s with malformed data sent %v, expected an error", msgType, msgs)
			}
		})
	}
}

// TestHandleMessageAllTypesHaveConstants verifies the client message type
// constants are distinct and non-empty.
func TestHandleMessageAllTypesHaveConstants(t *testing.T) {
	expectedTypes := []string{
		MsgTypeReset,
		MsgTypeRestore,
		MsgTypeAddBody,
		MsgTypeDeleteBody,
		MsgTypeUpdateBody,
		MsgTypeAddNote,
		MsgTypeDeleteNote,
		MsgTypeUpdateNote,
		MsgTypeTrack,
		MsgTypePause,
		MsgTypeSkip,
		MsgTypeSelect,
		MsgTypeScenario,
	}

	seen := make(map[string]bool)
	for _, msgType := range expectedTypes {
		if msgType == "" {
			t.Errorf("Found empty message type constant in expected types list")
		}
		if seen[msgType] {
			t.Errorf("Duplicate message type constant: %s", msgType)
		}
		seen[msgType] = true
	}

	for _, serverType := range []string{MsgTypeUpdate, MsgTypeAck, MsgTypeError} {
		if seen[serverType] {
			t.Errorf("Server message type %s collides with a client type", serverType)
		}
	}
}
