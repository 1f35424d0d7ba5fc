package server

import (
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/orbitable/orbitable-web/config"
)

func TestIsValidOrigin(t *testing.T) {
	tests := []struct {
		name     string
		host     string
		origin   string
		expected bool
	}{
		{"no origin", "example.com", "", true},
		{"same origin", "example.com", "http://example.com", true},
		{"localhost with port", "example.com", "http://localhost:3000", true},
		{"loopback", "example.com", "http://127.0.0.1", true},
		{"foreign origin", "example.com", "https://evil.test", false},
		{"malformed origin", "example.com", "http://%zz", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := httptest.NewRequest(http.MethodGet, "/ws", nil)
			r.Host = tt.host
			if tt.origin != "" {
				r.Header.Set("Origin", tt.origin)
			}
			if got := isValidOrigin(r); got != tt.expected {
				t.Errorf("isValidOrigin(%q) = %v, expected %v", tt.origin, got, tt.expected)
			}
		})
	}
}

func TestHandleState(t *testing.T) {
	server := NewServer(config.Defaults())

	rec := httptest.NewRecorder()
	server.HandleState(rec, httptest.NewRequest(http.MethodGet, "/api/state", nil))

	if ct := rec.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Content-Type = %q", ct)
	}
	var state StateUpdate
	if err := json.NewDecoder(rec.Body).Decode(&state); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if state.Scenario != "solar" || len(state.Bodies) != 5 || state.Orbit.TargetID != 3 {
		t.Errorf("state scenario=%q bodies=%d target=%d", state.Scenario, len(state.Bodies), state.Orbit.TargetID)
	}
	if state.Bodies[0].Name != "Sun" || state.Bodies[0].Color == "" {
		t.Errorf("first body = %+v", state.Bodies[0])
	}
}

func TestHandleScenarios(t *testing.T) {
	server := NewServer(config.Defaults())

	rec := httptest.NewRecorder()
	server.HandleScenarios(rec, httptest.NewRequest(http.MethodGet, "/api/scenarios", nil))

	var body struct {
		Scenarios []string `json:"scenarios"`
		Current   string   `json:"current"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if strings.Join(body.Scenarios, ",") != "binary,solar" || body.Current != "solar" {
		t.Errorf("response = %+v", body)
	}
}

// readUntil reads frames until match returns true or the deadline passes
func readUntil(t *testing.T, conn *websocket.Conn, match func(msg map[string]json.RawMessage) bool) map[string]json.RawMessage {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		var msg map[string]json.RawMessage
		if err := conn.ReadJSON(&msg); err != nil {
			t.Fatalf("read: %v", err)
		}
		if match(msg) {
			return msg
		}
	}
}

func messageType(msg map[string]json.RawMessage) string {
	var s string
	json.Unmarshal(msg["type"], &s)
	return s
}

func TestWebSocketSession(t *testing.T) {
	cfg := config.Defaults()
	cfg.TickInterval = 10 * time.Millisecond
	server := NewServer(cfg)
	go server.Run()
	defer server.Shutdown()

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	url := "ws" + strings.TrimPrefix(ts.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	// Frames arrive on connect and then once per tick
	first := readUntil(t, conn, func(msg map[string]json.RawMessage) bool {
		return messageType(msg) == MsgTypeUpdate
	})
	var state StateUpdate
	if err := json.Unmarshal(first["data"], &state); err != nil {
		t.Fatalf("decode update: %v", err)
	}
	if len(state.Bodies) != 5 {
		t.Errorf("first frame has %d bodies", len(state.Bodies))
	}

	readUntil(t, conn, func(msg map[string]json.RawMessage) bool {
		var s StateUpdate
		json.Unmarshal(msg["data"], &s)
		return messageType(msg) == MsgTypeUpdate && s.Step > 0
	})

	if err := conn.WriteJSON(ClientMessage{Type: MsgTypeAddBody, Data: json.RawMessage(`{"attributes":{"position":{"x":9e11}}}`)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	ack := readUntil(t, conn, func(msg map[string]json.RawMessage) bool {
		return messageType(msg) == MsgTypeAck
	})
	var data AckData
	json.Unmarshal(ack["data"], &data)
	if data.Request != MsgTypeAddBody || data.ID != float64(5) {
		t.Errorf("ack = %+v", data)
	}

	if err := conn.WriteJSON(ClientMessage{Type: MsgTypePause, Data: json.RawMessage(`{"paused":true}`)}); err != nil {
		t.Fatalf("write: %v", err)
	}
	readUntil(t, conn, func(msg map[string]json.RawMessage) bool {
		var s StateUpdate
		json.Unmarshal(msg["data"], &s)
		return messageType(msg) == MsgTypeUpdate && s.Paused && len(s.Bodies) == 6
	})
}

func TestShutdownClosesClients(t *testing.T) {
	server := NewServer(config.Defaults())
	go server.Run()

	ts := httptest.NewServer(http.HandlerFunc(server.HandleWebSocket))
	defer ts.Close()

	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(ts.URL, "http"), nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	readUntil(t, conn, func(msg map[string]json.RawMessage) bool { return true })

	server.Shutdown()
	server.Shutdown()

	conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	for {
		_, _, err := conn.ReadMessage()
		if err == nil {
			continue
		}
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			t.Errorf("connection still open after Shutdown")
		}
		return
	}
}
