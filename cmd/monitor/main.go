package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"net/url"
	"os"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/gorilla/websocket"

	"github.com/orbitable/orbitable-web/server"
)

// conn serializes writes; gorilla allows one concurrent writer
type conn struct {
	ws *websocket.Conn
	mu sync.Mutex
}

func (c *conn) send(msgType string, data interface{}) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return err
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteJSON(server.ClientMessage{Type: msgType, Data: raw})
}

// readLoop forwards server frames to the program until the connection drops
func (c *conn) readLoop(p *tea.Program) {
	for {
		_, raw, err := c.ws.ReadMessage()
		if err != nil {
			p.Send(disconnectedMsg{err: err})
			return
		}
		msg, err := decodeMessage(raw)
		if err != nil {
			log.Printf("Bad message from server: %v", err)
			continue
		}
		if msg != nil {
			p.Send(msg)
		}
	}
}

func main() {
	addr := flag.String("addr", "localhost:8080", "Orbitable server address")
	path := flag.String("path", "/ws", "WebSocket endpoint path")
	flag.Parse()

	u := url.URL{Scheme: "ws", Host: *addr, Path: *path}
	ws, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to %s: %v\n", u.String(), err)
		os.Exit(1)
	}
	defer ws.Close()

	c := &conn{ws: ws}
	p := tea.NewProgram(newModel(c.send), tea.WithAltScreen())
	go c.readLoop(p)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
