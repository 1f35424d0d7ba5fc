package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/orbitable/orbitable-web/config"
	"github.com/orbitable/orbitable-web/scenario"
	"github.com/orbitable/orbitable-web/sim"
)

// isValidOrigin checks if the origin is allowed to connect
func isValidOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		// No origin header - could be a non-browser client
		return true
	}

	originURL, err := url.Parse(origin)
	if err != nil {
		log.Printf("Invalid origin URL: %s", origin)
		return false
	}

	// Allow same-origin connections
	if r.Host == originURL.Host {
		return true
	}

	// Allow localhost connections for development
	if strings.HasPrefix(originURL.Host, "localhost:") ||
		strings.HasPrefix(originURL.Host, "127.0.0.1:") ||
		originURL.Host == "localhost" ||
		originURL.Host == "127.0.0.1" {
		return true
	}

	log.Printf("Rejected WebSocket connection from origin: %s", origin)
	return false
}

var upgrader = websocket.Upgrader{
	CheckOrigin:       isValidOrigin,
	EnableCompression: true,
}

// Message types
const (
	MsgTypeReset      = "reset"
	MsgTypeRestore    = "restore"
	MsgTypeAddBody    = "addBody"
	MsgTypeDeleteBody = "deleteBody"
	MsgTypeUpdateBody = "updateBody"
	MsgTypeAddNote    = "addNote"
	MsgTypeDeleteNote = "deleteNote"
	MsgTypeUpdateNote = "updateNote"
	MsgTypeTrack      = "track"
	MsgTypePause      = "pause"
	MsgTypeSkip       = "skip"
	MsgTypeSelect     = "select"
	MsgTypeScenario   = "scenario"
	MsgTypeUpdate     = "update"
	MsgTypeAck        = "ack"
	MsgTypeError      = "error"
)

const (
	// defaultTimeStep is used when neither the config nor the scenario set dt
	defaultTimeStep = 3600.0

	pongWait       = 60 * time.Second
	pingPeriod     = 54 * time.Second
	writeWait      = 10 * time.Second
	maxMessageSize = 1 << 20
)

// ClientMessage represents a message from client to server
type ClientMessage struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// ServerMessage represents a message from server to client
type ServerMessage struct {
	Type string      `json:"type"`
	Data interface{} `json:"data"`
}

// Client represents a connected viewer
type Client struct {
	ID     int
	conn   *websocket.Conn
	send   chan ServerMessage
	server *Server
}

// Server runs one simulation and streams it to every connected client
type Server struct {
	mu         sync.RWMutex
	clients    map[int]*Client
	register   chan *Client
	unregister chan *Client
	broadcast  chan ServerMessage
	nextID     int

	// simMu guards everything below it
	simMu        sync.Mutex
	engine       *sim.Engine
	paused       bool
	timeStep     float64
	scenarioName string

	cfg          config.Config
	done         chan struct{}
	shutdownOnce sync.Once
}

// NewServer creates a server and loads the configured scenario. A scenario
// that fails to load leaves the simulation empty.
func NewServer(cfg config.Config) *Server {
	s := &Server{
		clients:    make(map[int]*Client),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		broadcast:  make(chan ServerMessage, 256),
		engine:     sim.NewEngineWithSeed(cfg.NameSeed),
		timeStep:   cfg.TimeStep,
		cfg:        cfg,
		done:       make(chan struct{}),
	}
	if s.timeStep <= 0 {
		s.timeStep = defaultTimeStep
	}
	if cfg.TickInterval <= 0 {
		s.cfg.TickInterval = config.Defaults().TickInterval
	}
	DebugOrbit = DebugOrbit || cfg.DebugOrbit

	env, err := scenario.Resolve(cfg.Scenario)
	if err != nil {
		log.Printf("Failed to load scenario %q: %v", cfg.Scenario, err)
		return s
	}
	if err := s.loadEnvironment(env); err != nil {
		log.Printf("Scenario %q loaded with errors: %v", env.Name, err)
	}

	if cfg.TrackTarget >= 0 && cfg.TrackCenter >= 0 {
		if err := s.engine.TrackOrbit(cfg.TrackTarget, cfg.TrackCenter); err != nil {
			log.Printf("Ignoring configured orbit tracking: %v", err)
		}
	}
	return s
}

// loadEnvironment resets the engine to env. Callers hold simMu or own s.
func (s *Server) loadEnvironment(env *scenario.EnvironmentConfig) error {
	s.scenarioName = env.Name
	if s.cfg.TimeStep <= 0 {
		s.timeStep = defaultTimeStep
		if env.Dt > 0 {
			s.timeStep = env.Dt
		}
	}
	err := env.Apply(s.engine)
	log.Printf("Loaded scenario %q: %d bodies, %d notes, dt %g", env.Name,
		len(s.engine.Bodies()), len(s.engine.Notes()), s.timeStep)
	return err
}

// Run starts the server main loop
func (s *Server) Run() {
	go s.gameLoop()

	for {
		select {
		case client := <-s.register:
			s.mu.Lock()
			s.clients[client.ID] = client
			s.mu.Unlock()
			log.Printf("Client %d connected", client.ID)

			// New viewers get a frame right away, even while paused
			client.sendMsg(ServerMessage{Type: MsgTypeUpdate, Data: s.snapshot()})

		case client := <-s.unregister:
			s.mu.Lock()
			if _, ok := s.clients[client.ID]; ok {
				delete(s.clients, client.ID)
				close(client.send)
			}
			s.mu.Unlock()
			log.Printf("Client %d disconnected", client.ID)

		case message := <-s.broadcast:
			s.mu.RLock()
			for _, client := range s.clients {
				select {
				case client.send <- message:
				default:
					log.Printf("Warning: Client %d send buffer full, skipping broadcast", client.ID)
				}
			}
			s.mu.RUnlock()

		case <-s.done:
			s.mu.Lock()
			for id, client := range s.clients {
				close(client.send)
				delete(s.clients, id)
			}
			s.mu.Unlock()
			return
		}
	}
}

// Shutdown stops the main loop and the simulation ticker and disconnects
// all clients. It is safe to call more than once.
func (s *Server) Shutdown() {
	s.shutdownOnce.Do(func() {
		close(s.done)
	})
}

// gameLoop advances the simulation once per tick
func (s *Server) gameLoop() {
	ticker := time.NewTicker(s.cfg.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-s.done:
			return
		case <-ticker.C:
			s.updateSimulation()
			s.sendState()
		}
	}
}

// updateSimulation runs one engine step unless the simulation is paused
func (s *Server) updateSimulation() {
	s.simMu.Lock()
	defer s.simMu.Unlock()

	if s.paused {
		return
	}

	before := s.engine.Tracker().Stats().Count
	start := time.Now()
	s.engine.Step(s.timeStep)
	logStep(s.engine.Steps, len(s.engine.Bodies()), time.Since(start))

	if stats := s.engine.Tracker().Stats(); stats.Count > before {
		logOrbitCompletion(s.engine.Tracker(), s.engine.SimulationTime)
	}
}

// sendState broadcasts the current state to all clients
func (s *Server) sendState() {
	message := ServerMessage{Type: MsgTypeUpdate, Data: s.snapshot()}

	select {
	case s.broadcast <- message:
	case <-s.done:
	default:
		log.Printf("Warning: broadcast queue full, dropping frame")
	}
}

// snapshot builds a state frame under the simulation lock
func (s *Server) snapshot() StateUpdate {
	s.simMu.Lock()
	defer s.simMu.Unlock()
	return buildStateUpdate(s.engine, s.paused, s.timeStep, s.scenarioName)
}

// HandleState returns the current simulation state as JSON
func (s *Server) HandleState(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	if err := json.NewEncoder(w).Encode(s.snapshot()); err != nil {
		log.Printf("Failed to encode state: %v", err)
	}
}

// HandleScenarios lists the built-in scenarios and the one currently loaded
func (s *Server) HandleScenarios(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Content-Type", "application/json")

	s.simMu.Lock()
	current := s.scenarioName
	s.simMu.Unlock()

	response := map[string]interface{}{
		"scenarios": scenario.Names(),
		"current":   current,
	}

	json.NewEncoder(w).Encode(response)
}

// HandleWebSocket handles WebSocket connections
func (s *Server) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("WebSocket upgrade error: %v", err)
		return
	}

	s.mu.Lock()
	clientID := s.nextID
	s.nextID++
	s.mu.Unlock()

	client := &Client{
		ID:     clientID,
		conn:   conn,
		send:   make(chan ServerMessage, 256),
		server: s,
	}

	select {
	case s.register <- client:
	case <-s.done:
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}

// readPump handles incoming messages from the client
func (c *Client) readPump() {
	defer func() {
		select {
		case c.server.unregister <- c:
		case <-c.server.done:
		}
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var msg ClientMessage
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("WebSocket error: %v", err)
			}
			break
		}

		c.handleMessage(msg)
	}
}

// writePump sends messages to the client
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				return
			}

		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// sendMsg queues a message for this client only, dropping it if the
// client is not keeping up
func (c *Client) sendMsg(msg ServerMessage) {
	defer func() {
		// send may already be closed by unregister
		if r := recover(); r != nil {
			log.Printf("Dropped message %s for closed client %d", msg.Type, c.ID)
		}
	}()

	select {
	case c.send <- msg:
	default:
		log.Printf("Warning: Client %d send buffer full, dropping %s", c.ID, msg.Type)
	}
}

func (c *Client) sendError(text string) {
	c.sendMsg(ServerMessage{Type: MsgTypeError, Data: text})
}

// handleMessage processes a message from the client
func (c *Client) handleMessage(msg ClientMessage) {
	// Recover from any panic to prevent disconnection
	defer func() {
		if r := recover(); r != nil {
			log.Printf("PANIC in handleMessage for client %d, type %s: %v", c.ID, msg.Type, r)
		}
	}()

	switch msg.Type {
	case MsgTypeReset:
		c.handleReset(msg.Data)
	case MsgTypeRestore:
		c.handleRestore(msg.Data)
	case MsgTypeAddBody:
		c.handleAddBody(msg.Data)
	case MsgTypeDeleteBody:
		c.handleDeleteBody(msg.Data)
	case MsgTypeUpdateBody:
		c.handleUpdateBody(msg.Data)
	case MsgTypeAddNote:
		c.handleAddNote(msg.Data)
	case MsgTypeDeleteNote:
		c.handleDeleteNote(msg.Data)
	case MsgTypeUpdateNote:
		c.handleUpdateNote(msg.Data)
	case MsgTypeTrack:
		c.handleTrack(msg.Data)
	case MsgTypePause:
		c.handlePause(msg.Data)
	case MsgTypeSkip:
		c.handleSkip(msg.Data)
	case MsgTypeSelect:
		c.handleSelect(msg.Data)
	case MsgTypeScenario:
		c.handleScenario(msg.Data)
	default:
		log.Printf("Unknown message type: %s", msg.Type)
		c.sendError("Unknown message type: " + sanitizeText(msg.Type))
	}
}
