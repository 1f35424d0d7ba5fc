package main

import (
	"encoding/json"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/orbitable/orbitable-web/server"
)

var (
	cyan    = lipgloss.NewStyle().Foreground(lipgloss.Color("86"))
	white   = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	dim     = lipgloss.NewStyle().Foreground(lipgloss.Color("242"))
	dimmer  = lipgloss.NewStyle().Foreground(lipgloss.Color("238"))
	green   = lipgloss.NewStyle().Foreground(lipgloss.Color("82"))
	yellow  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	magenta = lipgloss.NewStyle().Foreground(lipgloss.Color("213"))
	red     = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
)

const secondsPerDay = 86400

type frameMsg server.StateUpdate

type serverErrorMsg string

type disconnectedMsg struct{ err error }

// sender writes one request to the server
type sender func(msgType string, data interface{}) error

type model struct {
	frame     server.StateUpdate
	connected bool
	cursor    int
	status    string
	lastError string
	send      sender

	width  int
	height int
}

func newModel(send sender) model {
	return model{send: send, width: 80, height: 24}
}

func (m model) Init() tea.Cmd { return nil }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case frameMsg:
		m.frame = server.StateUpdate(msg)
		m.connected = true
		if m.cursor >= len(m.frame.Bodies) {
			m.cursor = max(0, len(m.frame.Bodies)-1)
		}
	case serverErrorMsg:
		m.lastError = string(msg)
	case disconnectedMsg:
		m.connected = false
		if msg.err != nil {
			m.status = "disconnected: " + msg.err.Error()
		} else {
			m.status = "disconnected"
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m model) handleKey(msg tea.KeyMsg) (model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.frame.Bodies)-1 {
			m.cursor++
		}
	case "p", " ":
		m.request(server.MsgTypePause, struct{}{}, "pause toggled")
	case "r":
		m.request(server.MsgTypeRestore, nil, "restored")
	case "n":
		m.request(server.MsgTypeSkip, nil, "stepping one frame")
	case "enter":
		if b, ok := m.current(); ok {
			m.request(server.MsgTypeSelect, server.SelectData{ID: b.ID}, "selected "+b.Name)
		}
	case "t":
		b, ok := m.current()
		if !ok || len(m.frame.Bodies) == 0 {
			break
		}
		center := m.frame.Bodies[0]
		m.request(server.MsgTypeTrack, server.TrackData{Target: b.ID, Center: center.ID},
			fmt.Sprintf("tracking %s around %s", b.Name, center.Name))
	case "1", "2", "3", "4", "5", "6", "7", "8", "9":
		// number keys jump straight to a body
		i := int(msg.String()[0] - '1')
		if i < len(m.frame.Bodies) {
			m.cursor = i
		}
	}
	return m, nil
}

func (m *model) request(msgType string, data interface{}, status string) {
	if m.send == nil {
		return
	}
	if err := m.send(msgType, data); err != nil {
		m.status = "send failed: " + err.Error()
		return
	}
	m.status = status
	m.lastError = ""
}

func (m model) current() (server.BodyView, bool) {
	if m.cursor < 0 || m.cursor >= len(m.frame.Bodies) {
		return server.BodyView{}, false
	}
	return m.frame.Bodies[m.cursor], true
}

func (m model) View() string {
	var b strings.Builder

	b.WriteString("\n")
	b.WriteString("  " + cyan.Render("o r b i t a b l e") + "  ")
	if m.connected {
		b.WriteString(dim.Render(m.frame.Scenario))
	} else {
		b.WriteString(yellow.Render("waiting for server"))
	}
	b.WriteString("\n")
	b.WriteString(dimmer.Render("  "+strings.Repeat("─", 72)) + "\n")

	state := green.Render("running")
	if m.frame.Paused {
		state = yellow.Render("paused")
	}
	b.WriteString(fmt.Sprintf("  %s  %s %s  %s %s  %s %s\n",
		state,
		dim.Render("time"), white.Render(fmt.Sprintf("%.2f d", m.frame.Time/secondsPerDay)),
		dim.Render("step"), white.Render(fmt.Sprintf("%d", m.frame.Step)),
		dim.Render("dt"), white.Render(fmt.Sprintf("%.0f s", m.frame.Dt))))
	b.WriteString("\n")

	b.WriteString(dim.Render(fmt.Sprintf("    %-4s %-18s %12s %12s %12s", "id", "name", "mass kg", "r m", "|v| m/s")) + "\n")
	for i, body := range m.frame.Bodies {
		b.WriteString(m.bodyRow(i, body) + "\n")
	}
	b.WriteString("\n")

	b.WriteString("  " + m.orbitLine() + "\n")
	for _, n := range m.frame.Notes {
		b.WriteString("  " + magenta.Render(n.Title) + dim.Render(": "+n.Text) + "\n")
	}

	if m.lastError != "" {
		b.WriteString("  " + red.Render(m.lastError) + "\n")
	}
	if m.status != "" {
		b.WriteString("  " + dim.Render(m.status) + "\n")
	}
	b.WriteString("\n")
	b.WriteString(dim.Render("  ↑↓ select  enter highlight  t track  p pause  n step  r restore  q quit") + "\n")

	return b.String()
}

func (m model) bodyRow(i int, body server.BodyView) string {
	marker := "  "
	if i == m.cursor {
		marker = cyan.Render("▸ ")
	}
	style := dim
	switch {
	case !body.Exists:
		style = dimmer
	case body.ID == m.frame.Orbit.TargetID:
		style = magenta
	case body.Selected || i == m.cursor:
		style = white
	}
	name := body.Name
	if !body.Exists {
		name += " (gone)"
	}
	line := fmt.Sprintf("%-4d %-18s %12.3e %12.3e %12.3e",
		body.ID, truncate(name, 18), body.Mass, distance(body, m.frame.Bodies), body.Velocity.Norm())
	return "  " + marker + style.Render(line)
}

// distance is measured from the first body, which scenarios place at the center
func distance(body server.BodyView, bodies []server.BodyView) float64 {
	if len(bodies) == 0 {
		return 0
	}
	return body.Position.DistanceTo(bodies[0].Position)
}

func (m model) orbitLine() string {
	o := m.frame.Orbit
	if o.TargetID < 0 || o.CenterID < 0 {
		return dim.Render("orbit: not tracking")
	}
	target, center := m.bodyName(o.TargetID), m.bodyName(o.CenterID)
	head := fmt.Sprintf("orbit: %s around %s", target, center)
	if !o.Running {
		return dim.Render(head + " (suspended)")
	}
	if o.Count == 0 {
		progress := "first lap"
		if o.SemiComplete {
			progress = "past halfway"
		}
		return dim.Render(head+"  ") + white.Render(progress)
	}
	return dim.Render(head+"  ") + white.Render(fmt.Sprintf("%d orbits  mean %.2f d  min %.2f d  max %.2f d",
		o.Count, o.Mean/secondsPerDay, o.Min/secondsPerDay, o.Max/secondsPerDay))
}

func (m model) bodyName(id int) string {
	for _, b := range m.frame.Bodies {
		if b.ID == id {
			return b.Name
		}
	}
	return fmt.Sprintf("#%d", id)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}

// decodeMessage turns a raw server message into a tea message; unknown
// types yield nil
func decodeMessage(raw []byte) (tea.Msg, error) {
	var msg struct {
		Type string          `json:"type"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &msg); err != nil {
		return nil, err
	}
	switch msg.Type {
	case server.MsgTypeUpdate:
		var frame server.StateUpdate
		if err := json.Unmarshal(msg.Data, &frame); err != nil {
			return nil, err
		}
		return frameMsg(frame), nil
	case server.MsgTypeError:
		var text string
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			return nil, err
		}
		return serverErrorMsg(text), nil
	}
	return nil, nil
}
