package main

import (
	"flag"
	"fmt"
	"image/color"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
	"github.com/hajimehoshi/ebiten/v2/text"
	"github.com/hajimehoshi/ebiten/v2/vector"
	colorful "github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/font/basicfont"

	"github.com/orbitable/orbitable-web/internal/view"
	"github.com/orbitable/orbitable-web/scenario"
	"github.com/orbitable/orbitable-web/sim"
)

const (
	screenWidth  = 1280
	screenHeight = 800
)

// Game runs a local engine and draws it
type Game struct {
	engine *sim.Engine
	env    *scenario.EnvironmentConfig
	cam    view.Camera
	trails map[int]*view.Trail

	dt            float64
	stepsPerFrame int
	paused        bool
	status        string
}

func newGame(env *scenario.EnvironmentConfig, dt float64, stepsPerFrame int, seed uint64) (*Game, error) {
	g := &Game{
		engine:        sim.NewEngineWithSeed(seed),
		env:           env,
		trails:        make(map[int]*view.Trail),
		dt:            dt,
		stepsPerFrame: stepsPerFrame,
	}
	if g.dt <= 0 {
		g.dt = env.Dt
	}
	if g.dt <= 0 {
		g.dt = 3600
	}
	if err := env.Apply(g.engine); err != nil {
		g.status = err.Error()
	}
	g.cam = view.FitCamera(g.engine.Bodies(), screenWidth, screenHeight)
	return g, nil
}

// Update ---
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyP) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) && g.paused {
		g.advance()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		g.engine.ResetLocal()
		g.trails = make(map[int]*view.Trail)
		g.status = "restored"
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyT) {
		g.cycleTarget()
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) || inpututil.IsKeyJustPressed(ebiten.KeyKPAdd) {
		g.cam.Zoom(1 / 1.5)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) || inpututil.IsKeyJustPressed(ebiten.KeyKPSubtract) {
		g.cam.Zoom(1.5)
	}
	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		mx, my := ebiten.CursorPosition()
		g.engine.SelectedBody = g.cam.Pick(g.engine.Bodies(), float64(mx), float64(my), 10)
	}

	if !g.paused {
		for i := 0; i < g.stepsPerFrame; i++ {
			g.advance()
		}
	}
	return nil
}

func (g *Game) advance() {
	g.engine.Step(g.dt)
	for _, b := range g.engine.Bodies() {
		if !b.Exists() {
			delete(g.trails, b.ID)
			continue
		}
		tr, ok := g.trails[b.ID]
		if !ok {
			tr = view.NewTrail(300)
			g.trails[b.ID] = tr
		}
		tr.Push(b.Position)
	}
}

// cycleTarget tracks the next existing body around the first one
func (g *Game) cycleTarget() {
	bodies := g.engine.Bodies()
	if len(bodies) < 2 {
		return
	}
	center := bodies[0]
	current, _ := g.engine.TrackedIDs()

	start := 0
	for i, b := range bodies {
		if b.ID == current {
			start = i
		}
	}
	for k := 1; k <= len(bodies); k++ {
		b := bodies[(start+k)%len(bodies)]
		if b == center || !b.Exists() {
			continue
		}
		if err := g.engine.TrackOrbit(b.ID, center.ID); err != nil {
			g.status = err.Error()
			return
		}
		g.status = fmt.Sprintf("tracking %s around %s", b.Name, center.Name)
		return
	}
}

// Draw ---
func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(color.RGBA{5, 6, 10, 255})

	for id, tr := range g.trails {
		b := g.engine.Body(id)
		if b == nil {
			continue
		}
		c := bodyColor(b)
		c.A = 90
		pts := tr.Points()
		for i := 1; i < len(pts); i++ {
			x0, y0 := g.cam.ToScreen(pts[i-1])
			x1, y1 := g.cam.ToScreen(pts[i])
			vector.StrokeLine(screen, float32(x0), float32(y0), float32(x1), float32(y1), 1, c, true)
		}
	}

	for _, b := range g.engine.Bodies() {
		if !b.Exists() {
			continue
		}
		x, y := g.cam.ToScreen(b.Position)
		r := g.cam.Radius(b.Radius, 2)
		vector.DrawFilledCircle(screen, float32(x), float32(y), float32(r), bodyColor(b), true)
		if b.ID == g.engine.SelectedBody {
			vector.StrokeCircle(screen, float32(x), float32(y), float32(r+4), 1, color.White, true)
		}
		text.Draw(screen, b.Name, basicfont.Face7x13, int(x+r)+3, int(y-r)-3, color.RGBA{140, 140, 160, 255})
	}

	for i, n := range g.engine.VisibleNotes() {
		text.Draw(screen, n.Title+": "+n.Text, basicfont.Face7x13, 12, screenHeight-20-16*i, color.RGBA{120, 170, 255, 255})
	}

	stats := g.engine.Tracker().Stats()
	ebitenutil.DebugPrint(screen, fmt.Sprintf(
		"Env: %s\nPaused: %v\nTime: %.1f d  Step: %d\nOrbits: %d  mean %.2f d  min %.2f d  max %.2f d\n%s\n[P]ause [N]ext [R]estore [T]rack [+/-] zoom",
		g.env.Name, g.paused, g.engine.SimulationTime/86400, g.engine.Steps,
		stats.Count, stats.Mean/86400, stats.Min/86400, stats.Max/86400, g.status))
}

func (g *Game) Layout(_, _ int) (int, int) {
	return screenWidth, screenHeight
}

// bodyColor converts the engine's hex color for drawing
func bodyColor(b *sim.Body) color.RGBA {
	c, err := colorful.Hex(b.Color)
	if err != nil {
		return color.RGBA{200, 200, 255, 255}
	}
	r, g, bl := c.RGB255()
	return color.RGBA{r, g, bl, 255}
}

func main() {
	name := flag.String("scenario", "solar", "Built-in scenario name or JSON scenario file")
	dt := flag.Float64("dt", 0, "Simulated seconds per step (0 uses the scenario's dt)")
	steps := flag.Int("steps", 4, "Simulation steps per frame")
	seed := flag.Uint64("seed", 1, "Seed for generated body names")
	random := flag.Int("random", 0, "Generate a random cluster with this many planets instead")
	flag.Parse()

	var env *scenario.EnvironmentConfig
	var err error
	if *random > 0 {
		env = scenario.Random(*seed, *random)
	} else if env, err = scenario.Resolve(*name); err != nil {
		log.Fatal(err)
	}

	game, err := newGame(env, *dt, *steps, *seed)
	if err != nil {
		log.Fatal(err)
	}

	ebiten.SetWindowSize(screenWidth, screenHeight)
	ebiten.SetWindowTitle("Orbitable - " + env.Name)
	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
