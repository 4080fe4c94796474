//go:build ebiten

package app

import (
	"context"
	"fmt"

	"ringlife/internal/core"
	"ringlife/internal/engine"
	"ringlife/internal/render"
	"ringlife/internal/ui"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// Factory builds a fresh simulation for the initial state and every reset.
type Factory func(ctx context.Context) (core.Sim, error)

// maxBurst caps the generations advanced in a single frame.
const maxBurst = 4

// Game adapts a core simulation to the ebiten.Game interface.
type Game struct {
	ctx   context.Context
	build Factory
	run   engine.Config
	cfg   Config

	sim     core.Sim
	snap    *core.Grid
	painter *render.GridPainter
	overlay *ui.Overlay
	hud     *ui.HUD
	pacer   *core.Pacer
	params  core.ParameterSnapshot

	gps      int
	paused   bool
	tickOnce bool
	stable   bool
}

// New constructs a Game around the simulation produced by build.
func New(ctx context.Context, build Factory, run engine.Config, cfg *Config) (*Game, error) {
	g := &Game{
		ctx:     ctx,
		build:   build,
		run:     run,
		cfg:     *cfg,
		painter: render.NewGridPainter(run.Size, render.DefaultPalette),
		overlay: ui.NewOverlay(),
		hud:     ui.NewHUD(cfg.Panel),
		pacer:   core.NewPacer(cfg.GPS),
		gps:     cfg.GPS,
	}
	if err := g.Reset(); err != nil {
		return nil, err
	}
	return g, nil
}

// Reset rebuilds the simulation from its initial state.
func (g *Game) Reset() error {
	sim, err := g.build(g.ctx)
	if err != nil {
		return err
	}
	g.sim = sim
	g.snap = sim.Snapshot()
	g.tickOnce = false
	g.stable = false
	g.refreshParams()
	return nil
}

func (g *Game) refreshParams() {
	snap := g.run.Parameters()
	snap.Groups = append(snap.Groups, core.ParameterGroup{
		Name: "View",
		Params: []core.Parameter{
			core.StringParam("pattern", "Pattern", g.cfg.Pattern),
			core.Int64Param("seed", "Seed", g.cfg.Seed),
			core.IntParam("gps", "Generations/s", g.gps),
		},
	})
	g.params = snap
}

// Update handles per-frame logic and advances the simulation.
func (g *Game) Update() error {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) || inpututil.IsKeyJustPressed(ebiten.KeyEscape) {
		return ebiten.Termination
	}
	if inpututil.IsKeyJustPressed(ebiten.KeySpace) {
		g.paused = !g.paused
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyN) {
		g.tickOnce = true
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyR) {
		if err := g.Reset(); err != nil {
			return err
		}
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyEqual) {
		g.setRate(g.gps * 2)
	}
	if inpututil.IsKeyJustPressed(ebiten.KeyMinus) && g.gps > 1 {
		g.setRate(g.gps / 2)
	}

	g.overlay.Update()
	g.hud.Update(g.params)

	steps := 0
	if !g.paused {
		steps = g.pacer.Due(maxBurst)
	}
	if g.tickOnce {
		steps = max(steps, 1)
		g.tickOnce = false
	}
	if g.sim.Generation() >= g.run.Generations && g.run.Generations > 0 {
		steps = 0
	}
	for i := 0; i < steps; i++ {
		changed, err := g.sim.Step(g.ctx)
		if err != nil {
			return err
		}
		g.stable = !changed
		if g.stable && g.run.StopWhenStable {
			g.paused = true
			break
		}
	}
	if steps > 0 {
		g.snap = g.sim.Snapshot()
	}
	return nil
}

func (g *Game) setRate(gps int) {
	g.gps = gps
	g.pacer.SetRate(gps)
	g.refreshParams()
}

func (g *Game) status() string {
	s := render.Header(g.sim.Name(), g.sim.Generation(), g.snap)
	switch {
	case g.stable:
		s += "  stable"
	case g.paused:
		s += "  paused"
	}
	return s
}

// Draw renders the current simulation state.
func (g *Game) Draw(screen *ebiten.Image) {
	g.painter.Blit(screen, g.snap, g.cfg.Scale)
	g.overlay.Draw(screen, g.status(), "space pause  n step  r reset  +/- speed  h help")
	g.hud.Draw(screen, g.run.Size*g.cfg.Scale, g.run.Size*g.cfg.Scale)
}

// Layout returns the logical screen size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	side := g.run.Size * g.cfg.Scale
	return side + g.cfg.Panel, side
}

// Title is the window title for the running simulation.
func (g *Game) Title() string { return fmt.Sprintf("ringlife %s", g.sim.Name()) }
