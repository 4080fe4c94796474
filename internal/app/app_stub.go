//go:build !ebiten

package app

import (
	"context"
	"errors"

	"ringlife/internal/core"
	"ringlife/internal/engine"
)

// ErrNoGUI is returned by every Game entry point in headless builds.
var ErrNoGUI = errors.New("app: built without the ebiten tag")

// Factory builds a fresh simulation for the initial state and every reset.
type Factory func(ctx context.Context) (core.Sim, error)

// Game mirrors the windowed Game's method set so callers compile either way.
type Game struct{}

// New reports ErrNoGUI.
func New(context.Context, Factory, engine.Config, *Config) (*Game, error) { return nil, ErrNoGUI }

// Reset reports ErrNoGUI.
func (g *Game) Reset() error { return ErrNoGUI }

// Update reports ErrNoGUI.
func (g *Game) Update() error { return ErrNoGUI }

// Draw is a no-op placeholder.
func (g *Game) Draw(any) {}

// Layout returns zeros in the headless build.
func (g *Game) Layout(int, int) (int, int) { return 0, 0 }

// Title is empty in the headless build.
func (g *Game) Title() string { return "" }
