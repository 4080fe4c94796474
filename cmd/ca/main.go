//go:build ebiten

package main

import (
	"context"
	"errors"
	"flag"
	"log"

	"ringlife/internal/app"
	"ringlife/internal/core"
	"ringlife/internal/engine"
	"ringlife/internal/logx"
	"ringlife/internal/seed"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	run := engine.DefaultConfig()
	run.Size = 64
	run.Workers = 4
	run.Generations = 0
	run.Bind(flag.CommandLine)
	level := flag.String("log", "info", "log level")
	flag.Parse()

	lg := logx.New(*level)
	// -generations 0 runs until the window is closed
	if err := run.Validate(); err != nil {
		lg.Fatalf("invalid configuration: %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	build := func(ctx context.Context) (core.Sim, error) {
		initial, err := seed.Build(cfg.Pattern, run.Size, cfg.Seed)
		if err != nil {
			return nil, err
		}
		return engine.NewCluster(ctx, run, initial, engine.WithLogger(lg.With("gui")))
	}
	game, err := app.New(ctx, build, run, cfg)
	if err != nil {
		log.Fatalf("starting: %v", err)
	}

	side := run.Size * cfg.Scale
	ebiten.SetWindowTitle(game.Title())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(side+cfg.Panel, side)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		log.Fatal(err)
	}
}
