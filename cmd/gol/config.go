package main

import (
	"flag"
	"fmt"
	"slices"

	"ringlife/internal/cliconf"
	"ringlife/internal/engine"
)

// settings holds everything gol needs to start a run.
type settings struct {
	Run      engine.Config
	Pattern  string
	Input    string
	Seed     int64
	View     string
	Every    int
	DelayMS  int
	PNG      string
	Scale    int
	LogLevel string
}

var views = []string{"text", "tui", "none"}

func loadSettings(fs *flag.FlagSet, args []string) (settings, error) {
	var s settings
	def := engine.DefaultConfig()
	resolvers := []cliconf.Resolver{
		{Flag: "n", Env: "RINGLIFE_N", Default: fmt.Sprint(def.Size), Usage: "side of the square torus", Set: cliconf.Int(&s.Run.Size)},
		{Flag: "p", Env: "RINGLIFE_P", Default: fmt.Sprint(def.Workers), Usage: "workers on the ring, must divide n", Set: cliconf.Int(&s.Run.Workers)},
		{Flag: "generations", Env: "RINGLIFE_GENERATIONS", Default: fmt.Sprint(def.Generations), Usage: "generations to simulate", Set: cliconf.Int(&s.Run.Generations)},
		{Flag: "stop-when-stable", Env: "RINGLIFE_STOP_WHEN_STABLE", Default: fmt.Sprint(def.StopWhenStable), Usage: "stop once a generation changes nothing", Set: cliconf.Bool(&s.Run.StopWhenStable)},
		{Flag: "pattern", Env: "RINGLIFE_PATTERN", Default: "small-exploder", Usage: "initial pattern", Set: cliconf.String(&s.Pattern)},
		{Flag: "input", Env: "RINGLIFE_INPUT", Default: "", Usage: "text grid file overriding -pattern and -n", Set: cliconf.String(&s.Input)},
		{Flag: "seed", Env: "RINGLIFE_SEED", Default: "1", Usage: "seed for the random pattern", Set: cliconf.Int64(&s.Seed)},
		{Flag: "view", Env: "RINGLIFE_VIEW", Default: "text", Usage: "text, tui or none", Set: cliconf.String(&s.View)},
		{Flag: "every", Env: "RINGLIFE_EVERY", Default: "1", Usage: "print every k-th generation", Set: cliconf.Int(&s.Every)},
		{Flag: "delay-ms", Env: "RINGLIFE_DELAY_MS", Default: "0", Usage: "pause between printed generations", Set: cliconf.Int(&s.DelayMS)},
		{Flag: "png", Env: "RINGLIFE_PNG", Default: "", Usage: "write the final grid as PNG to this path", Set: cliconf.String(&s.PNG)},
		{Flag: "scale", Env: "RINGLIFE_SCALE", Default: "8", Usage: "PNG pixels per cell", Set: cliconf.Int(&s.Scale)},
		{Flag: "log-level", Env: "RINGLIFE_LOG_LEVEL", Default: "info", Usage: "debug, info, warn or error", Set: cliconf.String(&s.LogLevel)},
	}
	if err := cliconf.Load(fs, args, resolvers); err != nil {
		return s, err
	}
	if !slices.Contains(views, s.View) {
		return s, fmt.Errorf("unknown view %q, want one of %v", s.View, views)
	}
	if s.Every <= 0 {
		s.Every = 1
	}
	if s.Scale <= 0 {
		s.Scale = 1
	}
	return s, nil
}
