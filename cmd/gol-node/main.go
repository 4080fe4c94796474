// Command gol-node runs one rank of a multi-process ring. Start one process
// per address in -peers; rank 0 gathers and prints the grid.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"

	"ringlife/internal/engine"
	"ringlife/internal/halo/wsring"
	"ringlife/internal/logx"
	"ringlife/internal/partition"
	"ringlife/internal/render"
	"ringlife/internal/seed"
)

func main() {
	s, err := loadSettings(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	lg := logx.New(s.LogLevel).With(fmt.Sprintf("rank %d", s.Rank))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := run(ctx, s, os.Stdout, lg)
	switch {
	case errors.Is(err, partition.ErrIndivisible), errors.Is(err, partition.ErrRank), errors.Is(err, partition.ErrSize):
		lg.Errorf("configuration: %v", err)
		os.Exit(2)
	case err != nil:
		lg.Fatalf("run failed after %d generations: %v", res.Generations, err)
	}
	lg.Infof("finished: %d generations, stable=%v", res.Generations, res.Stable)
}

func run(ctx context.Context, s settings, out io.Writer, lg logx.Logger) (engine.Result, error) {
	if err := s.Run.Validate(); err != nil {
		return engine.Result{}, err
	}
	node, err := wsring.Listen(wsring.Config{Rank: s.Rank, Peers: s.Peers, Size: s.Run.Size}, lg)
	if err != nil {
		return engine.Result{}, err
	}
	defer node.Close()
	lg.Infof("listening on %s, %s", node.Addr(), node.Plan())

	connectCtx, cancel := context.WithTimeout(ctx, s.Timeout)
	err = node.Connect(connectCtx)
	cancel()
	if err != nil {
		return engine.Result{}, fmt.Errorf("forming ring: %w", err)
	}

	// every rank derives the same initial grid from the shared seed
	initial, err := seed.Build(s.Pattern, s.Run.Size, s.Seed)
	if err != nil {
		return engine.Result{}, err
	}
	sim, err := engine.NewNode(ctx, s.Run, s.Rank, initial, node, node, engine.WithLogger(lg))
	if err != nil {
		return engine.Result{}, err
	}

	var text *render.Text
	if sim.Coordinator() && s.Print {
		text = render.NewText(out)
		g := sim.Snapshot()
		if err := text.Render(render.Header(sim.Name(), 0, g), g); err != nil {
			return engine.Result{}, err
		}
	}
	res, err := engine.Run(ctx, sim, s.Run, func(gen int, changed bool) error {
		if text == nil || (gen%s.Every != 0 && gen != s.Run.Generations && changed) {
			return nil
		}
		g := sim.Snapshot()
		return text.Render(render.Header(sim.Name(), gen, g), g)
	})
	if err != nil {
		return res, err
	}
	if sim.Coordinator() && s.PNG != "" {
		f, err := os.Create(s.PNG)
		if err != nil {
			return res, err
		}
		if err := render.WritePNG(f, sim.Snapshot(), 8, render.DefaultPalette); err != nil {
			f.Close()
			return res, err
		}
		if err := f.Close(); err != nil {
			return res, err
		}
	}
	return res, nil
}
