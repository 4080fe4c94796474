// Command gol runs the two-species Game of Life on an in-process ring of
// workers and prints or shows its generations.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"ringlife/internal/core"
	"ringlife/internal/engine"
	"ringlife/internal/logx"
	"ringlife/internal/partition"
	"ringlife/internal/render"
	"ringlife/internal/seed"
)

// frameRenderer is satisfied by render.Text and render.Terminal.
type frameRenderer interface {
	Render(header string, g *core.Grid) error
}

func main() {
	s, err := loadSettings(flag.CommandLine, os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	lg := logx.New(s.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	res, err := run(ctx, s, os.Stdout, lg)
	switch {
	case errors.Is(err, partition.ErrIndivisible), errors.Is(err, partition.ErrSize):
		lg.Errorf("configuration: %v", err)
		os.Exit(2)
	case errors.Is(err, context.Canceled):
		lg.Warnf("interrupted after %d generations", res.Generations)
	case err != nil:
		lg.Fatalf("run failed after %d generations: %v", res.Generations, err)
	}
	lg.Infof("finished: %d generations, stable=%v", res.Generations, res.Stable)
}

func initialGrid(s *settings) (*core.Grid, error) {
	if s.Input == "" {
		return seed.Build(s.Pattern, s.Run.Size, s.Seed)
	}
	data, err := os.ReadFile(s.Input)
	if err != nil {
		return nil, err
	}
	g, err := render.Parse(string(data))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Input, err)
	}
	s.Run.Size = g.Size()
	return g, nil
}

func run(ctx context.Context, s settings, out io.Writer, lg logx.Logger) (engine.Result, error) {
	initial, err := initialGrid(&s)
	if err != nil {
		return engine.Result{}, err
	}
	cluster, err := engine.NewCluster(ctx, s.Run, initial, engine.WithLogger(lg))
	if err != nil {
		return engine.Result{}, err
	}
	lg.Infof("%s: n=%d pattern=%s generations=%d", cluster.Name(), s.Run.Size, s.Pattern, s.Run.Generations)

	var view frameRenderer
	switch s.View {
	case "text":
		view = render.NewText(out)
	case "tui":
		term, err := render.NewTerminal()
		if err != nil {
			return engine.Result{}, err
		}
		defer term.Close()
		var cancel context.CancelFunc
		ctx, cancel = context.WithCancel(ctx)
		defer cancel()
		go func() {
			select {
			case <-term.Quit():
				cancel()
			case <-ctx.Done():
			}
		}()
		view = term
	}

	show := func(gen int) error {
		if view == nil {
			return nil
		}
		g := cluster.Snapshot()
		if err := view.Render(render.Header(cluster.Name(), gen, g), g); err != nil {
			return err
		}
		if s.DelayMS > 0 {
			select {
			case <-time.After(time.Duration(s.DelayMS) * time.Millisecond):
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	}
	if err := show(0); err != nil {
		return engine.Result{}, err
	}

	res, err := engine.Run(ctx, cluster, s.Run, func(gen int, changed bool) error {
		if gen%s.Every != 0 && gen != s.Run.Generations && changed {
			return nil
		}
		return show(gen)
	})
	if err != nil {
		return res, err
	}
	if s.PNG != "" {
		if err := writePNG(s.PNG, cluster.Snapshot(), s.Scale); err != nil {
			return res, err
		}
		lg.Infof("wrote %s", s.PNG)
	}
	return res, nil
}

func writePNG(path string, g *core.Grid, scale int) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := render.WritePNG(f, g, scale, render.DefaultPalette); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
