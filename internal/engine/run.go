package engine

import (
	"context"

	"ringlife/internal/core"
)

// Result summarises a finished run.
type Result struct {
	Generations int
	// Stable is set when the run ended because a generation changed nothing.
	Stable bool
}

// Observer is called after every generation.
type Observer func(gen int, changed bool) error

// Run steps sim until the generation budget is spent, observe fails, or,
// with StopWhenStable, a generation leaves the grid unchanged.
func Run(ctx context.Context, sim core.Sim, cfg Config, observe Observer) (Result, error) {
	var res Result
	for sim.Generation() < cfg.Generations {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		changed, err := sim.Step(ctx)
		if err != nil {
			return res, err
		}
		res.Generations = sim.Generation()
		if observe != nil {
			if err := observe(res.Generations, changed); err != nil {
				return res, err
			}
		}
		if !changed && cfg.StopWhenStable {
			res.Stable = true
			break
		}
	}
	return res, nil
}
