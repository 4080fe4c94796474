package engine

import (
	"context"
	"fmt"

	"ringlife/internal/core"
	"ringlife/internal/halo"
	"ringlife/internal/logx"
	"ringlife/internal/partition"
	"ringlife/pkg/sims/life"
)

// Worker owns one partition: a private current/next grid pair, its halo
// staging rows and its link to the ring.
type Worker struct {
	plan  partition.Plan
	buf   *core.Buffers
	link  halo.Link
	stage *halo.Stage
	log   logx.Logger
}

// NewWorker copies the rows plan owns out of initial. Halo rows stay dead
// until Prime or Exchange fills them.
func NewWorker(plan partition.Plan, initial *core.Grid, link halo.Link, log logx.Logger) (*Worker, error) {
	if initial.Size() != plan.N {
		return nil, fmt.Errorf("engine: initial grid is %d wide, plan expects %d", initial.Size(), plan.N)
	}
	buf, err := core.NewBuffers(plan.N)
	if err != nil {
		return nil, fmt.Errorf("engine: rank %d buffers: %w", plan.Rank, err)
	}
	if log == nil {
		log = logx.NoOp{}
	}
	for r := plan.RowStart; r < plan.RowEnd; r++ {
		buf.Current().SetRow(r, initial.Row(r))
	}
	return &Worker{
		plan:  plan,
		buf:   buf,
		link:  link,
		stage: halo.NewStage(plan.N),
		log:   log,
	}, nil
}

// Plan returns the worker's partition.
func (w *Worker) Plan() partition.Plan { return w.plan }

// Prime performs the initial exchange so the first Compute sees real halos.
func (w *Worker) Prime(ctx context.Context) error {
	w.log.Debugf("rank %d priming halos", w.plan.Rank)
	return w.Exchange(ctx)
}

// Compute advances the owned rows one generation and swaps the buffers. It
// reports whether any owned cell changed.
func (w *Worker) Compute() bool {
	changed := life.StepRows(w.buf.Current(), w.buf.Next(), w.plan.RowStart, w.plan.RowEnd)
	w.buf.Swap()
	return changed
}

// Exchange refreshes both halo rows from the ring neighbours.
func (w *Worker) Exchange(ctx context.Context) error {
	if err := halo.Exchange(ctx, w.link, w.plan, w.buf.Current(), w.stage); err != nil {
		return fmt.Errorf("rank %d: %w", w.plan.Rank, err)
	}
	return nil
}

// Owned returns a view of the owned rows, row-major.
func (w *Worker) Owned() []core.Cell {
	n := w.plan.N
	return w.buf.Current().Cells()[w.plan.RowStart*n : w.plan.RowEnd*n]
}
