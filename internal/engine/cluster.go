package engine

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"golang.org/x/sync/errgroup"

	"ringlife/internal/core"
	"ringlife/internal/halo"
	"ringlife/internal/logx"
	"ringlife/internal/partition"
)

// ErrBroken is returned by every Step after one has failed. Workers may
// have advanced unevenly, so the run cannot continue.
var ErrBroken = errors.New("engine: cluster stopped after a failed generation")

type options struct {
	log logx.Logger
}

// Option customises a Cluster or Node.
type Option func(*options)

// WithLogger injects a logger.
func WithLogger(l logx.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

func buildOptions(opts []Option) options {
	o := options{log: logx.NoOp{}}
	for _, fn := range opts {
		fn(&o)
	}
	return o
}

// Cluster runs P workers as goroutines in one process, linked by an
// in-process halo.Mesh. Each worker still sees only its own rows and the
// halos it received.
type Cluster struct {
	cfg     Config
	workers []*Worker
	gen     int
	failed  error
	log     logx.Logger
}

// NewCluster partitions initial across cfg.Workers workers and primes their
// halos. initial is not retained.
func NewCluster(ctx context.Context, cfg Config, initial *core.Grid, opts ...Option) (*Cluster, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if initial.Size() != cfg.Size {
		return nil, fmt.Errorf("engine: initial grid is %d wide, config says %d", initial.Size(), cfg.Size)
	}
	o := buildOptions(opts)
	plans, err := partition.All(cfg.Size, cfg.Workers)
	if err != nil {
		return nil, err
	}

	mesh := halo.NewMesh(cfg.Workers)
	c := &Cluster{cfg: cfg, workers: make([]*Worker, len(plans)), log: o.log}
	for i, pl := range plans {
		w, err := NewWorker(pl, initial, mesh.Link(pl.Rank), o.log)
		if err != nil {
			return nil, err
		}
		c.workers[i] = w
	}
	if err := c.each(ctx, func(ctx context.Context, _ int, w *Worker) error {
		return w.Prime(ctx)
	}); err != nil {
		return nil, fmt.Errorf("engine: priming halos: %w", err)
	}
	c.log.Infof("cluster ready: n=%d p=%d rows/worker=%d", cfg.Size, cfg.Workers, cfg.Size/cfg.Workers)
	return c, nil
}

// each runs fn on every worker concurrently. The first error cancels the
// context the others block on.
func (c *Cluster) each(ctx context.Context, fn func(context.Context, int, *Worker) error) error {
	g, gctx := errgroup.WithContext(ctx)
	for i, w := range c.workers {
		g.Go(func() error { return fn(gctx, i, w) })
	}
	return g.Wait()
}

// Name returns the simulation identifier.
func (c *Cluster) Name() string { return fmt.Sprintf("cluster/%d", c.cfg.Workers) }

// Size returns the grid side.
func (c *Cluster) Size() int { return c.cfg.Size }

// Generation returns the number of completed steps.
func (c *Cluster) Generation() int { return c.gen }

// Config returns the configuration the cluster was built with.
func (c *Cluster) Config() Config { return c.cfg }

// Step runs one generation on every worker: compute, then exchange. The
// returned flag is the OR of every worker's local change flag.
func (c *Cluster) Step(ctx context.Context) (bool, error) {
	if c.failed != nil {
		return false, c.failed
	}
	changed := make([]bool, len(c.workers))
	err := c.each(ctx, func(ctx context.Context, i int, w *Worker) error {
		changed[i] = w.Compute()
		return w.Exchange(ctx)
	})
	if err != nil {
		c.failed = fmt.Errorf("%w: generation %d: %w", ErrBroken, c.gen+1, err)
		c.log.Errorf("generation %d failed: %v", c.gen+1, err)
		return false, c.failed
	}
	c.gen++
	stepChanged := slices.Contains(changed, true)
	c.log.Debugf("generation %d done, changed=%v", c.gen, stepChanged)
	return stepChanged, nil
}

// Snapshot gathers every worker's owned rows, in rank order, into a fresh grid.
func (c *Cluster) Snapshot() *core.Grid {
	out := core.MustGrid(c.cfg.Size)
	cells := out.Cells()
	n := c.cfg.Size
	for _, w := range c.workers {
		pl := w.Plan()
		copy(cells[pl.RowStart*n:pl.RowEnd*n], w.Owned())
	}
	return out
}
