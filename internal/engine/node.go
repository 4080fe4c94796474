package engine

import (
	"context"
	"errors"
	"fmt"

	"ringlife/internal/core"
	"ringlife/internal/halo"
	"ringlife/internal/partition"
)

// Collective is the coordinator channel of a multi-process run. Every rank
// reports once per generation; the call returns the OR of all ranks' change
// flags and, on the coordinator only, the grid assembled from every rank's
// owned rows in rank order.
type Collective interface {
	Report(ctx context.Context, gen int, changed bool, owned []core.Cell) (bool, *core.Grid, error)
}

// Node is one worker of a run whose workers live in separate processes.
type Node struct {
	cfg    Config
	w      *Worker
	coll   Collective
	gen    int
	last   *core.Grid
	failed error
	opts   options
}

// NewNode builds the worker for rank, primes its halos over link and
// reports the initial state to the coordinator.
func NewNode(ctx context.Context, cfg Config, rank int, initial *core.Grid, link halo.Link, coll Collective, opts ...Option) (*Node, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	plan, err := partition.New(cfg.Size, cfg.Workers, rank)
	if err != nil {
		return nil, err
	}
	o := buildOptions(opts)
	w, err := NewWorker(plan, initial, link, o.log)
	if err != nil {
		return nil, err
	}
	n := &Node{cfg: cfg, w: w, coll: coll, opts: o}
	if err := w.Prime(ctx); err != nil {
		return nil, fmt.Errorf("engine: priming halos: %w", err)
	}
	if _, snap, err := coll.Report(ctx, 0, true, w.Owned()); err != nil {
		return nil, fmt.Errorf("engine: initial gather: %w", err)
	} else if snap != nil {
		n.last = snap
	}
	o.log.Infof("node ready: %s", plan)
	return n, nil
}

// Name returns the simulation identifier.
func (n *Node) Name() string { return fmt.Sprintf("node/%d", n.w.Plan().Rank) }

// Size returns the grid side.
func (n *Node) Size() int { return n.cfg.Size }

// Generation returns the number of completed steps.
func (n *Node) Generation() int { return n.gen }

// Plan returns this node's partition.
func (n *Node) Plan() partition.Plan { return n.w.Plan() }

// Coordinator reports whether this node assembles snapshots.
func (n *Node) Coordinator() bool { return n.w.Plan().Rank == 0 }

// Step computes, exchanges halos, then reports to the coordinator. The
// returned flag is global: every rank sees the same value.
func (n *Node) Step(ctx context.Context) (bool, error) {
	if n.failed != nil {
		return false, n.failed
	}
	local := n.w.Compute()
	err := n.w.Exchange(ctx)
	var global bool
	if err == nil {
		var snap *core.Grid
		global, snap, err = n.coll.Report(ctx, n.gen+1, local, n.w.Owned())
		if snap != nil {
			n.last = snap
		}
	}
	if err != nil {
		n.failed = fmt.Errorf("%w: generation %d: %w", ErrBroken, n.gen+1, err)
		n.opts.log.Errorf("generation %d failed: %v", n.gen+1, err)
		return false, n.failed
	}
	n.gen++
	return global, nil
}

// ErrNotCoordinator is returned by Snapshot on ranks other than 0.
var ErrNotCoordinator = errors.New("engine: snapshots are only assembled on rank 0")

// Snapshot returns the latest gathered grid. Only rank 0 has one; other
// ranks get nil.
func (n *Node) Snapshot() *core.Grid {
	if n.last == nil {
		return nil
	}
	return n.last.Clone()
}

// SnapshotErr is Snapshot with an explicit error for non-coordinators.
func (n *Node) SnapshotErr() (*core.Grid, error) {
	if !n.Coordinator() {
		return nil, ErrNotCoordinator
	}
	return n.Snapshot(), nil
}
