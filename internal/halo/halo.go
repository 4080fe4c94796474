// Package halo keeps the boundary rows of row-partitioned workers in sync
// around a ring.
//
// Every generation a worker makes two paired transfers:
//
//	phase 1 (TagUp):   send own top row to RankUp,      receive bottom halo from RankDown
//	phase 2 (TagDown): send own bottom row to RankDown, receive top halo from RankUp
//
// Within a phase the send and the receive run concurrently. On a ring every
// worker is then sending to one neighbour while receiving from the other, so
// links with synchronous (unbuffered) semantics cannot deadlock.
package halo

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/sync/errgroup"

	"ringlife/internal/core"
	"ringlife/internal/partition"
)

// Tag discriminates the two transfer phases.
type Tag uint8

const (
	// TagUp carries a worker's topmost owned row towards RankUp.
	TagUp Tag = iota + 1
	// TagDown carries a worker's bottommost owned row towards RankDown.
	TagDown
)

func (t Tag) String() string {
	switch t {
	case TagUp:
		return "up"
	case TagDown:
		return "down"
	default:
		return fmt.Sprintf("tag(%d)", uint8(t))
	}
}

var (
	// ErrRowSize reports a transfer whose length is not N.
	ErrRowSize = errors.New("halo: row size mismatch")
	// ErrNoRoute reports a send or receive between ranks that are not ring neighbours.
	ErrNoRoute = errors.New("halo: no link between ranks")
)

// Link moves single rows between a worker and its ring neighbours. Send
// and Recv may block until the peer takes part.
type Link interface {
	Send(ctx context.Context, to int, tag Tag, row []core.Cell) error
	Recv(ctx context.Context, from int, tag Tag, row []core.Cell) error
}

// SendRecv sends send to rank to while concurrently receiving recv from
// rank from, both under tag. It returns once both halves are done or either
// failed.
func SendRecv(ctx context.Context, link Link, tag Tag, to int, send []core.Cell, from int, recv []core.Cell) error {
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := link.Send(gctx, to, tag, send); err != nil {
			return fmt.Errorf("halo: send %s to rank %d: %w", tag, to, err)
		}
		return nil
	})
	g.Go(func() error {
		if err := link.Recv(gctx, from, tag, recv); err != nil {
			return fmt.Errorf("halo: recv %s from rank %d: %w", tag, from, err)
		}
		return nil
	})
	return g.Wait()
}

// Stage holds the per-worker row buffers used during an exchange.
type Stage struct {
	send, recv []core.Cell
}

// NewStage allocates staging rows of n cells.
func NewStage(n int) *Stage {
	return &Stage{send: make([]core.Cell, n), recv: make([]core.Cell, n)}
}

// Exchange refreshes both halo rows of g for the worker described by pl.
// With a single worker the halos are its own wrapped rows and the link is
// never used.
func Exchange(ctx context.Context, link Link, pl partition.Plan, g *core.Grid, st *Stage) error {
	if len(st.send) != pl.N || len(st.recv) != pl.N {
		return fmt.Errorf("%w: stage %d, grid %d", ErrRowSize, len(st.send), pl.N)
	}
	if pl.Solo() {
		copy(st.send, g.Row(pl.Top()))
		g.SetRow(pl.HaloBelow, st.send)
		copy(st.send, g.Row(pl.Bottom()))
		g.SetRow(pl.HaloAbove, st.send)
		return nil
	}

	copy(st.send, g.Row(pl.Top()))
	if err := SendRecv(ctx, link, TagUp, pl.RankUp, st.send, pl.RankDown, st.recv); err != nil {
		return err
	}
	g.SetRow(pl.HaloBelow, st.recv)

	copy(st.send, g.Row(pl.Bottom()))
	if err := SendRecv(ctx, link, TagDown, pl.RankDown, st.send, pl.RankUp, st.recv); err != nil {
		return err
	}
	g.SetRow(pl.HaloAbove, st.recv)
	return nil
}
