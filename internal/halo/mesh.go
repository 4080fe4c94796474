package halo

import (
	"context"
	"fmt"
	"slices"

	"ringlife/internal/core"
)

type edge struct {
	from, to int
	tag      Tag
}

// Mesh is an in-process ring of unbuffered channels, one per directed
// (from, to, tag) edge. A send completes only when the peer receives.
type Mesh struct {
	p     int
	edges map[edge]chan []core.Cell
}

// NewMesh wires a ring of p workers.
func NewMesh(p int) *Mesh {
	m := &Mesh{p: p, edges: make(map[edge]chan []core.Cell, 2*p)}
	for r := 0; r < p; r++ {
		up := (r - 1 + p) % p
		down := (r + 1) % p
		m.edges[edge{from: r, to: up, tag: TagUp}] = make(chan []core.Cell)
		m.edges[edge{from: r, to: down, tag: TagDown}] = make(chan []core.Cell)
	}
	return m
}

// Size returns the ring size.
func (m *Mesh) Size() int { return m.p }

// Link returns the endpoint of rank.
func (m *Mesh) Link(rank int) Link { return &meshLink{m: m, rank: rank} }

type meshLink struct {
	m    *Mesh
	rank int
}

func (l *meshLink) route(from, to int, tag Tag) (chan []core.Cell, error) {
	ch, ok := l.m.edges[edge{from: from, to: to, tag: tag}]
	if !ok {
		return nil, fmt.Errorf("%w: %d->%d %s", ErrNoRoute, from, to, tag)
	}
	return ch, nil
}

func (l *meshLink) Send(ctx context.Context, to int, tag Tag, row []core.Cell) error {
	ch, err := l.route(l.rank, to, tag)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	// the receiver owns the message once handed over
	msg := slices.Clone(row)
	select {
	case ch <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (l *meshLink) Recv(ctx context.Context, from int, tag Tag, row []core.Cell) error {
	ch, err := l.route(from, l.rank, tag)
	if err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	select {
	case msg := <-ch:
		if len(msg) != len(row) {
			return fmt.Errorf("%w: got %d cells, want %d", ErrRowSize, len(msg), len(row))
		}
		copy(row, msg)
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
