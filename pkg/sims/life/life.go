package life

import (
	"context"

	"ringlife/internal/core"
)

// Life is the unpartitioned reference: the whole torus is stepped in one
// pass with no halo exchange.
type Life struct {
	buf *core.Buffers
	gen int
}

// New returns a Life simulation starting from a copy of initial.
func New(initial *core.Grid) (*Life, error) {
	buf, err := core.NewBuffers(initial.Size())
	if err != nil {
		return nil, err
	}
	buf.Current().CopyFrom(initial)
	return &Life{buf: buf}, nil
}

// Name returns the simulation identifier.
func (l *Life) Name() string { return "serial" }

// Size returns the grid side.
func (l *Life) Size() int { return l.buf.Current().Size() }

// Generation returns the number of completed steps.
func (l *Life) Generation() int { return l.gen }

// Cells exposes the current grid values.
func (l *Life) Cells() []core.Cell { return l.buf.Current().Cells() }

// Snapshot returns a copy of the current grid.
func (l *Life) Snapshot() *core.Grid { return l.buf.Current().Clone() }

// Advance steps one generation and reports whether any cell changed.
func (l *Life) Advance() bool {
	changed := StepRows(l.buf.Current(), l.buf.Next(), 0, l.Size())
	l.buf.Swap()
	l.gen++
	return changed
}

// Step satisfies core.Sim. The serial reference never blocks or fails.
func (l *Life) Step(context.Context) (bool, error) {
	return l.Advance(), nil
}
