package core

import (
	"errors"
	"fmt"
)

// ErrGridSize is returned when a grid is requested with a non-positive side.
var ErrGridSize = errors.New("core: grid size must be positive")

// Grid stores a square toroidal grid of cells in row-major order. Every
// coordinate handed to it is wrapped into [0,N) before indexing, so all
// addresses exist.
type Grid struct {
	n    int
	data []Cell
}

// NewGrid allocates an n×n grid of dead cells.
func NewGrid(n int) (*Grid, error) {
	if n <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrGridSize, n)
	}
	return &Grid{n: n, data: make([]Cell, n*n)}, nil
}

// MustGrid is NewGrid for sizes already validated by the caller.
func MustGrid(n int) *Grid {
	g, err := NewGrid(n)
	if err != nil {
		panic(err)
	}
	return g
}

// Size returns the side length N.
func (g *Grid) Size() int { return g.n }

// Cells exposes the backing slice so callers can read/write values directly.
func (g *Grid) Cells() []Cell { return g.data }

func (g *Grid) wrap(v int) int { return (v%g.n + g.n) % g.n }

// Wrap applies toroidal wrapping to the provided coordinates.
func (g *Grid) Wrap(row, col int) (int, int) {
	return g.wrap(row), g.wrap(col)
}

// Index returns the linear slice index for already-normalized coordinates.
func (g *Grid) Index(row, col int) int { return row*g.n + col }

// Code returns the linear index of the cell reached from (row, col) by the
// offset (dr, dc), wrapping around both edges.
func (g *Grid) Code(row, col, dr, dc int) int {
	return g.Index(g.wrap(row+dr), g.wrap(col+dc))
}

// Read returns the cell at (row, col).
func (g *Grid) Read(row, col int) Cell { return g.data[g.Code(row, col, 0, 0)] }

// ReadAt returns the cell at offset (dr, dc) from (row, col).
func (g *Grid) ReadAt(row, col, dr, dc int) Cell { return g.data[g.Code(row, col, dr, dc)] }

// Write stores c at (row, col).
func (g *Grid) Write(row, col int, c Cell) { g.data[g.Code(row, col, 0, 0)] = c }

// Row returns a view of row r. Writes through the view mutate the grid.
func (g *Grid) Row(r int) []Cell {
	r = g.wrap(r)
	return g.data[r*g.n : (r+1)*g.n]
}

// SetRow copies src into row r. src must hold exactly N cells.
func (g *Grid) SetRow(r int, src []Cell) {
	copy(g.Row(r), src[:g.n])
}

// Clear marks every cell dead.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = Dead
	}
}

// CopyFrom overwrites g with the contents of src, which must be the same size.
func (g *Grid) CopyFrom(src *Grid) {
	if src.n != g.n {
		panic(fmt.Sprintf("core: copy %d-grid into %d-grid", src.n, g.n))
	}
	copy(g.data, src.data)
}

// Clone returns an independent copy of g.
func (g *Grid) Clone() *Grid {
	out := &Grid{n: g.n, data: make([]Cell, len(g.data))}
	copy(out.data, g.data)
	return out
}

// Equal reports whether both grids have the same size and cells.
func (g *Grid) Equal(o *Grid) bool {
	if g == nil || o == nil {
		return g == o
	}
	if g.n != o.n {
		return false
	}
	for i, c := range g.data {
		if o.data[i] != c {
			return false
		}
	}
	return true
}

// Population counts live cells in total and per species.
func (g *Grid) Population() (total, a, b int) {
	for _, c := range g.data {
		switch c {
		case SpeciesA:
			a++
		case SpeciesB:
			b++
		}
	}
	return a + b, a, b
}
