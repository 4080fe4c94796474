package life

import "ringlife/internal/core"

// Counts holds the live neighbours of a cell, split by species.
type Counts struct {
	Total int
	A     int
	B     int
}

var offsets = [8][2]int{
	{0, -1}, {0, 1},
	{1, -1}, {1, 0}, {1, 1},
	{-1, -1}, {-1, 0}, {-1, 1},
}

// Count tallies the eight toroidal neighbours of (row, col) in g.
func Count(g *core.Grid, row, col int) Counts {
	var n Counts
	for _, o := range offsets {
		switch g.ReadAt(row, col, o[0], o[1]) {
		case core.SpeciesA:
			n.A++
		case core.SpeciesB:
			n.B++
		}
	}
	n.Total = n.A + n.B
	return n
}

// Next applies the two-species birth/survival rule. A dead cell with exactly
// three neighbours is born as the majority species; ties go to SpeciesB.
func Next(cell core.Cell, n Counts) core.Cell {
	if cell.Alive() {
		if n.Total == 2 || n.Total == 3 {
			return cell
		}
		return core.Dead
	}
	if n.Total == 3 {
		if n.A > n.B {
			return core.SpeciesA
		}
		return core.SpeciesB
	}
	return core.Dead
}

// StepRows computes rows [rowStart, rowEnd) of the next generation from src
// into dst. dst is cleared first, so rows outside the range come back dead.
// src must carry current halo rows above and below the range. It reports
// whether any cell in the range changed.
func StepRows(src, dst *core.Grid, rowStart, rowEnd int) bool {
	dst.Clear()
	n := src.Size()
	changed := false
	for r := rowStart; r < rowEnd; r++ {
		for c := 0; c < n; c++ {
			cell := src.Read(r, c)
			next := Next(cell, Count(src, r, c))
			if next != cell {
				changed = true
			}
			dst.Write(r, c, next)
		}
	}
	return changed
}
