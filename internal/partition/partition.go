// Package partition splits the rows of an N×N torus across P workers
// arranged in a ring.
package partition

import (
	"errors"
	"fmt"
)

var (
	// ErrSize reports a non-positive grid size or worker count.
	ErrSize = errors.New("partition: grid size and worker count must be positive")
	// ErrIndivisible reports N mod P != 0.
	ErrIndivisible = errors.New("partition: grid size not divisible by worker count")
	// ErrRank reports a rank outside [0,P).
	ErrRank = errors.New("partition: rank out of range")
)

// Plan is one worker's share of the grid and its place in the ring. It is
// computed once and never changes during a run.
type Plan struct {
	N, P, Rank int

	// RowStart and RowEnd bound the owned rows, half-open.
	RowStart, RowEnd int

	// HaloAbove and HaloBelow are the rows read but not owned.
	HaloAbove, HaloBelow int

	RankUp, RankDown int
}

// Check validates the (n, p) pair alone.
func Check(n, p int) error {
	if n <= 0 || p <= 0 {
		return fmt.Errorf("%w: n=%d p=%d", ErrSize, n, p)
	}
	if n%p != 0 {
		return fmt.Errorf("%w: n=%d p=%d", ErrIndivisible, n, p)
	}
	return nil
}

// New computes the plan for rank.
func New(n, p, rank int) (Plan, error) {
	if err := Check(n, p); err != nil {
		return Plan{}, err
	}
	if rank < 0 || rank >= p {
		return Plan{}, fmt.Errorf("%w: rank=%d p=%d", ErrRank, rank, p)
	}
	rows := n / p
	pl := Plan{
		N:        n,
		P:        p,
		Rank:     rank,
		RowStart: rank * rows,
		RowEnd:   (rank + 1) * rows,
		RankUp:   (rank - 1 + p) % p,
		RankDown: (rank + 1) % p,
	}
	pl.HaloAbove = (pl.RowStart - 1 + n) % n
	pl.HaloBelow = pl.RowEnd % n
	return pl, nil
}

// All returns the plans of every rank in rank order.
func All(n, p int) ([]Plan, error) {
	if err := Check(n, p); err != nil {
		return nil, err
	}
	plans := make([]Plan, p)
	for r := range plans {
		pl, err := New(n, p, r)
		if err != nil {
			return nil, err
		}
		plans[r] = pl
	}
	return plans, nil
}

// Rows is the number of owned rows.
func (p Plan) Rows() int { return p.RowEnd - p.RowStart }

// Top is the first owned row.
func (p Plan) Top() int { return p.RowStart }

// Bottom is the last owned row.
func (p Plan) Bottom() int { return p.RowEnd - 1 }

// Owns reports whether row lies in the owned range.
func (p Plan) Owns(row int) bool { return row >= p.RowStart && row < p.RowEnd }

// Solo reports whether this is a single-worker ring.
func (p Plan) Solo() bool { return p.P == 1 }

func (p Plan) String() string {
	return fmt.Sprintf("rank %d/%d rows [%d,%d) halo %d/%d up %d down %d",
		p.Rank, p.P, p.RowStart, p.RowEnd, p.HaloAbove, p.HaloBelow, p.RankUp, p.RankDown)
}
