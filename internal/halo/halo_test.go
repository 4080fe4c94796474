package halo

import (
	"context"
	"errors"
	"math/rand/v2"
	"sync"
	"testing"
	"time"

	"ringlife/internal/core"
	"ringlife/internal/partition"
)

func randomGrid(n int, seed uint64) *core.Grid {
	r := rand.New(rand.NewPCG(seed, 0))
	g := core.MustGrid(n)
	cells := g.Cells()
	for i := range cells {
		cells[i] = core.Cell(r.IntN(3))
	}
	return g
}

// localCopies gives every rank the global grid with only its owned rows kept.
func localCopies(global *core.Grid, plans []partition.Plan) []*core.Grid {
	out := make([]*core.Grid, len(plans))
	for i, pl := range plans {
		g := core.MustGrid(global.Size())
		for r := pl.RowStart; r < pl.RowEnd; r++ {
			g.SetRow(r, global.Row(r))
		}
		out[i] = g
	}
	return out
}

func exchangeAll(t *testing.T, m *Mesh, plans []partition.Plan, grids []*core.Grid) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	errs := make([]error, len(plans))
	var wg sync.WaitGroup
	for i, pl := range plans {
		wg.Add(1)
		go func(i int, pl partition.Plan) {
			defer wg.Done()
			errs[i] = Exchange(ctx, m.Link(pl.Rank), pl, grids[i], NewStage(pl.N))
		}(i, pl)
	}
	wg.Wait()
	for i, err := range errs {
		if err != nil {
			t.Fatalf("rank %d exchange: %v", i, err)
		}
	}
}

func TestExchangeFillsHalosFromNeighbours(t *testing.T) {
	const n = 12
	for _, p := range []int{1, 2, 3, 4, 6, 12} {
		global := randomGrid(n, uint64(p))
		plans, err := partition.All(n, p)
		if err != nil {
			t.Fatal(err)
		}
		grids := localCopies(global, plans)
		exchangeAll(t, NewMesh(p), plans, grids)

		for i, pl := range plans {
			g := grids[i]
			above := global.Row(pl.HaloAbove)
			below := global.Row(pl.HaloBelow)
			for c := 0; c < n; c++ {
				if g.Read(pl.HaloAbove, c) != above[c] {
					t.Fatalf("p=%d rank %d top halo col %d = %v, want %v", p, i, c, g.Read(pl.HaloAbove, c), above[c])
				}
				if g.Read(pl.HaloBelow, c) != below[c] {
					t.Fatalf("p=%d rank %d bottom halo col %d = %v, want %v", p, i, c, g.Read(pl.HaloBelow, c), below[c])
				}
			}
			// top halo is the bottom owned row of RankUp and vice versa
			up, down := plans[pl.RankUp], plans[pl.RankDown]
			if up.Bottom() != pl.HaloAbove || down.Top() != pl.HaloBelow {
				t.Fatalf("p=%d rank %d halo rows do not match neighbour boundaries", p, i)
			}
		}
	}
}

func TestExchangeSoloNeverTouchesLink(t *testing.T) {
	pl, _ := partition.New(4, 1, 0)
	g := randomGrid(4, 9)
	want := g.Clone()
	if err := Exchange(context.Background(), failingLink{}, pl, g, NewStage(4)); err != nil {
		t.Fatalf("solo exchange: %v", err)
	}
	if !g.Equal(want) {
		t.Fatal("solo exchange must leave a fully owned grid unchanged")
	}
}

func TestExchangeStageSizeChecked(t *testing.T) {
	pl, _ := partition.New(4, 2, 0)
	err := Exchange(context.Background(), NewMesh(2).Link(0), pl, core.MustGrid(4), NewStage(3))
	if !errors.Is(err, ErrRowSize) {
		t.Fatalf("err = %v, want ErrRowSize", err)
	}
}

type failingLink struct{}

var errBroken = errors.New("broken link")

func (failingLink) Send(context.Context, int, Tag, []core.Cell) error { return errBroken }
func (failingLink) Recv(ctx context.Context, _ int, _ Tag, _ []core.Cell) error {
	<-ctx.Done()
	return ctx.Err()
}

func TestSendRecvFailureCancelsPairedReceive(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	row := make([]core.Cell, 3)
	err := SendRecv(ctx, failingLink{}, TagUp, 1, row, 1, row)
	if !errors.Is(err, errBroken) {
		t.Fatalf("err = %v, want broken link", err)
	}
	if ctx.Err() != nil {
		t.Fatal("paired receive should have been released by the send failure, not the timeout")
	}
}

func TestMeshRejectsNonNeighbours(t *testing.T) {
	m := NewMesh(4)
	err := m.Link(0).Send(context.Background(), 2, TagUp, make([]core.Cell, 1))
	if !errors.Is(err, ErrNoRoute) {
		t.Fatalf("err = %v, want ErrNoRoute", err)
	}
}

func TestMeshRecvHonoursContext(t *testing.T) {
	m := NewMesh(2)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := m.Link(0).Recv(ctx, 1, TagUp, make([]core.Cell, 2))
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
}

func TestTagString(t *testing.T) {
	if TagUp.String() != "up" || TagDown.String() != "down" || Tag(9).String() != "tag(9)" {
		t.Fatal("unexpected tag names")
	}
}
