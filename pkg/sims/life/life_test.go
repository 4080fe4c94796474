package life

import (
	"testing"

	"ringlife/internal/core"
)

func TestRuleTable(t *testing.T) {
	cases := []struct {
		name string
		cell core.Cell
		n    Counts
		want core.Cell
	}{
		{"A underpopulated", core.SpeciesA, Counts{Total: 1, A: 1}, core.Dead},
		{"A survives with two", core.SpeciesA, Counts{Total: 2, A: 1, B: 1}, core.SpeciesA},
		{"A survives with three", core.SpeciesA, Counts{Total: 3, B: 3}, core.SpeciesA},
		{"A overcrowded", core.SpeciesA, Counts{Total: 4, A: 2, B: 2}, core.Dead},
		{"B survives with two", core.SpeciesB, Counts{Total: 2, A: 2}, core.SpeciesB},
		{"B dies alone", core.SpeciesB, Counts{}, core.Dead},
		{"birth majority A", core.Dead, Counts{Total: 3, A: 2, B: 1}, core.SpeciesA},
		{"birth majority B", core.Dead, Counts{Total: 3, A: 1, B: 2}, core.SpeciesB},
		{"birth all A", core.Dead, Counts{Total: 3, A: 3}, core.SpeciesA},
		{"dead stays dead with two", core.Dead, Counts{Total: 2, A: 2}, core.Dead},
		{"dead stays dead with four", core.Dead, Counts{Total: 4, A: 4}, core.Dead},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Next(tc.cell, tc.n); got != tc.want {
				t.Fatalf("Next(%v, %+v) = %v, want %v", tc.cell, tc.n, got, tc.want)
			}
		})
	}
}

func TestBirthTieGoesToB(t *testing.T) {
	// a == b can only happen at even totals; the tie branch is the else arm
	if got := Next(core.Dead, Counts{Total: 3, A: 1, B: 1}); got != core.SpeciesB {
		t.Fatalf("tie birth = %v, want B", got)
	}
}

func TestCountWrapsAcrossEdges(t *testing.T) {
	g := core.MustGrid(4)
	g.Write(3, 3, core.SpeciesA) // diagonal through the corner
	g.Write(0, 3, core.SpeciesB) // left neighbour through column wrap
	g.Write(3, 0, core.SpeciesB) // upper neighbour through row wrap
	g.Write(2, 2, core.SpeciesA) // not adjacent to (0,0)

	got := Count(g, 0, 0)
	want := Counts{Total: 3, A: 1, B: 2}
	if got != want {
		t.Fatalf("Count(0,0) = %+v, want %+v", got, want)
	}
}

func TestBlinkerOscillation(t *testing.T) {
	g := core.MustGrid(5)
	g.Write(1, 2, core.SpeciesA)
	g.Write(2, 2, core.SpeciesB)
	g.Write(3, 2, core.SpeciesA)

	sim, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	if !sim.Advance() {
		t.Fatal("blinker must report a change")
	}

	// (2,1) and (2,3) each see A,B,A: two A's beat one B.
	expects := map[[2]int]core.Cell{
		{2, 1}: core.SpeciesA,
		{2, 2}: core.SpeciesB,
		{2, 3}: core.SpeciesA,
	}
	cur := sim.Snapshot()
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			want := expects[[2]int{r, c}]
			if got := cur.Read(r, c); got != want {
				t.Fatalf("cell (%d,%d) = %v, expected %v", r, c, got, want)
			}
		}
	}

	sim.Advance()
	if !sim.Snapshot().Equal(g) {
		t.Fatal("blinker must return to its start after two generations")
	}
	if sim.Generation() != 2 {
		t.Fatalf("Generation() = %d, want 2", sim.Generation())
	}
}

func TestBlockIsStill(t *testing.T) {
	g := core.MustGrid(6)
	for _, rc := range [][2]int{{2, 2}, {2, 3}, {3, 2}, {3, 3}} {
		g.Write(rc[0], rc[1], core.SpeciesB)
	}
	sim, err := New(g)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 50; i++ {
		if sim.Advance() {
			t.Fatalf("block changed at generation %d", i+1)
		}
	}
	if !sim.Snapshot().Equal(g) {
		t.Fatal("block must be unchanged")
	}
}

func TestStepRowsOnlyWritesRange(t *testing.T) {
	src := core.MustGrid(6)
	for c := 0; c < 6; c++ {
		src.Write(0, c, core.SpeciesA)
		src.Write(5, c, core.SpeciesA)
	}
	dst := core.MustGrid(6)
	dst.Write(4, 4, core.SpeciesB) // stale value must be cleared
	StepRows(src, dst, 2, 4)
	if total, _, _ := dst.Population(); total != 0 {
		t.Fatalf("rows 2..3 have no live neighbours; got %d live cells", total)
	}
}
