package seed

import (
	"errors"
	"slices"
	"testing"

	"ringlife/internal/core"
)

func TestNamesSorted(t *testing.T) {
	want := []string{"block", "dummy", "glider", "random", "small-exploder"}
	if got := Names(); !slices.Equal(got, want) {
		t.Fatalf("Names() = %v, want %v", got, want)
	}
}

func TestUnknownPattern(t *testing.T) {
	if _, err := Build("nope", 8, 0); !errors.Is(err, ErrUnknownPattern) {
		t.Fatalf("err = %v, want ErrUnknownPattern", err)
	}
}

func TestBadSize(t *testing.T) {
	if _, err := Build("glider", 0, 0); !errors.Is(err, core.ErrGridSize) {
		t.Fatalf("err = %v, want ErrGridSize", err)
	}
}

func TestRandomDeterministic(t *testing.T) {
	a, _ := Build("random", 32, 42)
	b, _ := Build("random", 32, 42)
	c, _ := Build("random", 32, 43)
	if !a.Equal(b) {
		t.Fatal("same seed must give the same grid")
	}
	if a.Equal(c) {
		t.Fatal("different seeds should give different grids")
	}
	total, na, nb := a.Population()
	if total == 0 || na == 0 || nb == 0 {
		t.Fatalf("random grid too sparse: %d (%d A, %d B)", total, na, nb)
	}
}

func TestFixedShapes(t *testing.T) {
	cases := []struct {
		name    string
		live    int
		species core.Cell
	}{
		{"glider", 5, core.SpeciesA},
		{"small-exploder", 7, core.SpeciesB},
		{"block", 4, core.SpeciesA},
	}
	for _, tc := range cases {
		g, err := Build(tc.name, 16, 0)
		if err != nil {
			t.Fatal(err)
		}
		total, a, b := g.Population()
		if total != tc.live {
			t.Fatalf("%s has %d live cells, want %d", tc.name, total, tc.live)
		}
		if (tc.species == core.SpeciesA && a != total) || (tc.species == core.SpeciesB && b != total) {
			t.Fatalf("%s has mixed species: a=%d b=%d", tc.name, a, b)
		}
	}
}

func TestStripes(t *testing.T) {
	g, _ := Build("dummy", 6, 0)
	for r := 0; r < 6; r++ {
		if g.Read(r, 5) != core.Cell(r%3) {
			t.Fatalf("row %d = %v", r, g.Read(r, 5))
		}
	}
}
