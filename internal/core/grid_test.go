package core

import (
	"errors"
	"testing"
)

func TestNewGridRejectsNonPositive(t *testing.T) {
	for _, n := range []int{0, -3} {
		if _, err := NewGrid(n); !errors.Is(err, ErrGridSize) {
			t.Fatalf("NewGrid(%d) err = %v, want ErrGridSize", n, err)
		}
	}
}

func TestCodeWrapsAnyOffset(t *testing.T) {
	for _, n := range []int{1, 2, 3, 7, 32} {
		g := MustGrid(n)
		for x := 0; x < n; x++ {
			for y := 0; y < n; y++ {
				for _, dx := range []int{-2*n - 1, -n, -1, 0, 1, n, 3*n + 2} {
					for _, dy := range []int{-n - 5, -1, 0, 1, 2 * n} {
						wx := ((x+dx)%n + n) % n
						wy := ((y+dy)%n + n) % n
						want := wx*n + wy
						if got := g.Code(x, y, dx, dy); got != want {
							t.Fatalf("n=%d Code(%d,%d,%d,%d)=%d want %d", n, x, y, dx, dy, got, want)
						}
					}
				}
			}
		}
	}
}

func TestReadWriteWrap(t *testing.T) {
	g := MustGrid(4)
	g.Write(-1, -1, SpeciesA)
	if got := g.Read(3, 3); got != SpeciesA {
		t.Fatalf("Read(3,3) = %v, want A", got)
	}
	g.Write(9, 4, SpeciesB)
	if got := g.Read(1, 0); got != SpeciesB {
		t.Fatalf("Read(1,0) = %v, want B", got)
	}
	if got := g.ReadAt(0, 0, -1, -1); got != SpeciesA {
		t.Fatalf("ReadAt(0,0,-1,-1) = %v, want A", got)
	}
}

func TestRowViewAndSetRow(t *testing.T) {
	g := MustGrid(3)
	g.SetRow(-1, []Cell{SpeciesA, Dead, SpeciesB})
	row := g.Row(2)
	if row[0] != SpeciesA || row[2] != SpeciesB {
		t.Fatalf("row 2 = %v", row)
	}
	row[1] = SpeciesA
	if g.Read(2, 1) != SpeciesA {
		t.Fatal("Row must be a view into the grid")
	}
}

func TestCloneEqualPopulation(t *testing.T) {
	g := MustGrid(5)
	g.Write(0, 0, SpeciesA)
	g.Write(1, 1, SpeciesB)
	g.Write(2, 2, SpeciesB)

	c := g.Clone()
	if !c.Equal(g) {
		t.Fatal("clone must equal source")
	}
	c.Write(4, 4, SpeciesA)
	if c.Equal(g) {
		t.Fatal("clone must not share storage")
	}

	total, a, b := g.Population()
	if total != 3 || a != 1 || b != 2 {
		t.Fatalf("Population() = %d,%d,%d", total, a, b)
	}

	g.Clear()
	if total, _, _ := g.Population(); total != 0 {
		t.Fatalf("Clear left %d live cells", total)
	}
}

func TestBuffersSwap(t *testing.T) {
	b, err := NewBuffers(2)
	if err != nil {
		t.Fatal(err)
	}
	cur, nxt := b.Current(), b.Next()
	if cur == nxt {
		t.Fatal("buffers must be distinct")
	}
	b.Swap()
	if b.Current() != nxt || b.Next() != cur {
		t.Fatal("Swap must exchange ownership")
	}
}
