package core

// Cell is the state of a single grid location.
type Cell uint8

const (
	Dead Cell = iota
	SpeciesA
	SpeciesB
)

// Alive reports whether the cell holds either species.
func (c Cell) Alive() bool { return c == SpeciesA || c == SpeciesB }

// Rune is the glyph used by the text renderer.
func (c Cell) Rune() rune {
	switch c {
	case SpeciesA:
		return 'o'
	case SpeciesB:
		return 'x'
	default:
		return ' '
	}
}

func (c Cell) String() string {
	switch c {
	case Dead:
		return "dead"
	case SpeciesA:
		return "A"
	case SpeciesB:
		return "B"
	default:
		return "invalid"
	}
}
