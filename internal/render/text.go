package render

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"ringlife/internal/core"
)

// Text prints grids as rows of ' ', 'o' and 'x' between dashed rules.
type Text struct {
	w io.Writer
	// Clear emits an ANSI clear-screen before each frame.
	Clear bool
}

// NewText returns a Text renderer writing to w.
func NewText(w io.Writer) *Text { return &Text{w: w} }

// Render writes one frame with a header line.
func (t *Text) Render(header string, g *core.Grid) error {
	bw := bufio.NewWriter(t.w)
	if t.Clear {
		bw.WriteString("\x1b[H\x1b[2J")
	}
	if header != "" {
		fmt.Fprintln(bw, header)
	}
	n := g.Size()
	rule := strings.Repeat("-", n)
	bw.WriteString(rule)
	bw.WriteByte('\n')
	for r := 0; r < n; r++ {
		for _, c := range g.Row(r) {
			bw.WriteRune(c.Rune())
		}
		bw.WriteByte('\n')
	}
	bw.WriteString(rule)
	bw.WriteByte('\n')
	return bw.Flush()
}

// Parse reads a grid back from the body of a Text frame: n lines of n
// glyphs, no rules or header. Short and empty lines are padded with dead
// cells; CRLF line endings are accepted.
func Parse(s string) (*core.Grid, error) {
	lines := strings.Split(strings.TrimSuffix(s, "\n"), "\n")
	g, err := core.NewGrid(len(lines))
	if err != nil {
		return nil, err
	}
	for r, line := range lines {
		runes := []rune(strings.TrimSuffix(line, "\r"))
		if len(runes) > len(lines) {
			return nil, fmt.Errorf("render: line %d has %d cells, grid is %d wide", r, len(runes), len(lines))
		}
		for c, ch := range runes {
			switch ch {
			case 'o':
				g.Write(r, c, core.SpeciesA)
			case 'x':
				g.Write(r, c, core.SpeciesB)
			case ' ', '.':
			default:
				return nil, fmt.Errorf("render: line %d col %d: unexpected %q", r, c, ch)
			}
		}
	}
	return g, nil
}

// Header formats the status line shown above frames.
func Header(name string, gen int, g *core.Grid) string {
	total, a, b := g.Population()
	return fmt.Sprintf("%s  gen %d  live %d (o %d, x %d)", name, gen, total, a, b)
}
