package render

import (
	"fmt"

	"github.com/gdamore/tcell/v2"

	"ringlife/internal/core"
)

// Terminal draws grids full-screen with tcell, two columns per cell.
type Terminal struct {
	screen tcell.Screen
	quit   chan struct{}
}

// NewTerminal takes over the terminal. Close must be called to restore it.
func NewTerminal() (*Terminal, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, fmt.Errorf("render: creating screen: %w", err)
	}
	return newTerminal(screen)
}

func newTerminal(screen tcell.Screen) (*Terminal, error) {
	if err := screen.Init(); err != nil {
		return nil, fmt.Errorf("render: initialising screen: %w", err)
	}
	screen.SetStyle(tcell.StyleDefault.Background(tcell.ColorBlack).Foreground(tcell.ColorWhite))
	screen.Clear()
	t := &Terminal{screen: screen, quit: make(chan struct{})}
	go t.pollKeys()
	return t, nil
}

func (t *Terminal) pollKeys() {
	for {
		ev := t.screen.PollEvent()
		switch ev := ev.(type) {
		case nil:
			return
		case *tcell.EventKey:
			if ev.Key() == tcell.KeyEscape || ev.Key() == tcell.KeyCtrlC || ev.Rune() == 'q' {
				close(t.quit)
				return
			}
		case *tcell.EventResize:
			t.screen.Sync()
		}
	}
}

// Quit is closed when the user presses q, Esc or Ctrl-C.
func (t *Terminal) Quit() <-chan struct{} { return t.quit }

func cellStyle(c core.Cell) tcell.Style {
	switch c {
	case core.SpeciesA:
		return tcell.StyleDefault.Background(tcell.ColorGreen)
	case core.SpeciesB:
		return tcell.StyleDefault.Background(tcell.ColorRed)
	default:
		return tcell.StyleDefault.Background(tcell.ColorBlack)
	}
}

// Render draws header on the first line and the grid below it.
func (t *Terminal) Render(header string, g *core.Grid) error {
	t.screen.Clear()
	col := 0
	for _, r := range header {
		t.screen.SetContent(col, 0, r, nil, tcell.StyleDefault)
		col++
	}
	n := g.Size()
	for r := 0; r < n; r++ {
		for c, cell := range g.Row(r) {
			style := cellStyle(cell)
			t.screen.SetContent(c*2, r+1, ' ', nil, style)
			t.screen.SetContent(c*2+1, r+1, ' ', nil, style)
		}
	}
	t.screen.Show()
	return nil
}

// Close restores the terminal.
func (t *Terminal) Close() error {
	t.screen.Fini()
	return nil
}
