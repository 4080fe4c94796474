package render

import (
	"image/color"

	"ringlife/internal/core"
)

// DefaultPalette colours dead cells black, species A green and species B red.
var DefaultPalette = []color.RGBA{
	core.Dead:     {R: 0, G: 0, B: 0, A: 255},
	core.SpeciesA: {R: 80, G: 220, B: 100, A: 255},
	core.SpeciesB: {R: 230, G: 70, B: 60, A: 255},
}

// fillPaletteRGBA converts cell values into RGBA pixels using a palette. When
// the palette is empty the buffer is cleared to transparent black.
func fillPaletteRGBA(buf []byte, cells []core.Cell, palette []color.RGBA) {
	if len(palette) == 0 {
		clear(buf[:4*len(cells)])
		return
	}

	last := len(palette) - 1
	for i, c := range cells {
		idx := int(c)
		if idx > last {
			idx = last
		}
		base := i * 4
		col := palette[idx]
		buf[base+0] = col.R
		buf[base+1] = col.G
		buf[base+2] = col.B
		buf[base+3] = col.A
	}
}
