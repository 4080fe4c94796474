package wsring

import (
	"encoding/binary"
	"errors"
	"fmt"

	"ringlife/internal/core"
	"ringlife/internal/halo"
)

// Frame kinds.
const (
	kindUp      byte = 1
	kindDown    byte = 2
	kindReport  byte = 3
	kindVerdict byte = 4
)

const headerLen = 5

// rowKind maps a halo phase to the frame kind carrying its rows.
func rowKind(tag halo.Tag) (byte, error) {
	switch tag {
	case halo.TagUp:
		return kindUp, nil
	case halo.TagDown:
		return kindDown, nil
	default:
		return 0, fmt.Errorf("%w: no frame kind for %s", ErrFrame, tag)
	}
}

var (
	// ErrFrame reports a malformed or unexpected frame.
	ErrFrame = errors.New("wsring: bad frame")
	// ErrDesync reports a frame from the wrong generation or phase.
	ErrDesync = errors.New("wsring: peers out of step")
)

// encode lays out [kind][seq u32 BE][flag?][cells...]. flag is written only
// when withFlag is set.
func encode(kind byte, seq uint32, withFlag, flag bool, cells []core.Cell) []byte {
	size := headerLen + len(cells)
	if withFlag {
		size++
	}
	buf := make([]byte, size)
	buf[0] = kind
	binary.BigEndian.PutUint32(buf[1:headerLen], seq)
	off := headerLen
	if withFlag {
		if flag {
			buf[off] = 1
		}
		off++
	}
	for i, c := range cells {
		buf[off+i] = byte(c)
	}
	return buf
}

type frame struct {
	kind    byte
	seq     uint32
	flag    bool
	payload []byte
}

func decode(data []byte, withFlag bool) (frame, error) {
	need := headerLen
	if withFlag {
		need++
	}
	if len(data) < need {
		return frame{}, fmt.Errorf("%w: %d bytes", ErrFrame, len(data))
	}
	f := frame{kind: data[0], seq: binary.BigEndian.Uint32(data[1:headerLen])}
	off := headerLen
	if withFlag {
		switch data[off] {
		case 0:
		case 1:
			f.flag = true
		default:
			return frame{}, fmt.Errorf("%w: flag byte %d", ErrFrame, data[off])
		}
		off++
	}
	f.payload = data[off:]
	return f, nil
}

// cellsInto validates and copies payload into dst.
func cellsInto(dst []core.Cell, payload []byte) error {
	if len(payload) != len(dst) {
		return fmt.Errorf("%w: %d cells, want %d", ErrFrame, len(payload), len(dst))
	}
	for i, b := range payload {
		c := core.Cell(b)
		if c > core.SpeciesB {
			return fmt.Errorf("%w: cell value %d", ErrFrame, b)
		}
		dst[i] = c
	}
	return nil
}
