package core

// Buffers is the current/next grid pair owned by one worker. Swap exchanges
// the roles without copying cells.
type Buffers struct {
	cur, nxt *Grid
}

// NewBuffers allocates both grids at size n.
func NewBuffers(n int) (*Buffers, error) {
	cur, err := NewGrid(n)
	if err != nil {
		return nil, err
	}
	nxt, err := NewGrid(n)
	if err != nil {
		return nil, err
	}
	return &Buffers{cur: cur, nxt: nxt}, nil
}

// Current is the grid read during a pass.
func (b *Buffers) Current() *Grid { return b.cur }

// Next is the grid written during a pass.
func (b *Buffers) Next() *Grid { return b.nxt }

// Swap promotes Next to Current.
func (b *Buffers) Swap() { b.cur, b.nxt = b.nxt, b.cur }
