package core

import "time"

// Pacer spreads generation steps over a render loop that ticks faster than
// the simulation should advance.
type Pacer struct {
	step  time.Duration
	owed  time.Duration
	last  time.Time
	clock func() time.Time
}

// NewPacer targets gps generations per second.
func NewPacer(gps int) *Pacer {
	p := &Pacer{clock: time.Now}
	p.SetRate(gps)
	// first call steps immediately
	p.owed = p.step
	return p
}

// SetRate changes the target rate. Non-positive rates fall back to 4/s.
func (p *Pacer) SetRate(gps int) {
	if gps <= 0 {
		gps = 4
	}
	p.step = time.Second / time.Duration(gps)
}

// Interval returns the time between two generations.
func (p *Pacer) Interval() time.Duration { return p.step }

// Due reports how many generations are owed since the previous call. The
// count is capped at max so a stalled loop does not burst.
func (p *Pacer) Due(max int) int {
	now := p.clock()
	if p.last.IsZero() {
		p.last = now
	}
	p.owed += now.Sub(p.last)
	p.last = now
	n := 0
	for p.owed >= p.step && n < max {
		p.owed -= p.step
		n++
	}
	if n == max {
		p.owed = 0
	}
	return n
}
