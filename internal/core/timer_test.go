package core

import (
	"testing"
	"time"
)

func TestPacerDue(t *testing.T) {
	now := time.Unix(0, 0)
	p := NewPacer(10)
	p.clock = func() time.Time { return now }

	if got := p.Due(5); got != 1 {
		t.Fatalf("first Due = %d, want 1", got)
	}
	now = now.Add(50 * time.Millisecond)
	if got := p.Due(5); got != 0 {
		t.Fatalf("Due after 50ms = %d, want 0", got)
	}
	now = now.Add(260 * time.Millisecond)
	if got := p.Due(5); got != 3 {
		t.Fatalf("Due after 310ms = %d, want 3", got)
	}
	now = now.Add(10 * time.Second)
	if got := p.Due(5); got != 5 {
		t.Fatalf("Due after stall = %d, want cap 5", got)
	}
}
