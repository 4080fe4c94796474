package core

import "context"

// Sim is the view drivers and renderers get of a running simulation.
type Sim interface {
	Name() string
	Size() int
	Generation() int
	Step(ctx context.Context) (bool, error)
	Snapshot() *Grid
}
