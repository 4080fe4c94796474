//go:build !ebiten

package ui

// Overlay stands in for the status line when the ebiten build tag is absent.
type Overlay struct{}

// NewOverlay returns an overlay that never draws.
func NewOverlay() *Overlay { return &Overlay{} }

// Update has no keys to poll in headless builds.
func (o *Overlay) Update() {}

// Draw discards the status and help lines.
func (o *Overlay) Draw(any, string, string) {}
