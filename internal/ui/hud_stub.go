//go:build !ebiten

package ui

import "ringlife/internal/core"

// HUD stands in for the parameter panel when the ebiten build tag is absent.
type HUD struct{}

// NewHUD returns nil; there is no window to draw into.
func NewHUD(int) *HUD { return nil }

// Update ignores the parameters in headless builds.
func (h *HUD) Update(core.ParameterSnapshot) {}

// Draw does nothing in headless builds.
func (h *HUD) Draw(any, int, int) {}
