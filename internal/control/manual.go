package control

import (
	"math"
	"sync"

	"github.com/san-kum/ragdoll/internal/model"
)

// Position offsets are clamped to ±MaxOffset and pitch to ±MaxPitch
// radians, the ranges of the live sliders.
const (
	MaxOffset = 1.0
	MaxPitch  = 30 * math.Pi / 180
)

// Manual returns whatever input was last set. Safe for use from a UI
// goroutine while the simulation reads it.
type Manual struct {
	mu sync.RWMutex
	in model.Input
}

func NewManual() *Manual {
	return &Manual{}
}

// Set stores in after clamping it to the slider ranges.
func (c *Manual) Set(in model.Input) {
	in.X = clamp(in.X, MaxOffset)
	in.Y = clamp(in.Y, MaxOffset)
	in.Z = clamp(in.Z, MaxOffset)
	in.Pitch = clamp(in.Pitch, MaxPitch)
	c.mu.Lock()
	c.in = in
	c.mu.Unlock()
}

func (c *Manual) Input(float64) model.Input {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.in
}

func clamp(v, limit float64) float64 {
	if v > limit {
		return limit
	}
	if v < -limit {
		return -limit
	}
	return v
}
