package control

import (
	"fmt"
	"math"

	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/sim"
)

// SweepParams are per-channel amplitudes sharing one frequency in Hz.
// Pitch is in radians.
type SweepParams struct {
	X         float64 `yaml:"x"`
	Y         float64 `yaml:"y"`
	Z         float64 `yaml:"z"`
	Pitch     float64 `yaml:"pitch"`
	Frequency float64 `yaml:"frequency"`
}

// Sweep drives every channel with a sine of its amplitude. Z lags by a
// quarter period so a nonzero X and Z trace a circle.
type Sweep struct {
	p SweepParams
}

func NewSweep(p SweepParams) *Sweep {
	return &Sweep{p: p}
}

func (s *Sweep) Input(t float64) model.Input {
	phase := 2 * math.Pi * s.p.Frequency * t
	sin, cos := math.Sin(phase), math.Cos(phase)
	in := model.Input{
		X:     s.p.X * sin,
		Y:     s.p.Y * sin,
		Z:     s.p.Z * cos,
		Pitch: s.p.Pitch * sin,
	}
	in.X = clamp(in.X, MaxOffset)
	in.Y = clamp(in.Y, MaxOffset)
	in.Z = clamp(in.Z, MaxOffset)
	in.Pitch = clamp(in.Pitch, MaxPitch)
	return in
}

// ByName builds a source: none, constant (in), manual (starting at in)
// or sweep (p).
func ByName(name string, in model.Input, p SweepParams) (sim.Source, error) {
	switch name {
	case "none", "":
		return NewNone(), nil
	case "constant":
		return NewConstant(in), nil
	case "manual":
		m := NewManual()
		m.Set(in)
		return m, nil
	case "sweep":
		return NewSweep(p), nil
	}
	return nil, fmt.Errorf("unknown control source: %s", name)
}
