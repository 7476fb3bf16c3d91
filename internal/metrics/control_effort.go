package metrics

import (
	"math"

	"github.com/san-kum/ragdoll/internal/sim"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// ControlEffort is the mean absolute control input per step.
type ControlEffort struct {
	name    string
	sum     float64
	samples int
}

func NewControlEffort() *ControlEffort {
	return &ControlEffort{
		name: "control_effort",
	}
}

func (c *ControlEffort) Name() string {
	return c.name
}

func (c *ControlEffort) Observe(s *sim.Sample) {
	in := s.Input
	c.sum += math.Abs(in.X) + math.Abs(in.Y) + math.Abs(in.Z) + math.Abs(in.Pitch)
	c.samples++
}

func (c *ControlEffort) Value() float64 {
	if c.samples == 0 {
		return 0
	}
	return c.sum / float64(c.samples)
}

func (c *ControlEffort) Reset() {
	c.sum = 0
	c.samples = 0
}

// EffectorError is the mean distance between effectors and their targets
// over all steps.
type EffectorError struct {
	name  string
	means []float64
	worst float64
}

func NewEffectorError() *EffectorError {
	return &EffectorError{name: "effector_error"}
}

func (e *EffectorError) Name() string { return e.name }

func (e *EffectorError) Observe(s *sim.Sample) {
	if len(s.EffectorErrors) == 0 {
		return
	}
	e.means = append(e.means, stat.Mean(s.EffectorErrors, nil))
	e.worst = math.Max(e.worst, floats.Max(s.EffectorErrors))
}

func (e *EffectorError) Value() float64 {
	if len(e.means) == 0 {
		return 0
	}
	return stat.Mean(e.means, nil)
}

// Worst is the largest single effector error seen.
func (e *EffectorError) Worst() float64 { return e.worst }

func (e *EffectorError) Reset() {
	e.means = e.means[:0]
	e.worst = 0
}
