package metrics

import (
	"github.com/san-kum/ragdoll/internal/sim"
)

// Stability is the fraction of samples whose centre of mass stays above
// minHeight, i.e. the model has not collapsed.
type Stability struct {
	name       string
	minHeight  float64
	violations int
	samples    int
}

func NewStability(minHeight float64) *Stability {
	return &Stability{
		name:      "stability",
		minHeight: minHeight,
	}
}

func (s *Stability) Name() string {
	return s.name
}

func (s *Stability) Observe(sample *sim.Sample) {
	s.samples++
	if sample.COM.Y() < s.minHeight {
		s.violations++
	}
}

func (s *Stability) Value() float64 {
	if s.samples == 0 {
		return 1.0
	}
	return 1.0 - float64(s.violations)/float64(s.samples)
}

func (s *Stability) Reset() {
	s.violations = 0
	s.samples = 0
}
