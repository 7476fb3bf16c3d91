package metrics

import (
	"math"

	"github.com/san-kum/ragdoll/internal/sim"
	"gonum.org/v1/gonum/stat"
)

// COMHeight is the mean centre-of-mass height.
type COMHeight struct {
	name    string
	heights []float64
}

func NewCOMHeight() *COMHeight {
	return &COMHeight{name: "com_height"}
}

func (c *COMHeight) Name() string { return c.name }

func (c *COMHeight) Observe(s *sim.Sample) {
	c.heights = append(c.heights, s.COM.Y())
}

func (c *COMHeight) Value() float64 {
	if len(c.heights) == 0 {
		return 0
	}
	return stat.Mean(c.heights, nil)
}

// StdDev is the height's standard deviation, a measure of bobbing.
func (c *COMHeight) StdDev() float64 {
	if len(c.heights) < 2 {
		return 0
	}
	return stat.StdDev(c.heights, nil)
}

func (c *COMHeight) Reset() {
	c.heights = c.heights[:0]
}

// COMDrift is the largest horizontal distance the centre of mass moved
// from its first observed position.
type COMDrift struct {
	name     string
	origin   [2]float64
	maxDrift float64
	samples  int
}

func NewCOMDrift() *COMDrift {
	return &COMDrift{name: "com_drift"}
}

func (c *COMDrift) Name() string { return c.name }

func (c *COMDrift) Observe(s *sim.Sample) {
	if c.samples == 0 {
		c.origin = [2]float64{s.COM.X(), s.COM.Z()}
	}
	c.samples++
	d := math.Hypot(s.COM.X()-c.origin[0], s.COM.Z()-c.origin[1])
	c.maxDrift = math.Max(c.maxDrift, d)
}

func (c *COMDrift) Value() float64 { return c.maxDrift }

func (c *COMDrift) Reset() {
	c.origin = [2]float64{}
	c.maxDrift = 0
	c.samples = 0
}
