package control

import "github.com/san-kum/ragdoll/internal/model"

type None struct{}

func NewNone() *None {
	return &None{}
}

func (n *None) Input(float64) model.Input {
	return model.Input{}
}

// Constant returns the same input every step.
type Constant struct {
	in model.Input
}

func NewConstant(in model.Input) *Constant {
	return &Constant{in: in}
}

func (c *Constant) Input(float64) model.Input {
	return c.in
}
