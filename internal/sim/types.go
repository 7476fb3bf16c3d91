package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/model"
)

// Source produces the control input for the step starting at t.
type Source interface {
	Input(t float64) model.Input
}

// BoneSample is one emitted transform. Local is parent-relative, or world
// space for the root bone.
type BoneSample struct {
	Name string
	// Parent is empty for the root bone.
	Parent string
	Local  mgl64.Mat4
	World  mgl64.Mat4
}

// Sample is one model's state after a step.
type Sample struct {
	Time           float64
	Step           int
	Model          string
	Input          model.Input
	COM            mgl64.Vec3
	EffectorErrors []float64
	Bones          []BoneSample
}

type Metric interface {
	Name() string
	Observe(s *Sample)
	Value() float64
	Reset()
}

type Observer interface {
	OnStep(s *Sample)
}

type Config struct {
	Dt            float64
	Duration      float64
	Workers       int
	ValidateState bool
	// RecordBones keeps every bone transform in the result.
	RecordBones bool
}

type Result struct {
	Samples    []Sample
	Metrics    map[string]float64
	StepsTaken int
	Errors     []error
}

// Model returns the samples of one model in step order.
func (r *Result) Model(name string) []Sample {
	var out []Sample
	for _, s := range r.Samples {
		if s.Model == name {
			out = append(out, s)
		}
	}
	return out
}
