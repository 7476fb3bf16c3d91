package sim

import (
	"context"
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/logging"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/skeleton"
)

// Simulator runs a Manager for a fixed duration, feeding it input from a
// Source and reporting each model's state to metrics and observers.
type Simulator struct {
	manager   *Manager
	source    Source
	metrics   []Metric
	observers []Observer
	forward   skeleton.Consumer
	bones     [][]BoneSample
	log       logging.Logger
}

func New(w dynamo.World, source Source, models ...*model.Model) *Simulator {
	s := &Simulator{
		manager:   NewManager(w, 0),
		source:    source,
		metrics:   make([]Metric, 0),
		observers: make([]Observer, 0),
		bones:     make([][]BoneSample, len(models)),
		log:       logging.NoOp{},
	}
	for i, m := range models {
		s.manager.Add(m, s.recorder(i, m.Skeleton()))
	}
	return s
}

func (s *Simulator) AddMetric(m Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulator) AddObserver(o Observer) { s.observers = append(s.observers, o) }

// Forward also hands every emitted transform to c, e.g. WriteScene.
func (s *Simulator) Forward(c skeleton.Consumer) { s.forward = c }

func (s *Simulator) SetLogger(l logging.Logger) { s.log = logging.OrNoOp(l) }

func (s *Simulator) Manager() *Manager { return s.manager }

func (s *Simulator) recorder(i int, skel *skeleton.Controller) skeleton.Consumer {
	return func(b skeleton.Bone, local mgl64.Mat4) {
		sample := BoneSample{
			Name:  boneName(b),
			Local: local,
			World: s.manager.world.BodyMatrix(b.Body),
		}
		if b.Parent != skeleton.NoBone {
			sample.Parent = boneName(skel.Bone(b.Parent))
		}
		s.bones[i] = append(s.bones[i], sample)
		if s.forward != nil {
			s.forward(b, local)
		}
	}
}

func boneName(b skeleton.Bone) string {
	if n, ok := b.UserData.(*scene.Node); ok {
		return n.Name
	}
	return fmt.Sprintf("bone%d", b.ID)
}

// WriteScene copies an emitted transform into the bone's scene node.
func WriteScene(b skeleton.Bone, local mgl64.Mat4) {
	if n, ok := b.UserData.(*scene.Node); ok {
		n.Local = local
	}
}

func (s *Simulator) Run(ctx context.Context, cfg Config) (*Result, error) {
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	s.manager.workers = cfg.Workers
	if s.manager.workers <= 0 {
		s.manager.workers = dynamo.DefaultWorkers
	}

	steps := int(cfg.Duration/cfg.Dt + 0.5)
	models := s.manager.Models()
	result := &Result{
		Samples: make([]Sample, 0, steps*len(models)),
		Metrics: make(map[string]float64),
		Errors:  make([]error, 0),
	}
	for _, m := range s.metrics {
		m.Reset()
	}
	s.log.Info("run started", "models", len(models), "steps", steps, "dt", cfg.Dt)

	for i := 0; i < steps; i++ {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		t := s.manager.Time()
		in := s.source.Input(t)
		for j := range s.bones {
			s.bones[j] = s.bones[j][:0]
		}

		if err := s.manager.Step(cfg.Dt, in); err != nil {
			if cfg.ValidateState && errors.Is(err, dynamo.ErrInvalidState) {
				result.Errors = append(result.Errors, dynamo.SimError{Time: t, Step: i, Message: err.Error()})
				s.log.Warn("run stopped on invalid state", "step", i)
				break
			}
			return result, err
		}
		result.StepsTaken++

		for j, m := range models {
			sample := s.sample(m, j, i, in, cfg.RecordBones)
			for _, metric := range s.metrics {
				metric.Observe(&sample)
			}
			for _, obs := range s.observers {
				obs.OnStep(&sample)
			}
			result.Samples = append(result.Samples, sample)
		}
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}
	s.log.Info("run finished", "steps", result.StepsTaken, "errors", len(result.Errors))
	return result, nil
}

func (s *Simulator) sample(m *model.Model, idx, step int, in model.Input, keepBones bool) Sample {
	sample := Sample{
		Time:           s.manager.Time(),
		Step:           step,
		Model:          m.Name,
		Input:          in,
		COM:            m.CentreOfMass(),
		EffectorErrors: make([]float64, len(m.Effectors)),
	}
	for k, e := range m.Effectors {
		sample.EffectorErrors[k] = e.PositionError(m.World)
	}
	if keepBones {
		sample.Bones = append([]BoneSample(nil), s.bones[idx]...)
	}
	return sample
}

func validateConfig(cfg Config) error {
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if cfg.Duration <= 0 {
		return fmt.Errorf("duration must be positive, got %f", cfg.Duration)
	}
	return nil
}

// Step advances every model by dt with the source's input and returns each
// model's sample, bones included. Metrics and observers are not fed.
func (s *Simulator) Step(dt float64) ([]Sample, error) {
	in := s.source.Input(s.manager.Time())
	for j := range s.bones {
		s.bones[j] = s.bones[j][:0]
	}
	step := s.manager.Steps()
	if err := s.manager.Step(dt, in); err != nil {
		return nil, err
	}
	models := s.manager.Models()
	samples := make([]Sample, len(models))
	for j, m := range models {
		samples[j] = s.sample(m, j, step, in, true)
	}
	return samples, nil
}

// RunWithCallback steps until the duration elapses or callback returns
// false. The callback sees each model's latest sample with bones.
func (s *Simulator) RunWithCallback(ctx context.Context, cfg Config, callback func(samples []Sample) bool) error {
	if err := validateConfig(cfg); err != nil {
		return err
	}
	for s.manager.Time() < cfg.Duration {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		samples, err := s.Step(cfg.Dt)
		if err != nil {
			return err
		}
		if !callback(samples) {
			return nil
		}
	}
	return nil
}
