// Package experiment wires a Config into a world, a model, an input
// source and a simulator.
package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/ragdoll/internal/config"
	"github.com/san-kum/ragdoll/internal/control"
	"github.com/san-kum/ragdoll/internal/logging"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/physics"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/sim"
)

type Experiment struct {
	cfg       *config.Config
	registry  *Registry
	log       logging.Logger
	world     *physics.World
	model     *model.Model
	source    sim.Source
	simulator *sim.Simulator
}

func New(cfg *config.Config, registry *Registry, log logging.Logger) *Experiment {
	if registry == nil {
		registry = NewRegistry()
	}
	return &Experiment{cfg: cfg, registry: registry, log: logging.OrNoOp(log)}
}

// Setup builds everything Run needs. extra metrics are added after the
// defaults.
func (e *Experiment) Setup(extra ...sim.Metric) error {
	if err := e.cfg.Validate(); err != nil {
		return err
	}

	desc, root, err := e.assets()
	if err != nil {
		return err
	}

	world, err := physics.NewWorld(e.cfg.PhysicsOptions())
	if err != nil {
		return err
	}

	opts := e.cfg.ModelOptions()
	opts.Logger = e.log
	m, err := model.Build(world, desc, root, opts)
	if err != nil {
		return fmt.Errorf("build %s: %w", desc.Asset, err)
	}

	source, err := control.ByName(e.cfg.Control, e.cfg.ControlInput(), e.cfg.SweepParams())
	if err != nil {
		return err
	}

	e.world, e.model, e.source = world, m, source
	e.simulator = sim.New(world, source, m)
	e.simulator.SetLogger(e.log)
	e.simulator.Forward(sim.WriteScene)
	for _, metric := range e.registry.DefaultMetrics() {
		e.simulator.AddMetric(metric)
	}
	for _, metric := range extra {
		e.simulator.AddMetric(metric)
	}
	return nil
}

func (e *Experiment) assets() (*rig.Descriptor, *scene.Node, error) {
	if e.cfg.Descriptor != "" {
		return e.registry.LoadFiles(e.cfg.Descriptor, e.cfg.Scene)
	}
	return e.registry.GetModel(e.cfg.Model)
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulator == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulator.Run(ctx, sim.Config{
		Dt:            e.cfg.Dt,
		Duration:      e.cfg.Duration,
		Workers:       e.cfg.Workers,
		ValidateState: true,
		RecordBones:   true,
	})
}

func (e *Experiment) Simulator() *sim.Simulator { return e.simulator }
func (e *Experiment) Model() *model.Model       { return e.model }
func (e *Experiment) World() *physics.World     { return e.world }
func (e *Experiment) Source() sim.Source        { return e.source }
