// Package automation runs scripted sequences and randomized batches of
// experiments.
package automation

import (
	"context"
	"fmt"
	"os"

	"github.com/san-kum/ragdoll/internal/config"
	"github.com/san-kum/ragdoll/internal/experiment"
	"github.com/san-kum/ragdoll/internal/logging"
	"github.com/san-kum/ragdoll/internal/sim"
	"github.com/san-kum/ragdoll/internal/storage"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of runs.
type Scenario struct {
	Name        string `yaml:"name"`
	Description string `yaml:"description"`
	Steps       []Step `yaml:"steps"`
}

// Step overlays the base config. Zero fields keep the base value; a preset
// replaces the base before the other fields apply.
type Step struct {
	Name        string              `yaml:"name"`
	Model       string              `yaml:"model"`
	Preset      string              `yaml:"preset"`
	Control     string              `yaml:"control"`
	Dt          float64             `yaml:"dt"`
	Duration    float64             `yaml:"duration"`
	BalanceGain *float64            `yaml:"balance_gain"`
	Input       *config.InputConfig `yaml:"input"`
	Sweep       *config.SweepConfig `yaml:"sweep"`
	Save        bool                `yaml:"save"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return ParseScenario(data)
}

func ParseScenario(data []byte) (*Scenario, error) {
	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, err
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %q has no steps", scenario.Name)
	}
	return &scenario, nil
}

// Config applies the step to a copy of base.
func (s Step) Config(base *config.Config) (*config.Config, error) {
	cfg := *base
	if s.Model != "" {
		cfg.Model = s.Model
	}
	if s.Preset != "" {
		p := config.GetPreset(cfg.Model, s.Preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(cfg.Model))
		}
		p.DataDir, p.Log, p.Workers = cfg.DataDir, cfg.Log, cfg.Workers
		cfg = *p
	}
	if s.Control != "" {
		cfg.Control = s.Control
	}
	if s.Dt != 0 {
		cfg.Dt = s.Dt
	}
	if s.Duration != 0 {
		cfg.Duration = s.Duration
	}
	if s.BalanceGain != nil {
		cfg.BalanceGain = *s.BalanceGain
	}
	if s.Input != nil {
		cfg.Input = *s.Input
	}
	if s.Sweep != nil {
		cfg.Sweep = *s.Sweep
	}
	return &cfg, nil
}

// StepResult is one finished step. RunID is set when the step was saved.
type StepResult struct {
	Index  int
	Name   string
	Model  string
	Result *sim.Result
	RunID  string
}

// RunScenario runs the steps in order and stops at the first failure,
// returning the steps finished so far. store may be nil when no step saves.
func RunScenario(ctx context.Context, scenario *Scenario, base *config.Config, registry *experiment.Registry, store *storage.Store, log logging.Logger) ([]StepResult, error) {
	log = logging.OrNoOp(log)
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	results := make([]StepResult, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step%d", i+1)
		}
		cfg, err := step.Config(base)
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		log.Info("scenario step", "step", i+1, "of", len(scenario.Steps), "name", name, "model", cfg.Model)

		exp := experiment.New(cfg, registry, log)
		if err := exp.Setup(); err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		result, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		sr := StepResult{Index: i, Name: name, Model: exp.Model().Name, Result: result}
		if step.Save {
			if store == nil {
				return results, fmt.Errorf("step %d: save requested without a store", i+1)
			}
			sr.RunID, err = store.Save(storage.RunMetadata{
				Model:      sr.Model,
				Dt:         cfg.Dt,
				Duration:   cfg.Duration,
				Integrator: cfg.Integrator,
				Control:    cfg.Control,
				Bodies:     exp.Model().Tree.Len(),
				Effectors:  len(exp.Model().Effectors),
			}, result)
			if err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}
		results = append(results, sr)
	}
	return results, nil
}
