package automation

import (
	"context"
	"math/rand"
	"time"

	"github.com/san-kum/ragdoll/internal/config"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/experiment"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/sim"
)

// MonteCarloConfig perturbs the constant input of Base. Offsets are drawn
// uniformly from ±Perturbation and pitch from ±PitchPerturbation degrees.
type MonteCarloConfig struct {
	Base              *config.Config
	Perturbation      float64
	PitchPerturbation float64
	NumTrials         int
	Seed              int64
}

type MonteCarloResult struct {
	Trial int
	// Input is in config units, pitch in degrees.
	Input   config.InputConfig
	Metrics map[string]float64
	Errors  int
	// Stable is true when the run finished without error and the centre of
	// mass never dropped below the collapse height.
	Stable bool
}

// RunMonteCarlo runs every trial concurrently, one world each.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, registry *experiment.Registry) ([]MonteCarloResult, error) {
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	inputs := make([]config.InputConfig, cfg.NumTrials)
	for i := range inputs {
		in := cfg.Base.Input
		in.X += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		in.Y += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		in.Z += (rng.Float64() - 0.5) * 2 * cfg.Perturbation
		in.Pitch += (rng.Float64() - 0.5) * 2 * cfg.PitchPerturbation
		inputs[i] = in
	}

	factory := func(run int) (dynamo.World, sim.Source, []*model.Model, error) {
		trialCfg := *cfg.Base
		trialCfg.Control = "constant"
		trialCfg.Input = inputs[run]
		exp := experiment.New(&trialCfg, registry, nil)
		if err := exp.Setup(); err != nil {
			return nil, nil, nil, err
		}
		return exp.World(), exp.Source(), []*model.Model{exp.Model()}, nil
	}

	ensemble := sim.NewEnsemble(factory, cfg.NumTrials, registry.DefaultMetrics)
	runs, err := ensemble.Run(ctx, sim.Config{
		Dt:            cfg.Base.Dt,
		Duration:      cfg.Base.Duration,
		ValidateState: true,
	})
	if err != nil {
		return nil, err
	}

	results := make([]MonteCarloResult, len(runs))
	for i, r := range runs {
		results[i] = MonteCarloResult{
			Trial:   i,
			Input:   inputs[i],
			Metrics: r.Metrics,
			Errors:  len(r.Errors),
			Stable:  len(r.Errors) == 0 && r.Metrics["stability"] == 1,
		}
	}
	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
