package sim

import (
	"context"
	"sync"

	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/model"
)

// Factory builds the world, models and input source of one ensemble run.
type Factory func(run int) (dynamo.World, Source, []*model.Model, error)

// Ensemble runs independent simulations concurrently, one world each.
type Ensemble struct {
	factory Factory
	numRuns int
	metrics func() []Metric
}

// NewEnsemble takes a metrics constructor since metrics hold per-run state.
func NewEnsemble(factory Factory, numRuns int, metrics func() []Metric) *Ensemble {
	return &Ensemble{factory: factory, numRuns: numRuns, metrics: metrics}
}

func (e *Ensemble) Run(ctx context.Context, cfg Config) ([]*Result, error) {
	results := make([]*Result, e.numRuns)
	errs := make([]error, e.numRuns)

	var wg sync.WaitGroup
	for i := 0; i < e.numRuns; i++ {
		wg.Add(1)
		go func(idx int) {
			defer wg.Done()

			w, source, models, err := e.factory(idx)
			if err != nil {
				errs[idx] = err
				return
			}
			s := New(w, source, models...)
			if e.metrics != nil {
				for _, m := range e.metrics() {
					s.AddMetric(m)
				}
			}
			runCfg := cfg
			runCfg.Workers = 1
			results[idx], errs[idx] = s.Run(ctx, runCfg)
		}(i)
	}

	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return nil, err
		}
	}

	return results, nil
}
