// Package optim searches config parameters for the lowest metric value.
package optim

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/san-kum/ragdoll/internal/config"
	"github.com/san-kum/ragdoll/internal/experiment"
)

// Setter applies one parameter value to a config.
type Setter func(cfg *config.Config, v float64)

// Params are the tunable config fields. Angles are in degrees, as in the
// config file.
var Params = map[string]Setter{
	"balance_gain": func(c *config.Config, v float64) { c.BalanceGain = v },
	"dt":           func(c *config.Config, v float64) { c.Dt = v },
	"gravity":      func(c *config.Config, v float64) { c.Gravity = v },
	"max_omega":    func(c *config.Config, v float64) { c.MaxOmega = v },
	"x":            func(c *config.Config, v float64) { c.Input.X = v },
	"y":            func(c *config.Config, v float64) { c.Input.Y = v },
	"z":            func(c *config.Config, v float64) { c.Input.Z = v },
	"pitch":        func(c *config.Config, v float64) { c.Input.Pitch = v },
}

func ParamNames() []string {
	names := make([]string, 0, len(Params))
	for name := range Params {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseParam reads "name=v1,v2,...".
func ParseParam(spec string) (string, []float64, error) {
	name, list, ok := strings.Cut(spec, "=")
	if !ok || list == "" {
		return "", nil, fmt.Errorf("param %q: want name=v1,v2", spec)
	}
	if _, ok := Params[name]; !ok {
		return "", nil, fmt.Errorf("unknown param %s (available: %v)", name, ParamNames())
	}
	var values []float64
	for _, f := range strings.Split(list, ",") {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return "", nil, fmt.Errorf("param %s: %w", name, err)
		}
		values = append(values, v)
	}
	return name, values, nil
}

// Trial is one evaluated grid point.
type Trial struct {
	Params map[string]float64
	Value  float64
	Err    error
}

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) (*GridSearch, error) {
	if len(params) != len(ranges) {
		return nil, fmt.Errorf("%d params but %d ranges", len(params), len(ranges))
	}
	for i, name := range params {
		if _, ok := Params[name]; !ok {
			return nil, fmt.Errorf("unknown param %s", name)
		}
		if len(ranges[i]) == 0 {
			return nil, fmt.Errorf("param %s has no values", name)
		}
	}
	return &GridSearch{paramNames: params, ranges: ranges}, nil
}

// Search runs base with every combination of values and returns the trial
// with the lowest metric together with all trials in grid order. Failed
// trials are kept with their error; Search only fails when every trial
// does or ctx is cancelled.
func (g *GridSearch) Search(ctx context.Context, base *config.Config, registry *experiment.Registry, metricName string) (Trial, []Trial, error) {
	if registry == nil {
		registry = experiment.NewRegistry()
	}
	var trials []Trial
	err := g.searchRecursive(ctx, 0, make(map[string]float64), func(params map[string]float64) {
		trials = append(trials, g.evaluate(ctx, base, registry, params, metricName))
	})
	if err != nil {
		return Trial{}, trials, err
	}

	best := Trial{Value: math.Inf(1)}
	found := false
	for _, t := range trials {
		if t.Err == nil && t.Value < best.Value {
			best, found = t, true
		}
	}
	if !found {
		return Trial{}, trials, fmt.Errorf("all %d trials failed: %w", len(trials), trials[0].Err)
	}
	return best, trials, nil
}

func (g *GridSearch) evaluate(ctx context.Context, base *config.Config, registry *experiment.Registry, params map[string]float64, metricName string) Trial {
	trial := Trial{Params: params}
	cfg := *base
	for name, v := range params {
		Params[name](&cfg, v)
	}

	exp := experiment.New(&cfg, registry, nil)
	if err := exp.Setup(); err != nil {
		trial.Err = err
		return trial
	}
	result, err := exp.Run(ctx)
	if err != nil {
		trial.Err = err
		return trial
	}
	val, ok := result.Metrics[metricName]
	if !ok {
		trial.Err = fmt.Errorf("unknown metric %s", metricName)
		return trial
	}
	trial.Value = val
	return trial
}

func (g *GridSearch) searchRecursive(ctx context.Context, depth int, current map[string]float64, visit func(map[string]float64)) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if depth == len(g.paramNames) {
		visit(current)
		return nil
	}

	paramName := g.paramNames[depth]
	for _, val := range g.ranges[depth] {
		newParams := make(map[string]float64, len(current)+1)
		for k, v := range current {
			newParams[k] = v
		}
		newParams[paramName] = val

		if err := g.searchRecursive(ctx, depth+1, newParams, visit); err != nil {
			return err
		}
	}
	return nil
}
