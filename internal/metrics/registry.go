// Package metrics summarizes a run from its per-step samples.
package metrics

import (
	"fmt"
	"sort"

	"github.com/san-kum/ragdoll/internal/sim"
)

// DefaultMinHeight is the collapse threshold of the stability metric.
const DefaultMinHeight = 0.3

var registry = map[string]func() sim.Metric{
	"com_height":     func() sim.Metric { return NewCOMHeight() },
	"com_drift":      func() sim.Metric { return NewCOMDrift() },
	"control_effort": func() sim.Metric { return NewControlEffort() },
	"effector_error": func() sim.Metric { return NewEffectorError() },
	"stability":      func() sim.Metric { return NewStability(DefaultMinHeight) },
}

func ByName(name string) (sim.Metric, error) {
	fn, ok := registry[name]
	if !ok {
		return nil, fmt.Errorf("unknown metric: %s", name)
	}
	return fn(), nil
}

func Names() []string {
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// All returns a fresh instance of every metric.
func All() []sim.Metric {
	out := make([]sim.Metric, 0, len(registry))
	for _, n := range Names() {
		out = append(out, registry[n]())
	}
	return out
}
