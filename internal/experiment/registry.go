package experiment

import (
	"fmt"
	"sort"
	"sync"

	"github.com/san-kum/ragdoll/internal/metrics"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/sim"
)

type asset struct {
	descriptor func() (*rig.Descriptor, error)
	scene      func() (*scene.Node, error)
}

// Registry resolves model names and files into descriptors and scenes.
// Descriptors loaded from files are parsed once and cloned per request.
type Registry struct {
	mu     sync.Mutex
	models map[string]asset
	files  map[string]*rig.Descriptor
}

func NewRegistry() *Registry {
	r := &Registry{
		models: make(map[string]asset),
		files:  make(map[string]*rig.Descriptor),
	}
	for _, name := range rig.BuiltinNames() {
		name := name
		r.models[name] = asset{
			descriptor: func() (*rig.Descriptor, error) {
				d, _ := rig.Builtin(name)
				return d, nil
			},
			scene: func() (*scene.Node, error) {
				n, ok := scene.Builtin(name)
				if !ok {
					return nil, fmt.Errorf("no scene for model: %s", name)
				}
				return n, nil
			},
		}
	}
	return r
}

func (r *Registry) GetModel(name string) (*rig.Descriptor, *scene.Node, error) {
	a, ok := r.models[name]
	if !ok {
		return nil, nil, fmt.Errorf("unknown model: %s", name)
	}
	d, err := a.descriptor()
	if err != nil {
		return nil, nil, err
	}
	n, err := a.scene()
	if err != nil {
		return nil, nil, err
	}
	return d, n, nil
}

// LoadFiles reads a descriptor and scene from YAML files.
func (r *Registry) LoadFiles(descriptorPath, scenePath string) (*rig.Descriptor, *scene.Node, error) {
	r.mu.Lock()
	d, ok := r.files[descriptorPath]
	if !ok {
		var err error
		d, err = rig.Load(descriptorPath)
		if err != nil {
			r.mu.Unlock()
			return nil, nil, fmt.Errorf("load descriptor: %w", err)
		}
		r.files[descriptorPath] = d
	}
	r.mu.Unlock()

	clone, err := d.Clone()
	if err != nil {
		return nil, nil, err
	}
	n, err := scene.Load(scenePath)
	if err != nil {
		return nil, nil, fmt.Errorf("load scene: %w", err)
	}
	return clone, n, nil
}

func (r *Registry) ListModels() []string {
	names := make([]string, 0, len(r.models))
	for name := range r.models {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) DefaultMetrics() []sim.Metric {
	return metrics.All()
}
