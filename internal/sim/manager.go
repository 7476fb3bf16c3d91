package sim

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/skeleton"
)

type entry struct {
	model    *model.Model
	consumer skeleton.Consumer
}

// Manager steps every registered model sharing one world: pre-update,
// world step, post-update. Models are independent, so both hooks run
// across models in parallel; a consumer is only ever called for its own
// model.
type Manager struct {
	world   dynamo.World
	entries []entry
	workers int
	time    float64
	steps   int
}

func NewManager(w dynamo.World, workers int) *Manager {
	if workers <= 0 {
		workers = dynamo.DefaultWorkers
	}
	return &Manager{world: w, workers: workers}
}

// Add registers m. consumer may be nil.
func (m *Manager) Add(mod *model.Model, consumer skeleton.Consumer) {
	if consumer == nil {
		consumer = func(skeleton.Bone, mgl64.Mat4) {}
	}
	m.entries = append(m.entries, entry{model: mod, consumer: consumer})
}

func (m *Manager) Models() []*model.Model {
	out := make([]*model.Model, len(m.entries))
	for i, e := range m.entries {
		out[i] = e.model
	}
	return out
}

func (m *Manager) World() dynamo.World { return m.world }
func (m *Manager) Time() float64       { return m.time }
func (m *Manager) Steps() int          { return m.steps }

// Step advances every model by dt with in applied to all of them.
func (m *Manager) Step(dt float64, in model.Input) error {
	m.PreUpdate(dt, in)
	if err := m.world.Step(dt); err != nil {
		return err
	}
	m.PostUpdate()
	m.time += dt
	m.steps++
	return nil
}

func (m *Manager) PreUpdate(dt float64, in model.Input) {
	dynamo.ParallelFor(len(m.entries), 1, m.workers, func(start, end, _ int) {
		for i := start; i < end; i++ {
			m.entries[i].model.PreUpdate(dt, in)
		}
	})
}

func (m *Manager) PostUpdate() {
	dynamo.ParallelFor(len(m.entries), 1, m.workers, func(start, end, _ int) {
		for i := start; i < end; i++ {
			m.entries[i].model.PostUpdate(m.entries[i].consumer)
		}
	})
}
