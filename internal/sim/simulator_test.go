package sim

import (
	"context"
	"sync"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/physics"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/skeleton"
	"github.com/san-kum/ragdoll/internal/spatial"
)

type fixedSource struct {
	in model.Input
}

func (f fixedSource) Input(float64) model.Input { return f.in }

func buildLimb(t *testing.T) (*physics.World, *model.Model) {
	t.Helper()
	w, err := physics.NewWorld(physics.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	m, err := model.Build(w, rig.Limb(), scene.Limb(), model.DefaultOptions())
	if err != nil {
		t.Fatalf("build failed: %v", err)
	}
	return w, m
}

func TestSimulatorRun(t *testing.T) {
	w, m := buildLimb(t)
	sim := New(w, fixedSource{model.Input{X: 0.1}}, m)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0, RecordBones: true})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if result.StepsTaken != 10 {
		t.Errorf("expected 10 steps, got %d", result.StepsTaken)
	}
	if len(result.Samples) != 10 {
		t.Errorf("expected 10 samples, got %d", len(result.Samples))
	}

	last := result.Samples[len(result.Samples)-1]
	if last.Step != 9 {
		t.Errorf("expected last step 9, got %d", last.Step)
	}
	if len(last.Bones) != 2 || last.Bones[0].Name != "root" || last.Bones[1].Name != "bone_A" {
		t.Errorf("unexpected bones %+v", last.Bones)
	}
	if last.Bones[0].Parent != "" || last.Bones[1].Parent != "root" {
		t.Errorf("unexpected parents %q %q", last.Bones[0].Parent, last.Bones[1].Parent)
	}
	if len(last.EffectorErrors) != 1 {
		t.Errorf("expected one effector error, got %d", len(last.EffectorErrors))
	}
	if got := len(result.Model("limb")); got != 10 {
		t.Errorf("expected 10 limb samples, got %d", got)
	}
}

func TestSimulatorInvalidConfig(t *testing.T) {
	w, m := buildLimb(t)
	sim := New(w, fixedSource{}, m)

	tests := []struct {
		name string
		cfg  Config
	}{
		{"zero dt", Config{Dt: 0, Duration: 1.0}},
		{"negative dt", Config{Dt: -0.1, Duration: 1.0}},
		{"zero duration", Config{Dt: 0.1, Duration: 0}},
		{"negative duration", Config{Dt: 0.1, Duration: -1.0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := sim.Run(context.Background(), tt.cfg); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}

type testMetric struct {
	count int
	sum   float64
}

func (t *testMetric) Name() string { return "test" }
func (t *testMetric) Observe(s *Sample) {
	t.count++
	t.sum += s.COM.Y()
}
func (t *testMetric) Value() float64 {
	if t.count == 0 {
		return 0
	}
	return t.sum / float64(t.count)
}
func (t *testMetric) Reset() {
	t.count = 0
	t.sum = 0
}

func TestSimulatorMetrics(t *testing.T) {
	w, m := buildLimb(t)
	sim := New(w, fixedSource{}, m)

	metric := &testMetric{}
	sim.AddMetric(metric)

	result, err := sim.Run(context.Background(), Config{Dt: 0.1, Duration: 1.0})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if _, ok := result.Metrics["test"]; !ok {
		t.Error("metric not found in result")
	}
	if metric.count != 10 {
		t.Errorf("expected 10 observations, got %d", metric.count)
	}
}

func TestSimulatorCancel(t *testing.T) {
	w, m := buildLimb(t)
	sim := New(w, fixedSource{}, m)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	result, err := sim.Run(ctx, Config{Dt: 0.1, Duration: 1.0})
	if err != context.Canceled {
		t.Errorf("expected context.Canceled, got %v", err)
	}
	if result.StepsTaken != 0 {
		t.Errorf("expected no steps, got %d", result.StepsTaken)
	}
}

func TestManagerParallelModels(t *testing.T) {
	w, err := physics.NewWorld(physics.DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	mgr := NewManager(w, 4)

	var mu sync.Mutex
	calls := map[string]int{}
	for i := 0; i < 3; i++ {
		root := scene.Limb()
		root.Local = mgl64.Translate3D(float64(i)*2, 1, 0)
		m, err := model.Build(w, rig.Limb(), root, model.DefaultOptions())
		if err != nil {
			t.Fatal(err)
		}
		m.Name = string(rune('a' + i))
		name := m.Name
		mgr.Add(m, func(skeleton.Bone, mgl64.Mat4) {
			mu.Lock()
			calls[name]++
			mu.Unlock()
		})
	}

	for i := 0; i < 5; i++ {
		if err := mgr.Step(1.0/60, model.Input{Y: 0.05}); err != nil {
			t.Fatal(err)
		}
	}
	if mgr.Steps() != 5 {
		t.Errorf("expected 5 steps, got %d", mgr.Steps())
	}
	for _, name := range []string{"a", "b", "c"} {
		if calls[name] != 10 {
			t.Errorf("model %s: expected 10 consumer calls, got %d", name, calls[name])
		}
	}
}

func TestWriteScene(t *testing.T) {
	w, m := buildLimb(t)
	sim := New(w, fixedSource{}, m)
	sim.Forward(WriteScene)

	bone := m.Tree.Node(m.Tree.Find("bone_A"))
	w.SetBodyMatrix(bone.Body, mgl64.Translate3D(0.2, 0.6, 0))
	sim.Manager().PostUpdate()

	want := spatial.Relative(w.BodyMatrix(bone.Body), w.BodyMatrix(m.RootBody()))
	if !spatial.ApproxEqual(bone.Scene.Local, want, 1e-12) {
		t.Errorf("expected scene node local %v, got %v", want, bone.Scene.Local)
	}
}

func TestEnsemble(t *testing.T) {
	factory := func(run int) (dynamo.World, Source, []*model.Model, error) {
		w, err := physics.NewWorld(physics.DefaultOptions())
		if err != nil {
			return nil, nil, nil, err
		}
		m, err := model.Build(w, rig.Limb(), scene.Limb(), model.DefaultOptions())
		if err != nil {
			return nil, nil, nil, err
		}
		return w, fixedSource{model.Input{X: 0.05 * float64(run)}}, []*model.Model{m}, nil
	}
	e := NewEnsemble(factory, 3, func() []Metric { return []Metric{&testMetric{}} })

	results, err := e.Run(context.Background(), Config{Dt: 0.05, Duration: 0.5})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for i, r := range results {
		if r.StepsTaken != 10 {
			t.Errorf("run %d: expected 10 steps, got %d", i, r.StepsTaken)
		}
		if r.Samples[0].Input.X != 0.05*float64(i) {
			t.Errorf("run %d: unexpected input %+v", i, r.Samples[0].Input)
		}
	}
}

func TestSimulatorRunWithCallback(t *testing.T) {
	w, m := buildLimb(t)
	sim := New(w, fixedSource{model.Input{Z: 0.2}}, m)

	calls := 0
	err := sim.RunWithCallback(context.Background(), Config{Dt: 0.1, Duration: 1.0}, func(samples []Sample) bool {
		if len(samples) != 1 {
			t.Errorf("expected one sample, got %d", len(samples))
		}
		if samples[0].Step != calls {
			t.Errorf("expected step %d, got %d", calls, samples[0].Step)
		}
		if samples[0].Input.Z != 0.2 {
			t.Errorf("expected input z 0.2, got %f", samples[0].Input.Z)
		}
		if len(samples[0].Bones) != 2 {
			t.Errorf("expected 2 bones, got %d", len(samples[0].Bones))
		}
		calls++
		return calls < 3
	})
	if err != nil {
		t.Fatalf("run failed: %v", err)
	}
	if calls != 3 {
		t.Errorf("expected 3 callbacks, got %d", calls)
	}
	if sim.Manager().Steps() != 3 {
		t.Errorf("expected 3 manager steps, got %d", sim.Manager().Steps())
	}
}
