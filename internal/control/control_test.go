package control

import (
	"math"
	"sync"
	"testing"

	"github.com/san-kum/ragdoll/internal/model"
)

func TestNone(t *testing.T) {
	if in := NewNone().Input(3); in != (model.Input{}) {
		t.Errorf("expected zero input, got %+v", in)
	}
}

func TestManualClamps(t *testing.T) {
	c := NewManual()
	c.Set(model.Input{X: 2, Y: -0.5, Z: -3, Pitch: 1})
	got := c.Input(0)
	want := model.Input{X: 1, Y: -0.5, Z: -1, Pitch: MaxPitch}
	if got != want {
		t.Errorf("expected %+v, got %+v", want, got)
	}
}

func TestManualConcurrent(t *testing.T) {
	c := NewManual()
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Set(model.Input{X: float64(i) / 10})
			_ = c.Input(0)
		}(i)
	}
	wg.Wait()
	if x := c.Input(0).X; x < 0 || x > 0.7 {
		t.Errorf("unexpected x %f", x)
	}
}

func TestSweep(t *testing.T) {
	s := NewSweep(SweepParams{X: 0.5, Z: 0.5, Pitch: 0.1, Frequency: 1})

	tests := []struct {
		t    float64
		want model.Input
	}{
		{0, model.Input{Z: 0.5}},
		{0.25, model.Input{X: 0.5, Pitch: 0.1}},
		{0.5, model.Input{Z: -0.5}},
	}
	for _, tt := range tests {
		got := s.Input(tt.t)
		if math.Abs(got.X-tt.want.X) > 1e-9 || math.Abs(got.Z-tt.want.Z) > 1e-9 || math.Abs(got.Pitch-tt.want.Pitch) > 1e-9 {
			t.Errorf("t=%f: expected %+v, got %+v", tt.t, tt.want, got)
		}
	}
}

func TestByName(t *testing.T) {
	in := model.Input{X: 0.2}
	for _, name := range []string{"none", "constant", "manual", "sweep"} {
		if _, err := ByName(name, in, SweepParams{}); err != nil {
			t.Errorf("%s: %v", name, err)
		}
	}
	src, _ := ByName("manual", in, SweepParams{})
	if src.Input(0) != in {
		t.Errorf("expected manual source to start at %+v, got %+v", in, src.Input(0))
	}
	if _, err := ByName("pid", in, SweepParams{}); err == nil {
		t.Error("expected error for unknown source")
	}
}
