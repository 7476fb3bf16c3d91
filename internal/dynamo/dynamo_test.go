package dynamo

import (
	"errors"
	"math"
	"sync/atomic"
	"testing"
)

func TestState_IsValid(t *testing.T) {
	tests := []struct {
		name  string
		state State
		valid bool
	}{
		{"empty", State{}, true},
		{"normal", State{1.0, 2.0, 3.0}, true},
		{"with NaN", State{1.0, math.NaN()}, false},
		{"with +Inf", State{1.0, math.Inf(1)}, false},
		{"with -Inf", State{1.0, math.Inf(-1)}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.state.IsValid(); got != tt.valid {
				t.Errorf("IsValid() = %v, want %v", got, tt.valid)
			}
		})
	}
}

func TestParallelFor_CoversRange(t *testing.T) {
	tests := []struct {
		n, minChunk, workers int
	}{
		{0, 1, 4},
		{1, 1, 4},
		{10, 1, 4},
		{100, 8, 3},
		{7, 16, 8},
	}

	for _, tt := range tests {
		hits := make([]int32, tt.n)
		ParallelFor(tt.n, tt.minChunk, tt.workers, func(start, end, worker int) {
			if worker < 0 || worker >= max(tt.workers, 1) {
				t.Errorf("worker index %d out of range", worker)
			}
			for i := start; i < end; i++ {
				atomic.AddInt32(&hits[i], 1)
			}
		})
		for i, h := range hits {
			if h != 1 {
				t.Errorf("n=%d: index %d visited %d times", tt.n, i, h)
			}
		}
	}
}

func TestBuildError(t *testing.T) {
	err := &BuildError{Bone: "bone_A", Node: "bone_A", Wrapped: ErrUnknownJointKind}
	if !errors.Is(err, ErrUnknownJointKind) {
		t.Error("BuildError should unwrap to its cause")
	}
	expected := `bone "bone_A" (node "bone_A"): dynamo: unknown joint kind`
	if err.Error() != expected {
		t.Errorf("expected %q, got %q", expected, err.Error())
	}
}

func TestCapacityError(t *testing.T) {
	err := CapacityError("effectors", 16)
	if !errors.Is(err, ErrCapacityExceeded) {
		t.Errorf("expected ErrCapacityExceeded, got %v", err)
	}
}

func TestShapeVolume(t *testing.T) {
	s := Box(0.5, 1, 0.25)
	if math.Abs(s.Volume()-1.0) > 1e-12 {
		t.Errorf("expected volume 1, got %f", s.Volume())
	}
}

func TestSimError(t *testing.T) {
	err := SimError{Time: 1.5, Step: 150, Message: "test error"}
	expected := "step 150 (t=1.5000): test error"
	if err.Error() != expected {
		t.Errorf("SimError.Error() = %q, want %q", err.Error(), expected)
	}
}
