package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for model assembly and stepping.
var (
	// ErrUnknownJointKind indicates a bone definition with a joint kind the factory cannot build.
	ErrUnknownJointKind = errors.New("dynamo: unknown joint kind")

	// ErrCapacityExceeded indicates a fixed resource ceiling (bodies, branches, effectors, bones) was exceeded.
	ErrCapacityExceeded = errors.New("dynamo: capacity exceeded")

	// ErrZeroMass indicates mass normalization over a tree whose bodies sum to zero mass.
	ErrZeroMass = errors.New("dynamo: total body mass is zero")

	// ErrInvalidDescriptor indicates a malformed bone table.
	ErrInvalidDescriptor = errors.New("dynamo: invalid model descriptor")

	// ErrUnknownBody indicates a handle that does not belong to the world.
	ErrUnknownBody = errors.New("dynamo: unknown body handle")

	// ErrInvalidState indicates a body transform became NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")
)

// BuildError wraps an assembly failure with the bone and scene node it
// happened on.
type BuildError struct {
	Bone    string
	Node    string
	Wrapped error
}

func (e *BuildError) Error() string {
	if e.Node == "" {
		return fmt.Sprintf("bone %q: %v", e.Bone, e.Wrapped)
	}
	return fmt.Sprintf("bone %q (node %q): %v", e.Bone, e.Node, e.Wrapped)
}

func (e *BuildError) Unwrap() error {
	return e.Wrapped
}

// CapacityError reports which ceiling was hit.
func CapacityError(resource string, limit int) error {
	return fmt.Errorf("%w: %s limit %d", ErrCapacityExceeded, resource, limit)
}

// SimError describes a failure at a given simulation step.
type SimError struct {
	Time    float64
	Step    int
	Message string
}

func (e SimError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Message)
}
