// Package pose generates effector targets once per step through an
// ordered pipeline: a base node holding the authoritative pose followed by
// decorators that each rewrite only the entries of their own effectors.
package pose

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/effector"
)

// Entry is one effector's target. Targets are in the effector's reference
// frame.
type Entry struct {
	Effector *effector.Effector
	Target   mgl64.Mat4
}

// Pose holds one entry per effector in discovery order.
type Pose []Entry

func (p Pose) Clone() Pose {
	return append(Pose(nil), p...)
}

// Index finds the entry for e by identity, or -1.
func (p Pose) Index(e *effector.Effector) int {
	for i := range p {
		if p[i].Effector == e {
			return i
		}
	}
	return -1
}

// Apply writes every target to its effector.
func (p Pose) Apply() {
	for _, entry := range p {
		entry.Effector.SetTargetMatrix(entry.Target)
	}
}

// Equal compares effectors by identity and targets exactly.
func (p Pose) Equal(other Pose) bool {
	if len(p) != len(other) {
		return false
	}
	for i := range p {
		if p[i].Effector != other[i].Effector || p[i].Target != other[i].Target {
			return false
		}
	}
	return true
}

// FromEffectors seeds a pose from the effectors' current targets.
func FromEffectors(effectors []*effector.Effector) Pose {
	p := make(Pose, len(effectors))
	for i, e := range effectors {
		p[i] = Entry{Effector: e, Target: e.GetTargetMatrix()}
	}
	return p
}

// Visitor receives diagnostic primitives in the pose's reference frame.
type Visitor interface {
	DrawFrame(m mgl64.Mat4, scale float64)
	DrawLine(from, to mgl64.Vec3)
}

// Node is one stage of pose generation. GeneratePose may rewrite entries
// of out but never adds or removes any. Debug must not mutate state.
type Node interface {
	GeneratePose(dt float64, out Pose)
	Debug(v Visitor)
}
