package model

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/effector"
	"github.com/san-kum/ragdoll/internal/pose"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/skeleton"
	"github.com/san-kum/ragdoll/internal/spatial"
)

// Input is the per-step control value: an offset in each IK effector's
// origin space and a pitch delta in radians.
type Input struct {
	X     float64
	Y     float64
	Z     float64
	Pitch float64
}

type Model struct {
	Name       string
	Descriptor *rig.Descriptor
	World      dynamo.World
	Tree       *Tree
	// Effectors are in first-visit order.
	Effectors []*effector.Effector
	Aggregate int

	pipeline *pose.Pipeline
	skeleton *skeleton.Controller
}

func (m *Model) attach(opts Options) error {
	m.pipeline = DefaultPipeline(m, opts.BalanceGain)
	m.skeleton = skeleton.NewController(m.World, opts.MaxBones)

	bones := make([]skeleton.BoneID, m.Tree.Len())
	var err error
	m.Tree.Walk(func(id NodeID, n *Node) {
		if err != nil {
			return
		}
		parent := skeleton.NoBone
		if n.Parent != NoNode {
			parent = bones[n.Parent]
		}
		bones[id], err = m.skeleton.AddBone(n.Body, parent, n.Scene)
		if err != nil {
			node := ""
			if n.Scene != nil {
				node = n.Scene.Name
			}
			err = &dynamo.BuildError{Bone: n.Bone.Name, Node: node, Wrapped: err}
		}
	})
	return err
}

// DefaultPipeline pairs each IK effector with the driven effector on the
// same body in an ankle-and-foot node, then balances all IK effectors
// over the centre of mass.
func DefaultPipeline(m *Model, gain float64) *pose.Pipeline {
	base := pose.NewBase(pose.FromEffectors(m.Effectors))
	p := pose.NewPipeline(base)

	var ik []*effector.Effector
	for _, e := range m.Effectors {
		if e.Params().Mode != dynamo.LinearAndTwist {
			continue
		}
		ik = append(ik, e)
		for _, other := range m.Effectors {
			if other != e && other.Body() == e.Body() {
				p.Push(pose.NewAnkleAndFoot(other, e))
				break
			}
		}
	}
	if len(ik) > 0 {
		p.Push(pose.NewBalance(m.LocalCentreOfMass, gain, ik...).WithUp(m.LocalUp))
	}
	return p
}

func (m *Model) RootBody() dynamo.BodyID {
	return m.Tree.Node(m.Tree.Root()).Body
}

// CentreOfMass is in world space.
func (m *Model) CentreOfMass() mgl64.Vec3 {
	return CentreOfMass(m.World, m.Tree)
}

// LocalCentreOfMass is in the root body's frame, the frame IK targets use.
func (m *Model) LocalCentreOfMass() mgl64.Vec3 {
	inv := spatial.InverseRigid(m.World.BodyMatrix(m.RootBody()))
	return spatial.TransformPoint(inv, m.CentreOfMass())
}

// LocalUp is world up in the root body's frame.
func (m *Model) LocalUp() mgl64.Vec3 {
	inv := spatial.InverseRigid(m.World.BodyMatrix(m.RootBody()))
	return spatial.RotateVector(inv, mgl64.Vec3{0, 1, 0})
}

func (m *Model) Pipeline() *pose.Pipeline { return m.pipeline }

// SetPipeline replaces the pose pipeline, e.g. to add decorators.
func (m *Model) SetPipeline(p *pose.Pipeline) { m.pipeline = p }

func (m *Model) Skeleton() *skeleton.Controller { return m.skeleton }

// Pose returns the authoritative pose held by the pipeline's base.
func (m *Model) Pose() pose.Pose { return m.pipeline.Base().Pose() }

// PreUpdate writes in into every IK effector's base entry, regenerates the
// pose and pushes the result into the effectors.
func (m *Model) PreUpdate(dt float64, in Input) pose.Pose {
	base := m.pipeline.Base().Pose()
	for i := range base {
		e := base[i].Effector
		if e.Params().Mode == dynamo.LinearAndTwist {
			base[i].Target = e.Matrix(in.X, in.Y, in.Z, in.Pitch)
		}
	}
	out := m.pipeline.Generate(dt)
	out.Apply()
	return out
}

// PostUpdate emits every bone's transform to consumer.
func (m *Model) PostUpdate(consumer skeleton.Consumer) {
	m.skeleton.PostUpdate(consumer)
}

// Debug draws each effector's target frame and then the pose pipeline, in
// world space.
func (m *Model) Debug(v pose.Visitor) {
	wv := worldVisitor{inner: v, frame: m.World.BodyMatrix(m.RootBody())}
	for _, e := range m.Effectors {
		if e.Params().Mode == dynamo.LinearAndTwist {
			wv.DrawFrame(e.GetTargetMatrix(), 0.25)
		} else {
			v.DrawFrame(m.World.BodyMatrix(e.Controller().Reference()).Mul4(e.GetTargetMatrix()), 0.25)
		}
	}
	m.pipeline.Debug(wv)
}

type worldVisitor struct {
	inner pose.Visitor
	frame mgl64.Mat4
}

func (w worldVisitor) DrawFrame(m mgl64.Mat4, scale float64) {
	w.inner.DrawFrame(w.frame.Mul4(m), scale)
}

func (w worldVisitor) DrawLine(from, to mgl64.Vec3) {
	w.inner.DrawLine(spatial.TransformPoint(w.frame, from), spatial.TransformPoint(w.frame, to))
}
