// Package effector wraps kinematic controllers that outside code steers
// by target matrix.
package effector

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/spatial"
)

// Caps are derived from model mass once, at construction.
const (
	AngularCapPerKg = 100.0
	LinearCapPerKg  = 9.8 * 10
)

type Effector struct {
	name   string
	ctrl   dynamo.KinematicController
	origin mgl64.Mat4
	// attach is the driven point in the body's frame.
	attach mgl64.Mat4
	pitch  float64
	yaw    float64
	roll   float64
}

// NewIK attaches body to the model root through a LinearAndTwist
// controller at attachment, with caps scaled by modelMass.
func NewIK(w dynamo.World, name string, body, root dynamo.BodyID, attachment mgl64.Mat4, modelMass float64) *Effector {
	ctrl := w.CreateKinematicController(body, attachment, root, dynamo.KinematicParams{
		Mode:               dynamo.LinearAndTwist,
		MaxLinearFriction:  modelMass * LinearCapPerKg,
		MaxAngularFriction: modelMass * AngularCapPerKg,
	})
	return New(w, name, ctrl)
}

// New wraps an existing controller. The current target becomes the origin.
func New(w dynamo.World, name string, ctrl dynamo.KinematicController) *Effector {
	origin := ctrl.TargetMatrix()
	pitch, yaw, roll := spatial.EulerAngles(origin)
	attach := spatial.Relative(referenceMatrix(w, ctrl).Mul4(origin), w.BodyMatrix(ctrl.Body()))
	return &Effector{name: name, ctrl: ctrl, origin: origin, attach: attach, pitch: pitch, yaw: yaw, roll: roll}
}

func referenceMatrix(w dynamo.World, ctrl dynamo.KinematicController) mgl64.Mat4 {
	if ctrl.Reference() == dynamo.NoBody {
		return mgl64.Ident4()
	}
	return w.BodyMatrix(ctrl.Reference())
}

func (e *Effector) Name() string                           { return e.name }
func (e *Effector) Body() dynamo.BodyID                    { return e.ctrl.Body() }
func (e *Effector) Params() dynamo.KinematicParams         { return e.ctrl.Params() }
func (e *Effector) Controller() dynamo.KinematicController { return e.ctrl }

// Origin is the target captured at construction.
func (e *Effector) Origin() mgl64.Mat4 { return e.origin }

func (e *Effector) GetTargetMatrix() mgl64.Mat4 { return e.ctrl.TargetMatrix() }

// SetTargetMatrix takes effect on the next world step.
func (e *Effector) SetTargetMatrix(m mgl64.Mat4) { e.ctrl.SetTargetMatrix(m) }

// Matrix offsets the origin by (x, y, z) in origin space and adds pitch
// (radians) to the origin's pitch. It never reads the current target.
func (e *Effector) Matrix(x, y, z, pitch float64) mgl64.Mat4 {
	m := spatial.PitchYawRoll(e.pitch+pitch, e.yaw, e.roll)
	return spatial.WithPosition(m, spatial.TransformPoint(e.origin, mgl64.Vec3{x, y, z}))
}

// SetMatrix sets the target to Matrix(x, y, z, pitch).
func (e *Effector) SetMatrix(x, y, z, pitch float64) {
	e.SetTargetMatrix(e.Matrix(x, y, z, pitch))
}

// TargetWorld is the current target in world space.
func (e *Effector) TargetWorld(w dynamo.World) mgl64.Mat4 {
	return referenceMatrix(w, e.ctrl).Mul4(e.ctrl.TargetMatrix())
}

// AttachmentWorld is the driven point's current world transform.
func (e *Effector) AttachmentWorld(w dynamo.World) mgl64.Mat4 {
	return w.BodyMatrix(e.ctrl.Body()).Mul4(e.attach)
}

// PositionError is the distance between the driven point and its target.
func (e *Effector) PositionError(w dynamo.World) float64 {
	return spatial.Position(e.TargetWorld(w)).Sub(spatial.Position(e.AttachmentWorld(w))).Len()
}
