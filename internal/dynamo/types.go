package dynamo

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

type Control []float64

type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

type Integrator interface {
	Step(dyn System, x State, u Control, t float64, dt float64) State
}

// BodyID addresses a body inside a World. Handles are stable for the
// lifetime of the world.
type BodyID int32

// NoBody is the null handle, used for "attached to the world".
const NoBody BodyID = -1

// JointID addresses a joint inside a World.
type JointID int32

// Shape is the collision geometry of a body. Only boxes are needed by the
// reference world; other engines may interpret HalfExtents as a bounding
// box of richer geometry.
type Shape struct {
	HalfExtents mgl64.Vec3
}

// Box returns a box shape from half extents.
func Box(hx, hy, hz float64) Shape {
	return Shape{HalfExtents: mgl64.Vec3{hx, hy, hz}}
}

// Volume returns the box volume.
func (s Shape) Volume() float64 {
	h := s.HalfExtents
	return 8 * h.X() * h.Y() * h.Z()
}

// MassProperties are a body's mass and principal inertia.
type MassProperties struct {
	Mass float64
	Ixx  float64
	Iyy  float64
	Izz  float64
}

// ForceCallback is invoked once per body per step, possibly from several
// worker goroutines at once. threadIndex identifies the worker.
type ForceCallback func(w World, body BodyID, dt float64, threadIndex int)

// Limit is an optional angular range in radians.
type Limit struct {
	Enabled bool
	Min     float64
	Max     float64
}

// BallSocketParams configures a 3-rotational-DOF joint.
type BallSocketParams struct {
	Twist Limit
	// Cone uses Max as the half angle.
	Cone Limit
}

// HingeParams configures a 1-DOF hinge about the pivot frame X axis.
type HingeParams struct {
	Limits Limit
}

// ControlMode selects which degrees of freedom a kinematic controller drives.
type ControlMode int

const (
	// LinearAndTwist drives position and rotation about the pin axis.
	LinearAndTwist ControlMode = iota
	// Full6DOF drives position and full orientation.
	Full6DOF
)

func (m ControlMode) String() string {
	switch m {
	case LinearAndTwist:
		return "linear_and_twist"
	case Full6DOF:
		return "full_6dof"
	default:
		return "unknown"
	}
}

// KinematicParams configures a driven controller.
type KinematicParams struct {
	Mode               ControlMode
	MaxLinearFriction  float64
	MaxAngularFriction float64
}

// KinematicController is a driven constraint whose target is read by the
// solver every step. The target is expressed in the reference body's frame,
// or in world space when the reference is NoBody.
type KinematicController interface {
	Body() BodyID
	Reference() BodyID
	Params() KinematicParams
	TargetMatrix() mgl64.Mat4
	SetTargetMatrix(m mgl64.Mat4)
}

// World is the rigid-body engine the core assembles models in.
type World interface {
	CreateBody(shape Shape, matrix mgl64.Mat4, massFraction float64, userData any) BodyID
	BodyCount() int
	BodyMatrix(b BodyID) mgl64.Mat4
	BodyMass(b BodyID) MassProperties
	SetBodyMass(b BodyID, mp MassProperties)
	BodyCentreOfMass(b BodyID) mgl64.Vec3
	BodyOmega(b BodyID) mgl64.Vec3
	SetBodyOmega(b BodyID, omega mgl64.Vec3)
	AddBodyForce(b BodyID, force mgl64.Vec3)
	BodyUserData(b BodyID) any
	SetForceCallback(b BodyID, cb ForceCallback)

	CreateBallAndSocket(pivot mgl64.Mat4, child, parent BodyID, p BallSocketParams) JointID
	CreateHinge(pivot mgl64.Mat4, child, parent BodyID, p HingeParams) JointID
	CreateKinematicController(body BodyID, attachment mgl64.Mat4, reference BodyID, p KinematicParams) KinematicController

	CreateAggregate(bodies []BodyID, selfCollision bool) int
	Contacts(b BodyID) int

	Gravity() mgl64.Vec3
	Step(dt float64) error
}

// Config controls a simulation run.
type Config struct {
	Dt            float64
	Duration      float64
	Workers       int
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            1.0 / 60.0,
		Duration:      5.0,
		ValidateState: true,
	}
}
