// Package joints turns a bone's declared degrees of freedom into a
// constraint in a dynamo.World.
package joints

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/spatial"
)

// DrivenCap is the force and torque cap of pass-through driven joints.
const DrivenCap = 1e20

// Config is the constraint a bone definition resolves to. The set of
// implementations is closed: BallSocket, Hinge and Driven.
type Config interface {
	config()
}

type BallSocket struct {
	Params dynamo.BallSocketParams
}

type Hinge struct {
	Params dynamo.HingeParams
}

// Driven is a full 6-DOF kinematic controller acting as a rigid joint.
type Driven struct {
	Params dynamo.KinematicParams
}

func (BallSocket) config() {}
func (Hinge) config()      {}
func (Driven) config()     {}

func limit(minDeg, maxDeg float64) dynamo.Limit {
	return dynamo.Limit{Enabled: true, Min: spatial.DegToRad(minDeg), Max: spatial.DegToRad(maxDeg)}
}

// ConfigFor resolves def's joint kind and limits. Angles leave degrees
// here and nowhere else.
func ConfigFor(def rig.BoneDefinition) (Config, error) {
	l := def.Limits
	switch def.Joint {
	case rig.Ball:
		return BallSocket{}, nil
	case rig.Fixed0DOF:
		return Hinge{Params: dynamo.HingeParams{Limits: limit(0, 0)}}, nil
	case rig.Twist1DOF:
		return BallSocket{Params: dynamo.BallSocketParams{
			Twist: limit(l.MinTwist, l.MaxTwist),
			Cone:  limit(0, 0),
		}}, nil
	case rig.Cone2DOF:
		return BallSocket{Params: dynamo.BallSocketParams{
			Twist: limit(0, 0),
			Cone:  limit(0, l.ConeHalfAngle),
		}}, nil
	case rig.ConeTwist3DOF:
		return BallSocket{Params: dynamo.BallSocketParams{
			Twist: limit(l.MinTwist, l.MaxTwist),
			Cone:  limit(0, l.ConeHalfAngle),
		}}, nil
	case rig.FkEffector:
		return Driven{Params: dynamo.KinematicParams{
			Mode:               dynamo.Full6DOF,
			MaxLinearFriction:  DrivenCap,
			MaxAngularFriction: DrivenCap,
		}}, nil
	}
	return nil, fmt.Errorf("%w: %s", dynamo.ErrUnknownJointKind, def.Joint)
}

// PinAndPivot orients the joint frame relative to the bone's world
// transform.
func PinAndPivot(boneWorld mgl64.Mat4, frame rig.FrameAngles) mgl64.Mat4 {
	r := spatial.PitchYawRoll(
		spatial.DegToRad(frame.Pitch),
		spatial.DegToRad(frame.Yaw),
		spatial.DegToRad(frame.Roll),
	)
	return boneWorld.Mul4(r)
}

// Joint is a constraint created by Connect.
type Joint struct {
	Kind   rig.JointKind
	Config Config
	Pivot  mgl64.Mat4
	ID     dynamo.JointID
	// Controller is set for Driven joints only.
	Controller dynamo.KinematicController
}

// IsDriven reports whether the joint is a kinematic controller.
func (j Joint) IsDriven() bool {
	return j.Controller != nil
}

// Connect constrains child to parent according to def.
func Connect(w dynamo.World, child, parent dynamo.BodyID, boneWorld mgl64.Mat4, def rig.BoneDefinition) (Joint, error) {
	cfg, err := ConfigFor(def)
	if err != nil {
		return Joint{}, err
	}
	j := Joint{Kind: def.Joint, Config: cfg, Pivot: PinAndPivot(boneWorld, def.Frame), ID: -1}
	switch c := cfg.(type) {
	case BallSocket:
		j.ID = w.CreateBallAndSocket(j.Pivot, child, parent, c.Params)
	case Hinge:
		j.ID = w.CreateHinge(j.Pivot, child, parent, c.Params)
	case Driven:
		j.Controller = w.CreateKinematicController(child, j.Pivot, parent, c.Params)
	}
	return j, nil
}

// ConeLimitDegrees reports a ball joint's cone half angle in degrees, or
// NaN for joints without one.
func ConeLimitDegrees(cfg Config) float64 {
	b, ok := cfg.(BallSocket)
	if !ok || !b.Params.Cone.Enabled {
		return math.NaN()
	}
	return mgl64.RadToDeg(b.Params.Cone.Max)
}
