package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
)

// Kinematic is the reference world's driven controller. Setting the target
// has no effect until the next Step.
type Kinematic struct {
	body        dynamo.BodyID
	reference   dynamo.BodyID
	params      dynamo.KinematicParams
	localAttach mgl64.Mat4
	target      mgl64.Mat4
}

var _ dynamo.KinematicController = (*Kinematic)(nil)

func (k *Kinematic) Body() dynamo.BodyID            { return k.body }
func (k *Kinematic) Reference() dynamo.BodyID       { return k.reference }
func (k *Kinematic) Params() dynamo.KinematicParams { return k.params }
func (k *Kinematic) TargetMatrix() mgl64.Mat4       { return k.target }
func (k *Kinematic) SetTargetMatrix(m mgl64.Mat4)   { k.target = m }
