// Package skeleton propagates simulated bone transforms to consumers in
// parent-relative form.
package skeleton

import (
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/spatial"
)

// DefaultMaxBones bounds one controller's bone table.
const DefaultMaxBones = 64

type BoneID int

// NoBone marks a bone without a parent.
const NoBone BoneID = -1

type Bone struct {
	ID       BoneID
	Body     dynamo.BodyID
	Parent   BoneID
	UserData any
}

// Consumer receives a bone's transform: world space for parentless bones,
// parent-relative otherwise. It must not block.
type Consumer func(bone Bone, m mgl64.Mat4)

// Controller holds a flat bone table. Parents must be added before their
// children.
type Controller struct {
	world dynamo.World
	bones []Bone
	max   int
}

func NewController(w dynamo.World, maxBones int) *Controller {
	if maxBones <= 0 {
		maxBones = DefaultMaxBones
	}
	return &Controller{world: w, max: maxBones}
}

func (c *Controller) AddBone(body dynamo.BodyID, parent BoneID, userData any) (BoneID, error) {
	if len(c.bones) >= c.max {
		return NoBone, dynamo.CapacityError("bones", c.max)
	}
	if parent != NoBone && (parent < 0 || int(parent) >= len(c.bones)) {
		return NoBone, fmt.Errorf("parent bone %d not registered", parent)
	}
	id := BoneID(len(c.bones))
	c.bones = append(c.bones, Bone{ID: id, Body: body, Parent: parent, UserData: userData})
	return id, nil
}

func (c *Controller) Len() int { return len(c.bones) }

func (c *Controller) Bone(id BoneID) Bone { return c.bones[id] }

// PostUpdate reads every bone's current world transform and hands it to
// consumer, relative to the parent bone's current transform when there is
// one.
func (c *Controller) PostUpdate(consumer Consumer) {
	for _, b := range c.bones {
		m := c.world.BodyMatrix(b.Body)
		if b.Parent != NoBone {
			parent := c.world.BodyMatrix(c.bones[b.Parent].Body)
			m = spatial.Relative(m, parent)
		}
		consumer(b, m)
	}
}
