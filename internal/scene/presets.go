package scene

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/spatial"
)

func at(x, y, z float64) mgl64.Mat4 {
	return spatial.WithPosition(mgl64.Ident4(), mgl64.Vec3{x, y, z})
}

// Tred builds the walker's scene: a pelvis with two legs, each ending in
// an ankle that carries an effector marker and a foot.
func Tred() *Node {
	root := NewNode("bone_pelvis", at(0, 1.1, 0), dynamo.Box(0.2, 0.1, 0.12))
	for _, side := range []struct {
		name string
		x    float64
	}{{"right", 0.12}, {"left", -0.12}} {
		calfName := "bone_" + side.name + "Calf"
		if side.name == "right" {
			calfName = "bone_righCalf"
		}
		leg := root.AddChild(NewNode("bone_"+side.name+"Leg", at(side.x, -0.3, 0), dynamo.Box(0.06, 0.2, 0.06)))
		calf := leg.AddChild(NewNode(calfName, at(0, -0.4, 0), dynamo.Box(0.05, 0.2, 0.05)))
		ankle := calf.AddChild(NewNode("bone_"+side.name+"Ankle", at(0, -0.25, 0), dynamo.Box(0.04, 0.04, 0.04)))
		ankle.AddChild(NewNode("effector_"+side.name+"Ankle", at(0, 0, 0), dynamo.Shape{}))
		ankle.AddChild(NewNode("bone_"+side.name+"Foot", at(0, -0.06, 0.05), dynamo.Box(0.05, 0.02, 0.1)))
	}
	return root
}

// Limb builds a root with one bone and an effector marker under it.
func Limb() *Node {
	root := NewNode("root", at(0, 1, 0), dynamo.Box(0.1, 0.1, 0.1))
	bone := root.AddChild(NewNode("bone_A", at(0, -0.3, 0), dynamo.Box(0.05, 0.2, 0.05)))
	bone.AddChild(NewNode("effector_A", at(0, -0.2, 0), dynamo.Shape{}))
	return root
}

var builtins = map[string]func() *Node{
	"tred": Tred,
	"limb": Limb,
}

// Builtin returns a fresh built-in scene.
func Builtin(name string) (*Node, bool) {
	fn, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}
