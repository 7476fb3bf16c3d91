// Package scene is the minimal scene hierarchy the rig builder walks:
// named nodes with a local transform, optional box geometry and ordered
// children. It stands in for a loaded visual asset.
package scene

import (
	"fmt"
	"os"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/spatial"
	"gopkg.in/yaml.v3"
)

type Node struct {
	Name     string
	Local    mgl64.Mat4
	Shape    dynamo.Shape
	parent   *Node
	children []*Node
}

func NewNode(name string, local mgl64.Mat4, shape dynamo.Shape) *Node {
	return &Node{Name: name, Local: local, Shape: shape}
}

// AddChild appends child and returns it.
func (n *Node) AddChild(child *Node) *Node {
	child.parent = n
	n.children = append(n.children, child)
	return child
}

func (n *Node) Parent() *Node     { return n.parent }
func (n *Node) Children() []*Node { return n.children }

// GlobalMatrix composes local transforms up to the scene root.
func (n *Node) GlobalMatrix() mgl64.Mat4 {
	m := n.Local
	for p := n.parent; p != nil; p = p.parent {
		m = p.Local.Mul4(m)
	}
	return m
}

// GlobalMatrixRelative composes local transforms up to, but excluding,
// ancestor. A nil ancestor is the scene root.
func (n *Node) GlobalMatrixRelative(ancestor *Node) mgl64.Mat4 {
	m := mgl64.Ident4()
	for p := n; p != nil && p != ancestor; p = p.parent {
		m = p.Local.Mul4(m)
	}
	return m
}

// SetLocal replaces the local transform from a rotation and position.
func (n *Node) SetLocal(q mgl64.Quat, p mgl64.Vec3) {
	n.Local = spatial.Compose(q, p)
}

// Find returns the first node named name in depth-first order.
func (n *Node) Find(name string) *Node {
	if n.Name == name {
		return n
	}
	for _, c := range n.children {
		if found := c.Find(name); found != nil {
			return found
		}
	}
	return nil
}

// Walk visits n and its descendants depth-first.
func (n *Node) Walk(fn func(node *Node, depth int)) {
	n.walk(fn, 0)
}

func (n *Node) walk(fn func(*Node, int), depth int) {
	fn(n, depth)
	for _, c := range n.children {
		c.walk(fn, depth+1)
	}
}

// Count returns the number of nodes in the subtree.
func (n *Node) Count() int {
	count := 0
	n.Walk(func(*Node, int) { count++ })
	return count
}

// nodeFile is the YAML form of a node. Angles are degrees.
type nodeFile struct {
	Name        string     `yaml:"name"`
	Position    [3]float64 `yaml:"position"`
	Rotation    [3]float64 `yaml:"rotation,omitempty"`
	HalfExtents [3]float64 `yaml:"half_extents,omitempty"`
	Children    []nodeFile `yaml:"children,omitempty"`
}

func (f nodeFile) build() *Node {
	r := f.Rotation
	local := spatial.WithPosition(
		spatial.PitchYawRoll(spatial.DegToRad(r[0]), spatial.DegToRad(r[1]), spatial.DegToRad(r[2])),
		mgl64.Vec3{f.Position[0], f.Position[1], f.Position[2]},
	)
	h := f.HalfExtents
	n := NewNode(f.Name, local, dynamo.Box(h[0], h[1], h[2]))
	for _, c := range f.Children {
		n.AddChild(c.build())
	}
	return n
}

func toFile(n *Node) nodeFile {
	pitch, yaw, roll := spatial.EulerAngles(n.Local)
	p := spatial.Position(n.Local)
	h := n.Shape.HalfExtents
	f := nodeFile{
		Name:        n.Name,
		Position:    [3]float64{p.X(), p.Y(), p.Z()},
		Rotation:    [3]float64{mgl64.RadToDeg(pitch), mgl64.RadToDeg(yaw), mgl64.RadToDeg(roll)},
		HalfExtents: [3]float64{h.X(), h.Y(), h.Z()},
	}
	for _, c := range n.children {
		f.Children = append(f.Children, toFile(c))
	}
	return f
}

func Load(path string) (*Node, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return Parse(data)
}

func Parse(data []byte) (*Node, error) {
	var f nodeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}
	if f.Name == "" {
		return nil, fmt.Errorf("scene root has no name")
	}
	return f.build(), nil
}

func Save(path string, root *Node) error {
	data, err := yaml.Marshal(toFile(root))
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
