package model

import (
	"fmt"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/joints"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
)

// NodeID indexes a Tree's arena.
type NodeID int32

const NoNode NodeID = -1

// Node owns one body. The root has no joint and Parent == NoNode.
type Node struct {
	Name     string
	Body     dynamo.BodyID
	Parent   NodeID
	Children []NodeID
	// Bind maps the parent body's frame to the scene parent's frame.
	Bind  mgl64.Mat4
	Bone  rig.BoneDefinition
	Joint joints.Joint
	Scene *scene.Node
}

// Tree is an arena of nodes. Parents always precede their children.
type Tree struct {
	nodes []Node
}

func (t *Tree) add(n Node) NodeID {
	id := NodeID(len(t.nodes))
	t.nodes = append(t.nodes, n)
	if n.Parent != NoNode {
		p := &t.nodes[n.Parent]
		p.Children = append(p.Children, id)
	}
	return id
}

func (t *Tree) Len() int { return len(t.nodes) }

func (t *Tree) Root() NodeID { return 0 }

func (t *Tree) Node(id NodeID) *Node { return &t.nodes[id] }

// Find returns the node named name, or NoNode.
func (t *Tree) Find(name string) NodeID {
	for i := range t.nodes {
		if t.nodes[i].Name == name {
			return NodeID(i)
		}
	}
	return NoNode
}

// Bodies lists every node's body in arena order.
func (t *Tree) Bodies() []dynamo.BodyID {
	out := make([]dynamo.BodyID, len(t.nodes))
	for i := range t.nodes {
		out[i] = t.nodes[i].Body
	}
	return out
}

// Walk visits nodes breadth-first from the root using a growable queue.
func (t *Tree) Walk(fn func(id NodeID, n *Node)) {
	if len(t.nodes) == 0 {
		return
	}
	queue := []NodeID{t.Root()}
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		n := &t.nodes[id]
		fn(id, n)
		queue = append(queue, n.Children...)
	}
}

// String lists the nodes breadth-first, one per line.
func (t *Tree) String() string {
	var sb strings.Builder
	t.Walk(func(id NodeID, n *Node) {
		fmt.Fprintf(&sb, "%d %s body=%d parent=%d joint=%s\n", id, n.Name, n.Body, n.Parent, n.Bone.Joint)
	})
	return sb.String()
}
