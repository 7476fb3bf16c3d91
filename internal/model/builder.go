package model

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/effector"
	"github.com/san-kum/ragdoll/internal/joints"
	"github.com/san-kum/ragdoll/internal/logging"
	"github.com/san-kum/ragdoll/internal/pose"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/spatial"
)

// Resource ceilings for one model. The skeleton's bone table defaults to
// the body ceiling, one bone per body.
const (
	DefaultMaxBodies    = 1024
	DefaultMaxBranches  = 32
	DefaultMaxEffectors = 16
)

// fallbackShape is used for matched scene nodes without geometry.
var fallbackShape = dynamo.Box(0.05, 0.05, 0.05)

type Options struct {
	MaxBodies    int
	MaxBranches  int
	MaxEffectors int
	MaxBones     int
	BalanceGain  float64
	// ForceCallback replaces the world's default per-body callback when set.
	ForceCallback dynamo.ForceCallback
	Logger        logging.Logger
}

func DefaultOptions() Options {
	return Options{
		MaxBodies:    DefaultMaxBodies,
		MaxBranches:  DefaultMaxBranches,
		MaxEffectors: DefaultMaxEffectors,
		MaxBones:     DefaultMaxBodies,
		BalanceGain:  pose.DefaultBalanceGain,
	}
}

type pending struct {
	node   *scene.Node
	parent NodeID
}

type builder struct {
	world     dynamo.World
	desc      *rig.Descriptor
	opts      Options
	log       logging.Logger
	tree      *Tree
	effectors []*effector.Effector
	queue     []pending
}

// Build assembles desc over the scene rooted at root. The scene root
// becomes the root body; its descendants are matched against the bone
// table by name, breadth-first. Unmatched nodes are skipped along with
// their subtrees.
func Build(w dynamo.World, desc *rig.Descriptor, root *scene.Node, opts Options) (*Model, error) {
	if err := desc.Validate(); err != nil {
		return nil, err
	}
	opts = opts.withDefaults()
	b := &builder{
		world: w,
		desc:  desc,
		opts:  opts,
		log:   logging.OrNoOp(opts.Logger).With("model", desc.Asset),
		tree:  &Tree{},
	}
	if err := b.run(root); err != nil {
		return nil, err
	}

	bodies := b.tree.Bodies()
	if err := Normalize(w, bodies, desc.Mass); err != nil {
		return nil, &dynamo.BuildError{Bone: desc.Root().Name, Wrapped: err}
	}
	aggregate := w.CreateAggregate(bodies, false)

	m := &Model{
		Name:       desc.Asset,
		Descriptor: desc,
		World:      w,
		Tree:       b.tree,
		Effectors:  b.effectors,
		Aggregate:  aggregate,
	}
	if err := m.attach(opts); err != nil {
		return nil, err
	}
	b.log.Info("model assembled", "bodies", len(bodies), "effectors", len(b.effectors), "mass", desc.Mass)
	return m, nil
}

func (b *builder) run(root *scene.Node) error {
	rootDef := b.desc.Root()
	if root.Name != rootDef.Name {
		b.log.Warn("scene root name differs from bone table root", "scene", root.Name, "bone", rootDef.Name)
	}
	body := b.createBody(root, rootDef)
	b.tree.add(Node{Name: rootDef.Name, Body: body, Parent: NoNode, Bind: mgl64.Ident4(), Bone: rootDef, Scene: root})

	if err := b.enqueue(root.Children(), b.tree.Root()); err != nil {
		return &dynamo.BuildError{Bone: rootDef.Name, Node: root.Name, Wrapped: err}
	}
	for len(b.queue) > 0 {
		item := b.queue[0]
		b.queue = b.queue[1:]
		if err := b.visit(item); err != nil {
			return err
		}
	}
	return nil
}

func (b *builder) enqueue(children []*scene.Node, parent NodeID) error {
	if len(b.queue)+len(children) > b.opts.MaxBranches {
		return dynamo.CapacityError("branches", b.opts.MaxBranches)
	}
	for _, c := range children {
		b.queue = append(b.queue, pending{node: c, parent: parent})
	}
	return nil
}

func (b *builder) visit(item pending) error {
	def, ok := b.desc.Lookup(item.node.Name)
	if !ok {
		b.log.Debug("skipping unmatched scene node", "node", item.node.Name)
		return nil
	}
	fail := func(err error) error {
		return &dynamo.BuildError{Bone: def.Name, Node: item.node.Name, Wrapped: err}
	}
	parent := b.tree.Node(item.parent)
	global := item.node.GlobalMatrix()

	if def.Joint == rig.IkEffector {
		if len(b.effectors) >= b.opts.MaxEffectors {
			return fail(dynamo.CapacityError("effectors", b.opts.MaxEffectors))
		}
		rootBody := b.tree.Node(b.tree.Root()).Body
		e := effector.NewIK(b.world, def.Name, parent.Body, rootBody, global, b.desc.Mass)
		b.effectors = append(b.effectors, e)
		b.log.Debug("attached ik effector", "node", item.node.Name, "body", parent.Name)
		return nil
	}

	if b.tree.Len() >= b.opts.MaxBodies {
		return fail(dynamo.CapacityError("bodies", b.opts.MaxBodies))
	}
	body := b.createBody(item.node, def)
	j, err := joints.Connect(b.world, body, parent.Body, global, def)
	if err != nil {
		return fail(err)
	}
	if j.IsDriven() {
		if len(b.effectors) >= b.opts.MaxEffectors {
			return fail(dynamo.CapacityError("effectors", b.opts.MaxEffectors))
		}
		b.effectors = append(b.effectors, effector.New(b.world, def.Name, j.Controller))
	}

	bind := spatial.InverseRigid(item.node.Parent().GlobalMatrixRelative(parent.Scene))
	id := b.tree.add(Node{
		Name:   def.Name,
		Body:   body,
		Parent: item.parent,
		Bind:   bind,
		Bone:   def,
		Joint:  j,
		Scene:  item.node,
	})
	b.log.Debug("created bone", "node", item.node.Name, "joint", def.Joint.String(), "mass_fraction", def.MassFraction)

	if err := b.enqueue(item.node.Children(), id); err != nil {
		return fail(err)
	}
	return nil
}

func (b *builder) createBody(n *scene.Node, def rig.BoneDefinition) dynamo.BodyID {
	shape := n.Shape
	if shape.Volume() <= 0 {
		shape = fallbackShape
	}
	body := b.world.CreateBody(shape, n.GlobalMatrix(), def.MassFraction, n)
	if b.opts.ForceCallback != nil {
		b.world.SetForceCallback(body, b.opts.ForceCallback)
	}
	return body
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MaxBodies <= 0 {
		o.MaxBodies = d.MaxBodies
	}
	if o.MaxBranches <= 0 {
		o.MaxBranches = d.MaxBranches
	}
	if o.MaxEffectors <= 0 {
		o.MaxEffectors = d.MaxEffectors
	}
	if o.MaxBones <= 0 {
		o.MaxBones = d.MaxBones
	}
	return o
}
