package pose

// Pipeline runs its base and then each decorator in order, innermost
// first.
type Pipeline struct {
	base  *Base
	nodes []Node
	out   Pose
}

func NewPipeline(base *Base, decorators ...Node) *Pipeline {
	return &Pipeline{
		base:  base,
		nodes: append([]Node(nil), decorators...),
		out:   base.Pose().Clone(),
	}
}

func (p *Pipeline) Base() *Base { return p.base }

// Push appends a decorator as the new outermost node.
func (p *Pipeline) Push(n Node) {
	p.nodes = append(p.nodes, n)
}

// Len counts the base and decorators.
func (p *Pipeline) Len() int { return 1 + len(p.nodes) }

func (p *Pipeline) GeneratePose(dt float64, out Pose) {
	p.base.GeneratePose(dt, out)
	for _, n := range p.nodes {
		n.GeneratePose(dt, out)
	}
}

// Generate runs the pipeline into its own buffer and returns it. The
// result is valid until the next call.
func (p *Pipeline) Generate(dt float64) Pose {
	p.GeneratePose(dt, p.out)
	return p.out
}

func (p *Pipeline) Debug(v Visitor) {
	p.base.Debug(v)
	for _, n := range p.nodes {
		n.Debug(v)
	}
}
