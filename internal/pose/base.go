package pose

// Base holds the authoritative pose that per-step control input edits.
// It copies that pose into the output unchanged.
type Base struct {
	pose Pose
}

func NewBase(initial Pose) *Base {
	return &Base{pose: initial.Clone()}
}

// Pose returns the authoritative pose for in-place edits.
func (b *Base) Pose() Pose { return b.pose }

func (b *Base) GeneratePose(_ float64, out Pose) {
	copy(out, b.pose)
}

func (b *Base) Debug(Visitor) {}
