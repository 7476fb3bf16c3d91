package pose

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/effector"
	"github.com/san-kum/ragdoll/internal/spatial"
)

// DefaultBalanceGain is the fraction of the horizontal centre-of-mass
// error fed back into the feet each step.
const DefaultBalanceGain = 0.35

// AnkleAndFoot owns one leg's ankle and foot effectors. It leaves their
// targets unchanged and draws the foot target.
type AnkleAndFoot struct {
	ankle *effector.Effector
	foot  *effector.Effector
	last  [2]mgl64.Mat4
}

func NewAnkleAndFoot(ankle, foot *effector.Effector) *AnkleAndFoot {
	return &AnkleAndFoot{ankle: ankle, foot: foot}
}

func (a *AnkleAndFoot) GeneratePose(_ float64, out Pose) {
	for i, e := range []*effector.Effector{a.ankle, a.foot} {
		if e == nil {
			continue
		}
		if idx := out.Index(e); idx >= 0 {
			a.last[i] = out[idx].Target
		}
	}
}

func (a *AnkleAndFoot) Debug(v Visitor) {
	if a.foot == nil {
		return
	}
	v.DrawFrame(a.last[1], 0.1)
}

// CentreOfMass reports the model's centre of mass in the pose's reference
// frame.
type CentreOfMass func() mgl64.Vec3

// Up reports the world up axis in the pose's reference frame.
type Up func() mgl64.Vec3

// Balance moves its feet horizontally toward the centre of mass by gain
// times the distance between the COM and the feet centroid. Horizontal is
// taken against world up, so a tilted reference frame gets no vertical
// correction. A zero gain passes the pose through.
type Balance struct {
	com     CentreOfMass
	up      Up
	feet    []*effector.Effector
	gain    float64
	lastCOM mgl64.Vec3
	support mgl64.Vec3
}

func NewBalance(com CentreOfMass, gain float64, feet ...*effector.Effector) *Balance {
	return &Balance{com: com, feet: feet, gain: gain}
}

// WithUp sets the up axis source. Without one the reference frame is
// taken as upright.
func (b *Balance) WithUp(up Up) *Balance {
	b.up = up
	return b
}

func (b *Balance) Gain() float64 { return b.gain }

func (b *Balance) upAxis() mgl64.Vec3 {
	if b.up == nil {
		return mgl64.Vec3{0, 1, 0}
	}
	up := b.up()
	if up.Len() == 0 {
		return mgl64.Vec3{0, 1, 0}
	}
	return up.Normalize()
}

func (b *Balance) GeneratePose(_ float64, out Pose) {
	com := b.com()
	b.lastCOM = com
	if b.gain == 0 || len(b.feet) == 0 {
		return
	}

	idx := make([]int, 0, len(b.feet))
	var support mgl64.Vec3
	for _, f := range b.feet {
		i := out.Index(f)
		if i < 0 {
			continue
		}
		idx = append(idx, i)
		support = support.Add(spatial.Position(out[i].Target))
	}
	if len(idx) == 0 {
		return
	}
	support = support.Mul(1 / float64(len(idx)))
	b.support = support

	shift := com.Sub(support).Mul(b.gain)
	up := b.upAxis()
	shift = shift.Sub(up.Mul(shift.Dot(up)))
	for _, i := range idx {
		t := out[i].Target
		out[i].Target = spatial.WithPosition(t, spatial.Position(t).Add(shift))
	}
}

func (b *Balance) Debug(v Visitor) {
	v.DrawFrame(mgl64.Translate3D(b.lastCOM.X(), b.lastCOM.Y(), b.lastCOM.Z()), 0.5)
	v.DrawLine(b.support, b.lastCOM)
}
