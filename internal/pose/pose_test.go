package pose_test

import (
	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/effector"
	"github.com/san-kum/ragdoll/internal/physics"
	"github.com/san-kum/ragdoll/internal/pose"
	"github.com/san-kum/ragdoll/internal/spatial"
)

type recorder struct {
	frames int
	lines  int
}

func (r *recorder) DrawFrame(mgl64.Mat4, float64)   { r.frames++ }
func (r *recorder) DrawLine(mgl64.Vec3, mgl64.Vec3) { r.lines++ }

var _ = Describe("Pipeline", func() {
	var (
		effectors []*effector.Effector
		com       mgl64.Vec3
		base      *pose.Base
	)

	BeforeEach(func() {
		w, err := physics.NewWorld(physics.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		root := w.CreateBody(dynamo.Box(0.2, 0.1, 0.1), mgl64.Translate3D(0, 1, 0), 1, nil)
		effectors = nil
		for i, x := range []float64{-0.2, 0.2, 0} {
			b := w.CreateBody(dynamo.Box(0.05, 0.05, 0.05), mgl64.Translate3D(x, 0.1, 0), 0.2, nil)
			name := []string{"left", "right", "hand"}[i]
			effectors = append(effectors, effector.NewIK(w, name, b, root, mgl64.Translate3D(x, 0.1, 0), 10))
		}
		com = mgl64.Vec3{0.1, -0.5, 0.05}
		base = pose.NewBase(pose.FromEffectors(effectors))
	})

	comSource := func() mgl64.Vec3 { return com }

	It("returns the base pose unchanged without decorators", func() {
		p := pose.NewPipeline(base)
		Expect(p.Generate(0).Equal(base.Pose())).To(BeTrue())
		Expect(p.Len()).To(Equal(1))
	})

	It("feeds base edits through and keeps the base authoritative", func() {
		p := pose.NewPipeline(base)
		base.Pose()[2].Target = mgl64.Translate3D(0, -0.2, 0.3)

		out := p.Generate(0)
		Expect(out[2].Target).To(Equal(mgl64.Translate3D(0, -0.2, 0.3)))

		out[0].Target = mgl64.Ident4()
		Expect(base.Pose()[0].Target).NotTo(Equal(mgl64.Ident4()))
	})

	It("is idempotent with zero elapsed time", func() {
		p := pose.NewPipeline(base,
			pose.NewAnkleAndFoot(effectors[0], effectors[1]),
			pose.NewBalance(comSource, pose.DefaultBalanceGain, effectors[0], effectors[1]),
		)
		first := p.Generate(0).Clone()
		second := p.Generate(0).Clone()
		Expect(second.Equal(first)).To(BeTrue())
		Expect(second).To(HaveLen(3))
	})

	It("rewrites only the balance node's own effectors", func() {
		p := pose.NewPipeline(base, pose.NewBalance(comSource, 0.5, effectors[0], effectors[1]))
		out := p.Generate(1.0 / 60)

		Expect(out[2].Target).To(Equal(base.Pose()[2].Target))
		for i := 0; i < 2; i++ {
			before := spatial.Position(base.Pose()[i].Target)
			after := spatial.Position(out[i].Target)
			// feet centroid is at x=0, y=-0.9 in the root frame
			Expect(after.X() - before.X()).To(BeNumerically("~", 0.05, 1e-12))
			Expect(after.Z() - before.Z()).To(BeNumerically("~", 0.025, 1e-12))
			Expect(after.Y()).To(BeNumerically("~", before.Y(), 1e-12))
		}
	})

	It("keeps the correction horizontal in a tilted reference frame", func() {
		tilt := mgl64.HomogRotate3DZ(0.3)
		up := spatial.RotateVector(spatial.InverseRigid(tilt), mgl64.Vec3{0, 1, 0})
		balance := pose.NewBalance(comSource, 0.5, effectors[0], effectors[1]).WithUp(func() mgl64.Vec3 { return up })
		out := pose.NewPipeline(base, balance).Generate(1.0 / 60)

		for i := 0; i < 2; i++ {
			shift := spatial.Position(out[i].Target).Sub(spatial.Position(base.Pose()[i].Target))
			Expect(shift.Len()).To(BeNumerically(">", 0.01))
			world := spatial.RotateVector(tilt, shift)
			Expect(world.Y()).To(BeNumerically("~", 0, 1e-12))
		}
	})

	It("passes through with zero gain", func() {
		p := pose.NewPipeline(base, pose.NewBalance(comSource, 0, effectors[0], effectors[1]))
		Expect(p.Generate(1).Equal(base.Pose())).To(BeTrue())
	})

	It("debugs without changing the generated pose", func() {
		p := pose.NewPipeline(base, pose.NewAnkleAndFoot(effectors[0], effectors[1]))
		p.Push(pose.NewBalance(comSource, pose.DefaultBalanceGain, effectors[0], effectors[1]))
		before := p.Generate(0).Clone()

		r := &recorder{}
		p.Debug(r)
		Expect(r.lines).To(Equal(1))
		Expect(r.frames).To(Equal(2))
		Expect(p.Generate(0).Equal(before)).To(BeTrue())
	})

	It("applies targets to effectors", func() {
		out := pose.NewPipeline(base).Generate(0)
		out[2].Target = mgl64.Translate3D(0.4, 0, 0)
		out.Apply()
		Expect(effectors[2].GetTargetMatrix()).To(Equal(mgl64.Translate3D(0.4, 0, 0)))
		Expect(out.Index(effectors[1])).To(Equal(1))
	})
})
