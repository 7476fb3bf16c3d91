package model_test

import (
	"errors"
	"math"

	"github.com/go-gl/mathgl/mgl64"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ragdoll/internal/dynamo"
	"github.com/san-kum/ragdoll/internal/joints"
	"github.com/san-kum/ragdoll/internal/model"
	"github.com/san-kum/ragdoll/internal/physics"
	"github.com/san-kum/ragdoll/internal/rig"
	"github.com/san-kum/ragdoll/internal/scene"
	"github.com/san-kum/ragdoll/internal/skeleton"
	"github.com/san-kum/ragdoll/internal/spatial"
)

func newWorld() *physics.World {
	w, err := physics.NewWorld(physics.DefaultOptions())
	Expect(err).NotTo(HaveOccurred())
	return w
}

var _ = Describe("Build", func() {
	Context("with a single cone-limited limb", func() {
		var (
			w *physics.World
			m *model.Model
		)

		BeforeEach(func() {
			w = newWorld()
			var err error
			m, err = model.Build(w, rig.Limb(), scene.Limb(), model.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
		})

		It("creates two bodies and one cone-only joint", func() {
			Expect(w.BodyCount()).To(Equal(2))
			Expect(m.Tree.Len()).To(Equal(2))

			js := w.Joints()
			Expect(js).To(HaveLen(1))
			Expect(js[0].Kind).To(Equal(physics.BallAndSocket))
			Expect(js[0].Ball.Twist.Max).To(BeZero())
			Expect(js[0].Ball.Cone.Max).To(BeNumerically("~", 30*math.Pi/180, 1e-12))

			bone := m.Tree.Node(m.Tree.Find("bone_A"))
			Expect(joints.ConeLimitDegrees(bone.Joint.Config)).To(BeNumerically("~", 30, 1e-9))
			Expect(bone.Parent).To(Equal(m.Tree.Root()))
		})

		It("creates one effector between bone_A and the root", func() {
			Expect(m.Effectors).To(HaveLen(1))
			Expect(m.Pose()).To(HaveLen(1))

			e := m.Effectors[0]
			Expect(e.Name()).To(Equal("effector_A"))
			Expect(e.Body()).To(Equal(m.Tree.Node(m.Tree.Find("bone_A")).Body))
			Expect(e.Controller().Reference()).To(Equal(m.RootBody()))
			Expect(e.Params().Mode).To(Equal(dynamo.LinearAndTwist))
			Expect(e.Params().MaxAngularFriction).To(BeNumerically("~", 1000, 1e-9))
		})

		It("normalizes to the descriptor mass and disables self collision", func() {
			total := 0.0
			for _, b := range m.Tree.Bodies() {
				total += w.BodyMass(b).Mass
			}
			Expect(total).To(BeNumerically("~", 10, 1e-9))

			members, self := w.Aggregate(m.Aggregate)
			Expect(members).To(ConsistOf(m.Tree.Bodies()))
			Expect(self).To(BeFalse())
		})

		It("registers every node with the skeleton, parents first", func() {
			sk := m.Skeleton()
			Expect(sk.Len()).To(Equal(2))
			Expect(sk.Bone(0).Parent).To(Equal(skeleton.NoBone))
			Expect(sk.Bone(1).Parent).To(Equal(skeleton.BoneID(0)))
		})
	})

	Context("with the walker", func() {
		It("orders effectors by first visit", func() {
			w := newWorld()
			m, err := model.Build(w, rig.Tred(), scene.Tred(), model.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())

			names := make([]string, len(m.Effectors))
			for i, e := range m.Effectors {
				names[i] = e.Name()
			}
			Expect(names).To(Equal([]string{"bone_rightAnkle", "bone_leftAnkle", "effector_rightAnkle", "effector_leftAnkle"}))
			for i, entry := range m.Pose() {
				Expect(entry.Effector).To(BeIdenticalTo(m.Effectors[i]))
			}
			Expect(w.BodyCount()).To(Equal(9))
			Expect(m.Tree.Len()).To(Equal(9))
		})

		It("pairs each ik effector with its ankle and adds a balance node", func() {
			m, err := model.Build(newWorld(), rig.Tred(), scene.Tred(), model.DefaultOptions())
			Expect(err).NotTo(HaveOccurred())
			Expect(m.Pipeline().Len()).To(Equal(4))
		})
	})

	It("skips unmatched scene nodes with their subtrees", func() {
		root := scene.Limb()
		prop := root.AddChild(scene.NewNode("prop", mgl64.Translate3D(1, 0, 0), dynamo.Box(0.1, 0.1, 0.1)))
		prop.AddChild(scene.NewNode("bone_A", mgl64.Ident4(), dynamo.Box(0.1, 0.1, 0.1)))

		w := newWorld()
		m, err := model.Build(w, rig.Limb(), root, model.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		Expect(w.BodyCount()).To(Equal(2))
		Expect(m.Tree.Find("prop")).To(Equal(model.NoNode))
	})

	It("fails on an unknown joint kind", func() {
		d := rig.Limb()
		d.Bones[1].Joint = rig.JointKind(99)
		_, err := model.Build(newWorld(), d, scene.Limb(), model.DefaultOptions())
		Expect(errors.Is(err, dynamo.ErrUnknownJointKind)).To(BeTrue())

		var be *dynamo.BuildError
		Expect(errors.As(err, &be)).To(BeTrue())
		Expect(be.Bone).To(Equal("bone_A"))
	})

	It("fails when the bone table has no mass", func() {
		d := rig.Limb()
		d.Bones[0].MassFraction = 0
		d.Bones[1].MassFraction = 0
		_, err := model.Build(newWorld(), d, scene.Limb(), model.DefaultOptions())
		Expect(errors.Is(err, dynamo.ErrZeroMass)).To(BeTrue())
	})

	DescribeTable("enforces capacities",
		func(mutate func(*model.Options)) {
			opts := model.DefaultOptions()
			mutate(&opts)
			_, err := model.Build(newWorld(), rig.Tred(), scene.Tred(), opts)
			Expect(errors.Is(err, dynamo.ErrCapacityExceeded)).To(BeTrue())
		},
		Entry("bodies", func(o *model.Options) { o.MaxBodies = 4 }),
		Entry("branches", func(o *model.Options) { o.MaxBranches = 1 }),
		Entry("effectors", func(o *model.Options) { o.MaxEffectors = 3 }),
		Entry("bones", func(o *model.Options) { o.MaxBones = 5 }),
	)

	It("reports the bone that overflowed the skeleton", func() {
		opts := model.DefaultOptions()
		opts.MaxBones = 5
		_, err := model.Build(newWorld(), rig.Tred(), scene.Tred(), opts)
		var be *dynamo.BuildError
		Expect(errors.As(err, &be)).To(BeTrue())
		Expect(be.Bone).NotTo(BeEmpty())
		Expect(errors.Is(err, dynamo.ErrCapacityExceeded)).To(BeTrue())
	})

	It("fits a skeleton as large as the body ceiling by default", func() {
		opts := model.DefaultOptions()
		Expect(opts.MaxBones).To(Equal(model.DefaultMaxBodies))
	})
})

var _ = Describe("Stepping", func() {
	It("drives ik effectors from control input without drift", func() {
		w := newWorld()
		m, err := model.Build(w, rig.Limb(), scene.Limb(), model.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())
		e := m.Effectors[0]

		in := model.Input{X: 0.1, Pitch: 0.2}
		first := m.PreUpdate(0, in).Clone()
		second := m.PreUpdate(0, in)
		Expect(second.Equal(first)).To(BeTrue())
		Expect(spatial.ApproxEqual(e.GetTargetMatrix(), first[0].Target, 1e-12)).To(BeTrue())
	})

	It("emits parent-relative transforms that round-trip", func() {
		w := newWorld()
		m, err := model.Build(w, rig.Tred(), scene.Tred(), model.DefaultOptions())
		Expect(err).NotTo(HaveOccurred())

		for i := 0; i < 10; i++ {
			m.PreUpdate(1.0/60, model.Input{Z: 0.1})
			Expect(w.Step(1.0 / 60)).To(Succeed())
			m.PostUpdate(func(b skeleton.Bone, local mgl64.Mat4) {
				world := w.BodyMatrix(b.Body)
				if b.Parent == skeleton.NoBone {
					Expect(local).To(Equal(world))
					return
				}
				parent := w.BodyMatrix(m.Skeleton().Bone(b.Parent).Body)
				Expect(spatial.ApproxEqual(parent.Mul4(local), world, 1e-9)).To(BeTrue())
			})
		}
	})
})
