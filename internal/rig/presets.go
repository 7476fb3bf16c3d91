package rig

// Tred is a two-legged walker: a pelvis with two legs, each ending in an
// ankle driven by an FK effector plus an IK effector reaching from the
// ankle to the pelvis.
func Tred() *Descriptor {
	return &Descriptor{
		Asset: "tred",
		Mass:  500,
		Bones: []BoneDefinition{
			{Name: "bone_pelvis", Joint: None, MassFraction: 1.0},

			{Name: "bone_rightLeg", Joint: ConeTwist3DOF, MassFraction: 0.3, Limits: JointLimits{60, 60, 70}, Frame: FrameAngles{0, 90, 0}},
			{Name: "bone_righCalf", Joint: Twist1DOF, MassFraction: 0.2, Limits: JointLimits{-60, 60, 0}, Frame: FrameAngles{0, 0, 90}},
			{Name: "bone_rightAnkle", Joint: FkEffector, MassFraction: 0.2, Frame: FrameAngles{-90, 0, 90}},
			{Name: "effector_rightAnkle", Joint: IkEffector},
			{Name: "bone_rightFoot", Joint: ConeTwist3DOF, MassFraction: 0.2, Limits: JointLimits{-30, 30, 0}, Frame: FrameAngles{0, 0, 90}},

			{Name: "bone_leftLeg", Joint: ConeTwist3DOF, MassFraction: 0.3, Limits: JointLimits{60, 60, 70}, Frame: FrameAngles{0, 90, 0}},
			{Name: "bone_leftCalf", Joint: Twist1DOF, MassFraction: 0.2, Limits: JointLimits{-60, 60, 0}, Frame: FrameAngles{0, 0, 90}},
			{Name: "bone_leftAnkle", Joint: FkEffector, MassFraction: 0.2, Frame: FrameAngles{-90, 0, 90}},
			{Name: "effector_leftAnkle", Joint: IkEffector},
			{Name: "bone_leftFoot", Joint: ConeTwist3DOF, MassFraction: 0.2, Limits: JointLimits{-30, 30, 0}, Frame: FrameAngles{0, 0, 90}},

			{},
		},
	}
}

// Limb is the smallest useful rig: a root with one cone-limited bone and
// an IK effector on it.
func Limb() *Descriptor {
	return &Descriptor{
		Asset: "limb",
		Mass:  10,
		Bones: []BoneDefinition{
			{Name: "root", Joint: None, MassFraction: 1},
			{Name: "bone_A", Joint: Cone2DOF, MassFraction: 0.5, Limits: JointLimits{ConeHalfAngle: 30}},
			{Name: "effector_A", Joint: IkEffector},
			{},
		},
	}
}

var builtins = map[string]func() *Descriptor{
	"tred": Tred,
	"limb": Limb,
}

// Builtin returns a fresh copy of a named built-in descriptor.
func Builtin(name string) (*Descriptor, bool) {
	fn, ok := builtins[name]
	if !ok {
		return nil, false
	}
	return fn(), true
}

// BuiltinNames lists the built-in descriptors.
func BuiltinNames() []string {
	return []string{"limb", "tred"}
}
