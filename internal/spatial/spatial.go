// Package spatial holds the rigid transform helpers shared by the rig
// builder, the pose tree and the reference world.
//
// Matrices follow the mgl64 column-vector convention: a point p in a
// child frame maps to world as world·p, so a child world matrix is
// parent·local.
package spatial

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// DegToRad converts authored degrees to radians.
func DegToRad(d float64) float64 {
	return d * math.Pi / 180
}

// PitchYawRoll builds the rotation that applies pitch (about X) first,
// then yaw (about Y), then roll (about Z). Angles in radians.
func PitchYawRoll(pitch, yaw, roll float64) mgl64.Mat4 {
	return mgl64.HomogRotate3DZ(roll).Mul4(mgl64.HomogRotate3DY(yaw)).Mul4(mgl64.HomogRotate3DX(pitch))
}

// EulerAngles recovers pitch, yaw and roll from a matrix built as
// PitchYawRoll. Near gimbal lock roll absorbs the remaining rotation.
func EulerAngles(m mgl64.Mat4) (pitch, yaw, roll float64) {
	sy := -m.At(2, 0)
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	yaw = math.Asin(sy)
	if math.Abs(sy) < 0.99995 {
		pitch = math.Atan2(m.At(2, 1), m.At(2, 2))
		roll = math.Atan2(m.At(1, 0), m.At(0, 0))
	} else {
		pitch = 0
		roll = math.Atan2(-m.At(0, 1), m.At(1, 1))
	}
	return pitch, yaw, roll
}

// Position returns the translation column.
func Position(m mgl64.Mat4) mgl64.Vec3 {
	return m.Col(3).Vec3()
}

// WithPosition returns m with its translation replaced.
func WithPosition(m mgl64.Mat4, p mgl64.Vec3) mgl64.Mat4 {
	m.SetCol(3, p.Vec4(1))
	return m
}

// Rotation returns m with the translation cleared.
func Rotation(m mgl64.Mat4) mgl64.Mat4 {
	m.SetCol(3, mgl64.Vec4{0, 0, 0, 1})
	return m
}

// TransformPoint maps p through m (w = 1).
func TransformPoint(m mgl64.Mat4, p mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(p.Vec4(1)).Vec3()
}

// RotateVector maps v through the rotation part of m (w = 0).
func RotateVector(m mgl64.Mat4, v mgl64.Vec3) mgl64.Vec3 {
	return m.Mul4x1(v.Vec4(0)).Vec3()
}

// InverseRigid inverts a rotation+translation matrix without a general
// 4x4 inverse.
func InverseRigid(m mgl64.Mat4) mgl64.Mat4 {
	rt := Rotation(m).Transpose()
	p := RotateVector(rt, Position(m))
	return WithPosition(rt, p.Mul(-1))
}

// Relative returns parent⁻¹·world, the transform that satisfies
// parent·local == world.
func Relative(world, parent mgl64.Mat4) mgl64.Mat4 {
	return InverseRigid(parent).Mul4(world)
}

// Compose returns a rigid matrix from a quaternion and translation.
func Compose(q mgl64.Quat, p mgl64.Vec3) mgl64.Mat4 {
	return WithPosition(q.Normalize().Mat4(), p)
}

// Decompose splits a rigid matrix into orientation and translation.
func Decompose(m mgl64.Mat4) (mgl64.Quat, mgl64.Vec3) {
	return mgl64.Mat4ToQuat(Rotation(m)).Normalize(), Position(m)
}

// ApproxEqual compares matrices element-wise.
func ApproxEqual(a, b mgl64.Mat4, eps float64) bool {
	for i := range a {
		if math.Abs(a[i]-b[i]) > eps {
			return false
		}
	}
	return true
}

// Orthonormalize re-orthogonalizes the rotation part of m, keeping the
// X axis direction.
func Orthonormalize(m mgl64.Mat4) mgl64.Mat4 {
	x := m.Col(0).Vec3().Normalize()
	y := m.Col(1).Vec3()
	z := x.Cross(y).Normalize()
	y = z.Cross(x)
	out := mgl64.Ident4()
	out.SetCol(0, x.Vec4(0))
	out.SetCol(1, y.Vec4(0))
	out.SetCol(2, z.Vec4(0))
	out.SetCol(3, m.Col(3))
	return out
}
