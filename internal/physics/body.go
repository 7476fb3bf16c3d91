package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
)

type body struct {
	shape     dynamo.Shape
	matrix    mgl64.Mat4
	com       mgl64.Vec3
	mass      dynamo.MassProperties
	vel       mgl64.Vec3
	omega     mgl64.Vec3
	force     mgl64.Vec3
	userData  any
	callback  dynamo.ForceCallback
	aggregate int
	contacts  int
}

// boxInertia returns the principal inertia of a solid box of mass m.
func boxInertia(m float64, s dynamo.Shape) dynamo.MassProperties {
	hx, hy, hz := s.HalfExtents.X(), s.HalfExtents.Y(), s.HalfExtents.Z()
	return dynamo.MassProperties{
		Mass: m,
		Ixx:  m * (hy*hy + hz*hz) / 3,
		Iyy:  m * (hx*hx + hz*hz) / 3,
		Izz:  m * (hx*hx + hy*hy) / 3,
	}
}

func (b *body) static() bool {
	return b.mass.Mass <= 0
}

// corners returns the eight world-space box corners.
func (b *body) corners() [8]mgl64.Vec3 {
	var out [8]mgl64.Vec3
	h := b.shape.HalfExtents
	i := 0
	for _, sx := range []float64{-1, 1} {
		for _, sy := range []float64{-1, 1} {
			for _, sz := range []float64{-1, 1} {
				local := mgl64.Vec4{sx * h.X(), sy * h.Y(), sz * h.Z(), 1}
				out[i] = b.matrix.Mul4x1(local).Vec3()
				i++
			}
		}
	}
	return out
}

// linearMotion exposes a body's translation as a dynamo.System with state
// [px, py, pz, vx, vy, vz] and control = acceleration.
type linearMotion struct{}

func (linearMotion) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	return dynamo.State{x[3], x[4], x[5], u[0], u[1], u[2]}
}

func (linearMotion) StateDim() int   { return 6 }
func (linearMotion) ControlDim() int { return 3 }
