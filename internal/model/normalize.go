package model

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/san-kum/ragdoll/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// InertiaFloor is the smallest principal inertia left after normalization.
const InertiaFloor = 10.0

// Normalize scales every body's mass and inertia so the masses sum to
// target. A body whose smallest scaled axis falls below InertiaFloor gets
// an isotropic inertia of max(InertiaFloor, Ixx, Iyy, Izz).
func Normalize(w dynamo.World, bodies []dynamo.BodyID, target float64) error {
	masses := make([]float64, len(bodies))
	for i, b := range bodies {
		masses[i] = w.BodyMass(b).Mass
	}
	total := floats.Sum(masses)
	if total <= 0 {
		return dynamo.ErrZeroMass
	}
	scale := target / total

	for _, b := range bodies {
		mp := w.BodyMass(b)
		mp.Mass *= scale
		axes := []float64{mp.Ixx * scale, mp.Iyy * scale, mp.Izz * scale}
		if floats.Min(axes) < InertiaFloor {
			v := floats.Max(append(axes, InertiaFloor))
			axes[0], axes[1], axes[2] = v, v, v
		}
		mp.Ixx, mp.Iyy, mp.Izz = axes[0], axes[1], axes[2]
		w.SetBodyMass(b, mp)
	}
	return nil
}

// CentreOfMass is the mass-weighted mean of the bodies' world centres of
// mass.
func CentreOfMass(w dynamo.World, t *Tree) mgl64.Vec3 {
	var com mgl64.Vec3
	total := 0.0
	t.Walk(func(_ NodeID, n *Node) {
		m := w.BodyMass(n.Body).Mass
		p := w.BodyMatrix(n.Body).Mul4x1(w.BodyCentreOfMass(n.Body).Vec4(1)).Vec3()
		floats.AddScaled(com[:], m, p[:])
		total += m
	})
	if total > 0 {
		floats.Scale(1/total, com[:])
	}
	return com
}
