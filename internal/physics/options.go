package physics

import "github.com/go-gl/mathgl/mgl64"

// MaxOmega is the angular speed clamp applied by the default force callback.
const MaxOmega = 100.0

type Options struct {
	Gravity              mgl64.Vec3
	Workers              int
	Integrator           string
	GroundHeight         float64
	GroundFriction       float64
	ProjectionIterations int
	MaxOmega             float64
}

func DefaultOptions() Options {
	return Options{
		Gravity:              mgl64.Vec3{0, -9.8, 0},
		Integrator:           "symplectic",
		GroundHeight:         0,
		GroundFriction:       0.8,
		ProjectionIterations: 4,
		MaxOmega:             MaxOmega,
	}
}
