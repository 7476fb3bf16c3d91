package integrators

import "github.com/san-kum/ragdoll/internal/dynamo"

// RK4 is the classic fourth-order Runge-Kutta step. It keeps no state
// between steps, so one value can integrate every body in a world.
type RK4 struct{}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	half := dt * 0.5
	k1 := dyn.Derive(x, u, t)
	k2 := dyn.Derive(offset(x, k1, half), u, t+half)
	k3 := dyn.Derive(offset(x, k2, half), u, t+half)
	k4 := dyn.Derive(offset(x, k3, dt), u, t+dt)

	out := make(dynamo.State, len(x))
	for i := range x {
		out[i] = x[i] + dt/6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return out
}

// offset returns x + h*dx.
func offset(x, dx dynamo.State, h float64) dynamo.State {
	out := make(dynamo.State, len(x))
	for i := range x {
		out[i] = x[i] + h*dx[i]
	}
	return out
}
