package integrators

import "github.com/san-kum/ragdoll/internal/dynamo"

// The second-order methods below split the state into positions and the
// matching velocities, [p..., v...], the layout of a body's linear motion
// [x y z vx vy vz].

func split(x dynamo.State) int { return len(x) / 2 }

// Verlet is velocity Verlet: a full position step from the current
// acceleration, then a velocity step from the average of the old and new
// accelerations.
type Verlet struct{}

func NewVerlet() *Verlet {
	return &Verlet{}
}

func (v *Verlet) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := split(x)
	a0 := dyn.Derive(x, u, t)

	out := make(dynamo.State, len(x))
	copy(out[n:], x[n:])
	for i := 0; i < n; i++ {
		out[i] = x[i] + x[n+i]*dt + 0.5*a0[n+i]*dt*dt
	}

	a1 := dyn.Derive(out, u, t+dt)
	for i := 0; i < n; i++ {
		out[n+i] = x[n+i] + 0.5*(a0[n+i]+a1[n+i])*dt
	}
	return out
}

// Leapfrog is kick-drift-kick: half a velocity step, a full position step
// with that velocity, then the second half velocity step.
type Leapfrog struct{}

func NewLeapfrog() *Leapfrog {
	return &Leapfrog{}
}

func (l *Leapfrog) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) dynamo.State {
	n := split(x)
	a0 := dyn.Derive(x, u, t)

	out := make(dynamo.State, len(x))
	for i := 0; i < n; i++ {
		out[n+i] = x[n+i] + 0.5*a0[n+i]*dt
		out[i] = x[i] + out[n+i]*dt
	}

	a1 := dyn.Derive(out, u, t+dt)
	for i := 0; i < n; i++ {
		out[n+i] += 0.5 * a1[n+i] * dt
	}
	return out
}
