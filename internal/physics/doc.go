// Package physics provides an in-process reference implementation of
// [dynamo.World].
//
// It is intentionally small: bodies are boxes, translational motion is
// integrated with one of the [integrators], orientation is integrated
// from angular velocity, kinematic controllers pull their body toward a
// target with capped velocity changes, and passive joints keep child and
// parent pivots together by positional projection. Angular joint limits
// are stored but not enforced. A ground plane at [Options.GroundHeight]
// produces contacts.
//
// # Stepping
//
//	w := physics.NewWorld(physics.DefaultOptions())
//	for i := 0; i < steps; i++ {
//	    if err := w.Step(dt); err != nil {
//	        return err
//	    }
//	}
//
// Force callbacks run in parallel across [Options.Workers] goroutines;
// everything else in Step is sequential.
package physics
