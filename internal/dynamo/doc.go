// Package dynamo defines the contract between the articulated-body core
// and the rigid-body engine that simulates it.
//
// The engine is a black box. The core only needs to:
//
//   - [World.CreateBody]: create a dynamic body from a collision shape
//   - [World.CreateBallAndSocket], [World.CreateHinge]: passive joints with limits
//   - [World.CreateKinematicController]: a driven 6DOF constraint with a target matrix
//   - [World.BodyMass], [World.SetBodyMass]: query and replace mass properties
//   - [World.Step]: advance the simulation, invoking per-body [ForceCallback]s
//
// The package also keeps the generic ODE primitives ([State], [System],
// [Integrator]) used by the reference world to integrate body motion.
//
// # Example
//
//	w := physics.NewWorld(physics.DefaultOptions())
//	body := w.CreateBody(dynamo.Box(0.2, 0.5, 0.2), matrix, 0.3, node)
//	w.Step(1.0 / 60)
//
// # Thread Safety
//
// World implementations are NOT safe for concurrent mutation. Force
// callbacks run in parallel during Step and must only touch the body
// they are handed.
package dynamo
