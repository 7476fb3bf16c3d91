// Package control provides per-step input sources for the model manager.
//
// Sources implement [sim.Source] and produce the x, y, z offsets and pitch
// delta applied to every IK effector each step:
//
//   - [None]: zero input, the rest pose
//   - [Constant]: one fixed input
//   - [Manual]: a value set from outside, e.g. by the live TUI
//   - [Sweep]: sinusoids per channel, for unattended runs
//
// # Usage
//
//	src := control.NewSweep(control.SweepParams{Y: 0.2, Frequency: 0.5})
//	s := sim.New(world, src, m)
package control
