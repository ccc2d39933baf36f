// Package physics provides the plant models driven by the control demos.
//
// Each model implements [dynamo.System] together with [dynamo.SecondOrder]
// and [dynamo.Measurable]:
//
//   - [Arm]: pendulum arm with gravity and sin(omega) friction
//   - [PointMass]: translating mass with Coulomb friction, optionally wrapped
//   - [Motor]: shaft velocity with linear drag
//
// Stepped with the semi-implicit Euler integrator, the models reproduce the
// demo update rules exactly: velocity first, then position from the
// updated velocity.
//
// [Arm] also implements [dynamo.Hamiltonian]:
//
//	arm := physics.NewArm()
//	energy := arm.Energy(state)
package physics
