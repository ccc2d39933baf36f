// Package dynamo provides the core primitives shared by the control demos.
//
// The package defines the interfaces the fixed-step driver is built from:
//
//   - [State]: plant state vector
//   - [System]: plant rates dX/dt = f(X, u, t)
//   - [Integrator]: one fixed step of a [System]
//   - [Controller]: scalar output from error, history and feed-forward
//   - [History]: read-only view of the sampled strip chart
//
// Plants opt into extra behaviour through small interfaces: [SecondOrder]
// for position/velocity layout, [Normalizer] for wrap-around, [Measurable]
// for the regulated value and [Hamiltonian] for energy.
//
// # Thread Safety
//
// Nothing in this package is safe for concurrent mutation. Each simulation
// owns its state exclusively.
package dynamo
