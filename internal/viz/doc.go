// Package viz renders the demos in the terminal with Bubble Tea.
//
// [Model] drives one sim.Simulation from its own parameter set, resetting
// the run whenever a parameter changes. The scene is drawn on a braille
// [Canvas]: a pendulum for the arm demo and a dial for the position and
// velocity demos, each with the goal overlaid. Below it an asciigraph strip
// chart shows the sliding history window against the goal.
//
// # Key Bindings
//
//	Space   - Pause/Resume
//	R       - Restore the starting parameters
//	T       - Toggle tracking (sliding window) / freeze frame
//	W       - Toggle angle wrap-around
//	Tab     - Select parameter
//	Up/Down - Adjust selected parameter
//	G / I   - Mouse drag sets goal / initial condition
//	C       - Cycle color themes
//
// Holding the left mouse button over the scene suspends the simulation
// until release.
package viz
