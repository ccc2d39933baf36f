// Package analysis characterises recorded control runs.
//
//   - [AnalyzeStep]: rise time, peak, overshoot and steady-state error
//   - [DominantFrequency]: strongest oscillation in a sampled trace
//   - [NewPhasePortrait]: two state components plotted against each other
//
// A released arm with little friction shows up as a clear spectral peak
// near its natural frequency:
//
//	f := analysis.DominantFrequency(values, cfg.Dt)
package analysis
