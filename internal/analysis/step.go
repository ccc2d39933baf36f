package analysis

import "math"

// StepResponse summarises how a recorded value moved from its initial value
// toward a constant goal.
type StepResponse struct {
	Initial float64
	Goal    float64
	Final   float64
	// RiseTime is the time from 10% to 90% of the step, or -1 if the value
	// never got there.
	RiseTime  float64
	Peak      float64
	PeakTime  float64
	Overshoot float64 // percent of the step size
	// SteadyStateError is goal minus the final value.
	SteadyStateError float64
}

// AnalyzeStep measures a step response from parallel time and value
// slices.
func AnalyzeStep(times, values []float64, initial, goal float64) StepResponse {
	r := StepResponse{Initial: initial, Goal: goal, RiseTime: -1}
	n := len(values)
	if n == 0 || len(times) != n {
		return r
	}
	r.Final = values[n-1]
	r.SteadyStateError = goal - r.Final

	step := goal - initial
	if step == 0 {
		r.Peak = values[0]
		return r
	}
	dir := math.Copysign(1, step)

	t10, t90 := -1.0, -1.0
	r.Peak = values[0]
	r.PeakTime = times[0]
	for i, v := range values {
		progress := (v - initial) / step
		if t10 < 0 && progress >= 0.1 {
			t10 = times[i]
		}
		if t90 < 0 && progress >= 0.9 {
			t90 = times[i]
		}
		if dir*(v-r.Peak) > 0 {
			r.Peak = v
			r.PeakTime = times[i]
		}
	}
	if t10 >= 0 && t90 >= 0 {
		r.RiseTime = t90 - t10
	}
	if past := dir * (r.Peak - goal); past > 0 {
		r.Overshoot = 100 * past / math.Abs(step)
	}
	return r
}
