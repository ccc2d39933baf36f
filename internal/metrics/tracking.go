package metrics

import (
	"math"

	"github.com/san-kum/pidsim/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// IAE integrates the absolute controller error over time.
type IAE struct {
	sum float64
}

func NewIAE() *IAE { return &IAE{} }

func (m *IAE) Name() string { return "iae" }

func (m *IAE) Observe(s dynamo.Step) {
	m.sum += math.Abs(s.Err) * s.Dt
}

func (m *IAE) Value() float64 { return m.sum }

func (m *IAE) Reset() { m.sum = 0 }

// Overshoot is how far the measured value travelled past the goal, in the
// plant's units. The direction is set by the sign of the first error.
type Overshoot struct {
	dir     float64
	peak    float64
	samples int
}

func NewOvershoot() *Overshoot { return &Overshoot{} }

func (m *Overshoot) Name() string { return "overshoot" }

func (m *Overshoot) Observe(s dynamo.Step) {
	if m.dir == 0 {
		switch {
		case s.Err > 0:
			m.dir = 1
		case s.Err < 0:
			m.dir = -1
		}
	}
	m.samples++
	if m.dir != 0 {
		m.peak = math.Max(m.peak, -m.dir*s.Err)
	}
}

func (m *Overshoot) Value() float64 { return m.peak }

func (m *Overshoot) Reset() {
	m.dir = 0
	m.peak = 0
	m.samples = 0
}

// SettlingTime is the time after which the error stays within a fraction
// of its initial magnitude. It is zero for a run that starts settled and
// equals the end of the run for one that never settles.
type SettlingTime struct {
	band    float64
	limit   float64
	settled float64
	samples int
}

func NewSettlingTime(band float64) *SettlingTime {
	return &SettlingTime{band: band}
}

func (m *SettlingTime) Name() string { return "settling_time" }

func (m *SettlingTime) Observe(s dynamo.Step) {
	if m.samples == 0 {
		m.limit = m.band * math.Abs(s.Err)
	}
	m.samples++
	// the error is measured before the step, so the next measurement at
	// T+Dt is the first one back inside the band
	if math.Abs(s.Err) > m.limit {
		m.settled = s.T + s.Dt
	}
}

func (m *SettlingTime) Value() float64 { return m.settled }

func (m *SettlingTime) Reset() {
	m.limit = 0
	m.settled = 0
	m.samples = 0
}

// ErrorStats keeps every error of a run and summarises it. Value is the
// standard deviation.
type ErrorStats struct {
	errs []float64
}

func NewErrorStats() *ErrorStats { return &ErrorStats{} }

func (m *ErrorStats) Name() string { return "error_std" }

func (m *ErrorStats) Observe(s dynamo.Step) {
	m.errs = append(m.errs, s.Err)
}

func (m *ErrorStats) Value() float64 {
	_, std := m.MeanStd()
	return std
}

func (m *ErrorStats) MeanStd() (mean, std float64) {
	if len(m.errs) < 2 {
		if len(m.errs) == 1 {
			return m.errs[0], 0
		}
		return 0, 0
	}
	return stat.MeanStdDev(m.errs, nil)
}

func (m *ErrorStats) RMS() float64 {
	if len(m.errs) == 0 {
		return 0
	}
	return floats.Norm(m.errs, 2) / math.Sqrt(float64(len(m.errs)))
}

func (m *ErrorStats) Reset() { m.errs = m.errs[:0] }
