package metrics

import (
	"math"

	"github.com/san-kum/pidsim/internal/dynamo"
)

func output(s dynamo.Step) float64 {
	if len(s.U) == 0 {
		return 0
	}
	return s.U[0]
}

// ControlEffort is the mean absolute controller output per step.
type ControlEffort struct {
	sum, peak float64
	n         int
}

func NewControlEffort() *ControlEffort { return &ControlEffort{} }

func (c *ControlEffort) Name() string { return "control_effort" }

func (c *ControlEffort) Observe(s dynamo.Step) {
	u := math.Abs(output(s))
	c.sum += u
	c.peak = math.Max(c.peak, u)
	c.n++
}

func (c *ControlEffort) Value() float64 {
	if c.n == 0 {
		return 0
	}
	return c.sum / float64(c.n)
}

// Peak is the largest absolute output seen.
func (c *ControlEffort) Peak() float64 { return c.peak }

func (c *ControlEffort) Reset() { *c = ControlEffort{} }

// Chatter counts sign reversals of the output per second of run time. A
// PD loop holding a mass against Coulomb friction near the goal chatters.
type Chatter struct {
	last      float64
	reversals int
	elapsed   float64
}

func NewChatter() *Chatter { return &Chatter{} }

func (c *Chatter) Name() string { return "chatter" }

func (c *Chatter) Observe(s dynamo.Step) {
	u := output(s)
	if u*c.last < 0 {
		c.reversals++
	}
	if u != 0 {
		c.last = u
	}
	c.elapsed += s.Dt
}

func (c *Chatter) Value() float64 {
	if c.elapsed == 0 {
		return 0
	}
	return float64(c.reversals) / c.elapsed
}

func (c *Chatter) Reset() { *c = Chatter{} }

// Stability is the fraction of steps with a finite state and a measured
// value inside ±bound.
type Stability struct {
	bound  float64
	bad, n int
}

func NewStability(bound float64) *Stability { return &Stability{bound: bound} }

func (s *Stability) Name() string { return "stability" }

func (s *Stability) Observe(step dynamo.Step) {
	s.n++
	if !step.X.IsValid() || math.IsNaN(step.Y) || math.Abs(step.Y) > s.bound {
		s.bad++
	}
}

func (s *Stability) Value() float64 {
	if s.n == 0 {
		return 1
	}
	return 1 - float64(s.bad)/float64(s.n)
}

func (s *Stability) Reset() { s.bad, s.n = 0, 0 }
