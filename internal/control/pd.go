package control

import (
	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/physics"
)

// PD computes a proportional-derivative output with an optional
// feed-forward term. The derivative comes from the two most recent history
// samples, so it only kicks in once two samples exist. The output is not
// clamped.
type PD struct {
	Kp          float64
	Kd          float64
	Dt          float64
	Wrap        bool
	FeedForward FeedForward
}

func NewPD(kp, kd, dt float64) *PD {
	return &PD{
		Kp: kp,
		Kd: kd,
		Dt: dt,
	}
}

// Error returns goal - y, folded into [-180, 180] degrees when Wrap is set.
func (p *PD) Error(y, goal float64) float64 {
	err := goal - y
	if p.Wrap {
		err = physics.WrapDegrees(err)
	}
	return err
}

func (p *PD) Compute(y, goal float64, h dynamo.History) float64 {
	return p.Proportional(y, goal) + p.Derivative(goal, h) + p.feedForward(y, goal)
}

func (p *PD) Proportional(y, goal float64) float64 {
	return p.Kp * p.Error(y, goal)
}

func (p *PD) Derivative(goal float64, h dynamo.History) float64 {
	if h == nil || h.Len() < 2 || p.Dt <= 0 {
		return 0
	}
	n := h.Len()
	oldErr := p.Error(h.At(n-2).Y, goal)
	newErr := p.Error(h.At(n-1).Y, goal)
	return p.Kd * (newErr - oldErr) / p.Dt
}

func (p *PD) feedForward(y, goal float64) float64 {
	if p.FeedForward == nil {
		return 0
	}
	return p.FeedForward.Term(y, goal)
}
