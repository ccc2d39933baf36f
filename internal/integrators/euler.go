package integrators

import "github.com/san-kum/pidsim/internal/dynamo"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	dx := dyn.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result
}

// SemiImplicitEuler advances velocities first and then moves positions with
// the updated velocities. Systems without [dynamo.SecondOrder] are treated as
// half positions, half velocities.
type SemiImplicitEuler struct {
	scratch dynamo.State
}

func NewSemiImplicitEuler() *SemiImplicitEuler {
	return &SemiImplicitEuler{}
}

func (e *SemiImplicitEuler) Step(dyn dynamo.System, x dynamo.State, u dynamo.Control, t float64, dt float64) dynamo.State {
	n := len(x)
	q := positionDim(dyn, n)

	dx := dyn.Derive(x, u, t)
	result := x.Clone()
	for i := q; i < n; i++ {
		result[i] = x[i] + dt*dx[i]
	}
	if q == 0 {
		return result
	}

	if len(e.scratch) != n {
		e.scratch = make(dynamo.State, n)
	}
	copy(e.scratch, result)
	dxNew := dyn.Derive(e.scratch, u, t+dt)
	for i := 0; i < q; i++ {
		result[i] = x[i] + dt*dxNew[i]
	}
	return result
}

func positionDim(dyn dynamo.System, n int) int {
	q := n / 2
	if so, ok := dyn.(dynamo.SecondOrder); ok {
		q = so.PositionDim()
	}
	if q < 0 {
		q = 0
	}
	if q > n {
		q = n
	}
	return q
}
