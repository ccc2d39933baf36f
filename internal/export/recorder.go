package export

import "github.com/san-kum/pidsim/internal/dynamo"

// Recorder keeps every step of a run, not just the display window.
type Recorder struct {
	Times    []float64
	States   []dynamo.State
	Values   []float64
	Goals    []float64
	Errors   []float64
	Controls []float64
}

func NewRecorder() *Recorder {
	return &Recorder{}
}

func (r *Recorder) OnStep(s dynamo.Step) {
	r.Times = append(r.Times, s.T)
	r.States = append(r.States, s.X.Clone())
	r.Values = append(r.Values, s.Y)
	r.Goals = append(r.Goals, s.Goal)
	r.Errors = append(r.Errors, s.Err)
	u := 0.0
	if len(s.U) > 0 {
		u = s.U[0]
	}
	r.Controls = append(r.Controls, u)
}

func (r *Recorder) Reset() {
	r.Times = r.Times[:0]
	r.States = r.States[:0]
	r.Values = r.Values[:0]
	r.Goals = r.Goals[:0]
	r.Errors = r.Errors[:0]
	r.Controls = r.Controls[:0]
}

func (r *Recorder) Len() int { return len(r.Times) }

// Scaled returns the recorded values multiplied by scale, e.g. radians to
// degrees for display.
func (r *Recorder) Scaled(scale float64) (values, goals []float64) {
	values = make([]float64, len(r.Values))
	goals = make([]float64, len(r.Goals))
	for i := range r.Values {
		values[i] = r.Values[i] * scale
		goals[i] = r.Goals[i] * scale
	}
	return values, goals
}
