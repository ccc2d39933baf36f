package sim

import (
	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/history"
)

type Status int

const (
	Idle Status = iota
	Running
)

func (s Status) String() string {
	switch s {
	case Running:
		return "running"
	default:
		return "idle"
	}
}

// Rig is everything one run is assembled from. Initial and Goal are in the
// plant's own units.
type Rig struct {
	System     dynamo.System
	Integrator dynamo.Integrator
	Controller dynamo.Controller
	Initial    dynamo.State
	Goal       float64
}

// Builder assembles a rig from a validated configuration.
type Builder func(cfg config.Config) (Rig, error)

// ParamSource is polled once per tick for the parameters the run should
// use.
type ParamSource interface {
	Params() config.Config
}

// Snapshot is a copy of everything a renderer needs for one frame.
type Snapshot struct {
	Demo       string
	Status     Status
	State      dynamo.State
	Time       float64
	Steps      int
	Goal       float64
	Value      float64
	Error      float64
	Output     float64
	Samples    []dynamo.Sample
	Window     history.Window
	Tracking   bool
	Frozen     bool
	Overridden bool
}

type Result struct {
	Config  config.Config
	Steps   int
	Time    float64
	Final   dynamo.State
	Frozen  bool
	Metrics map[string]float64
}
