package experiment

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/control"
	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/integrators"
	"github.com/san-kum/pidsim/internal/metrics"
	"github.com/san-kum/pidsim/internal/physics"
	"github.com/san-kum/pidsim/internal/sim"
)

// Demo describes one control demo: how to build its rig and how to show it.
type Demo struct {
	Name  string
	Title string
	Unit  string
	// Scale converts plant units into display units.
	Scale float64
	// Min and Max bound the chart in display units.
	Min, Max float64
	Build    sim.Builder
}

// Display converts a plant value into display units.
func (d Demo) Display(v float64) float64 { return v * d.Scale }

type Registry struct {
	demos map[string]Demo
}

func NewRegistry() *Registry {
	r := &Registry{demos: make(map[string]Demo)}

	r.demos[config.DemoArm] = Demo{
		Name:  config.DemoArm,
		Title: "Arm",
		Unit:  "deg",
		Scale: 180 / math.Pi,
		Min:   -180,
		Max:   180,
		Build: buildArm,
	}
	r.demos[config.DemoPosition] = Demo{
		Name:  config.DemoPosition,
		Title: "Position",
		Unit:  "deg",
		Scale: 1,
		Min:   -180,
		Max:   180,
		Build: buildPosition,
	}
	r.demos[config.DemoVelocity] = Demo{
		Name:  config.DemoVelocity,
		Title: "Velocity",
		Unit:  "rpm",
		Scale: 1,
		Min:   0,
		Max:   4000,
		Build: buildVelocity,
	}

	return r
}

func (r *Registry) Get(name string) (Demo, error) {
	d, ok := r.demos[name]
	if !ok {
		return Demo{}, fmt.Errorf("%q: %w", name, dynamo.ErrUnknownDemo)
	}
	return d, nil
}

// Builder dispatches on cfg.Demo, so one Simulation can switch demos.
func (r *Registry) Builder() sim.Builder {
	return func(cfg config.Config) (sim.Rig, error) {
		d, err := r.Get(cfg.Demo)
		if err != nil {
			return sim.Rig{}, err
		}
		return d.Build(cfg)
	}
}

func (r *Registry) ListDemos() []string {
	names := make([]string, 0, len(r.demos))
	for name := range r.demos {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DefaultMetrics returns fresh metric instances for a headless run.
func (r *Registry) DefaultMetrics(demo string) []dynamo.Metric {
	ms := []dynamo.Metric{
		metrics.NewIAE(),
		metrics.NewOvershoot(),
		metrics.NewSettlingTime(0.05),
		metrics.NewErrorStats(),
		metrics.NewControlEffort(),
		metrics.NewChatter(),
	}
	switch demo {
	case config.DemoArm:
		ms = append(ms, metrics.NewEnergy(), metrics.NewStability(2*math.Pi))
	case config.DemoPosition:
		ms = append(ms, metrics.NewStability(1e6))
	case config.DemoVelocity:
		ms = append(ms, metrics.NewStability(1e5))
	}
	return ms
}

func radians(deg float64) float64 { return deg * math.Pi / 180 }

func buildArm(cfg config.Config) (sim.Rig, error) {
	arm := &physics.Arm{
		Mass:       cfg.Plant.Mass,
		Length:     cfg.Plant.Length,
		Gravity:    cfg.Plant.Gravity,
		Friction:   cfg.Plant.Friction,
		OutputGain: cfg.Plant.OutputGain,
	}
	if err := arm.Validate(); err != nil {
		return sim.Rig{}, err
	}

	pd := control.NewPD(cfg.Gains.Kp, cfg.Gains.Kd, cfg.Dt)
	pd.FeedForward = control.Gravity{Kg: cfg.Gains.Kg}

	return sim.Rig{
		System:     arm,
		Integrator: integrators.NewSemiImplicitEuler(),
		Controller: pd,
		Initial:    dynamo.State{radians(cfg.Initial), radians(cfg.InitialVelocity)},
		Goal:       radians(cfg.Goal),
	}, nil
}

func buildPosition(cfg config.Config) (sim.Rig, error) {
	mass := &physics.PointMass{
		Friction:   cfg.Plant.Friction,
		OutputGain: cfg.Plant.OutputGain,
		Wrap:       cfg.Wrap,
	}
	pd := control.NewPD(cfg.Gains.Kp, cfg.Gains.Kd, cfg.Dt)
	pd.Wrap = cfg.Wrap

	x0 := cfg.Initial
	if cfg.Wrap {
		x0 = physics.WrapDegrees(x0)
	}
	return sim.Rig{
		System:     mass,
		Integrator: integrators.NewSemiImplicitEuler(),
		Controller: pd,
		Initial:    dynamo.State{x0, cfg.InitialVelocity},
		Goal:       cfg.Goal,
	}, nil
}

func buildVelocity(cfg config.Config) (sim.Rig, error) {
	motor := &physics.Motor{
		Friction:   cfg.Plant.Friction,
		OutputGain: cfg.Plant.OutputGain,
	}
	pd := control.NewPD(cfg.Gains.Kp, cfg.Gains.Kd, cfg.Dt)
	pd.FeedForward = control.Velocity{Kff: cfg.Gains.Kff}

	return sim.Rig{
		System:     motor,
		Integrator: integrators.NewSemiImplicitEuler(),
		Controller: pd,
		Initial:    dynamo.State{cfg.Initial},
		Goal:       cfg.Goal,
	}, nil
}
