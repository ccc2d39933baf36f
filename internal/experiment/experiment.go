package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/sim"
)

// Experiment is one headless run of a demo for a fixed duration.
type Experiment struct {
	cfg        config.Config
	duration   float64
	registry   *Registry
	simulation *sim.Simulation
	opts       []sim.Option
}

func New(registry *Registry, cfg config.Config, duration float64, opts ...sim.Option) *Experiment {
	return &Experiment{
		cfg:      cfg,
		duration: duration,
		registry: registry,
		opts:     opts,
	}
}

func (e *Experiment) Setup(metrics []dynamo.Metric, observers ...dynamo.Observer) error {
	s := sim.New(e.registry.Builder(), e.opts...)
	for _, m := range metrics {
		s.AddMetric(m)
	}
	for _, o := range observers {
		s.AddObserver(o)
	}
	if err := s.Reset(e.cfg); err != nil {
		return err
	}
	e.simulation = s
	return nil
}

func (e *Experiment) Run(ctx context.Context) (*sim.Result, error) {
	if e.simulation == nil {
		return nil, fmt.Errorf("experiment not setup")
	}
	return e.simulation.Run(ctx, e.duration)
}

// GetSimulation returns the underlying simulation for snapshots after a run.
func (e *Experiment) GetSimulation() *sim.Simulation {
	return e.simulation
}

// Run is Setup plus Run with the registry's default metrics.
func Run(ctx context.Context, registry *Registry, cfg config.Config, duration float64, observers ...dynamo.Observer) (*sim.Result, error) {
	e := New(registry, cfg, duration)
	if err := e.Setup(registry.DefaultMetrics(cfg.Demo), observers...); err != nil {
		return nil, err
	}
	return e.Run(ctx)
}
