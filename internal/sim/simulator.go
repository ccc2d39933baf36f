package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/history"
	"go.uber.org/zap"
)

// Simulation is the fixed-step control loop of one demo. It owns the plant
// state and the history buffer; every parameter change goes through Reset.
// A Simulation is not safe for concurrent use.
type Simulation struct {
	build Builder
	log   *zap.Logger

	cfg     config.Config
	rig     Rig
	measure func(dynamo.State) float64

	x        dynamo.State
	steps    int
	u        float64
	lastErr  float64
	hist     *history.Buffer
	status   Status
	override bool
	frozen   bool

	metrics   []dynamo.Metric
	observers []dynamo.Observer
}

type Option func(*Simulation)

func WithLogger(log *zap.Logger) Option {
	return func(s *Simulation) {
		if log != nil {
			s.log = log
		}
	}
}

func New(build Builder, opts ...Option) *Simulation {
	s := &Simulation{
		build:     build,
		log:       zap.NewNop(),
		metrics:   make([]dynamo.Metric, 0),
		observers: make([]dynamo.Observer, 0),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Simulation) AddMetric(m dynamo.Metric)     { s.metrics = append(s.metrics, m) }
func (s *Simulation) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// Reset discards the current run and starts a fresh one from cfg at t=0
// with an empty history. On error the previous run is left untouched.
func (s *Simulation) Reset(cfg config.Config) error {
	if err := cfg.Validate(); err != nil {
		return err
	}
	rig, err := s.build(cfg)
	if err != nil {
		return fmt.Errorf("build %s: %w", cfg.Demo, err)
	}
	m, ok := rig.System.(dynamo.Measurable)
	if !ok {
		return fmt.Errorf("%s: plant has no measured value", cfg.Demo)
	}
	if len(rig.Initial) != rig.System.StateDim() {
		return fmt.Errorf("%s: initial state has %d components, plant needs %d",
			cfg.Demo, len(rig.Initial), rig.System.StateDim())
	}

	s.cfg = cfg
	s.rig = rig
	s.measure = m.Measure
	s.x = rig.Initial.Clone()
	s.steps = 0
	s.u = 0
	s.lastErr = rig.Controller.Error(s.measure(s.x), rig.Goal)
	s.hist = history.New(cfg.Window, cfg.Dt)
	s.status = Running
	s.frozen = false

	for _, m := range s.metrics {
		m.Reset()
	}
	for _, o := range s.observers {
		if r, ok := o.(dynamo.Resetter); ok {
			r.Reset()
		}
	}

	s.log.Debug("reset",
		zap.String("demo", cfg.Demo),
		zap.Float64("dt", cfg.Dt),
		zap.Int("capacity", s.hist.Capacity()),
		zap.Bool("tracking", cfg.Tracking))
	return nil
}

// Stop returns the simulation to Idle. The last state stays visible through
// Snapshot.
func (s *Simulation) Stop() {
	if s.status == Idle {
		return
	}
	s.status = Idle
	s.log.Debug("stopped", zap.String("demo", s.cfg.Demo), zap.Float64("t", s.Time()))
}

func (s *Simulation) Status() Status        { return s.status }
func (s *Simulation) Config() config.Config { return s.cfg }
func (s *Simulation) Time() float64         { return float64(s.steps) * s.cfg.Dt }

// SetOverride suspends the controller and the plant while on. Used while the
// user holds the plant with the mouse.
func (s *Simulation) SetOverride(on bool) { s.override = on }

// Frozen reports whether a non-tracking run has filled its window.
func (s *Simulation) Frozen() bool {
	return s.hist != nil && !s.tracking() && s.hist.Full()
}

// tracking reports whether the window slides. The arm has no graph to
// freeze, so it always slides.
func (s *Simulation) tracking() bool {
	return s.cfg.Tracking || s.cfg.Demo == config.DemoArm
}

// Step advances one fixed dt: compute the output from the current value,
// advance the plant, then record the new value. It reports whether the plant
// moved.
func (s *Simulation) Step() bool {
	if s.status != Running || s.override || s.Frozen() {
		return false
	}

	y := s.measure(s.x)
	goal := s.rig.Goal
	s.lastErr = s.rig.Controller.Error(y, goal)
	s.u = s.rig.Controller.Compute(y, goal, s.hist)

	t := s.Time()
	dt := s.cfg.Dt
	u := dynamo.Control{s.u}
	step := dynamo.Step{
		T:      t,
		Dt:     dt,
		X:      s.x,
		U:      u,
		Y:      y,
		Goal:   goal,
		Err:    s.lastErr,
		System: s.rig.System,
	}
	for _, m := range s.metrics {
		m.Observe(step)
	}
	for _, o := range s.observers {
		o.OnStep(step)
	}

	next := s.rig.Integrator.Step(s.rig.System, s.x, u, t, dt)
	if n, ok := s.rig.System.(dynamo.Normalizer); ok {
		next = n.Normalize(next)
	}
	s.x = next
	s.steps++
	s.hist.Push(dynamo.Sample{T: s.Time(), Y: s.measure(s.x)}, s.tracking())

	if !s.frozen && s.Frozen() {
		s.frozen = true
		s.log.Debug("window full, freezing",
			zap.String("demo", s.cfg.Demo),
			zap.Float64("t", s.Time()),
			zap.Int("samples", s.hist.Len()))
	}
	return true
}

// Tick runs one frame of SubSteps steps and returns how many advanced.
func (s *Simulation) Tick() int {
	n := 0
	for i := 0; i < s.cfg.SubSteps; i++ {
		if !s.Step() {
			break
		}
		n++
	}
	return n
}

// TickFrom resolves parameters once from src, resets if they differ from
// the running set, then runs one frame.
func (s *Simulation) TickFrom(src ParamSource) (int, error) {
	if p := src.Params(); p != s.cfg || s.hist == nil {
		if err := s.Reset(p); err != nil {
			return 0, err
		}
	}
	return s.Tick(), nil
}

// Run advances a freshly reset simulation until duration has elapsed, the
// run freezes, or ctx is done.
func (s *Simulation) Run(ctx context.Context, duration float64) (*Result, error) {
	if s.status != Running {
		return nil, fmt.Errorf("simulation is %s", s.status)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("duration must be positive, got %f", duration)
	}

	total := int(math.Round(duration / s.cfg.Dt))
	for s.steps < total {
		select {
		case <-ctx.Done():
			return s.result(), ctx.Err()
		default:
		}
		if !s.Step() {
			break
		}
	}
	return s.result(), nil
}

func (s *Simulation) result() *Result {
	r := &Result{
		Config:  s.cfg,
		Steps:   s.steps,
		Time:    s.Time(),
		Final:   s.x.Clone(),
		Frozen:  s.Frozen(),
		Metrics: make(map[string]float64, len(s.metrics)),
	}
	for _, m := range s.metrics {
		r.Metrics[m.Name()] = m.Value()
	}
	return r
}

func (s *Simulation) Snapshot() Snapshot {
	snap := Snapshot{
		Demo:       s.cfg.Demo,
		Status:     s.status,
		Time:       s.Time(),
		Steps:      s.steps,
		Goal:       s.rig.Goal,
		Error:      s.lastErr,
		Output:     s.u,
		Tracking:   s.tracking(),
		Frozen:     s.Frozen(),
		Overridden: s.override,
	}
	if s.x != nil {
		snap.State = s.x.Clone()
		snap.Value = s.measure(s.x)
	}
	if s.hist != nil {
		snap.Samples = s.hist.Samples()
		snap.Window = s.hist.Window()
	}
	return snap
}

// History exposes the live buffer read-only.
func (s *Simulation) History() dynamo.History {
	if s.hist == nil {
		return nil
	}
	return s.hist
}
