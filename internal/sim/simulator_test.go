package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/experiment"
	"github.com/san-kum/pidsim/internal/sim"
)

type params struct {
	cfg config.Config
}

func (p *params) Params() config.Config { return p.cfg }

type countingObserver struct {
	steps  int
	resets int
}

func (o *countingObserver) OnStep(s dynamo.Step) { o.steps++ }
func (o *countingObserver) Reset()               { o.resets++ }

var _ = Describe("Simulation", func() {
	var (
		s   *sim.Simulation
		cfg config.Config
	)

	BeforeEach(func() {
		s = sim.New(experiment.NewRegistry().Builder())
		cfg = *config.DefaultConfig(config.DemoPosition)
	})

	It("starts idle and does not advance", func() {
		Expect(s.Status()).To(Equal(sim.Idle))
		Expect(s.Step()).To(BeFalse())
		Expect(s.Tick()).To(Equal(0))
	})

	Describe("Reset", func() {
		It("starts a run at t=0 with an empty history", func() {
			Expect(s.Reset(cfg)).To(Succeed())

			snap := s.Snapshot()
			Expect(snap.Status).To(Equal(sim.Running))
			Expect(snap.Time).To(BeZero())
			Expect(snap.Samples).To(BeEmpty())
			Expect(snap.State).To(Equal(dynamo.State{cfg.Initial, cfg.InitialVelocity}))
		})

		It("discards the previous run", func() {
			Expect(s.Reset(cfg)).To(Succeed())
			for i := 0; i < 50; i++ {
				s.Tick()
			}
			Expect(s.Time()).To(BeNumerically(">", 0))

			cfg.Goal = 45
			Expect(s.Reset(cfg)).To(Succeed())
			Expect(s.Time()).To(BeZero())
			Expect(s.Snapshot().Samples).To(BeEmpty())
			Expect(s.Snapshot().Goal).To(Equal(45.0))
		})

		It("rejects an invalid configuration and keeps the current run", func() {
			Expect(s.Reset(cfg)).To(Succeed())
			s.Tick()

			bad := cfg
			bad.Dt = 0
			err := s.Reset(bad)
			Expect(errors.Is(err, dynamo.ErrInvalidStep)).To(BeTrue())
			Expect(s.Config()).To(Equal(cfg))
			Expect(s.Snapshot().Steps).To(Equal(2))
		})

		It("rejects unknown demos", func() {
			cfg.Demo = "cartpole"
			Expect(errors.Is(s.Reset(cfg), dynamo.ErrUnknownDemo)).To(BeTrue())
			Expect(s.Status()).To(Equal(sim.Idle))
		})

		It("resets observers that keep state", func() {
			obs := &countingObserver{}
			s.AddObserver(obs)
			Expect(s.Reset(cfg)).To(Succeed())
			s.Tick()
			Expect(obs.steps).To(Equal(2))
			Expect(s.Reset(cfg)).To(Succeed())
			Expect(obs.resets).To(Equal(2))
		})
	})

	Describe("Tick", func() {
		It("runs SubSteps steps of dt each", func() {
			Expect(s.Reset(cfg)).To(Succeed())
			Expect(s.Tick()).To(Equal(cfg.SubSteps))
			Expect(s.Time()).To(BeNumerically("~", 2*cfg.Dt, 1e-15))
			Expect(s.Snapshot().Samples).To(HaveLen(2))
		})

		It("records samples in time order", func() {
			Expect(s.Reset(cfg)).To(Succeed())
			for i := 0; i < 20; i++ {
				s.Tick()
			}
			samples := s.Snapshot().Samples
			for i := 1; i < len(samples); i++ {
				Expect(samples[i].T).To(BeNumerically(">", samples[i-1].T))
			}
		})
	})

	Describe("freeze frame", func() {
		It("stops advancing once a non-tracking window is full", func() {
			cfg.Window = 0.1
			Expect(s.Reset(cfg)).To(Succeed())

			for i := 0; i < 100; i++ {
				s.Tick()
			}
			snap := s.Snapshot()
			Expect(snap.Frozen).To(BeTrue())
			Expect(snap.Samples).To(HaveLen(25))
			Expect(snap.Steps).To(Equal(25))
			Expect(s.Step()).To(BeFalse())
		})

		It("keeps sliding while tracking", func() {
			cfg.Window = 0.1
			cfg.Tracking = true
			Expect(s.Reset(cfg)).To(Succeed())

			for i := 0; i < 100; i++ {
				s.Tick()
			}
			snap := s.Snapshot()
			Expect(snap.Frozen).To(BeFalse())
			Expect(snap.Steps).To(Equal(200))
			Expect(snap.Samples).To(HaveLen(25))
			Expect(snap.Window.Width()).To(BeNumerically("~", 0.1, 1e-12))
		})

		It("never freezes the arm", func() {
			arm := *config.DefaultConfig(config.DemoArm)
			arm.Window = 0.1
			arm.Tracking = false
			Expect(s.Reset(arm)).To(Succeed())

			for i := 0; i < 100; i++ {
				Expect(s.Tick()).To(Equal(2))
			}
			snap := s.Snapshot()
			Expect(snap.Frozen).To(BeFalse())
			Expect(snap.Tracking).To(BeTrue())
			Expect(snap.Steps).To(Equal(200))
		})
	})

	Describe("override", func() {
		It("suspends the controller and the plant", func() {
			Expect(s.Reset(cfg)).To(Succeed())
			s.Tick()
			before := s.Snapshot()

			s.SetOverride(true)
			Expect(s.Tick()).To(Equal(0))
			Expect(s.Snapshot().State).To(Equal(before.State))
			Expect(s.Snapshot().Overridden).To(BeTrue())

			s.SetOverride(false)
			Expect(s.Tick()).To(Equal(2))
		})
	})

	Describe("Stop", func() {
		It("returns to idle and keeps the last state", func() {
			Expect(s.Reset(cfg)).To(Succeed())
			s.Tick()
			s.Stop()

			Expect(s.Status()).To(Equal(sim.Idle))
			Expect(s.Tick()).To(Equal(0))
			Expect(s.Snapshot().Steps).To(Equal(2))
		})
	})

	Describe("TickFrom", func() {
		It("resets when the polled parameters change", func() {
			src := &params{cfg: cfg}
			for i := 0; i < 10; i++ {
				_, err := s.TickFrom(src)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.Snapshot().Steps).To(Equal(20))

			src.cfg.Gains.Kp = 1
			n, err := s.TickFrom(src)
			Expect(err).NotTo(HaveOccurred())
			Expect(n).To(Equal(2))
			Expect(s.Snapshot().Steps).To(Equal(2))
			Expect(s.Config().Gains.Kp).To(Equal(1.0))
		})

		It("reports invalid parameters", func() {
			src := &params{cfg: cfg}
			src.cfg.Window = 0
			_, err := s.TickFrom(src)
			Expect(errors.Is(err, dynamo.ErrInvalidWindow)).To(BeTrue())
		})

		It("rejects a NaN gain and keeps advancing the running set", func() {
			src := &params{cfg: cfg}
			_, err := s.TickFrom(src)
			Expect(err).NotTo(HaveOccurred())

			bad := &params{cfg: cfg}
			bad.cfg.Gains.Kd = math.NaN()
			for i := 0; i < 10; i++ {
				_, err := s.TickFrom(bad)
				Expect(errors.Is(err, dynamo.ErrNonFinite)).To(BeTrue())
			}

			for i := 0; i < 10; i++ {
				_, err := s.TickFrom(src)
				Expect(err).NotTo(HaveOccurred())
			}
			Expect(s.Snapshot().Steps).To(Equal(22))
		})
	})

	Describe("Run", func() {
		It("requires a reset first", func() {
			_, err := s.Run(context.Background(), 1)
			Expect(err).To(HaveOccurred())
		})

		It("stops at the duration", func() {
			cfg.Tracking = true
			Expect(s.Reset(cfg)).To(Succeed())
			res, err := s.Run(context.Background(), 0.4)
			Expect(err).NotTo(HaveOccurred())
			Expect(res.Steps).To(Equal(100))
		})

		It("honours cancellation", func() {
			Expect(s.Reset(cfg)).To(Succeed())
			ctx, cancel := context.WithCancel(context.Background())
			cancel()
			res, err := s.Run(ctx, 1)
			Expect(err).To(MatchError(context.Canceled))
			Expect(res.Steps).To(BeZero())
		})
	})

	It("hands out snapshots that do not alias the run", func() {
		Expect(s.Reset(cfg)).To(Succeed())
		s.Tick()
		snap := s.Snapshot()
		snap.State[0] = 1e9
		snap.Samples[0].Y = 1e9
		Expect(s.Snapshot().State[0]).NotTo(Equal(1e9))
		Expect(s.Snapshot().Samples[0].Y).NotTo(Equal(1e9))
	})
})
