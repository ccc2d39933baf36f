package main

import (
	"fmt"
	"os"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/dynamo"
	"github.com/san-kum/pidsim/internal/experiment"
	"github.com/san-kum/pidsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verbose    bool
	configFile string
	preset     string
	// duration and points are shared by several commands with different
	// defaults; handlers read them back from their own flag set.
	duration float64

	dt       float64
	window   float64
	tracking bool
	wrap     bool
	initial  float64
	goal     float64
	kp       float64
	kd       float64
	kg       float64
	kff      float64
	friction float64

	csvOut   string
	jsonOut  string
	pngOut   string
	svgOut   string
	frameOut string

	xAxis int
	yAxis int

	kpRange []float64
	kdRange []float64
	points  int
	metric  string

	sweepParam string
	sweepMin   float64
	sweepMax   float64

	trials    int
	perturb   float64
	tolerance float64
	seed      int64
)

var registry = experiment.NewRegistry()

// main registers the pidsim commands and opens the demo picker when no
// subcommand is given. It exits with status 1 if a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:          "pidsim",
		Short:        "pid control loop demos",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(true)
			if err != nil {
				return err
			}
			defer log.Sync()
			return viz.RunInteractive(registry, log)
		},
	}
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")

	liveCmd := &cobra.Command{
		Use:   "live [demo]",
		Short: "run a demo with live visualization",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runLive,
	}
	addConfigFlags(liveCmd)

	runCmd := &cobra.Command{
		Use:   "run [demo]",
		Short: "run a demo headless and print metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runHeadless,
	}
	addConfigFlags(runCmd)
	runCmd.Flags().Float64Var(&duration, "time", 5.0, "duration in seconds")
	runCmd.Flags().StringVar(&csvOut, "csv", "", "write the trace as CSV")
	runCmd.Flags().StringVar(&jsonOut, "json", "", "write the trace and metrics as JSON")
	runCmd.Flags().StringVar(&pngOut, "png", "", "write a PNG chart of the trace")
	runCmd.Flags().StringVar(&svgOut, "svg", "", "write an SVG chart of the trace")
	runCmd.Flags().StringVar(&frameOut, "frame", "", "write the final scene as SVG")

	presetsCmd := &cobra.Command{
		Use:   "presets [demo]",
		Short: "list presets for a demo",
		Args:  cobra.MaximumNArgs(1),
		RunE:  listPresets,
	}

	tuneCmd := &cobra.Command{
		Use:   "tune [demo]",
		Short: "grid search kp/kd",
		Args:  cobra.MaximumNArgs(1),
		RunE:  tuneGains,
	}
	addConfigFlags(tuneCmd)
	tuneCmd.Flags().Float64Var(&duration, "time", 3.0, "duration of each run")
	tuneCmd.Flags().Float64SliceVar(&kpRange, "kp-range", []float64{0.01, 1}, "kp min,max")
	tuneCmd.Flags().Float64SliceVar(&kdRange, "kd-range", []float64{0, 0.2}, "kd min,max")
	tuneCmd.Flags().IntVar(&points, "points", 8, "grid points per gain")
	tuneCmd.Flags().StringVar(&metric, "metric", "iae", "metric to minimise")

	analyzeCmd := &cobra.Command{
		Use:   "analyze [demo]",
		Short: "step response and oscillation analysis",
		Args:  cobra.MaximumNArgs(1),
		RunE:  analyzeRun,
	}
	addConfigFlags(analyzeCmd)
	analyzeCmd.Flags().Float64Var(&duration, "time", 5.0, "duration in seconds")
	analyzeCmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for the phase plot x-axis")
	analyzeCmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for the phase plot y-axis")

	scenarioCmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run a batch of demos from YAML",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}

	sweepCmd := &cobra.Command{
		Use:   "sweep [demo]",
		Short: "sweep one parameter and tabulate metrics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addConfigFlags(sweepCmd)
	sweepCmd.Flags().Float64Var(&duration, "time", 3.0, "duration of each run")
	sweepCmd.Flags().StringVar(&sweepParam, "param", "kp", "parameter to sweep")
	sweepCmd.Flags().Float64Var(&sweepMin, "min", 0.01, "first value")
	sweepCmd.Flags().Float64Var(&sweepMax, "max", 1, "last value")
	sweepCmd.Flags().IntVar(&points, "points", 10, "number of values")

	monteCarloCmd := &cobra.Command{
		Use:   "montecarlo [demo]",
		Short: "perturb the initial condition and count settled runs",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runMonteCarlo,
	}
	addConfigFlags(monteCarloCmd)
	monteCarloCmd.Flags().Float64Var(&duration, "time", 5.0, "duration of each run")
	monteCarloCmd.Flags().IntVar(&trials, "trials", 50, "number of runs")
	monteCarloCmd.Flags().Float64Var(&perturb, "perturb", 30, "largest change to the initial value")
	monteCarloCmd.Flags().Float64Var(&tolerance, "tol", 1, "final |error| in plant units that counts as settled")
	monteCarloCmd.Flags().Int64Var(&seed, "seed", 0, "random seed, 0 for time based")

	rootCmd.AddCommand(liveCmd, runCmd, presetsCmd, tuneCmd, analyzeCmd, scenarioCmd, sweepCmd, monteCarloCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func addConfigFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "start from a preset")
	f.Float64Var(&dt, "dt", config.DefaultDt, "timestep")
	f.Float64Var(&window, "window", 3, "history window in seconds")
	f.BoolVar(&tracking, "tracking", false, "slide the history window instead of freezing")
	f.BoolVar(&wrap, "wrap", false, "wrap angles into [-180, 180]")
	f.Float64Var(&initial, "initial", 0, "initial value")
	f.Float64Var(&goal, "goal", 0, "goal value")
	f.Float64Var(&kp, "kp", 0, "proportional gain")
	f.Float64Var(&kd, "kd", 0, "derivative gain")
	f.Float64Var(&kg, "kg", 0, "gravity feed-forward gain (arm)")
	f.Float64Var(&kff, "kff", 0, "velocity feed-forward gain")
	f.Float64Var(&friction, "friction", 0, "plant friction")
}

// resolveConfig layers defaults, preset, config file and changed flags, in
// that order.
func resolveConfig(cmd *cobra.Command, args []string) (config.Config, error) {
	demo := config.DemoArm
	if len(args) > 0 {
		demo = args[0]
	}

	var cfg *config.Config
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return config.Config{}, fmt.Errorf("failed to load config: %w", err)
		}
		if len(args) > 0 && loaded.Demo != demo {
			return config.Config{}, fmt.Errorf("%s is a %s config, not %s", configFile, loaded.Demo, demo)
		}
		cfg = loaded
	} else {
		if !config.IsDemo(demo) {
			return config.Config{}, fmt.Errorf("%w: %s (available: %v)", dynamo.ErrUnknownDemo, demo, registry.ListDemos())
		}
		cfg = config.DefaultConfig(demo)
		if preset != "" {
			if cfg = config.GetPreset(demo, preset); cfg == nil {
				return config.Config{}, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(demo))
			}
		}
	}

	flags := cmd.Flags()
	if flags.Changed("dt") {
		cfg.Dt = dt
	}
	if flags.Changed("window") {
		cfg.Window = window
	}
	if flags.Changed("tracking") {
		cfg.Tracking = tracking
	}
	if flags.Changed("wrap") {
		cfg.Wrap = wrap
	}
	if flags.Changed("initial") {
		cfg.Initial = initial
	}
	if flags.Changed("goal") {
		cfg.Goal = goal
	}
	if flags.Changed("kp") {
		cfg.Gains.Kp = kp
	}
	if flags.Changed("kd") {
		cfg.Gains.Kd = kd
	}
	if flags.Changed("kg") {
		cfg.Gains.Kg = kg
	}
	if flags.Changed("kff") {
		cfg.Gains.Kff = kff
	}
	if flags.Changed("friction") {
		cfg.Plant.Friction = friction
	}

	return *cfg, cfg.Validate()
}

// newLogger builds the CLI logger. Full-screen commands log to a file so
// the terminal stays clean.
func newLogger(tui bool) (*zap.Logger, error) {
	if !verbose {
		if tui {
			return zap.NewNop(), nil
		}
		cfg := zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
		return cfg.Build()
	}

	cfg := zap.NewDevelopmentConfig()
	if tui {
		cfg.OutputPaths = []string{"pidsim.log"}
		cfg.ErrorOutputPaths = []string{"pidsim.log"}
	}
	return cfg.Build()
}

func runLive(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(true)
	if err != nil {
		return err
	}
	defer log.Sync()

	return viz.RunLive(registry, cfg, log)
}

func listPresets(cmd *cobra.Command, args []string) error {
	demos := registry.ListDemos()
	if len(args) > 0 {
		if _, err := registry.Get(args[0]); err != nil {
			return err
		}
		demos = args
	}

	for _, d := range demos {
		fmt.Printf("presets for %s:\n", d)
		for _, p := range config.ListPresets(d) {
			fmt.Printf("  %s\n", p)
		}
	}
	return nil
}
