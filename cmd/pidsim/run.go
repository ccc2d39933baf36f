package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"text/tabwriter"
	"time"

	"github.com/guptarohit/asciigraph"
	"github.com/san-kum/pidsim/internal/analysis"
	"github.com/san-kum/pidsim/internal/automation"
	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/experiment"
	"github.com/san-kum/pidsim/internal/export"
	"github.com/san-kum/pidsim/internal/optim"
	"github.com/san-kum/pidsim/internal/sim"
	"github.com/san-kum/pidsim/internal/viz"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// record runs cfg headless for duration with the default metrics and a
// full-length trace recorder.
func record(ctx context.Context, cfg config.Config, log *zap.Logger) (*sim.Result, *export.Recorder, *sim.Simulation, error) {
	rec := export.NewRecorder()
	exp := experiment.New(registry, cfg, duration, sim.WithLogger(log))
	if err := exp.Setup(registry.DefaultMetrics(cfg.Demo), rec); err != nil {
		return nil, nil, nil, err
	}
	result, err := exp.Run(ctx)
	if err != nil {
		return nil, nil, nil, err
	}
	return result, rec, exp.GetSimulation(), nil
}

func printMetrics(m map[string]float64) {
	names := make([]string, 0, len(m))
	for name := range m {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %-16s %.6f\n", name, m[name])
	}
}

func runHeadless(cmd *cobra.Command, args []string) error {
	duration, _ = cmd.Flags().GetFloat64("time")
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	demo, err := registry.Get(cfg.Demo)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("running %s for %.2fs...\n", cfg.Demo, duration)
	start := time.Now()
	result, rec, s, err := record(ctx, cfg, log)
	if err != nil {
		return err
	}

	fmt.Printf("completed in %v\n", time.Since(start))
	fmt.Printf("steps: %d  t: %.3fs", result.Steps, result.Time)
	if result.Frozen {
		fmt.Print("  (window full, frozen)")
	}
	fmt.Println()
	fmt.Println("\nmetrics:")
	printMetrics(result.Metrics)

	values, goals := rec.Scaled(demo.Scale)
	if len(values) > 1 {
		fmt.Println()
		fmt.Println(asciigraph.PlotMany([][]float64{values, goals},
			asciigraph.Height(12),
			asciigraph.Width(80),
			asciigraph.SeriesColors(asciigraph.Cyan, asciigraph.Yellow),
			asciigraph.Caption(fmt.Sprintf("%s (%s) vs goal", cfg.Demo, demo.Unit)),
		))
	}

	if csvOut != "" {
		if err := writeFile(csvOut, func(f *os.File) error { return export.WriteCSV(f, rec) }); err != nil {
			return err
		}
	}
	if jsonOut != "" {
		if err := writeFile(jsonOut, func(f *os.File) error { return export.WriteJSON(f, result, rec) }); err != nil {
			return err
		}
	}
	if svgOut != "" {
		svg := export.TraceToSVG(rec.Times, values, goals, 800, 300)
		if err := writeFile(svgOut, func(f *os.File) error { _, err := f.WriteString(svg); return err }); err != nil {
			return err
		}
	}
	if pngOut != "" {
		chart := export.Chart{
			Title:  demo.Title,
			YLabel: demo.Unit,
			Times:  rec.Times,
			Values: values,
			Goals:  goals,
		}
		if err := writeFile(pngOut, func(f *os.File) error { return chart.WritePNG(f, 8, 4) }); err != nil {
			return err
		}
	}
	if frameOut != "" {
		snap := s.Snapshot()
		scene := viz.NewScene(demo)
		scene.Draw(demo.Display(snap.Value), demo.Display(snap.Goal))
		svg := export.CanvasToSVG(scene.Canvas, 4)
		if err := writeFile(frameOut, func(f *os.File) error { _, err := f.WriteString(svg); return err }); err != nil {
			return err
		}
	}
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := write(f); err != nil {
		f.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", path)
	return nil
}

func tuneGains(cmd *cobra.Command, args []string) error {
	duration, _ = cmd.Flags().GetFloat64("time")
	points, _ = cmd.Flags().GetInt("points")
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	if len(kpRange) != 2 || len(kdRange) != 2 {
		return fmt.Errorf("ranges take min,max")
	}

	ctx, cancel := signalContext()
	defer cancel()

	gs := optim.NewGridSearch(
		[]string{"kp", "kd"},
		[][]float64{
			optim.Linspace(kpRange[0], kpRange[1], points),
			optim.Linspace(kdRange[0], kdRange[1], points),
		},
	)

	fmt.Printf("tuning %s: %d runs of %.2fs on %d workers\n", cfg.Demo, points*points, duration, gs.Workers)
	start := time.Now()
	candidates, err := gs.Search(ctx, registry, cfg, duration, metric)
	if err != nil {
		return err
	}
	fmt.Printf("completed in %v\n\n", time.Since(start))

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "RANK\tKP\tKD\t%s\n", metric)
	for i, c := range candidates[:min(10, len(candidates))] {
		fmt.Fprintf(w, "%d\t%.4f\t%.4f\t%.4f\n", i+1, c.Params["kp"], c.Params["kd"], c.Score)
	}
	return w.Flush()
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	duration, _ = cmd.Flags().GetFloat64("time")
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	demo, err := registry.Get(cfg.Demo)
	if err != nil {
		return err
	}

	ctx, cancel := signalContext()
	defer cancel()

	_, rec, _, err := record(ctx, cfg, log)
	if err != nil {
		return err
	}
	if rec.Len() == 0 {
		return fmt.Errorf("no data to analyze")
	}

	values, _ := rec.Scaled(demo.Scale)
	step := analysis.AnalyzeStep(rec.Times, values, values[0], demo.Display(rec.Goals[0]))

	fmt.Printf("step response (%s):\n", demo.Unit)
	fmt.Printf("  initial:            %.3f\n", step.Initial)
	fmt.Printf("  goal:               %.3f\n", step.Goal)
	fmt.Printf("  final:              %.3f\n", step.Final)
	if step.RiseTime >= 0 {
		fmt.Printf("  rise time:          %.3fs\n", step.RiseTime)
	} else {
		fmt.Printf("  rise time:          never reached 90%%\n")
	}
	fmt.Printf("  peak:               %.3f at %.3fs\n", step.Peak, step.PeakTime)
	fmt.Printf("  overshoot:          %.2f%%\n", step.Overshoot)
	fmt.Printf("  steady-state error: %.3f\n", step.SteadyStateError)

	errs := make([]float64, len(rec.Errors))
	for i, e := range rec.Errors {
		errs[i] = demo.Display(e)
	}
	if f := analysis.DominantFrequency(errs, cfg.Dt); f > 0 {
		fmt.Printf("\noscillation: %.3f Hz (period %.3fs)\n", f, 1/f)
	} else {
		fmt.Println("\noscillation: none")
	}

	if p := analysis.NewPhasePortrait(rec.States, xAxis, yAxis); p != nil {
		fmt.Printf("\nphase portrait x%d vs x%d:\n", xAxis, yAxis)
		fmt.Println(p.ASCII(60, 20))
	}
	return nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	scenario, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	fmt.Printf("scenario %s: %d steps\n", scenario.Name, len(scenario.Steps))
	results, err := automation.NewRunner(registry, log).RunScenario(ctx, scenario)
	for i, r := range results {
		fmt.Printf("\n[%d] %s %.2fs\n", i+1, r.Config.Demo, r.Time)
		printMetrics(r.Metrics)
	}
	return err
}

func runSweep(cmd *cobra.Command, args []string) error {
	duration, _ = cmd.Flags().GetFloat64("time")
	points, _ = cmd.Flags().GetInt("points")
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.NewRunner(registry, log).RunSweep(ctx, &automation.ParameterSweep{
		Base:      cfg,
		ParamName: sweepParam,
		ParamMin:  sweepMin,
		ParamMax:  sweepMax,
		NumSteps:  points,
		Duration:  duration,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "%s\tFINAL\tIAE\tOVERSHOOT\tSETTLING\n", sweepParam)
	for _, r := range results {
		fmt.Fprintf(w, "%.4f\t%.4f\t%.4f\t%.4f\t%.4f\n",
			r.ParamValue, r.Final, r.Metrics["iae"], r.Metrics["overshoot"], r.Metrics["settling_time"])
	}
	return w.Flush()
}

func runMonteCarlo(cmd *cobra.Command, args []string) error {
	duration, _ = cmd.Flags().GetFloat64("time")
	cfg, err := resolveConfig(cmd, args)
	if err != nil {
		return err
	}
	log, err := newLogger(false)
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, cancel := signalContext()
	defer cancel()

	results, err := automation.NewRunner(registry, log).RunMonteCarlo(ctx, &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturb,
		NumTrials:    trials,
		Duration:     duration,
		Tolerance:    tolerance,
		Seed:         seed,
	})
	if err != nil {
		return err
	}

	settled, unsettled := automation.MonteCarloStats(results)
	fmt.Printf("%s: %d trials, %d settled, %d not settled\n", cfg.Demo, len(results), settled, unsettled)
	return nil
}
