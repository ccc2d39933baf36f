package automation

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"time"

	"github.com/san-kum/pidsim/internal/config"
	"github.com/san-kum/pidsim/internal/experiment"
	"github.com/san-kum/pidsim/internal/export"
	"github.com/san-kum/pidsim/internal/sim"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Scenario is a scripted sequence of headless runs.
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep starts from a demo's defaults (or one of its presets),
// applies Params by name and runs for Duration seconds.
type ScenarioStep struct {
	Demo     string             `yaml:"demo"`
	Preset   string             `yaml:"preset"`
	Duration float64            `yaml:"duration"`
	Tracking *bool              `yaml:"tracking"`
	Wrap     *bool              `yaml:"wrap"`
	Params   map[string]float64 `yaml:"params"`
	SaveAs   string             `yaml:"save_as"`
}

func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("%s: scenario has no steps", path)
	}

	return &scenario, nil
}

// Config resolves the step into a full run configuration.
func (s ScenarioStep) Config() (*config.Config, error) {
	cfg := config.DefaultConfig(s.Demo)
	if s.Preset != "" {
		if cfg = config.GetPreset(s.Demo, s.Preset); cfg == nil {
			return nil, fmt.Errorf("unknown preset %s/%s", s.Demo, s.Preset)
		}
	}
	cfg.Demo = s.Demo
	if s.Tracking != nil {
		cfg.Tracking = *s.Tracking
	}
	if s.Wrap != nil {
		cfg.Wrap = *s.Wrap
	}
	for k, v := range s.Params {
		if err := cfg.SetParam(k, v); err != nil {
			return nil, err
		}
	}
	return cfg, cfg.Validate()
}

type Runner struct {
	Registry *experiment.Registry
	Log      *zap.Logger
}

func NewRunner(registry *experiment.Registry, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{Registry: registry, Log: log}
}

// RunScenario executes all steps in order and stops at the first failure.
func (r *Runner) RunScenario(ctx context.Context, scenario *Scenario) ([]sim.Result, error) {
	results := make([]sim.Result, 0, len(scenario.Steps))

	for i, step := range scenario.Steps {
		r.Log.Info("running step",
			zap.String("scenario", scenario.Name),
			zap.Int("step", i+1),
			zap.Int("of", len(scenario.Steps)),
			zap.String("demo", step.Demo))

		cfg, err := step.Config()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}

		rec := export.NewRecorder()
		result, err := experiment.Run(ctx, r.Registry, *cfg, step.Duration, rec)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		if step.SaveAs != "" {
			if err := saveCSV(step.SaveAs, rec); err != nil {
				return results, fmt.Errorf("step %d save: %w", i+1, err)
			}
		}

		results = append(results, *result)
	}

	return results, nil
}

func saveCSV(path string, rec *export.Recorder) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return export.WriteCSV(f, rec)
}

// ParameterSweep varies one parameter of a base configuration.
type ParameterSweep struct {
	Base      config.Config
	ParamName string
	ParamMin  float64
	ParamMax  float64
	NumSteps  int
	Duration  float64
}

type SweepResult struct {
	ParamValue float64
	Final      float64
	Metrics    map[string]float64
}

func (r *Runner) RunSweep(ctx context.Context, sweep *ParameterSweep) ([]SweepResult, error) {
	if sweep.NumSteps < 2 {
		return nil, fmt.Errorf("sweep needs at least 2 steps, got %d", sweep.NumSteps)
	}
	results := make([]SweepResult, 0, sweep.NumSteps)
	paramStep := (sweep.ParamMax - sweep.ParamMin) / float64(sweep.NumSteps-1)

	for i := 0; i < sweep.NumSteps; i++ {
		paramVal := sweep.ParamMin + float64(i)*paramStep

		cfg := sweep.Base
		if err := cfg.SetParam(sweep.ParamName, paramVal); err != nil {
			return nil, err
		}

		result, err := experiment.Run(ctx, r.Registry, cfg, sweep.Duration)
		if err != nil {
			return nil, err
		}

		results = append(results, SweepResult{
			ParamValue: paramVal,
			Final:      result.Final[0],
			Metrics:    result.Metrics,
		})

		r.Log.Debug("sweep",
			zap.Int("step", i+1),
			zap.String("param", sweep.ParamName),
			zap.Float64("value", paramVal))
	}

	return results, nil
}

// MonteCarloConfig perturbs the initial condition of a base configuration.
type MonteCarloConfig struct {
	Base         config.Config
	Perturbation float64
	NumTrials    int
	Duration     float64
	// Tolerance is the largest final |error| that still counts as settled.
	Tolerance float64
	Seed      int64
}

type MonteCarloResult struct {
	TrialID int
	Initial float64
	Final   float64
	IAE     float64
	Settled bool
}

func (r *Runner) RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig) ([]MonteCarloResult, error) {
	results := make([]MonteCarloResult, 0, cfg.NumTrials)

	rng := rand.New(rand.NewSource(cfg.Seed))
	if cfg.Seed == 0 {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}

	for trial := 0; trial < cfg.NumTrials; trial++ {
		run := cfg.Base
		run.Initial += (rng.Float64() - 0.5) * 2 * cfg.Perturbation

		rec := export.NewRecorder()
		result, err := experiment.Run(ctx, r.Registry, run, cfg.Duration, rec)
		if err != nil {
			return nil, err
		}

		final := 0.0
		if n := rec.Len(); n > 0 {
			final = rec.Errors[n-1]
		}
		results = append(results, MonteCarloResult{
			TrialID: trial,
			Initial: run.Initial,
			Final:   result.Final[0],
			IAE:     result.Metrics["iae"],
			Settled: final <= cfg.Tolerance && final >= -cfg.Tolerance,
		})

		if (trial+1)%10 == 0 {
			r.Log.Info("monte carlo", zap.Int("done", trial+1), zap.Int("of", cfg.NumTrials))
		}
	}

	return results, nil
}

func MonteCarloStats(results []MonteCarloResult) (settled int, unsettled int) {
	for _, r := range results {
		if r.Settled {
			settled++
		} else {
			unsettled++
		}
	}
	return
}
