package config

import (
	"fmt"
	"math"
	"os"

	"github.com/san-kum/pidsim/internal/dynamo"
	"gopkg.in/yaml.v3"
)

const (
	DemoArm      = "arm"
	DemoPosition = "position"
	DemoVelocity = "velocity"
)

const (
	// DefaultDt is one quarter of a 16ms frame: two sub-steps per frame,
	// halved again so the motion is easy to follow.
	DefaultDt       = 0.016 / 2 / 2
	DefaultSubSteps = 2
	DefaultGravity  = 9.81
)

// Demos lists the demo names in display order.
var Demos = []string{DemoArm, DemoPosition, DemoVelocity}

// Config is the complete, comparable parameter set of one run. Any change
// to it resets the simulation.
type Config struct {
	Demo            string  `yaml:"demo"`
	Dt              float64 `yaml:"dt"`
	SubSteps        int     `yaml:"sub_steps"`
	Window          float64 `yaml:"window"`
	Tracking        bool    `yaml:"tracking"`
	Wrap            bool    `yaml:"wrap"`
	Initial         float64 `yaml:"initial"`
	InitialVelocity float64 `yaml:"initial_velocity"`
	Goal            float64 `yaml:"goal"`
	Gains           Gains   `yaml:"gains"`
	Plant           Plant   `yaml:"plant"`
}

type Gains struct {
	Kp  float64 `yaml:"kp"`
	Kd  float64 `yaml:"kd"`
	Kg  float64 `yaml:"kg"`
	Kff float64 `yaml:"kff"`
}

type Plant struct {
	Mass       float64 `yaml:"mass"`
	Length     float64 `yaml:"length"`
	Gravity    float64 `yaml:"gravity"`
	Friction   float64 `yaml:"friction"`
	OutputGain float64 `yaml:"output_gain"`
}

// DefaultConfig returns the starting parameters of a demo. Unknown names
// fall back to the arm.
func DefaultConfig(demo string) *Config {
	switch demo {
	case DemoPosition:
		return &Config{
			Demo:     DemoPosition,
			Dt:       DefaultDt,
			SubSteps: DefaultSubSteps,
			Window:   3,
			Goal:     90,
			Gains:    Gains{Kp: 0.5, Kd: 0.1},
			Plant:    Plant{OutputGain: 100},
		}
	case DemoVelocity:
		return &Config{
			Demo:     DemoVelocity,
			Dt:       DefaultDt,
			SubSteps: DefaultSubSteps,
			Window:   1,
			Goal:     3000,
			Gains:    Gains{Kp: 0.05, Kff: 0.01},
			Plant:    Plant{Friction: 1, OutputGain: 100},
		}
	default:
		return &Config{
			Demo:     DemoArm,
			Dt:       DefaultDt,
			SubSteps: DefaultSubSteps,
			Window:   3,
			Tracking: true,
			Initial:  40,
			Goal:     120,
			Gains:    Gains{Kp: 0.05, Kd: 0.02, Kg: 0.049},
			Plant: Plant{
				Mass:       1,
				Length:     1,
				Gravity:    DefaultGravity,
				Friction:   0.5,
				OutputGain: 200,
			},
		}
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var probe struct {
		Demo string `yaml:"demo"`
	}
	if err := yaml.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	cfg := DefaultConfig(probe.Demo)
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, cfg.Validate()
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate rejects parameter sets the fixed-step driver cannot run.
func (c *Config) Validate() error {
	if !IsDemo(c.Demo) {
		return fmt.Errorf("%q: %w", c.Demo, dynamo.ErrUnknownDemo)
	}
	// NaN passes every bound check below.
	for _, f := range c.fields() {
		if math.IsNaN(f.value) || math.IsInf(f.value, 0) {
			return &dynamo.ConfigError{Field: f.name, Value: f.value, Wrapped: dynamo.ErrNonFinite}
		}
	}
	if c.Dt <= 0 {
		return &dynamo.ConfigError{Field: "dt", Value: c.Dt, Wrapped: dynamo.ErrInvalidStep}
	}
	if c.SubSteps <= 0 {
		return &dynamo.ConfigError{Field: "sub_steps", Value: float64(c.SubSteps), Wrapped: dynamo.ErrInvalidStep}
	}
	if c.Window < 2*c.Dt {
		return &dynamo.ConfigError{Field: "window", Value: c.Window, Wrapped: dynamo.ErrInvalidWindow}
	}
	if c.Demo == DemoArm {
		if c.Plant.Mass <= 0 {
			return &dynamo.ConfigError{Field: "plant.mass", Value: c.Plant.Mass, Wrapped: dynamo.ErrParameterBounds}
		}
		if c.Plant.Length <= 0 {
			return &dynamo.ConfigError{Field: "plant.length", Value: c.Plant.Length, Wrapped: dynamo.ErrParameterBounds}
		}
	}
	return nil
}

type field struct {
	name  string
	value float64
}

func (c *Config) fields() []field {
	return []field{
		{"dt", c.Dt},
		{"window", c.Window},
		{"initial", c.Initial},
		{"initial_velocity", c.InitialVelocity},
		{"goal", c.Goal},
		{"gains.kp", c.Gains.Kp},
		{"gains.kd", c.Gains.Kd},
		{"gains.kg", c.Gains.Kg},
		{"gains.kff", c.Gains.Kff},
		{"plant.mass", c.Plant.Mass},
		{"plant.length", c.Plant.Length},
		{"plant.gravity", c.Plant.Gravity},
		{"plant.friction", c.Plant.Friction},
		{"plant.output_gain", c.Plant.OutputGain},
	}
}

func IsDemo(name string) bool {
	for _, d := range Demos {
		if d == name {
			return true
		}
	}
	return false
}

// GetParams flattens the adjustable parameters of a demo for display and
// live tuning.
func (c *Config) GetParams() map[string]float64 {
	params := map[string]float64{
		"initial":  c.Initial,
		"goal":     c.Goal,
		"kp":       c.Gains.Kp,
		"kd":       c.Gains.Kd,
		"friction": c.Plant.Friction,
	}
	switch c.Demo {
	case DemoArm:
		params["kg"] = c.Gains.Kg
		params["mass"] = c.Plant.Mass
		params["length"] = c.Plant.Length
		params["gravity"] = c.Plant.Gravity
	case DemoPosition:
		params["initial_velocity"] = c.InitialVelocity
	case DemoVelocity:
		params["kff"] = c.Gains.Kff
	}
	return params
}

// SetParam changes one parameter by its GetParams name.
func (c *Config) SetParam(name string, value float64) error {
	switch name {
	case "initial":
		c.Initial = value
	case "initial_velocity":
		c.InitialVelocity = value
	case "goal":
		c.Goal = value
	case "kp":
		c.Gains.Kp = value
	case "kd":
		c.Gains.Kd = value
	case "kg":
		c.Gains.Kg = value
	case "kff":
		c.Gains.Kff = value
	case "mass":
		c.Plant.Mass = value
	case "length":
		c.Plant.Length = value
	case "gravity":
		c.Plant.Gravity = value
	case "friction":
		c.Plant.Friction = value
	default:
		return fmt.Errorf("unknown param: %s", name)
	}
	return nil
}
