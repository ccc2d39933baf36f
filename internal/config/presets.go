package config

import "sort"

func preset(demo string, mod func(c *Config)) *Config {
	cfg := DefaultConfig(demo)
	mod(cfg)
	return cfg
}

var Presets = map[string]map[string]*Config{
	DemoArm: {
		"default": DefaultConfig(DemoArm),
		"release": preset(DemoArm, func(c *Config) {
			c.Gains = Gains{}
		}),
		"gravity-only": preset(DemoArm, func(c *Config) {
			c.Gains = Gains{Kg: 0.049}
		}),
		"stiff": preset(DemoArm, func(c *Config) {
			c.Gains = Gains{Kp: 0.2, Kd: 0.05, Kg: 0.049}
		}),
		"frictionless": preset(DemoArm, func(c *Config) {
			c.Gains = Gains{}
			c.Plant.Friction = 0
		}),
	},
	DemoPosition: {
		"default": DefaultConfig(DemoPosition),
		"wrap": preset(DemoPosition, func(c *Config) {
			c.Wrap = true
			c.Initial = 170
			c.Goal = -170
		}),
		"coulomb": preset(DemoPosition, func(c *Config) {
			c.Plant.Friction = 20
		}),
		"live": preset(DemoPosition, func(c *Config) {
			c.Tracking = true
		}),
	},
	DemoVelocity: {
		"default": DefaultConfig(DemoVelocity),
		"p-only": preset(DemoVelocity, func(c *Config) {
			c.Goal = 100
			c.Gains = Gains{Kp: 1}
			c.Plant.Friction = 0
		}),
		"feedforward": preset(DemoVelocity, func(c *Config) {
			c.Gains = Gains{Kff: 0.01}
		}),
		"live": preset(DemoVelocity, func(c *Config) {
			c.Tracking = true
		}),
	},
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(demo, name string) *Config {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	cfg, ok := demoPresets[name]
	if !ok {
		return nil
	}
	c := *cfg
	return &c
}

func ListPresets(demo string) []string {
	demoPresets, ok := Presets[demo]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(demoPresets))
	for name := range demoPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
