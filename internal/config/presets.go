package config

import (
	"sort"

	"github.com/san-kum/pidlab/internal/control"
)

func preset(apply func(c *Config)) *Config {
	c := DefaultConfig()
	apply(c)
	return c
}

var Presets = map[string]*Config{
	"proportional": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 0.1}
	}),
	"snappy": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 0.5, Kd: 0.2}
	}),
	"overshoot": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 1.6}
	}),
	"unstable": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 2.2}
		c.Ticks = 200
	}),
	"windup": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 0.05, Ki: 0.02}
	}),
	"damped": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 0.3, Ki: 0.005, Kd: 1.0}
	}),
	"raw-derivative": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 0.3, Kd: 0.5}
		c.DerivativeAlpha = 1
	}),
	"continuous": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 0.1}
		c.Rounding = control.RoundNone.String()
	}),
	"drag": preset(func(c *Config) {
		c.Gains = control.Gains{Kp: 0.2, Ki: 0.01, Kd: 0.5}
		c.Ticks = 600
		c.Scenario = []ScenarioEvent{
			{At: 200, Event: EventPointerDown, X: 400, Y: 300},
			{At: 210, Event: EventPointerMove, X: 500, Y: 400},
			{At: 220, Event: EventPointerMove, X: 650, Y: 500},
			{At: 260, Event: EventPointerUp},
		}
	}),
}

// GetPreset returns a copy of the named preset, or nil.
func GetPreset(name string) *Config {
	cfg, ok := Presets[name]
	if !ok {
		return nil
	}
	return cfg.Clone()
}

func ListPresets() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
