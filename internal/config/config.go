package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/mitchellh/go-homedir"
	"github.com/natefinch/atomic"
	"github.com/san-kum/pidlab/internal/control"
	"github.com/san-kum/pidlab/internal/geom"
	"gopkg.in/yaml.v3"
)

// DefaultPath is read when no --config flag is given and the file exists.
const DefaultPath = "~/.pidlab/config.yaml"

const (
	DefaultWidth           = 800.0
	DefaultHeight          = 600.0
	DefaultEntityRadius    = 30.0
	DefaultTargetRadius    = 10.0
	DefaultTickRate        = 50
	DefaultTicks           = 500
	DefaultSettleTolerance = 1.0
	DefaultSettleWindow    = 25
)

var (
	DefaultStart  = geom.Pt(100, 100)
	DefaultTarget = geom.Pt(DefaultWidth/2, DefaultHeight/2)
)

// ErrInvalidConfig wraps every validation failure.
var ErrInvalidConfig = errors.New("config: invalid configuration")

type Config struct {
	Width           float64         `yaml:"width"`
	Height          float64         `yaml:"height"`
	EntityRadius    float64         `yaml:"entity_radius"`
	TargetRadius    float64         `yaml:"target_radius"`
	Start           geom.Point      `yaml:"start"`
	Target          geom.Point      `yaml:"target"`
	Gains           control.Gains   `yaml:"gains"`
	TickRate        int             `yaml:"tick_rate"`
	DerivativeAlpha float64         `yaml:"derivative_alpha"`
	IntegralClamp   float64         `yaml:"integral_clamp"`
	Rounding        string          `yaml:"rounding"`
	Ticks           int             `yaml:"ticks"`
	SettleTolerance float64         `yaml:"settle_tolerance"`
	SettleWindow    int             `yaml:"settle_window"`
	Scenario        []ScenarioEvent `yaml:"scenario,omitempty"`
}

// DefaultConfig reproduces the classic demo: an 800x600 area, the controlled
// point at (100, 100), the target in the centre and all gains zero.
func DefaultConfig() *Config {
	return &Config{
		Width:           DefaultWidth,
		Height:          DefaultHeight,
		EntityRadius:    DefaultEntityRadius,
		TargetRadius:    DefaultTargetRadius,
		Start:           DefaultStart,
		Target:          DefaultTarget,
		TickRate:        DefaultTickRate,
		DerivativeAlpha: control.DefaultDerivativeAlpha,
		IntegralClamp:   control.DefaultIntegralClamp,
		Rounding:        control.RoundHalfEven.String(),
		Ticks:           DefaultTicks,
		SettleTolerance: DefaultSettleTolerance,
		SettleWindow:    DefaultSettleWindow,
	}
}

func Load(path string) (*Config, error) {
	path, err := homedir.Expand(path)
	if err != nil {
		return nil, err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	path, err := homedir.Expand(path)
	if err != nil {
		return err
	}
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return atomic.WriteFile(path, bytes.NewReader(data))
}

// String renders the config as YAML.
func (c *Config) String() string {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Sprintf("config: %v", err)
	}
	return string(data)
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	cp := *c
	cp.Scenario = append([]ScenarioEvent(nil), c.Scenario...)
	return &cp
}

// Validate reports every invalid field at once.
func (c *Config) Validate() error {
	var errs []error
	if c.Width <= 0 || c.Height <= 0 {
		errs = append(errs, fmt.Errorf("area must be positive, got %vx%v", c.Width, c.Height))
	}
	if c.EntityRadius <= 0 {
		errs = append(errs, fmt.Errorf("entity_radius must be positive, got %v", c.EntityRadius))
	}
	if c.TargetRadius < 0 {
		errs = append(errs, fmt.Errorf("target_radius must not be negative, got %v", c.TargetRadius))
	}
	if c.TickRate <= 0 || c.TickRate > 1000 {
		errs = append(errs, fmt.Errorf("tick_rate must be within 1..1000, got %d", c.TickRate))
	}
	if c.Ticks < 0 {
		errs = append(errs, fmt.Errorf("ticks must not be negative, got %d", c.Ticks))
	}
	if c.SettleWindow <= 0 {
		errs = append(errs, fmt.Errorf("settle_window must be positive, got %d", c.SettleWindow))
	}
	if c.SettleTolerance <= 0 {
		errs = append(errs, fmt.Errorf("settle_tolerance must be positive, got %v", c.SettleTolerance))
	}
	if _, err := c.ControlOptions(); err != nil {
		errs = append(errs, err)
	}
	for i, ev := range c.Scenario {
		if err := ev.Validate(); err != nil {
			errs = append(errs, fmt.Errorf("scenario[%d]: %w", i, err))
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrInvalidConfig, errors.Join(errs...))
}

// Bounds is the rectangle the controlled point may occupy.
func (c *Config) Bounds() geom.Rect {
	return geom.MovableArea(c.Width, c.Height, c.EntityRadius)
}

func (c *Config) ControlOptions() (control.Options, error) {
	rounding, err := control.ParseRoundingMode(c.Rounding)
	if err != nil {
		return control.Options{}, err
	}
	opts := control.Options{
		IntegralClamp:   c.IntegralClamp,
		DerivativeAlpha: c.DerivativeAlpha,
		Rounding:        rounding,
	}
	return opts, opts.Validate()
}

// TickPeriod converts the tick rate (updates per second) into a period.
func (c *Config) TickPeriod() time.Duration {
	if c.TickRate <= 0 {
		return time.Second / DefaultTickRate
	}
	return time.Second / time.Duration(c.TickRate)
}
