package config

import (
	"fmt"
	"math"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/infodiff/internal/diffusion"
	"github.com/san-kum/infodiff/internal/dynamo"
)

const (
	DefaultBeta    = 0.3
	DefaultGamma   = 0.2
	DefaultTheta   = 1.0
	DefaultRho     = 0.05
	DefaultHorizon = 120.0
	DefaultStep    = 0.1
)

// Range is an inclusive bound for one tunable.
type Range struct {
	Min, Max float64
}

func (r Range) Contains(v float64) bool {
	return v >= r.Min && v <= r.Max
}

// Clamp pins v into the range.
func (r Range) Clamp(v float64) float64 {
	return math.Max(r.Min, math.Min(r.Max, v))
}

// Bounds are the ranges the input surface accepts.
var Bounds = map[string]Range{
	"beta":    {0.05, 1.0},
	"gamma":   {0.05, 1.0},
	"theta":   {0.1, 2.0},
	"rho":     {0.0, 0.5},
	"horizon": {30, 365},
}

type Config struct {
	Beta    float64         `yaml:"beta"`
	Gamma   float64         `yaml:"gamma"`
	Theta   float64         `yaml:"theta"`
	Rho     float64         `yaml:"rho"`
	Horizon float64         `yaml:"horizon"`
	Step    float64         `yaml:"step"`
	Initial InitStateConfig `yaml:"init_state"`
}

type InitStateConfig struct {
	S float64 `yaml:"s"`
	I float64 `yaml:"i"`
	R float64 `yaml:"r"`
}

func DefaultConfig() *Config {
	return &Config{
		Beta:    DefaultBeta,
		Gamma:   DefaultGamma,
		Theta:   DefaultTheta,
		Rho:     DefaultRho,
		Horizon: DefaultHorizon,
		Step:    DefaultStep,
		Initial: InitStateConfig{
			S: diffusion.DefaultInitial.S,
			I: diffusion.DefaultInitial.I,
			R: diffusion.DefaultInitial.R,
		},
	}
}

// Load reads a config file over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if err := LoadInto(path, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadInto overlays the keys present in the file onto cfg. Keys the file
// leaves out keep their current values. cfg may be partly updated on error.
func LoadInto(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every tunable against Bounds and the step for positivity.
func (c *Config) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"beta", c.Beta},
		{"gamma", c.Gamma},
		{"theta", c.Theta},
		{"rho", c.Rho},
		{"horizon", c.Horizon},
	} {
		r := Bounds[f.name]
		if !r.Contains(f.v) {
			return fmt.Errorf("%w: %s=%v outside [%v, %v]", dynamo.ErrParameterBounds, f.name, f.v, r.Min, r.Max)
		}
	}
	if !(c.Step > 0) {
		return fmt.Errorf("%w: step must be positive, got %v", dynamo.ErrParameterBounds, c.Step)
	}
	return nil
}

func (c *Config) Params() diffusion.Params {
	return diffusion.Params{Beta: c.Beta, Gamma: c.Gamma, Theta: c.Theta, Rho: c.Rho}
}

func (c *Config) GetInitState() diffusion.Compartments {
	return diffusion.Compartments{S: c.Initial.S, I: c.Initial.I, R: c.Initial.R}
}

// Simulate runs the configured model.
func (c *Config) Simulate() (*diffusion.Trajectory, error) {
	return diffusion.Simulate(c.Params(), c.Horizon, c.Step, c.GetInitState())
}
