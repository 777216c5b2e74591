package diffusion

import (
	"fmt"
	"math"

	"github.com/san-kum/infodiff/internal/dynamo"
)

// Params holds the rates of one simulation run.
type Params struct {
	Beta  float64 `json:"beta" yaml:"beta"`
	Gamma float64 `json:"gamma" yaml:"gamma"`
	Theta float64 `json:"theta" yaml:"theta"`
	Rho   float64 `json:"rho" yaml:"rho"`
}

// DefaultParams are the interactive starting rates.
func DefaultParams() Params {
	return Params{Beta: 0.3, Gamma: 0.2, Theta: 1.0, Rho: 0.05}
}

// Validate rejects negative or NaN rates.
func (p Params) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"beta", p.Beta},
		{"gamma", p.Gamma},
		{"theta", p.Theta},
		{"rho", p.Rho},
	} {
		if math.IsNaN(f.v) || math.IsInf(f.v, 0) || f.v < 0 {
			return fmt.Errorf("%w: %s must be a non-negative finite number, got %v", dynamo.ErrInvalidParameter, f.name, f.v)
		}
	}
	return nil
}

// EffectiveTransmission is beta*theta, the rate actually applied to S*I.
func (p Params) EffectiveTransmission() float64 {
	return p.Beta * p.Theta
}

// R0 is the basic reproduction number beta*theta/gamma. It is +Inf when
// gamma is zero.
func (p Params) R0() float64 {
	if p.Gamma == 0 {
		return math.Inf(1)
	}
	return p.EffectiveTransmission() / p.Gamma
}

func (p Params) String() string {
	return fmt.Sprintf("beta=%.3f gamma=%.3f theta=%.3f rho=%.3f", p.Beta, p.Gamma, p.Theta, p.Rho)
}

// Compartments is one (S, I, R) triple of population fractions.
type Compartments struct {
	S float64 `json:"s" yaml:"s"`
	I float64 `json:"i" yaml:"i"`
	R float64 `json:"r" yaml:"r"`
}

// DefaultInitial starts with 5% of the population already spreading.
var DefaultInitial = Compartments{S: 0.95, I: 0.05, R: 0.0}

const populationTolerance = 1e-9

// Validate requires each fraction in [0, 1] and a total of 1.
func (c Compartments) Validate() error {
	for _, f := range []struct {
		name string
		v    float64
	}{
		{"S0", c.S},
		{"I0", c.I},
		{"R0", c.R},
	} {
		if math.IsNaN(f.v) || f.v < 0 || f.v > 1 {
			return fmt.Errorf("%w: %s must be in [0, 1], got %v", dynamo.ErrInvalidParameter, f.name, f.v)
		}
	}
	if total := c.Total(); math.Abs(total-1) > populationTolerance {
		return fmt.Errorf("%w: initial fractions must sum to 1, got %v", dynamo.ErrInvalidParameter, total)
	}
	return nil
}

func (c Compartments) Total() float64 {
	return c.S + c.I + c.R
}

func (c Compartments) state() dynamo.State {
	return dynamo.State{c.S, c.I, c.R}
}
