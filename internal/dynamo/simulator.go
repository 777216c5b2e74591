package dynamo

import (
	"context"
	"fmt"
	"math"
)

type Simulator struct {
	dyn        System
	integrator Integrator
	metrics    []Metric
}

func New(dyn System, integrator Integrator) *Simulator {
	return &Simulator{
		dyn:        dyn,
		integrator: integrator,
		metrics:    make([]Metric, 0),
	}
}

func (s *Simulator) AddMetric(m Metric) { s.metrics = append(s.metrics, m) }

// Run integrates from x0 and records every sample. On a validation or
// cancellation error no partial result is returned.
func (s *Simulator) Run(ctx context.Context, x0 State, cfg Config) (*Result, error) {
	if err := s.validateConfig(cfg); err != nil {
		return nil, err
	}
	if len(x0) != s.dyn.StateDim() {
		return nil, fmt.Errorf("%w: state has %d components, system expects %d",
			ErrDimensionMismatch, len(x0), s.dyn.StateDim())
	}

	samples := cfg.Samples()
	result := &Result{
		States:  make([]State, 0, samples),
		Times:   make([]float64, 0, samples),
		Metrics: make(map[string]float64),
	}

	for _, m := range s.metrics {
		m.Reset()
	}

	x := x0.Clone()
	dt := cfg.Dt
	s.record(result, x, 0)

	for i := 1; i < samples; i++ {
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %v", ErrContextCanceled, ctx.Err())
		default:
		}

		t := float64(i-1) * dt
		newX := s.integrator.Step(s.dyn, x, t, dt)

		if cfg.ValidateState && !newX.IsValid() {
			return nil, &SimulationError{
				Step:    i,
				Time:    float64(i) * dt,
				State:   newX,
				Wrapped: ErrInvalidState,
			}
		}

		x = newX
		result.StepsTaken++
		s.record(result, x, float64(i)*dt)
	}

	for _, m := range s.metrics {
		result.Metrics[m.Name()] = m.Value()
	}

	return result, nil
}

func (s *Simulator) record(result *Result, x State, t float64) {
	result.States = append(result.States, x.Clone())
	result.Times = append(result.Times, t)
	for _, m := range s.metrics {
		m.Observe(x, t)
	}
}

func (s *Simulator) validateConfig(cfg Config) error {
	if math.IsNaN(cfg.Dt) || math.IsInf(cfg.Dt, 0) || cfg.Dt <= 0 {
		return fmt.Errorf("%w: dt must be positive and finite, got %g", ErrInvalidParameter, cfg.Dt)
	}
	if math.IsNaN(cfg.Duration) || math.IsInf(cfg.Duration, 0) || cfg.Duration <= 0 {
		return fmt.Errorf("%w: duration must be positive and finite, got %g", ErrInvalidParameter, cfg.Duration)
	}
	// The ratio underflows to zero or overflows for extreme pairs.
	if ratio := math.Ceil(cfg.Duration / cfg.Dt); math.IsInf(ratio, 0) || ratio < 1 || ratio > MaxSamples {
		return fmt.Errorf("%w: duration/dt gives %g samples, want 1..%d", ErrInvalidParameter, ratio, MaxSamples)
	}
	return nil
}
