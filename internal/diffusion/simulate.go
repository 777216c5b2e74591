package diffusion

import (
	"context"
	"fmt"

	"github.com/san-kum/infodiff/internal/dynamo"
	"github.com/san-kum/infodiff/internal/integrators"
	"github.com/san-kum/infodiff/internal/metrics"
)

// Health metric names recorded on every trajectory.
const (
	HealthConservationDrift = "conservation_drift"
	HealthBoundedness       = "boundedness"
	HealthPeakR             = "peak_r"
)

// Simulate integrates the model over [0, horizon) with forward Euler at a
// fixed step, starting from x0. The trajectory holds ceil(horizon/step)
// samples; sample i sits at time i*step and sample 0 is exactly x0.
//
// Invalid rates, a non-positive or non-finite horizon or step, a
// horizon/step pair needing more than dynamo.MaxSamples samples, or an
// initial population that is out of range all fail with
// dynamo.ErrInvalidParameter and no trajectory.
func Simulate(p Params, horizon, step float64, x0 Compartments) (*Trajectory, error) {
	return SimulateContext(context.Background(), p, horizon, step, x0)
}

// SimulateContext is Simulate with cancellation for callers that run many
// simulations, such as parameter sweeps.
func SimulateContext(ctx context.Context, p Params, horizon, step float64, x0 Compartments) (*Trajectory, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	if err := x0.Validate(); err != nil {
		return nil, err
	}

	sim := dynamo.New(NewModel(p), integrators.NewEuler())
	sim.AddMetric(metrics.NewConservationDrift(1.0))
	sim.AddMetric(metrics.NewBoundedness(0, 1))
	sim.AddMetric(metrics.NewPeak(HealthPeakR, idxR))

	result, err := sim.Run(ctx, x0.state(), dynamo.Config{Dt: step, Duration: horizon})
	if err != nil {
		return nil, fmt.Errorf("simulate %s: %w", p, err)
	}

	tr := &Trajectory{
		Params:  p,
		Initial: x0,
		Horizon: horizon,
		Step:    step,
		Points:  make([]Point, len(result.States)),
		Health:  result.Metrics,
	}
	for i, x := range result.States {
		tr.Points[i] = Point{
			Time: result.Times[i],
			S:    x[idxS],
			I:    x[idxI],
			R:    x[idxR],
		}
	}

	return tr, nil
}
