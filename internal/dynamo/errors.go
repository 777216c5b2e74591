package dynamo

import "errors"

// Domain errors for simulation operations.
var (
	// ErrInvalidParameter indicates a rate, horizon, step or initial value
	// that the integrator cannot accept.
	ErrInvalidParameter = errors.New("dynamo: invalid parameter")

	// ErrInvalidInput indicates an empty or missing trajectory.
	ErrInvalidInput = errors.New("dynamo: invalid input (empty trajectory)")

	// ErrInvalidState indicates a state vector with invalid dimensions or values.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrParameterBounds indicates a parameter value is outside its configured range.
	ErrParameterBounds = errors.New("dynamo: parameter out of valid bounds")

	// ErrContextCanceled indicates the simulation was interrupted.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")

	// ErrDimensionMismatch indicates mismatched state dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and system")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
