// Package dynamo provides core simulation primitives for dynamical systems.
//
// The package defines the fundamental interfaces and types for fixed-step
// numerical simulation of ordinary differential equations (ODEs):
//
//   - [State]: vector representing system state
//   - [System]: interface for ODE systems (dX/dt = f(X, t))
//   - [Integrator]: numerical stepper interface
//   - [Metric]: streaming observer fed every recorded sample
//   - [Simulator]: orchestrates simulation runs
//
// # Example
//
//	sim := dynamo.New(model, integrators.NewEuler())
//	result, _ := sim.Run(ctx, x0, dynamo.Config{Dt: 0.1, Duration: 120})
//
// A run records ceil(Duration/Dt) samples. Sample i sits at time i*Dt, so
// times never accumulate rounding error from repeated addition.
//
// # Thread Safety
//
// Simulator instances are NOT thread-safe because metrics carry state.
// Build one Simulator per goroutine.
package dynamo
