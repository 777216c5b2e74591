// Package diffusion models information spreading through a normalized
// population with an extended SIR system.
//
// Three compartments are tracked: S (persuadable, not yet spreading), I
// (actively spreading) and R (stopped spreading). Two extensions sit on top of
// the classic model: a persuasion multiplier theta scales transmission, and a
// re-entry rate rho moves the forgotten pool back to S:
//
//	dS/dt = -beta*theta*S*I + rho*R
//	dI/dt =  beta*theta*S*I - gamma*I
//	dR/dt =  gamma*I        - rho*R
//
// [Simulate] integrates the system with forward Euler at a fixed step and
// returns a fresh [Trajectory]; [Summarize] reduces a trajectory to its peak
// and terminal values. Both are pure functions and safe to call from
// multiple goroutines.
//
// # Known limitation
//
// Forward Euler does not keep compartments non-negative for arbitrary
// step*rate products. Nothing is clamped; [CheckStability] reports the
// parameter products that exceed the safe bound and the trajectory's Health
// map shows what actually happened.
package diffusion
