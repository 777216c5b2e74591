// Package viz is the interactive terminal surface for the diffusion model.
//
// Parameters are adjusted with the arrow keys inside the ranges declared in
// config.Bounds. Every change recomputes the trajectory from scratch and
// redraws the S/I/R chart and summary; there is no incremental update.
//
// Recent runs are memoized in a small FIFO cache keyed by the full parameter
// tuple, so stepping back and forth over a value does not re-integrate.
package viz
