// Package solver defines the shared vocabulary for time integration: the
// flat [State] vector, the [System] right-hand-side contract, pluggable
// [Integrator] implementations, and the [Simulator] run loop with metrics
// and observers.
//
// A reactor network implements [System]; nothing in this package knows about
// chemistry.
package solver
