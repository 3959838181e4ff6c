// Package reactor implements zero-dimensional well-mixed reactors: the
// composite state-vector layout and marshaling, the governing-equation
// right-hand side coupling mass, volume, energy, and species to walls,
// flow devices, and surface chemistry, and the sensitivity-parameter
// perturbation machinery.
//
// The layout of a reactor's state segment is fixed: mass, volume, total
// internal energy (temperature for [IdealGasReactor]), the bulk mass
// fractions, then the surface coverages of each wall face that carries a
// mechanism, in wall-registration order. Time integration of the segment
// is owned by the network driving the reactor; this package only produces
// derivatives.
package reactor
