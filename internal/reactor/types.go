package reactor

import (
	"errors"
	"fmt"
)

// Side tags which neighbor of a wall a reactor is. A wall's volume and heat
// flow are defined positive from left to right.
type Side int

const (
	Left Side = iota
	Right
)

// sign converts the side tag into the flow-direction sign seen by the
// reactor on that side.
func (s Side) sign() float64 {
	if s == Left {
		return 1.0
	}
	return -1.0
}

// Node is a source or sink of material a flow device can draw from: a
// reactor (via its cached state) or a reservoir.
type Node interface {
	Pressure() float64
	Temperature() float64
	EnthalpyMass() float64
	MassFraction(k int) float64
}

// FlowDevice moves mass between nodes. MassFlowRate must be called before
// the per-species and enthalpy getters within one RHS evaluation; they
// report at the rate last computed.
type FlowDevice interface {
	MassFlowRate(t float64) float64
	OutletSpeciesMassFlowRate(k int) float64
	EnthalpyMass() float64
}

// Net is the slice of the owning reactor network this core needs: a place
// to register sensitivity parameters and obtain their global indices.
type Net interface {
	RegisterSensitivityParameter(name string, value, scale float64) int
}

var (
	// ErrNoThermo indicates state was requested before a phase was attached.
	ErrNoThermo = errors.New("reactor: no thermodynamic phase attached")

	// ErrNotConfigured indicates Initialize was called without both a
	// phase and a kinetics manager attached.
	ErrNotConfigured = errors.New("reactor: contents not set")

	// ErrNoNetwork indicates a sensitivity registration with no owning network.
	ErrNoNetwork = errors.New("reactor: not attached to a network")

	// ErrIndexOutOfRange indicates a species or reaction index outside the
	// attached mechanism.
	ErrIndexOutOfRange = errors.New("reactor: index out of range")

	// ErrComponentNotFound indicates an unresolvable component name.
	ErrComponentNotFound = errors.New("reactor: no component with that name")
)

// TemperatureSolveError reports a non-converged temperature recovery with
// the state that produced it.
type TemperatureSolveError struct {
	Reactor        string
	SpecificEnergy float64 // target U/m, J/kg
	T              float64 // last temperature estimate, K
	Rho            float64 // density, kg/m^3
}

func (e *TemperatureSolveError) Error() string {
	return fmt.Sprintf("reactor %q: temperature solve did not converge: U/m=%g T=%g rho=%g",
		e.Reactor, e.SpecificEnergy, e.T, e.Rho)
}
