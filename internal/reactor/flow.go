package reactor

import (
	"math"

	"github.com/san-kum/reactord/internal/thermo"
)

// Reservoir is a node whose state never changes: an infinite source or
// sink for flow devices and a fixed environment for walls. Its properties
// are captured once so it stays valid while the connected reactors mutate
// the shared phase objects.
type Reservoir struct {
	name     string
	pressure float64
	temp     float64
	enthalpy float64
	y        []float64
}

// NewReservoir captures the phase's current state as the reservoir's
// permanent contents.
func NewReservoir(name string, p thermo.Phase) *Reservoir {
	r := &Reservoir{name: name}
	r.capture(p)
	return r
}

func (r *Reservoir) capture(p thermo.Phase) {
	r.pressure = p.Pressure()
	r.temp = p.Temperature()
	r.enthalpy = p.EnthalpyMass()
	r.y = append(r.y[:0], p.MassFractions()...)
}

// SyncState re-captures the phase state, for callers that reuse a phase
// object to define several reservoirs.
func (r *Reservoir) SyncState(p thermo.Phase) { r.capture(p) }

func (r *Reservoir) Name() string          { return r.name }
func (r *Reservoir) Pressure() float64     { return r.pressure }
func (r *Reservoir) Temperature() float64  { return r.temp }
func (r *Reservoir) EnthalpyMass() float64 { return r.enthalpy }

func (r *Reservoir) MassFraction(k int) float64 {
	if k < len(r.y) {
		return r.y[k]
	}
	return 0
}

// MassFlowController pushes mass from an upstream node at a prescribed
// rate, either constant or a function of time.
type MassFlowController struct {
	upstream Node
	rate     float64
	fn       func(t float64) float64
	mdot     float64 // rate at the last MassFlowRate call
}

func NewMassFlowController(upstream Node, rate float64) *MassFlowController {
	return &MassFlowController{upstream: upstream, rate: rate}
}

// SetFunction replaces the constant rate with a time-dependent one.
func (m *MassFlowController) SetFunction(f func(t float64) float64) { m.fn = f }

func (m *MassFlowController) MassFlowRate(t float64) float64 {
	if m.fn != nil {
		m.mdot = m.fn(t)
	} else {
		m.mdot = m.rate
	}
	return m.mdot
}

// OutletSpeciesMassFlowRate reports species k's share of the last computed
// flow rate, at the upstream composition.
func (m *MassFlowController) OutletSpeciesMassFlowRate(k int) float64 {
	return m.mdot * m.upstream.MassFraction(k)
}

func (m *MassFlowController) EnthalpyMass() float64 {
	return m.upstream.EnthalpyMass()
}

// Valve passes mass at a rate proportional to the pressure drop across it.
// Flow never reverses; a negative drop gives zero flow.
type Valve struct {
	upstream   Node
	downstream Node
	coeff      float64 // kg/(s Pa)
	mdot       float64
}

func NewValve(upstream, downstream Node, coeff float64) *Valve {
	return &Valve{upstream: upstream, downstream: downstream, coeff: coeff}
}

func (v *Valve) MassFlowRate(t float64) float64 {
	v.mdot = math.Max(0, v.coeff*(v.upstream.Pressure()-v.downstream.Pressure()))
	return v.mdot
}

func (v *Valve) OutletSpeciesMassFlowRate(k int) float64 {
	return v.mdot * v.upstream.MassFraction(k)
}

func (v *Valve) EnthalpyMass() float64 {
	return v.upstream.EnthalpyMass()
}
