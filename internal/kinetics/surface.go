package kinetics

import (
	"fmt"
	"math"

	"github.com/san-kum/reactord/internal/thermo"
)

// SurfaceKinetics evaluates interfacial mass-action rates between a gas
// phase (phase 0) and one surface phase (phase 1). Mechanism species are
// indexed gas-first, then surface.
type SurfaceKinetics struct {
	gas  *thermo.IdealGasPhase
	surf *thermo.SurfPhase
	rxns []compiled
	mult []float64

	conc []float64 // scratch: gas then surface site concentrations
}

// NewSurfaceKinetics compiles the reactions against the gas/surface pair.
func NewSurfaceKinetics(gas *thermo.IdealGasPhase, surf *thermo.SurfPhase, rxns []Reaction) (*SurfaceKinetics, error) {
	s := &SurfaceKinetics{
		gas:  gas,
		surf: surf,
		rxns: make([]compiled, 0, len(rxns)),
		mult: make([]float64, len(rxns)),
		conc: make([]float64, gas.NSpecies()+surf.NSpecies()),
	}
	for i := range s.mult {
		s.mult[i] = 1.0
	}
	for _, r := range rxns {
		c := compiled{equation: r.Equation, rate: r.Rate}
		var err error
		if c.reactants, err = s.resolve(r.Reactants); err != nil {
			return nil, fmt.Errorf("kinetics: surface reaction %q: %w", r.Equation, err)
		}
		if c.products, err = s.resolve(r.Products); err != nil {
			return nil, fmt.Errorf("kinetics: surface reaction %q: %w", r.Equation, err)
		}
		s.rxns = append(s.rxns, c)
	}
	return s, nil
}

func (s *SurfaceKinetics) resolve(side map[string]float64) ([]stoich, error) {
	out := make([]stoich, 0, len(side))
	for nm, nu := range side {
		if k := s.gas.SpeciesIndex(nm); k >= 0 {
			out = append(out, stoich{k: k, order: nu})
			continue
		}
		if k := s.surf.SpeciesIndex(nm); k >= 0 {
			out = append(out, stoich{k: s.gas.NSpecies() + k, order: nu})
			continue
		}
		return nil, fmt.Errorf("species %q not in gas or surface phase", nm)
	}
	return out, nil
}

func (s *SurfaceKinetics) NReactions() int    { return len(s.rxns) }
func (s *SurfaceKinetics) NTotalSpecies() int { return s.gas.NSpecies() + s.surf.NSpecies() }

func (s *SurfaceKinetics) Multiplier(i int) float64 { return s.mult[i] }

func (s *SurfaceKinetics) SetMultiplier(i int, v float64) { s.mult[i] = v }

// InvalidateCache is a no-op: surface rate constants are rebuilt on every
// evaluation since the surface temperature tracks the bulk each call.
func (s *SurfaceKinetics) InvalidateCache() {}

func (s *SurfaceKinetics) ReactionString(i int) string { return s.rxns[i].equation }

func (s *SurfaceKinetics) KineticsSpeciesIndex(k, phase int) int {
	if phase == 0 {
		return k
	}
	return s.gas.NSpecies() + k
}

func (s *SurfaceKinetics) SurfacePhaseIndex() int { return 1 }

func (s *SurfaceKinetics) ReactionPhaseIndex() int { return 1 }

func (s *SurfaceKinetics) Thermo(phase int) SpeciesPhase {
	if phase == 0 {
		return s.gas
	}
	return s.surf
}

// Surface returns the attached surface phase.
func (s *SurfaceKinetics) Surface() *thermo.SurfPhase { return s.surf }

func (s *SurfaceKinetics) GetNetProductionRates(wdot []float64) {
	nGas := s.gas.NSpecies()
	s.gas.Concentrations(s.conc[:nGas])
	for k := 0; k < s.surf.NSpecies(); k++ {
		s.conc[nGas+k] = s.surf.SiteConcentration(k)
	}
	for k := 0; k < s.NTotalSpecies(); k++ {
		wdot[k] = 0
	}

	T := s.surf.Temperature()
	for i := range s.rxns {
		rxn := &s.rxns[i]
		r := &rxn.rate
		rate := s.mult[i] * r.A * math.Pow(T, r.B) * math.Exp(-r.Ea/(thermo.GasConstant*T))
		for _, st := range rxn.reactants {
			rate *= math.Pow(s.conc[st.k], st.order)
		}
		for _, st := range rxn.reactants {
			wdot[st.k] -= st.order * rate
		}
		for _, st := range rxn.products {
			wdot[st.k] += st.order * rate
		}
	}
}
