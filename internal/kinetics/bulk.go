package kinetics

import (
	"fmt"
	"math"

	"github.com/san-kum/reactord/internal/thermo"
)

type stoich struct {
	k     int
	order float64
}

type compiled struct {
	equation  string
	rate      Arrhenius
	reactants []stoich
	products  []stoich
}

// BulkKinetics evaluates homogeneous mass-action rates over one gas phase.
type BulkKinetics struct {
	gas  *thermo.IdealGasPhase
	rxns []compiled
	mult []float64

	conc []float64 // scratch concentrations
	kf   []float64 // cached rate constants
	kfT  float64   // temperature the cache was built at
	kfOK bool
}

// NewBulkKinetics compiles the reactions against the gas phase.
func NewBulkKinetics(gas *thermo.IdealGasPhase, rxns []Reaction) (*BulkKinetics, error) {
	b := &BulkKinetics{
		gas:  gas,
		rxns: make([]compiled, 0, len(rxns)),
		mult: make([]float64, len(rxns)),
		conc: make([]float64, gas.NSpecies()),
		kf:   make([]float64, len(rxns)),
	}
	for i := range b.mult {
		b.mult[i] = 1.0
	}
	for _, r := range rxns {
		c := compiled{equation: r.Equation, rate: r.Rate}
		var err error
		if c.reactants, err = b.resolve(r.Reactants); err != nil {
			return nil, fmt.Errorf("kinetics: reaction %q: %w", r.Equation, err)
		}
		if c.products, err = b.resolve(r.Products); err != nil {
			return nil, fmt.Errorf("kinetics: reaction %q: %w", r.Equation, err)
		}
		b.rxns = append(b.rxns, c)
	}
	return b, nil
}

func (b *BulkKinetics) resolve(side map[string]float64) ([]stoich, error) {
	out := make([]stoich, 0, len(side))
	for nm, nu := range side {
		k := b.gas.SpeciesIndex(nm)
		if k < 0 {
			return nil, fmt.Errorf("species %q not in phase", nm)
		}
		out = append(out, stoich{k: k, order: nu})
	}
	return out, nil
}

func (b *BulkKinetics) NReactions() int    { return len(b.rxns) }
func (b *BulkKinetics) NTotalSpecies() int { return b.gas.NSpecies() }

func (b *BulkKinetics) Multiplier(i int) float64 { return b.mult[i] }

func (b *BulkKinetics) SetMultiplier(i int, v float64) { b.mult[i] = v }

func (b *BulkKinetics) InvalidateCache() { b.kfOK = false }

func (b *BulkKinetics) ReactionString(i int) string { return b.rxns[i].equation }

func (b *BulkKinetics) KineticsSpeciesIndex(k, phase int) int { return k }

func (b *BulkKinetics) SurfacePhaseIndex() int { return -1 }

func (b *BulkKinetics) ReactionPhaseIndex() int { return 0 }

func (b *BulkKinetics) Thermo(phase int) SpeciesPhase { return b.gas }

func (b *BulkKinetics) updateRateConstants() {
	T := b.gas.Temperature()
	if b.kfOK && T == b.kfT {
		return
	}
	for i := range b.rxns {
		r := &b.rxns[i].rate
		b.kf[i] = r.A * math.Pow(T, r.B) * math.Exp(-r.Ea/(thermo.GasConstant*T))
	}
	b.kfT = T
	b.kfOK = true
}

func (b *BulkKinetics) GetNetProductionRates(wdot []float64) {
	b.updateRateConstants()
	b.gas.Concentrations(b.conc)
	for k := 0; k < b.gas.NSpecies(); k++ {
		wdot[k] = 0
	}
	for i := range b.rxns {
		rxn := &b.rxns[i]
		rate := b.kf[i] * b.mult[i]
		for _, s := range rxn.reactants {
			rate *= math.Pow(b.conc[s.k], s.order)
		}
		for _, s := range rxn.reactants {
			wdot[s.k] -= s.order * rate
		}
		for _, s := range rxn.products {
			wdot[s.k] += s.order * rate
		}
	}
}
