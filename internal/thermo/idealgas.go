package thermo

import "fmt"

// IdealGasPhase evaluates mixture properties for an ideal gas with
// quadratic-in-T species heat capacities. It implements [Phase].
type IdealGasPhase struct {
	species []Species
	index   map[string]int
	weights []float64

	T   float64
	rho float64
	y   []float64

	hf []float64 // working formation enthalpies, perturbed by sensitivity analysis

	cache propCache
}

type propCache struct {
	valid  bool
	cpMass float64
	hMass  float64
	uMass  float64
	p      float64
}

// NewIdealGasPhase builds a phase over the named species, resolved against
// the built-in table. The initial state is 300 K, 1 kg/m^3, all mass in the
// first species.
func NewIdealGasPhase(names []string) (*IdealGasPhase, error) {
	db := SpeciesDB()
	p := &IdealGasPhase{
		species: make([]Species, 0, len(names)),
		index:   make(map[string]int, len(names)),
		weights: make([]float64, 0, len(names)),
		T:       300.0,
		rho:     1.0,
		y:       make([]float64, len(names)),
		hf:      make([]float64, 0, len(names)),
	}
	for i, nm := range names {
		sp, ok := db[nm]
		if !ok {
			return nil, fmt.Errorf("thermo: unknown species %q", nm)
		}
		p.species = append(p.species, sp)
		p.index[nm] = i
		p.weights = append(p.weights, sp.W)
		p.hf = append(p.hf, sp.Hf298)
	}
	if len(p.y) > 0 {
		p.y[0] = 1.0
	}
	return p, nil
}

func (p *IdealGasPhase) NSpecies() int { return len(p.species) }

func (p *IdealGasPhase) SpeciesIndex(name string) int {
	if k, ok := p.index[name]; ok {
		return k
	}
	return -1
}

func (p *IdealGasPhase) SpeciesName(k int) string { return p.species[k].Name }

func (p *IdealGasPhase) MolecularWeights() []float64 { return p.weights }

func (p *IdealGasPhase) MassFractions() []float64 { return p.y }

func (p *IdealGasPhase) SetMassFractionsNoNorm(y []float64) {
	copy(p.y, y)
	p.cache.valid = false
}

func (p *IdealGasPhase) SetStateTR(T, rho float64) {
	p.T = T
	p.rho = rho
	p.cache.valid = false
}

func (p *IdealGasPhase) SetDensity(rho float64) {
	p.rho = rho
	p.cache.valid = false
}

func (p *IdealGasPhase) SetTemperature(T float64) {
	p.T = T
	p.cache.valid = false
}

// SetStateTPY sets temperature, pressure, and mass fractions, deriving the
// density from the ideal-gas law.
func (p *IdealGasPhase) SetStateTPY(T, pres float64, y []float64) {
	copy(p.y, y)
	p.T = T
	p.rho = pres / (GasConstant * T * p.meanInvW())
	p.cache.valid = false
}

func (p *IdealGasPhase) Temperature() float64 { return p.T }
func (p *IdealGasPhase) Density() float64     { return p.rho }

// meanInvW returns sum_k Y_k / W_k, i.e. 1/Wmean for a normalized
// composition. Unnormalized compositions are used as stored.
func (p *IdealGasPhase) meanInvW() float64 {
	sum := 0.0
	for k := range p.species {
		sum += p.y[k] / p.weights[k]
	}
	return sum
}

func (p *IdealGasPhase) compute() {
	if p.cache.valid {
		return
	}
	var cp, h float64
	for k := range p.species {
		yw := p.y[k] / p.weights[k]
		cp += yw * p.species[k].cp(p.T)
		h += yw * p.species[k].enthalpy(p.T, p.hf[k])
	}
	rt := GasConstant * p.T
	invW := p.meanInvW()
	p.cache.cpMass = cp
	p.cache.hMass = h
	p.cache.uMass = h - rt*invW
	p.cache.p = p.rho * rt * invW
	p.cache.valid = true
}

func (p *IdealGasPhase) Pressure() float64 {
	p.compute()
	return p.cache.p
}

func (p *IdealGasPhase) IntEnergyMass() float64 {
	p.compute()
	return p.cache.uMass
}

func (p *IdealGasPhase) EnthalpyMass() float64 {
	p.compute()
	return p.cache.hMass
}

func (p *IdealGasPhase) CpMass() float64 {
	p.compute()
	return p.cache.cpMass
}

func (p *IdealGasPhase) CvMass() float64 {
	p.compute()
	return p.cache.cpMass - GasConstant*p.meanInvW()
}

// GetPartialMolarIntEnergies fills uk with the molar internal energy of each
// species at the current temperature, J/kmol.
func (p *IdealGasPhase) GetPartialMolarIntEnergies(uk []float64) {
	rt := GasConstant * p.T
	for k := range p.species {
		uk[k] = p.species[k].enthalpy(p.T, p.hf[k]) - rt
	}
}

func (p *IdealGasPhase) SaveState() Snapshot {
	s := make(Snapshot, 2+len(p.y))
	s[0] = p.T
	s[1] = p.rho
	copy(s[2:], p.y)
	return s
}

func (p *IdealGasPhase) RestoreState(s Snapshot) {
	p.T = s[0]
	p.rho = s[1]
	copy(p.y, s[2:])
	p.cache.valid = false
}

func (p *IdealGasPhase) ModifyOneHf298(k int, hf float64) {
	p.hf[k] = hf
	p.cache.valid = false
}

func (p *IdealGasPhase) ResetHf298(k int) {
	p.hf[k] = p.species[k].Hf298
	p.cache.valid = false
}

func (p *IdealGasPhase) Hf298(k int) float64 { return p.hf[k] }

func (p *IdealGasPhase) InvalidateCache() { p.cache.valid = false }

// Concentrations fills c with molar concentrations rho*Y_k/W_k, kmol/m^3.
func (p *IdealGasPhase) Concentrations(c []float64) {
	for k := range p.species {
		c[k] = p.rho * p.y[k] / p.weights[k]
	}
}
