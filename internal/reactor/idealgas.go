package reactor

import "fmt"

// IdealGasReactor is the variant of [Reactor] for ideal gases in which
// temperature replaces total internal energy in slot 2 of the state vector.
// Recovering the state needs no iteration, and the energy equation is
// written directly for dT/dt.
type IdealGasReactor struct {
	Reactor
	uk []float64 // species molar internal energies, J/kmol
}

func NewIdealGasReactor(name string) *IdealGasReactor {
	r := &IdealGasReactor{}
	r.Reactor = *NewReactor(name)
	return r
}

func (r *IdealGasReactor) Initialize(t0 float64) error {
	if err := r.Reactor.Initialize(t0); err != nil {
		return err
	}
	r.uk = make([]float64, r.nsp)
	return nil
}

// GetState marshals the state with temperature in slot 2.
func (r *IdealGasReactor) GetState(y []float64) error {
	if r.phase == nil {
		return fmt.Errorf("%w (reactor %q)", ErrNoThermo, r.name)
	}
	r.phase.RestoreState(r.state)

	r.mass = r.phase.Density() * r.vol
	y[idxMass] = r.mass
	y[idxVolume] = r.vol
	y[idxEnergy] = r.phase.Temperature()
	copy(y[offSpecies:offSpecies+r.nsp], r.phase.MassFractions())

	r.getSurfaceState(y[offSpecies+r.nsp:])
	return nil
}

// UpdateState reads temperature directly from slot 2; no root finding.
func (r *IdealGasReactor) UpdateState(y []float64) error {
	r.mass = y[idxMass]
	r.vol = y[idxVolume]
	r.phase.SetMassFractionsNoNorm(y[offSpecies : offSpecies+r.nsp])
	r.phase.SetStateTR(y[idxEnergy], r.mass/r.vol)

	r.updateSurfaceState(y[offSpecies+r.nsp:])

	r.enthalpy = r.phase.EnthalpyMass()
	r.pressure = r.phase.Pressure()
	r.intEnergy = r.phase.IntEnergyMass()
	r.state = r.phase.SaveState()
	return nil
}

func (r *IdealGasReactor) EvalEqs(t float64, y, ydot, params []float64) {
	dmdt := 0.0
	dYdt := ydot[offSpecies : offSpecies+r.nsp]

	r.phase.RestoreState(r.state)
	r.applySensitivity(params)
	r.evalWalls(t)
	mdotSurf := r.evalSurfaces(t, ydot[offSpecies+r.nsp:])
	dmdt += mdotSurf

	ydot[idxVolume] = r.vdot

	mw := r.phase.MolecularWeights()
	Y := r.phase.MassFractions()

	if r.chem {
		r.kin.GetNetProductionRates(r.wdot)
	}
	r.phase.GetPartialMolarIntEnergies(r.uk)

	// m cv dT/dt, assembled term by term
	mcvdTdt := 0.0
	if r.energy {
		mcvdTdt = -r.phase.Pressure()*r.vdot - r.q
	}

	for k := 0; k < r.nsp; k++ {
		// heat release from gas-phase and surface reactions
		mcvdTdt -= r.wdot[k] * r.uk[k] * r.vol
		mcvdTdt -= r.sdot[k] * r.uk[k]
		// production in the gas phase and from surfaces
		dYdt[k] = (r.wdot[k]*r.vol + r.sdot[k]) * mw[k] / r.mass
		// dilution by the net surface mass flux
		dYdt[k] -= Y[k] * mdotSurf / r.mass
	}

	for _, out := range r.outlets {
		mdotOut := out.MassFlowRate(t)
		dmdt -= mdotOut
		if r.energy {
			// flow work of pushing mass out
			mcvdTdt -= mdotOut * r.pressure * r.vol / r.mass
		}
	}

	for _, in := range r.inlets {
		mdotIn := in.MassFlowRate(t)
		dmdt += mdotIn
		for k := 0; k < r.nsp; k++ {
			mdotSpec := in.OutletSpeciesMassFlowRate(k)
			dYdt[k] += (mdotSpec - mdotIn*Y[k]) / r.mass
			// with h_in*mdot_in below: flow work plus the thermal energy
			// carried in with each species
			mcvdTdt -= r.uk[k] / mw[k] * mdotSpec
		}
		if r.energy {
			mcvdTdt += mdotIn * in.EnthalpyMass()
		}
	}

	ydot[idxMass] = dmdt
	if r.energy {
		ydot[idxEnergy] = mcvdTdt / (r.mass * r.phase.CvMass())
	} else {
		ydot[idxEnergy] = 0.0
	}
	r.resetSensitivity(params)
}

// ComponentIndex resolves "temperature" instead of "int_energy" for slot 2.
func (r *IdealGasReactor) ComponentIndex(name string) int {
	if k := r.SpeciesIndex(name); k >= 0 {
		return k + offSpecies
	}
	switch name {
	case "mass":
		return idxMass
	case "volume":
		return idxVolume
	case "temperature":
		return idxEnergy
	}
	return -1
}

func (r *IdealGasReactor) ComponentName(k int) (string, error) {
	if k == idxEnergy {
		return "temperature", nil
	}
	return r.Reactor.ComponentName(k)
}
