package reactor

import (
	"fmt"
	"math"

	"github.com/san-kum/reactord/internal/kinetics"
	"github.com/san-kum/reactord/internal/thermo"
)

// Composite state-vector layout. Every reactor's segment of the network
// vector starts with three scalars followed by the bulk mass fractions and
// the per-wall surface coverages:
//
//	y[0]              total mass, kg
//	y[1]              total volume, m^3
//	y[2]              total internal energy, J (or temperature, K, for
//	                  the ideal-gas variant)
//	y[3:3+nsp]        bulk species mass fractions, unnormalized
//	y[3+nsp:]         surface coverages, wall-registration order, only for
//	                  walls whose active side carries a surface mechanism
const (
	idxMass    = 0
	idxVolume  = 1
	idxEnergy  = 2
	offSpecies = 3
)

// dblEpsilon is the double-precision machine epsilon.
const dblEpsilon = 2.220446049250313e-16

type sensKind int

const (
	sensReaction sensKind = iota
	sensEnthalpy
)

// sensParam records one registered sensitivity parameter: the local
// reaction/species index, the global slot in the network's perturbation
// vector, the baseline value restored after every evaluation, and the kind.
type sensParam struct {
	local  int
	global int
	value  float64
	kind   sensKind
}

// Reactor is a zero-dimensional well-mixed control volume. Its governing
// equations couple mass, volume, total internal energy, and species mass
// fractions to walls, flow devices, and surface chemistry.
type Reactor struct {
	name  string
	phase thermo.Phase
	kin   kinetics.Kinetics
	net   Net

	vol  float64
	mass float64

	state thermo.Snapshot

	chem   bool
	energy bool

	walls []*Wall
	side  []Side

	inlets  []FlowDevice
	outlets []FlowDevice

	sens []sensParam

	nsp int
	nv  int

	// scratch, sized at Initialize and reused every evaluation
	wdot []float64 // bulk net production rates, kmol/m^3/s
	sdot []float64 // surface net production into the bulk, kmol/s
	work []float64 // per-wall kinetics buffer, largest mechanism wins

	vdot float64 // net volume change rate from walls
	q    float64 // net heat loss rate through walls

	// cached scalar properties other connected elements read
	enthalpy  float64
	pressure  float64
	intEnergy float64
}

func NewReactor(name string) *Reactor {
	return &Reactor{
		name:   name,
		vol:    1.0,
		energy: true,
	}
}

func (r *Reactor) Name() string        { return r.name }
func (r *Reactor) SetName(name string) { r.name = name }

func (r *Reactor) Volume() float64     { return r.vol }
func (r *Reactor) SetVolume(v float64) { r.vol = v }

func (r *Reactor) Mass() float64 { return r.mass }

// SetEnergy selects whether total internal energy is tracked as a state
// variable. When off, slot 2 is carried but its derivative is forced to
// zero and temperature is held by the density constraint.
func (r *Reactor) SetEnergy(on bool)    { r.energy = on }
func (r *Reactor) EnergyEnabled() bool  { return r.energy }
func (r *Reactor) SetChemistry(on bool) { r.chem = on }

// SetThermoMgr attaches the bulk phase and captures its state snapshot.
func (r *Reactor) SetThermoMgr(p thermo.Phase) {
	r.phase = p
	r.nsp = p.NSpecies()
	r.state = p.SaveState()
}

// SetKineticsMgr attaches the bulk kinetics. Chemistry is enabled exactly
// when the mechanism has reactions.
func (r *Reactor) SetKineticsMgr(k kinetics.Kinetics) {
	r.kin = k
	r.chem = k.NReactions() > 0
}

func (r *Reactor) Thermo() thermo.Phase        { return r.phase }
func (r *Reactor) Kinetics() kinetics.Kinetics { return r.kin }

func (r *Reactor) SetNetwork(n Net) { r.net = n }

func (r *Reactor) addWall(w *Wall, s Side) {
	r.walls = append(r.walls, w)
	r.side = append(r.side, s)
}

func (r *Reactor) AddInlet(d FlowDevice)  { r.inlets = append(r.inlets, d) }
func (r *Reactor) AddOutlet(d FlowDevice) { r.outlets = append(r.outlets, d) }

// Node view, read by connected walls and flow devices. These come from the
// cached snapshot, not the live phase, so they stay consistent while a
// neighboring reactor is mid-evaluation.
func (r *Reactor) Pressure() float64     { return r.pressure }
func (r *Reactor) EnthalpyMass() float64 { return r.enthalpy }
func (r *Reactor) Temperature() float64  { return r.state.Temperature() }
func (r *Reactor) Density() float64      { return r.state.Density() }

func (r *Reactor) MassFraction(k int) float64 { return r.state[2+k] }

// NEq returns the length of this reactor's state-vector segment.
func (r *Reactor) NEq() int { return r.nv }

// Initialize fixes the state-vector layout and sizes the working buffers.
// Must be called after the phase and kinetics managers are attached and
// before any GetState/UpdateState/EvalEqs.
func (r *Reactor) Initialize(t0 float64) error {
	if r.phase == nil || r.kin == nil {
		return fmt.Errorf("%w for reactor %q", ErrNotConfigured, r.name)
	}
	r.phase.RestoreState(r.state)
	r.sdot = make([]float64, r.nsp)
	r.wdot = make([]float64, r.nsp)
	r.nv = r.nsp + offSpecies
	for i, w := range r.walls {
		if surf := w.Surface(r.side[i]); surf != nil {
			r.nv += surf.NSpecies()
		}
	}

	r.enthalpy = r.phase.EnthalpyMass()
	r.pressure = r.phase.Pressure()
	r.intEnergy = r.phase.IntEnergyMass()

	maxnt := 0
	for i, w := range r.walls {
		w.Initialize()
		if wk := w.Kin(r.side[i]); wk != nil {
			if nt := wk.NTotalSpecies(); nt > maxnt {
				maxnt = nt
			}
			if wk.Thermo(0) != kinetics.SpeciesPhase(r.phase) {
				return fmt.Errorf("reactor %q: first phase of wall kinetics must be the bulk gas", r.name)
			}
		}
	}
	r.work = make([]float64, maxnt)
	return nil
}

// SyncState reads the attached phase's current state as the reactor's own.
func (r *Reactor) SyncState() {
	r.state = r.phase.SaveState()
	r.mass = r.state.Density() * r.vol
	r.enthalpy = r.phase.EnthalpyMass()
	r.pressure = r.phase.Pressure()
	r.intEnergy = r.phase.IntEnergyMass()
}

// GetState marshals the current reactor state into y using the documented
// layout.
func (r *Reactor) GetState(y []float64) error {
	if r.phase == nil {
		return fmt.Errorf("%w (reactor %q)", ErrNoThermo, r.name)
	}
	r.phase.RestoreState(r.state)

	r.mass = r.phase.Density() * r.vol
	y[idxMass] = r.mass
	y[idxVolume] = r.vol
	y[idxEnergy] = r.phase.IntEnergyMass() * r.mass
	copy(y[offSpecies:offSpecies+r.nsp], r.phase.MassFractions())

	r.getSurfaceState(y[offSpecies+r.nsp:])
	return nil
}

func (r *Reactor) getSurfaceState(y []float64) {
	loc := 0
	for i, w := range r.walls {
		if surf := w.Surface(r.side[i]); surf != nil {
			w.GetCoverages(r.side[i], y[loc:])
			loc += surf.NSpecies()
		}
	}
}

// UpdateState pushes y back into the thermodynamic phase and the wall
// coverages, solving for temperature when energy is tracked, and re-saves
// the snapshot plus the cached scalars connected elements read.
func (r *Reactor) UpdateState(y []float64) error {
	r.mass = y[idxMass]
	r.vol = y[idxVolume]
	r.phase.SetMassFractionsNoNorm(y[offSpecies : offSpecies+r.nsp])

	if r.energy {
		if err := r.solveTemperature(y[idxEnergy]); err != nil {
			return err
		}
	} else {
		r.phase.SetDensity(r.mass / r.vol)
	}

	r.updateSurfaceState(y[offSpecies+r.nsp:])

	r.enthalpy = r.phase.EnthalpyMass()
	r.pressure = r.phase.Pressure()
	r.intEnergy = r.phase.IntEnergyMass()
	r.state = r.phase.SaveState()
	return nil
}

// solveTemperature recovers T from (mass, volume, U) by damped Newton
// iteration, using cv as the local dU/dT. The 0.5*T step cap and the 0.8
// damping decay are empirical and load-bearing on stiff cv(T) data; do not
// retune them.
func (r *Reactor) solveTemperature(U float64) error {
	T := r.phase.Temperature()
	dT := 100.0
	dUprev := 1e10
	dU := 1e10
	damp := 1.0
	for i := 0; math.Abs(dT/T) > 10*dblEpsilon; i++ {
		if i > 100 {
			return &TemperatureSolveError{
				Reactor:        r.name,
				SpecificEnergy: U / r.mass,
				T:              T,
				Rho:            r.mass / r.vol,
			}
		}
		dUprev = dU
		r.phase.SetStateTR(T, r.mass/r.vol)
		dUdT := r.phase.CvMass() * r.mass
		dU = r.phase.IntEnergyMass()*r.mass - U
		dT = dU / dUdT
		// back the damping off whenever the residual stops shrinking
		if math.Abs(dU) < math.Abs(dUprev) {
			damp = 1.0
		} else {
			damp *= 0.8
		}
		dT = math.Min(dT, 0.5*T) * damp
		T -= dT
	}
	return nil
}

func (r *Reactor) updateSurfaceState(y []float64) {
	loc := 0
	for i, w := range r.walls {
		if surf := w.Surface(r.side[i]); surf != nil {
			w.SetCoverages(r.side[i], y[loc:])
			loc += surf.NSpecies()
		}
	}
}

// EvalEqs writes the time derivative of the reactor's state segment into
// ydot. y must already have been pushed through UpdateState. params is the
// network's sensitivity perturbation vector; nil or empty means no
// perturbation. The perturbation is applied before any rate is read and
// reverted before returning, always.
func (r *Reactor) EvalEqs(t float64, y, ydot, params []float64) {
	dmdt := 0.0
	dYdt := ydot[offSpecies : offSpecies+r.nsp]

	r.phase.RestoreState(r.state)
	r.applySensitivity(params)
	r.evalWalls(t)
	mdotSurf := r.evalSurfaces(t, ydot[offSpecies+r.nsp:])
	dmdt += mdotSurf // mass added to the gas phase by surface reactions

	ydot[idxVolume] = r.vdot

	mw := r.phase.MolecularWeights()
	Y := r.phase.MassFractions()

	if r.chem {
		r.kin.GetNetProductionRates(r.wdot)
	}

	for k := 0; k < r.nsp; k++ {
		// production in the gas phase and from surfaces
		dYdt[k] = (r.wdot[k]*r.vol + r.sdot[k]) * mw[k] / r.mass
		// dilution by the net surface mass flux
		dYdt[k] -= Y[k] * mdotSurf / r.mass
	}

	// energy equation: dU/dt = -p dV/dt - Q + sum(mdot_in h_in) - mdot_out h
	if r.energy {
		ydot[idxEnergy] = -r.phase.Pressure()*r.vdot - r.q
	} else {
		ydot[idxEnergy] = 0.0
	}

	for _, out := range r.outlets {
		mdotOut := out.MassFlowRate(t)
		dmdt -= mdotOut
		if r.energy {
			ydot[idxEnergy] -= mdotOut * r.enthalpy
		}
	}

	for _, in := range r.inlets {
		mdotIn := in.MassFlowRate(t)
		dmdt += mdotIn
		for k := 0; k < r.nsp; k++ {
			mdotSpec := in.OutletSpeciesMassFlowRate(k)
			// inflow of species k and dilution by the other species
			dYdt[k] += (mdotSpec - mdotIn*Y[k]) / r.mass
		}
		if r.energy {
			ydot[idxEnergy] += mdotIn * in.EnthalpyMass()
		}
	}

	ydot[idxMass] = dmdt
	r.resetSensitivity(params)
}

// evalWalls sums the side-signed volume and heat exchange rates over all
// attached walls.
func (r *Reactor) evalWalls(t float64) {
	r.vdot = 0.0
	r.q = 0.0
	for i, w := range r.walls {
		sgn := r.side[i].sign()
		r.vdot += sgn * w.Vdot(t)
		r.q += sgn * w.Q(t)
	}
}

// evalSurfaces evaluates the surface mechanisms on every wall, writing the
// coverage derivatives into ydot (wall-registration order) and accumulating
// the bulk-species production into sdot. It returns the net mass flux from
// the surfaces into the gas, kg/s.
func (r *Reactor) evalSurfaces(t float64, ydot []float64) float64 {
	mw := r.phase.MolecularWeights()
	for k := range r.sdot {
		r.sdot[k] = 0.0
	}
	loc := 0
	mdotSurf := 0.0

	for i, w := range r.walls {
		wk := w.Kin(r.side[i])
		surf := w.Surface(r.side[i])
		if surf == nil || wk == nil {
			continue
		}
		rs0 := 1.0 / surf.SiteDensity()
		nk := surf.NSpecies()
		surf.SetTemperature(r.state.Temperature())
		w.SyncCoverages(r.side[i])
		wk.GetNetProductionRates(r.work)

		surfloc := wk.KineticsSpeciesIndex(0, wk.SurfacePhaseIndex())
		sum := 0.0
		for k := 1; k < nk; k++ {
			ydot[loc+k] = r.work[surfloc+k] * rs0 * surf.Size(k)
			sum -= ydot[loc+k]
		}
		// site conservation: coverages sum to one, so their rates sum to zero
		ydot[loc] = sum
		loc += nk

		area := w.Area()
		for k := 0; k < r.nsp; k++ {
			r.sdot[k] += r.work[k] * area
			mdotSurf += r.work[k] * area * mw[k]
		}
	}
	return mdotSurf
}

// AddSensitivityReaction registers reaction rxn of the bulk mechanism for
// sensitivity analysis with the owning network.
func (r *Reactor) AddSensitivityReaction(rxn int) error {
	if r.net == nil {
		return ErrNoNetwork
	}
	if rxn < 0 || rxn >= r.kin.NReactions() {
		return fmt.Errorf("%w: reaction %d", ErrIndexOutOfRange, rxn)
	}
	global := r.net.RegisterSensitivityParameter(
		r.name+": "+r.kin.ReactionString(rxn), 1.0, 1.0)
	r.sens = append(r.sens, sensParam{local: rxn, global: global, value: 1.0, kind: sensReaction})
	return nil
}

// AddSensitivitySpeciesEnthalpy registers species k's formation enthalpy
// for sensitivity analysis with the owning network.
func (r *Reactor) AddSensitivitySpeciesEnthalpy(k int) error {
	if r.net == nil {
		return ErrNoNetwork
	}
	if k < 0 || k >= r.phase.NSpecies() {
		return fmt.Errorf("%w: species %d", ErrIndexOutOfRange, k)
	}
	global := r.net.RegisterSensitivityParameter(
		r.name+": "+r.phase.SpeciesName(k)+" enthalpy",
		0.0, thermo.GasConstant*298.15)
	r.sens = append(r.sens, sensParam{
		local: k, global: global, value: r.phase.Hf298(k), kind: sensEnthalpy})
	return nil
}

// NSensParams counts the sensitivity parameters owned by this reactor and
// its walls' active sides.
func (r *Reactor) NSensParams() int {
	n := len(r.sens)
	for i, w := range r.walls {
		n += w.NSensParams(r.side[i])
	}
	return n
}

// applySensitivity perturbs the kinetics multipliers and species enthalpies
// according to params, then invalidates the adapters' caches. Reaction
// parameters scale the baseline multiplier by (1+p); enthalpy parameters
// offset the baseline formation enthalpy by p. A nil params is a no-op.
func (r *Reactor) applySensitivity(params []float64) {
	if params == nil {
		return
	}
	for i := range r.sens {
		p := &r.sens[i]
		switch p.kind {
		case sensReaction:
			p.value = r.kin.Multiplier(p.local)
			r.kin.SetMultiplier(p.local, p.value*(1.0+params[p.global]))
		case sensEnthalpy:
			r.phase.ModifyOneHf298(p.local, p.value+params[p.global])
		}
	}
	for _, w := range r.walls {
		w.SetSensitivityParameters(params)
	}
	r.phase.InvalidateCache()
	r.kin.InvalidateCache()
}

// resetSensitivity is the exact inverse of applySensitivity. The pair must
// bracket every evaluation carrying a non-nil params.
func (r *Reactor) resetSensitivity(params []float64) {
	if params == nil {
		return
	}
	for i := range r.sens {
		p := &r.sens[i]
		switch p.kind {
		case sensReaction:
			r.kin.SetMultiplier(p.local, p.value)
		case sensEnthalpy:
			r.phase.ResetHf298(p.local)
		}
	}
	for _, w := range r.walls {
		w.ResetSensitivityParameters()
	}
	r.phase.InvalidateCache()
	r.kin.InvalidateCache()
}

// SpeciesIndex resolves a bulk or wall surface species name into the
// species portion of the state layout, or -1.
func (r *Reactor) SpeciesIndex(name string) int {
	if k := r.phase.SpeciesIndex(name); k >= 0 {
		return k
	}
	offset := 0
	for i, w := range r.walls {
		wk := w.Kin(r.side[i])
		if wk == nil {
			continue
		}
		th := wk.Thermo(wk.ReactionPhaseIndex())
		if k := th.SpeciesIndex(name); k >= 0 {
			return k + r.nsp + offset
		}
		offset += th.NSpecies()
	}
	return -1
}

// ComponentIndex maps a component name ("mass", "volume", "int_energy", a
// bulk species, or a wall surface species) to its state-vector slot, or -1.
func (r *Reactor) ComponentIndex(name string) int {
	if k := r.SpeciesIndex(name); k >= 0 {
		return k + offSpecies
	}
	switch name {
	case "mass":
		return idxMass
	case "volume":
		return idxVolume
	case "int_energy":
		return idxEnergy
	}
	return -1
}

// ComponentName is the inverse of ComponentIndex.
func (r *Reactor) ComponentName(k int) (string, error) {
	switch k {
	case idxMass:
		return "mass", nil
	case idxVolume:
		return "volume", nil
	case idxEnergy:
		return "int_energy", nil
	}
	if k >= offSpecies && k < r.NEq() {
		k -= offSpecies
		if k < r.nsp {
			return r.phase.SpeciesName(k), nil
		}
		k -= r.nsp
		for i, w := range r.walls {
			wk := w.Kin(r.side[i])
			if wk == nil {
				continue
			}
			th := wk.Thermo(wk.ReactionPhaseIndex())
			if k < th.NSpecies() {
				return th.SpeciesName(k), nil
			}
			k -= th.NSpecies()
		}
	}
	return "", fmt.Errorf("reactor %q: component index %d out of bounds", r.name, k)
}
