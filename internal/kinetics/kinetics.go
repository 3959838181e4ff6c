package kinetics

// SpeciesPhase is the minimal view of a phase a kinetics mechanism exposes
// to callers that only need species naming.
type SpeciesPhase interface {
	NSpecies() int
	SpeciesName(k int) string
	SpeciesIndex(name string) int
}

// Kinetics is the rate-evaluator contract the reactor core depends on.
// Species are indexed mechanism-wide: phase 0 first, then phase 1, and so
// on, matching the flat buffers handed to GetNetProductionRates.
type Kinetics interface {
	NReactions() int
	NTotalSpecies() int

	// GetNetProductionRates fills wdot with the net molar production rate
	// of every mechanism species at the attached phases' current state.
	// Units are kmol/m^3/s for bulk mechanisms and kmol/m^2/s for surface
	// mechanisms.
	GetNetProductionRates(wdot []float64)

	Multiplier(i int) float64
	SetMultiplier(i int, v float64)
	InvalidateCache()

	ReactionString(i int) string

	// KineticsSpeciesIndex maps species k of the given phase into the
	// mechanism-wide index space.
	KineticsSpeciesIndex(k, phase int) int

	// SurfacePhaseIndex returns the index of the surface phase, or -1 for
	// homogeneous mechanisms.
	SurfacePhaseIndex() int

	// ReactionPhaseIndex returns the phase the reactions belong to: the
	// bulk for homogeneous mechanisms, the surface for interfacial ones.
	ReactionPhaseIndex() int

	Thermo(phase int) SpeciesPhase
}

// Arrhenius holds modified-Arrhenius rate parameters,
// k(T) = A * T^B * exp(-Ea/(R T)), with Ea in J/kmol.
type Arrhenius struct {
	A  float64
	B  float64
	Ea float64
}

// Reaction is one elementary step given by species name. Irreversible;
// reversible steps are entered as a forward/backward pair.
type Reaction struct {
	Equation  string
	Reactants map[string]float64
	Products  map[string]float64
	Rate      Arrhenius
}
