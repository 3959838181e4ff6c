package thermo

// Snapshot is a compact copy of a phase's minimal state:
// [0] temperature, [1] density, [2:] mass fractions.
type Snapshot []float64

func (s Snapshot) Temperature() float64 { return s[0] }
func (s Snapshot) Density() float64     { return s[1] }

// Phase is the property-evaluator contract the reactor core depends on.
// A phase carries a minimal state (temperature, density, composition) and
// derives every other quantity from it on demand.
type Phase interface {
	NSpecies() int
	SpeciesIndex(name string) int // -1 when the name is unknown
	SpeciesName(k int) string
	MolecularWeights() []float64
	MassFractions() []float64

	// SetMassFractionsNoNorm stores y verbatim, without renormalizing.
	// The time-integrator hands over unnormalized compositions mid-step.
	SetMassFractionsNoNorm(y []float64)
	SetStateTR(T, rho float64)
	SetDensity(rho float64)
	SetTemperature(T float64)

	Temperature() float64
	Density() float64
	Pressure() float64
	IntEnergyMass() float64
	EnthalpyMass() float64
	CvMass() float64
	CpMass() float64
	GetPartialMolarIntEnergies(uk []float64)

	SaveState() Snapshot
	RestoreState(s Snapshot)

	// ModifyOneHf298 replaces species k's formation enthalpy; ResetHf298
	// restores the tabulated value. Used by enthalpy sensitivity analysis.
	ModifyOneHf298(k int, hf float64)
	ResetHf298(k int)
	Hf298(k int) float64

	InvalidateCache()
}
