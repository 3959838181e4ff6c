package thermo

// GasConstant is the universal gas constant in J/(kmol K).
const GasConstant = 8314.4621

// Tref is the reference temperature for formation enthalpies, K.
const Tref = 298.15

// Species holds the thermodynamic data for one gas-phase species.
// Molar heat capacity is a quadratic in temperature,
// cp(T) = Cp0 + Cp1*T + Cp2*T^2, in J/(kmol K).
type Species struct {
	Name  string
	W     float64 // molar mass, kg/kmol
	Hf298 float64 // standard formation enthalpy at 298.15 K, J/kmol
	Cp0   float64
	Cp1   float64
	Cp2   float64
}

// cp returns the molar heat capacity at constant pressure, J/(kmol K).
func (s *Species) cp(T float64) float64 {
	return s.Cp0 + s.Cp1*T + s.Cp2*T*T
}

// enthalpy returns the molar enthalpy at T relative to the elements
// in their standard states, J/kmol. hf is the (possibly perturbed)
// formation enthalpy to use.
func (s *Species) enthalpy(T, hf float64) float64 {
	dT := T - Tref
	dT2 := T*T - Tref*Tref
	dT3 := T*T*T - Tref*Tref*Tref
	return hf + s.Cp0*dT + 0.5*s.Cp1*dT2 + s.Cp2*dT3/3.0
}

// SpeciesDB returns the built-in species table. Values are representative
// of the H2/O2/N2 system at combustion temperatures; they are meant for
// presets and tests, not for quantitative predictions.
func SpeciesDB() map[string]Species {
	return map[string]Species{
		"H2":  {Name: "H2", W: 2.016, Hf298: 0, Cp0: 27.6e3, Cp1: 3.4, Cp2: 0},
		"O2":  {Name: "O2", W: 31.998, Hf298: 0, Cp0: 28.1e3, Cp1: 6.3, Cp2: -7.5e-4},
		"H2O": {Name: "H2O", W: 18.015, Hf298: -241.826e6, Cp0: 30.2e3, Cp1: 9.9, Cp2: 1.1e-3},
		"OH":  {Name: "OH", W: 17.007, Hf298: 38.99e6, Cp0: 28.9e3, Cp1: 2.1, Cp2: 0},
		"H":   {Name: "H", W: 1.008, Hf298: 217.999e6, Cp0: 20.786e3, Cp1: 0, Cp2: 0},
		"O":   {Name: "O", W: 15.999, Hf298: 249.17e6, Cp0: 21.9e3, Cp1: -0.5, Cp2: 0},
		"N2":  {Name: "N2", W: 28.014, Hf298: 0, Cp0: 27.3e3, Cp1: 5.2, Cp2: -4.0e-7},
		"AR":  {Name: "AR", W: 39.948, Hf298: 0, Cp0: 20.786e3, Cp1: 0, Cp2: 0},
	}
}
