package config

import "fmt"

// ReactionSpec describes one elementary step by species name. Orders equal
// stoichiometric coefficients; reversible steps are written as two specs.
type ReactionSpec struct {
	Equation  string             `yaml:"equation"`
	Reactants map[string]float64 `yaml:"reactants"`
	Products  map[string]float64 `yaml:"products"`
	A         float64            `yaml:"A"`
	B         float64            `yaml:"b"`
	Ea        float64            `yaml:"Ea"` // J/kmol
}

// MechanismSpec is a homogeneous gas mechanism: the species carried and the
// reaction set over them.
type MechanismSpec struct {
	Species   []string       `yaml:"species"`
	Reactions []ReactionSpec `yaml:"reactions"`
}

// SurfSpeciesSpec is one adsorbed species of a surface mechanism.
type SurfSpeciesSpec struct {
	Name string  `yaml:"name"`
	W    float64 `yaml:"molar_mass"`
	Size float64 `yaml:"size"`
}

// SurfaceMechanismSpec is an interfacial mechanism over the gas phase plus
// one surface phase. The first surface species is the empty site.
type SurfaceMechanismSpec struct {
	Phase       string            `yaml:"phase"`
	SiteDensity float64           `yaml:"site_density"` // kmol/m^2
	Species     []SurfSpeciesSpec `yaml:"species"`
	Reactions   []ReactionSpec    `yaml:"reactions"`
}

// Mechanism returns the named built-in gas mechanism.
func Mechanism(name string) (MechanismSpec, error) {
	m, ok := gasMechanisms[name]
	if !ok {
		return MechanismSpec{}, fmt.Errorf("config: unknown mechanism %q", name)
	}
	return m, nil
}

// SurfaceMechanism returns the named built-in surface mechanism.
func SurfaceMechanism(name string) (SurfaceMechanismSpec, error) {
	m, ok := surfaceMechanisms[name]
	if !ok {
		return SurfaceMechanismSpec{}, fmt.Errorf("config: unknown surface mechanism %q", name)
	}
	return m, nil
}

// MechanismNames lists the built-in gas mechanisms.
func MechanismNames() []string {
	return []string{"h2o2", "h2o2-global", "inert"}
}

// SurfaceMechanismNames lists the built-in surface mechanisms.
func SurfaceMechanismNames() []string {
	return []string{"h2-pt"}
}

// Toy hydrogen oxidation mechanisms. Rate parameters are plausible for the
// 1000-1500 K range but tuned for well-behaved integration in tests and
// demos, not for matching flame data.
var gasMechanisms = map[string]MechanismSpec{
	"h2o2": {
		Species: []string{"H2", "O2", "H2O", "OH", "H", "O", "N2"},
		Reactions: []ReactionSpec{
			{
				Equation:  "H2 + O2 => OH + OH",
				Reactants: map[string]float64{"H2": 1, "O2": 1},
				Products:  map[string]float64{"OH": 2},
				A:         1.7e10, B: 0, Ea: 2.0e8,
			},
			{
				Equation:  "OH + H2 => H2O + H",
				Reactants: map[string]float64{"OH": 1, "H2": 1},
				Products:  map[string]float64{"H2O": 1, "H": 1},
				A:         1.2e8, B: 1.3, Ea: 1.5e7,
			},
			{
				Equation:  "H + O2 => OH + O",
				Reactants: map[string]float64{"H": 1, "O2": 1},
				Products:  map[string]float64{"OH": 1, "O": 1},
				A:         2.2e11, B: 0, Ea: 7.0e7,
			},
			{
				Equation:  "O + H2 => OH + H",
				Reactants: map[string]float64{"O": 1, "H2": 1},
				Products:  map[string]float64{"OH": 1, "H": 1},
				A:         5.1e4, B: 2.67, Ea: 2.6e7,
			},
			{
				Equation:  "H + OH => H2O",
				Reactants: map[string]float64{"H": 1, "OH": 1},
				Products:  map[string]float64{"H2O": 1},
				A:         2.2e13, B: -2.0, Ea: 0,
			},
		},
	},
	"h2o2-global": {
		Species: []string{"H2", "O2", "H2O", "N2"},
		Reactions: []ReactionSpec{
			{
				Equation:  "2 H2 + O2 => 2 H2O",
				Reactants: map[string]float64{"H2": 2, "O2": 1},
				Products:  map[string]float64{"H2O": 2},
				A:         1.8e10, B: 0, Ea: 1.46e8,
			},
		},
	},
	"inert": {
		Species:   []string{"N2", "AR"},
		Reactions: nil,
	},
}

var surfaceMechanisms = map[string]SurfaceMechanismSpec{
	// dissociative H2 adsorption and recombinative desorption on platinum
	"h2-pt": {
		Phase:       "Pt_surf",
		SiteDensity: 2.7e-8,
		Species: []SurfSpeciesSpec{
			{Name: "PT(S)", W: 195.08, Size: 1},
			{Name: "H(S)", W: 1.008, Size: 1},
		},
		Reactions: []ReactionSpec{
			{
				Equation:  "H2 + 2 PT(S) => 2 H(S)",
				Reactants: map[string]float64{"H2": 1, "PT(S)": 2},
				Products:  map[string]float64{"H(S)": 2},
				A:         4.5e12, B: 0.5, Ea: 0,
			},
			{
				Equation:  "2 H(S) => H2 + 2 PT(S)",
				Reactants: map[string]float64{"H(S)": 2},
				Products:  map[string]float64{"H2": 1, "PT(S)": 2},
				A:         3.7e14, B: 0, Ea: 6.74e7,
			},
		},
	},
}
