package thermo

import "fmt"

// SurfSpecies is one adsorbed species on a surface phase.
type SurfSpecies struct {
	Name string
	W    float64 // molar mass, kg/kmol
	Size float64 // number of surface sites the species occupies
}

// SurfPhase is a two-dimensional phase of adsorbed species. Its state is a
// temperature plus a coverage (site-fraction) vector that sums to one.
type SurfPhase struct {
	name        string
	species     []SurfSpecies
	index       map[string]int
	siteDensity float64 // kmol sites / m^2
	T           float64
	theta       []float64
}

// NewSurfPhase builds a surface phase. The first species is conventionally
// the empty site; its coverage starts at one.
func NewSurfPhase(name string, siteDensity float64, species []SurfSpecies) (*SurfPhase, error) {
	if siteDensity <= 0 {
		return nil, fmt.Errorf("thermo: surface %q needs a positive site density", name)
	}
	if len(species) == 0 {
		return nil, fmt.Errorf("thermo: surface %q has no species", name)
	}
	p := &SurfPhase{
		name:        name,
		species:     species,
		index:       make(map[string]int, len(species)),
		siteDensity: siteDensity,
		T:           300.0,
		theta:       make([]float64, len(species)),
	}
	for i, sp := range species {
		p.index[sp.Name] = i
		if sp.Size <= 0 {
			return nil, fmt.Errorf("thermo: surface species %q needs a positive site size", sp.Name)
		}
	}
	p.theta[0] = 1.0
	return p, nil
}

func (p *SurfPhase) Name() string         { return p.name }
func (p *SurfPhase) NSpecies() int        { return len(p.species) }
func (p *SurfPhase) SiteDensity() float64 { return p.siteDensity }
func (p *SurfPhase) Size(k int) float64   { return p.species[k].Size }

func (p *SurfPhase) SpeciesName(k int) string { return p.species[k].Name }

func (p *SurfPhase) SpeciesIndex(name string) int {
	if k, ok := p.index[name]; ok {
		return k
	}
	return -1
}

func (p *SurfPhase) SetTemperature(T float64) { p.T = T }
func (p *SurfPhase) Temperature() float64     { return p.T }

func (p *SurfPhase) SetCoverages(theta []float64) { copy(p.theta, theta) }
func (p *SurfPhase) GetCoverages(theta []float64) { copy(theta, p.theta) }
func (p *SurfPhase) Coverages() []float64         { return p.theta }

// SiteConcentration returns the molar concentration of species k on the
// surface, kmol/m^2.
func (p *SurfPhase) SiteConcentration(k int) float64 {
	return p.siteDensity * p.theta[k] / p.species[k].Size
}
