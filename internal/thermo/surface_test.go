package thermo

import (
	"math"
	"testing"
)

func newTestSurf(t *testing.T) *SurfPhase {
	t.Helper()
	p, err := NewSurfPhase("pt", 2.7e-8, []SurfSpecies{
		{Name: "PT(S)", W: 195.08, Size: 1},
		{Name: "H(S)", W: 1.008, Size: 2},
	})
	if err != nil {
		t.Fatalf("NewSurfPhase: %v", err)
	}
	return p
}

func TestSurfPhaseValidation(t *testing.T) {
	if _, err := NewSurfPhase("bad", 0, []SurfSpecies{{Name: "X", W: 1, Size: 1}}); err == nil {
		t.Error("zero site density should be rejected")
	}
	if _, err := NewSurfPhase("bad", 1e-8, nil); err == nil {
		t.Error("empty species list should be rejected")
	}
	if _, err := NewSurfPhase("bad", 1e-8, []SurfSpecies{{Name: "X", W: 1, Size: 0}}); err == nil {
		t.Error("zero site size should be rejected")
	}
}

func TestSurfPhaseDefaults(t *testing.T) {
	p := newTestSurf(t)
	if p.Name() != "pt" || p.NSpecies() != 2 {
		t.Fatalf("phase = %q with %d species", p.Name(), p.NSpecies())
	}
	// the empty site starts fully covered
	theta := make([]float64, 2)
	p.GetCoverages(theta)
	if theta[0] != 1.0 || theta[1] != 0.0 {
		t.Errorf("initial coverages = %v", theta)
	}
	if p.SpeciesIndex("H(S)") != 1 || p.SpeciesIndex("O(S)") != -1 {
		t.Error("species lookup wrong")
	}
}

func TestSiteConcentration(t *testing.T) {
	p := newTestSurf(t)
	p.SetCoverages([]float64{0.4, 0.6})

	// species of size s hold theta*density/s moles per area
	want := 2.7e-8 * 0.6 / 2.0
	if got := p.SiteConcentration(1); math.Abs(got-want) > 1e-20 {
		t.Errorf("site concentration = %g, want %g", got, want)
	}
}
