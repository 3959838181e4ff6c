package kinetics

import (
	"math"
	"testing"

	"github.com/san-kum/reactord/internal/thermo"
)

func newTestMech(t *testing.T) (*thermo.IdealGasPhase, *BulkKinetics) {
	t.Helper()
	gas, err := thermo.NewIdealGasPhase([]string{"H2", "O2", "H2O"})
	if err != nil {
		t.Fatalf("phase: %v", err)
	}
	kin, err := NewBulkKinetics(gas, []Reaction{
		{
			Equation:  "2 H2 + O2 => 2 H2O",
			Reactants: map[string]float64{"H2": 2, "O2": 1},
			Products:  map[string]float64{"H2O": 2},
			Rate:      Arrhenius{A: 1.0e6, B: 0, Ea: 1.0e8},
		},
	})
	if err != nil {
		t.Fatalf("kinetics: %v", err)
	}
	return gas, kin
}

func TestCompileRejectsUnknownSpecies(t *testing.T) {
	gas, err := thermo.NewIdealGasPhase([]string{"H2", "O2"})
	if err != nil {
		t.Fatalf("phase: %v", err)
	}
	_, err = NewBulkKinetics(gas, []Reaction{
		{
			Equation:  "H2 + O2 => H2O2",
			Reactants: map[string]float64{"H2": 1, "O2": 1},
			Products:  map[string]float64{"H2O2": 1},
		},
	})
	if err == nil {
		t.Fatal("expected error for species missing from phase")
	}
}

func TestNetProductionRateSigns(t *testing.T) {
	gas, kin := newTestMech(t)
	gas.SetMassFractionsNoNorm([]float64{0.1, 0.8, 0.1})
	gas.SetStateTR(1500.0, 0.5)

	wdot := make([]float64, kin.NTotalSpecies())
	kin.GetNetProductionRates(wdot)

	if wdot[gas.SpeciesIndex("H2")] >= 0 {
		t.Error("H2 should be consumed")
	}
	if wdot[gas.SpeciesIndex("O2")] >= 0 {
		t.Error("O2 should be consumed")
	}
	if wdot[gas.SpeciesIndex("H2O")] <= 0 {
		t.Error("H2O should be produced")
	}
}

func TestStoichiometry(t *testing.T) {
	gas, kin := newTestMech(t)
	gas.SetMassFractionsNoNorm([]float64{0.1, 0.8, 0.1})
	gas.SetStateTR(1500.0, 0.5)

	wdot := make([]float64, kin.NTotalSpecies())
	kin.GetNetProductionRates(wdot)

	h2 := wdot[gas.SpeciesIndex("H2")]
	o2 := wdot[gas.SpeciesIndex("O2")]
	h2o := wdot[gas.SpeciesIndex("H2O")]

	if math.Abs(h2-2*o2) > 1e-12*math.Abs(h2) {
		t.Errorf("wdot[H2] = %g, want 2*wdot[O2] = %g", h2, 2*o2)
	}
	if math.Abs(h2o+h2) > 1e-12*math.Abs(h2) {
		t.Errorf("wdot[H2O] = %g, want %g", h2o, -h2)
	}

	// elemental mass balance: sum_k wdot_k * W_k = 0
	var total float64
	for k, w := range gas.MolecularWeights() {
		total += wdot[k] * w
	}
	scale := math.Abs(h2) * gas.MolecularWeights()[0]
	if math.Abs(total) > 1e-10*scale {
		t.Errorf("mass production imbalance %g", total)
	}
}

func TestMultiplierScalesRate(t *testing.T) {
	gas, kin := newTestMech(t)
	gas.SetMassFractionsNoNorm([]float64{0.1, 0.8, 0.1})
	gas.SetStateTR(1500.0, 0.5)

	wdot := make([]float64, kin.NTotalSpecies())
	kin.GetNetProductionRates(wdot)
	base := wdot[gas.SpeciesIndex("H2O")]

	kin.SetMultiplier(0, 2.5)
	kin.GetNetProductionRates(wdot)
	scaled := wdot[gas.SpeciesIndex("H2O")]

	if math.Abs(scaled-2.5*base) > 1e-12*math.Abs(scaled) {
		t.Errorf("scaled rate = %g, want %g", scaled, 2.5*base)
	}
	if kin.Multiplier(0) != 2.5 {
		t.Errorf("Multiplier(0) = %g", kin.Multiplier(0))
	}
}

func TestRateConstantCacheRefresh(t *testing.T) {
	gas, kin := newTestMech(t)
	gas.SetMassFractionsNoNorm([]float64{0.1, 0.8, 0.1})
	gas.SetStateTR(1000.0, 0.5)

	wdot := make([]float64, kin.NTotalSpecies())
	kin.GetNetProductionRates(wdot)
	cold := math.Abs(wdot[gas.SpeciesIndex("H2O")])

	gas.SetTemperature(2000.0)
	kin.GetNetProductionRates(wdot)
	hot := math.Abs(wdot[gas.SpeciesIndex("H2O")])

	if hot <= cold {
		t.Errorf("rate did not increase with temperature: %g -> %g", cold, hot)
	}
}

func TestBulkIndexing(t *testing.T) {
	gas, kin := newTestMech(t)

	if kin.SurfacePhaseIndex() != -1 {
		t.Error("bulk mechanism should report no surface phase")
	}
	if kin.ReactionPhaseIndex() != 0 {
		t.Error("bulk reactions belong to phase 0")
	}
	for k := 0; k < gas.NSpecies(); k++ {
		if kin.KineticsSpeciesIndex(k, 0) != k {
			t.Errorf("KineticsSpeciesIndex(%d, 0) = %d", k, kin.KineticsSpeciesIndex(k, 0))
		}
	}
	if kin.ReactionString(0) != "2 H2 + O2 => 2 H2O" {
		t.Errorf("ReactionString = %q", kin.ReactionString(0))
	}
}
