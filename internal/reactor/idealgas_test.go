package reactor

import (
	"math"
	"testing"

	"github.com/san-kum/reactord/internal/kinetics"
	"github.com/san-kum/reactord/internal/thermo"
)

func newIdealGasReactor(t *testing.T, rxns []kinetics.Reaction) (*IdealGasReactor, *thermo.IdealGasPhase) {
	t.Helper()
	gas, err := thermo.NewIdealGasPhase([]string{"H2", "O2", "H2O"})
	if err != nil {
		t.Fatalf("phase: %v", err)
	}
	gas.SetStateTPY(1500.0, 101325.0, []float64{0.1, 0.8, 0.1})
	kin, err := kinetics.NewBulkKinetics(gas, rxns)
	if err != nil {
		t.Fatalf("kinetics: %v", err)
	}
	r := NewIdealGasReactor("ig")
	r.SetThermoMgr(gas)
	r.SetKineticsMgr(kin)
	r.SyncState()
	return r, gas
}

var h2GlobalStep = []kinetics.Reaction{
	{
		Equation:  "2 H2 + O2 => 2 H2O",
		Reactants: map[string]float64{"H2": 2, "O2": 1},
		Products:  map[string]float64{"H2O": 2},
		Rate:      kinetics.Arrhenius{A: 1.0e6, B: 0, Ea: 1.0e8},
	},
}

func TestIdealGasStateCarriesTemperature(t *testing.T) {
	r, gas := newIdealGasReactor(t, nil)
	if err := r.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	y := make([]float64, r.NEq())
	if err := r.GetState(y); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if y[2] != 1500.0 {
		t.Fatalf("y[2] = %g, want temperature 1500", y[2])
	}

	// state updates need no iteration: the slot is the temperature itself
	y[2] = 1750.0
	if err := r.UpdateState(y); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	if got := gas.Temperature(); got != 1750.0 {
		t.Errorf("temperature = %g, want 1750", got)
	}
	if got := gas.Density(); got != y[0]/y[1] {
		t.Errorf("density = %g, want %g", got, y[0]/y[1])
	}
}

func TestIdealGasClosedReactorIsSteady(t *testing.T) {
	r, _ := newIdealGasReactor(t, nil)
	if err := r.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	y := make([]float64, r.NEq())
	ydot := make([]float64, r.NEq())
	if err := r.GetState(y); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if err := r.UpdateState(y); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	r.EvalEqs(0, y, ydot, nil)

	for i, v := range ydot {
		if v != 0 {
			t.Errorf("ydot[%d] = %g, want 0", i, v)
		}
	}
}

func TestIdealGasExothermicHeating(t *testing.T) {
	r, gas := newIdealGasReactor(t, h2GlobalStep)
	if err := r.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	y := make([]float64, r.NEq())
	ydot := make([]float64, r.NEq())
	if err := r.GetState(y); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if err := r.UpdateState(y); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	r.EvalEqs(0, y, ydot, nil)

	if ydot[2] <= 0 {
		t.Errorf("dT/dt = %g, want positive for an exothermic reaction", ydot[2])
	}
	if ydot[0] != 0 || ydot[1] != 0 {
		t.Errorf("mass/volume rates = %g, %g, want 0", ydot[0], ydot[1])
	}
	if k := gas.SpeciesIndex("H2O"); ydot[3+k] <= 0 {
		t.Errorf("d(Y_H2O)/dt = %g, want positive", ydot[3+k])
	}
}

func TestIdealGasOutletCooling(t *testing.T) {
	r, _ := newIdealGasReactor(t, nil)
	mdot := 0.02
	r.AddOutlet(NewMassFlowController(r, mdot))
	if err := r.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	y := make([]float64, r.NEq())
	ydot := make([]float64, r.NEq())
	if err := r.GetState(y); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if err := r.UpdateState(y); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	r.EvalEqs(0, y, ydot, nil)

	if ydot[0] != -mdot {
		t.Errorf("ydot[0] = %g, want %g", ydot[0], -mdot)
	}
	// outflow at fixed volume does flow work on the surroundings
	wantT := -mdot * r.Pressure() * y[1] / y[0] / (y[0] * r.Thermo().CvMass())
	if math.Abs(ydot[2]-wantT) > 1e-12*math.Abs(wantT) {
		t.Errorf("dT/dt = %g, want %g", ydot[2], wantT)
	}
	for k := 0; k < 3; k++ {
		if ydot[3+k] != 0 {
			t.Errorf("ydot[%d] = %g, want 0", 3+k, ydot[3+k])
		}
	}
}

func TestIdealGasEnergyBalanceMatchesBaseReactor(t *testing.T) {
	// both formulations describe the same gas, so dU/dt from the base
	// reactor must equal m*cv*dT/dt from the ideal-gas one in a closed,
	// constant-volume, constant-mass reactor
	rBase, _, _ := newBurningReactor(t)
	rBase.SyncState()
	if err := rBase.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	rIG, gasIG := newIdealGasReactor(t, h2GlobalStep)
	if err := rIG.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	yB := make([]float64, rBase.NEq())
	dB := make([]float64, rBase.NEq())
	if err := rBase.GetState(yB); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if err := rBase.UpdateState(yB); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	rBase.EvalEqs(0, yB, dB, nil)

	yI := make([]float64, rIG.NEq())
	dI := make([]float64, rIG.NEq())
	if err := rIG.GetState(yI); err != nil {
		t.Fatalf("GetState: %v", err)
	}
	if err := rIG.UpdateState(yI); err != nil {
		t.Fatalf("UpdateState: %v", err)
	}
	rIG.EvalEqs(0, yI, dI, nil)

	// species equations are shared verbatim
	for k := 0; k < 3; k++ {
		if math.Abs(dB[3+k]-dI[3+k]) > 1e-12*math.Abs(dB[3+k]) {
			t.Errorf("species %d: base %g, ideal-gas %g", k, dB[3+k], dI[3+k])
		}
	}

	// dU/dt = m cv dT/dt + sum_k uk/W_k * m * dY_k/dt at constant m, V
	m := yI[0]
	uk := make([]float64, 3)
	gasIG.GetPartialMolarIntEnergies(uk)
	mw := gasIG.MolecularWeights()
	dUdt := m * gasIG.CvMass() * dI[2]
	scale := math.Abs(dUdt)
	for k := 0; k < 3; k++ {
		term := uk[k] / mw[k] * m * dI[3+k]
		dUdt += term
		scale += math.Abs(term)
	}
	if math.Abs(dB[2]-dUdt) > 1e-9*scale {
		t.Errorf("dU/dt: base %g, reconstructed from ideal-gas form %g", dB[2], dUdt)
	}
}

func TestIdealGasComponentNames(t *testing.T) {
	r, _ := newIdealGasReactor(t, nil)
	if err := r.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	if r.ComponentIndex("temperature") != 2 {
		t.Errorf(`ComponentIndex("temperature") = %d`, r.ComponentIndex("temperature"))
	}
	if r.ComponentIndex("int_energy") != -1 {
		t.Error("the ideal-gas variant should not expose int_energy")
	}
	for k := 0; k < r.NEq(); k++ {
		name, err := r.ComponentName(k)
		if err != nil {
			t.Fatalf("ComponentName(%d): %v", k, err)
		}
		if got := r.ComponentIndex(name); got != k {
			t.Errorf("ComponentIndex(%q) = %d, want %d", name, got, k)
		}
	}
}
