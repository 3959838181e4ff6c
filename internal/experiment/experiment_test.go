package experiment

import (
	"context"
	"math"
	"testing"

	"github.com/san-kum/reactord/internal/config"
)

func smallConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Mechanism = "h2o2-global"
	cfg.Dt = 1e-7
	cfg.Duration = 1e-5
	return cfg
}

func TestNewIntegrator(t *testing.T) {
	for _, name := range []string{"euler", "rk4", "rk45", ""} {
		if _, err := NewIntegrator(name); err != nil {
			t.Errorf("NewIntegrator(%q): %v", name, err)
		}
	}
	if _, err := NewIntegrator("leapfrog"); err == nil {
		t.Error("expected an error for an unknown integrator")
	}
}

func TestBuildRejectsBadConfigs(t *testing.T) {
	cases := []func(*config.Config){
		func(c *config.Config) { c.Mechanism = "missing" },
		func(c *config.Config) { c.Reactor.Type = "plug_flow" },
		func(c *config.Config) { c.Reactor.Composition = map[string]float64{"XE": 1.0} },
		func(c *config.Config) { c.Reactor.Composition = map[string]float64{} },
		func(c *config.Config) {
			c.Surface.Enabled = true
			c.Surface.Mechanism = "missing"
		},
	}
	for i, mutate := range cases {
		cfg := smallConfig()
		mutate(cfg)
		if _, err := Build(cfg); err == nil {
			t.Errorf("case %d: expected a build error", i)
		}
	}
}

func TestBuildWiresComponents(t *testing.T) {
	cfg := smallConfig()
	cfg.Inlet.Enabled = true
	cfg.Inlet.Rate = 1e-4
	cfg.Inlet.Temperature = 300.0
	cfg.Inlet.Composition = map[string]float64{"H2": 1.0}
	cfg.Outlet.Enabled = true
	cfg.Outlet.Rate = 1e-4
	cfg.Surface.Enabled = true
	cfg.Surface.Mechanism = "h2-pt"
	cfg.Surface.Area = 1e-3

	setup, err := Build(cfg)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if err := setup.Net.Initialize(0); err != nil {
		t.Fatalf("Initialize: %v", err)
	}

	// 3 scalars + 4 gas species + 2 surface species
	if got := setup.Net.NEq(); got != 9 {
		t.Errorf("NEq = %d, want 9", got)
	}
	if setup.Surf == nil {
		t.Fatal("surface phase not attached")
	}
	if setup.ComponentIndex("temperature") != 2 {
		t.Errorf("temperature slot = %d", setup.ComponentIndex("temperature"))
	}
	if setup.ComponentIndex("H(S)") != 3+4+1 {
		t.Errorf("H(S) slot = %d", setup.ComponentIndex("H(S)"))
	}
	name, err := setup.ComponentName(3)
	if err != nil {
		t.Fatalf("ComponentName: %v", err)
	}
	if name != "H2" {
		t.Errorf("ComponentName(3) = %q", name)
	}
}

func TestRunClosedReactor(t *testing.T) {
	cfg := smallConfig()
	res, setup, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("step errors: %v", res.Errors)
	}
	if res.StepsTaken != 100 {
		t.Errorf("StepsTaken = %d, want 100", res.StepsTaken)
	}

	// mass is conserved to rounding in a closed reactor
	if drift := res.Metrics["mass_drift"]; drift > 1e-12 {
		t.Errorf("mass drift = %g", drift)
	}

	// the ideal-gas reactor reports peak temperature
	peak, ok := res.Metrics["peak_temperature"]
	if !ok {
		t.Fatal("peak_temperature metric missing")
	}
	if peak < cfg.Reactor.Temperature {
		t.Errorf("peak = %g below the initial %g", peak, cfg.Reactor.Temperature)
	}

	final := res.States[len(res.States)-1]
	kT := setup.ComponentIndex("temperature")
	if final[kT] < cfg.Reactor.Temperature {
		t.Errorf("temperature fell to %g in an adiabatic burn", final[kT])
	}
}

func TestRunWithSurfaceKeepsCoverageSum(t *testing.T) {
	cfg := smallConfig()
	cfg.Surface.Enabled = true
	cfg.Surface.Mechanism = "h2-pt"
	cfg.Surface.Area = 1e-3

	res, _, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("step errors: %v", res.Errors)
	}
	if worst, ok := res.Metrics["coverage_sum_error"]; !ok || worst > 1e-10 {
		t.Errorf("coverage sum error = %g (present %v)", worst, ok)
	}
}

func TestRunEnergyConservation(t *testing.T) {
	// base variant, adiabatic and closed: total internal energy must not drift
	cfg := smallConfig()
	cfg.Reactor.Type = "reactor"

	res, setup, err := Run(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if len(res.Errors) != 0 {
		t.Fatalf("step errors: %v", res.Errors)
	}

	kU := setup.ComponentIndex("int_energy")
	if kU != 2 {
		t.Fatalf("int_energy slot = %d", kU)
	}
	first := res.States[0][kU]
	last := res.States[len(res.States)-1][kU]
	if math.Abs(last-first) > 1e-9*math.Abs(first) {
		t.Errorf("internal energy drifted from %g to %g", first, last)
	}
}
