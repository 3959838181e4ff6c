package experiment

import (
	"context"
	"fmt"

	"github.com/san-kum/reactord/internal/config"
	"github.com/san-kum/reactord/internal/metrics"
	"github.com/san-kum/reactord/internal/solver"
)

// Run builds the network described by cfg, integrates it over the
// configured duration, and returns the time series with standard metrics
// attached.
func Run(ctx context.Context, cfg *config.Config) (*solver.Result, *Setup, error) {
	setup, err := Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	if err := setup.Net.Initialize(0); err != nil {
		return nil, nil, err
	}

	integ, err := NewIntegrator(cfg.Integrator)
	if err != nil {
		return nil, nil, err
	}

	sim := solver.New(setup.Net, integ)
	sim.AddMetric(metrics.NewDrift("mass_drift", setup.ComponentIndex("mass")))
	if idx := setup.ComponentIndex("temperature"); idx >= 0 {
		sim.AddMetric(metrics.NewPeak("peak_temperature", idx))
	}
	if setup.Surf != nil {
		offset := 3 + setup.Gas.NSpecies()
		sim.AddMetric(metrics.NewCoverageSum("coverage_sum_error", offset, setup.Surf.NSpecies()))
	}

	y0, err := setup.Net.State()
	if err != nil {
		return nil, nil, err
	}

	runCfg := solver.DefaultConfig()
	runCfg.Dt = cfg.Dt
	runCfg.Duration = cfg.Duration

	result, err := sim.Run(ctx, y0, runCfg)
	if err != nil {
		return nil, nil, fmt.Errorf("experiment: %w", err)
	}
	return result, setup, nil
}
