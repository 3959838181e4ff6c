package optim

import (
	"context"
	"sync"

	"github.com/san-kum/reactord/internal/analysis"
	"github.com/san-kum/reactord/internal/config"
	"github.com/san-kum/reactord/internal/experiment"
)

// SweepPoint is one run of a temperature sweep.
type SweepPoint struct {
	Temperature   float64
	IgnitionDelay float64
	PeakValue     float64
	Err           error
}

// TemperatureSweep runs the configured case once per initial temperature,
// in parallel, and reports the ignition delay and peak temperature of each.
// Each run gets its own network build, so runs share nothing.
type TemperatureSweep struct {
	base    *config.Config
	workers int
}

func NewTemperatureSweep(base *config.Config, workers int) *TemperatureSweep {
	if workers < 1 {
		workers = 1
	}
	return &TemperatureSweep{base: base, workers: workers}
}

func (s *TemperatureSweep) Run(ctx context.Context, temperatures []float64) []SweepPoint {
	points := make([]SweepPoint, len(temperatures))

	var wg sync.WaitGroup
	sem := make(chan struct{}, s.workers)
	for i, T := range temperatures {
		wg.Add(1)
		go func(idx int, T float64) {
			defer wg.Done()
			sem <- struct{}{}
			defer func() { <-sem }()

			points[idx] = s.runOne(ctx, T)
		}(i, T)
	}
	wg.Wait()

	return points
}

func (s *TemperatureSweep) runOne(ctx context.Context, T float64) SweepPoint {
	cfg := *s.base
	cfg.Reactor.Temperature = T

	point := SweepPoint{Temperature: T}

	result, setup, err := experiment.Run(ctx, &cfg)
	if err != nil {
		point.Err = err
		return point
	}

	tIdx := setup.ComponentIndex("temperature")
	if tIdx < 0 {
		// energy-form reactor: report on internal energy instead
		tIdx = setup.ComponentIndex("int_energy")
	}
	if tau, err := analysis.IgnitionDelay(result.Times, result.States, tIdx); err == nil {
		point.IgnitionDelay = tau
	}
	point.PeakValue = result.Metrics["peak_temperature"]
	return point
}
