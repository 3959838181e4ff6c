package metrics

import (
	"math"

	"github.com/san-kum/reactord/internal/solver"
)

// Peak records the maximum value one state component reaches over a run.
// Pointed at the temperature slot it reports the peak temperature.
type Peak struct {
	name      string
	component int
	peak      float64
	samples   int
}

func NewPeak(name string, component int) *Peak {
	return &Peak{name: name, component: component}
}

func (p *Peak) Name() string { return p.name }

func (p *Peak) Observe(x solver.State, t float64) {
	if p.component >= len(x) {
		return
	}
	if p.samples == 0 {
		p.peak = x[p.component]
	} else {
		p.peak = math.Max(p.peak, x[p.component])
	}
	p.samples++
}

func (p *Peak) Value() float64 { return p.peak }

func (p *Peak) Reset() {
	p.peak = 0
	p.samples = 0
}
