package metrics

import (
	"math"

	"github.com/san-kum/reactord/internal/solver"
)

// Drift tracks the maximum relative drift of one state component against
// its value at the first observation. With component 0 (total mass) on a
// closed reactor it measures mass-conservation error; with component 2 on
// an adiabatic constant-volume reactor, energy-conservation error.
type Drift struct {
	name      string
	component int
	initial   float64
	maxDrift  float64
	samples   int
}

func NewDrift(name string, component int) *Drift {
	return &Drift{name: name, component: component}
}

func (d *Drift) Name() string { return d.name }

func (d *Drift) Observe(x solver.State, t float64) {
	if d.component >= len(x) {
		return
	}
	v := x[d.component]
	if d.samples == 0 {
		d.initial = v
	}
	d.samples++
	if d.initial != 0 {
		drift := math.Abs(v-d.initial) / math.Abs(d.initial)
		d.maxDrift = math.Max(d.maxDrift, drift)
	}
}

func (d *Drift) Value() float64 {
	return d.maxDrift
}

func (d *Drift) Reset() {
	d.initial = 0
	d.maxDrift = 0
	d.samples = 0
}
