package reactor

import (
	"fmt"

	"github.com/san-kum/reactord/internal/kinetics"
	"github.com/san-kum/reactord/internal/thermo"
)

// Surroundings is what a wall needs from each of its two neighbors. Both
// reactors and reservoirs qualify.
type Surroundings interface {
	Pressure() float64
	Temperature() float64
}

type wallHost interface {
	addWall(w *Wall, s Side)
}

type wallSens struct {
	side   Side
	local  int
	global int
	value  float64
}

// Wall separates two neighbors. It can move (changing both volumes at
// opposite signs), conduct heat, and carry a surface-reaction mechanism on
// either face. Volume and heat flow are positive left to right.
type Wall struct {
	name  string
	left  Surroundings
	right Surroundings

	area float64
	kv   float64 // expansion rate coefficient, m^3/(s Pa m^2)
	ht   float64 // overall heat transfer coefficient, W/(m^2 K)

	vfunc func(t float64) float64 // specified wall velocity, m/s
	qfunc func(t float64) float64 // specified heat flux, W/m^2

	surf [2]*thermo.SurfPhase
	kin  [2]*kinetics.SurfaceKinetics
	cov  [2][]float64

	sens []wallSens
}

func NewWall(name string) *Wall {
	return &Wall{name: name, area: 1.0}
}

func (w *Wall) Name() string      { return w.name }
func (w *Wall) Area() float64     { return w.area }
func (w *Wall) SetArea(a float64) { w.area = a }

func (w *Wall) SetExpansionRateCoeff(k float64) { w.kv = k }
func (w *Wall) SetHeatTransferCoeff(u float64)  { w.ht = u }

// SetVelocity prescribes an explicit wall velocity added to the
// pressure-driven expansion.
func (w *Wall) SetVelocity(f func(t float64) float64) { w.vfunc = f }

// SetHeatFlux prescribes an explicit heat flux added to the
// temperature-driven transfer.
func (w *Wall) SetHeatFlux(f func(t float64) float64) { w.qfunc = f }

// Install connects the wall between its left and right neighbors and
// registers it with any neighbor that integrates state.
func (w *Wall) Install(left, right Surroundings) {
	w.left = left
	w.right = right
	if h, ok := left.(wallHost); ok {
		h.addWall(w, Left)
	}
	if h, ok := right.(wallHost); ok {
		h.addWall(w, Right)
	}
}

// Vdot returns the rate of volume change of the left neighbor, m^3/s.
func (w *Wall) Vdot(t float64) float64 {
	rate := w.kv * w.area * (w.left.Pressure() - w.right.Pressure())
	if w.vfunc != nil {
		rate += w.vfunc(t) * w.area
	}
	return rate
}

// Q returns the heat flow rate out of the left neighbor, W.
func (w *Wall) Q(t float64) float64 {
	q := w.ht * w.area * (w.left.Temperature() - w.right.Temperature())
	if w.qfunc != nil {
		q += w.qfunc(t) * w.area
	}
	return q
}

// SetKinetics attaches a surface mechanism to one face of the wall.
func (w *Wall) SetKinetics(s Side, sk *kinetics.SurfaceKinetics) {
	w.kin[s] = sk
	w.surf[s] = sk.Surface()
}

func (w *Wall) Surface(s Side) *thermo.SurfPhase     { return w.surf[s] }
func (w *Wall) Kin(s Side) *kinetics.SurfaceKinetics { return w.kin[s] }

// Initialize sizes the per-side coverage storage and seeds it from the
// attached surface phases.
func (w *Wall) Initialize() {
	for s := Left; s <= Right; s++ {
		if w.surf[s] != nil && w.cov[s] == nil {
			w.cov[s] = make([]float64, w.surf[s].NSpecies())
			w.surf[s].GetCoverages(w.cov[s])
		}
	}
}

// GetCoverages copies the stored coverages of the given face into buf.
func (w *Wall) GetCoverages(s Side, buf []float64) {
	copy(buf, w.cov[s])
}

// SetCoverages stores buf as the given face's coverages and pushes them
// into the surface phase.
func (w *Wall) SetCoverages(s Side, buf []float64) {
	copy(w.cov[s], buf[:len(w.cov[s])])
	w.surf[s].SetCoverages(w.cov[s])
}

// SyncCoverages pushes the stored coverages into the surface phase without
// changing them.
func (w *Wall) SyncCoverages(s Side) {
	w.surf[s].SetCoverages(w.cov[s])
}

// AddSensitivityReaction registers reaction rxn of the surface mechanism on
// the given face with the network.
func (w *Wall) AddSensitivityReaction(net Net, s Side, rxn int) error {
	wk := w.kin[s]
	if wk == nil {
		return fmt.Errorf("wall %q: no kinetics on that side", w.name)
	}
	if rxn < 0 || rxn >= wk.NReactions() {
		return fmt.Errorf("%w: surface reaction %d", ErrIndexOutOfRange, rxn)
	}
	global := net.RegisterSensitivityParameter(
		w.name+": "+wk.ReactionString(rxn), 1.0, 1.0)
	w.sens = append(w.sens, wallSens{side: s, local: rxn, global: global, value: 1.0})
	return nil
}

// NSensParams counts the sensitivity parameters on the given face.
func (w *Wall) NSensParams(s Side) int {
	n := 0
	for i := range w.sens {
		if w.sens[i].side == s {
			n++
		}
	}
	return n
}

// SetSensitivityParameters perturbs the surface-reaction multipliers by the
// network's perturbation vector.
func (w *Wall) SetSensitivityParameters(params []float64) {
	for i := range w.sens {
		p := &w.sens[i]
		wk := w.kin[p.side]
		p.value = wk.Multiplier(p.local)
		wk.SetMultiplier(p.local, p.value*(1.0+params[p.global]))
	}
}

// ResetSensitivityParameters restores the baseline multipliers.
func (w *Wall) ResetSensitivityParameters() {
	for i := range w.sens {
		p := &w.sens[i]
		w.kin[p.side].SetMultiplier(p.local, p.value)
	}
}
