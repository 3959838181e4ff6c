package network

import (
	"fmt"
	"math"

	"github.com/san-kum/reactord/internal/reactor"
	"github.com/san-kum/reactord/internal/solver"
)

// Driver is the per-reactor contract the network integrates: state
// marshaling plus right-hand-side evaluation. Both reactor variants
// satisfy it.
type Driver interface {
	Name() string
	SetNetwork(n reactor.Net)
	Initialize(t0 float64) error
	NEq() int
	GetState(y []float64) error
	UpdateState(y []float64) error
	EvalEqs(t float64, y, ydot, params []float64)
	NSensParams() int
}

// SensParameter is one registered sensitivity parameter: its label, the
// baseline value, and the scale used to nondimensionalize sensitivities.
type SensParameter struct {
	Name  string
	Value float64
	Scale float64
}

// Network aggregates reactors into one composite state vector and exposes
// the whole as a [solver.System]. Reactor segments are laid out in
// registration order.
type Network struct {
	reactors []Driver
	offsets  []int
	nv       int

	sens    []SensParameter
	perturb []float64

	time  float64
	state solver.State

	initialized bool
}

func New() *Network {
	return &Network{}
}

// AddReactor registers r and attaches this network as its sensitivity
// registry.
func (n *Network) AddReactor(r Driver) {
	n.reactors = append(n.reactors, r)
	r.SetNetwork(n)
}

// RegisterSensitivityParameter implements [reactor.Net]. It returns the
// parameter's slot in the perturbation vector handed to every RHS
// evaluation.
func (n *Network) RegisterSensitivityParameter(name string, value, scale float64) int {
	n.sens = append(n.sens, SensParameter{Name: name, Value: value, Scale: scale})
	n.perturb = append(n.perturb, 0.0)
	return len(n.sens) - 1
}

// SensParameters returns the registered parameters in global order.
func (n *Network) SensParameters() []SensParameter { return n.sens }

// SetPerturbation sets the perturbation applied to global parameter i on
// the next evaluations. Zero restores neutrality.
func (n *Network) SetPerturbation(i int, v float64) error {
	if i < 0 || i >= len(n.perturb) {
		return fmt.Errorf("network: perturbation index %d out of range", i)
	}
	n.perturb[i] = v
	return nil
}

// Initialize initializes every reactor and fixes the composite layout.
func (n *Network) Initialize(t0 float64) error {
	n.offsets = n.offsets[:0]
	n.nv = 0
	for _, r := range n.reactors {
		if err := r.Initialize(t0); err != nil {
			return fmt.Errorf("network: %w", err)
		}
		n.offsets = append(n.offsets, n.nv)
		n.nv += r.NEq()
	}
	n.initialized = true
	n.time = t0
	y, err := n.State()
	if err != nil {
		return err
	}
	n.state = y
	return nil
}

// Time returns the network's current integration time.
func (n *Network) Time() float64 { return n.time }

func (n *Network) NEq() int { return n.nv }

// Dim implements [solver.System].
func (n *Network) Dim() int { return n.nv }

// GetState marshals every reactor's segment into y.
func (n *Network) GetState(y []float64) error {
	if !n.initialized {
		return fmt.Errorf("network: not initialized")
	}
	for i, r := range n.reactors {
		if err := r.GetState(y[n.offsets[i] : n.offsets[i]+r.NEq()]); err != nil {
			return err
		}
	}
	return nil
}

// State is a convenience wrapper allocating the composite vector.
func (n *Network) State() (solver.State, error) {
	y := make(solver.State, n.nv)
	if err := n.GetState(y); err != nil {
		return nil, err
	}
	return y, nil
}

// UpdateState pushes y into every reactor without evaluating derivatives.
func (n *Network) UpdateState(y []float64) error {
	for i, r := range n.reactors {
		if err := r.UpdateState(y[n.offsets[i] : n.offsets[i]+r.NEq()]); err != nil {
			return err
		}
	}
	return nil
}

// Derive implements [solver.System]: push the state into each reactor,
// then assemble each reactor's derivative segment.
func (n *Network) Derive(x solver.State, t float64) (solver.State, error) {
	if !n.initialized {
		return nil, fmt.Errorf("network: not initialized")
	}
	if len(x) != n.nv {
		return nil, fmt.Errorf("%w: state has %d components, network wants %d",
			solver.ErrDimensionMismatch, len(x), n.nv)
	}

	var params []float64
	if len(n.sens) > 0 {
		params = n.perturb
	}

	ydot := make(solver.State, n.nv)
	for i, r := range n.reactors {
		seg := x[n.offsets[i] : n.offsets[i]+r.NEq()]
		dseg := ydot[n.offsets[i] : n.offsets[i]+r.NEq()]
		if err := r.UpdateState(seg); err != nil {
			return nil, err
		}
		r.EvalEqs(t, seg, dseg, params)
	}
	return ydot, nil
}

// Advance integrates the network's tracked state forward to time t with
// fixed steps of at most dt, leaving every reactor holding the final
// state. It returns a copy of that state. Advancing to a time at or
// before the current one is a no-op.
func (n *Network) Advance(t float64, integ solver.Integrator, dt float64) (solver.State, error) {
	if !n.initialized {
		return nil, fmt.Errorf("network: not initialized")
	}
	if dt <= 0 {
		return nil, fmt.Errorf("network: advance needs dt > 0, got %g", dt)
	}
	for n.time < t {
		h := math.Min(dt, t-n.time)
		next, err := integ.Step(n, n.state, n.time, h)
		if err != nil {
			return nil, fmt.Errorf("network: advance to t=%.6g: %w", t, err)
		}
		n.state = next
		if t-n.time <= dt {
			n.time = t
		} else {
			n.time += h
		}
	}
	if err := n.UpdateState(n.state); err != nil {
		return nil, err
	}
	return n.state.Clone(), nil
}

// NSensParams counts parameters across the whole network.
func (n *Network) NSensParams() int {
	c := 0
	for _, r := range n.reactors {
		c += r.NSensParams()
	}
	return c
}

// GlobalComponentIndex maps a reactor's local component slot into the
// composite vector.
func (n *Network) GlobalComponentIndex(ri, local int) int {
	return n.offsets[ri] + local
}

// Reactors returns the registered drivers in layout order.
func (n *Network) Reactors() []Driver { return n.reactors }
