package experiment

import (
	"fmt"

	"github.com/san-kum/reactord/internal/config"
	"github.com/san-kum/reactord/internal/integrators"
	"github.com/san-kum/reactord/internal/kinetics"
	"github.com/san-kum/reactord/internal/network"
	"github.com/san-kum/reactord/internal/reactor"
	"github.com/san-kum/reactord/internal/solver"
	"github.com/san-kum/reactord/internal/thermo"
)

// reactorLike is what the builder needs from either reactor variant.
type reactorLike interface {
	network.Driver
	reactor.Node
	SetThermoMgr(p thermo.Phase)
	SetKineticsMgr(k kinetics.Kinetics)
	SetVolume(v float64)
	SetEnergy(on bool)
	SetChemistry(on bool)
	SyncState()
	AddInlet(d reactor.FlowDevice)
	AddOutlet(d reactor.FlowDevice)
	ComponentIndex(name string) int
	ComponentName(k int) (string, error)
}

// Setup is a fully wired single-reactor network ready to initialize.
type Setup struct {
	Net     *network.Network
	Reactor reactorLike
	Gas     *thermo.IdealGasPhase
	Surf    *thermo.SurfPhase
}

// ComponentIndex resolves a component name on the setup's reactor.
func (s *Setup) ComponentIndex(name string) int { return s.Reactor.ComponentIndex(name) }

// ComponentName resolves a state-vector slot back to its name.
func (s *Setup) ComponentName(k int) (string, error) { return s.Reactor.ComponentName(k) }

// NewIntegrator builds the named integrator.
func NewIntegrator(name string) (solver.Integrator, error) {
	switch name {
	case "euler":
		return integrators.NewEuler(), nil
	case "rk4", "":
		return integrators.NewRK4(), nil
	case "rk45":
		return integrators.NewRK45(), nil
	}
	return nil, fmt.Errorf("experiment: unknown integrator %q", name)
}

func convertReactions(specs []config.ReactionSpec) []kinetics.Reaction {
	out := make([]kinetics.Reaction, 0, len(specs))
	for _, s := range specs {
		out = append(out, kinetics.Reaction{
			Equation:  s.Equation,
			Reactants: s.Reactants,
			Products:  s.Products,
			Rate:      kinetics.Arrhenius{A: s.A, B: s.B, Ea: s.Ea},
		})
	}
	return out
}

// gasFromSpec builds a phase over the mechanism species at the given state.
func gasFromSpec(mech config.MechanismSpec, T, p float64, comp map[string]float64) (*thermo.IdealGasPhase, error) {
	gas, err := thermo.NewIdealGasPhase(mech.Species)
	if err != nil {
		return nil, err
	}
	y := make([]float64, gas.NSpecies())
	total := 0.0
	for nm, v := range comp {
		k := gas.SpeciesIndex(nm)
		if k < 0 {
			return nil, fmt.Errorf("experiment: composition species %q not in mechanism", nm)
		}
		y[k] = v
		total += v
	}
	if total <= 0 {
		return nil, fmt.Errorf("experiment: composition is empty")
	}
	for k := range y {
		y[k] /= total
	}
	gas.SetStateTPY(T, p, y)
	return gas, nil
}

// Build wires a single-reactor network from the configuration: the gas
// phase and mechanism, the reactor variant, an optional inlet and outlet
// through reservoirs, and an optional environment wall carrying heat
// transfer and a catalytic surface.
func Build(cfg *config.Config) (*Setup, error) {
	mech, err := config.Mechanism(cfg.Mechanism)
	if err != nil {
		return nil, err
	}

	rc := cfg.Reactor
	gas, err := gasFromSpec(mech, rc.Temperature, rc.Pressure, rc.Composition)
	if err != nil {
		return nil, err
	}
	bulk, err := kinetics.NewBulkKinetics(gas, convertReactions(mech.Reactions))
	if err != nil {
		return nil, err
	}

	var r reactorLike
	switch rc.Type {
	case "ideal_gas", "":
		r = reactor.NewIdealGasReactor("r1")
	case "reactor":
		r = reactor.NewReactor("r1")
	default:
		return nil, fmt.Errorf("experiment: unknown reactor type %q", rc.Type)
	}
	r.SetThermoMgr(gas)
	r.SetKineticsMgr(bulk)
	r.SetVolume(rc.Volume)
	r.SetEnergy(rc.Energy)
	if !rc.Chemistry {
		r.SetChemistry(false)
	}
	r.SyncState()

	setup := &Setup{Net: network.New(), Reactor: r, Gas: gas}

	// The inlet draws from a reservoir frozen at the feed state.
	if cfg.Inlet.Enabled {
		feedGas, err := gasFromSpec(mech, cfg.Inlet.Temperature, rc.Pressure, cfg.Inlet.Composition)
		if err != nil {
			return nil, fmt.Errorf("experiment: inlet: %w", err)
		}
		feed := reactor.NewReservoir("feed", feedGas)
		r.AddInlet(reactor.NewMassFlowController(feed, cfg.Inlet.Rate))
	}

	// The outlet draws at the reactor's own composition and enthalpy.
	if cfg.Outlet.Enabled {
		r.AddOutlet(reactor.NewMassFlowController(r, cfg.Outlet.Rate))
	}

	needWall := cfg.Surface.Enabled || cfg.Env.HeatTransferCoeff > 0
	if needWall {
		envGas, err := gasFromSpec(mech, cfg.Env.Temperature, cfg.Env.Pressure, rc.Composition)
		if err != nil {
			return nil, fmt.Errorf("experiment: environment: %w", err)
		}
		env := reactor.NewReservoir("env", envGas)

		wall := reactor.NewWall("env-wall")
		wall.SetArea(cfg.Env.WallArea)
		wall.SetHeatTransferCoeff(cfg.Env.HeatTransferCoeff)

		if cfg.Surface.Enabled {
			smech, err := config.SurfaceMechanism(cfg.Surface.Mechanism)
			if err != nil {
				return nil, err
			}
			species := make([]thermo.SurfSpecies, 0, len(smech.Species))
			for _, sp := range smech.Species {
				species = append(species, thermo.SurfSpecies{Name: sp.Name, W: sp.W, Size: sp.Size})
			}
			surf, err := thermo.NewSurfPhase(smech.Phase, smech.SiteDensity, species)
			if err != nil {
				return nil, err
			}
			sk, err := kinetics.NewSurfaceKinetics(gas, surf, convertReactions(smech.Reactions))
			if err != nil {
				return nil, err
			}
			wall.SetArea(cfg.Surface.Area)
			wall.SetKinetics(reactor.Left, sk)
			setup.Surf = surf
		}

		wall.Install(r, env)
	}

	setup.Net.AddReactor(r)
	return setup, nil
}
