package network_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/reactord/internal/integrators"
	"github.com/san-kum/reactord/internal/kinetics"
	"github.com/san-kum/reactord/internal/network"
	"github.com/san-kum/reactord/internal/reactor"
	"github.com/san-kum/reactord/internal/solver"
	"github.com/san-kum/reactord/internal/thermo"
)

func inertReactor(name string, species []string, T float64) *reactor.Reactor {
	gas, err := thermo.NewIdealGasPhase(species)
	Expect(err).NotTo(HaveOccurred())
	y := make([]float64, len(species))
	for k := range y {
		y[k] = 1.0 / float64(len(species))
	}
	gas.SetStateTPY(T, 101325.0, y)
	kin, err := kinetics.NewBulkKinetics(gas, nil)
	Expect(err).NotTo(HaveOccurred())

	r := reactor.NewReactor(name)
	r.SetThermoMgr(gas)
	r.SetKineticsMgr(kin)
	r.SyncState()
	return r
}

func burningIdealGasReactor(name string) *reactor.IdealGasReactor {
	gas, err := thermo.NewIdealGasPhase([]string{"H2", "O2", "H2O"})
	Expect(err).NotTo(HaveOccurred())
	gas.SetStateTPY(1500.0, 101325.0, []float64{0.1, 0.8, 0.1})
	kin, err := kinetics.NewBulkKinetics(gas, []kinetics.Reaction{
		{
			Equation:  "2 H2 + O2 => 2 H2O",
			Reactants: map[string]float64{"H2": 2, "O2": 1},
			Products:  map[string]float64{"H2O": 2},
			Rate:      kinetics.Arrhenius{A: 1.0e7, B: 0, Ea: 1.0e8},
		},
	})
	Expect(err).NotTo(HaveOccurred())

	r := reactor.NewIdealGasReactor(name)
	r.SetThermoMgr(gas)
	r.SetKineticsMgr(kin)
	r.SyncState()
	return r
}

var _ = Describe("Network", func() {
	Describe("composite layout", func() {
		var (
			net *network.Network
			r1  *reactor.Reactor
			r2  *reactor.Reactor
		)

		BeforeEach(func() {
			net = network.New()
			r1 = inertReactor("a", []string{"H2", "O2", "N2"}, 900.0)
			r2 = inertReactor("b", []string{"AR"}, 400.0)
			net.AddReactor(r1)
			net.AddReactor(r2)
			Expect(net.Initialize(0)).To(Succeed())
		})

		It("concatenates reactor segments in registration order", func() {
			Expect(net.NEq()).To(Equal(r1.NEq() + r2.NEq()))
			Expect(net.Dim()).To(Equal(net.NEq()))

			y, err := net.State()
			Expect(err).NotTo(HaveOccurred())

			seg := make([]float64, r2.NEq())
			Expect(r2.GetState(seg)).To(Succeed())
			for i, v := range seg {
				Expect(y[net.GlobalComponentIndex(1, i)]).To(Equal(v))
			}
		})

		It("lists reactors in layout order", func() {
			drivers := net.Reactors()
			Expect(drivers).To(HaveLen(2))
			Expect(drivers[0].Name()).To(Equal("a"))
			Expect(drivers[1].Name()).To(Equal("b"))
		})

		It("keeps an isolated network steady", func() {
			y, err := net.State()
			Expect(err).NotTo(HaveOccurred())

			ydot, err := net.Derive(y, 0)
			Expect(err).NotTo(HaveOccurred())
			for i := range ydot {
				Expect(ydot[i]).To(BeZero())
			}
		})

		It("rejects a state of the wrong dimension", func() {
			_, err := net.Derive(make(solver.State, 3), 0)
			Expect(err).To(MatchError(solver.ErrDimensionMismatch))
		})
	})

	Describe("before initialization", func() {
		It("refuses to marshal or derive", func() {
			net := network.New()
			net.AddReactor(inertReactor("a", []string{"AR"}, 400.0))

			Expect(net.GetState(make([]float64, 4))).NotTo(Succeed())
			_, err := net.Derive(make(solver.State, 4), 0)
			Expect(err).To(HaveOccurred())
		})
	})

	Describe("sensitivity registry", func() {
		var (
			net *network.Network
			r   *reactor.IdealGasReactor
		)

		BeforeEach(func() {
			net = network.New()
			r = burningIdealGasReactor("burner")
			net.AddReactor(r)
			Expect(net.Initialize(0)).To(Succeed())
		})

		It("hands out sequential global indices", func() {
			Expect(r.AddSensitivityReaction(0)).To(Succeed())
			Expect(r.AddSensitivitySpeciesEnthalpy(2)).To(Succeed())

			params := net.SensParameters()
			Expect(params).To(HaveLen(2))
			Expect(params[0].Name).To(ContainSubstring("burner"))
			Expect(params[0].Value).To(Equal(1.0))
			Expect(params[1].Scale).To(BeNumerically(">", 0))
			Expect(net.NSensParams()).To(Equal(2))
		})

		It("rejects out-of-range perturbation indices", func() {
			Expect(net.SetPerturbation(0, 0.1)).NotTo(Succeed())
		})

		It("applies perturbations and restores neutrality", func() {
			Expect(r.AddSensitivityReaction(0)).To(Succeed())
			y, err := net.State()
			Expect(err).NotTo(HaveOccurred())

			base, err := net.Derive(y, 0)
			Expect(err).NotTo(HaveOccurred())

			Expect(net.SetPerturbation(0, 0.5)).To(Succeed())
			pert, err := net.Derive(y, 0)
			Expect(err).NotTo(HaveOccurred())

			kH2O := 3 + 2
			Expect(pert[kH2O]).To(BeNumerically("~", 1.5*base[kH2O], 1e-12*base[kH2O]))

			Expect(net.SetPerturbation(0, 0)).To(Succeed())
			again, err := net.Derive(y, 0)
			Expect(err).NotTo(HaveOccurred())
			for i := range base {
				Expect(again[i]).To(Equal(base[i]))
			}
		})
	})

	Describe("time integration", func() {
		It("burns hydrogen in a closed adiabatic reactor", func() {
			net := network.New()
			r := burningIdealGasReactor("burner")
			net.AddReactor(r)
			Expect(net.Initialize(0)).To(Succeed())

			y, err := net.State()
			Expect(err).NotTo(HaveOccurred())
			m0, T0 := y[0], y[2]

			rk := integrators.NewRK4()
			dt := 1.0e-6
			for i := 0; i < 200; i++ {
				y, err = rk.Step(net, y, float64(i)*dt, dt)
				Expect(err).NotTo(HaveOccurred())
			}

			Expect(y[0]).To(BeNumerically("~", m0, 1e-12*m0))
			Expect(y[1]).To(Equal(1.0))
			Expect(y[2]).To(BeNumerically(">", T0))

			kH2O := 3 + 2
			Expect(y[kH2O]).To(BeNumerically(">", 0.1))
		})

		It("advances its tracked state to a requested time", func() {
			net := network.New()
			r := burningIdealGasReactor("burner")
			net.AddReactor(r)
			Expect(net.Initialize(0)).To(Succeed())
			Expect(net.Time()).To(BeZero())

			y0, err := net.State()
			Expect(err).NotTo(HaveOccurred())

			rk := integrators.NewRK4()
			y, err := net.Advance(5.0e-5, rk, 1.0e-6)
			Expect(err).NotTo(HaveOccurred())
			Expect(net.Time()).To(Equal(5.0e-5))

			Expect(y[0]).To(BeNumerically("~", y0[0], 1e-12*y0[0]))
			Expect(y[2]).To(BeNumerically(">", y0[2]))

			// the reactor itself holds the advanced state
			Expect(r.Temperature()).To(Equal(y[2]))

			again, err := net.Advance(1.0e-5, rk, 1.0e-6)
			Expect(err).NotTo(HaveOccurred())
			Expect(again[2]).To(Equal(y[2]))
			Expect(net.Time()).To(Equal(5.0e-5))
		})

		It("rejects a nonpositive advance step", func() {
			net := network.New()
			net.AddReactor(inertReactor("a", []string{"AR"}, 400.0))
			Expect(net.Initialize(0)).To(Succeed())

			_, err := net.Advance(1.0e-5, integrators.NewRK4(), 0)
			Expect(err).To(HaveOccurred())
		})
	})
})
