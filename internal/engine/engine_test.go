package engine_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gaslaw/internal/engine"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/thermo"
)

func newEngine(scenario string, seed int64) *engine.Engine {
	setup, err := engine.DefaultSetup(scenario)
	Expect(err).NotTo(HaveOccurred())
	setup.Seed = seed
	e, err := engine.New(setup)
	Expect(err).NotTo(HaveOccurred())
	return e
}

func run(e *engine.Engine, ticks int, dt float64) {
	for i := 0; i < ticks; i++ {
		Expect(e.Step(dt)).To(Succeed())
	}
}

var _ = Describe("Engine", func() {
	var (
		e    *engine.Engine
		oops []thermo.Oops
	)

	BeforeEach(func() {
		e = newEngine(engine.Ideal, 17)
		oops = nil
		e.OnOops(func(o thermo.Oops) { oops = append(oops, o) })
	})

	It("rejects unknown scenarios", func() {
		_, err := engine.DefaultSetup("vacuum")
		Expect(err).To(HaveOccurred())
	})

	It("rejects a negative time step", func() {
		Expect(e.Step(-0.1)).To(MatchError(kinetics.ErrInvalidTimeStep))
	})

	Describe("temperature mode on an empty container", func() {
		It("signals empty-container exactly once and reverts", func() {
			Expect(e.SetHoldConstantMode(thermo.HoldTemperature)).To(Equal(thermo.HoldNothing))
			run(e, 100, 0.05)
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsEmptyContainer))
			Expect(e.HoldConstantMode()).To(Equal(thermo.HoldNothing))
			Expect(e.Observe().Temperature).To(BeNil())
		})
	})

	Describe("particle counts", func() {
		It("match the request after every change", func() {
			for _, n := range []int{30, 5, 120, 0, 64} {
				Expect(e.SetParticleCount(kinetics.Heavy, n)).To(Succeed())
				Expect(e.Observe().Counts[kinetics.Heavy]).To(Equal(n))
				run(e, 3, 0.05)
			}
		})

		It("rejects a negative count", func() {
			Expect(e.SetParticleCount(kinetics.Light, -3)).To(MatchError(kinetics.ErrInvalidCount))
		})
	})

	Describe("container width", func() {
		It("clamps requests and grows to the target", func() {
			w, err := e.RequestContainerWidth(20000)
			Expect(err).NotTo(HaveOccurred())
			Expect(w).To(Equal(15000.0))
			run(e, 2, 0.05)
			Expect(e.Observe().Container.Width).To(Equal(15000.0))
		})

		It("rejects out-of-range immediate resizes", func() {
			Expect(e.ResizeContainerImmediately(4999)).To(MatchError(kinetics.ErrWidthOutOfRange))
			Expect(e.Observe().Container.Width).To(Equal(10000.0))
		})

		It("is locked while holding volume", func() {
			Expect(e.SetHoldConstantMode(thermo.HoldVolume)).To(Equal(thermo.HoldVolume))
			_, err := e.RequestContainerWidth(8000)
			Expect(err).To(MatchError(kinetics.ErrVolumeLocked))
		})

		It("keeps particles inside while shrinking without work", func() {
			Expect(e.SetParticleCount(kinetics.Heavy, 100)).To(Succeed())
			run(e, 200, 0.05)
			_, err := e.RequestContainerWidth(5000)
			Expect(err).NotTo(HaveOccurred())
			run(e, 1, 0.05)
			c := e.Observe().Container
			Expect(c.Width).To(Equal(5000.0))
			e.EachParticle(func(p *kinetics.Particle, inside bool) {
				Expect(p.Left()).To(BeNumerically(">=", c.Left-1e-6))
			})
		})
	})

	Describe("holding temperature", func() {
		BeforeEach(func() {
			Expect(e.SetParticleCount(kinetics.Heavy, 80)).To(Succeed())
			Expect(e.SetParticleCount(kinetics.Light, 40)).To(Succeed())
			run(e, 20, 0.05)
			Expect(e.SetHoldConstantMode(thermo.HoldTemperature)).To(Equal(thermo.HoldTemperature))
		})

		It("keeps the locked temperature under heating", func() {
			locked := e.Controller().LockedTemperature()
			Expect(e.HeatCool(1)).To(Succeed())
			run(e, 50, 0.05)
			Expect(*e.Observe().Temperature).To(BeNumerically("~", locked, locked*1e-9))
			Expect(oops).To(BeEmpty())
		})

		It("signals once when all particles are removed", func() {
			Expect(e.SetParticleCount(kinetics.Heavy, 0)).To(Succeed())
			Expect(e.SetParticleCount(kinetics.Light, 0)).To(Succeed())
			run(e, 10, 0.05)
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsEmptyContainer))
			Expect(e.LastOops()).NotTo(BeNil())
		})
	})

	Describe("holding pressure by volume", func() {
		It("grows the container as the gas heats", func() {
			Expect(e.SetParticleCount(kinetics.Heavy, 100)).To(Succeed())
			run(e, 20, 0.05)
			Expect(e.SetHoldConstantMode(thermo.HoldPressureV)).To(Equal(thermo.HoldPressureV))
			locked := e.Controller().LockedPressure()
			before := e.Observe().Container.Width

			Expect(e.HeatCool(0.5)).To(Succeed())
			run(e, 20, 0.05)

			obs := e.Observe()
			Expect(obs.Container.Width).To(BeNumerically(">", before))
			Expect(obs.Pressure).To(BeNumerically("~", locked, locked*1e-6))
			_, err := e.RequestContainerWidth(6000)
			Expect(err).To(MatchError(kinetics.ErrVolumeLocked))
		})
	})

	Describe("the lid", func() {
		It("blows off above the pressure limit", func() {
			Expect(e.SetInjectionTemperature(2000)).To(Succeed())
			Expect(e.SetParticleCount(kinetics.Heavy, 1000)).To(Succeed())
			Expect(e.SetHoldConstantMode(thermo.HoldTemperature)).To(Equal(thermo.HoldTemperature))

			run(e, 1, 0.01)

			obs := e.Observe()
			Expect(obs.Container.LidOn).To(BeFalse())
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsOpenContainer))
			Expect(obs.Mode).To(Equal(thermo.HoldNothing))
		})

		It("lets particles escape once open", func() {
			Expect(e.SetInjectionTemperature(1000)).To(Succeed())
			Expect(e.SetParticleCount(kinetics.Light, 300)).To(Succeed())
			e.ToggleLid(false)
			run(e, 400, 0.05)

			obs := e.Observe()
			Expect(obs.Counts[kinetics.Light]).To(BeNumerically("<", 300))
			Expect(obs.Counts[kinetics.Light] + obs.OutsideCounts[kinetics.Light]).To(BeNumerically("<=", 300))
		})
	})

	Describe("pressure", func() {
		It("agrees between the gauge and the gas law", func() {
			e.SetCollisionsEnabled(false)
			b := e.Container().Bounds()
			Expect(e.System().FillChamber(kinetics.Heavy, 150, 300, b)).To(Succeed())
			Expect(e.System().FillChamber(kinetics.Light, 150, 300, b)).To(Succeed())
			analytic := e.Controller().Pressure()

			run(e, 200, 0.05)
			sum, n := 0.0, 0
			for i := 0; i < 40; i++ {
				run(e, 40, 0.05)
				p, ok := e.ImpulsePressure()
				Expect(ok).To(BeTrue())
				sum += p
				n++
			}
			Expect(sum / float64(n)).To(BeNumerically("~", analytic, 0.1*analytic))
		})
	})

	Describe("emptying a species", func() {
		It("drops its average speed before the next tick", func() {
			Expect(e.SetParticleCount(kinetics.Heavy, 50)).To(Succeed())
			run(e, 40, 0.05)
			Expect(e.Observe().AverageSpeed[kinetics.Heavy]).NotTo(BeNil())

			Expect(e.SetParticleCount(kinetics.Heavy, 0)).To(Succeed())
			Expect(e.Observe().AverageSpeed[kinetics.Heavy]).To(BeNil())
		})
	})

	Describe("snapshots", func() {
		It("round-trip through JSON", func() {
			Expect(e.SetParticleCount(kinetics.Heavy, 60)).To(Succeed())
			Expect(e.SetParticleCount(kinetics.Light, 30)).To(Succeed())
			_, err := e.RequestContainerWidth(12000)
			Expect(err).NotTo(HaveOccurred())
			run(e, 100, 0.05)
			Expect(e.SetHoldConstantMode(thermo.HoldTemperature)).To(Equal(thermo.HoldTemperature))
			saved := e.State()

			raw, err := json.Marshal(saved)
			Expect(err).NotTo(HaveOccurred())
			var loaded engine.State
			Expect(json.Unmarshal(raw, &loaded)).To(Succeed())

			other := newEngine(engine.Ideal, 99)
			Expect(other.Restore(loaded)).To(Succeed())
			Expect(other.State()).To(Equal(saved))

			run(e, 10, 0.05)
			run(other, 10, 0.05)
			Expect(other.Observe().Temperature).NotTo(BeNil())
			Expect(*other.Observe().Temperature).To(BeNumerically("~", *e.Observe().Temperature, 1e-6))
		})

		It("keep the locked pressure of a drifting gas", func() {
			Expect(e.SetParticleCount(kinetics.Heavy, 100)).To(Succeed())
			run(e, 20, 0.05)
			Expect(e.SetHoldConstantMode(thermo.HoldPressureV)).To(Equal(thermo.HoldPressureV))
			Expect(e.HeatCool(0.5)).To(Succeed())
			run(e, 7, 0.05)
			// Heat the gas past its locked state without letting the controller react.
			Expect(e.System().HeatCool(1)).To(Succeed())

			saved := e.State()
			Expect(saved.LockedPressure).To(Equal(e.Controller().LockedPressure()))
			Expect(e.Controller().Pressure()).NotTo(BeNumerically("~", saved.LockedPressure, saved.LockedPressure*1e-6))

			other := newEngine(engine.Ideal, 5)
			Expect(other.Restore(saved)).To(Succeed())
			Expect(other.HoldConstantMode()).To(Equal(thermo.HoldPressureV))
			Expect(other.Controller().LockedPressure()).To(Equal(saved.LockedPressure))
			Expect(other.Controller().LockedTemperature()).To(Equal(saved.LockedTemperature))
		})

		It("refuses a snapshot from another scenario", func() {
			d := newEngine(engine.Diffusion, 1)
			Expect(e.Restore(d.State())).To(HaveOccurred())
		})
	})

	It("resets to an empty container", func() {
		Expect(e.SetParticleCount(kinetics.Heavy, 10)).To(Succeed())
		run(e, 10, 0.05)
		e.Reset()
		obs := e.Observe()
		Expect(obs.Counts[kinetics.Heavy]).To(Equal(0))
		Expect(obs.Time).To(BeZero())
		Expect(obs.Mode).To(Equal(thermo.HoldNothing))
	})
})

var _ = Describe("Diffusion", func() {
	var e *engine.Engine

	BeforeEach(func() {
		e = newEngine(engine.Diffusion, 23)
	})

	It("starts each species in its own chamber", func() {
		Expect(e.SetParticleCount(kinetics.Particle1, 40)).To(Succeed())
		run(e, 100, 0.05)

		d := e.Observe().Diffusion
		Expect(d).NotTo(BeNil())
		Expect(d.Left.Counts[kinetics.Particle1]).To(Equal(40))
		Expect(d.Right.Total()).To(Equal(0))
		Expect(d.Right.Temperature).To(BeNil())
		Expect(d.Left.Temperature).NotTo(BeNil())
	})

	It("mixes once the divider is removed", func() {
		Expect(e.SetParticleCount(kinetics.Particle1, 50)).To(Succeed())
		Expect(e.SetParticleCount(kinetics.Particle2, 50)).To(Succeed())
		run(e, 20, 0.05)
		Expect(e.ToggleDivider(false)).To(Succeed())
		run(e, 2000, 0.05)

		d := e.Observe().Diffusion
		Expect(d.Right.Counts[kinetics.Particle1]).To(BeNumerically(">", 0))
		Expect(d.Left.Counts[kinetics.Particle2]).To(BeNumerically(">", 0))
		Expect(d.CenterOfMass[kinetics.Particle1]).NotTo(BeNil())
	})

	It("signals the temperature ceiling once under continuous heating", func() {
		var oops []thermo.Oops
		e.OnOops(func(o thermo.Oops) { oops = append(oops, o) })
		Expect(e.SetParticleCount(kinetics.Particle1, 25)).To(Succeed())
		Expect(e.SetParticleCount(kinetics.Particle2, 25)).To(Succeed())
		Expect(e.HeatCool(1)).To(Succeed())

		run(e, 2000, 0.05)

		Expect(oops).To(HaveLen(1))
		Expect(oops[0].Kind).To(Equal(thermo.OopsTemperatureCeiling))
		Expect(e.HoldConstantMode()).To(Equal(thermo.HoldNothing))
		Expect(*e.Observe().Temperature).To(BeNumerically("<=", kinetics.MaxTemperature*(1+1e-9)))
	})

	It("puts the divider back", func() {
		Expect(e.ToggleDivider(false)).To(Succeed())
		Expect(e.Observe().Container.Divider).To(BeFalse())
		Expect(e.ToggleDivider(true)).To(Succeed())
		Expect(e.Observe().Container.Divider).To(BeTrue())
	})
})
