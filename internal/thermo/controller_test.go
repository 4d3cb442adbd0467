package thermo_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/gaslaw/internal/container"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/particles"
	"github.com/san-kum/gaslaw/internal/thermo"
)

var _ = Describe("Controller", func() {
	var (
		c    *container.Container
		sys  *particles.System
		ctl  *thermo.Controller
		oops []thermo.Oops
	)

	BeforeEach(func() {
		var err error
		c, err = container.New(container.DefaultParams())
		Expect(err).NotTo(HaveOccurred())
		sys, err = particles.New(c, []kinetics.Species{kinetics.HeavySpecies, kinetics.LightSpecies}, particles.DefaultParams(), kinetics.NewRand(11))
		Expect(err).NotTo(HaveOccurred())
		ctl = thermo.NewController(c, sys)
		oops = nil
		ctl.OnOops(func(o thermo.Oops) { oops = append(oops, o) })
	})

	temperature := func() float64 {
		t, ok := ctl.Temperature()
		Expect(ok).To(BeTrue())
		return t
	}

	Context("with an empty container", func() {
		It("refuses temperature mode exactly once", func() {
			Expect(ctl.SetMode(thermo.HoldTemperature)).To(Equal(thermo.HoldNothing))
			for i := 0; i < 10; i++ {
				ctl.Apply()
			}
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsEmptyContainer))
			Expect(oops[0].Mode).To(Equal(thermo.HoldTemperature))
			Expect(ctl.Mode()).To(Equal(thermo.HoldNothing))
		})

		It("allows holding volume", func() {
			Expect(ctl.SetMode(thermo.HoldVolume)).To(Equal(thermo.HoldVolume))
			Expect(oops).To(BeEmpty())
		})
	})

	Context("holding temperature", func() {
		BeforeEach(func() {
			Expect(sys.SetCount(kinetics.Heavy, 50)).To(Succeed())
			Expect(sys.SetTemperature(400)).To(Succeed())
			Expect(ctl.SetMode(thermo.HoldTemperature)).To(Equal(thermo.HoldTemperature))
		})

		It("locks the current temperature", func() {
			Expect(ctl.LockedTemperature()).To(BeNumerically("~", 400, 1e-6))
		})

		It("is idempotent", func() {
			ctl.Apply()
			first := temperature()
			ctl.Apply()
			Expect(temperature()).To(BeNumerically("~", first, 1e-9))
			Expect(first).To(BeNumerically("~", 400, 1e-6))
		})

		It("undoes heating", func() {
			Expect(sys.HeatCool(1)).To(Succeed())
			ctl.Apply()
			Expect(temperature()).To(BeNumerically("~", 400, 1e-6))
		})

		It("gives up when the lid opens", func() {
			c.BlowLidOff()
			ctl.Apply()
			ctl.Apply()
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsOpenContainer))
			Expect(ctl.Mode()).To(Equal(thermo.HoldNothing))
		})

		It("gives up when the container empties", func() {
			Expect(sys.SetCount(kinetics.Heavy, 0)).To(Succeed())
			ctl.Apply()
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsEmptyContainer))
		})
	})

	Context("holding pressure by volume", func() {
		BeforeEach(func() {
			Expect(sys.SetCount(kinetics.Heavy, 100)).To(Succeed())
			Expect(sys.SetTemperature(300)).To(Succeed())
			Expect(ctl.SetMode(thermo.HoldPressureV)).To(Equal(thermo.HoldPressureV))
		})

		It("widens the container when the gas heats", func() {
			before := c.Width()
			Expect(sys.SetTemperature(360)).To(Succeed())
			ctl.Apply()
			Expect(c.Width()).To(BeNumerically("~", before*1.2, 1e-6))
			Expect(ctl.Pressure()).To(BeNumerically("~", ctl.LockedPressure(), ctl.LockedPressure()*1e-9))
			Expect(c.IsResizing()).To(BeFalse())
		})

		It("keeps particles inside after resizing", func() {
			Expect(sys.SetTemperature(240)).To(Succeed())
			ctl.Apply()
			sys.EachInside(func(p *kinetics.Particle) {
				Expect(p.Position.X).To(BeNumerically(">=", c.Left()))
				Expect(p.Position.X).To(BeNumerically("<=", c.Right()))
			})
		})

		It("reports a volume that would be too large", func() {
			Expect(sys.SetTemperature(600)).To(Succeed())
			ctl.Apply()
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsPressureOutOfRange))
			Expect(oops[0].Detail).To(Equal(thermo.DetailLargeVolume))
			Expect(c.Width()).To(Equal(c.Params().MaxWidth))
			Expect(ctl.Mode()).To(Equal(thermo.HoldNothing))
		})

		It("reports a volume that would be too small", func() {
			Expect(sys.SetTemperature(100)).To(Succeed())
			ctl.Apply()
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Detail).To(Equal(thermo.DetailSmallVolume))
			Expect(c.Width()).To(Equal(c.Params().MinWidth))
		})
	})

	Context("holding pressure by temperature", func() {
		BeforeEach(func() {
			Expect(sys.SetCount(kinetics.Heavy, 50)).To(Succeed())
			Expect(sys.SetTemperature(3000)).To(Succeed())
			Expect(ctl.SetMode(thermo.HoldPressureT)).To(Equal(thermo.HoldPressureT))
		})

		It("cools the gas when particles are added", func() {
			Expect(sys.SetCount(kinetics.Heavy, 100)).To(Succeed())
			ctl.Apply()
			Expect(temperature()).To(BeNumerically("~", 1500, 1e-6))
			Expect(oops).To(BeEmpty())
		})

		It("stops at the temperature ceiling", func() {
			Expect(sys.SetCount(kinetics.Heavy, 1)).To(Succeed())
			ctl.Apply()
			Expect(oops).To(HaveLen(1))
			Expect(oops[0].Kind).To(Equal(thermo.OopsTemperatureCeiling))
			Expect(temperature()).To(BeNumerically("~", kinetics.MaxTemperature, 1e-3))
			Expect(ctl.Mode()).To(Equal(thermo.HoldNothing))
		})
	})

	It("signals a continuous overheat once", func() {
		Expect(sys.SetCount(kinetics.Heavy, 20)).To(Succeed())
		Expect(sys.SetTemperature(0.9 * kinetics.MaxTemperature)).To(Succeed())
		for i := 0; i < 500; i++ {
			Expect(sys.HeatCool(1)).To(Succeed())
			ctl.Apply()
		}
		Expect(oops).To(HaveLen(1))
		Expect(oops[0].Kind).To(Equal(thermo.OopsTemperatureCeiling))
		Expect(temperature()).To(BeNumerically("~", kinetics.MaxTemperature, 1e-3))
	})

	It("signals again after the gas has cooled", func() {
		Expect(sys.SetCount(kinetics.Heavy, 20)).To(Succeed())
		Expect(sys.SetTemperature(2 * kinetics.MaxTemperature)).To(Succeed())
		ctl.Apply()
		Expect(sys.SetTemperature(0.99 * kinetics.MaxTemperature)).To(Succeed())
		ctl.Apply()
		Expect(sys.SetTemperature(2 * kinetics.MaxTemperature)).To(Succeed())
		ctl.Apply()
		Expect(oops).To(HaveLen(1), "a dip just below the ceiling is the same occurrence")

		Expect(sys.SetTemperature(0.1 * kinetics.MaxTemperature)).To(Succeed())
		ctl.Apply()
		Expect(sys.SetTemperature(2 * kinetics.MaxTemperature)).To(Succeed())
		ctl.Apply()
		Expect(oops).To(HaveLen(2))
	})

	It("caps runaway heating in any mode", func() {
		Expect(sys.SetCount(kinetics.Light, 10)).To(Succeed())
		Expect(sys.SetTemperature(2 * kinetics.MaxTemperature)).To(Succeed())
		ctl.Apply()
		ctl.Apply()
		Expect(oops).To(HaveLen(1))
		Expect(oops[0].Kind).To(Equal(thermo.OopsTemperatureCeiling))
		Expect(temperature()).To(BeNumerically("~", kinetics.MaxTemperature, 1e-3))
	})
})
