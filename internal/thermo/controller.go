package thermo

import (
	"math"

	"github.com/san-kum/gaslaw/internal/container"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/particles"
)

// ceilingRearm is the fraction of MaxTemperature the gas must cool below
// before another crossing counts as a new occurrence.
const ceilingRearm = 0.5

// Controller keeps the locked quantity of the active mode after every tick.
type Controller struct {
	container *container.Container
	system    *particles.System

	mode        HoldConstant
	temperature float64
	pressure    float64
	// overCeiling is set while the temperature stays clamped at the ceiling.
	overCeiling bool

	listeners []func(Oops)
}

func NewController(c *container.Container, s *particles.System) *Controller {
	return &Controller{container: c, system: s}
}

func (ctl *Controller) Mode() HoldConstant { return ctl.mode }

// LockedTemperature is the temperature pinned by HoldTemperature.
func (ctl *Controller) LockedTemperature() float64 { return ctl.temperature }

// LockedPressure is the pressure pinned by the pressure modes, in AMU/(pm·ps²).
func (ctl *Controller) LockedPressure() float64 { return ctl.pressure }

// OnOops registers a listener. Listeners run synchronously in registration order.
func (ctl *Controller) OnOops(fn func(Oops)) {
	ctl.listeners = append(ctl.listeners, fn)
}

// Temperature of the inside population.
func (ctl *Controller) Temperature() (float64, bool) {
	return Temperature(ctl.system.InsideCollections()...)
}

// Pressure is NkT/V for the inside population.
func (ctl *Controller) Pressure() float64 {
	t, ok := ctl.Temperature()
	if !ok {
		return 0
	}
	return AnalyticPressure(ctl.system.InsideCount(), t, ctl.container.Volume())
}

func (ctl *Controller) conditions() Conditions {
	return Conditions{Particles: ctl.system.InsideCount(), Open: ctl.container.IsOpen()}
}

// SetMode requests a mode and locks the current temperature or pressure.
// The returned mode is the one actually entered.
func (ctl *Controller) SetMode(mode HoldConstant) HoldConstant {
	next, oops := Transition(ctl.mode, mode, ctl.conditions())
	if oops != nil {
		oops.Mode = mode
		ctl.mode = HoldNothing
		ctl.emit(*oops)
		return ctl.mode
	}
	ctl.mode = next
	ctl.lock()
	return ctl.mode
}

// Clear drops to HoldNothing without emitting anything.
func (ctl *Controller) Clear() {
	ctl.mode = HoldNothing
	ctl.temperature, ctl.pressure = 0, 0
	ctl.overCeiling = false
}

// RestoreTargets sets the locked temperature and pressure of the active
// mode, for resuming a snapshot. Non-positive values keep the current lock.
func (ctl *Controller) RestoreTargets(temperature, pressure float64) {
	if !ctl.mode.LocksState() {
		return
	}
	if temperature > 0 {
		ctl.temperature = temperature
	}
	if pressure > 0 {
		ctl.pressure = pressure
	}
}

// Relock captures the current state as the new target of the active mode.
func (ctl *Controller) Relock() { ctl.lock() }

func (ctl *Controller) lock() {
	if t, ok := ctl.Temperature(); ok {
		ctl.temperature = t
	}
	ctl.pressure = ctl.Pressure()
}

// Apply enforces the active mode. It runs once per tick after collisions.
func (ctl *Controller) Apply() {
	if ctl.mode.LocksState() {
		if ctl.system.InsideCount() == 0 {
			ctl.abandon(Oops{Kind: OopsEmptyContainer})
			return
		}
		if ctl.container.IsOpen() {
			ctl.abandon(Oops{Kind: OopsOpenContainer})
			return
		}
	}

	switch ctl.mode {
	case HoldTemperature:
		ctl.setTemperature(ctl.temperature)
	case HoldPressureV:
		ctl.holdPressureByVolume()
	case HoldPressureT:
		ctl.holdPressureByTemperature()
	}

	ctl.enforceCeiling()
}

func (ctl *Controller) holdPressureByVolume() {
	t, ok := ctl.Temperature()
	if !ok || !(ctl.pressure > 0) {
		return
	}
	c := ctl.container
	p := c.Params()
	n := ctl.system.InsideCount()
	width := float64(n) * kinetics.Boltzmann * t / (ctl.pressure * p.Height * p.Depth)
	if c.InRange(width) {
		ctl.resize(width)
		return
	}

	detail := DetailLargeVolume
	if width < p.MinWidth {
		detail = DetailSmallVolume
	}
	ctl.resize(c.ClampWidth(width))
	ctl.abandon(Oops{Kind: OopsPressureOutOfRange, Detail: detail})
}

// resize moves the left wall without doing work and carries the particles along.
func (ctl *Controller) resize(width float64) {
	c := ctl.container
	if math.IsNaN(width) || width == c.Width() {
		return
	}
	scale := width / c.Width()
	if err := c.ResizeImmediately(width); err != nil {
		return
	}
	ctl.system.RedistributeParticles(scale)
}

func (ctl *Controller) holdPressureByTemperature() {
	n := ctl.system.InsideCount()
	t := ctl.pressure * ctl.container.Volume() / (float64(n) * kinetics.Boltzmann)
	if !(t > 0) || math.IsInf(t, 0) {
		return
	}
	if t > kinetics.MaxTemperature {
		ctl.setTemperature(kinetics.MaxTemperature)
		ctl.overCeiling = true
		ctl.abandon(Oops{Kind: OopsTemperatureCeiling})
		return
	}
	ctl.setTemperature(t)
}

// enforceCeiling clamps the temperature to MaxTemperature. The oops fires
// when the ceiling is first crossed; clamping stays silent until the gas
// has cooled below ceilingRearm of the ceiling or emptied.
func (ctl *Controller) enforceCeiling() {
	t, ok := ctl.Temperature()
	if !ok || t < kinetics.MaxTemperature*ceilingRearm {
		ctl.overCeiling = false
		return
	}
	if t <= kinetics.MaxTemperature*(1+1e-9) {
		return
	}
	ctl.setTemperature(kinetics.MaxTemperature)
	if ctl.overCeiling {
		return
	}
	ctl.overCeiling = true
	ctl.abandon(Oops{Kind: OopsTemperatureCeiling})
}

func (ctl *Controller) setTemperature(t float64) {
	// only fails on an empty population, which Apply has ruled out
	_ = ctl.system.SetTemperature(t)
}

func (ctl *Controller) abandon(o Oops) {
	o.Mode = ctl.mode
	ctl.mode = HoldNothing
	ctl.emit(o)
}

func (ctl *Controller) emit(o Oops) {
	for _, fn := range ctl.listeners {
		fn(o)
	}
}
