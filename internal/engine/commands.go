package engine

import (
	"math"

	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/thermo"
)

// Reset returns the engine to its initial state. Oops listeners stay registered.
func (e *Engine) Reset() {
	e.container.Reset()
	e.system.Reset()
	e.controller.Clear()
	e.gauge.Reset()
	e.histogram.Reset()
	e.speeds.Reset()
	e.counter.Reset()
	if e.diffusion != nil {
		e.diffusion.Reset()
	}
	e.time, e.heatCool = 0, 0
	e.lastOops = nil
	e.log.Debug("engine reset")
}

// SetHoldConstantMode requests a mode and returns the mode actually entered.
func (e *Engine) SetHoldConstantMode(mode thermo.HoldConstant) thermo.HoldConstant {
	prev := e.controller.Mode()
	got := e.controller.SetMode(mode)
	if got != prev {
		e.log.Info("hold constant", "from", prev, "to", got)
	}
	return got
}

func (e *Engine) HoldConstantMode() thermo.HoldConstant { return e.controller.Mode() }

// SetParticleCount sets the number of inside particles of a species.
func (e *Engine) SetParticleCount(tag kinetics.Tag, n int) error {
	if err := e.system.SetCount(tag, n); err != nil {
		return err
	}
	if n == 0 {
		e.speeds.Clear(tag)
	}
	return nil
}

// HeatCool sets the heater/cooler factor applied on every tick until
// changed. Zero switches it off.
func (e *Engine) HeatCool(f float64) error {
	if math.IsNaN(f) || f < -1 || f > 1 {
		return kinetics.Violation("HeatCool", f, kinetics.ErrHeatCoolRange)
	}
	e.heatCool = f
	return nil
}

func (e *Engine) HeatCoolFactor() float64 { return e.heatCool }

func (e *Engine) volumeLocked() bool {
	m := e.controller.Mode()
	return m == thermo.HoldVolume || m == thermo.HoldPressureV
}

// RequestContainerWidth sets the target width; the left wall moves toward
// it over the following ticks. It returns the clamped target.
func (e *Engine) RequestContainerWidth(w float64) (float64, error) {
	if math.IsNaN(w) {
		return e.container.DesiredWidth(), kinetics.Violation("RequestContainerWidth", w, kinetics.ErrWidthOutOfRange)
	}
	if e.volumeLocked() {
		return e.container.DesiredWidth(), kinetics.Violation("RequestContainerWidth", w, kinetics.ErrVolumeLocked)
	}
	return e.container.RequestWidth(w), nil
}

// ResizeContainerImmediately jumps to width w and carries the particles along.
func (e *Engine) ResizeContainerImmediately(w float64) error {
	if e.volumeLocked() {
		return kinetics.Violation("ResizeContainerImmediately", w, kinetics.ErrVolumeLocked)
	}
	before := e.container.Width()
	if err := e.container.ResizeImmediately(w); err != nil {
		return err
	}
	if before != w {
		e.system.RedistributeParticles(w / before)
	}
	return nil
}

// ToggleLid returns the lid when on is true and blows it off otherwise.
func (e *Engine) ToggleLid(on bool) {
	if on {
		e.container.ReturnLid()
	} else {
		e.container.BlowLidOff()
	}
	e.log.Info("lid", "on", e.container.IsLidOn())
}

// SetLidWidth slides the lid.
func (e *Engine) SetLidWidth(w float64) { e.container.SetLidWidth(w) }

// ToggleDivider inserts or removes the divider of a two-chamber container.
func (e *Engine) ToggleDivider(on bool) error {
	if err := e.container.SetDivider(on); err != nil {
		return err
	}
	e.log.Info("divider", "on", on)
	return nil
}

// SetInjectionTemperature sets the temperature of particles added later.
func (e *Engine) SetInjectionTemperature(t float64) error {
	return e.system.SetInjectionTemperature(t)
}

// SetSpeciesTemperature sets the injection temperature of one species.
func (e *Engine) SetSpeciesTemperature(tag kinetics.Tag, t float64) error {
	return e.system.SetSpeciesTemperature(tag, t)
}

// SetSpecies changes the mass and radius of a species.
func (e *Engine) SetSpecies(sp kinetics.Species) error {
	return e.system.SetSpecies(sp)
}

// SetCollisionsEnabled switches particle-particle collisions.
func (e *Engine) SetCollisionsEnabled(on bool) {
	e.detector.ParticleParticleCollisions = on
	e.system.CollisionsEnabled = on
}

func (e *Engine) CollisionsEnabled() bool { return e.detector.ParticleParticleCollisions }

// OnOops registers a listener for unreachable hold-constant targets.
func (e *Engine) OnOops(fn func(thermo.Oops)) { e.controller.OnOops(fn) }

// LastOops is the most recent oops since the last reset, or nil.
func (e *Engine) LastOops() *thermo.Oops { return e.lastOops }
