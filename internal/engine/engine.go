// Package engine wires the container, particles, collision detector,
// controller and samplers into one tick pipeline and exposes the commands
// a driver may issue between ticks.
//
// An Engine is not safe for concurrent use. Drivers call Step once per
// frame and apply commands between calls.
package engine

import (
	"fmt"
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/san-kum/gaslaw/internal/collision"
	"github.com/san-kum/gaslaw/internal/container"
	"github.com/san-kum/gaslaw/internal/kinetics"
	"github.com/san-kum/gaslaw/internal/particles"
	"github.com/san-kum/gaslaw/internal/stats"
	"github.com/san-kum/gaslaw/internal/thermo"
)

// outsideMargin is how far beyond the maximum container bounds escaped
// particles are still tracked, in pm.
const outsideMargin = 20000.0

type Engine struct {
	setup Setup
	log   *log.Logger

	container  *container.Container
	system     *particles.System
	detector   *collision.Detector
	controller *thermo.Controller

	gauge     *thermo.PressureGauge
	histogram *stats.HistogramSampler
	speeds    *stats.AverageSpeed
	counter   *stats.CollisionCounter
	diffusion *stats.DiffusionData

	time     float64
	heatCool float64
	lastOops *thermo.Oops
}

// New builds an engine in its reset state.
func New(s Setup, opts ...Option) (*Engine, error) {
	c, err := container.New(s.Container)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	sys, err := particles.New(c, s.Species, s.Particles, kinetics.NewRand(s.Seed))
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}
	counter, err := stats.NewCollisionCounter(s.CounterWindow)
	if err != nil {
		return nil, fmt.Errorf("engine: %w", err)
	}

	e := &Engine{
		setup:      s,
		log:        log.New(io.Discard),
		container:  c,
		system:     sys,
		detector:   collision.New(c, s.RegionLength),
		controller: thermo.NewController(c, sys),
		gauge:      thermo.NewPressureGauge(s.GaugeWindow),
		histogram:  stats.NewHistogramSampler(s.Histogram),
		speeds:     stats.NewAverageSpeed(s.Histogram.SamplePeriod),
		counter:    counter,
	}
	if c.Kind() == container.TwoChamber {
		e.diffusion = stats.NewDiffusionData(s.Histogram.SamplePeriod)
		tags := sys.Tags()
		if len(tags) > 0 {
			sys.PlaceInChamber(tags[0], c.LeftChamber)
		}
		if len(tags) > 1 {
			sys.PlaceInChamber(tags[1], c.RightChamber)
		}
	}
	for _, opt := range opts {
		opt(e)
	}
	e.controller.OnOops(e.recordOops)
	e.log.Debug("engine ready", "scenario", s.Scenario, "species", len(s.Species), "container", c.Kind())
	return e, nil
}

func (e *Engine) recordOops(o thermo.Oops) {
	e.lastOops = &o
	e.log.Warn("hold constant abandoned", "oops", o.Kind, "detail", o.Detail, "mode", o.Mode)
}

func (e *Engine) Setup() Setup                     { return e.setup }
func (e *Engine) Container() *container.Container  { return e.container }
func (e *Engine) System() *particles.System        { return e.system }
func (e *Engine) Detector() *collision.Detector    { return e.detector }
func (e *Engine) Controller() *thermo.Controller   { return e.controller }
func (e *Engine) Counter() *stats.CollisionCounter { return e.counter }
func (e *Engine) Time() float64                    { return e.time }

// Step advances the model by dt ps.
func (e *Engine) Step(dt float64) error {
	if math.IsNaN(dt) || math.IsInf(dt, 0) || dt < 0 {
		return kinetics.Violation("Step", dt, kinetics.ErrInvalidTimeStep)
	}
	if dt == 0 {
		return nil
	}
	c, sys := e.container, e.system

	before := c.Width()
	c.Step(dt)
	if w := c.Width(); w != before && !c.LeftWallDoesWork() {
		sys.RedistributeParticles(w / before)
	}

	if e.heatCool != 0 {
		// range was checked when the factor was set
		_ = sys.HeatCool(e.heatCool)
	}
	sys.Step(dt)
	if n := sys.EscapeParticles(); n > 0 {
		e.log.Debug("particles escaped", "count", n)
	}
	sys.RemoveOutOfBounds(c.MaxBounds().Dilate(outsideMargin))

	cols := sys.InsideCollections()
	e.detector.Step(c, cols)
	p := c.Params()
	e.gauge.Add(e.detector.PressureImpulse(), 2*(c.Width()+c.Height())*p.Depth, dt)
	e.counter.Add(e.detector.WallCollisions(), dt)

	e.checkLid()
	e.controller.Apply()

	tags := sys.Tags()
	e.histogram.Step(dt, tags, cols)
	e.speeds.Step(dt, tags, cols)
	if e.diffusion != nil {
		e.diffusion.Step(dt, c, tags, cols)
	}
	e.time += dt
	return nil
}

// checkLid blows the lid off when the pressure passes MaxPressureKPa.
func (e *Engine) checkLid() {
	c := e.container
	if c.Kind() != container.SingleChamber || !c.IsLidOn() {
		return
	}
	if kpa := kinetics.ToKPa(e.Pressure()); kpa > kinetics.MaxPressureKPa {
		c.BlowLidOff()
		e.log.Info("lid blown off", "pressure_kpa", kpa)
	}
}

// Pressure is the reported pressure in AMU/(pm·ps²) from the configured source.
func (e *Engine) Pressure() float64 {
	if e.setup.PressureSource == thermo.SourceImpulse {
		p, _ := e.gauge.Pressure()
		return p
	}
	return e.controller.Pressure()
}

// ImpulsePressure is the gauge reading regardless of the configured source.
func (e *Engine) ImpulsePressure() (float64, bool) { return e.gauge.Pressure() }
